package service

import (
	"context"
	"errors"
	"time"

	"artistconnection/internal/domain"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type ArtistService struct {
	artistRepo ArtistRepository
	changeRepo ChangeRepository
	audit      AuditPublisher
}

func NewArtistService(artistRepo ArtistRepository, changeRepo ChangeRepository, audit AuditPublisher) *ArtistService {
	return &ArtistService{
		artistRepo: artistRepo,
		changeRepo: changeRepo,
		audit:      audit,
	}
}

func (s *ArtistService) ListArtists(ctx context.Context) ([]domain.Artist, error) {
	artists, err := s.artistRepo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list artists")
		return nil, err
	}
	return artists, nil
}

func (s *ArtistService) GetArtistByID(ctx context.Context, id string) (*domain.Artist, error) {
	return s.artistRepo.GetByID(ctx, id)
}

func (s *ArtistService) GetArtistByName(ctx context.Context, name string) (*domain.Artist, error) {
	return s.artistRepo.GetByName(ctx, name)
}

func (s *ArtistService) CreateArtist(ctx context.Context, artist *domain.Artist, actor string) (*domain.Artist, error) {
	if err := domain.ValidateArtistName(artist.Name); err != nil {
		return nil, err
	}

	existing, err := s.artistRepo.GetByName(ctx, artist.Name)
	if err != nil && !errors.Is(err, domain.ErrArtistNotFound) {
		log.WithError(err).WithField("name", artist.Name).Error("Failed to check artist existence")
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrArtistExists
	}

	artist.ID = uuid.New().String()
	if err := s.artistRepo.Create(ctx, artist); err != nil {
		return nil, err
	}

	s.publishAudit(ctx, "artist.created", artist.ID, actor, map[string]interface{}{"name": artist.Name})
	return artist, nil
}

// UpdateArtistField sets a single named field. The field name must belong to
// the updatable-field enumeration.
func (s *ArtistService) UpdateArtistField(ctx context.Context, id, field, value, actor string) (*domain.Artist, error) {
	upd, err := domain.UpdateForField(field, value)
	if err != nil {
		return nil, err
	}
	return s.updateArtist(ctx, id, upd, actor)
}

// UpdateArtistBulk applies a multi-field update and records an ArtistChange
// when any field actually changed.
func (s *ArtistService) UpdateArtistBulk(ctx context.Context, id string, upd domain.ArtistUpdate, actor string) (*domain.Artist, error) {
	return s.updateArtist(ctx, id, upd, actor)
}

func (s *ArtistService) updateArtist(ctx context.Context, id string, upd domain.ArtistUpdate, actor string) (*domain.Artist, error) {
	artist, changed, err := s.artistRepo.UpdateFields(ctx, id, upd)
	if err != nil {
		log.WithError(err).WithField("artist_id", id).Error("Failed to update artist")
		return nil, err
	}

	if len(changed) > 0 {
		change := &domain.ArtistChange{
			ID:            uuid.New().String(),
			ArtistName:    artist.Name,
			Kind:          domain.ArtistChangeUpdate,
			FieldsChanged: changed,
			Timestamp:     time.Now().UTC(),
		}
		if err := s.changeRepo.InsertArtistChange(ctx, change); err != nil {
			// The update itself succeeded; a lost change record only costs a
			// digest entry.
			log.WithError(err).WithField("artist_id", id).Warn("Failed to record artist change")
		}
		s.publishAudit(ctx, "artist.updated", artist.ID, actor, map[string]interface{}{
			"name":           artist.Name,
			"fields_changed": changed,
		})
	}

	return artist, nil
}

func (s *ArtistService) DeleteArtist(ctx context.Context, id, actor string) (*domain.Artist, error) {
	artist, err := s.artistRepo.Delete(ctx, id)
	if err != nil {
		log.WithError(err).WithField("artist_id", id).Error("Failed to delete artist")
		return nil, err
	}
	s.publishAudit(ctx, "artist.deleted", artist.ID, actor, map[string]interface{}{"name": artist.Name})
	return artist, nil
}

func (s *ArtistService) DeleteAllArtists(ctx context.Context, actor string) ([]domain.Artist, error) {
	artists, err := s.artistRepo.DeleteAll(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to delete all artists")
		return nil, err
	}
	s.publishAudit(ctx, "artist.deleted_all", "", actor, map[string]interface{}{"count": len(artists)})
	return artists, nil
}

func (s *ArtistService) publishAudit(ctx context.Context, eventType, entityID, actor string, payload map[string]interface{}) {
	publishAudit(ctx, s.audit, eventType, entityID, actor, payload)
}
