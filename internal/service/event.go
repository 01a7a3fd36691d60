package service

import (
	"context"
	"errors"
	"time"

	"artistconnection/internal/domain"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type EventService struct {
	eventRepo  EventRepository
	artistRepo ArtistRepository
	changeRepo ChangeRepository
	audit      AuditPublisher
}

func NewEventService(eventRepo EventRepository, artistRepo ArtistRepository, changeRepo ChangeRepository, audit AuditPublisher) *EventService {
	return &EventService{
		eventRepo:  eventRepo,
		artistRepo: artistRepo,
		changeRepo: changeRepo,
		audit:      audit,
	}
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.SigningEvent, error) {
	return s.eventRepo.List(ctx)
}

func (s *EventService) ListMappings(ctx context.Context) ([]domain.MapArtistToEvent, error) {
	return s.eventRepo.ListMappings(ctx)
}

func (s *EventService) MappingsByEventID(ctx context.Context, eventID string) ([]domain.MapArtistToEvent, error) {
	return s.eventRepo.MappingsByEventID(ctx, eventID)
}

// CreateEvent stores a signing event and, when the event carries a state,
// records an EventChange so monitoring users get notified.
func (s *EventService) CreateEvent(ctx context.Context, event *domain.SigningEvent, actor string) (*domain.SigningEvent, error) {
	if event.Name == "" || event.City == "" {
		return nil, errors.New("event name and city are required")
	}

	existing, err := s.eventRepo.GetByName(ctx, event.Name)
	if err != nil && !errors.Is(err, domain.ErrEventNotFound) {
		log.WithError(err).WithField("name", event.Name).Error("Failed to check event existence")
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEventExists
	}

	event.ID = uuid.New().String()
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	if event.State != "" {
		change := &domain.EventChange{
			ID:        uuid.New().String(),
			EventID:   event.ID,
			EventName: event.Name,
			City:      event.City,
			State:     event.State,
			StartDate: event.StartDate,
			EndDate:   event.EndDate,
			URL:       event.URL,
			Kind:      domain.EventChangeNewEvent,
			Timestamp: time.Now().UTC(),
		}
		if err := s.changeRepo.InsertEventChange(ctx, change); err != nil {
			log.WithError(err).WithField("event_id", event.ID).Warn("Failed to record event change")
		}
	}

	s.publishAudit(ctx, "event.created", event.ID, actor, map[string]interface{}{"name": event.Name})
	return event, nil
}

// MapArtistToEvent associates an artist with an event and records an
// ArtistChange for the artist's followers plus, for state-tagged events, an
// EventChange for state monitors.
func (s *EventService) MapArtistToEvent(ctx context.Context, artistName, eventID, actor string) (*domain.MapArtistToEvent, error) {
	existing, err := s.eventRepo.GetMapping(ctx, artistName, eventID)
	if err != nil && !errors.Is(err, domain.ErrEventNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrMappingExists
	}

	mapping := &domain.MapArtistToEvent{
		ID:         uuid.New().String(),
		ArtistName: artistName,
		EventID:    eventID,
	}
	if err := s.eventRepo.CreateMapping(ctx, mapping); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		// Mapping saved against a missing event; nothing to notify about.
		log.WithError(err).WithField("event_id", eventID).Warn("Mapped artist to unknown event")
		return mapping, nil
	}

	now := time.Now().UTC()
	artistChange := &domain.ArtistChange{
		ID:             uuid.New().String(),
		ArtistName:     artistName,
		Kind:           domain.ArtistChangeAddedToEvent,
		EventID:        event.ID,
		EventName:      event.Name,
		EventStartDate: event.StartDate,
		EventEndDate:   event.EndDate,
		EventLocation:  event.Location(),
		Timestamp:      now,
	}
	if err := s.changeRepo.InsertArtistChange(ctx, artistChange); err != nil {
		log.WithError(err).WithField("artist_name", artistName).Warn("Failed to record artist change")
	}

	if event.State != "" {
		eventChange := &domain.EventChange{
			ID:         uuid.New().String(),
			EventID:    event.ID,
			EventName:  event.Name,
			City:       event.City,
			State:      event.State,
			StartDate:  event.StartDate,
			EndDate:    event.EndDate,
			URL:        event.URL,
			Kind:       domain.EventChangeArtistAdded,
			ArtistName: artistName,
			Timestamp:  now,
		}
		if err := s.changeRepo.InsertEventChange(ctx, eventChange); err != nil {
			log.WithError(err).WithField("event_id", event.ID).Warn("Failed to record event change")
		}
	}

	s.publishAudit(ctx, "event.artist_added", event.ID, actor, map[string]interface{}{
		"event_name":  event.Name,
		"artist_name": artistName,
	})
	return mapping, nil
}

func (s *EventService) publishAudit(ctx context.Context, eventType, entityID, actor string, payload map[string]interface{}) {
	publishAudit(ctx, s.audit, eventType, entityID, actor, payload)
}
