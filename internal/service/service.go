package service

import (
	"context"
	"time"

	"artistconnection/internal/domain"

	log "github.com/sirupsen/logrus"
)

const serviceName = "artistconnection"

type ArtistRepository interface {
	List(ctx context.Context) ([]domain.Artist, error)
	GetByID(ctx context.Context, id string) (*domain.Artist, error)
	GetByName(ctx context.Context, name string) (*domain.Artist, error)
	Create(ctx context.Context, a *domain.Artist) error
	UpdateFields(ctx context.Context, id string, upd domain.ArtistUpdate) (*domain.Artist, []string, error)
	Delete(ctx context.Context, id string) (*domain.Artist, error)
	DeleteAll(ctx context.Context) ([]domain.Artist, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type EventRepository interface {
	Create(ctx context.Context, e *domain.SigningEvent) error
	List(ctx context.Context) ([]domain.SigningEvent, error)
	GetByID(ctx context.Context, id string) (*domain.SigningEvent, error)
	GetByName(ctx context.Context, name string) (*domain.SigningEvent, error)
	CreateMapping(ctx context.Context, m *domain.MapArtistToEvent) error
	GetMapping(ctx context.Context, artistName, eventID string) (*domain.MapArtistToEvent, error)
	ListMappings(ctx context.Context) ([]domain.MapArtistToEvent, error)
	MappingsByEventID(ctx context.Context, eventID string) ([]domain.MapArtistToEvent, error)
}

type ChangeRepository interface {
	InsertArtistChange(ctx context.Context, c *domain.ArtistChange) error
	InsertEventChange(ctx context.Context, c *domain.EventChange) error
}

type AuditPublisher interface {
	Publish(ctx context.Context, event domain.AuditEvent) error
}

// publishAudit is best effort: a broker outage must never fail a mutation.
func publishAudit(ctx context.Context, audit AuditPublisher, eventType, entityID, actor string, payload map[string]interface{}) {
	if audit == nil {
		return
	}
	event := domain.AuditEvent{
		Service:    serviceName,
		EventType:  eventType,
		EntityID:   entityID,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	if err := audit.Publish(ctx, event); err != nil {
		log.WithError(err).WithField("event_type", eventType).Warn("Failed to publish audit event")
	}
}
