package digest

import (
	"context"
	"time"

	"artistconnection/internal/domain"
)

// ChangeStore is the slice of the change repository the digest runs need.
type ChangeStore interface {
	UnprocessedArtistChanges(ctx context.Context) ([]domain.ArtistChange, error)
	UnprocessedEventChanges(ctx context.Context) ([]domain.EventChange, error)
	MarkArtistChangesProcessed(ctx context.Context, ids []string, at time.Time) error
	MarkEventChangesProcessed(ctx context.Context, ids []string, at time.Time) error
}

type SubscriberStore interface {
	FollowersOfArtists(ctx context.Context, names []string, adminOnly bool) ([]domain.User, error)
	MonitorsOfStates(ctx context.Context, states []string, adminOnly bool) ([]domain.User, error)
}

type MappingStore interface {
	MappingsByEventIDs(ctx context.Context, eventIDs []string) ([]domain.MapArtistToEvent, error)
}

// Sender delivers one rendered message. Failures are logged by the digest
// runs and never retried.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// Service runs the daily artist and event digests.
type Service struct {
	changes     ChangeStore
	subscribers SubscriberStore
	mappings    MappingStore
	sender      Sender
	frontendURL string
	adminOnly   bool
	now         func() time.Time
}

func NewService(changes ChangeStore, subscribers SubscriberStore, mappings MappingStore, sender Sender, frontendURL string, adminOnly bool) *Service {
	return &Service{
		changes:     changes,
		subscribers: subscribers,
		mappings:    mappings,
		sender:      sender,
		frontendURL: frontendURL,
		adminOnly:   adminOnly,
		now:         time.Now,
	}
}
