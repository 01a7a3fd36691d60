package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"artistconnection/internal/domain"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) *postgresEventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `id, name, city, state, start_date, end_date, url`

func scanEvent(row rowScanner) (*domain.SigningEvent, error) {
	var e domain.SigningEvent
	if err := row.Scan(&e.ID, &e.Name, &e.City, &e.State, &e.StartDate, &e.EndDate, &e.URL); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *postgresEventRepository) Create(ctx context.Context, e *domain.SigningEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	log.WithFields(log.Fields{
		"event_id": e.ID,
		"name":     e.Name,
	}).Info("Creating new signing event in database")

	query := `
		INSERT INTO signing_events (id, name, city, state, start_date, end_date, url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.Name, e.City, e.State, e.StartDate, e.EndDate, e.URL)
	if err != nil {
		log.WithError(err).WithField("name", e.Name).Error("Failed to create signing event")
		return fmt.Errorf("failed to create signing event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) List(ctx context.Context) ([]domain.SigningEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM signing_events ORDER BY start_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.SigningEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan signing event row")
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id string) (*domain.SigningEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	e, err := scanEvent(r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM signing_events WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		log.WithError(err).WithField("event_id", id).Error("Failed to get signing event by ID")
		return nil, err
	}
	return e, nil
}

func (r *postgresEventRepository) GetByName(ctx context.Context, name string) (*domain.SigningEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	e, err := scanEvent(r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM signing_events WHERE name = $1`, name))
	if err == sql.ErrNoRows {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		log.WithError(err).WithField("name", name).Error("Failed to get signing event by name")
		return nil, err
	}
	return e, nil
}

func (r *postgresEventRepository) CreateMapping(ctx context.Context, m *domain.MapArtistToEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `INSERT INTO map_artist_to_event (id, artist_name, event_id) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, m.ID, m.ArtistName, m.EventID); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"artist_name": m.ArtistName,
			"event_id":    m.EventID,
		}).Error("Failed to map artist to event")
		return fmt.Errorf("failed to map artist to event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) GetMapping(ctx context.Context, artistName, eventID string) (*domain.MapArtistToEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var m domain.MapArtistToEvent
	err := r.db.QueryRowContext(ctx,
		`SELECT id, artist_name, event_id FROM map_artist_to_event WHERE artist_name = $1 AND event_id = $2`,
		artistName, eventID).Scan(&m.ID, &m.ArtistName, &m.EventID)
	if err == sql.ErrNoRows {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *postgresEventRepository) ListMappings(ctx context.Context) ([]domain.MapArtistToEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.queryMappings(ctx, `SELECT id, artist_name, event_id FROM map_artist_to_event`)
}

// MappingsByEventID returns an event's roster ordered by artist name.
func (r *postgresEventRepository) MappingsByEventID(ctx context.Context, eventID string) ([]domain.MapArtistToEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.queryMappings(ctx,
		`SELECT id, artist_name, event_id FROM map_artist_to_event WHERE event_id = $1 ORDER BY artist_name`,
		eventID)
}

// MappingsByEventIDs returns the rosters for every referenced event in one
// query, used by the event digest.
func (r *postgresEventRepository) MappingsByEventIDs(ctx context.Context, eventIDs []string) ([]domain.MapArtistToEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.queryMappings(ctx,
		`SELECT id, artist_name, event_id FROM map_artist_to_event WHERE event_id = ANY($1) ORDER BY artist_name`,
		pq.Array(eventIDs))
}

func (r *postgresEventRepository) queryMappings(ctx context.Context, query string, args ...interface{}) ([]domain.MapArtistToEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mappings []domain.MapArtistToEvent
	for rows.Next() {
		var m domain.MapArtistToEvent
		if err := rows.Scan(&m.ID, &m.ArtistName, &m.EventID); err != nil {
			log.WithError(err).Error("Failed to scan artist-event mapping row")
			return nil, err
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}
