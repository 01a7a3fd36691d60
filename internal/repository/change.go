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

type postgresChangeRepository struct {
	db *sql.DB
}

func NewPostgresChangeRepository(db *sql.DB) *postgresChangeRepository {
	return &postgresChangeRepository{db: db}
}

func (r *postgresChangeRepository) InsertArtistChange(ctx context.Context, c *domain.ArtistChange) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO artist_changes (
			id, artist_name, change_type, fields_changed, event_id, event_name,
			event_start_date, event_end_date, event_location, timestamp, processed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.ArtistName, c.Kind, pq.Array(c.FieldsChanged),
		c.EventID, c.EventName, c.EventStartDate, c.EventEndDate,
		c.EventLocation, c.Timestamp,
	)
	if err != nil {
		log.WithError(err).WithField("artist_name", c.ArtistName).Error("Failed to insert artist change")
		return fmt.Errorf("failed to insert artist change: %w", err)
	}
	return nil
}

func (r *postgresChangeRepository) InsertEventChange(ctx context.Context, c *domain.EventChange) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO event_changes (
			id, event_id, event_name, city, state, start_date, end_date, url,
			change_type, artist_name, timestamp, processed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, false)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.EventID, c.EventName, c.City, c.State, c.StartDate, c.EndDate,
		c.URL, c.Kind, c.ArtistName, c.Timestamp,
	)
	if err != nil {
		log.WithError(err).WithField("event_id", c.EventID).Error("Failed to insert event change")
		return fmt.Errorf("failed to insert event change: %w", err)
	}
	return nil
}

// UnprocessedArtistChanges returns artist changes in arrival order.
func (r *postgresChangeRepository) UnprocessedArtistChanges(ctx context.Context) ([]domain.ArtistChange, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, artist_name, change_type, fields_changed, event_id, event_name,
			event_start_date, event_end_date, event_location, timestamp,
			processed, processed_at
		FROM artist_changes
		WHERE processed = false
		ORDER BY timestamp
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []domain.ArtistChange
	for rows.Next() {
		var c domain.ArtistChange
		var processedAt sql.NullTime
		err := rows.Scan(
			&c.ID, &c.ArtistName, &c.Kind, pq.Array(&c.FieldsChanged),
			&c.EventID, &c.EventName, &c.EventStartDate, &c.EventEndDate,
			&c.EventLocation, &c.Timestamp, &c.Processed, &processedAt,
		)
		if err != nil {
			log.WithError(err).Error("Failed to scan artist change row")
			return nil, err
		}
		if processedAt.Valid {
			c.ProcessedAt = &processedAt.Time
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

func (r *postgresChangeRepository) UnprocessedEventChanges(ctx context.Context) ([]domain.EventChange, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, event_id, event_name, city, state, start_date, end_date, url,
			change_type, artist_name, timestamp, processed, processed_at
		FROM event_changes
		WHERE processed = false
		ORDER BY timestamp
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []domain.EventChange
	for rows.Next() {
		var c domain.EventChange
		var processedAt sql.NullTime
		err := rows.Scan(
			&c.ID, &c.EventID, &c.EventName, &c.City, &c.State, &c.StartDate,
			&c.EndDate, &c.URL, &c.Kind, &c.ArtistName, &c.Timestamp,
			&c.Processed, &processedAt,
		)
		if err != nil {
			log.WithError(err).Error("Failed to scan event change row")
			return nil, err
		}
		if processedAt.Valid {
			c.ProcessedAt = &processedAt.Time
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// MarkArtistChangesProcessed stamps only the ids read at the start of the
// digest run, so changes written during the run stay unprocessed.
func (r *postgresChangeRepository) MarkArtistChangesProcessed(ctx context.Context, ids []string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`UPDATE artist_changes SET processed = true, processed_at = $2 WHERE id = ANY($1)`,
		pq.Array(ids), at)
	if err != nil {
		log.WithError(err).Error("Failed to mark artist changes processed")
		return fmt.Errorf("failed to mark artist changes processed: %w", err)
	}
	return nil
}

func (r *postgresChangeRepository) MarkEventChangesProcessed(ctx context.Context, ids []string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`UPDATE event_changes SET processed = true, processed_at = $2 WHERE id = ANY($1)`,
		pq.Array(ids), at)
	if err != nil {
		log.WithError(err).Error("Failed to mark event changes processed")
		return fmt.Errorf("failed to mark event changes processed: %w", err)
	}
	return nil
}
