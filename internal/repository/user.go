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

const userColumns = `id, name, email, password, role, site_updates, artist_updates,
	local_signing_events, followed_artists, monitored_states`

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *postgresUserRepository {
	return &postgresUserRepository{db: db}
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &u.Role,
		&u.EmailPreferences.SiteUpdates,
		&u.EmailPreferences.ArtistUpdates,
		&u.EmailPreferences.LocalSigningEvents,
		pq.Array(&u.FollowedArtists),
		pq.Array(&u.MonitoredStates),
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresUserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	log.WithFields(log.Fields{
		"user_id": u.ID,
		"email":   u.Email,
	}).Info("Creating new user in database")

	query := `
		INSERT INTO users (
			id, name, email, password, role, site_updates, artist_updates,
			local_signing_events, followed_artists, monitored_states
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Name, u.Email, u.Password, u.Role,
		u.EmailPreferences.SiteUpdates,
		u.EmailPreferences.ArtistUpdates,
		u.EmailPreferences.LocalSigningEvents,
		pq.Array(u.FollowedArtists),
		pq.Array(u.MonitoredStates),
	)
	if err != nil {
		log.WithError(err).WithField("email", u.Email).Error("Failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		log.WithError(err).WithField("user_id", id).Error("Failed to get user by ID")
		return nil, err
	}
	return u, nil
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		log.WithError(err).WithField("email", email).Error("Failed to get user by email")
		return nil, err
	}
	return u, nil
}

func (r *postgresUserRepository) List(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.queryUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY name`)
}

func (r *postgresUserRepository) Update(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		UPDATE users SET
			name = $2, email = $3, password = $4, role = $5, site_updates = $6,
			artist_updates = $7, local_signing_events = $8,
			followed_artists = $9, monitored_states = $10
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		u.ID, u.Name, u.Email, u.Password, u.Role,
		u.EmailPreferences.SiteUpdates,
		u.EmailPreferences.ArtistUpdates,
		u.EmailPreferences.LocalSigningEvents,
		pq.Array(u.FollowedArtists),
		pq.Array(u.MonitoredStates),
	)
	if err != nil {
		log.WithError(err).WithField("user_id", u.ID).Error("Failed to update user")
		return fmt.Errorf("failed to update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// FollowersOfArtists returns users with artist updates enabled whose followed
// set intersects names. When adminOnly is set only admin users are returned.
func (r *postgresUserRepository) FollowersOfArtists(ctx context.Context, names []string, adminOnly bool) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users
		WHERE artist_updates = true AND followed_artists && $1`
	if adminOnly {
		query += ` AND role = 'admin'`
	}
	return r.queryUsers(ctx, query, pq.Array(names))
}

// MonitorsOfStates returns users with local signing events enabled whose
// monitored set intersects states.
func (r *postgresUserRepository) MonitorsOfStates(ctx context.Context, states []string, adminOnly bool) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users
		WHERE local_signing_events = true AND monitored_states && $1`
	if adminOnly {
		query += ` AND role = 'admin'`
	}
	return r.queryUsers(ctx, query, pq.Array(states))
}

func (r *postgresUserRepository) Admins(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.queryUsers(ctx, `SELECT `+userColumns+` FROM users WHERE role = 'admin'`)
}

func (r *postgresUserRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan user row")
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
