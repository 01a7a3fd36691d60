package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"artistconnection/internal/domain"

	log "github.com/sirupsen/logrus"
)

const artistColumns = `id, name, email, artist_proofs, facebook, have_signature, instagram,
	patreon, signing, signing_comment, twitter, url, youtube, mountainmage,
	markssignatureservice, filename, artstation, location, bluesky, omalink,
	inprnt, alternate_names, scryfall_name, created_at, updated_at`

type postgresArtistRepository struct {
	db *sql.DB
}

func NewPostgresArtistRepository(db *sql.DB) *postgresArtistRepository {
	return &postgresArtistRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArtist(row rowScanner) (*domain.Artist, error) {
	var a domain.Artist
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.ArtistProofs, &a.Facebook, &a.HaveSignature,
		&a.Instagram, &a.Patreon, &a.Signing, &a.SigningComment, &a.Twitter,
		&a.URL, &a.Youtube, &a.Mountainmage, &a.MarksSignatureService,
		&a.Filename, &a.Artstation, &a.Location, &a.Bluesky, &a.OmaLink,
		&a.Inprnt, &a.AlternateNames, &a.ScryfallName, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns all artists ordered case-insensitively by name.
func (r *postgresArtistRepository) List(ctx context.Context) ([]domain.Artist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT ` + artistColumns + ` FROM artists ORDER BY lower(name), name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []domain.Artist
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan artist row")
			return nil, err
		}
		artists = append(artists, *a)
	}
	return artists, rows.Err()
}

func (r *postgresArtistRepository) GetByID(ctx context.Context, id string) (*domain.Artist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT ` + artistColumns + ` FROM artists WHERE id = $1`
	a, err := scanArtist(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrArtistNotFound
	}
	if err != nil {
		log.WithError(err).WithField("artist_id", id).Error("Failed to get artist by ID")
		return nil, err
	}
	return a, nil
}

func (r *postgresArtistRepository) GetByName(ctx context.Context, name string) (*domain.Artist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT ` + artistColumns + ` FROM artists WHERE name = $1`
	a, err := scanArtist(r.db.QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, domain.ErrArtistNotFound
	}
	if err != nil {
		log.WithError(err).WithField("name", name).Error("Failed to get artist by name")
		return nil, err
	}
	return a, nil
}

func (r *postgresArtistRepository) Create(ctx context.Context, a *domain.Artist) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	log.WithFields(log.Fields{
		"artist_id": a.ID,
		"name":      a.Name,
	}).Info("Creating new artist in database")

	query := `
		INSERT INTO artists (
			id, name, email, artist_proofs, facebook, have_signature, instagram,
			patreon, signing, signing_comment, twitter, url, youtube, mountainmage,
			markssignatureservice, filename, artstation, location, bluesky, omalink,
			inprnt, alternate_names, scryfall_name
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Name, a.Email, a.ArtistProofs, a.Facebook, a.HaveSignature,
		a.Instagram, a.Patreon, a.Signing, a.SigningComment, a.Twitter,
		a.URL, a.Youtube, a.Mountainmage, a.MarksSignatureService,
		a.Filename, a.Artstation, a.Location, a.Bluesky, a.OmaLink,
		a.Inprnt, a.AlternateNames, a.ScryfallName,
	)
	if err != nil {
		log.WithError(err).WithField("name", a.Name).Error("Failed to create artist")
		return fmt.Errorf("failed to create artist: %w", err)
	}
	return nil
}

// UpdateFields applies upd inside a transaction scoped to the read-then-write
// pair and returns the updated artist plus the names of fields that changed.
func (r *postgresArtistRepository) UpdateFields(ctx context.Context, id string, upd domain.ArtistUpdate) (*domain.Artist, []string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + artistColumns + ` FROM artists WHERE id = $1 FOR UPDATE`
	a, err := scanArtist(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil, domain.ErrArtistNotFound
	}
	if err != nil {
		log.WithError(err).WithField("artist_id", id).Error("Failed to load artist for update")
		return nil, nil, err
	}

	changed := domain.ApplyUpdate(a, upd)

	update := `
		UPDATE artists SET
			name = $2, email = $3, artist_proofs = $4, facebook = $5,
			have_signature = $6, instagram = $7, patreon = $8, signing = $9,
			signing_comment = $10, twitter = $11, url = $12, youtube = $13,
			mountainmage = $14, markssignatureservice = $15, filename = $16,
			artstation = $17, location = $18, bluesky = $19, omalink = $20,
			inprnt = $21, alternate_names = $22, scryfall_name = $23,
			updated_at = NOW()
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, update,
		a.ID, a.Name, a.Email, a.ArtistProofs, a.Facebook, a.HaveSignature,
		a.Instagram, a.Patreon, a.Signing, a.SigningComment, a.Twitter,
		a.URL, a.Youtube, a.Mountainmage, a.MarksSignatureService,
		a.Filename, a.Artstation, a.Location, a.Bluesky, a.OmaLink,
		a.Inprnt, a.AlternateNames, a.ScryfallName,
	); err != nil {
		log.WithError(err).WithField("artist_id", id).Error("Failed to update artist")
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit artist update: %w", err)
	}
	return a, changed, nil
}

// Delete removes the artist inside a transaction scoping the find-then-delete
// pair and returns the deleted record.
func (r *postgresArtistRepository) Delete(ctx context.Context, id string) (*domain.Artist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	log.WithField("artist_id", id).Info("Deleting artist")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + artistColumns + ` FROM artists WHERE id = $1 FOR UPDATE`
	a, err := scanArtist(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrArtistNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM artists WHERE id = $1`, id); err != nil {
		log.WithError(err).WithField("artist_id", id).Error("Failed to delete artist")
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit artist delete: %w", err)
	}
	return a, nil
}

func (r *postgresArtistRepository) DeleteAll(ctx context.Context) ([]domain.Artist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	artists, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM artists`); err != nil {
		log.WithError(err).Error("Failed to delete all artists")
		return nil, err
	}
	return artists, nil
}

// ListNameLinks returns the name/scryfall_name projection the catalog diff
// job reconciles against.
func (r *postgresArtistRepository) ListNameLinks(ctx context.Context) ([]domain.ArtistNameLink, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, scryfall_name FROM artists`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.ArtistNameLink
	for rows.Next() {
		var l domain.ArtistNameLink
		if err := rows.Scan(&l.ID, &l.Name, &l.ScryfallName); err != nil {
			log.WithError(err).Error("Failed to scan artist name link row")
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *postgresArtistRepository) SetScryfallName(ctx context.Context, id, scryfallName string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.db.ExecContext(ctx,
		`UPDATE artists SET scryfall_name = $2, updated_at = NOW() WHERE id = $1`,
		id, scryfallName)
	if err != nil {
		log.WithError(err).WithField("artist_id", id).Error("Failed to set scryfall name")
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrArtistNotFound
	}
	return nil
}
