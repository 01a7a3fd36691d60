package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"artistconnection/internal/domain"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

type postgresPriceRepository struct {
	db *sql.DB
}

func NewPostgresPriceRepository(db *sql.DB) *postgresPriceRepository {
	return &postgresPriceRepository{db: db}
}

func (r *postgresPriceRepository) DeleteAllCardPrices(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM card_prices`)
	if err != nil {
		log.WithError(err).Error("Failed to delete card price snapshot")
		return 0, err
	}
	return result.RowsAffected()
}

// InsertCardPrices bulk-loads one batch of the Manapool snapshot via COPY.
func (r *postgresPriceRepository) InsertCardPrices(ctx context.Context, prices []domain.CardPrice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("card_prices",
		"id", "name", "set_code", "number", "multiverse_id", "scryfall_id",
		"available_quantity", "price_cents", "price_cents_lp_plus",
		"price_cents_nm", "price_cents_foil", "price_cents_lp_plus_foil",
		"price_cents_nm_foil", "price_cents_etched",
		"price_cents_lp_plus_etched", "price_cents_nm_etched",
		"price_market", "price_market_foil", "url", "fetched_at",
	))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}

	for _, p := range prices {
		_, err = stmt.ExecContext(ctx,
			p.ID, p.Name, p.SetCode, p.Number, p.MultiverseID, p.ScryfallID,
			p.AvailableQuantity, p.PriceCents, p.PriceCentsLPPlus,
			p.PriceCentsNM, p.PriceCentsFoil, p.PriceCentsLPPlusFoil,
			p.PriceCentsNMFoil, p.PriceCentsEtched, p.PriceCentsLPPlusEtch,
			p.PriceCentsNMEtched, p.PriceMarket, p.PriceMarketFoil,
			p.URL, p.FetchedAt,
		)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("failed to copy card price row: %w", err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresPriceRepository) CardPricesByLookups(ctx context.Context, lookups []domain.CardLookup) ([]domain.CardPrice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if len(lookups) == 0 {
		return nil, nil
	}

	var query strings.Builder
	args := []interface{}{}
	query.WriteString(`
		SELECT id, name, set_code, number, multiverse_id, scryfall_id,
			available_quantity, price_cents, price_cents_lp_plus, price_cents_nm,
			price_cents_foil, price_cents_lp_plus_foil, price_cents_nm_foil,
			price_cents_etched, price_cents_lp_plus_etched, price_cents_nm_etched,
			price_market, price_market_foil, url, fetched_at
		FROM card_prices WHERE `)
	for i, l := range lookups {
		if i > 0 {
			query.WriteString(" OR ")
		}
		query.WriteString(fmt.Sprintf("(set_code = $%d AND number = $%d)", len(args)+1, len(args)+2))
		args = append(args, strings.ToUpper(l.SetCode), l.Number)
	}

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []domain.CardPrice
	for rows.Next() {
		var p domain.CardPrice
		err := rows.Scan(
			&p.ID, &p.Name, &p.SetCode, &p.Number, &p.MultiverseID, &p.ScryfallID,
			&p.AvailableQuantity, &p.PriceCents, &p.PriceCentsLPPlus,
			&p.PriceCentsNM, &p.PriceCentsFoil, &p.PriceCentsLPPlusFoil,
			&p.PriceCentsNMFoil, &p.PriceCentsEtched, &p.PriceCentsLPPlusEtch,
			&p.PriceCentsNMEtched, &p.PriceMarket, &p.PriceMarketFoil,
			&p.URL, &p.FetchedAt,
		)
		if err != nil {
			log.WithError(err).Error("Failed to scan card price row")
			return nil, err
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

func (r *postgresPriceRepository) DeleteAllCardKingdomPrices(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cardkingdom_prices`)
	if err != nil {
		log.WithError(err).Error("Failed to delete CardKingdom price snapshot")
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresPriceRepository) InsertCardKingdomPrices(ctx context.Context, prices []domain.CardKingdomPrice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("cardkingdom_prices",
		"id", "name", "edition", "condition", "language", "foil", "signed",
		"artist_proof", "altered_art", "misprint", "promo", "textless",
		"printing_id", "external_id", "scryfall_id", "price_cents", "url", "fetched_at",
	))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}

	for _, p := range prices {
		_, err = stmt.ExecContext(ctx,
			p.ID, p.Name, p.Edition, p.Condition, p.Language, p.Foil, p.Signed,
			p.ArtistProof, p.AlteredArt, p.Misprint, p.Promo, p.Textless,
			p.PrintingID, p.ExternalID, p.ScryfallID, p.PriceCents, p.URL, p.FetchedAt,
		)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("failed to copy CardKingdom price row: %w", err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return err
	}
	return tx.Commit()
}

// latestCardKingdomFetch returns the timestamp of the most recent snapshot,
// or zero when the table is empty.
func (r *postgresPriceRepository) latestCardKingdomFetch(ctx context.Context) (time.Time, error) {
	var fetchedAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT fetched_at FROM cardkingdom_prices ORDER BY fetched_at DESC LIMIT 1`).
		Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	return fetchedAt, err
}

// CardKingdomPricesByNames returns latest-snapshot NM non-foil rows matching
// the names case-insensitively.
func (r *postgresPriceRepository) CardKingdomPricesByNames(ctx context.Context, names []string) ([]domain.CardKingdomPrice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}

	latest, err := r.latestCardKingdomFetch(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, edition, condition, language, foil, signed, artist_proof,
			altered_art, misprint, promo, textless, printing_id, external_id,
			scryfall_id, price_cents, url, fetched_at
		FROM cardkingdom_prices
		WHERE lower(name) = ANY($1) AND condition = 'NM' AND foil = false
	`
	args := []interface{}{pq.Array(lowered)}
	if !latest.IsZero() {
		query += ` AND fetched_at = $2`
		args = append(args, latest)
	}
	return r.queryCardKingdom(ctx, query, args...)
}

func (r *postgresPriceRepository) CardKingdomPricesByScryfallIDs(ctx context.Context, scryfallIDs []string) ([]domain.CardKingdomPrice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	latest, err := r.latestCardKingdomFetch(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, edition, condition, language, foil, signed, artist_proof,
			altered_art, misprint, promo, textless, printing_id, external_id,
			scryfall_id, price_cents, url, fetched_at
		FROM cardkingdom_prices
		WHERE scryfall_id = ANY($1) AND condition = 'NM' AND foil = false
	`
	args := []interface{}{pq.Array(scryfallIDs)}
	if !latest.IsZero() {
		query += ` AND fetched_at = $2`
		args = append(args, latest)
	}
	return r.queryCardKingdom(ctx, query, args...)
}

func (r *postgresPriceRepository) queryCardKingdom(ctx context.Context, query string, args ...interface{}) ([]domain.CardKingdomPrice, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []domain.CardKingdomPrice
	for rows.Next() {
		var p domain.CardKingdomPrice
		err := rows.Scan(
			&p.ID, &p.Name, &p.Edition, &p.Condition, &p.Language, &p.Foil,
			&p.Signed, &p.ArtistProof, &p.AlteredArt, &p.Misprint, &p.Promo,
			&p.Textless, &p.PrintingID, &p.ExternalID, &p.ScryfallID,
			&p.PriceCents, &p.URL, &p.FetchedAt,
		)
		if err != nil {
			log.WithError(err).Error("Failed to scan CardKingdom price row")
			return nil, err
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}
