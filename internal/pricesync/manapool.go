package pricesync

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"artistconnection/internal/config"
	"artistconnection/internal/domain"
)

// PriceStore is the slice of the price repository the sync jobs need.
type PriceStore interface {
	DeleteAllCardPrices(ctx context.Context) (int64, error)
	InsertCardPrices(ctx context.Context, prices []domain.CardPrice) error
	DeleteAllCardKingdomPrices(ctx context.Context) (int64, error)
	InsertCardKingdomPrices(ctx context.Context, prices []domain.CardKingdomPrice) error
}

type manapoolResponse struct {
	Data []manapoolRecord `json:"data"`
}

type manapoolRecord struct {
	Name                 string  `json:"name"`
	SetCode              string  `json:"set_code"`
	Number               string  `json:"number"`
	MultiverseID         string  `json:"multiverse_id"`
	ScryfallID           string  `json:"scryfall_id"`
	AvailableQuantity    int64   `json:"available_quantity"`
	PriceCents           int64   `json:"price_cents"`
	PriceCentsLPPlus     int64   `json:"price_cents_lp_plus"`
	PriceCentsNM         int64   `json:"price_cents_nm"`
	PriceCentsFoil       int64   `json:"price_cents_foil"`
	PriceCentsLPPlusFoil int64   `json:"price_cents_lp_plus_foil"`
	PriceCentsNMFoil     int64   `json:"price_cents_nm_foil"`
	PriceCentsEtched     int64   `json:"price_cents_etched"`
	PriceCentsLPPlusEtch int64   `json:"price_cents_lp_plus_etched"`
	PriceCentsNMEtched   int64   `json:"price_cents_nm_etched"`
	PriceMarket          float64 `json:"price_market"`
	PriceMarketFoil      float64 `json:"price_market_foil"`
	URL                  string  `json:"url"`
}

// ManapoolJob replaces the Manapool price snapshot from the public feed.
type ManapoolJob struct {
	feed   *feedClient
	url    string
	prices PriceStore
	now    func() time.Time
}

func NewManapoolJob(cfg config.Feeds, prices PriceStore) *ManapoolJob {
	return &ManapoolJob{
		feed:   newFeedClient(cfg),
		url:    cfg.ManapoolURL,
		prices: prices,
		now:    time.Now,
	}
}

func (j *ManapoolJob) Run(ctx context.Context) error {
	log.Info("manapool sync: starting price fetch")

	body, err := j.feed.get(ctx, j.url, nil)
	if err != nil {
		log.WithError(err).Error("manapool sync: fetch failed")
		return err
	}

	var feed manapoolResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		log.WithError(err).Error("manapool sync: failed to decode feed")
		return err
	}
	log.WithField("records", len(feed.Data)).Info("manapool sync: feed received")

	fetchedAt := j.now()
	rows := make([]domain.CardPrice, 0, len(feed.Data))
	for _, rec := range feed.Data {
		rows = append(rows, domain.CardPrice{
			ID:                   uuid.New().String(),
			Name:                 rec.Name,
			SetCode:              rec.SetCode,
			Number:               rec.Number,
			MultiverseID:         rec.MultiverseID,
			ScryfallID:           rec.ScryfallID,
			AvailableQuantity:    rec.AvailableQuantity,
			PriceCents:           rec.PriceCents,
			PriceCentsLPPlus:     rec.PriceCentsLPPlus,
			PriceCentsNM:         rec.PriceCentsNM,
			PriceCentsFoil:       rec.PriceCentsFoil,
			PriceCentsLPPlusFoil: rec.PriceCentsLPPlusFoil,
			PriceCentsNMFoil:     rec.PriceCentsNMFoil,
			PriceCentsEtched:     rec.PriceCentsEtched,
			PriceCentsLPPlusEtch: rec.PriceCentsLPPlusEtch,
			PriceCentsNMEtched:   rec.PriceCentsNMEtched,
			PriceMarket:          toCents(rec.PriceMarket),
			PriceMarketFoil:      toCents(rec.PriceMarketFoil),
			URL:                  rec.URL,
			FetchedAt:            fetchedAt,
		})
	}

	deleted, err := j.prices.DeleteAllCardPrices(ctx)
	if err != nil {
		log.WithError(err).Error("manapool sync: failed to clear old snapshot")
		return err
	}
	log.WithField("deleted", deleted).Info("manapool sync: cleared previous snapshot")

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := j.prices.InsertCardPrices(ctx, rows[start:end]); err != nil {
			log.WithError(err).WithField("batch_start", start).Error("manapool sync: batch insert failed")
			return err
		}
	}

	log.WithField("records", len(rows)).Info("manapool sync: snapshot stored")
	return nil
}
