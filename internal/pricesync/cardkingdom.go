package pricesync

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"artistconnection/internal/config"
	"artistconnection/internal/domain"
)

// ckRecord tolerates the field-name variants the CardKingdom pricelist has
// shipped under.
type ckRecord struct {
	Name          string  `json:"name"`
	Edition       string  `json:"edition"`
	SetName       string  `json:"set_name"`
	Condition     string  `json:"condition"`
	Language      string  `json:"language"`
	IsFoil        bool    `json:"is_foil"`
	Foil          bool    `json:"foil"`
	IsSigned      bool    `json:"is_signed"`
	Signed        bool    `json:"signed"`
	IsArtistProof bool    `json:"is_artist_proof"`
	ArtistProof   bool    `json:"artist_proof"`
	IsAltered     bool    `json:"is_altered"`
	AlteredArt    bool    `json:"altered_art"`
	IsMisprint    bool    `json:"is_misprint"`
	Misprint      bool    `json:"misprint"`
	IsPromo       bool    `json:"is_promo"`
	Promo         bool    `json:"promo"`
	IsTextless    bool    `json:"is_textless"`
	Textless      bool    `json:"textless"`
	PrintingID    int64   `json:"printing_id"`
	ID            int64   `json:"id"`
	CKID          int64   `json:"ck_id"`
	ScryfallID    string  `json:"scryfall_id"`
	Price         float64 `json:"price"`
	RetailPrice   float64 `json:"retail_price"`
	URL           string  `json:"url"`
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func firstNonZero(a, b int64) int64 {
	if a != 0 {
		return a
	}
	return b
}

func mapCardKingdomRecord(rec ckRecord, fetchedAt time.Time) domain.CardKingdomPrice {
	condition := rec.Condition
	if condition == "" {
		condition = "NM"
	}
	language := rec.Language
	if language == "" {
		language = "English"
	}
	price := rec.Price
	if price == 0 {
		price = rec.RetailPrice
	}
	url := rec.URL
	if url == "" {
		slug := strings.Join(strings.Fields(strings.ToLower(rec.Name)), "-")
		url = "https://www.cardkingdom.com/mtg/" + slug
	}
	return domain.CardKingdomPrice{
		ID:          uuid.New().String(),
		Name:        rec.Name,
		Edition:     firstNonEmpty(rec.Edition, rec.SetName),
		Condition:   condition,
		Language:    language,
		Foil:        rec.IsFoil || rec.Foil,
		Signed:      rec.IsSigned || rec.Signed,
		ArtistProof: rec.IsArtistProof || rec.ArtistProof,
		AlteredArt:  rec.IsAltered || rec.AlteredArt,
		Misprint:    rec.IsMisprint || rec.Misprint,
		Promo:       rec.IsPromo || rec.Promo,
		Textless:    rec.IsTextless || rec.Textless,
		PrintingID:  firstNonZero(rec.PrintingID, rec.ID),
		ExternalID:  firstNonZero(rec.ID, rec.CKID),
		ScryfallID:  rec.ScryfallID,
		PriceCents:  toCents(price),
		URL:         url,
		FetchedAt:   fetchedAt,
	}
}

// decodeCardKingdomFeed accepts either a bare array or a {"data": [...]}
// wrapper.
func decodeCardKingdomFeed(body []byte) ([]ckRecord, error) {
	var records []ckRecord
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}
	var wrapper struct {
		Data []ckRecord `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Data, nil
}

// CardKingdomJob replaces the CardKingdom price snapshot from the pricelist
// feed.
type CardKingdomJob struct {
	feed   *feedClient
	url    string
	prices PriceStore
	now    func() time.Time
}

func NewCardKingdomJob(cfg config.Feeds, prices PriceStore) *CardKingdomJob {
	return &CardKingdomJob{
		feed:   newFeedClient(cfg),
		url:    cfg.CardKingdomURL,
		prices: prices,
		now:    time.Now,
	}
}

func (j *CardKingdomJob) Run(ctx context.Context) error {
	log.Info("cardkingdom sync: starting price fetch")

	body, err := j.feed.get(ctx, j.url, map[string]string{
		"User-Agent": "MTGArtistConnection/1.0",
		"Accept":     "application/json",
	})
	if err != nil {
		log.WithError(err).Error("cardkingdom sync: fetch failed")
		return err
	}

	records, err := decodeCardKingdomFeed(body)
	if err != nil {
		log.WithError(err).Error("cardkingdom sync: failed to decode feed")
		return err
	}
	log.WithField("records", len(records)).Info("cardkingdom sync: feed received")

	fetchedAt := j.now()
	rows := make([]domain.CardKingdomPrice, 0, len(records))
	for _, rec := range records {
		rows = append(rows, mapCardKingdomRecord(rec, fetchedAt))
	}

	deleted, err := j.prices.DeleteAllCardKingdomPrices(ctx)
	if err != nil {
		log.WithError(err).Error("cardkingdom sync: failed to clear old snapshot")
		return err
	}
	log.WithField("deleted", deleted).Info("cardkingdom sync: cleared previous snapshot")

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := j.prices.InsertCardKingdomPrices(ctx, rows[start:end]); err != nil {
			log.WithError(err).WithField("batch_start", start).Error("cardkingdom sync: batch insert failed")
			return err
		}
	}

	log.WithField("records", len(rows)).Info("cardkingdom sync: snapshot stored")
	return nil
}
