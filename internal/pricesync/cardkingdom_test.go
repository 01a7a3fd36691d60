package pricesync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"artistconnection/internal/config"
	"artistconnection/internal/domain"
)

func TestMapCardKingdomRecordFieldFallbacks(t *testing.T) {
	fetchedAt := time.Now()
	rec := ckRecord{
		Name:        "Lightning Bolt",
		SetName:     "Magic 2010", // edition absent, falls back
		Foil:        true,         // is_foil absent
		ID:          42,
		RetailPrice: 3.49, // price absent
	}

	got := mapCardKingdomRecord(rec, fetchedAt)

	if got.Edition != "Magic 2010" {
		t.Fatalf("edition fallback failed: %q", got.Edition)
	}
	if got.Condition != "NM" || got.Language != "English" {
		t.Fatalf("default condition/language not applied: %q %q", got.Condition, got.Language)
	}
	if !got.Foil {
		t.Fatal("foil fallback failed")
	}
	if got.PrintingID != 42 || got.ExternalID != 42 {
		t.Fatalf("id fallbacks failed: printing=%d external=%d", got.PrintingID, got.ExternalID)
	}
	if got.PriceCents != 349 {
		t.Fatalf("expected 349 cents, got %d", got.PriceCents)
	}
	if got.URL != "https://www.cardkingdom.com/mtg/lightning-bolt" {
		t.Fatalf("url fallback failed: %q", got.URL)
	}
	if !got.FetchedAt.Equal(fetchedAt) {
		t.Fatal("fetchedAt not stamped")
	}
}

func TestMapCardKingdomRecordRoundsPrices(t *testing.T) {
	cases := []struct {
		price float64
		cents int64
	}{
		{price: 0, cents: 0},
		{price: 1.01, cents: 101},
		{price: 2.999, cents: 300},
		{price: 0.004, cents: 0},
	}
	for _, tc := range cases {
		got := mapCardKingdomRecord(ckRecord{Name: "x", Price: tc.price}, time.Now())
		if got.PriceCents != tc.cents {
			t.Fatalf("price %v: expected %d cents, got %d", tc.price, tc.cents, got.PriceCents)
		}
	}
}

func TestDecodeCardKingdomFeedShapes(t *testing.T) {
	bare := []byte(`[{"name":"Counterspell","price":1.25}]`)
	records, err := decodeCardKingdomFeed(bare)
	if err != nil {
		t.Fatalf("bare array: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Counterspell" {
		t.Fatalf("bare array decode: %+v", records)
	}

	wrapped := []byte(`{"data":[{"name":"Counterspell","price":1.25}]}`)
	records, err = decodeCardKingdomFeed(wrapped)
	if err != nil {
		t.Fatalf("wrapped: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Counterspell" {
		t.Fatalf("wrapped decode: %+v", records)
	}
}

type fakePriceStore struct {
	deletedCK   bool
	ckBatches   [][]domain.CardKingdomPrice
	deletedMP   bool
	mpBatches   [][]domain.CardPrice
}

func (f *fakePriceStore) DeleteAllCardPrices(ctx context.Context) (int64, error) {
	f.deletedMP = true
	return 0, nil
}

func (f *fakePriceStore) InsertCardPrices(ctx context.Context, prices []domain.CardPrice) error {
	batch := make([]domain.CardPrice, len(prices))
	copy(batch, prices)
	f.mpBatches = append(f.mpBatches, batch)
	return nil
}

func (f *fakePriceStore) DeleteAllCardKingdomPrices(ctx context.Context) (int64, error) {
	f.deletedCK = true
	return 0, nil
}

func (f *fakePriceStore) InsertCardKingdomPrices(ctx context.Context, prices []domain.CardKingdomPrice) error {
	batch := make([]domain.CardKingdomPrice, len(prices))
	copy(batch, prices)
	f.ckBatches = append(f.ckBatches, batch)
	return nil
}

func feedConfig(url string) config.Feeds {
	return config.Feeds{
		ManapoolURL:    url,
		CardKingdomURL: url,
		FetchTimeout:   5 * time.Second,
		MaxBodyBytes:   1 << 20,
	}
}

func TestCardKingdomRunReplacesSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "MTGArtistConnection/1.0" {
			t.Errorf("unexpected User-Agent %q", ua)
		}
		w.Write([]byte(`{"data":[{"name":"Counterspell","edition":"Ice Age","price":1.25,"id":7}]}`))
	}))
	defer srv.Close()

	store := &fakePriceStore{}
	job := NewCardKingdomJob(feedConfig(srv.URL), store)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !store.deletedCK {
		t.Fatal("old snapshot not cleared")
	}
	if len(store.ckBatches) != 1 || len(store.ckBatches[0]) != 1 {
		t.Fatalf("expected one batch of one row, got %v", store.ckBatches)
	}
	row := store.ckBatches[0][0]
	if row.Name != "Counterspell" || row.PriceCents != 125 || row.ExternalID != 7 {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestManapoolRunSharesOneFetchTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"name":"Brainstorm","set_code":"ICE","number":"61","price_cents":150},
			{"name":"Swords to Plowshares","set_code":"LEA","number":"35","price_cents":4200}
		]}`))
	}))
	defer srv.Close()

	store := &fakePriceStore{}
	job := NewManapoolJob(feedConfig(srv.URL), store)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !store.deletedMP {
		t.Fatal("old snapshot not cleared")
	}
	if len(store.mpBatches) != 1 || len(store.mpBatches[0]) != 2 {
		t.Fatalf("expected one batch of two rows, got %v", store.mpBatches)
	}
	rows := store.mpBatches[0]
	if !rows[0].FetchedAt.Equal(rows[1].FetchedAt) {
		t.Fatal("rows in one sync must share the fetch timestamp")
	}
	if rows[0].ID == rows[1].ID || rows[0].ID == "" {
		t.Fatal("rows must get distinct generated ids")
	}
	if rows[1].PriceCents != 4200 {
		t.Fatalf("price not carried through: %+v", rows[1])
	}
}

func TestFeedErrorAbortsBeforeDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	store := &fakePriceStore{}
	job := NewManapoolJob(feedConfig(srv.URL), store)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected an error for a failing feed")
	}
	if store.deletedMP {
		t.Fatal("failed fetch must not clear the existing snapshot")
	}
}
