package domain

import "time"

// CardPrice is one row of the Manapool price snapshot. Prices are integer
// cents.
type CardPrice struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	SetCode               string    `json:"set_code"`
	Number                string    `json:"number,omitempty"`
	MultiverseID          string    `json:"multiverse_id,omitempty"`
	ScryfallID            string    `json:"scryfall_id,omitempty"`
	AvailableQuantity     int64     `json:"available_quantity"`
	PriceCents            int64     `json:"price_cents"`
	PriceCentsLPPlus      int64     `json:"price_cents_lp_plus"`
	PriceCentsNM          int64     `json:"price_cents_nm"`
	PriceCentsFoil        int64     `json:"price_cents_foil"`
	PriceCentsLPPlusFoil  int64     `json:"price_cents_lp_plus_foil"`
	PriceCentsNMFoil      int64     `json:"price_cents_nm_foil"`
	PriceCentsEtched      int64     `json:"price_cents_etched"`
	PriceCentsLPPlusEtch  int64     `json:"price_cents_lp_plus_etched"`
	PriceCentsNMEtched    int64     `json:"price_cents_nm_etched"`
	PriceMarket           int64     `json:"price_market"`
	PriceMarketFoil       int64     `json:"price_market_foil"`
	URL                   string    `json:"url,omitempty"`
	FetchedAt             time.Time `json:"fetchedAt"`
}

// CardKingdomPrice is one row of the CardKingdom price snapshot.
type CardKingdomPrice struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Edition     string    `json:"edition,omitempty"`
	Condition   string    `json:"condition,omitempty"`
	Language    string    `json:"language,omitempty"`
	Foil        bool      `json:"foil"`
	Signed      bool      `json:"signed"`
	ArtistProof bool      `json:"artistProof"`
	AlteredArt  bool      `json:"alteredArt"`
	Misprint    bool      `json:"misprint"`
	Promo       bool      `json:"promo"`
	Textless    bool      `json:"textless"`
	PrintingID  int64     `json:"printingId"`
	ExternalID  int64     `json:"ckId"`
	ScryfallID  string    `json:"scryfallId,omitempty"`
	PriceCents  int64     `json:"price"`
	URL         string    `json:"url,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// CardLookup identifies a printing by set code and collector number.
type CardLookup struct {
	SetCode string `json:"set_code"`
	Number  string `json:"number"`
}
