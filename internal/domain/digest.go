package domain

import "time"

// ArtistDigestSection is one artist's group inside a recipient's digest, in
// arrival order.
type ArtistDigestSection struct {
	ArtistName string
	Changes    []ArtistChange
}

// EventData is the combined per-event entry of an event digest: one entry per
// event id regardless of how many changes referenced it during the window.
type EventData struct {
	EventID   string
	EventName string
	City      string
	State     string
	StartDate time.Time
	EndDate   time.Time
	URL       string

	// Full current roster for the event, independent of which change
	// triggered the digest.
	Artists []string

	// New-event wins over artist-added when both occurred in one window.
	Kind string

	// Names collected from the window's artist-added changes only.
	ArtistsAdded []string
}

// CatalogDiffReport summarizes one catalog reconciliation run.
type CatalogDiffReport struct {
	MissingFromDB     []string
	NotLinkedRemotely []string
	CatalogTotal      int
	LocalTotal        int
	AutoLinked        int
}

func (r *CatalogDiffReport) Empty() bool {
	return len(r.MissingFromDB) == 0 && len(r.NotLinkedRemotely) == 0
}
