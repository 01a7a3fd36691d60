package mailer

import (
	"strings"
	"testing"
	"time"

	"artistconnection/internal/domain"
)

func TestRenderArtistDigestDeduplicatesFieldLabels(t *testing.T) {
	sections := []domain.ArtistDigestSection{{
		ArtistName: "Jane Doe",
		Changes: []domain.ArtistChange{
			{Kind: domain.ArtistChangeUpdate, FieldsChanged: []string{"instagram", "url"}},
			{Kind: domain.ArtistChangeUpdate, FieldsChanged: []string{"instagram"}},
		},
	}}

	body, err := RenderArtistDigest(sections, "https://mtgartistconnection.com")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if got := strings.Count(body, "Updated Instagram"); got != 1 {
		t.Fatalf("expected Instagram listed once, got %d", got)
	}
	if !strings.Contains(body, "Updated Website") {
		t.Fatal("url label missing")
	}
}

func TestRenderArtistDigestEventEntries(t *testing.T) {
	start := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	sections := []domain.ArtistDigestSection{{
		ArtistName: "Jane Doe",
		Changes: []domain.ArtistChange{{
			Kind:           domain.ArtistChangeAddedToEvent,
			EventName:      "MagicCon",
			EventStartDate: start,
			EventEndDate:   start.AddDate(0, 0, 2),
			EventLocation:  "Sacramento, CA",
		}},
	}}

	body, err := RenderArtistDigest(sections, "https://mtgartistconnection.com")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.Contains(body, "MagicCon") {
		t.Fatal("event name missing")
	}
	if !strings.Contains(body, "5/1/2026 - 5/3/2026") {
		t.Fatalf("date range missing:\n%s", body)
	}
	if !strings.Contains(body, "Sacramento, CA") {
		t.Fatal("location missing")
	}
}

func TestRenderEventDigestRosterAndAdditions(t *testing.T) {
	start := time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC)
	events := []domain.EventData{{
		EventName:    "Pro Tour Stop",
		City:         "Austin",
		State:        "TX",
		StartDate:    start,
		EndDate:      start,
		Kind:         domain.EventChangeArtistAdded,
		Artists:      []string{"Jane Doe", "John Smith"},
		ArtistsAdded: []string{"John Smith"},
	}}

	body, err := RenderEventDigest(events, "https://mtgartistconnection.com")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.Contains(body, "Austin, TX") {
		t.Fatal("place missing")
	}
	if !strings.Contains(body, "Newly added:") || !strings.Contains(body, "John Smith") {
		t.Fatal("artist additions missing")
	}
	if !strings.Contains(body, "Jane Doe, John Smith") {
		t.Fatal("full roster missing")
	}
	// single-day event renders a single date
	if strings.Contains(body, "6/5/2026 - 6/5/2026") {
		t.Fatal("single-day event should not show a range")
	}
}

func TestRenderCatalogDiffEmailListsBothDiscrepancies(t *testing.T) {
	report := domain.CatalogDiffReport{
		MissingFromDB:     []string{"Alayna Danner"},
		NotLinkedRemotely: []string{"Old Master"},
		CatalogTotal:      1500,
		LocalTotal:        800,
		AutoLinked:        3,
	}

	body, err := RenderCatalogDiffEmail(report)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{"Alayna Danner", "Old Master", "1500", "800"} {
		if !strings.Contains(body, want) {
			t.Fatalf("report missing %q", want)
		}
	}
}

func TestFieldLabelFallsBackToRawName(t *testing.T) {
	if got := FieldLabel("instagram"); got != "Instagram" {
		t.Fatalf("expected Instagram, got %q", got)
	}
	if got := FieldLabel("some_future_field"); got != "some_future_field" {
		t.Fatalf("expected raw fallback, got %q", got)
	}
}
