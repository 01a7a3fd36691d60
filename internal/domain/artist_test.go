package domain

import (
	"errors"
	"strings"
	"testing"
)

func strptr(s string) *string { return &s }

func TestApplyUpdateReportsChangedFields(t *testing.T) {
	artist := Artist{Name: "Jane Doe", Instagram: "old_handle", Twitter: "jd"}

	changed := ApplyUpdate(&artist, ArtistUpdate{
		Instagram: strptr("new_handle"),
		Twitter:   strptr("jd"), // same value, not a change
	})

	if len(changed) != 1 || changed[0] != "instagram" {
		t.Fatalf("expected [instagram], got %v", changed)
	}
	if artist.Instagram != "new_handle" {
		t.Fatalf("instagram not applied: %q", artist.Instagram)
	}
	if artist.Twitter != "jd" {
		t.Fatalf("twitter should be unchanged, got %q", artist.Twitter)
	}
}

func TestApplyUpdateNilFieldsLeaveArtistAlone(t *testing.T) {
	artist := Artist{Name: "Jane Doe", Email: "jane@example.com"}

	changed := ApplyUpdate(&artist, ArtistUpdate{})

	if len(changed) != 0 {
		t.Fatalf("expected no changes, got %v", changed)
	}
	if artist.Email != "jane@example.com" {
		t.Fatalf("email mutated: %q", artist.Email)
	}
}

func TestApplyUpdateChangedFieldsInDeclarationOrder(t *testing.T) {
	artist := Artist{}
	changed := ApplyUpdate(&artist, ArtistUpdate{
		Twitter:   strptr("a"),
		Name:      strptr("b"),
		Instagram: strptr("c"),
	})

	want := []string{"name", "instagram", "twitter"}
	if len(changed) != len(want) {
		t.Fatalf("expected %v, got %v", want, changed)
	}
	for i := range want {
		if changed[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, changed)
		}
	}
}

func TestUpdateForField(t *testing.T) {
	upd, err := UpdateForField("instagram", "handle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Instagram == nil || *upd.Instagram != "handle" {
		t.Fatalf("instagram not set: %+v", upd)
	}

	if _, err := UpdateForField("nonsense", "x"); !errors.Is(err, ErrInvalidArtistField) {
		t.Fatalf("expected ErrInvalidArtistField, got %v", err)
	}
}

func TestValidateArtistName(t *testing.T) {
	if err := ValidateArtistName("Rebecca Guay"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateArtistName(""); !errors.Is(err, ErrInvalidArtistName) {
		t.Fatalf("expected ErrInvalidArtistName for empty name, got %v", err)
	}
	if err := ValidateArtistName(strings.Repeat("x", 201)); !errors.Is(err, ErrInvalidArtistName) {
		t.Fatalf("expected ErrInvalidArtistName for oversized name, got %v", err)
	}
}

func TestSigningEventLocation(t *testing.T) {
	e := SigningEvent{City: "Seattle", State: "WA"}
	if got := e.Location(); got != "Seattle, WA" {
		t.Fatalf("expected %q, got %q", "Seattle, WA", got)
	}
	e.State = ""
	if got := e.Location(); got != "Seattle" {
		t.Fatalf("expected %q, got %q", "Seattle", got)
	}
}
