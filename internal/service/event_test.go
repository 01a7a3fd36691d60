package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"artistconnection/internal/domain"
)

type fakeEventRepo struct {
	events   map[string]*domain.SigningEvent
	byName   map[string]*domain.SigningEvent
	mappings []domain.MapArtistToEvent
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events: map[string]*domain.SigningEvent{},
		byName: map[string]*domain.SigningEvent{},
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.SigningEvent) error {
	f.events[e.ID] = e
	f.byName[e.Name] = e
	return nil
}

func (f *fakeEventRepo) List(ctx context.Context) ([]domain.SigningEvent, error) { return nil, nil }

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.SigningEvent, error) {
	if e, ok := f.events[id]; ok {
		return e, nil
	}
	return nil, domain.ErrEventNotFound
}

func (f *fakeEventRepo) GetByName(ctx context.Context, name string) (*domain.SigningEvent, error) {
	if e, ok := f.byName[name]; ok {
		return e, nil
	}
	return nil, domain.ErrEventNotFound
}

func (f *fakeEventRepo) CreateMapping(ctx context.Context, m *domain.MapArtistToEvent) error {
	f.mappings = append(f.mappings, *m)
	return nil
}

func (f *fakeEventRepo) GetMapping(ctx context.Context, artistName, eventID string) (*domain.MapArtistToEvent, error) {
	for i := range f.mappings {
		if f.mappings[i].ArtistName == artistName && f.mappings[i].EventID == eventID {
			return &f.mappings[i], nil
		}
	}
	return nil, domain.ErrEventNotFound
}

func (f *fakeEventRepo) ListMappings(ctx context.Context) ([]domain.MapArtistToEvent, error) {
	return f.mappings, nil
}

func (f *fakeEventRepo) MappingsByEventID(ctx context.Context, eventID string) ([]domain.MapArtistToEvent, error) {
	return nil, nil
}

type fakeChangeRepo struct {
	artistChanges []domain.ArtistChange
	eventChanges  []domain.EventChange
}

func (f *fakeChangeRepo) InsertArtistChange(ctx context.Context, c *domain.ArtistChange) error {
	f.artistChanges = append(f.artistChanges, *c)
	return nil
}

func (f *fakeChangeRepo) InsertEventChange(ctx context.Context, c *domain.EventChange) error {
	f.eventChanges = append(f.eventChanges, *c)
	return nil
}

type fakeArtistRepo struct {
	artists map[string]*domain.Artist
	updated *domain.Artist
	changed []string
}

func (f *fakeArtistRepo) List(ctx context.Context) ([]domain.Artist, error) { return nil, nil }

func (f *fakeArtistRepo) GetByID(ctx context.Context, id string) (*domain.Artist, error) {
	return nil, domain.ErrArtistNotFound
}

func (f *fakeArtistRepo) GetByName(ctx context.Context, name string) (*domain.Artist, error) {
	if a, ok := f.artists[name]; ok {
		return a, nil
	}
	return nil, domain.ErrArtistNotFound
}

func (f *fakeArtistRepo) Create(ctx context.Context, a *domain.Artist) error {
	if f.artists == nil {
		f.artists = map[string]*domain.Artist{}
	}
	f.artists[a.Name] = a
	return nil
}

func (f *fakeArtistRepo) UpdateFields(ctx context.Context, id string, upd domain.ArtistUpdate) (*domain.Artist, []string, error) {
	return f.updated, f.changed, nil
}

func (f *fakeArtistRepo) Delete(ctx context.Context, id string) (*domain.Artist, error) {
	return nil, domain.ErrArtistNotFound
}

func (f *fakeArtistRepo) DeleteAll(ctx context.Context) ([]domain.Artist, error) { return nil, nil }

func TestCreateEventRecordsChangeForTaggedEvents(t *testing.T) {
	eventRepo := newFakeEventRepo()
	changes := &fakeChangeRepo{}
	s := NewEventService(eventRepo, &fakeArtistRepo{}, changes, nil)

	event := &domain.SigningEvent{
		Name:      "MagicCon",
		City:      "Sacramento",
		State:     "CA",
		StartDate: time.Now(),
		EndDate:   time.Now(),
	}
	if _, err := s.CreateEvent(context.Background(), event, "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(changes.eventChanges) != 1 {
		t.Fatalf("expected one event change, got %d", len(changes.eventChanges))
	}
	c := changes.eventChanges[0]
	if c.Kind != domain.EventChangeNewEvent || c.State != "CA" || c.EventID != event.ID {
		t.Fatalf("unexpected change: %+v", c)
	}
}

func TestCreateEventUntaggedSkipsChange(t *testing.T) {
	eventRepo := newFakeEventRepo()
	changes := &fakeChangeRepo{}
	s := NewEventService(eventRepo, &fakeArtistRepo{}, changes, nil)

	event := &domain.SigningEvent{Name: "Online Signing", City: "Internet"}
	if _, err := s.CreateEvent(context.Background(), event, "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(changes.eventChanges) != 0 {
		t.Fatalf("untagged event must not record a change, got %+v", changes.eventChanges)
	}
}

func TestCreateEventDuplicateName(t *testing.T) {
	eventRepo := newFakeEventRepo()
	s := NewEventService(eventRepo, &fakeArtistRepo{}, &fakeChangeRepo{}, nil)

	first := &domain.SigningEvent{Name: "MagicCon", City: "Sacramento"}
	if _, err := s.CreateEvent(context.Background(), first, "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dup := &domain.SigningEvent{Name: "MagicCon", City: "Elsewhere"}
	if _, err := s.CreateEvent(context.Background(), dup, "admin-1"); !errors.Is(err, domain.ErrEventExists) {
		t.Fatalf("expected ErrEventExists, got %v", err)
	}
}

func TestMapArtistToEventRecordsBothChanges(t *testing.T) {
	eventRepo := newFakeEventRepo()
	changes := &fakeChangeRepo{}
	s := NewEventService(eventRepo, &fakeArtistRepo{}, changes, nil)

	event := &domain.SigningEvent{
		Name:      "MagicCon",
		City:      "Sacramento",
		State:     "CA",
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 0, 2),
	}
	if _, err := s.CreateEvent(context.Background(), event, "admin-1"); err != nil {
		t.Fatalf("create event: %v", err)
	}
	changes.eventChanges = nil

	mapping, err := s.MapArtistToEvent(context.Background(), "Jane Doe", event.ID, "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mapping.ArtistName != "Jane Doe" || mapping.EventID != event.ID {
		t.Fatalf("unexpected mapping: %+v", mapping)
	}

	if len(changes.artistChanges) != 1 {
		t.Fatalf("expected one artist change, got %d", len(changes.artistChanges))
	}
	ac := changes.artistChanges[0]
	if ac.Kind != domain.ArtistChangeAddedToEvent || ac.EventName != "MagicCon" || ac.EventLocation != "Sacramento, CA" {
		t.Fatalf("unexpected artist change: %+v", ac)
	}

	if len(changes.eventChanges) != 1 {
		t.Fatalf("expected one event change, got %d", len(changes.eventChanges))
	}
	ec := changes.eventChanges[0]
	if ec.Kind != domain.EventChangeArtistAdded || ec.ArtistName != "Jane Doe" {
		t.Fatalf("unexpected event change: %+v", ec)
	}
}

func TestMapArtistToMissingEventKeepsMapping(t *testing.T) {
	eventRepo := newFakeEventRepo()
	changes := &fakeChangeRepo{}
	s := NewEventService(eventRepo, &fakeArtistRepo{}, changes, nil)

	mapping, err := s.MapArtistToEvent(context.Background(), "Jane Doe", "no-such-event", "admin-1")
	if err != nil {
		t.Fatalf("missing event must not fail the mapping: %v", err)
	}
	if mapping == nil {
		t.Fatal("expected the mapping back")
	}
	if len(changes.artistChanges) != 0 || len(changes.eventChanges) != 0 {
		t.Fatal("missing event must not record changes")
	}
}

func TestMapArtistToEventDuplicate(t *testing.T) {
	eventRepo := newFakeEventRepo()
	s := NewEventService(eventRepo, &fakeArtistRepo{}, &fakeChangeRepo{}, nil)

	if _, err := s.MapArtistToEvent(context.Background(), "Jane Doe", "ev-1", "admin-1"); err != nil {
		t.Fatalf("first mapping: %v", err)
	}
	if _, err := s.MapArtistToEvent(context.Background(), "Jane Doe", "ev-1", "admin-1"); !errors.Is(err, domain.ErrMappingExists) {
		t.Fatalf("expected ErrMappingExists, got %v", err)
	}
}

func TestUpdateArtistRecordsChangeOnlyWhenFieldsChange(t *testing.T) {
	repo := &fakeArtistRepo{
		updated: &domain.Artist{ID: "a1", Name: "Jane Doe", Instagram: "new"},
		changed: []string{"instagram"},
	}
	changes := &fakeChangeRepo{}
	s := NewArtistService(repo, changes, nil)

	if _, err := s.UpdateArtistField(context.Background(), "a1", "instagram", "new", "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(changes.artistChanges) != 1 {
		t.Fatalf("expected one change record, got %d", len(changes.artistChanges))
	}
	c := changes.artistChanges[0]
	if c.Kind != domain.ArtistChangeUpdate || len(c.FieldsChanged) != 1 || c.FieldsChanged[0] != "instagram" {
		t.Fatalf("unexpected change: %+v", c)
	}

	// same-value write: repository reports nothing changed
	repo.changed = nil
	changes.artistChanges = nil
	if _, err := s.UpdateArtistField(context.Background(), "a1", "instagram", "new", "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(changes.artistChanges) != 0 {
		t.Fatalf("no-op update must not record a change, got %+v", changes.artistChanges)
	}
}

func TestUpdateArtistUnknownField(t *testing.T) {
	s := NewArtistService(&fakeArtistRepo{}, &fakeChangeRepo{}, nil)
	if _, err := s.UpdateArtistField(context.Background(), "a1", "bogus", "x", "admin-1"); !errors.Is(err, domain.ErrInvalidArtistField) {
		t.Fatalf("expected ErrInvalidArtistField, got %v", err)
	}
}
