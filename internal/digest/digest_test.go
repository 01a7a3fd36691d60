package digest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"artistconnection/internal/domain"
)

type fakeChangeStore struct {
	artistChanges []domain.ArtistChange
	eventChanges  []domain.EventChange

	markedArtistIDs []string
	markedEventIDs  []string
	markedAt        time.Time
}

func (f *fakeChangeStore) UnprocessedArtistChanges(ctx context.Context) ([]domain.ArtistChange, error) {
	return f.artistChanges, nil
}

func (f *fakeChangeStore) UnprocessedEventChanges(ctx context.Context) ([]domain.EventChange, error) {
	return f.eventChanges, nil
}

func (f *fakeChangeStore) MarkArtistChangesProcessed(ctx context.Context, ids []string, at time.Time) error {
	f.markedArtistIDs = ids
	f.markedAt = at
	return nil
}

func (f *fakeChangeStore) MarkEventChangesProcessed(ctx context.Context, ids []string, at time.Time) error {
	f.markedEventIDs = ids
	f.markedAt = at
	return nil
}

type fakeSubscriberStore struct {
	followers []domain.User
	monitors  []domain.User

	askedNames  []string
	askedStates []string
	adminOnly   bool
}

func (f *fakeSubscriberStore) FollowersOfArtists(ctx context.Context, names []string, adminOnly bool) ([]domain.User, error) {
	f.askedNames = names
	f.adminOnly = adminOnly
	return f.followers, nil
}

func (f *fakeSubscriberStore) MonitorsOfStates(ctx context.Context, states []string, adminOnly bool) ([]domain.User, error) {
	f.askedStates = states
	f.adminOnly = adminOnly
	return f.monitors, nil
}

type fakeMappingStore struct {
	mappings []domain.MapArtistToEvent
}

func (f *fakeMappingStore) MappingsByEventIDs(ctx context.Context, eventIDs []string) ([]domain.MapArtistToEvent, error) {
	return f.mappings, nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []sentMail
	failTo map[string]bool
}

func (f *fakeSender) Send(to, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTo[to] {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func (f *fakeSender) sentTo(to string) *sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.sent {
		if f.sent[i].to == to {
			return &f.sent[i]
		}
	}
	return nil
}

func newTestService(changes *fakeChangeStore, subs *fakeSubscriberStore, maps *fakeMappingStore, sender *fakeSender) *Service {
	s := NewService(changes, subs, maps, sender, "https://mtgartistconnection.com", false)
	s.now = func() time.Time { return time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestArtistDigestSendsPerSubscriberIntersection(t *testing.T) {
	changes := &fakeChangeStore{artistChanges: []domain.ArtistChange{
		{ID: "c1", ArtistName: "Jane Doe", Kind: domain.ArtistChangeUpdate, FieldsChanged: []string{"instagram"}},
		{ID: "c2", ArtistName: "John Smith", Kind: domain.ArtistChangeUpdate, FieldsChanged: []string{"twitter"}},
	}}
	subs := &fakeSubscriberStore{followers: []domain.User{
		{Email: "fan@example.com", FollowedArtists: []string{"Jane Doe"}},
		{Email: "both@example.com", FollowedArtists: []string{"Jane Doe", "John Smith"}},
	}}
	sender := &fakeSender{}
	s := newTestService(changes, subs, &fakeMappingStore{}, sender)

	if err := s.RunArtistDigest(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fan := sender.sentTo("fan@example.com")
	if fan == nil {
		t.Fatal("expected a digest for fan@example.com")
	}
	if !strings.Contains(fan.body, "Jane Doe") {
		t.Fatal("fan digest missing followed artist")
	}
	if strings.Contains(fan.body, "John Smith") {
		t.Fatal("fan digest leaked an unfollowed artist")
	}
	if !strings.Contains(fan.body, "Instagram") {
		t.Fatal("fan digest missing human field label")
	}
	if want := "Your Daily MTG Artist Updates - March 14, 2026"; fan.subject != want {
		t.Fatalf("subject %q, want %q", fan.subject, want)
	}

	both := sender.sentTo("both@example.com")
	if both == nil {
		t.Fatal("expected a digest for both@example.com")
	}
	if !strings.Contains(both.body, "John Smith") {
		t.Fatal("digest missing second followed artist")
	}

	sort.Strings(changes.markedArtistIDs)
	if len(changes.markedArtistIDs) != 2 || changes.markedArtistIDs[0] != "c1" || changes.markedArtistIDs[1] != "c2" {
		t.Fatalf("expected all changes marked, got %v", changes.markedArtistIDs)
	}
}

func TestArtistDigestMarksProcessedDespiteSendFailures(t *testing.T) {
	changes := &fakeChangeStore{artistChanges: []domain.ArtistChange{
		{ID: "c1", ArtistName: "Jane Doe", Kind: domain.ArtistChangeUpdate, FieldsChanged: []string{"url"}},
	}}
	subs := &fakeSubscriberStore{followers: []domain.User{
		{Email: "broken@example.com", FollowedArtists: []string{"Jane Doe"}},
		{Email: "ok@example.com", FollowedArtists: []string{"Jane Doe"}},
	}}
	sender := &fakeSender{failTo: map[string]bool{"broken@example.com": true}}
	s := newTestService(changes, subs, &fakeMappingStore{}, sender)

	if err := s.RunArtistDigest(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sender.sentTo("ok@example.com") == nil {
		t.Fatal("failure for one recipient blocked another")
	}
	if len(changes.markedArtistIDs) != 1 {
		t.Fatalf("changes must be marked processed regardless of send outcome, got %v", changes.markedArtistIDs)
	}
}

func TestArtistDigestNoChangesIsNoOp(t *testing.T) {
	changes := &fakeChangeStore{}
	sender := &fakeSender{}
	s := newTestService(changes, &fakeSubscriberStore{}, &fakeMappingStore{}, sender)

	if err := s.RunArtistDigest(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("no-op run must not send")
	}
	if changes.markedArtistIDs != nil {
		t.Fatal("no-op run must not mark anything")
	}
}

func TestEventDigestCombinesChangesPerEvent(t *testing.T) {
	start := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	changes := &fakeChangeStore{eventChanges: []domain.EventChange{
		{ID: "e1", EventID: "ev-1", EventName: "MagicCon", City: "Sacramento", State: "CA",
			StartDate: start, EndDate: end, Kind: domain.EventChangeNewEvent},
		{ID: "e2", EventID: "ev-1", EventName: "MagicCon", City: "Sacramento", State: "CA",
			StartDate: start, EndDate: end, Kind: domain.EventChangeArtistAdded, ArtistName: "Jane Doe"},
		{ID: "e3", EventID: "ev-2", EventName: "Untagged Meetup", City: "Somewhere",
			Kind: domain.EventChangeNewEvent}, // no state, never digested
	}}
	subs := &fakeSubscriberStore{monitors: []domain.User{
		{Email: "ca@example.com", MonitoredStates: []string{"CA"}},
		{Email: "ny@example.com", MonitoredStates: []string{"NY"}},
	}}
	maps := &fakeMappingStore{mappings: []domain.MapArtistToEvent{
		{ID: "m1", ArtistName: "Jane Doe", EventID: "ev-1"},
		{ID: "m2", ArtistName: "John Smith", EventID: "ev-1"},
	}}
	sender := &fakeSender{}
	s := newTestService(changes, subs, maps, sender)

	if err := s.RunEventDigest(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ca := sender.sentTo("ca@example.com")
	if ca == nil {
		t.Fatal("expected a digest for ca@example.com")
	}
	// the two ev-1 changes collapse into one new-event entry
	if want := "New Signing Event in Your Area"; ca.subject != want {
		t.Fatalf("subject %q, want %q", ca.subject, want)
	}
	if !strings.Contains(ca.body, "MagicCon") || !strings.Contains(ca.body, "Jane Doe") {
		t.Fatal("digest missing combined event data")
	}
	if !strings.Contains(ca.body, "John Smith") {
		t.Fatal("digest missing full roster")
	}

	if sender.sentTo("ny@example.com") != nil {
		t.Fatal("subscriber with no matching state received a digest")
	}

	if len(changes.markedEventIDs) != 3 {
		t.Fatalf("all changes including untagged must be marked, got %v", changes.markedEventIDs)
	}
}

func TestEventDigestNoSubscribersStillMarksProcessed(t *testing.T) {
	changes := &fakeChangeStore{eventChanges: []domain.EventChange{
		{ID: "e1", EventID: "ev-1", EventName: "MagicCon", City: "Austin", State: "TX",
			Kind: domain.EventChangeNewEvent},
	}}
	sender := &fakeSender{}
	s := newTestService(changes, &fakeSubscriberStore{}, &fakeMappingStore{}, sender)

	if err := s.RunEventDigest(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("no subscribers, nothing should be sent")
	}
	if len(changes.markedEventIDs) != 1 {
		t.Fatalf("stale changes must still be marked processed, got %v", changes.markedEventIDs)
	}
}

func TestEventDigestSubjectClassification(t *testing.T) {
	newEv := domain.EventData{Kind: domain.EventChangeNewEvent}
	added := domain.EventData{Kind: domain.EventChangeArtistAdded}

	cases := []struct {
		name   string
		events []domain.EventData
		want   string
	}{
		{"single new", []domain.EventData{newEv}, "New Signing Event in Your Area"},
		{"multiple new", []domain.EventData{newEv, newEv}, "2 New Signing Events in Your Area"},
		{"single added", []domain.EventData{added}, "Artist Added to Event in Your Area"},
		{"multiple added", []domain.EventData{added, added}, "Artists Added to Events in Your Area"},
		{"mixed", []domain.EventData{newEv, added}, "2 Signing Event Updates in Your Area"},
	}
	for _, tc := range cases {
		if got := eventDigestSubject(tc.events); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
