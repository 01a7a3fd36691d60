package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"artistconnection/internal/domain"
)

type fakeNameSource struct {
	names []string
	err   error
}

func (f *fakeNameSource) ArtistNames(ctx context.Context) ([]string, error) {
	return f.names, f.err
}

type fakeLinkStore struct {
	links     []domain.ArtistNameLink
	linked    map[string]string
	linkErrID string
}

func (f *fakeLinkStore) ListNameLinks(ctx context.Context) ([]domain.ArtistNameLink, error) {
	return f.links, nil
}

func (f *fakeLinkStore) SetScryfallName(ctx context.Context, id, scryfallName string) error {
	if id == f.linkErrID {
		return errors.New("write failed")
	}
	if f.linked == nil {
		f.linked = map[string]string{}
	}
	f.linked[id] = scryfallName
	return nil
}

type fakeAdminStore struct {
	admins []domain.User
}

func (f *fakeAdminStore) Admins(ctx context.Context) ([]domain.User, error) {
	return f.admins, nil
}

type fakeReportSender struct {
	sent []string
	fail map[string]bool
}

func (f *fakeReportSender) Send(to, subject, htmlBody string) error {
	if f.fail[to] {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

func TestClassifyAutoLinksExactNameMatches(t *testing.T) {
	store := &fakeLinkStore{links: []domain.ArtistNameLink{
		{ID: "a1", Name: "rebecca guay"},                               // matches catalog, gets linked
		{ID: "a2", Name: "John Avon", ScryfallName: "John Avon"},       // already linked
		{ID: "a3", Name: "Old Master", ScryfallName: "Gone From List"}, // stale link
		{ID: "a4", Name: "No Match", ScryfallName: domain.ScryfallNameUnknown},
	}}
	job := NewDiffJob(&fakeNameSource{}, store, &fakeAdminStore{}, &fakeReportSender{})

	report := job.classify(context.Background(),
		[]string{"Rebecca Guay", "John Avon", "Zoltan Boros"}, store.links)

	if store.linked["a1"] != "Rebecca Guay" {
		t.Fatalf("expected a1 auto-linked with catalog casing, got %v", store.linked)
	}
	if report.AutoLinked != 1 {
		t.Fatalf("expected 1 auto-link, got %d", report.AutoLinked)
	}
	if len(report.MissingFromDB) != 1 || report.MissingFromDB[0] != "Zoltan Boros" {
		t.Fatalf("expected [Zoltan Boros] missing, got %v", report.MissingFromDB)
	}
	// "unknown" sentinel is excluded from the remote check
	if len(report.NotLinkedRemotely) != 1 || report.NotLinkedRemotely[0] != "Old Master" {
		t.Fatalf("expected [Old Master] not linked remotely, got %v", report.NotLinkedRemotely)
	}
}

func TestClassifyAutoLinkConsumedOnce(t *testing.T) {
	store := &fakeLinkStore{links: []domain.ArtistNameLink{
		{ID: "a1", Name: "Jane Doe"},
	}}
	job := NewDiffJob(&fakeNameSource{}, store, &fakeAdminStore{}, &fakeReportSender{})

	// two catalog names with the same case-insensitive form; only the first
	// can claim the local record
	report := job.classify(context.Background(), []string{"Jane Doe", "JANE DOE"}, store.links)

	if report.AutoLinked != 1 {
		t.Fatalf("expected 1 auto-link, got %d", report.AutoLinked)
	}
	if len(report.MissingFromDB) != 1 || report.MissingFromDB[0] != "JANE DOE" {
		t.Fatalf("duplicate catalog name should fall through to missing, got %v", report.MissingFromDB)
	}
}

func TestClassifyLinkFailureDowngradesToMissing(t *testing.T) {
	store := &fakeLinkStore{
		links:     []domain.ArtistNameLink{{ID: "a1", Name: "Jane Doe"}},
		linkErrID: "a1",
	}
	job := NewDiffJob(&fakeNameSource{}, store, &fakeAdminStore{}, &fakeReportSender{})

	report := job.classify(context.Background(), []string{"Jane Doe"}, store.links)

	if report.AutoLinked != 0 {
		t.Fatalf("failed link must not count as auto-linked")
	}
	if len(report.MissingFromDB) != 1 || report.MissingFromDB[0] != "Jane Doe" {
		t.Fatalf("failed link should report the name as missing, got %v", report.MissingFromDB)
	}
}

func TestClassifySortsDiscrepancyLists(t *testing.T) {
	store := &fakeLinkStore{}
	job := NewDiffJob(&fakeNameSource{}, store, &fakeAdminStore{}, &fakeReportSender{})

	report := job.classify(context.Background(), []string{"Zoltan Boros", "Alayna Danner", "Mark Tedin"}, nil)

	want := []string{"Alayna Danner", "Mark Tedin", "Zoltan Boros"}
	for i, name := range want {
		if report.MissingFromDB[i] != name {
			t.Fatalf("expected sorted %v, got %v", want, report.MissingFromDB)
		}
	}
}

func TestRunEmailsEveryAdminAndIsolatesFailures(t *testing.T) {
	source := &fakeNameSource{names: []string{"Missing Artist"}}
	store := &fakeLinkStore{}
	admins := &fakeAdminStore{admins: []domain.User{
		{Email: "admin1@example.com", Role: domain.RoleAdmin},
		{Email: "broken@example.com", Role: domain.RoleAdmin},
		{Email: "admin2@example.com", Role: domain.RoleAdmin},
	}}
	sender := &fakeReportSender{fail: map[string]bool{"broken@example.com": true}}
	job := NewDiffJob(source, store, admins, sender)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 successful sends, got %v", sender.sent)
	}
	for _, to := range sender.sent {
		if strings.Contains(to, "broken") {
			t.Fatalf("failed recipient recorded as sent: %v", sender.sent)
		}
	}
}

func TestRunCleanCatalogSendsNothing(t *testing.T) {
	source := &fakeNameSource{names: []string{"John Avon"}}
	store := &fakeLinkStore{links: []domain.ArtistNameLink{
		{ID: "a1", Name: "John Avon", ScryfallName: "John Avon"},
	}}
	sender := &fakeReportSender{}
	job := NewDiffJob(source, store, &fakeAdminStore{admins: []domain.User{{Email: "admin@example.com"}}}, sender)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("clean comparison must not email, got %v", sender.sent)
	}
}
