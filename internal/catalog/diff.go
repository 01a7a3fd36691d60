package catalog

import (
	"context"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"artistconnection/internal/domain"
	"artistconnection/internal/mailer"
)

type NameSource interface {
	ArtistNames(ctx context.Context) ([]string, error)
}

type ArtistLinkStore interface {
	ListNameLinks(ctx context.Context) ([]domain.ArtistNameLink, error)
	SetScryfallName(ctx context.Context, id, scryfallName string) error
}

type AdminStore interface {
	Admins(ctx context.Context) ([]domain.User, error)
}

type Sender interface {
	Send(to, subject, htmlBody string) error
}

// DiffJob compares the Scryfall artist catalog against local records,
// auto-links exact name matches, and mails admins a discrepancy report.
type DiffJob struct {
	source  NameSource
	artists ArtistLinkStore
	users   AdminStore
	sender  Sender
	now     func() time.Time
}

func NewDiffJob(source NameSource, artists ArtistLinkStore, users AdminStore, sender Sender) *DiffJob {
	return &DiffJob{
		source:  source,
		artists: artists,
		users:   users,
		sender:  sender,
		now:     time.Now,
	}
}

func (j *DiffJob) Run(ctx context.Context) error {
	catalogNames, err := j.source.ArtistNames(ctx)
	if err != nil {
		log.WithError(err).Error("catalog diff: failed to fetch scryfall catalog")
		return err
	}

	links, err := j.artists.ListNameLinks(ctx)
	if err != nil {
		log.WithError(err).Error("catalog diff: failed to load artists")
		return err
	}

	report := j.classify(ctx, catalogNames, links)
	log.WithFields(log.Fields{
		"catalog":             report.CatalogTotal,
		"local":               report.LocalTotal,
		"auto_linked":         report.AutoLinked,
		"missing_from_db":     len(report.MissingFromDB),
		"not_linked_remotely": len(report.NotLinkedRemotely),
	}).Info("catalog diff: comparison complete")

	if report.Empty() {
		return nil
	}

	admins, err := j.users.Admins(ctx)
	if err != nil {
		log.WithError(err).Error("catalog diff: failed to load admins")
		return err
	}
	if len(admins) == 0 {
		log.Warn("catalog diff: no admin users to notify")
		return nil
	}

	body, err := mailer.RenderCatalogDiffEmail(report)
	if err != nil {
		log.WithError(err).Error("catalog diff: failed to render report")
		return err
	}

	subject := "Scryfall Artist Sync Report - " + j.now().Format("January 2, 2006")
	for _, admin := range admins {
		if err := j.sender.Send(admin.Email, subject, body); err != nil {
			log.WithError(err).WithField("email", admin.Email).Error("catalog diff: failed to send report")
		}
	}
	return nil
}

// classify walks the catalog once. Already-linked names are skipped; an
// unlinked catalog name that matches an unlinked local artist's own name
// gets the link persisted and is consumed so it cannot match twice. A failed
// link write downgrades the name back to missing.
func (j *DiffJob) classify(ctx context.Context, catalogNames []string, links []domain.ArtistNameLink) domain.CatalogDiffReport {
	report := domain.CatalogDiffReport{
		CatalogTotal: len(catalogNames),
		LocalTotal:   len(links),
	}

	linked := make(map[string]bool)
	unlinked := make(map[string]domain.ArtistNameLink)
	for _, l := range links {
		if l.ScryfallName != "" {
			linked[strings.ToLower(l.ScryfallName)] = true
			continue
		}
		unlinked[strings.ToLower(l.Name)] = l
	}

	catalog := make(map[string]bool, len(catalogNames))
	for _, name := range catalogNames {
		lower := strings.ToLower(name)
		catalog[lower] = true
		if linked[lower] {
			continue
		}
		if artist, ok := unlinked[lower]; ok {
			delete(unlinked, lower)
			if err := j.artists.SetScryfallName(ctx, artist.ID, name); err != nil {
				log.WithError(err).WithField("artist", artist.Name).Warn("catalog diff: failed to auto-link artist")
				report.MissingFromDB = append(report.MissingFromDB, name)
				continue
			}
			report.AutoLinked++
			continue
		}
		report.MissingFromDB = append(report.MissingFromDB, name)
	}

	for _, l := range links {
		if l.ScryfallName == "" || l.ScryfallName == domain.ScryfallNameUnknown {
			continue
		}
		if !catalog[strings.ToLower(l.ScryfallName)] {
			report.NotLinkedRemotely = append(report.NotLinkedRemotely, l.Name)
		}
	}

	sort.Strings(report.MissingFromDB)
	sort.Strings(report.NotLinkedRemotely)
	return report
}
