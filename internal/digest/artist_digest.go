package digest

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"artistconnection/internal/domain"
	"artistconnection/internal/mailer"
)

// RunArtistDigest sends one email per subscriber covering every unprocessed
// artist change for artists they follow, then marks the batch processed.
// Marking is unconditional: a change is attempted exactly once regardless of
// per-recipient send outcomes.
func (s *Service) RunArtistDigest(ctx context.Context) error {
	changes, err := s.changes.UnprocessedArtistChanges(ctx)
	if err != nil {
		log.WithError(err).Error("artist digest: failed to load unprocessed changes")
		return err
	}
	if len(changes) == 0 {
		log.Info("artist digest: no unprocessed changes")
		return nil
	}

	// Group by artist name, preserving arrival order within each group and
	// first-seen order across groups.
	byArtist := make(map[string][]domain.ArtistChange)
	var names []string
	ids := make([]string, 0, len(changes))
	for _, c := range changes {
		if _, ok := byArtist[c.ArtistName]; !ok {
			names = append(names, c.ArtistName)
		}
		byArtist[c.ArtistName] = append(byArtist[c.ArtistName], c)
		ids = append(ids, c.ID)
	}

	subscribers, err := s.subscribers.FollowersOfArtists(ctx, names, s.adminOnly)
	if err != nil {
		log.WithError(err).Error("artist digest: failed to load subscribers")
		return err
	}

	subject := "Your Daily MTG Artist Updates - " + s.now().Format("January 2, 2006")
	// Per-recipient sends run concurrently; a failed send is logged and
	// never blocks the others or the processed-marking step.
	var sent, failed int
	var mu sync.Mutex
	var g errgroup.Group
	for _, user := range subscribers {
		var sections []domain.ArtistDigestSection
		for _, name := range names {
			if user.FollowsArtist(name) {
				sections = append(sections, domain.ArtistDigestSection{
					ArtistName: name,
					Changes:    byArtist[name],
				})
			}
		}
		if len(sections) == 0 {
			continue
		}

		email := user.Email
		g.Go(func() error {
			body, err := mailer.RenderArtistDigest(sections, s.frontendURL)
			if err == nil {
				err = s.sender.Send(email, subject, body)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				log.WithError(err).WithField("email", email).Error("artist digest: failed to send")
				return nil
			}
			sent++
			return nil
		})
	}
	g.Wait()

	log.WithFields(log.Fields{
		"changes": len(changes),
		"sent":    sent,
		"failed":  failed,
	}).Info("artist digest: run complete")

	if err := s.changes.MarkArtistChangesProcessed(ctx, ids, s.now()); err != nil {
		log.WithError(err).Error("artist digest: failed to mark changes processed")
		return err
	}
	return nil
}
