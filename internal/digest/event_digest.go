package digest

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"artistconnection/internal/domain"
	"artistconnection/internal/mailer"
)

// RunEventDigest sends one email per state-monitoring subscriber covering
// every unprocessed event change in their states, then marks the batch
// processed. Changes without a state are skipped but still marked.
func (s *Service) RunEventDigest(ctx context.Context) error {
	changes, err := s.changes.UnprocessedEventChanges(ctx)
	if err != nil {
		log.WithError(err).Error("event digest: failed to load unprocessed changes")
		return err
	}
	if len(changes) == 0 {
		log.Info("event digest: no unprocessed changes")
		return nil
	}

	ids := make([]string, 0, len(changes))
	for _, c := range changes {
		ids = append(ids, c.ID)
	}
	markProcessed := func() error {
		if err := s.changes.MarkEventChangesProcessed(ctx, ids, s.now()); err != nil {
			log.WithError(err).Error("event digest: failed to mark changes processed")
			return err
		}
		return nil
	}

	// Events without a state can never match a monitored state.
	var tagged []domain.EventChange
	for _, c := range changes {
		if c.State != "" {
			tagged = append(tagged, c)
		}
	}
	if len(tagged) == 0 {
		log.Info("event digest: no state-tagged changes")
		return markProcessed()
	}

	events := s.combineEventChanges(ctx, tagged)

	byState := make(map[string][]domain.EventData)
	var states []string
	for _, e := range events {
		if _, ok := byState[e.State]; !ok {
			states = append(states, e.State)
		}
		byState[e.State] = append(byState[e.State], e)
	}

	subscribers, err := s.subscribers.MonitorsOfStates(ctx, states, s.adminOnly)
	if err != nil {
		log.WithError(err).Error("event digest: failed to load subscribers")
		return err
	}
	if len(subscribers) == 0 {
		log.Info("event digest: no matching subscribers")
		return markProcessed()
	}

	var sent, failed int
	var mu sync.Mutex
	var g errgroup.Group
	for _, user := range subscribers {
		var userEvents []domain.EventData
		for _, state := range user.MonitoredStates {
			userEvents = append(userEvents, byState[state]...)
		}
		if len(userEvents) == 0 {
			continue
		}

		email := user.Email
		g.Go(func() error {
			body, err := mailer.RenderEventDigest(userEvents, s.frontendURL)
			if err == nil {
				err = s.sender.Send(email, eventDigestSubject(userEvents), body)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				log.WithError(err).WithField("email", email).Error("event digest: failed to send")
				return nil
			}
			sent++
			return nil
		})
	}
	g.Wait()

	log.WithFields(log.Fields{
		"changes": len(changes),
		"events":  len(events),
		"sent":    sent,
		"failed":  failed,
	}).Info("event digest: run complete")

	return markProcessed()
}

// combineEventChanges collapses the change records for each event into one
// EventData. A group containing a new-event record classifies as new-event;
// artist-added members contribute the newly added names. The full current
// roster is attached from the mapping table.
func (s *Service) combineEventChanges(ctx context.Context, changes []domain.EventChange) []domain.EventData {
	byEvent := make(map[string][]domain.EventChange)
	var eventIDs []string
	for _, c := range changes {
		if _, ok := byEvent[c.EventID]; !ok {
			eventIDs = append(eventIDs, c.EventID)
		}
		byEvent[c.EventID] = append(byEvent[c.EventID], c)
	}

	rosters := make(map[string][]string)
	mappings, err := s.mappings.MappingsByEventIDs(ctx, eventIDs)
	if err != nil {
		log.WithError(err).Warn("event digest: failed to load event rosters")
	} else {
		for _, m := range mappings {
			rosters[m.EventID] = append(rosters[m.EventID], m.ArtistName)
		}
	}

	events := make([]domain.EventData, 0, len(eventIDs))
	for _, id := range eventIDs {
		group := byEvent[id]
		first := group[0]
		data := domain.EventData{
			EventID:   id,
			EventName: first.EventName,
			City:      first.City,
			State:     first.State,
			StartDate: first.StartDate,
			EndDate:   first.EndDate,
			URL:       first.URL,
			Kind:      domain.EventChangeArtistAdded,
			Artists:   rosters[id],
		}
		for _, c := range group {
			if c.Kind == domain.EventChangeNewEvent {
				data.Kind = domain.EventChangeNewEvent
			}
			if c.Kind == domain.EventChangeArtistAdded && c.ArtistName != "" {
				data.ArtistsAdded = append(data.ArtistsAdded, c.ArtistName)
			}
		}
		events = append(events, data)
	}
	return events
}

func eventDigestSubject(events []domain.EventData) string {
	var hasNew, hasAdded bool
	for _, e := range events {
		if e.Kind == domain.EventChangeNewEvent {
			hasNew = true
		} else {
			hasAdded = true
		}
	}
	n := len(events)
	switch {
	case hasNew && hasAdded:
		if n == 1 {
			return "Signing Event Update in Your Area"
		}
		return fmt.Sprintf("%d Signing Event Updates in Your Area", n)
	case hasAdded:
		if n == 1 {
			return "Artist Added to Event in Your Area"
		}
		return "Artists Added to Events in Your Area"
	default:
		if n == 1 {
			return "New Signing Event in Your Area"
		}
		return fmt.Sprintf("%d New Signing Events in Your Area", n)
	}
}
