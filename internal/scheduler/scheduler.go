package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"artistconnection/internal/config"
)

// Job is a named scheduled task. Runs of the same job never overlap.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a plain function to the Job interface.
type JobFunc func(ctx context.Context) error

func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.WithField("cron", keysAndValues).Debug(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.WithError(err).WithField("cron", keysAndValues).Error(msg)
}

type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cronLogger{}),
			cron.Recover(cronLogger{}),
		)),
	}
}

// Add registers a job under a cron expression.
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := job.Run(context.Background()); err != nil {
			log.WithError(err).WithField("job", name).Error("Scheduled job failed")
		}
	})
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"job": name, "schedule": spec}).Info("Scheduled job registered")
	return nil
}

// AddAll registers the five recurring jobs from config.
func (s *Scheduler) AddAll(cfg config.Schedules, artistDigest, eventDigest, manapool, cardkingdom, catalogDiff Job) error {
	for _, j := range []struct {
		name string
		spec string
		job  Job
	}{
		{"artist_digest", cfg.ArtistDigest, artistDigest},
		{"event_digest", cfg.EventDigest, eventDigest},
		{"manapool_sync", cfg.ManapoolSync, manapool},
		{"cardkingdom_sync", cfg.CardKingdomSync, cardkingdom},
		{"catalog_diff", cfg.CatalogDiff, catalogDiff},
	} {
		if err := s.Add(j.name, j.spec, j.job); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("Job scheduler started")
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
