// Package jobs runs the background maintenance schedule: a nightly bulk
// recompute that rolls every profile over to the new business day.
package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/mrcaqui/fit-proof-sub000/internal/app/profile"
)

// Scheduler owns the cron loop.
type Scheduler struct {
	cron     *cron.Cron
	profiles *profile.Service
	spec     string
}

// NewScheduler builds a scheduler in the given zone. spec is a standard
// five-field cron expression; empty selects the nightly default.
func NewScheduler(profiles *profile.Service, tz, spec string) *Scheduler {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.WithError(err).WithField("tz", tz).Warn("unknown timezone, falling back to UTC")
		loc = time.UTC
	}
	if spec == "" {
		spec = "5 0 * * *" // shortly past midnight, after the day rolls over
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		profiles: profiles,
		spec:     spec,
	}
}

// Start registers the jobs and launches the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		log.Info("nightly recompute starting")
		if err := s.profiles.RecomputeAll("nightly"); err != nil {
			log.WithError(err).Error("nightly recompute finished with errors")
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.WithField("spec", s.spec).Info("job scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("job scheduler stopped")
}
