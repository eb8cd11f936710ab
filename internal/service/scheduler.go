package service

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the distribution sweep on a cron schedule.
type Scheduler struct {
	cron          *cron.Cron
	distributions *DistributionService
}

// NewScheduler creates a scheduler that runs the sweep per the given cron
// expression (standard 5-field syntax).
func NewScheduler(distributions *DistributionService, schedule string) (*Scheduler, error) {
	s := &Scheduler{
		cron:          cron.New(),
		distributions: distributions,
	}

	_, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.distributions.RunSweep(context.Background()); err != nil {
			log.Printf("Scheduled distribution sweep failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running the schedule in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels the schedule and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
