package bootstrap

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Teardowner wipes every registry resource.
type Teardowner interface {
	Teardown(ctx context.Context) error
}

// Scheduler runs a periodic registry teardown, for ephemeral environments.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// NewTeardownScheduler parses spec (six fields, seconds first) and registers
// the teardown job. It does not start the scheduler.
func NewTeardownScheduler(spec string, reg Teardowner, timeout time.Duration, log *zap.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		log.Info("scheduled teardown started")
		if err := reg.Teardown(ctx); err != nil {
			log.Error("scheduled teardown failed", zap.Error(err))
			return
		}
		log.Info("scheduled teardown completed")
	})
	if err != nil {
		return nil, Error.New("invalid teardown schedule %q: %v", spec, err)
	}

	return &Scheduler{cron: c, log: log}, nil
}

// Start initializes cron tasks
func (s *Scheduler) Start() {
	s.log.Info("teardown scheduler started")
	s.cron.Start()
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
