package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"PublicationsImporter/internal/ports"
)

// CronScheduler runs a job on a standard five-field cron expression.
type CronScheduler struct {
	spec     string
	location *time.Location
	logger   *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running sync.WaitGroup
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler for spec evaluated in loc.
func NewCronScheduler(spec string, loc *time.Location, logger *slog.Logger) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{spec: spec, location: loc, logger: logger}
}

// Start runs job once immediately and then on every tick. A tick that
// arrives while the previous run is still going is skipped. The schedule
// stops when ctx is done.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return errors.New("scheduler job is nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron != nil {
		return errors.New("scheduler already started")
	}

	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		job(time.Now().In(c.location))
	}))

	runner := cron.New(cron.WithLocation(c.location))
	if _, err := runner.AddJob(c.spec, wrapped); err != nil {
		return fmt.Errorf("parse cron expression %q: %w", c.spec, err)
	}

	c.cron = runner
	runner.Start()
	if c.logger != nil {
		c.logger.Info("scheduler started", "cron", c.spec, "timezone", c.location.String())
	}

	c.running.Add(1)
	go func() {
		defer c.running.Done()
		wrapped.Run()
	}()
	go func() {
		<-ctx.Done()
		_ = c.Stop(context.Background())
	}()

	return nil
}

// Stop halts the schedule and waits for a running job to finish or ctx to
// expire.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	runner := c.cron
	c.cron = nil
	c.mu.Unlock()

	if runner == nil {
		return nil
	}

	stopped := runner.Stop()
	done := make(chan struct{})
	go func() {
		<-stopped.Done()
		c.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		if c.logger != nil {
			c.logger.Info("scheduler stopped")
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
