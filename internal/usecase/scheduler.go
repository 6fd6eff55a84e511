package usecase

import (
	"context"
	"log/slog"
	"time"

	"PublicationsImporter/internal/ports"
)

// Scheduler re-runs an import of the same file on the driver's schedule.
// Repeated runs skip already stored URLs through the dedup gate.
type Scheduler struct {
	driver   ports.Scheduler
	importer *Importer
	path     string
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring imports.
func NewScheduler(driver ports.Scheduler, importer *Importer, path string, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, importer: importer, path: path, logger: logger}
}

// Start registers the import with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.importer == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if s.logger != nil {
			s.logger.Info("scheduled import triggered", "path", s.path, "at", trigger)
		}
		if _, err := s.importer.Import(ctx, s.path); err != nil && s.logger != nil {
			s.logger.Error("scheduled import failed", "path", s.path, "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
