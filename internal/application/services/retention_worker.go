package services

import (
	"context"
	"time"

	"github.com/smartengage/smartengage-go/internal/domain/analytics"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/pkg/config"
)

// RetentionWorker periodically purges events older than the configured
// retention window. A retention of zero days disables the worker.
type RetentionWorker struct {
	repo   analytics.EventRepository
	logger *logging.ChanneledLogger
}

// NewRetentionWorker creates a retention worker.
func NewRetentionWorker(repo analytics.EventRepository, logger *logging.ChanneledLogger) *RetentionWorker {
	return &RetentionWorker{
		repo:   repo,
		logger: logger,
	}
}

// Start runs the purge loop until the context is cancelled. One purge runs
// immediately at startup so a long-stopped instance catches up.
func (w *RetentionWorker) Start(ctx context.Context) {
	if config.EventRetentionDays <= 0 {
		w.logger.System().Info("Event retention purge disabled")
		return
	}

	w.logger.Startup().Info("Retention worker started",
		"retentionDays", config.EventRetentionDays, "interval", config.RetentionPurgePeriod)

	w.purge()
	ticker := time.NewTicker(config.RetentionPurgePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Shutdown().Info("Retention worker stopped")
			return
		case <-ticker.C:
			w.purge()
		}
	}
}

func (w *RetentionWorker) purge() {
	cutoff := time.Now().UTC().AddDate(0, 0, -config.EventRetentionDays)
	if _, err := w.repo.PurgeEventsBefore(cutoff); err != nil {
		w.logger.System().Error("Event retention purge failed", "error", err.Error())
	}
}
