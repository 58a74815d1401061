package services

import (
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/performance"
)

func newTestLogger() *logging.ChanneledLogger {
	return logging.NewChanneledLogger(logging.DefaultLoggerConfig())
}

func newTestTracker() *performance.Tracker {
	return performance.NewTracker(performance.DefaultTrackerConfig())
}

func intPtr(v int) *int { return &v }
