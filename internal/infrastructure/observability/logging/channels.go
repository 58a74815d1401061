// Package logging provides structured logging channels for SmartEngage
// operations with performance correlation capabilities.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Channel represents a logical logging channel for different system components
type Channel string

const (
	// System channels
	ChannelSystem   Channel = "system"   // General system operations
	ChannelStartup  Channel = "startup"  // Application startup and initialization
	ChannelShutdown Channel = "shutdown" // Application shutdown and cleanup

	// Business logic channels
	ChannelPopup     Channel = "popup"     // Popup configuration and eligibility
	ChannelAnalytics Channel = "analytics" // Analytics processing and queries
	ChannelEvents    Channel = "events"    // Event recording
	ChannelCache     Channel = "cache"     // Visitor state cache operations

	// Infrastructure channels
	ChannelDatabase Channel = "database" // Database operations and queries
	ChannelAuth     Channel = "auth"     // Authentication and authorization

	// Performance channels
	ChannelPerf      Channel = "performance" // Performance monitoring and metrics
	ChannelSlowQuery Channel = "slow-query"  // Slow database queries
)

// LoggerConfig contains configuration options for the channeled logger
type LoggerConfig struct {
	JSONFormat    bool                   // Use JSON handlers for structured output
	DefaultLevel  slog.Level             // Default log level
	ChannelLevels map[Channel]slog.Level // Per-channel log level overrides
}

// DefaultLoggerConfig returns a sensible default configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		JSONFormat:    false,
		DefaultLevel:  slog.LevelInfo,
		ChannelLevels: make(map[Channel]slog.Level),
	}
}

// ParseLevel maps a level name to a slog.Level, defaulting to Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG", "TRACE":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR", "FATAL":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ChanneledLogger provides structured logging with multiple channels
type ChanneledLogger struct {
	channels map[Channel]*slog.Logger
	config   *LoggerConfig
	configMu sync.RWMutex
}

// NewChanneledLogger creates a new channeled logger with the given configuration
func NewChanneledLogger(config *LoggerConfig) *ChanneledLogger {
	if config == nil {
		config = DefaultLoggerConfig()
	}

	logger := &ChanneledLogger{
		channels: make(map[Channel]*slog.Logger),
		config:   config,
	}

	channels := []Channel{
		ChannelSystem, ChannelStartup, ChannelShutdown,
		ChannelPopup, ChannelAnalytics, ChannelEvents, ChannelCache,
		ChannelDatabase, ChannelAuth,
		ChannelPerf, ChannelSlowQuery,
	}

	for _, channel := range channels {
		logger.channels[channel] = logger.createChannelLogger(channel)
	}

	return logger
}

func (l *ChanneledLogger) createChannelLogger(channel Channel) *slog.Logger {
	level := l.config.DefaultLevel
	if override, ok := l.config.ChannelLevels[channel]; ok {
		level = override
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if l.config.JSONFormat {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler).With("channel", string(channel))
}

// Logger returns the slog.Logger for the given channel, falling back to system.
func (l *ChanneledLogger) Logger(channel Channel) *slog.Logger {
	l.configMu.RLock()
	defer l.configMu.RUnlock()

	if logger, ok := l.channels[channel]; ok {
		return logger
	}
	return l.channels[ChannelSystem]
}

// SetChannelLevel updates the level for a single channel at runtime.
func (l *ChanneledLogger) SetChannelLevel(channel Channel, level slog.Level) {
	l.configMu.Lock()
	defer l.configMu.Unlock()

	l.config.ChannelLevels[channel] = level
	l.channels[channel] = l.createChannelLogger(channel)
}

// System returns the system channel logger
func (l *ChanneledLogger) System() *slog.Logger { return l.Logger(ChannelSystem) }

// Startup returns the startup channel logger
func (l *ChanneledLogger) Startup() *slog.Logger { return l.Logger(ChannelStartup) }

// Shutdown returns the shutdown channel logger
func (l *ChanneledLogger) Shutdown() *slog.Logger { return l.Logger(ChannelShutdown) }

// Popup returns the popup channel logger
func (l *ChanneledLogger) Popup() *slog.Logger { return l.Logger(ChannelPopup) }

// Analytics returns the analytics channel logger
func (l *ChanneledLogger) Analytics() *slog.Logger { return l.Logger(ChannelAnalytics) }

// Events returns the events channel logger
func (l *ChanneledLogger) Events() *slog.Logger { return l.Logger(ChannelEvents) }

// Cache returns the cache channel logger
func (l *ChanneledLogger) Cache() *slog.Logger { return l.Logger(ChannelCache) }

// Database returns the database channel logger
func (l *ChanneledLogger) Database() *slog.Logger { return l.Logger(ChannelDatabase) }

// Auth returns the auth channel logger
func (l *ChanneledLogger) Auth() *slog.Logger { return l.Logger(ChannelAuth) }

// Perf returns the performance channel logger
func (l *ChanneledLogger) Perf() *slog.Logger { return l.Logger(ChannelPerf) }

// LogSlowQuery records a slow database query with its duration.
func (l *ChanneledLogger) LogSlowQuery(query string, duration time.Duration, source string) {
	l.Logger(ChannelSlowQuery).Warn("Slow query detected",
		"query", query,
		"duration", duration,
		"source", source)
}
