package performance

import (
	"fmt"
	"sync"
	"time"
)

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	markers map[string]*Marker
	mu      sync.RWMutex
	started time.Time
	config  *TrackerConfig
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers      int           `json:"maxMarkers"`      // Maximum number of markers to retain
	CleanupInterval time.Duration `json:"cleanupInterval"` // How often to clean up old data
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers:      10000,
		CleanupInterval: 10 * time.Minute,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}

	return &Tracker{
		markers: make(map[string]*Marker),
		started: time.Now(),
		config:  config,
	}
}

// StartOperation begins tracking a new operation and returns its marker.
func (t *Tracker) StartOperation(operation string) *Marker {
	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Success:   true,
		Metadata:  make(map[string]any),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.markers) >= t.config.MaxMarkers {
		t.evictOldestUnsafe()
	}
	key := fmt.Sprintf("%s:%d", operation, marker.StartTime.UnixNano())
	t.markers[key] = marker

	return marker
}

// Stats summarizes completed operations by name.
type Stats struct {
	Operation     string        `json:"operation"`
	Count         int           `json:"count"`
	Failures      int           `json:"failures"`
	TotalDuration time.Duration `json:"totalDuration"`
	MaxDuration   time.Duration `json:"maxDuration"`
}

// OperationStats aggregates completed markers grouped by operation name.
func (t *Tracker) OperationStats() map[string]*Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := make(map[string]*Stats)
	for _, marker := range t.markers {
		if !marker.Completed {
			continue
		}
		s, ok := stats[marker.Operation]
		if !ok {
			s = &Stats{Operation: marker.Operation}
			stats[marker.Operation] = s
		}
		s.Count++
		if !marker.Success {
			s.Failures++
		}
		s.TotalDuration += marker.Duration
		if marker.Duration > s.MaxDuration {
			s.MaxDuration = marker.Duration
		}
	}
	return stats
}

// Uptime reports how long the tracker has been running.
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.started)
}

// evictOldestUnsafe drops the oldest completed markers. Caller holds t.mu.
func (t *Tracker) evictOldestUnsafe() {
	var oldestKey string
	var oldestTime time.Time
	for key, marker := range t.markers {
		if oldestKey == "" || marker.StartTime.Before(oldestTime) {
			oldestKey = key
			oldestTime = marker.StartTime
		}
	}
	if oldestKey != "" {
		delete(t.markers, oldestKey)
	}
}
