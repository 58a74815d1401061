// Package analytics provides the SQL-based event store backing the
// analytics aggregation layer.
package analytics

import (
	"fmt"
	"time"

	"github.com/smartengage/smartengage-go/internal/domain/analytics"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/persistence/database"
	"github.com/smartengage/smartengage-go/internal/infrastructure/security"
	"github.com/smartengage/smartengage-go/pkg/config"
)

const sqliteTimeFormat = "2006-01-02 15:04:05"

// SQLEventRepository handles popup event persistence to database.
type SQLEventRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLEventRepository creates a new instance of the repository.
func NewSQLEventRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLEventRepository {
	return &SQLEventRepository{
		db:     db,
		logger: logger,
	}
}

// StoreEvent appends a single event row. Every call inserts a new row;
// duplicate submissions are intentionally not collapsed.
func (r *SQLEventRepository) StoreEvent(event *analytics.Event) error {
	if event.ID == "" {
		event.ID = security.GenerateULID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO events (id, popup_id, event_type, created_at, anonymized_ip, user_agent, referrer)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := r.db.Exec(
		query,
		event.ID,
		event.PopupID,
		string(event.EventType),
		event.CreatedAt.UTC().Format(sqliteTimeFormat),
		event.AnonymizedIP,
		event.UserAgent,
		event.Referrer,
	)
	if err != nil {
		r.logger.Database().Error("Event insert failed",
			"error", err.Error(), "popupId", event.PopupID, "eventType", event.EventType)
		return fmt.Errorf("failed to store event: %w", err)
	}

	r.logSlow(query, time.Since(start))
	return nil
}

// FindEventsInRange returns events with created_at in [start, end).
// An empty popupID matches events for every popup.
func (r *SQLEventRepository) FindEventsInRange(popupID string, start, end time.Time) ([]*analytics.Event, error) {
	query := `
		SELECT id, popup_id, event_type, created_at, anonymized_ip, user_agent, referrer
		FROM events
		WHERE created_at >= ? AND created_at < ?`
	args := []any{
		start.UTC().Format(sqliteTimeFormat),
		end.UTC().Format(sqliteTimeFormat),
	}
	if popupID != "" {
		query += ` AND popup_id = ?`
		args = append(args, popupID)
	}
	query += ` ORDER BY created_at`

	queryStart := time.Now()
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to query events", "error", err.Error(), "popupId", popupID)
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*analytics.Event
	for rows.Next() {
		var event analytics.Event
		var eventType, createdAt string
		if err := rows.Scan(&event.ID, &event.PopupID, &eventType, &createdAt,
			&event.AnonymizedIP, &event.UserAgent, &event.Referrer); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		event.EventType = analytics.EventType(eventType)
		if t, err := time.Parse(sqliteTimeFormat, createdAt); err == nil {
			event.CreatedAt = t.UTC()
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logSlow(query, time.Since(queryStart))
	return events, nil
}

// PurgeEventsBefore deletes events older than the cutoff and reports the
// number of rows removed. Used by the retention worker.
func (r *SQLEventRepository) PurgeEventsBefore(cutoff time.Time) (int64, error) {
	const query = `DELETE FROM events WHERE created_at < ?`

	result, err := r.db.Exec(query, cutoff.UTC().Format(sqliteTimeFormat))
	if err != nil {
		r.logger.Database().Error("Event purge failed", "error", err.Error())
		return 0, fmt.Errorf("failed to purge events: %w", err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		r.logger.Events().Info("Purged expired events", "count", purged, "cutoff", cutoff.UTC().Format(sqliteTimeFormat))
	}
	return purged, nil
}

// DeleteAllEvents clears the event store entirely.
func (r *SQLEventRepository) DeleteAllEvents() (int64, error) {
	const query = `DELETE FROM events`

	result, err := r.db.Exec(query)
	if err != nil {
		r.logger.Database().Error("Event clear failed", "error", err.Error())
		return 0, fmt.Errorf("failed to clear events: %w", err)
	}
	return result.RowsAffected()
}

func (r *SQLEventRepository) logSlow(query string, duration time.Duration) {
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration, "events")
	}
}
