// Package visitors persists per-visitor frequency counters. Session scoped
// fields live in the cache layer; this store only carries the durable part
// (last shown timestamp and lifetime impression count).
package visitors

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/smartengage/smartengage-go/internal/domain/visitor"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/persistence/database"
)

const sqliteTimeFormat = "2006-01-02 15:04:05"

// SQLStateRepository handles visitor frequency state persistence to database.
type SQLStateRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLStateRepository creates a new instance of the repository.
func NewSQLStateRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLStateRepository {
	return &SQLStateRepository{
		db:     db,
		logger: logger,
	}
}

// Get loads the durable state for a visitor/popup pair. A missing row is
// not an error; it returns a zero-count state.
func (r *SQLStateRepository) Get(visitorID, popupID string) (*visitor.FrequencyState, error) {
	const query = `
		SELECT last_shown_at, impression_count
		FROM visitor_state
		WHERE visitor_id = ? AND popup_id = ?`

	state := &visitor.FrequencyState{
		VisitorID: visitorID,
		PopupID:   popupID,
	}

	var lastShown sql.NullString
	err := r.db.QueryRow(query, visitorID, popupID).Scan(&lastShown, &state.ImpressionCount)
	if err == sql.ErrNoRows {
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load visitor state: %w", err)
	}

	if lastShown.Valid {
		if t, err := time.Parse(sqliteTimeFormat, lastShown.String); err == nil {
			utc := t.UTC()
			state.LastShownAt = &utc
		}
	}
	return state, nil
}

// Save upserts the durable state for a visitor/popup pair.
func (r *SQLStateRepository) Save(state *visitor.FrequencyState) error {
	const query = `
		INSERT INTO visitor_state (visitor_id, popup_id, last_shown_at, impression_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(visitor_id, popup_id) DO UPDATE SET
			last_shown_at = excluded.last_shown_at,
			impression_count = excluded.impression_count`

	var lastShown any
	if state.LastShownAt != nil {
		lastShown = state.LastShownAt.UTC().Format(sqliteTimeFormat)
	}

	_, err := r.db.Exec(query, state.VisitorID, state.PopupID, lastShown, state.ImpressionCount)
	if err != nil {
		r.logger.Database().Error("Visitor state save failed",
			"error", err.Error(), "visitorId", state.VisitorID, "popupId", state.PopupID)
		return fmt.Errorf("failed to save visitor state: %w", err)
	}
	return nil
}

// DeleteForVisitor removes all durable state rows for a visitor.
func (r *SQLStateRepository) DeleteForVisitor(visitorID string) error {
	const query = `DELETE FROM visitor_state WHERE visitor_id = ?`

	_, err := r.db.Exec(query, visitorID)
	if err != nil {
		return fmt.Errorf("failed to delete visitor state: %w", err)
	}
	return nil
}
