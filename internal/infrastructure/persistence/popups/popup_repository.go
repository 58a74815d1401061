// Package popups provides the concrete SQL-based implementation for popup
// configuration persistence. Structured rule values (display, targeting,
// triggers, frequency) are stored as JSON columns.
package popups

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/smartengage/smartengage-go/internal/domain/popup"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/persistence/database"
	"github.com/smartengage/smartengage-go/pkg/config"
)

const sqliteTimeFormat = "2006-01-02 15:04:05"

// SQLPopupRepository handles popup configuration persistence to database.
type SQLPopupRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLPopupRepository creates a new instance of the repository.
func NewSQLPopupRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLPopupRepository {
	return &SQLPopupRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new popup configuration.
func (r *SQLPopupRepository) Create(cfg *popup.Config) error {
	cfg.Normalize()

	display, targeting, triggers, frequency, err := marshalRuleColumns(cfg)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO popups (id, name, status, display, targeting, triggers, frequency, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err = r.db.Exec(
		query,
		cfg.ID,
		cfg.Name,
		string(cfg.Status),
		display,
		targeting,
		triggers,
		frequency,
		cfg.Content,
		cfg.CreatedAt.UTC().Format(sqliteTimeFormat),
		cfg.UpdatedAt.UTC().Format(sqliteTimeFormat),
	)
	if err != nil {
		r.logger.Database().Error("Popup insert failed", "error", err.Error(), "popupId", cfg.ID)
		return fmt.Errorf("failed to create popup: %w", err)
	}

	r.logger.Database().Info("Popup created", "popupId", cfg.ID, "duration", time.Since(start))
	r.logSlow(query, time.Since(start))
	return nil
}

// Update replaces an existing popup configuration.
func (r *SQLPopupRepository) Update(cfg *popup.Config) error {
	cfg.Normalize()

	display, targeting, triggers, frequency, err := marshalRuleColumns(cfg)
	if err != nil {
		return err
	}

	const query = `
		UPDATE popups
		SET name = ?, status = ?, display = ?, targeting = ?, triggers = ?, frequency = ?, content = ?, updated_at = ?
		WHERE id = ?`

	start := time.Now()
	result, err := r.db.Exec(
		query,
		cfg.Name,
		string(cfg.Status),
		display,
		targeting,
		triggers,
		frequency,
		cfg.Content,
		cfg.UpdatedAt.UTC().Format(sqliteTimeFormat),
		cfg.ID,
	)
	if err != nil {
		r.logger.Database().Error("Popup update failed", "error", err.Error(), "popupId", cfg.ID)
		return fmt.Errorf("failed to update popup: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return popup.ErrNotFound
	}

	r.logSlow(query, time.Since(start))
	return nil
}

// Delete removes a popup configuration.
func (r *SQLPopupRepository) Delete(id string) error {
	const query = `DELETE FROM popups WHERE id = ?`

	result, err := r.db.Exec(query, id)
	if err != nil {
		r.logger.Database().Error("Popup delete failed", "error", err.Error(), "popupId", id)
		return fmt.Errorf("failed to delete popup: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return popup.ErrNotFound
	}
	return nil
}

// GetByID loads a single popup configuration.
func (r *SQLPopupRepository) GetByID(id string) (*popup.Config, error) {
	const query = `
		SELECT id, name, status, display, targeting, triggers, frequency, content, created_at, updated_at
		FROM popups WHERE id = ?`

	row := r.db.QueryRow(query, id)
	cfg, err := r.scanPopup(row)
	if err == sql.ErrNoRows {
		return nil, popup.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load popup %s: %w", id, err)
	}
	return cfg, nil
}

// GetAll loads every popup configuration.
func (r *SQLPopupRepository) GetAll() ([]*popup.Config, error) {
	return r.queryPopups(`
		SELECT id, name, status, display, targeting, triggers, frequency, content, created_at, updated_at
		FROM popups ORDER BY created_at`)
}

// GetEnabled returns the candidate set for eligibility evaluation.
func (r *SQLPopupRepository) GetEnabled() ([]*popup.Config, error) {
	return r.queryPopups(`
		SELECT id, name, status, display, targeting, triggers, frequency, content, created_at, updated_at
		FROM popups WHERE status = 'enabled' ORDER BY created_at`)
}

// Exists reports whether a popup id is present.
func (r *SQLPopupRepository) Exists(id string) (bool, error) {
	const query = `SELECT 1 FROM popups WHERE id = ? LIMIT 1`

	var one int
	err := r.db.QueryRow(query, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check popup existence: %w", err)
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLPopupRepository) queryPopups(query string) ([]*popup.Config, error) {
	start := time.Now()
	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Failed to query popups", "error", err.Error())
		return nil, fmt.Errorf("failed to query popups: %w", err)
	}
	defer rows.Close()

	var configs []*popup.Config
	for rows.Next() {
		cfg, err := r.scanPopup(rows)
		if err != nil {
			// Log and skip malformed rows rather than failing the whole set
			r.logger.Database().Error("Failed to scan popup row", "error", err.Error())
			continue
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logSlow(query, time.Since(start))
	return configs, nil
}

func (r *SQLPopupRepository) scanPopup(row rowScanner) (*popup.Config, error) {
	var cfg popup.Config
	var status, display, targeting, triggers, frequency string
	var content sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&cfg.ID, &cfg.Name, &status, &display, &targeting, &triggers, &frequency, &content, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	cfg.Status = popup.Status(status)
	if content.Valid {
		cfg.Content = content.String
	}

	// Malformed JSON columns fall through to zero values; Normalize() then
	// resolves them to safe defaults instead of failing evaluation.
	if err := json.Unmarshal([]byte(display), &cfg.Display); err != nil {
		r.logger.Database().Warn("Malformed display column, using defaults", "popupId", cfg.ID)
	}
	if err := json.Unmarshal([]byte(targeting), &cfg.Targeting); err != nil {
		r.logger.Database().Warn("Malformed targeting column, using defaults", "popupId", cfg.ID)
	}
	if err := json.Unmarshal([]byte(triggers), &cfg.Triggers); err != nil {
		r.logger.Database().Warn("Malformed triggers column, using defaults", "popupId", cfg.ID)
	}
	if err := json.Unmarshal([]byte(frequency), &cfg.Frequency); err != nil {
		r.logger.Database().Warn("Malformed frequency column, using defaults", "popupId", cfg.ID)
	}

	if t, err := time.Parse(sqliteTimeFormat, createdAt); err == nil {
		cfg.CreatedAt = t
	}
	if t, err := time.Parse(sqliteTimeFormat, updatedAt); err == nil {
		cfg.UpdatedAt = t
	}

	cfg.Normalize()
	return &cfg, nil
}

func (r *SQLPopupRepository) logSlow(query string, duration time.Duration) {
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration, "popups")
	}
}

func marshalRuleColumns(cfg *popup.Config) (display, targeting, triggers, frequency string, err error) {
	displayBytes, err := json.Marshal(cfg.Display)
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to marshal display: %w", err)
	}
	targetingBytes, err := json.Marshal(cfg.Targeting)
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to marshal targeting: %w", err)
	}
	triggersBytes, err := json.Marshal(cfg.Triggers)
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to marshal triggers: %w", err)
	}
	frequencyBytes, err := json.Marshal(cfg.Frequency)
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to marshal frequency: %w", err)
	}
	return string(displayBytes), string(targetingBytes), string(triggersBytes), string(frequencyBytes), nil
}
