package database

import "fmt"

const schema = `
CREATE TABLE IF NOT EXISTS popups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'disabled',
    display TEXT NOT NULL,
    targeting TEXT NOT NULL,
    triggers TEXT NOT NULL,
    frequency TEXT NOT NULL,
    content TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_popups_status ON popups(status);

CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    popup_id TEXT NOT NULL,
    event_type TEXT NOT NULL,
    created_at TEXT NOT NULL,
    anonymized_ip TEXT,
    user_agent TEXT,
    referrer TEXT
);

CREATE INDEX IF NOT EXISTS idx_events_popup ON events(popup_id);
CREATE INDEX IF NOT EXISTS idx_events_popup_type ON events(popup_id, event_type);
CREATE INDEX IF NOT EXISTS idx_events_created ON events(created_at);

CREATE TABLE IF NOT EXISTS visitor_state (
    visitor_id TEXT NOT NULL,
    popup_id TEXT NOT NULL,
    last_shown_at TEXT,
    impression_count INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (visitor_id, popup_id)
);
`

// ApplySchema creates the tables and indexes if they do not exist.
func (db *DB) ApplySchema() error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
