package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "skills: tracked abilities",
		SQL: `
CREATE TABLE skills (
    id                    TEXT PRIMARY KEY,
    name                  TEXT NOT NULL CHECK (length(trim(name)) > 0),
    category              TEXT NOT NULL DEFAULT 'other',
    decay_rate            REAL NOT NULL DEFAULT 1.0 CHECK (decay_rate > 0),
    target_frequency_days INTEGER NOT NULL DEFAULT 7 CHECK (target_frequency_days >= 1),
    notes                 TEXT NOT NULL DEFAULT '',
    archived              INTEGER NOT NULL DEFAULT 0,
    created_at            INTEGER NOT NULL
);

CREATE INDEX idx_skills_archived ON skills(archived);
`,
	},
	{
		Version:     2,
		Description: "practice_logs: practice sessions per skill",
		SQL: `
CREATE TABLE practice_logs (
    id               TEXT PRIMARY KEY,
    skill_id         TEXT NOT NULL,
    practiced_at     INTEGER NOT NULL,
    duration_minutes INTEGER CHECK (duration_minutes IS NULL OR duration_minutes >= 0),
    quality          INTEGER CHECK (quality IS NULL OR quality BETWEEN 1 AND 5),
    notes            TEXT NOT NULL DEFAULT '',
    created_at       INTEGER NOT NULL,

    FOREIGN KEY (skill_id) REFERENCES skills(id) ON DELETE CASCADE
);

CREATE INDEX idx_logs_skill     ON practice_logs(skill_id, practiced_at DESC);
CREATE INDEX idx_logs_practiced ON practice_logs(practiced_at DESC);
`,
	},
	{
		Version:     3,
		Description: "categories and settings: reference data and preferences",
		SQL: `
CREATE TABLE categories (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    icon               TEXT NOT NULL DEFAULT '',
    default_decay_rate REAL NOT NULL DEFAULT 1.0 CHECK (default_decay_rate > 0),
    color              TEXT NOT NULL DEFAULT '',
    position           INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE settings (
    id                       INTEGER PRIMARY KEY CHECK (id = 1),
    default_target_frequency INTEGER NOT NULL DEFAULT 7 CHECK (default_target_frequency >= 1),
    theme                    TEXT NOT NULL DEFAULT 'auto' CHECK (theme IN ('light', 'dark', 'auto'))
);

INSERT INTO settings (id) VALUES (1);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
