package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Migration represents a database migration.
type Migration struct {
	Version int
	Name    string
	Up      string
}

// migrations holds all database migrations in order.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up: `
			-- Contacts table
			CREATE TABLE IF NOT EXISTS contacts (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				phone TEXT NOT NULL DEFAULT '',
				email TEXT NOT NULL DEFAULT '',
				active_json TEXT NOT NULL,
				schedule_json TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);

			-- Contact-group membership (group name doubles as the
			-- policy-group routing key)
			CREATE TABLE IF NOT EXISTS contact_groups (
				contact_id INTEGER NOT NULL,
				group_name TEXT NOT NULL,
				position INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (contact_id, group_name),
				FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE
			);

			-- Policy groups, rules stored as a JSON document
			CREATE TABLE IF NOT EXISTS policy_groups (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT UNIQUE NOT NULL,
				systems_json TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);

			-- Maintenance windows
			CREATE TABLE IF NOT EXISTS maintenance_windows (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				start_time DATETIME NOT NULL,
				end_time DATETIME,
				hostname TEXT NOT NULL DEFAULT '',
				probe TEXT NOT NULL DEFAULT '',
				source TEXT NOT NULL DEFAULT '',
				message TEXT NOT NULL DEFAULT '',
				is_active INTEGER NOT NULL DEFAULT 0
			);

			-- Message log (append-only audit)
			CREATE TABLE IF NOT EXISTS message_log (
				id TEXT PRIMARY KEY,
				alert_id TEXT NOT NULL,
				policy_groups_json TEXT NOT NULL,
				date TEXT NOT NULL,
				hostname TEXT NOT NULL,
				severity TEXT NOT NULL,
				message TEXT NOT NULL,
				method TEXT NOT NULL,
				addresses_json TEXT NOT NULL
			);

			-- Alert lifecycle history
			CREATE TABLE IF NOT EXISTS alert_history (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				nimid TEXT NOT NULL,
				closed INTEGER NOT NULL DEFAULT 0,
				prevlevel INTEGER NOT NULL,
				level INTEGER NOT NULL,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);

			-- Indexes
			CREATE INDEX IF NOT EXISTS idx_contact_groups_name ON contact_groups(group_name);
			CREATE INDEX IF NOT EXISTS idx_maintenance_active ON maintenance_windows(is_active);
			CREATE INDEX IF NOT EXISTS idx_message_log_alert ON message_log(alert_id);
			CREATE INDEX IF NOT EXISTS idx_message_log_date ON message_log(date);
			CREATE INDEX IF NOT EXISTS idx_alert_history_nimid ON alert_history(nimid);
		`,
	},
}

// runMigrations applies all pending migrations.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("get current version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Name, time.Now(),
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
