package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	path string
	db   *sql.DB

	contacts     *sqliteContactRepo
	policyGroups *sqlitePolicyGroupRepo
	maintenance  *sqliteMaintenanceRepo
	messageLog   *sqliteMessageLogRepo
	alertHistory *sqliteAlertHistoryRepo
}

// NewSQLiteStorage creates a new SQLite storage.
func NewSQLiteStorage(path string) *SQLiteStorage {
	return &SQLiteStorage{path: path}
}

// Open initializes the database connection.
func (s *SQLiteStorage) Open() error {
	ctx := context.Background()

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	s.db = db

	s.contacts = &sqliteContactRepo{db: db}
	s.policyGroups = &sqlitePolicyGroupRepo{db: db}
	s.maintenance = &sqliteMaintenanceRepo{db: db}
	s.messageLog = &sqliteMessageLogRepo{db: db}
	s.alertHistory = &sqliteAlertHistoryRepo{db: db}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying database connection for health checks.
func (s *SQLiteStorage) DB() *sql.DB {
	return s.db
}

// Migrate runs database migrations.
func (s *SQLiteStorage) Migrate() error {
	return runMigrations(s.db)
}

// Contacts returns the contact repository.
func (s *SQLiteStorage) Contacts() ContactRepository { return s.contacts }

// PolicyGroups returns the policy group repository.
func (s *SQLiteStorage) PolicyGroups() PolicyGroupRepository { return s.policyGroups }

// Maintenance returns the maintenance window repository.
func (s *SQLiteStorage) Maintenance() MaintenanceRepository { return s.maintenance }

// MessageLog returns the message log repository.
func (s *SQLiteStorage) MessageLog() MessageLogRepository { return s.messageLog }

// AlertHistory returns the alert history repository.
func (s *SQLiteStorage) AlertHistory() AlertHistoryRepository { return s.alertHistory }
