package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

type sqliteMaintenanceRepo struct {
	db *sql.DB
}

func (r *sqliteMaintenanceRepo) Create(ctx context.Context, window *models.MaintenanceWindow) error {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO maintenance_windows (name, start_time, end_time, hostname, probe, source, message, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, window.Name, window.StartTime, nullTime(window.EndTime), window.Hostname,
		window.Probe, window.Source, window.Message, boolToInt(window.IsActive))
	if err != nil {
		return fmt.Errorf("create maintenance window: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("maintenance window id: %w", err)
	}
	window.ID = id
	return nil
}

func (r *sqliteMaintenanceRepo) GetByID(ctx context.Context, id int64) (*models.MaintenanceWindow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, start_time, end_time, hostname, probe, source, message, is_active
		FROM maintenance_windows WHERE id = ?
	`, id)
	return scanMaintenanceWindow(row)
}

func (r *sqliteMaintenanceRepo) Update(ctx context.Context, window *models.MaintenanceWindow) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE maintenance_windows
		SET name = ?, start_time = ?, end_time = ?, hostname = ?, probe = ?, source = ?, message = ?, is_active = ?
		WHERE id = ?
	`, window.Name, window.StartTime, nullTime(window.EndTime), window.Hostname,
		window.Probe, window.Source, window.Message, boolToInt(window.IsActive), window.ID)
	if err != nil {
		return fmt.Errorf("update maintenance window: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update maintenance window rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sqliteMaintenanceRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM maintenance_windows WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete maintenance window: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete maintenance window rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sqliteMaintenanceRepo) List(ctx context.Context) ([]models.MaintenanceWindow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, start_time, end_time, hostname, probe, source, message, is_active
		FROM maintenance_windows ORDER BY start_time DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query maintenance windows: %w", err)
	}
	defer rows.Close()
	return scanMaintenanceWindows(rows)
}

func (r *sqliteMaintenanceRepo) ListActive(ctx context.Context, now time.Time) ([]models.MaintenanceWindow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, start_time, end_time, hostname, probe, source, message, is_active
		FROM maintenance_windows
		WHERE is_active = 1 AND start_time <= ? AND (end_time IS NULL OR end_time >= ?)
	`, now, now)
	if err != nil {
		return nil, fmt.Errorf("query active maintenance windows: %w", err)
	}
	defer rows.Close()
	return scanMaintenanceWindows(rows)
}

func scanMaintenanceWindow(row rowScanner) (*models.MaintenanceWindow, error) {
	var w models.MaintenanceWindow
	var endTime sql.NullTime
	var isActive int
	err := row.Scan(&w.ID, &w.Name, &w.StartTime, &endTime, &w.Hostname,
		&w.Probe, &w.Source, &w.Message, &isActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan maintenance window: %w", err)
	}
	if endTime.Valid {
		t := endTime.Time
		w.EndTime = &t
	}
	w.IsActive = isActive != 0
	return &w, nil
}

func scanMaintenanceWindows(rows *sql.Rows) ([]models.MaintenanceWindow, error) {
	var windows []models.MaintenanceWindow
	for rows.Next() {
		w, err := scanMaintenanceWindow(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, *w)
	}
	return windows, rows.Err()
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
