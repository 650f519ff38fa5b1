package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

type sqliteAlertHistoryRepo struct {
	db *sql.DB
}

func (r *sqliteAlertHistoryRepo) Insert(ctx context.Context, h *models.AlertHistory) error {
	now := time.Now()
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO alert_history (nimid, closed, prevlevel, level, created_at, updated_at)
		VALUES (?, 0, ?, ?, ?, ?)
	`, h.NimID, h.PrevLevel, h.Level, now, now)
	if err != nil {
		return fmt.Errorf("insert alert history: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("alert history id: %w", err)
	}
	h.ID = id
	return nil
}

// UpdateLevel shifts the stored level into prevlevel and records the new one.
func (r *sqliteAlertHistoryRepo) UpdateLevel(ctx context.Context, nimid string, level int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE alert_history SET prevlevel = level, level = ?, updated_at = ? WHERE nimid = ?
	`, level, time.Now(), nimid)
	if err != nil {
		return fmt.Errorf("update alert level: %w", err)
	}
	return nil
}

func (r *sqliteAlertHistoryRepo) MarkClosed(ctx context.Context, nimid string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE alert_history SET closed = 1, updated_at = ? WHERE nimid = ?
	`, time.Now(), nimid)
	if err != nil {
		return fmt.Errorf("mark alert closed: %w", err)
	}
	return nil
}

func (r *sqliteAlertHistoryRepo) GetByNimID(ctx context.Context, nimid string) (*models.AlertHistory, error) {
	var h models.AlertHistory
	var closed int
	err := r.db.QueryRowContext(ctx, `
		SELECT id, nimid, closed, prevlevel, level FROM alert_history WHERE nimid = ?
		ORDER BY id DESC LIMIT 1
	`, nimid).Scan(&h.ID, &h.NimID, &closed, &h.PrevLevel, &h.Level)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get alert history: %w", err)
	}
	h.Closed = closed != 0
	return &h, nil
}

func (r *sqliteAlertHistoryRepo) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM alert_history WHERE updated_at < ?", before)
	if err != nil {
		return 0, fmt.Errorf("delete alert history: %w", err)
	}
	return result.RowsAffected()
}
