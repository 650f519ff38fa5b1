package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

type sqliteMessageLogRepo struct {
	db *sql.DB
}

func (r *sqliteMessageLogRepo) Create(ctx context.Context, entry *models.MessageLogEntry) error {
	groups, err := json.Marshal(entry.PolicyGroups)
	if err != nil {
		return fmt.Errorf("marshal policy groups: %w", err)
	}
	addresses, err := json.Marshal(entry.Addresses)
	if err != nil {
		return fmt.Errorf("marshal addresses: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO message_log (id, alert_id, policy_groups_json, date, hostname, severity, message, method, addresses_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.AlertID, string(groups), entry.Date, entry.Hostname,
		entry.Severity, entry.Message, entry.Method, string(addresses))
	if err != nil {
		return fmt.Errorf("create message log entry: %w", err)
	}
	return nil
}

func (r *sqliteMessageLogRepo) List(ctx context.Context, limit, offset int) ([]models.MessageLogEntry, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM message_log").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count message log: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, alert_id, policy_groups_json, date, hostname, severity, message, method, addresses_json
		FROM message_log ORDER BY date DESC LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query message log: %w", err)
	}
	defer rows.Close()

	entries, err := scanMessageLogEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *sqliteMessageLogRepo) ListByAlert(ctx context.Context, alertID string, limit, offset int) ([]models.MessageLogEntry, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM message_log WHERE alert_id = ?", alertID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count message log by alert: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, alert_id, policy_groups_json, date, hostname, severity, message, method, addresses_json
		FROM message_log WHERE alert_id = ? ORDER BY date DESC LIMIT ? OFFSET ?
	`, alertID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query message log by alert: %w", err)
	}
	defer rows.Close()

	entries, err := scanMessageLogEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func scanMessageLogEntries(rows *sql.Rows) ([]models.MessageLogEntry, error) {
	var entries []models.MessageLogEntry
	for rows.Next() {
		var e models.MessageLogEntry
		var groupsJSON, addressesJSON string
		err := rows.Scan(&e.ID, &e.AlertID, &groupsJSON, &e.Date, &e.Hostname,
			&e.Severity, &e.Message, &e.Method, &addressesJSON)
		if err != nil {
			return nil, fmt.Errorf("scan message log entry: %w", err)
		}
		if err := json.Unmarshal([]byte(groupsJSON), &e.PolicyGroups); err != nil {
			return nil, fmt.Errorf("unmarshal policy groups: %w", err)
		}
		if err := json.Unmarshal([]byte(addressesJSON), &e.Addresses); err != nil {
			return nil, fmt.Errorf("unmarshal addresses: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
