package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

type sqlitePolicyGroupRepo struct {
	db *sql.DB
}

func (r *sqlitePolicyGroupRepo) Create(ctx context.Context, group *models.PolicyGroup) error {
	systems, err := json.Marshal(group.Systems)
	if err != nil {
		return fmt.Errorf("marshal systems: %w", err)
	}

	now := time.Now()
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO policy_groups (name, systems_json, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, group.Name, string(systems), now, now)
	if err != nil {
		return fmt.Errorf("create policy group: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("policy group id: %w", err)
	}
	group.ID = id
	return nil
}

func (r *sqlitePolicyGroupRepo) GetByID(ctx context.Context, id int64) (*models.PolicyGroup, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, systems_json FROM policy_groups WHERE id = ?
	`, id)
	return scanPolicyGroup(row)
}

func (r *sqlitePolicyGroupRepo) GetByName(ctx context.Context, name string) (*models.PolicyGroup, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, systems_json FROM policy_groups WHERE name = ?
	`, name)
	return scanPolicyGroup(row)
}

func (r *sqlitePolicyGroupRepo) Update(ctx context.Context, group *models.PolicyGroup) error {
	systems, err := json.Marshal(group.Systems)
	if err != nil {
		return fmt.Errorf("marshal systems: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE policy_groups SET name = ?, systems_json = ?, updated_at = ? WHERE id = ?
	`, group.Name, string(systems), time.Now(), group.ID)
	if err != nil {
		return fmt.Errorf("update policy group: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update policy group rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sqlitePolicyGroupRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM policy_groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete policy group: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete policy group rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sqlitePolicyGroupRepo) List(ctx context.Context) ([]models.PolicyGroup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, systems_json FROM policy_groups ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query policy groups: %w", err)
	}
	defer rows.Close()

	var groups []models.PolicyGroup
	for rows.Next() {
		g, err := scanPolicyGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

func scanPolicyGroup(row rowScanner) (*models.PolicyGroup, error) {
	var g models.PolicyGroup
	var systemsJSON string
	if err := row.Scan(&g.ID, &g.Name, &systemsJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan policy group: %w", err)
	}
	if err := json.Unmarshal([]byte(systemsJSON), &g.Systems); err != nil {
		return nil, fmt.Errorf("unmarshal systems: %w", err)
	}
	return &g, nil
}
