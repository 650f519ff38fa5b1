package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

type sqliteContactRepo struct {
	db *sql.DB
}

func (r *sqliteContactRepo) Create(ctx context.Context, contact *models.Contact) error {
	active, err := json.Marshal(contact.Active)
	if err != nil {
		return fmt.Errorf("marshal active flags: %w", err)
	}
	schedule, err := json.Marshal(contact.Schedule)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create contact: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO contacts (name, phone, email, active_json, schedule_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, contact.Name, contact.Phone, contact.Email, string(active), string(schedule), now, now)
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("contact id: %w", err)
	}
	contact.ID = id

	if err := replaceGroups(ctx, tx, id, contact.Groups); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *sqliteContactRepo) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, email, active_json, schedule_json
		FROM contacts WHERE id = ?
	`, id)

	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadGroups(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (r *sqliteContactRepo) Update(ctx context.Context, contact *models.Contact) error {
	active, err := json.Marshal(contact.Active)
	if err != nil {
		return fmt.Errorf("marshal active flags: %w", err)
	}
	schedule, err := json.Marshal(contact.Schedule)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update contact: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE contacts SET name = ?, phone = ?, email = ?, active_json = ?, schedule_json = ?, updated_at = ?
		WHERE id = ?
	`, contact.Name, contact.Phone, contact.Email, string(active), string(schedule), time.Now(), contact.ID)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update contact rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM contact_groups WHERE contact_id = ?", contact.ID); err != nil {
		return fmt.Errorf("clear contact groups: %w", err)
	}
	if err := replaceGroups(ctx, tx, contact.ID, contact.Groups); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *sqliteContactRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sqliteContactRepo) List(ctx context.Context) ([]models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, email, active_json, schedule_json
		FROM contacts ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	contacts, err := scanContacts(rows)
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		if err := r.loadGroups(ctx, &contacts[i]); err != nil {
			return nil, err
		}
	}
	return contacts, nil
}

func (r *sqliteContactRepo) ContactsByGroup(ctx context.Context, group string) ([]models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.phone, c.email, c.active_json, c.schedule_json
		FROM contacts c
		JOIN contact_groups g ON g.contact_id = c.id
		WHERE g.group_name = ?
		ORDER BY c.name
	`, group)
	if err != nil {
		return nil, fmt.Errorf("query contacts by group: %w", err)
	}
	defer rows.Close()

	contacts, err := scanContacts(rows)
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		if err := r.loadGroups(ctx, &contacts[i]); err != nil {
			return nil, err
		}
	}
	return contacts, nil
}

func (r *sqliteContactRepo) loadGroups(ctx context.Context, contact *models.Contact) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT group_name FROM contact_groups WHERE contact_id = ? ORDER BY position
	`, contact.ID)
	if err != nil {
		return fmt.Errorf("query contact groups: %w", err)
	}
	defer rows.Close()

	contact.Groups = nil
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan contact group: %w", err)
		}
		contact.Groups = append(contact.Groups, name)
	}
	return rows.Err()
}

func replaceGroups(ctx context.Context, tx *sql.Tx, contactID int64, groups []string) error {
	for i, name := range groups {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO contact_groups (contact_id, group_name, position) VALUES (?, ?, ?)
		`, contactID, name, i); err != nil {
			return fmt.Errorf("insert contact group %q: %w", name, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*models.Contact, error) {
	var c models.Contact
	var activeJSON, scheduleJSON string
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &activeJSON, &scheduleJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	if err := json.Unmarshal([]byte(activeJSON), &c.Active); err != nil {
		return nil, fmt.Errorf("unmarshal active flags: %w", err)
	}
	if err := json.Unmarshal([]byte(scheduleJSON), &c.Schedule); err != nil {
		return nil, fmt.Errorf("unmarshal schedule: %w", err)
	}
	return &c, nil
}

func scanContacts(rows *sql.Rows) ([]models.Contact, error) {
	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}
