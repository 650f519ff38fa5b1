// Package storage provides database storage interfaces and implementations:
// the sqlite routing-configuration and audit store, and the read-only MSSQL
// alarm store client.
package storage

import (
	"context"
	"time"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

// Storage is the main interface for the routing configuration and audit store.
type Storage interface {
	// Open initializes the database connection.
	Open() error
	// Close closes the database connection.
	Close() error
	// Migrate runs database migrations.
	Migrate() error

	// Repository accessors
	Contacts() ContactRepository
	PolicyGroups() PolicyGroupRepository
	Maintenance() MaintenanceRepository
	MessageLog() MessageLogRepository
	AlertHistory() AlertHistoryRepository
}

// ContactRepository defines operations for contact management.
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id int64) (*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.Contact, error)
	// ContactsByGroup returns the members of one policy group. The group
	// name is matched case-sensitively against the membership set.
	ContactsByGroup(ctx context.Context, group string) ([]models.Contact, error)
}

// PolicyGroupRepository defines operations for policy group management.
type PolicyGroupRepository interface {
	Create(ctx context.Context, group *models.PolicyGroup) error
	GetByID(ctx context.Context, id int64) (*models.PolicyGroup, error)
	GetByName(ctx context.Context, name string) (*models.PolicyGroup, error)
	Update(ctx context.Context, group *models.PolicyGroup) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.PolicyGroup, error)
}

// MaintenanceRepository defines operations for maintenance windows.
type MaintenanceRepository interface {
	Create(ctx context.Context, window *models.MaintenanceWindow) error
	GetByID(ctx context.Context, id int64) (*models.MaintenanceWindow, error)
	Update(ctx context.Context, window *models.MaintenanceWindow) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.MaintenanceWindow, error)
	// ListActive returns enabled windows whose time bound includes now.
	ListActive(ctx context.Context, now time.Time) ([]models.MaintenanceWindow, error)
}

// MessageLogRepository defines operations for the audit log. Entries are
// append-only.
type MessageLogRepository interface {
	Create(ctx context.Context, entry *models.MessageLogEntry) error
	List(ctx context.Context, limit, offset int) ([]models.MessageLogEntry, int64, error)
	ListByAlert(ctx context.Context, alertID string, limit, offset int) ([]models.MessageLogEntry, int64, error)
}

// AlertHistoryRepository defines operations for alert lifecycle state.
type AlertHistoryRepository interface {
	Insert(ctx context.Context, h *models.AlertHistory) error
	UpdateLevel(ctx context.Context, nimid string, level int) error
	MarkClosed(ctx context.Context, nimid string) error
	GetByNimID(ctx context.Context, nimid string) (*models.AlertHistory, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// AlarmSource fetches pending alert deltas from the external alarm store.
type AlarmSource interface {
	FetchDeltas(ctx context.Context) (*models.AlertDeltas, error)
}
