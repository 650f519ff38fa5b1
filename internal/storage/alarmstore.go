package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

// AlarmStoreConfig holds the connection settings for the external MSSQL
// alarm store, plus the names of the three delta views.
type AlarmStoreConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // "disable" turns encryption off

	NewView     string // default: new_alarms_view
	ChangedView string // default: changed_alarms_view
	ClosedView  string // default: closed_alarms_view
}

// AlarmStore is the read-only client for the external alarm store. Each
// FetchDeltas call drains the three delta views; the store marks rows
// consumed on its side.
type AlarmStore struct {
	cfg AlarmStoreConfig
	db  *sql.DB
}

// NewAlarmStore opens a connection to the alarm store.
func NewAlarmStore(cfg AlarmStoreConfig) (*AlarmStore, error) {
	if cfg.Port == 0 {
		cfg.Port = 1433
	}
	if cfg.NewView == "" {
		cfg.NewView = "new_alarms_view"
	}
	if cfg.ChangedView == "" {
		cfg.ChangedView = "changed_alarms_view"
	}
	if cfg.ClosedView == "" {
		cfg.ClosedView = "closed_alarms_view"
	}

	user := url.QueryEscape(cfg.User)
	pass := url.QueryEscape(cfg.Password)
	encrypt := "true"
	if strings.ToLower(strings.TrimSpace(cfg.SSLMode)) == "disable" {
		encrypt = "disable"
	}
	dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s&encrypt=%s",
		user, pass, cfg.Host, cfg.Port, cfg.Database, encrypt)

	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("open alarm store connection: %w", err)
	}
	return &AlarmStore{cfg: cfg, db: db}, nil
}

// Ping checks the alarm store connection.
func (s *AlarmStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping alarm store: %w", err)
	}
	return nil
}

// Close closes the connection.
func (s *AlarmStore) Close() error {
	return s.db.Close()
}

// FetchDeltas reads the pending new, changed and closed alert batches. Any
// failure is returned whole; a cycle never processes a partial fetch.
func (s *AlarmStore) FetchDeltas(ctx context.Context) (*models.AlertDeltas, error) {
	newAlerts, err := s.fetchView(ctx, s.cfg.NewView)
	if err != nil {
		return nil, fmt.Errorf("fetch new alerts: %w", err)
	}
	changed, err := s.fetchView(ctx, s.cfg.ChangedView)
	if err != nil {
		return nil, fmt.Errorf("fetch changed alerts: %w", err)
	}
	closed, err := s.fetchView(ctx, s.cfg.ClosedView)
	if err != nil {
		return nil, fmt.Errorf("fetch closed alerts: %w", err)
	}
	return &models.AlertDeltas{New: newAlerts, Changed: changed, Closed: closed}, nil
}

// alarmColumns are the view columns the engine consumes.
const alarmColumns = "nimid, hostname, prid, source, message, subsys, severity, " +
	"user_tag1, user_tag2, custom_1, custom_2, custom_3, custom_4, custom_5, prevlevel, level"

func (s *AlarmStore) fetchView(ctx context.Context, view string) ([]models.AlertEvent, error) {
	// View names come from configuration, not request input.
	query := fmt.Sprintf("SELECT %s FROM [dbo].[%s] WITH (NOLOCK)", alarmColumns, view)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", view, err)
	}
	defer rows.Close()

	var alerts []models.AlertEvent
	for rows.Next() {
		var a models.AlertEvent
		var hostname, prid, source, message, subsys, severity sql.NullString
		var tag1, tag2, c1, c2, c3, c4, c5 sql.NullString
		var prevlevel, level sql.NullInt64
		err := rows.Scan(&a.NimID, &hostname, &prid, &source, &message, &subsys, &severity,
			&tag1, &tag2, &c1, &c2, &c3, &c4, &c5, &prevlevel, &level)
		if err != nil {
			return nil, fmt.Errorf("scan %s row: %w", view, err)
		}
		a.Hostname = hostname.String
		a.Probe = prid.String
		a.Source = source.String
		a.Message = message.String
		a.Subsys = subsys.String
		a.Severity = severity.String
		a.UserTag1 = tag1.String
		a.UserTag2 = tag2.String
		a.Custom1 = c1.String
		a.Custom2 = c2.String
		a.Custom3 = c3.String
		a.Custom4 = c4.String
		a.Custom5 = c5.String
		a.PrevLevel = int(prevlevel.Int64)
		a.Level = int(level.Int64)
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", view, err)
	}
	return alerts, nil
}
