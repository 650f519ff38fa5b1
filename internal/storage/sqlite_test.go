package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := NewSQLiteStorage(dbPath)
	if err := store.Open(); err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		t.Fatalf("migrate database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStorage_OpenAndMigrate(t *testing.T) {
	store := setupTestDB(t)

	if store.db == nil {
		t.Fatal("database should be open")
	}

	// Migrate is idempotent.
	if err := store.Migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestContactRepository_CRUD(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	contact := models.Contact{
		Name:     "alice",
		Phone:    "555-0100",
		Email:    "alice@example.com",
		Groups:   []string{"ops", "dba"},
		Active:   models.ChannelFlags{SMS: true, Email: true},
		Schedule: models.FullWeek(),
	}
	if err := store.Contacts().Create(ctx, &contact); err != nil {
		t.Fatalf("create contact: %v", err)
	}
	if contact.ID == 0 {
		t.Fatal("create should assign an id")
	}

	got, err := store.Contacts().GetByID(ctx, contact.ID)
	if err != nil {
		t.Fatalf("get contact: %v", err)
	}
	if got == nil {
		t.Fatal("contact not found after create")
	}
	if got.Name != "alice" || got.Phone != "555-0100" {
		t.Errorf("got %+v", got)
	}
	if len(got.Groups) != 2 || got.Groups[0] != "ops" || got.Groups[1] != "dba" {
		t.Errorf("groups = %v, want [ops dba] in insertion order", got.Groups)
	}
	if !got.Active.SMS || !got.Active.Email {
		t.Errorf("active flags = %+v", got.Active)
	}
	if got.Schedule.StartTime != "00:00" || got.Schedule.EndTime != "23:59" {
		t.Errorf("schedule = %+v", got.Schedule)
	}

	// Update replaces the membership set.
	contact.Groups = []string{"network"}
	contact.Active.Email = false
	if err := store.Contacts().Update(ctx, &contact); err != nil {
		t.Fatalf("update contact: %v", err)
	}
	got, err = store.Contacts().GetByID(ctx, contact.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if len(got.Groups) != 1 || got.Groups[0] != "network" {
		t.Errorf("groups after update = %v", got.Groups)
	}
	if got.Active.Email {
		t.Error("email flag should be cleared")
	}

	if err := store.Contacts().Delete(ctx, contact.ID); err != nil {
		t.Fatalf("delete contact: %v", err)
	}
	got, err = store.Contacts().GetByID(ctx, contact.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("contact should be gone after delete")
	}
}

func TestContactRepository_MissingRows(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	if err := store.Contacts().Update(ctx, &models.Contact{ID: 999, Name: "ghost"}); err == nil {
		t.Error("expected error updating a missing contact")
	}
	if err := store.Contacts().Delete(ctx, 999); err == nil {
		t.Error("expected error deleting a missing contact")
	}
	got, err := store.Contacts().GetByID(ctx, 999)
	if err != nil {
		t.Fatalf("get missing contact: %v", err)
	}
	if got != nil {
		t.Error("expected nil for a missing contact")
	}
}

func TestContactRepository_ContactsByGroup(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	for _, c := range []models.Contact{
		{Name: "alice", Phone: "555-0100", Groups: []string{"ops"}, Schedule: models.FullWeek()},
		{Name: "bob", Phone: "555-0101", Groups: []string{"ops", "dba"}, Schedule: models.FullWeek()},
		{Name: "carol", Phone: "555-0102", Groups: []string{"dba"}, Schedule: models.FullWeek()},
	} {
		contact := c
		if err := store.Contacts().Create(ctx, &contact); err != nil {
			t.Fatalf("create %s: %v", c.Name, err)
		}
	}

	ops, err := store.Contacts().ContactsByGroup(ctx, "ops")
	if err != nil {
		t.Fatalf("contacts by group: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("ops members = %d, want 2", len(ops))
	}
	if ops[0].Name != "alice" || ops[1].Name != "bob" {
		t.Errorf("ops members = %s, %s", ops[0].Name, ops[1].Name)
	}

	none, err := store.Contacts().ContactsByGroup(ctx, "unknown")
	if err != nil {
		t.Fatalf("contacts by unknown group: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("unknown group members = %d, want 0", len(none))
	}
}

func TestPolicyGroupRepository_CRUD(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	group := models.PolicyGroup{
		Name: "ops",
		Systems: []models.SystemRule{
			{
				Hostname: "*webhost",
				Severity: &models.SeverityPolicy{
					SMS: &models.SeverityBand{Min: 3, Max: 5},
				},
			},
		},
	}
	if err := store.PolicyGroups().Create(ctx, &group); err != nil {
		t.Fatalf("create policy group: %v", err)
	}
	if group.ID == 0 {
		t.Fatal("create should assign an id")
	}

	got, err := store.PolicyGroups().GetByName(ctx, "ops")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if got == nil {
		t.Fatal("group not found by name")
	}
	if len(got.Systems) != 1 || got.Systems[0].Hostname != "*webhost" {
		t.Errorf("systems = %+v", got.Systems)
	}
	if got.Systems[0].Severity == nil || got.Systems[0].Severity.SMS.Min != 3 {
		t.Errorf("severity policy = %+v", got.Systems[0].Severity)
	}
	if got.Systems[0].Severity.Email != nil {
		t.Error("email band should stay nil through the round trip")
	}

	group.Systems = append(group.Systems, models.SystemRule{Probe: "cdm"})
	if err := store.PolicyGroups().Update(ctx, &group); err != nil {
		t.Fatalf("update policy group: %v", err)
	}
	got, err = store.PolicyGroups().GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if len(got.Systems) != 2 {
		t.Errorf("systems after update = %d, want 2", len(got.Systems))
	}

	groups, err := store.PolicyGroups().List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(groups) != 1 {
		t.Errorf("groups = %d, want 1", len(groups))
	}

	if err := store.PolicyGroups().Delete(ctx, group.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = store.PolicyGroups().GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("group should be gone after delete")
	}
}

func TestMaintenanceRepository_ListActive(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	longPast := now.Add(-2 * time.Hour)

	windows := []models.MaintenanceWindow{
		{Name: "running", StartTime: past, EndTime: &future, Hostname: "srv1", IsActive: true},
		{Name: "open-ended", StartTime: past, Hostname: "srv2", IsActive: true},
		{Name: "expired", StartTime: longPast, EndTime: &past, Hostname: "srv3", IsActive: true},
		{Name: "not-started", StartTime: future, Hostname: "srv4", IsActive: true},
		{Name: "disabled", StartTime: past, EndTime: &future, Hostname: "srv5", IsActive: false},
	}
	for i := range windows {
		if err := store.Maintenance().Create(ctx, &windows[i]); err != nil {
			t.Fatalf("create window %s: %v", windows[i].Name, err)
		}
	}

	active, err := store.Maintenance().ListActive(ctx, now)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("active windows = %d, want 2", len(active))
	}
	names := map[string]bool{}
	for _, w := range active {
		names[w.Name] = true
	}
	if !names["running"] || !names["open-ended"] {
		t.Errorf("active windows = %v", names)
	}
}

func TestMessageLogRepository_CreateAndList(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	base := time.Now().UnixMilli()
	for i := 0; i < 5; i++ {
		alertID := "AL1"
		if i >= 3 {
			alertID = "AL2"
		}
		entry := models.MessageLogEntry{
			ID:           uuid.New().String(),
			AlertID:      alertID,
			PolicyGroups: []string{"ops"},
			Date:         models.LogDate(time.UnixMilli(base + int64(i))),
			Hostname:     "srv1",
			Severity:     "Major",
			Message:      "disk full",
			Method:       models.MethodPhone,
			Addresses:    []string{"555-0100"},
		}
		if err := store.MessageLog().Create(ctx, &entry); err != nil {
			t.Fatalf("create entry %d: %v", i, err)
		}
	}

	entries, total, err := store.MessageLog().List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(entries) != 2 {
		t.Fatalf("page size = %d, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Date < entries[1].Date {
		t.Errorf("entries not in descending date order: %s then %s", entries[0].Date, entries[1].Date)
	}
	if len(entries[0].PolicyGroups) != 1 || entries[0].PolicyGroups[0] != "ops" {
		t.Errorf("policy groups = %v", entries[0].PolicyGroups)
	}

	byAlert, total, err := store.MessageLog().ListByAlert(ctx, "AL2", 10, 0)
	if err != nil {
		t.Fatalf("list by alert: %v", err)
	}
	if total != 2 || len(byAlert) != 2 {
		t.Errorf("AL2 entries = %d (total %d), want 2", len(byAlert), total)
	}
}

func TestAlertHistoryRepository_Lifecycle(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	h := models.AlertHistory{NimID: "AL1", PrevLevel: 0, Level: 3}
	if err := store.AlertHistory().Insert(ctx, &h); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if h.ID == 0 {
		t.Fatal("insert should assign an id")
	}

	// A severity change shifts level into prevlevel.
	if err := store.AlertHistory().UpdateLevel(ctx, "AL1", 5); err != nil {
		t.Fatalf("update level: %v", err)
	}
	got, err := store.AlertHistory().GetByNimID(ctx, "AL1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("history not found")
	}
	if got.PrevLevel != 3 || got.Level != 5 {
		t.Errorf("levels = prev %d cur %d, want prev 3 cur 5", got.PrevLevel, got.Level)
	}
	if got.Closed {
		t.Error("history should not be closed yet")
	}

	if err := store.AlertHistory().MarkClosed(ctx, "AL1"); err != nil {
		t.Fatalf("mark closed: %v", err)
	}
	got, err = store.AlertHistory().GetByNimID(ctx, "AL1")
	if err != nil {
		t.Fatalf("get after close: %v", err)
	}
	if !got.Closed {
		t.Error("history should be closed")
	}

	missing, err := store.AlertHistory().GetByNimID(ctx, "ALX")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown nimid")
	}
}

func TestAlertHistoryRepository_DeleteBefore(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	for _, nimid := range []string{"AL1", "AL2"} {
		if err := store.AlertHistory().Insert(ctx, &models.AlertHistory{NimID: nimid, Level: 1}); err != nil {
			t.Fatalf("insert %s: %v", nimid, err)
		}
	}

	n, err := store.AlertHistory().DeleteBefore(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("delete before: %v", err)
	}
	if n != 0 {
		t.Errorf("deleted %d fresh rows, want 0", n)
	}

	n, err = store.AlertHistory().DeleteBefore(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("delete before: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d rows, want 2", n)
	}
}
