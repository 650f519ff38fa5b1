package models

import (
	"testing"
	"time"
)

func TestSeverityLabel(t *testing.T) {
	tests := []struct {
		severity string
		want     string
	}{
		{"critical", "Critical"},
		{"major", "Major"},
		{"Clear", "Clear"},
		{"", ""},
		{"x", "X"},
	}
	for _, tt := range tests {
		a := AlertEvent{Severity: tt.severity}
		if got := a.SeverityLabel(); got != tt.want {
			t.Errorf("SeverityLabel(%q) = %q, want %q", tt.severity, got, tt.want)
		}
	}
}

func TestLogDate(t *testing.T) {
	ts := time.UnixMilli(1767225600123)
	if got := LogDate(ts); got != "1767225600123" {
		t.Errorf("LogDate = %q", got)
	}
}

func TestMaintenanceWindowCovers(t *testing.T) {
	now := time.Now()
	hourAgo := now.Add(-time.Hour)
	hourAhead := now.Add(time.Hour)

	tests := []struct {
		name   string
		window MaintenanceWindow
		want   bool
	}{
		{
			name:   "active bounded window",
			window: MaintenanceWindow{StartTime: hourAgo, EndTime: &hourAhead, IsActive: true},
			want:   true,
		},
		{
			name:   "open-ended window",
			window: MaintenanceWindow{StartTime: hourAgo, IsActive: true},
			want:   true,
		},
		{
			name:   "disabled window",
			window: MaintenanceWindow{StartTime: hourAgo, EndTime: &hourAhead, IsActive: false},
			want:   false,
		},
		{
			name:   "not yet started",
			window: MaintenanceWindow{StartTime: hourAhead, IsActive: true},
			want:   false,
		},
		{
			name:   "already ended",
			window: MaintenanceWindow{StartTime: hourAgo.Add(-time.Hour), EndTime: &hourAgo, IsActive: true},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.window.Covers(now); got != tt.want {
				t.Errorf("Covers = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAlertDeltasEmpty(t *testing.T) {
	var d AlertDeltas
	if !d.Empty() {
		t.Error("zero deltas should be empty")
	}
	d.Changed = []AlertEvent{{NimID: "AL1"}}
	if d.Empty() {
		t.Error("deltas with a changed alert should not be empty")
	}
}

func TestScheduleDay(t *testing.T) {
	s := Schedule{Monday: true, Friday: true}
	if !s.Day(time.Monday) || !s.Day(time.Friday) {
		t.Error("flagged days should be covered")
	}
	if s.Day(time.Sunday) || s.Day(time.Saturday) {
		t.Error("unflagged days should not be covered")
	}
}
