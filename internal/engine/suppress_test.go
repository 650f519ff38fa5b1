package engine

import (
	"testing"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

func TestSuppressed(t *testing.T) {
	alert := &models.AlertEvent{
		Hostname: "webhost01",
		Probe:    "cdm",
		Message:  "disk full on /var",
	}

	tests := []struct {
		name    string
		windows []models.MaintenanceWindow
		want    bool
	}{
		{
			name:    "no windows",
			windows: nil,
			want:    false,
		},
		{
			name: "matching window suppresses",
			windows: []models.MaintenanceWindow{
				{Hostname: "webhost01"},
			},
			want: true,
		},
		{
			name: "non-matching window does not suppress",
			windows: []models.MaintenanceWindow{
				{Hostname: "dbhost01"},
			},
			want: false,
		},
		{
			name: "any matching window wins",
			windows: []models.MaintenanceWindow{
				{Hostname: "dbhost01"},
				{Probe: "cdm"},
			},
			want: true,
		},
		{
			name: "wildcard window suppresses everything",
			windows: []models.MaintenanceWindow{
				{},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Suppressed(alert, tt.windows); got != tt.want {
				t.Errorf("Suppressed() = %v, want %v", got, tt.want)
			}
		})
	}
}
