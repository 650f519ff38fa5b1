package engine

import (
	"testing"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

func TestMatchField(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		pattern string
		want    bool
	}{
		{
			name:    "empty pattern matches everything",
			field:   "webhost01",
			pattern: "",
			want:    true,
		},
		{
			name:    "star pattern matches everything",
			field:   "webhost01",
			pattern: "*",
			want:    true,
		},
		{
			name:    "empty pattern matches empty field",
			field:   "",
			pattern: "",
			want:    true,
		},
		{
			name:    "exact include hit",
			field:   "webhost01",
			pattern: "webhost01",
			want:    true,
		},
		{
			name:    "exact include miss",
			field:   "webhost02",
			pattern: "webhost01",
			want:    false,
		},
		{
			name:    "exact include is case-insensitive",
			field:   "WebHost01",
			pattern: "webhost01",
			want:    true,
		},
		{
			name:    "multiple exact includes, second hits",
			field:   "webhost02",
			pattern: "webhost01 webhost02",
			want:    true,
		},
		{
			name:    "partial include hit",
			field:   "db-replica-3",
			pattern: "*replica",
			want:    true,
		},
		{
			name:    "partial include miss",
			field:   "db-primary-1",
			pattern: "*replica",
			want:    false,
		},
		{
			name:    "exact exclude hit fails",
			field:   "webhost01",
			pattern: "--webhost01",
			want:    false,
		},
		{
			name:    "exact exclude miss passes with no includes",
			field:   "webhost02",
			pattern: "--webhost01",
			want:    true,
		},
		{
			name:    "partial exclude hit fails",
			field:   "db-replica-3",
			pattern: "--*replica",
			want:    false,
		},
		{
			name:    "exclude wins over include",
			field:   "db-replica-3",
			pattern: "*db --*replica",
			want:    false,
		},
		{
			name:    "include still required after exclude miss",
			field:   "cachehost",
			pattern: "*db --*replica",
			want:    false,
		},
		{
			name:    "include passes after exclude miss",
			field:   "db-primary-1",
			pattern: "*db --*replica",
			want:    true,
		},
		{
			name:    "empty field cannot be excluded",
			field:   "",
			pattern: "--*host",
			want:    true,
		},
		{
			name:    "empty field fails exact include",
			field:   "",
			pattern: "webhost01",
			want:    false,
		},
		{
			name:    "empty field passes empty partial include",
			field:   "",
			pattern: "*",
			want:    true,
		},
		{
			name:    "mixed includes and excludes",
			field:   "apphost07",
			pattern: "webhost01 *apphost --apphost99",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchField(tt.field, tt.pattern); got != tt.want {
				t.Errorf("MatchField(%q, %q) = %v, want %v", tt.field, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestMatchMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		pattern string
		want    bool
	}{
		{
			name:    "empty pattern matches",
			message: "disk full on /var",
			pattern: "",
			want:    true,
		},
		{
			name:    "star pattern matches",
			message: "disk full on /var",
			pattern: "*",
			want:    true,
		},
		{
			name:    "substring hit",
			message: "disk full on /var",
			pattern: "disk full",
			want:    true,
		},
		{
			name:    "substring miss",
			message: "memory pressure",
			pattern: "disk full",
			want:    false,
		},
		{
			name:    "case-insensitive",
			message: "Disk Full on /var",
			pattern: "disk full",
			want:    true,
		},
		{
			name:    "negated substring hit fails",
			message: "disk full on /var",
			pattern: "--disk",
			want:    false,
		},
		{
			name:    "negated substring miss passes",
			message: "memory pressure",
			pattern: "--disk",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchMessage(tt.message, tt.pattern); got != tt.want {
				t.Errorf("MatchMessage(%q, %q) = %v, want %v", tt.message, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestRuleMatches(t *testing.T) {
	alert := &models.AlertEvent{
		NimID:    "AL1",
		Hostname: "webhost01",
		Probe:    "cdm",
		Source:   "10.1.2.3",
		Message:  "disk full on /var",
		Subsys:   "disk",
	}

	tests := []struct {
		name string
		rule models.SystemRule
		want bool
	}{
		{
			name: "empty rule matches everything",
			rule: models.SystemRule{},
			want: true,
		},
		{
			name: "all fields hit",
			rule: models.SystemRule{
				Hostname: "webhost01",
				Probe:    "cdm",
				Message:  "disk full",
			},
			want: true,
		},
		{
			name: "one field miss fails the rule",
			rule: models.SystemRule{
				Hostname: "webhost01",
				Probe:    "logmon",
			},
			want: false,
		},
		{
			name: "hostname exclude fails the rule",
			rule: models.SystemRule{
				Hostname: "--webhost01",
			},
			want: false,
		},
		{
			name: "unset fields in alert still match empty patterns",
			rule: models.SystemRule{
				UserTag1: "",
				Custom1:  "",
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RuleMatches(alert, &tt.rule); got != tt.want {
				t.Errorf("RuleMatches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWindowMatches(t *testing.T) {
	alert := &models.AlertEvent{
		Hostname: "webhost01",
		Probe:    "cdm",
		Source:   "10.1.2.3",
		Message:  "disk full on /var",
	}

	window := models.MaintenanceWindow{
		Hostname: "*webhost",
	}
	if !WindowMatches(alert, &window) {
		t.Error("expected window with matching hostname pattern to cover the alert")
	}

	window = models.MaintenanceWindow{
		Hostname: "webhost01",
		Probe:    "logmon",
	}
	if WindowMatches(alert, &window) {
		t.Error("expected probe mismatch to break window coverage")
	}
}
