package models

import "time"

// MaintenanceWindow suppresses matching alerts while active and within its
// time bound. Patterns reuse the SystemRule grammar for hostname, probe and
// source; Message uses the single-pattern message grammar.
type MaintenanceWindow struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Hostname  string     `json:"hostname"`
	Probe     string     `json:"probe"`
	Source    string     `json:"source"`
	Message   string     `json:"message"`
	IsActive  bool       `json:"is_active"`
}

// Covers reports whether the window is enabled and its time bound includes t.
func (w *MaintenanceWindow) Covers(t time.Time) bool {
	if !w.IsActive || t.Before(w.StartTime) {
		return false
	}
	return w.EndTime == nil || !t.After(*w.EndTime)
}
