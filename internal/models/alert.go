// Package models defines domain models for Alert Relay.
package models

import "strings"

// LifecycleType classifies an alert delta fetched from the alarm store.
type LifecycleType string

const (
	LifecycleNew     LifecycleType = "new"
	LifecycleChanged LifecycleType = "changed"
	LifecycleClosed  LifecycleType = "closed"
)

// AlertEvent is one row from the alarm store's delta views. It is immutable
// for the duration of a poll cycle.
type AlertEvent struct {
	NimID     string `json:"nimid"`
	Hostname  string `json:"hostname"`
	Probe     string `json:"prid"`
	Source    string `json:"source"`
	Message   string `json:"message"`
	Subsys    string `json:"subsys"`
	Severity  string `json:"severity"`
	UserTag1  string `json:"user_tag1"`
	UserTag2  string `json:"user_tag2"`
	Custom1   string `json:"custom_1"`
	Custom2   string `json:"custom_2"`
	Custom3   string `json:"custom_3"`
	Custom4   string `json:"custom_4"`
	Custom5   string `json:"custom_5"`
	PrevLevel int    `json:"prevlevel"`
	Level     int    `json:"level"`
}

// SeverityLabel returns the alarm store's severity name with the first letter
// capitalized, as recorded in the message log.
func (a *AlertEvent) SeverityLabel() string {
	if a.Severity == "" {
		return ""
	}
	return strings.ToUpper(a.Severity[:1]) + a.Severity[1:]
}

// AlertDeltas groups one poll cycle's alert batches. Batches are processed in
// declaration order: New, then Changed, then Closed.
type AlertDeltas struct {
	New     []AlertEvent
	Changed []AlertEvent
	Closed  []AlertEvent
}

// Empty reports whether the cycle fetched no alerts at all.
func (d *AlertDeltas) Empty() bool {
	return len(d.New) == 0 && len(d.Changed) == 0 && len(d.Closed) == 0
}

// AlertHistory is the persisted lifecycle state for one nimid.
type AlertHistory struct {
	ID        int64  `json:"id"`
	NimID     string `json:"nimid"`
	Closed    bool   `json:"closed"`
	PrevLevel int    `json:"prevlevel"`
	Level     int    `json:"level"`
}
