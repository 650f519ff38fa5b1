package models

import (
	"strconv"
	"time"
)

// Delivery methods recorded in the message log.
const (
	MethodPhone = "Phone"
	MethodEmail = "Email"
	MethodSMS   = "SMS" // manual notifications use the UI's method names
	MethodNone  = "None"
)

// UnderMaintenanceGroup is the audit marker recorded instead of policy-group
// names when an alert was suppressed by a maintenance window.
const UnderMaintenanceGroup = "Under Maintenance"

// MessageLogEntry is an immutable audit record of one dispatch or suppression
// decision. Date is a unix-milliseconds string, matching the UI's log view.
type MessageLogEntry struct {
	ID           string   `json:"id"`
	AlertID      string   `json:"alert_id"`
	PolicyGroups []string `json:"policy_groups"`
	Date         string   `json:"date"`
	Hostname     string   `json:"hostname"`
	Severity     string   `json:"severity"`
	Message      string   `json:"message"`
	Method       string   `json:"method"`
	Addresses    []string `json:"addresses"`
}

// LogDate formats t the way MessageLogEntry.Date expects.
func LogDate(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
