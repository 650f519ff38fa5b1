// Package engine implements the alert correlation and notification routing
// engine: pattern matching, schedule evaluation, maintenance suppression,
// recipient resolution and the per-alert processing pipeline.
package engine

import (
	"strings"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

// MatchField evaluates the generic field pattern grammar against one alert
// field. The pattern is a space-separated token list:
//
//	--*text  partial exclude: fail if the field contains text
//	--text   exact exclude: fail if the field equals text
//	*text    partial include candidate
//	text     exact include candidate
//
// Excludes are checked first and any hit fails the match. With no include
// tokens the pattern passes; otherwise at least one include must hit.
// Comparison is case-insensitive. Empty patterns and "*" match everything.
func MatchField(field, pattern string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	field = strings.ToLower(field)
	pattern = strings.ToLower(pattern)

	var includes, excludes, partialIncludes, partialExcludes []string
	for _, token := range strings.Split(pattern, " ") {
		switch {
		case strings.HasPrefix(token, "--*"):
			partialExcludes = append(partialExcludes, token[3:])
		case strings.HasPrefix(token, "--"):
			excludes = append(excludes, token[2:])
		case strings.HasPrefix(token, "*"):
			partialIncludes = append(partialIncludes, token[1:])
		default:
			includes = append(includes, token)
		}
	}

	// An empty field cannot be excluded.
	if field != "" {
		for _, e := range excludes {
			if field == e {
				return false
			}
		}
		for _, e := range partialExcludes {
			if strings.Contains(field, e) {
				return false
			}
		}
	}

	if len(includes) == 0 && len(partialIncludes) == 0 {
		return true
	}
	for _, inc := range includes {
		if field == inc {
			return true
		}
	}
	for _, inc := range partialIncludes {
		if strings.Contains(field, inc) {
			return true
		}
	}
	return false
}

// MatchMessage evaluates the message pattern grammar: a single substring test,
// negated when the pattern starts with "--". Empty patterns and "*" match
// everything. Comparison is case-insensitive.
func MatchMessage(message, pattern string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	message = strings.ToLower(message)
	pattern = strings.ToLower(pattern)

	if strings.HasPrefix(pattern, "--") {
		return !strings.Contains(message, pattern[2:])
	}
	return strings.Contains(message, pattern)
}

// RuleMatches reports whether every field predicate of the system rule holds
// for the alert.
func RuleMatches(alert *models.AlertEvent, rule *models.SystemRule) bool {
	return MatchField(alert.Hostname, rule.Hostname) &&
		MatchField(alert.Probe, rule.Probe) &&
		MatchField(alert.Source, rule.Source) &&
		MatchMessage(alert.Message, rule.Message) &&
		MatchField(alert.Subsys, rule.Subsys) &&
		MatchField(alert.UserTag1, rule.UserTag1) &&
		MatchField(alert.UserTag2, rule.UserTag2) &&
		MatchField(alert.Custom1, rule.Custom1) &&
		MatchField(alert.Custom2, rule.Custom2) &&
		MatchField(alert.Custom3, rule.Custom3) &&
		MatchField(alert.Custom4, rule.Custom4) &&
		MatchField(alert.Custom5, rule.Custom5)
}

// WindowMatches reports whether a maintenance window's patterns cover the
// alert. Only hostname, probe, source and message are tested.
func WindowMatches(alert *models.AlertEvent, window *models.MaintenanceWindow) bool {
	return MatchField(alert.Hostname, window.Hostname) &&
		MatchField(alert.Probe, window.Probe) &&
		MatchField(alert.Source, window.Source) &&
		MatchMessage(alert.Message, window.Message)
}
