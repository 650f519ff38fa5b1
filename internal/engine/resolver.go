package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

// ContactSource resolves a policy group's member contacts at the storage
// boundary. Group membership is a typed set; the engine never sees the
// storage representation.
type ContactSource interface {
	ContactsByGroup(ctx context.Context, group string) ([]models.Contact, error)
}

// Resolution is the outcome of recipient resolution for one alert: the two
// deduplicated address lists plus the contributing policy-group names per
// channel (kept in match order for the audit log, not deduplicated against
// each other).
type Resolution struct {
	SMSRecipients   []string
	EmailRecipients []string
	SMSGroups       []string
	EmailGroups     []string
}

// HasRecipients reports whether any channel has at least one address.
func (r *Resolution) HasRecipients() bool {
	return len(r.SMSRecipients) > 0 || len(r.EmailRecipients) > 0
}

// Resolver selects policy groups and contacts for non-suppressed alerts.
type Resolver struct {
	contacts ContactSource
}

// NewResolver creates a resolver backed by the given contact source.
func NewResolver(contacts ContactSource) *Resolver {
	return &Resolver{contacts: contacts}
}

// Resolve evaluates every system rule of every policy group against the
// alert. A matching rule adds its group to a channel's candidate set when the
// alert level falls inside that channel's severity band, or unconditionally
// to both channels when the rule carries no severity policy at all. Each
// group joins a channel at most once. Candidate groups' contacts are then
// filtered by schedule and per-channel active flag, and addresses are
// deduplicated by the raw address string.
//
// Contacts are fetched once per candidate group even when the group qualified
// for both channels.
func (r *Resolver) Resolve(ctx context.Context, alert *models.AlertEvent, groups []models.PolicyGroup, now time.Time) (*Resolution, error) {
	smsCandidates := make(map[string]bool)
	emailCandidates := make(map[string]bool)
	var res Resolution

	for gi := range groups {
		group := &groups[gi]
		for si := range group.Systems {
			rule := &group.Systems[si]
			if !RuleMatches(alert, rule) {
				continue
			}
			if rule.Severity == nil {
				if !smsCandidates[group.Name] {
					smsCandidates[group.Name] = true
					res.SMSGroups = append(res.SMSGroups, group.Name)
				}
				if !emailCandidates[group.Name] {
					emailCandidates[group.Name] = true
					res.EmailGroups = append(res.EmailGroups, group.Name)
				}
				continue
			}
			if rule.Severity.SMS != nil && rule.Severity.SMS.Contains(alert.Level) && !smsCandidates[group.Name] {
				smsCandidates[group.Name] = true
				res.SMSGroups = append(res.SMSGroups, group.Name)
			}
			if rule.Severity.Email != nil && rule.Severity.Email.Contains(alert.Level) && !emailCandidates[group.Name] {
				emailCandidates[group.Name] = true
				res.EmailGroups = append(res.EmailGroups, group.Name)
			}
		}
	}

	// Sequential per-group fetches, deduplicated across channels.
	members := make(map[string][]models.Contact)
	fetch := func(name string) ([]models.Contact, error) {
		if contacts, ok := members[name]; ok {
			return contacts, nil
		}
		contacts, err := r.contacts.ContactsByGroup(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("fetch contacts for group %q: %w", name, err)
		}
		members[name] = contacts
		return contacts, nil
	}

	phoneSeen := make(map[string]bool)
	for _, name := range res.SMSGroups {
		contacts, err := fetch(name)
		if err != nil {
			return nil, err
		}
		for i := range contacts {
			c := &contacts[i]
			if !c.Active.SMS || !ScheduleActiveAt(&c.Schedule, now) {
				continue
			}
			if c.Phone != "" && !phoneSeen[c.Phone] {
				phoneSeen[c.Phone] = true
				res.SMSRecipients = append(res.SMSRecipients, c.Phone)
			}
		}
	}

	emailSeen := make(map[string]bool)
	for _, name := range res.EmailGroups {
		contacts, err := fetch(name)
		if err != nil {
			return nil, err
		}
		for i := range contacts {
			c := &contacts[i]
			if !c.Active.Email || !ScheduleActiveAt(&c.Schedule, now) {
				continue
			}
			if c.Email != "" && !emailSeen[c.Email] {
				emailSeen[c.Email] = true
				res.EmailRecipients = append(res.EmailRecipients, c.Email)
			}
		}
	}

	return &res, nil
}
