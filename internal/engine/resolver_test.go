package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

type mockContactSource struct {
	groups  map[string][]models.Contact
	fetches map[string]int
	err     error
}

func newMockContactSource() *mockContactSource {
	return &mockContactSource{
		groups:  make(map[string][]models.Contact),
		fetches: make(map[string]int),
	}
}

func (m *mockContactSource) ContactsByGroup(_ context.Context, group string) ([]models.Contact, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.fetches[group]++
	return m.groups[group], nil
}

func smsContact(name, phone string) models.Contact {
	return models.Contact{
		Name:     name,
		Phone:    phone,
		Active:   models.ChannelFlags{SMS: true},
		Schedule: models.FullWeek(),
	}
}

func bothContact(name, phone, email string) models.Contact {
	return models.Contact{
		Name:     name,
		Phone:    phone,
		Email:    email,
		Active:   models.ChannelFlags{SMS: true, Email: true},
		Schedule: models.FullWeek(),
	}
}

func band(min, max int) *models.SeverityBand {
	return &models.SeverityBand{Min: min, Max: max}
}

func TestResolve_SeverityBanding(t *testing.T) {
	source := newMockContactSource()
	source.groups["ops"] = []models.Contact{bothContact("alice", "555-0100", "alice@example.com")}

	groups := []models.PolicyGroup{
		{
			Name: "ops",
			Systems: []models.SystemRule{
				{
					Hostname: "webhost01",
					Severity: &models.SeverityPolicy{
						SMS:   band(3, 5),
						Email: band(1, 5),
					},
				},
			},
		},
	}

	resolver := NewResolver(source)
	alert := &models.AlertEvent{Hostname: "webhost01", Level: 2}

	res, err := resolver.Resolve(context.Background(), alert, groups, mondayAt("12:00"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(res.SMSRecipients) != 0 {
		t.Errorf("level 2 should be outside the SMS band, got %v", res.SMSRecipients)
	}
	if !reflect.DeepEqual(res.EmailRecipients, []string{"alice@example.com"}) {
		t.Errorf("email recipients = %v", res.EmailRecipients)
	}

	alert.Level = 5
	res, err = resolver.Resolve(context.Background(), alert, groups, mondayAt("12:00"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(res.SMSRecipients, []string{"555-0100"}) {
		t.Errorf("level 5 should be inside the SMS band, got %v", res.SMSRecipients)
	}
}

func TestResolve_NilSeverityMatchesBothChannels(t *testing.T) {
	source := newMockContactSource()
	source.groups["ops"] = []models.Contact{bothContact("alice", "555-0100", "alice@example.com")}

	groups := []models.PolicyGroup{
		{
			Name:    "ops",
			Systems: []models.SystemRule{{Hostname: "webhost01"}},
		},
	}

	resolver := NewResolver(source)
	alert := &models.AlertEvent{Hostname: "webhost01", Level: 1}

	res, err := resolver.Resolve(context.Background(), alert, groups, mondayAt("12:00"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(res.SMSGroups, []string{"ops"}) || !reflect.DeepEqual(res.EmailGroups, []string{"ops"}) {
		t.Errorf("groups = sms %v email %v, want ops on both channels", res.SMSGroups, res.EmailGroups)
	}
	if len(res.SMSRecipients) != 1 || len(res.EmailRecipients) != 1 {
		t.Errorf("recipients = sms %v email %v", res.SMSRecipients, res.EmailRecipients)
	}
}

func TestResolve_GroupAddedOncePerChannel(t *testing.T) {
	source := newMockContactSource()
	source.groups["ops"] = []models.Contact{smsContact("alice", "555-0100")}

	// Two rules of the same group both match.
	groups := []models.PolicyGroup{
		{
			Name: "ops",
			Systems: []models.SystemRule{
				{Hostname: "*webhost", Severity: &models.SeverityPolicy{SMS: band(0, 5)}},
				{Probe: "cdm", Severity: &models.SeverityPolicy{SMS: band(0, 5)}},
			},
		},
	}

	resolver := NewResolver(source)
	alert := &models.AlertEvent{Hostname: "webhost01", Probe: "cdm", Level: 3}

	res, err := resolver.Resolve(context.Background(), alert, groups, mondayAt("12:00"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(res.SMSGroups, []string{"ops"}) {
		t.Errorf("sms groups = %v, want [ops]", res.SMSGroups)
	}
	if !reflect.DeepEqual(res.SMSRecipients, []string{"555-0100"}) {
		t.Errorf("sms recipients = %v, want one entry", res.SMSRecipients)
	}
}

func TestResolve_DeduplicatesSharedAddresses(t *testing.T) {
	source := newMockContactSource()
	source.groups["ops"] = []models.Contact{smsContact("alice", "555-0100")}
	source.groups["dba"] = []models.Contact{smsContact("alice-pager", "555-0100"), smsContact("bob", "555-0101")}

	groups := []models.PolicyGroup{
		{Name: "ops", Systems: []models.SystemRule{{}}},
		{Name: "dba", Systems: []models.SystemRule{{}}},
	}

	resolver := NewResolver(source)
	alert := &models.AlertEvent{Hostname: "webhost01", Level: 3}

	res, err := resolver.Resolve(context.Background(), alert, groups, mondayAt("12:00"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(res.SMSRecipients, []string{"555-0100", "555-0101"}) {
		t.Errorf("sms recipients = %v, want deduplicated pair", res.SMSRecipients)
	}
	if !reflect.DeepEqual(res.SMSGroups, []string{"ops", "dba"}) {
		t.Errorf("sms groups = %v, want both groups in match order", res.SMSGroups)
	}
}

func TestResolve_FetchesGroupOnceAcrossChannels(t *testing.T) {
	source := newMockContactSource()
	source.groups["ops"] = []models.Contact{bothContact("alice", "555-0100", "alice@example.com")}

	groups := []models.PolicyGroup{
		{Name: "ops", Systems: []models.SystemRule{{}}},
	}

	resolver := NewResolver(source)
	alert := &models.AlertEvent{Hostname: "webhost01", Level: 3}

	if _, err := resolver.Resolve(context.Background(), alert, groups, mondayAt("12:00")); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if source.fetches["ops"] != 1 {
		t.Errorf("ops fetched %d times, want 1", source.fetches["ops"])
	}
}

func TestResolve_FiltersInactiveAndOffSchedule(t *testing.T) {
	offHours := models.Schedule{Monday: true, StartTime: "18:00", EndTime: "23:00"}
	source := newMockContactSource()
	source.groups["ops"] = []models.Contact{
		smsContact("alice", "555-0100"),
		{Name: "bob", Phone: "555-0101", Active: models.ChannelFlags{SMS: false}, Schedule: models.FullWeek()},
		{Name: "carol", Phone: "555-0102", Active: models.ChannelFlags{SMS: true}, Schedule: offHours},
	}

	groups := []models.PolicyGroup{
		{Name: "ops", Systems: []models.SystemRule{{}}},
	}

	resolver := NewResolver(source)
	alert := &models.AlertEvent{Hostname: "webhost01", Level: 3}

	res, err := resolver.Resolve(context.Background(), alert, groups, mondayAt("12:00"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(res.SMSRecipients, []string{"555-0100"}) {
		t.Errorf("sms recipients = %v, want alice only", res.SMSRecipients)
	}
}

func TestResolve_NoMatch(t *testing.T) {
	source := newMockContactSource()
	groups := []models.PolicyGroup{
		{Name: "ops", Systems: []models.SystemRule{{Hostname: "dbhost01"}}},
	}

	resolver := NewResolver(source)
	alert := &models.AlertEvent{Hostname: "webhost01", Level: 3}

	res, err := resolver.Resolve(context.Background(), alert, groups, mondayAt("12:00"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.HasRecipients() {
		t.Errorf("expected no recipients, got %+v", res)
	}
}

func TestResolve_ContactFetchError(t *testing.T) {
	source := newMockContactSource()
	source.err = errors.New("database locked")

	groups := []models.PolicyGroup{
		{Name: "ops", Systems: []models.SystemRule{{}}},
	}

	resolver := NewResolver(source)
	alert := &models.AlertEvent{Hostname: "webhost01", Level: 3}

	if _, err := resolver.Resolve(context.Background(), alert, groups, mondayAt("12:00")); err == nil {
		t.Fatal("expected contact fetch error to propagate")
	}
}
