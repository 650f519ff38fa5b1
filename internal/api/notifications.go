package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/good-yellow-bee/alertrelay/internal/metrics"
	"github.com/good-yellow-bee/alertrelay/internal/models"
)

// NotificationRequest is the payload for an operator-initiated send. Recipients
// are the union of the named policy groups' members and the explicit contact
// names, deduplicated by address.
type NotificationRequest struct {
	Method       string   `json:"method"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	PolicyGroups []string `json:"policy_groups"`
	Contacts     []string `json:"contacts"`
}

func (req *NotificationRequest) validate() error {
	switch req.Method {
	case models.MethodSMS, models.MethodEmail:
	default:
		return fmt.Errorf("method must be %q or %q", models.MethodSMS, models.MethodEmail)
	}
	if strings.TrimSpace(req.Content) == "" {
		return errors.New("content is required")
	}
	if req.Method == models.MethodEmail && strings.TrimSpace(req.Title) == "" {
		return errors.New("title is required for email notifications")
	}
	if len(req.PolicyGroups) == 0 && len(req.Contacts) == 0 {
		return errors.New("at least one policy group or contact is required")
	}
	return nil
}

func (s *Server) sendNotification(w http.ResponseWriter, r *http.Request) {
	var req NotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, BadRequest("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		JSONError(w, ValidationFailed(err.Error()))
		return
	}

	addresses, err := s.collectAddresses(r, &req)
	if err != nil {
		log.Printf("send notification: %v", err)
		JSONError(w, ErrInternal)
		return
	}
	if len(addresses) == 0 {
		JSONError(w, ValidationFailed("no reachable recipients for the requested method"))
		return
	}

	switch req.Method {
	case models.MethodSMS:
		err = s.dispatcher.SendSMS(r.Context(), req.Content, addresses)
	case models.MethodEmail:
		err = s.dispatcher.SendEmail(r.Context(), addresses, req.Title, req.Content)
	}
	if err != nil {
		log.Printf("send notification via %s: %v", req.Method, err)
		metrics.NotificationsTotal.WithLabelValues(req.Method, "error").Inc()
		JSONError(w, ErrInternal)
		return
	}
	metrics.NotificationsTotal.WithLabelValues(req.Method, "success").Inc()

	now := time.Now()
	entry := models.MessageLogEntry{
		ID:           uuid.New().String(),
		AlertID:      "Notification:" + models.LogDate(now),
		PolicyGroups: req.PolicyGroups,
		Date:         models.LogDate(now),
		Hostname:     "manual",
		Severity:     "Notification",
		Message:      req.Content,
		Method:       req.Method,
		Addresses:    addresses,
	}
	if err := s.storage.MessageLog().Create(r.Context(), &entry); err != nil {
		log.Printf("log notification: %v", err)
	}

	OK(w, map[string]any{
		"sent":       len(addresses),
		"method":     req.Method,
		"message_id": entry.ID,
	})
}

// collectAddresses gathers the method-appropriate addresses of all requested
// recipients. The channel active flag is honored; weekly schedules are not,
// an operator pressing the button overrides them.
func (s *Server) collectAddresses(r *http.Request, req *NotificationRequest) ([]string, error) {
	seen := make(map[string]struct{})
	var addresses []string

	add := func(c *models.Contact) {
		var addr string
		switch req.Method {
		case models.MethodSMS:
			if !c.Active.SMS {
				return
			}
			addr = c.Phone
		case models.MethodEmail:
			if !c.Active.Email {
				return
			}
			addr = c.Email
		}
		if addr == "" {
			return
		}
		if _, ok := seen[addr]; ok {
			return
		}
		seen[addr] = struct{}{}
		addresses = append(addresses, addr)
	}

	for _, group := range req.PolicyGroups {
		members, err := s.storage.Contacts().ContactsByGroup(r.Context(), group)
		if err != nil {
			return nil, fmt.Errorf("fetch members of %q: %w", group, err)
		}
		for i := range members {
			add(&members[i])
		}
	}

	if len(req.Contacts) > 0 {
		wanted := make(map[string]struct{}, len(req.Contacts))
		for _, name := range req.Contacts {
			wanted[name] = struct{}{}
		}
		all, err := s.storage.Contacts().List(r.Context())
		if err != nil {
			return nil, fmt.Errorf("fetch contacts: %w", err)
		}
		for i := range all {
			if _, ok := wanted[all[i].Name]; ok {
				add(&all[i])
			}
		}
	}

	return addresses, nil
}
