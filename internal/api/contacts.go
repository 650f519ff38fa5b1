package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

// ContactRequest is the create/update payload for a contact.
type ContactRequest struct {
	Name     string              `json:"name"`
	Phone    string              `json:"phone"`
	Email    string              `json:"email"`
	Groups   []string            `json:"groups"`
	Active   models.ChannelFlags `json:"active"`
	Schedule models.Schedule     `json:"schedule"`
}

func (req *ContactRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	if req.Phone == "" && req.Email == "" {
		return errors.New("at least one of phone or email is required")
	}
	if err := validateSchedule(&req.Schedule); err != nil {
		return err
	}
	return nil
}

// validateSchedule rejects malformed and overnight time windows.
func validateSchedule(s *models.Schedule) error {
	if !validHHMM(s.StartTime) || !validHHMM(s.EndTime) {
		return errors.New("schedule times must be zero-padded HH:MM")
	}
	if s.StartTime > s.EndTime {
		return errors.New("schedule start_time must not be after end_time (overnight windows are not supported)")
	}
	return nil
}

func validHHMM(v string) bool {
	if len(v) != 5 || v[2] != ':' {
		return false
	}
	h, err := strconv.Atoi(v[:2])
	if err != nil || h < 0 || h > 23 {
		return false
	}
	m, err := strconv.Atoi(v[3:])
	if err != nil || m < 0 || m > 59 {
		return false
	}
	return true
}

func (s *Server) listContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.storage.Contacts().List(r.Context())
	if err != nil {
		log.Printf("list contacts: %v", err)
		JSONError(w, ErrInternal)
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	OK(w, contacts)
}

func (s *Server) getContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		JSONError(w, BadRequest("invalid id"))
		return
	}
	contact, err := s.storage.Contacts().GetByID(r.Context(), id)
	if err != nil {
		log.Printf("get contact %d: %v", id, err)
		JSONError(w, ErrInternal)
		return
	}
	if contact == nil {
		JSONError(w, ErrNotFound)
		return
	}
	OK(w, contact)
}

func (s *Server) createContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, BadRequest("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		JSONError(w, ValidationFailed(err.Error()))
		return
	}

	contact := models.Contact{
		Name:     strings.TrimSpace(req.Name),
		Phone:    req.Phone,
		Email:    req.Email,
		Groups:   req.Groups,
		Active:   req.Active,
		Schedule: req.Schedule,
	}
	if err := s.storage.Contacts().Create(r.Context(), &contact); err != nil {
		log.Printf("create contact: %v", err)
		JSONError(w, ErrInternal)
		return
	}
	Created(w, contact)
}

func (s *Server) updateContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		JSONError(w, BadRequest("invalid id"))
		return
	}
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, BadRequest("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		JSONError(w, ValidationFailed(err.Error()))
		return
	}

	contact := models.Contact{
		ID:       id,
		Name:     strings.TrimSpace(req.Name),
		Phone:    req.Phone,
		Email:    req.Email,
		Groups:   req.Groups,
		Active:   req.Active,
		Schedule: req.Schedule,
	}
	if err := s.storage.Contacts().Update(r.Context(), &contact); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, ErrNotFound)
			return
		}
		log.Printf("update contact %d: %v", id, err)
		JSONError(w, ErrInternal)
		return
	}
	OK(w, contact)
}

func (s *Server) deleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		JSONError(w, BadRequest("invalid id"))
		return
	}
	if err := s.storage.Contacts().Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, ErrNotFound)
			return
		}
		log.Printf("delete contact %d: %v", id, err)
		JSONError(w, ErrInternal)
		return
	}
	NoContent(w)
}

// pathID parses the {id} chi URL parameter.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
