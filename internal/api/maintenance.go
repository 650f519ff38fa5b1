package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

// MaintenanceRequest is the create/update payload for a maintenance window.
// A nil end_time keeps the window open until it is disabled.
type MaintenanceRequest struct {
	Name      string     `json:"name"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Hostname  string     `json:"hostname"`
	Probe     string     `json:"probe"`
	Source    string     `json:"source"`
	Message   string     `json:"message"`
	IsActive  bool       `json:"is_active"`
}

func (req *MaintenanceRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	if req.StartTime.IsZero() {
		return errors.New("start_time is required")
	}
	if req.EndTime != nil && req.EndTime.Before(req.StartTime) {
		return errors.New("end_time must not precede start_time")
	}
	return nil
}

func (req *MaintenanceRequest) toModel(id int64) models.MaintenanceWindow {
	return models.MaintenanceWindow{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Hostname:  req.Hostname,
		Probe:     req.Probe,
		Source:    req.Source,
		Message:   req.Message,
		IsActive:  req.IsActive,
	}
}

func (s *Server) listMaintenanceWindows(w http.ResponseWriter, r *http.Request) {
	// ?active=true narrows to windows currently in effect.
	var (
		windows []models.MaintenanceWindow
		err     error
	)
	if r.URL.Query().Get("active") == "true" {
		windows, err = s.storage.Maintenance().ListActive(r.Context(), time.Now())
	} else {
		windows, err = s.storage.Maintenance().List(r.Context())
	}
	if err != nil {
		log.Printf("list maintenance windows: %v", err)
		JSONError(w, ErrInternal)
		return
	}
	if windows == nil {
		windows = []models.MaintenanceWindow{}
	}
	OK(w, windows)
}

func (s *Server) getMaintenanceWindow(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		JSONError(w, BadRequest("invalid id"))
		return
	}
	window, err := s.storage.Maintenance().GetByID(r.Context(), id)
	if err != nil {
		log.Printf("get maintenance window %d: %v", id, err)
		JSONError(w, ErrInternal)
		return
	}
	if window == nil {
		JSONError(w, ErrNotFound)
		return
	}
	OK(w, window)
}

func (s *Server) createMaintenanceWindow(w http.ResponseWriter, r *http.Request) {
	var req MaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, BadRequest("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		JSONError(w, ValidationFailed(err.Error()))
		return
	}

	window := req.toModel(0)
	if err := s.storage.Maintenance().Create(r.Context(), &window); err != nil {
		log.Printf("create maintenance window: %v", err)
		JSONError(w, ErrInternal)
		return
	}
	Created(w, window)
}

func (s *Server) updateMaintenanceWindow(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		JSONError(w, BadRequest("invalid id"))
		return
	}
	var req MaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, BadRequest("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		JSONError(w, ValidationFailed(err.Error()))
		return
	}

	window := req.toModel(id)
	if err := s.storage.Maintenance().Update(r.Context(), &window); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, ErrNotFound)
			return
		}
		log.Printf("update maintenance window %d: %v", id, err)
		JSONError(w, ErrInternal)
		return
	}
	OK(w, window)
}

func (s *Server) deleteMaintenanceWindow(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		JSONError(w, BadRequest("invalid id"))
		return
	}
	if err := s.storage.Maintenance().Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, ErrNotFound)
			return
		}
		log.Printf("delete maintenance window %d: %v", id, err)
		JSONError(w, ErrInternal)
		return
	}
	NoContent(w)
}
