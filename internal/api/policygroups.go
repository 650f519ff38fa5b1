package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

// PolicyGroupRequest is the create/update payload for a policy group.
type PolicyGroupRequest struct {
	Name    string              `json:"name"`
	Systems []models.SystemRule `json:"systems"`
}

func (req *PolicyGroupRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	for i := range req.Systems {
		if err := validateSeverityPolicy(req.Systems[i].Severity); err != nil {
			return fmt.Errorf("systems[%d]: %w", i, err)
		}
	}
	return nil
}

func validateSeverityPolicy(p *models.SeverityPolicy) error {
	if p == nil {
		return nil
	}
	for _, band := range []struct {
		name string
		b    *models.SeverityBand
	}{{"sms", p.SMS}, {"email", p.Email}} {
		if band.b == nil {
			continue
		}
		if band.b.Min < 0 || band.b.Max > 5 || band.b.Min > band.b.Max {
			return fmt.Errorf("severity.%s: band must satisfy 0 <= min <= max <= 5", band.name)
		}
	}
	return nil
}

func (s *Server) listPolicyGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.storage.PolicyGroups().List(r.Context())
	if err != nil {
		log.Printf("list policy groups: %v", err)
		JSONError(w, ErrInternal)
		return
	}
	if groups == nil {
		groups = []models.PolicyGroup{}
	}
	OK(w, groups)
}

func (s *Server) getPolicyGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		JSONError(w, BadRequest("invalid id"))
		return
	}
	group, err := s.storage.PolicyGroups().GetByID(r.Context(), id)
	if err != nil {
		log.Printf("get policy group %d: %v", id, err)
		JSONError(w, ErrInternal)
		return
	}
	if group == nil {
		JSONError(w, ErrNotFound)
		return
	}
	OK(w, group)
}

func (s *Server) createPolicyGroup(w http.ResponseWriter, r *http.Request) {
	var req PolicyGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, BadRequest("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		JSONError(w, ValidationFailed(err.Error()))
		return
	}

	// Group names key the routing pipeline, keep them unique.
	existing, err := s.storage.PolicyGroups().GetByName(r.Context(), req.Name)
	if err != nil {
		log.Printf("check policy group name: %v", err)
		JSONError(w, ErrInternal)
		return
	}
	if existing != nil {
		JSONError(w, Conflict("a policy group with this name already exists"))
		return
	}

	group := models.PolicyGroup{
		Name:    strings.TrimSpace(req.Name),
		Systems: req.Systems,
	}
	if err := s.storage.PolicyGroups().Create(r.Context(), &group); err != nil {
		log.Printf("create policy group: %v", err)
		JSONError(w, ErrInternal)
		return
	}
	Created(w, group)
}

func (s *Server) updatePolicyGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		JSONError(w, BadRequest("invalid id"))
		return
	}
	var req PolicyGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, BadRequest("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		JSONError(w, ValidationFailed(err.Error()))
		return
	}

	group := models.PolicyGroup{
		ID:      id,
		Name:    strings.TrimSpace(req.Name),
		Systems: req.Systems,
	}
	if err := s.storage.PolicyGroups().Update(r.Context(), &group); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, ErrNotFound)
			return
		}
		log.Printf("update policy group %d: %v", id, err)
		JSONError(w, ErrInternal)
		return
	}
	OK(w, group)
}

func (s *Server) deletePolicyGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		JSONError(w, BadRequest("invalid id"))
		return
	}
	if err := s.storage.PolicyGroups().Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, ErrNotFound)
			return
		}
		log.Printf("delete policy group %d: %v", id, err)
		JSONError(w, ErrInternal)
		return
	}
	NoContent(w)
}
