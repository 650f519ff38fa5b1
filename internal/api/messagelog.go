package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

const (
	defaultPerPage = 50
	maxPerPage     = 500
)

// pagination reads page/per_page query parameters with sane bounds.
func pagination(r *http.Request) (page, perPage int) {
	page = 1
	perPage = defaultPerPage
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			perPage = n
			if perPage > maxPerPage {
				perPage = maxPerPage
			}
		}
	}
	return page, perPage
}

func (s *Server) listMessageLog(w http.ResponseWriter, r *http.Request) {
	page, perPage := pagination(r)
	offset := (page - 1) * perPage

	var (
		entries []models.MessageLogEntry
		total   int64
		err     error
	)
	if alertID := r.URL.Query().Get("alert_id"); alertID != "" {
		entries, total, err = s.storage.MessageLog().ListByAlert(r.Context(), alertID, perPage, offset)
	} else {
		entries, total, err = s.storage.MessageLog().List(r.Context(), perPage, offset)
	}
	if err != nil {
		log.Printf("list message log: %v", err)
		JSONError(w, ErrInternal)
		return
	}
	if entries == nil {
		entries = []models.MessageLogEntry{}
	}

	OK(w, PaginatedResponse{
		Items:   entries,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}
