package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRouter creates and configures the chi router with all routes.
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	jwtService := NewJWTService(s.config.JWTSecret, s.config.TokenTTL)

	r.Use(RequestLogger(s.config.Verbose))
	r.Use(SecurityHeaders)
	r.Use(Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(JWTAuth(jwtService))

		// Read endpoints allow both roles; mutations are admin-only.
		r.Route("/contacts", func(r chi.Router) {
			r.With(RequireRole(RoleAdmin, RoleViewer)).Get("/", s.listContacts)
			r.With(RequireRole(RoleAdmin, RoleViewer)).Get("/{id}", s.getContact)
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(RoleAdmin))
				r.Post("/", s.createContact)
				r.Put("/{id}", s.updateContact)
				r.Delete("/{id}", s.deleteContact)
			})
		})

		r.Route("/policy-groups", func(r chi.Router) {
			r.With(RequireRole(RoleAdmin, RoleViewer)).Get("/", s.listPolicyGroups)
			r.With(RequireRole(RoleAdmin, RoleViewer)).Get("/{id}", s.getPolicyGroup)
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(RoleAdmin))
				r.Post("/", s.createPolicyGroup)
				r.Put("/{id}", s.updatePolicyGroup)
				r.Delete("/{id}", s.deletePolicyGroup)
			})
		})

		r.Route("/maintenance-windows", func(r chi.Router) {
			r.With(RequireRole(RoleAdmin, RoleViewer)).Get("/", s.listMaintenanceWindows)
			r.With(RequireRole(RoleAdmin, RoleViewer)).Get("/{id}", s.getMaintenanceWindow)
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(RoleAdmin))
				r.Post("/", s.createMaintenanceWindow)
				r.Put("/{id}", s.updateMaintenanceWindow)
				r.Delete("/{id}", s.deleteMaintenanceWindow)
			})
		})

		r.With(RequireRole(RoleAdmin, RoleViewer)).Get("/message-log", s.listMessageLog)

		r.With(RequireRole(RoleAdmin)).Post("/notifications", s.sendNotification)
	})

	// Health check (public)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		OK(w, map[string]string{"status": "ok"})
	})

	return r
}
