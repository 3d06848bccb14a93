package console

import (
	"context"
	"net/http"
	"time"

	"github.com/fitpay/fitpay-admin/internal/console/middleware"
	"github.com/fitpay/fitpay-admin/internal/pkg/metrics"
	"github.com/fitpay/fitpay-admin/internal/pkg/utils"
	"github.com/fitpay/fitpay-admin/pkg/client"
	"github.com/go-chi/chi/v5"
)

// Handler returns the console route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(s.log))
	r.Use(middleware.Recovery(s.log, s.panicPage))
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(s.cfg.AllowedOrigins))
	if s.cfg.RateLimit > 0 {
		r.Use(middleware.RateLimit(s.cfg.RateLimit, s.done))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, http.StatusNotFound, "Página não encontrada.")
	})

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/healthz", s.handleHealthz)
		r.Get("/readyz", s.handleReadyz)
		r.Handle("/metrics", metrics.Handler())
		r.Handle("/static/*", staticHandler())

		r.Get("/login", s.handleLoginPage)
		r.Post("/login", s.handleLogin)
		r.Get("/logout", s.handleLogout)
		r.Post("/logout", s.handleLogout)
	})

	// Protected routes (require a session when login is enabled)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(s.auth))

		r.Get("/", s.handleDashboard)
		r.Get("/api/cep/{cep}", s.handleCEP)

		for _, res := range s.resources {
			s.mount(r, res)
		}
	})

	return r
}

// mount registers the list, form, delete and extra routes of one resource.
func (s *Server) mount(r chi.Router, res *resource) {
	r.Route(res.path, func(r chi.Router) {
		r.Get("/", s.listHandler(res))
		r.Get("/{id}/excluir", s.deletePageHandler(res))
		r.Post("/{id}/excluir", s.deleteHandler(res))
		if res.form != nil {
			r.Get("/novo", s.formPageHandler(res, false))
			r.Post("/novo", s.formHandler(res, false))
			r.Get("/editar/{id}", s.formPageHandler(res, true))
			r.Post("/editar/{id}", s.formHandler(res, true))
		}
		if res.routes != nil {
			res.routes(r)
		}
	})
}

// handleReadyz checks that the backend answers.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := s.client.Plans().List(ctx, &client.ListOptions{Page: 0, Size: 1}); err != nil {
		s.log.ErrorWithErr(err, "Backend ping failed")
		_ = utils.WriteErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Backend indisponível.")
		return
	}

	_ = utils.WriteSuccess(w, http.StatusOK, map[string]string{
		"status":  "ready",
		"backend": s.client.BaseURL(),
	})
}
