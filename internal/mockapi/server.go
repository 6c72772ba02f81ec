// Package mockapi is a self-contained development backend. It serves the
// /api/v1 surface the storefront expects, backed by in-memory fixtures, so
// the client stack can run without the real marketplace API.
package mockapi

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/packfinderz-storefront/pkg/config"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server holds the stub backend's state and configuration.
type Server struct {
	cfg   *config.Config
	logg  *logger.Logger
	state *state
}

// NewServer builds the stub backend and seeds demo fixtures.
func NewServer(cfg *config.Config, logg *logger.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}

	s := &Server{cfg: cfg, logg: logg, state: newState()}
	if err := s.state.seed(); err != nil {
		return nil, fmt.Errorf("seeding fixtures: %w", err)
	}
	return s, nil
}

// Handler assembles the chi router for the /api/v1 surface.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	authed := requireAuth(s.cfg.JWT, s.logg)
	seller := requireSeller(s.logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", s.handleHealthz)

		r.Route("/users", func(r chi.Router) {
			r.Post("/auth/register", s.handleRegister)
			r.Post("/auth/login", s.handleLogin)
			r.Post("/auth/refresh", s.handleRefresh)
			r.With(authed).Post("/auth/logout", s.handleLogout)

			r.With(authed).Get("/{id}", s.handleGetUser)
			r.With(authed).Put("/{id}", s.handleUpdateUser)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handleListProducts)
			r.Get("/{id}", s.handleGetProduct)

			r.With(authed, seller).Post("/", s.handleCreateProduct)
			r.With(authed, seller).Put("/{id}", s.handleUpdateProduct)
			r.With(authed, seller).Delete("/{id}", s.handleDeleteProduct)
		})

		r.Route("/media", func(r chi.Router) {
			r.Use(authed, seller)
			r.Get("/", s.handleListMedia)
			r.Post("/", s.handleUploadMedia)
			r.Delete("/{id}", s.handleDeleteMedia)
		})
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "ok", map[string]string{"env": s.cfg.App.Env})
}
