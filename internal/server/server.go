// Package server wires the HTTP routes and guards the administrative
// surface behind the session gate.
package server

import (
	"net/http"

	"github.com/khoaluu/wedding-rsvp/internal/auth"
	"github.com/khoaluu/wedding-rsvp/internal/config"
	"github.com/khoaluu/wedding-rsvp/internal/server/handlers"
	"github.com/rs/zerolog/log"
)

type Server struct {
	config   *config.Config
	store    handlers.Store
	sessions *auth.Sessions
	router   *http.ServeMux
}

// GetStore implements handlers.Server interface
func (s *Server) GetStore() handlers.Store {
	return s.store
}

// GetSessions implements handlers.Server interface
func (s *Server) GetSessions() *auth.Sessions {
	return s.sessions
}

func New(cfg *config.Config, store handlers.Store, sessions *auth.Sessions) *Server {
	s := &Server{
		config:   cfg,
		store:    store,
		sessions: sessions,
		router:   http.NewServeMux(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Public routes
	s.router.HandleFunc("GET /api/rsvp", handlers.HandleGetRSVP(s))
	s.router.HandleFunc("POST /api/rsvp", handlers.HandleSubmitRSVP(s))
	s.router.HandleFunc("GET /api/guest/check-authorization", handlers.HandleCheckAuthorization(s))

	// Auth routes
	s.router.HandleFunc("POST /api/admin/login", handlers.HandleLogin(s))
	s.router.HandleFunc("POST /api/admin/logout", handlers.HandleLogout(s))
	s.router.HandleFunc("GET /api/admin/verify", handlers.HandleVerify(s))

	// The admin page gates access to guest authorization before calling
	// this, so the endpoint itself carries no session check.
	s.router.HandleFunc("POST /api/admin/authorized-guests", handlers.HandleAuthorizeGuest(s))

	// Admin routes (protected)
	s.router.HandleFunc("GET /api/admin/authorized-guests", s.requireAuth(handlers.HandleListAuthorizedGuests(s)))
	s.router.HandleFunc("DELETE /api/admin/authorized-guests", s.requireAuth(handlers.HandleRevokeGuest(s)))
	s.router.HandleFunc("GET /api/admin/guest-links", s.requireAuth(handlers.HandleListGuestLinks(s)))
	s.router.HandleFunc("POST /api/admin/guest-links", s.requireAuth(handlers.HandleCreateGuestLink(s)))
	s.router.HandleFunc("PATCH /api/admin/guest-links/{id}", s.requireAuth(handlers.HandleUpdateGuestLink(s)))
	s.router.HandleFunc("DELETE /api/admin/guest-links/{id}", s.requireAuth(handlers.HandleDeleteGuestLink(s)))
	s.router.HandleFunc("GET /api/admin/rsvps", s.requireAuth(handlers.HandleListRSVPs(s)))
	s.router.HandleFunc("DELETE /api/admin/rsvps/{id}", s.requireAuth(handlers.HandleDeleteRSVP(s)))
	s.router.HandleFunc("GET /api/admin/rsvps/export", s.requireAuth(handlers.HandleExportRSVPs(s)))
}

func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requireAuth is a middleware that checks for a live admin session before
// delegating. Invalid or absent sessions short-circuit with a generic 401.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := s.sessions.TokenFromRequest(r)

		valid, err := s.sessions.Validate(token)
		if err != nil {
			log.Error().Err(err).Msg("failed to validate session")
			handlers.WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !valid {
			handlers.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next(w, r)
	}
}
