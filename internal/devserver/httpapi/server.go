// Package httpapi is the devserver's JSON API. Every endpoint answers with
// the {code, message, data} envelope; protected routes require a bearer
// access token and answer 401 with a 401 envelope otherwise.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/cinepass/internal/devserver/service"
	"github.com/dmitrijs2005/cinepass/internal/logging"
	"github.com/dmitrijs2005/cinepass/internal/metrics"
)

const requestTimeout = 30 * time.Second

type Server struct {
	router   *chi.Mux
	auth     *service.AuthService
	profiles *service.ProfileService
	catalog  *service.CatalogService
	log      logging.Logger
	metrics  *metrics.Server
	gatherer prometheus.Gatherer
}

func NewServer(auth *service.AuthService, profiles *service.ProfileService, catalog *service.CatalogService,
	log logging.Logger, m *metrics.Server, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		auth:     auth,
		profiles: profiles,
		catalog:  catalog,
		log:      log,
		metrics:  m,
		gatherer: gatherer,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(requestTimeout))

	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Get("/health", s.handleHealth())
	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.instrument)

		r.Post("/users/mobile/auth/register", s.handleRegister())
		r.Post("/users/mobile/auth/verify", s.handleVerify())
		r.Post("/users/mobile/send-identifier-otp", s.handleIdentifierOTP())
		r.Post("/users/mobile/verify-identifier", s.handleVerifyIdentifier())
		r.Post("/users/auth/refresh", s.handleRefresh())

		r.Group(func(r chi.Router) {
			r.Use(s.requireBearer)

			r.Get("/users/mobile/profile", s.handleGetProfile())
			r.Put("/users/mobile/profile", s.handlePutProfile())
			r.Put("/users/mobile/kyc", s.handlePutKYC())
			r.Put("/users/mobile/permissions", s.handlePutPermissions())
			r.Post("/users/mobile/logout", s.handleLogout())

			r.Get("/movies/mobile", s.handleMovies())
			r.Get("/movies/{id}/complete", s.handleMovie())
			r.Get("/contests/mobile", s.handleContests())
		})
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, "ok")
	}
}
