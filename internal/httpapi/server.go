// Package httpapi is the thin web surface over the catalog. Handlers
// decode the request, resolve the principal, and delegate to the services;
// all business rules live below this layer.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Dinara-volsu/library-management-system/internal/auth"
	"github.com/Dinara-volsu/library-management-system/internal/catalog"
	"github.com/Dinara-volsu/library-management-system/internal/events"
	"github.com/Dinara-volsu/library-management-system/internal/reservation"
	"github.com/Dinara-volsu/library-management-system/internal/store"
)

// Server wires the HTTP routes to the catalog, reservation and auth
// services.
type Server struct {
	catalog      *catalog.Service
	reservations *reservation.Service
	auth         *auth.Service
	sessions     *auth.Sessions
	store        *store.Store
	db           *store.DB
	events       events.Publisher
	log          *zap.Logger
}

// NewServer creates the API server.
func NewServer(
	catalogSvc *catalog.Service,
	reservationSvc *reservation.Service,
	authSvc *auth.Service,
	sessions *auth.Sessions,
	st *store.Store,
	db *store.DB,
	publisher events.Publisher,
	logger *zap.Logger,
) *Server {
	return &Server{
		catalog:      catalogSvc,
		reservations: reservationSvc,
		auth:         authSvc,
		sessions:     sessions,
		store:        st,
		db:           db,
		events:       publisher,
		log:          logger,
	}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(jsonMiddleware, metricsMiddleware, s.withPrincipal)

	api.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

	api.HandleFunc("/books/search", s.handleSearchBooks).Methods(http.MethodGet)
	api.HandleFunc("/books", s.handleAddBook).Methods(http.MethodPost)
	api.HandleFunc("/books/reserve", s.handleReserveBook).Methods(http.MethodPost)
	api.HandleFunc("/books/{id:[0-9]+}/write-off", s.handleWriteOffBook).Methods(http.MethodPost)

	api.HandleFunc("/reservations/{id:[0-9]+}/confirm", s.handleConfirmReservation).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id:[0-9]+}/cancel", s.handleCancelReservation).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id:[0-9]+}/complete", s.handleCompleteReservation).Methods(http.MethodPost)
	api.HandleFunc("/user/reservations", s.handleMyReservations).Methods(http.MethodGet)

	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		s.log.Error("database health check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("unhealthy: database connection failed"))
		return
	}

	if !s.events.IsHealthy() {
		s.log.Error("event broker health check failed")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("unhealthy: event broker connection failed"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("healthy"))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	totalBooks, activeBooks, pendingReservations, err := s.store.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":              true,
		"total_books":          totalBooks,
		"active_books":         activeBooks,
		"pending_reservations": pendingReservations,
	})
}
