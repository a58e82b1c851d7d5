// Package server exposes the activity API polled by the dashboard.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mouradhm/migrations-dashboard/pkg/activities"
	"github.com/mouradhm/migrations-dashboard/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// Server serves activity records from a store
type Server struct {
	store     activities.Store
	listLimit int64
	logger    logger.Logger
}

// New creates a Server listing at most listLimit activities per request
func New(store activities.Store, listLimit int64, log logger.Logger) *Server {
	return &Server{
		store:     store,
		listLimit: listLimit,
		logger:    log,
	}
}

// NewRouter registers the API routes
func (s *Server) NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := fmt.Fprintln(w, "OK"); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to write health response")
		}
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/activities", s.ListActivitiesHandler).Methods(http.MethodGet)
	api.HandleFunc("/activities", s.RecordActivityHandler).Methods(http.MethodPost)

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger tags each request with an id and logs its outcome
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		s.logger.Debug().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}
