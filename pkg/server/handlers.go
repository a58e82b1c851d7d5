package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mouradhm/migrations-dashboard/pkg/activities"
	"github.com/mouradhm/migrations-dashboard/pkg/models"
)

// ListActivitiesHandler returns the newest activities as {"activities": [...]}
func (s *Server) ListActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListActivities(r.Context(), s.listLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list activities")
		http.Error(w, "failed to list activities", http.StatusInternalServerError)

		return
	}

	if records == nil {
		records = []models.ActivityRecord{}
	}

	s.writeJSON(w, http.StatusOK, models.ActivitiesResponse{Activities: records})
}

// RecordActivityHandler stores one activity posted by a migration run
func (s *Server) RecordActivityHandler(w http.ResponseWriter, r *http.Request) {
	var record models.ActivityRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		http.Error(w, "invalid activity body", http.StatusBadRequest)
		return
	}

	stored, err := s.store.RecordActivity(r.Context(), record)
	if err != nil {
		if errors.Is(err, activities.ErrInvalidTimestamp) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.logger.Error().Err(err).Msg("Failed to record activity")
		http.Error(w, "failed to record activity", http.StatusInternalServerError)

		return
	}

	s.logger.Info().
		Str("id", stored.ID).
		Str("created_at", stored.CreatedAt).
		Msg("Recorded activity")

	s.writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode response")
	}
}
