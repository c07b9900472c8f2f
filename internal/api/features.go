package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TimurManjosov/goevidently/internal/store"
)

type listFeaturesResponse struct {
	Features []store.Feature `json:"features"`
}

type getFeatureResponse struct {
	Feature *store.Feature `json:"feature"`
}

// handleListFeatures handles GET /projects/{project}/features
func (s *Server) handleListFeatures(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")

	features, err := s.store.ListFeatures(r.Context(), project)
	if err != nil {
		s.logger.Error().Err(err).Str("project", project).Msg("failed to list features")
		InternalError(w, "Failed to list features")
		return
	}
	writeJSON(w, http.StatusOK, listFeaturesResponse{Features: features})
}

// handleGetFeature handles GET /projects/{project}/features/{feature}
func (s *Server) handleGetFeature(w http.ResponseWriter, r *http.Request) {
	f, errType := s.loadFeature(w, r, chi.URLParam(r, "project"), chi.URLParam(r, "feature"))
	if errType != "" {
		return
	}
	writeJSON(w, http.StatusOK, getFeatureResponse{Feature: f})
}
