package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TimurManjosov/goevidently/internal/evaluation"
	"github.com/TimurManjosov/goevidently/internal/store"
	"github.com/TimurManjosov/goevidently/internal/targeting"
	"github.com/TimurManjosov/goevidently/internal/telemetry"
)

// evaluateFeatureRequest is the body of POST /projects/{project}/evaluations/{feature}.
type evaluateFeatureRequest struct {
	EntityID          string `json:"entityId"`
	EvaluationContext string `json:"evaluationContext,omitempty"`
}

// handleEvaluateFeature handles POST /projects/{project}/evaluations/{feature}.
// The evaluation context is matched against the feature's segment overrides.
func (s *Server) handleEvaluateFeature(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	feature := chi.URLParam(r, "feature")

	var req evaluateFeatureRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.evaluationFailed(ErrTypeValidation)
		ValidationError(w, "Invalid request body: "+err.Error())
		return
	}

	f, errType := s.loadFeature(w, r, project, feature)
	if errType != "" {
		s.evaluationFailed(errType)
		return
	}

	decision, err := evaluation.EvaluateFeature(f, evaluation.Request{
		EntityID:          req.EntityID,
		EvaluationContext: req.EvaluationContext,
	}, s.opts.RolloutSalt)
	if err != nil {
		if errors.Is(err, evaluation.ErrNoEntity) || errors.Is(err, targeting.ErrInvalidContext) {
			s.evaluationFailed(ErrTypeValidation)
			ValidationError(w, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("project", project).Str("feature", feature).Msg("evaluation failed")
		s.evaluationFailed(ErrTypeInternal)
		InternalError(w, "Failed to evaluate feature")
		return
	}

	telemetry.Evaluations.WithLabelValues(project, feature, decision.Reason).Inc()
	s.logger.Debug().
		Str("project", project).
		Str("feature", feature).
		Str("entity_id", req.EntityID).
		Str("reason", decision.Reason).
		Str("variation", decision.Variation).
		Msg("feature evaluated")

	writeJSON(w, http.StatusOK, decision)
}

// loadFeature fetches a feature. On failure it writes the error response
// and returns the error type it sent.
func (s *Server) loadFeature(w http.ResponseWriter, r *http.Request, project, feature string) (*store.Feature, ErrorType) {
	f, err := s.store.GetFeature(r.Context(), project, feature)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ResourceNotFoundError(w, fmt.Sprintf("Feature %s not found in project %s", feature, project))
			return nil, ErrTypeResourceNotFound
		}
		var invalid store.ValidationError
		if errors.As(err, &invalid) {
			s.logger.Error().Err(err).Str("project", project).Str("feature", feature).Msg("stored feature is invalid")
			InternalError(w, fmt.Sprintf("Feature %s in project %s is invalid: %s", feature, project, invalid.Error()))
			return nil, ErrTypeInternal
		}
		s.logger.Error().Err(err).Str("project", project).Str("feature", feature).Msg("failed to load feature")
		InternalError(w, "Failed to load feature")
		return nil, ErrTypeInternal
	}
	return f, ""
}

func (s *Server) evaluationFailed(errType ErrorType) {
	telemetry.EvaluationErrors.WithLabelValues(string(errType)).Inc()
}
