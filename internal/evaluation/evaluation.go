// Package evaluation decides which variation of a feature an entity receives.
//
// All functions are pure: they take a feature definition and an entity ID and
// return a Decision without touching storage, so they can be tested with
// hand-built store.Feature values.
//
// Evaluation order:
//  1. Entity override   → ReasonOverride
//  2. Segment override  → ReasonSegment (first rule matching the evaluation context)
//  3. Launch group      → ReasonLaunch (deterministic bucket, see package rollout)
//  4. Default variation → ReasonDefault
package evaluation

import (
	"errors"
	"fmt"

	"github.com/TimurManjosov/goevidently/internal/rollout"
	"github.com/TimurManjosov/goevidently/internal/store"
	"github.com/TimurManjosov/goevidently/internal/targeting"
)

// Reasons reported by the emulator. The suffix marks them as local results.
const (
	ReasonOverride = "OVERRIDE_RULE (local)"
	ReasonSegment  = "SEGMENT_OVERRIDE_RULE (local)"
	ReasonLaunch   = "LAUNCH_RULE_MATCH (local)"
	ReasonDefault  = "DEFAULT (local)"
)

// emptyDetails is the details document returned with every decision.
const emptyDetails = "{}"

// ErrNoEntity is returned when the entity ID is empty.
var ErrNoEntity = errors.New("entityId is required")

// Request identifies who is being evaluated.
type Request struct {
	EntityID string
	// EvaluationContext is a JSON object string, possibly empty.
	EvaluationContext string
}

// Decision is the outcome of evaluating one feature for one entity.
// Its JSON form is the EvaluateFeature response body.
type Decision struct {
	Details   string              `json:"details"`
	Reason    string              `json:"reason"`
	Value     store.VariableValue `json:"value"`
	Variation string              `json:"variation"`
}

// EvaluateFeature evaluates f for the entity in req.
//
// salt is mixed into the launch bucket hash; the same salt must be used for
// an entity to keep its launch group across restarts.
//
// Errors: ErrNoEntity for an empty entity ID, targeting.ErrInvalidContext
// for a malformed evaluation context, and a plain error when the feature
// refers to a variation it does not define (which Validate rejects).
func EvaluateFeature(f *store.Feature, req Request, salt string) (Decision, error) {
	if req.EntityID == "" {
		return Decision{}, ErrNoEntity
	}
	evalCtx, err := targeting.ParseContext(req.EvaluationContext)
	if err != nil {
		return Decision{}, err
	}

	variation, reason, err := resolve(f, req.EntityID, evalCtx, salt)
	if err != nil {
		return Decision{}, fmt.Errorf("feature %s/%s: %w", f.Project, f.Name, err)
	}

	value := f.Value(variation)
	if value == nil {
		return Decision{}, fmt.Errorf("feature %s/%s: variation '%s' does not exist", f.Project, f.Name, variation)
	}

	return Decision{
		Details:   emptyDetails,
		Reason:    reason,
		Value:     value,
		Variation: variation,
	}, nil
}

func resolve(f *store.Feature, entityID string, evalCtx targeting.Context, salt string) (variation, reason string, err error) {
	if v, ok := f.EntityOverrides[entityID]; ok {
		return v, ReasonOverride, nil
	}

	for _, so := range f.SegmentOverrides {
		matched, err := targeting.Evaluate(string(so.Rule), evalCtx)
		if err != nil {
			return "", "", fmt.Errorf("segment %s: %w", so.Name, err)
		}
		if matched {
			return so.Variation, ReasonSegment, nil
		}
	}

	if groups := f.LaunchGroups(); len(groups) > 0 {
		assigned, err := rollout.AssignGroup(entityID, f.Name, groups, salt)
		if err != nil {
			return "", "", err
		}
		if assigned != "" {
			return assigned, ReasonLaunch, nil
		}
	}

	return f.DefaultVariation, ReasonDefault, nil
}
