// Package rollout provides deterministic entity bucketing for feature launches.
// It hashes the entity ID, feature name and a salt into a bucket (0-99) so
// that:
//   - the same entity always lands in the same launch group
//   - entities spread evenly across buckets (xxHash)
//   - raising a group's weight only adds entities to it
package rollout

import "errors"

// ErrInvalidGroupWeights is returned when launch group weights exceed 100 in total.
var ErrInvalidGroupWeights = errors.New("launch group weights must not exceed 100")

// Group is one traffic split of a launch.
type Group struct {
	Variation string `json:"variation"`
	Weight    int    `json:"weight"` // Percentage weight (0-100)
}

// ValidateGroups checks that every weight is in range, every group names a
// variation, and the total does not exceed 100. An empty slice is valid.
// A total below 100 leaves the remaining traffic on the default variation.
func ValidateGroups(groups []Group) error {
	total := 0
	for _, g := range groups {
		if g.Variation == "" {
			return errors.New("launch group variation cannot be empty")
		}
		if g.Weight < 0 || g.Weight > 100 {
			return errors.New("launch group weight must be between 0 and 100")
		}
		total += g.Weight
	}
	if total > 100 {
		return ErrInvalidGroupWeights
	}
	return nil
}

// AssignGroup determines which launch group an entity falls into.
//
// Example: groups = [A:50, B:30]
//   - bucket 0-49  → A
//   - bucket 50-79 → B
//   - bucket 80-99 → "" (not in the launch)
//
// Returns empty string if there are no groups, entityID is empty, or the
// bucket falls past the cumulative weight.
func AssignGroup(entityID, feature string, groups []Group, salt string) (string, error) {
	if len(groups) == 0 {
		return "", nil
	}
	if err := ValidateGroups(groups); err != nil {
		return "", err
	}

	bucket := BucketEntity(entityID, feature, salt)
	if bucket < 0 {
		return "", nil
	}

	cumulative := 0
	for _, g := range groups {
		cumulative += g.Weight
		if bucket < cumulative {
			return g.Variation, nil
		}
	}
	return "", nil
}
