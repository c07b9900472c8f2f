package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned (possibly wrapped) when a feature does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for feature persistence operations.
// Implementations must be thread-safe and support concurrent access.
type Store interface {
	// GetFeature retrieves a single feature.
	// Returns an error wrapping ErrNotFound if the feature does not exist.
	GetFeature(ctx context.Context, project, name string) (*Feature, error)

	// ListFeatures retrieves all features of a project, sorted by name.
	// Returns an empty slice if the project has no features.
	ListFeatures(ctx context.Context, project string) ([]Feature, error)

	// UpsertFeature validates and creates or replaces a feature.
	UpsertFeature(ctx context.Context, f Feature) error

	// DeleteFeature removes a feature.
	// Returns no error if the feature doesn't exist (idempotent).
	DeleteFeature(ctx context.Context, project, name string) error

	// Close releases any resources held by the store.
	// After Close is called, the store should not be used.
	Close() error
}
