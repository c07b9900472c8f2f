package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type featureKey struct {
	project string
	name    string
}

// MemoryStore is an in-memory implementation of the Store interface.
// It uses a map for storage and RWMutex for thread-safe concurrent access.
// This implementation is suitable for development and testing.
type MemoryStore struct {
	mu       sync.RWMutex
	features map[featureKey]Feature
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		features: make(map[featureKey]Feature),
	}
}

// GetFeature retrieves a single feature.
func (m *MemoryStore) GetFeature(ctx context.Context, project, name string) (*Feature, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, exists := m.features[featureKey{project, name}]
	if !exists {
		return nil, fmt.Errorf("feature %s/%s: %w", project, name, ErrNotFound)
	}

	return &f, nil
}

// ListFeatures retrieves all features of a project.
func (m *MemoryStore) ListFeatures(ctx context.Context, project string) ([]Feature, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Feature, 0)
	for k, f := range m.features {
		if k.project == project {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// UpsertFeature creates or replaces a feature in memory.
func (m *MemoryStore) UpsertFeature(ctx context.Context, f Feature) error {
	if err := f.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.features[featureKey{f.Project, f.Name}] = f
	return nil
}

// DeleteFeature removes a feature from memory.
func (m *MemoryStore) DeleteFeature(ctx context.Context, project, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.features, featureKey{project, name})
	return nil
}

// Close is a no-op for MemoryStore as there are no resources to release.
func (m *MemoryStore) Close() error {
	return nil
}
