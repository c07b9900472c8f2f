package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileStore keeps one JSON document per feature under
// <dataDir>/projects/<project>/features/<feature>.json.
// Files are read on every call, so edits on disk take effect immediately.
type FileStore struct {
	dataDir string
	mu      sync.RWMutex
}

// NewFileStore creates a store rooted at dataDir. The directory does not
// need to exist until the first write.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{dataDir: dataDir}
}

func (s *FileStore) featuresDir(project string) string {
	return filepath.Join(s.dataDir, "projects", project, "features")
}

func (s *FileStore) featurePath(project, name string) string {
	return filepath.Join(s.featuresDir(project), name+".json")
}

// GetFeature reads and validates a feature file. The project and name fields
// are taken from the path, not from the file contents. A file that fails
// validation is reported as an error wrapping ValidationError.
func (s *FileStore) GetFeature(ctx context.Context, project, name string) (*Feature, error) {
	if !ValidName(project) || !ValidName(name) {
		return nil, fmt.Errorf("feature %s/%s: %w", project, name, ErrNotFound)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.readFeature(project, name)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *FileStore) readFeature(project, name string) (Feature, error) {
	data, err := os.ReadFile(s.featurePath(project, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Feature{}, fmt.Errorf("feature %s/%s: %w", project, name, ErrNotFound)
		}
		return Feature{}, fmt.Errorf("failed to read feature %s/%s: %w", project, name, err)
	}

	var f Feature
	if err := json.Unmarshal(data, &f); err != nil {
		return Feature{}, fmt.Errorf("failed to parse feature %s/%s: %w", project, name, err)
	}
	f.Project = project
	f.Name = name
	if err := f.Validate(); err != nil {
		return Feature{}, fmt.Errorf("feature %s/%s: %w", project, name, err)
	}
	return f, nil
}

// ListFeatures reads every feature file of a project. The first invalid
// file fails the whole listing.
func (s *FileStore) ListFeatures(ctx context.Context, project string) ([]Feature, error) {
	features := make([]Feature, 0)
	if !ValidName(project) {
		return features, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.featuresDir(project))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return features, nil
		}
		return nil, err
	}

	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok || !ValidName(name) {
			continue
		}
		f, err := s.readFeature(project, name)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	sort.Slice(features, func(i, j int) bool { return features[i].Name < features[j].Name })
	return features, nil
}

// Projects lists the project directories present under the data dir.
func (s *FileStore) Projects() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(s.dataDir, "projects"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var projects []string
	for _, e := range entries {
		if e.IsDir() && ValidName(e.Name()) {
			projects = append(projects, e.Name())
		}
	}
	return projects, nil
}

// UpsertFeature writes a feature file, creating directories as needed.
func (s *FileStore) UpsertFeature(ctx context.Context, f Feature) error {
	if err := f.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.featuresDir(f.Project), 0755); err != nil {
		return fmt.Errorf("failed to create features directory: %w", err)
	}
	path := s.featurePath(f.Project, f.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write feature: %w", err)
	}
	return os.Rename(tmp, path)
}

// DeleteFeature removes a feature file.
func (s *FileStore) DeleteFeature(ctx context.Context, project, name string) error {
	if !ValidName(project) || !ValidName(name) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.featurePath(project, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Close is a no-op for FileStore.
func (s *FileStore) Close() error {
	return nil
}
