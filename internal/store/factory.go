package store

import (
	"context"
	"fmt"

	mydb "github.com/TimurManjosov/goevidently/internal/db"
)

// NewStore creates a new store based on the given store type.
// Supported types: "file", "memory", "postgres".
//
// A memory store is seeded from dataDir when dataDir is non-empty, so the
// emulator can serve file-defined features without touching them on disk.
func NewStore(ctx context.Context, storeType, dataDir, dbDSN string) (Store, error) {
	switch storeType {
	case "file":
		return NewFileStore(dataDir), nil
	case "memory":
		mem := NewMemoryStore()
		if dataDir != "" {
			if err := Seed(ctx, NewFileStore(dataDir), mem); err != nil {
				return nil, fmt.Errorf("failed to seed memory store: %w", err)
			}
		}
		return mem, nil
	case "postgres":
		pool, err := mydb.NewPool(ctx, dbDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres pool: %w", err)
		}
		pg := NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeType)
	}
}

// Seed copies every feature of every project in src into dst.
func Seed(ctx context.Context, src *FileStore, dst Store) error {
	projects, err := src.Projects()
	if err != nil {
		return err
	}
	for _, project := range projects {
		features, err := src.ListFeatures(ctx, project)
		if err != nil {
			return err
		}
		for _, f := range features {
			if err := dst.UpsertFeature(ctx, f); err != nil {
				return fmt.Errorf("feature %s/%s: %w", project, f.Name, err)
			}
		}
	}
	return nil
}
