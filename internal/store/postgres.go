package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS evidently_features (
	project    TEXT        NOT NULL,
	name       TEXT        NOT NULL,
	doc        JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (project, name)
)`

// PostgresStore is a PostgreSQL implementation of the Store interface.
// Each feature is kept as a JSONB document keyed by (project, name).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the feature table if it does not exist.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// GetFeature retrieves a single feature from the database.
func (p *PostgresStore) GetFeature(ctx context.Context, project, name string) (*Feature, error) {
	var doc []byte
	err := p.pool.QueryRow(ctx,
		`SELECT doc FROM evidently_features WHERE project = $1 AND name = $2`,
		project, name,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("feature %s/%s: %w", project, name, ErrNotFound)
		}
		return nil, err
	}

	f, err := decodeFeature(doc)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFeatures retrieves all features of a project from the database.
func (p *PostgresStore) ListFeatures(ctx context.Context, project string) ([]Feature, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT doc FROM evidently_features WHERE project = $1 ORDER BY name`,
		project,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	features := make([]Feature, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		f, err := decodeFeature(doc)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

// UpsertFeature creates or replaces a feature in the database.
func (p *PostgresStore) UpsertFeature(ctx context.Context, f Feature) error {
	if err := f.Validate(); err != nil {
		return err
	}
	doc, err := json.Marshal(f)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO evidently_features (project, name, doc, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (project, name) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		f.Project, f.Name, doc,
	)
	return err
}

// DeleteFeature removes a feature from the database.
func (p *PostgresStore) DeleteFeature(ctx context.Context, project, name string) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM evidently_features WHERE project = $1 AND name = $2`,
		project, name,
	)
	return err
}

// Close closes the database connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func decodeFeature(doc []byte) (Feature, error) {
	var f Feature
	if err := json.Unmarshal(doc, &f); err != nil {
		return Feature{}, fmt.Errorf("corrupt feature document: %w", err)
	}
	if err := f.Validate(); err != nil {
		return Feature{}, fmt.Errorf("feature %s/%s: %w", f.Project, f.Name, err)
	}
	return f, nil
}
