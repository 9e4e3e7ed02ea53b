// Package postgres persists pipeline runs in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"datascout/domain/analysis"
	"datascout/domain/core"
	"datascout/internal/errors"
	"datascout/ports"
)

const schemaDDL = `CREATE TABLE IF NOT EXISTS analysis_runs (
	id TEXT PRIMARY KEY,
	dataset_name TEXT NOT NULL,
	status TEXT NOT NULL,
	payload JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// runRepository implements the RunRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates the repository and ensures the table exists.
func NewRunRepository(db *sqlx.DB) (ports.RunRepository, error) {
	if _, err := db.Exec(schemaDDL); err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("failed to ensure analysis_runs table: %v", err))
	}
	return &runRepository{db: db}, nil
}

// Save upserts the full run state. The whole result travels as one JSON
// payload; id, dataset name, status and created_at are promoted to columns
// for listing.
func (r *runRepository) Save(ctx context.Context, result *analysis.PipelineResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal run payload: %w", err)
	}

	query := `INSERT INTO analysis_runs (id, dataset_name, status, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			dataset_name = EXCLUDED.dataset_name,
			status = EXCLUDED.status,
			payload = EXCLUDED.payload`

	_, err = r.db.ExecContext(ctx, query,
		result.ID.String(), result.DatasetName, string(result.Status), payload, result.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Get retrieves one run by its identifier.
func (r *runRepository) Get(ctx context.Context, id core.RunID) (*analysis.PipelineResult, error) {
	query := `SELECT payload FROM analysis_runs WHERE id = $1`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound(fmt.Sprintf("run %s", id))
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var result analysis.PipelineResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run payload: %w", err)
	}
	return &result, nil
}

// List returns the most recent runs, newest first.
func (r *runRepository) List(ctx context.Context, limit int) ([]*analysis.PipelineResult, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT payload FROM analysis_runs ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var results []*analysis.PipelineResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		var result analysis.PipelineResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run payload: %w", err)
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}
