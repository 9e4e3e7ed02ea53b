package ports

import (
	"context"

	"datascout/domain/analysis"
	"datascout/domain/core"
)

// RunRepository persists pipeline results. Save overwrites any earlier
// state of the same run, so callers can checkpoint after each stage.
type RunRepository interface {
	Save(ctx context.Context, result *analysis.PipelineResult) error
	Get(ctx context.Context, id core.RunID) (*analysis.PipelineResult, error)
	List(ctx context.Context, limit int) ([]*analysis.PipelineResult, error)
}
