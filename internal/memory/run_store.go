// Package memory is the in-process RunRepository used when no database is
// configured.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"datascout/domain/analysis"
	"datascout/domain/core"
	"datascout/internal/errors"
	"datascout/ports"
)

// RunStore keeps pipeline results in memory, keyed by run ID. Results are
// stored as deep copies so callers can keep mutating their own instance.
type RunStore struct {
	mu   sync.RWMutex
	runs map[core.RunID]*analysis.PipelineResult
}

// NewRunStore creates an empty store.
func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[core.RunID]*analysis.PipelineResult)}
}

var _ ports.RunRepository = (*RunStore)(nil)

func (s *RunStore) Save(ctx context.Context, result *analysis.PipelineResult) error {
	cp, err := deepCopy(result)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[result.ID] = cp
	return nil
}

func (s *RunStore) Get(ctx context.Context, id core.RunID) (*analysis.PipelineResult, error) {
	s.mu.RLock()
	result, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("run %s", id))
	}
	return deepCopy(result)
}

func (s *RunStore) List(ctx context.Context, limit int) ([]*analysis.PipelineResult, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	all := make([]*analysis.PipelineResult, 0, len(s.runs))
	for _, r := range s.runs {
		all = append(all, r)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[j].CreatedAt.Before(all[i].CreatedAt)
	})
	if len(all) > limit {
		all = all[:limit]
	}

	out := make([]*analysis.PipelineResult, len(all))
	for i, r := range all {
		cp, err := deepCopy(r)
		if err != nil {
			return nil, err
		}
		out[i] = cp
	}
	return out, nil
}

func deepCopy(result *analysis.PipelineResult) (*analysis.PipelineResult, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to copy run: %w", err)
	}
	var cp analysis.PipelineResult
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, fmt.Errorf("failed to copy run: %w", err)
	}
	return &cp, nil
}
