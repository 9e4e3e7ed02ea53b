package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"datascout/ai"
	"datascout/domain/analysis"
	"datascout/domain/dataset"
	stats "datascout/internal/analysis"
	"datascout/ports"
)

// SchemaAgent interprets each column's business meaning. Deterministic
// stats come first; the generation call only adds the interpretation.
type SchemaAgent struct {
	gen             ports.GeneratorPort
	maxSampleValues int
}

// NewSchemaAgent creates the agent.
func NewSchemaAgent(gen ports.GeneratorPort, maxSampleValues int) *SchemaAgent {
	if maxSampleValues <= 0 {
		maxSampleValues = 5
	}
	return &SchemaAgent{gen: gen, maxSampleValues: maxSampleValues}
}

// Analyze profiles every column. The degraded slice carries at most one
// note covering all failed column interpretations.
func (a *SchemaAgent) Analyze(ctx context.Context, ds *dataset.Dataset) (*analysis.SchemaAnalysis, []string) {
	result := &analysis.SchemaAnalysis{
		Columns: make([]analysis.ColumnProfile, len(ds.Columns)),
		Summary: analysis.SchemaSummary{
			TotalColumns:  len(ds.Columns),
			TotalRows:     ds.Rows(),
			MemoryUsageMB: ds.MemoryUsageMB(),
		},
	}

	callErrs := make([]error, len(ds.Columns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCalls)
	for i := range ds.Columns {
		g.Go(func() error {
			result.Columns[i], callErrs[i] = a.analyzeColumn(gctx, ds, &ds.Columns[i])
			return nil
		})
	}
	g.Wait()

	var degraded []string
	failed := 0
	var first error
	for _, err := range callErrs {
		if err != nil {
			failed++
			if first == nil {
				first = err
			}
		}
	}
	if failed > 0 {
		degraded = append(degraded, degradedNote("column interpretation", failed, len(ds.Columns), first))
	}
	return result, degraded
}

func (a *SchemaAgent) analyzeColumn(ctx context.Context, ds *dataset.Dataset, col *dataset.Column) (analysis.ColumnProfile, error) {
	total := ds.Rows()
	nullCount := col.NullCount()
	nullPct := 0.0
	if total > 0 {
		nullPct = float64(nullCount) / float64(total) * 100
	}
	samples := formatSamples(col.SampleValues(a.maxSampleValues))

	profile := analysis.ColumnProfile{
		ColumnName:     col.Name,
		DType:          string(col.DType),
		NullCount:      nullCount,
		NullPercentage: stats.RoundPercent(nullPct),
		UniqueCount:    col.UniqueCount(),
		SampleValues:   samples,
	}

	out, err := a.gen.Generate(ctx, ai.SchemaInterpreter, map[string]string{
		"column_name":   col.Name,
		"dtype":         string(col.DType),
		"null_count":    fmt.Sprintf("%d", nullCount),
		"unique_count":  fmt.Sprintf("%d", profile.UniqueCount),
		"total_count":   fmt.Sprintf("%d", total),
		"sample_values": samples,
	})
	if err != nil {
		profile.BusinessType = "Unknown"
		profile.Confidence = "low"
		profile.Reasoning = fmt.Sprintf("Error in interpretation: %v", err)
		profile.Recommendation = "Review manually"
		return profile, err
	}

	profile.BusinessType = out["business_type"]
	profile.Confidence = out["confidence"]
	profile.Reasoning = out["reasoning"]
	profile.Recommendation = out["recommendation"]
	return profile, nil
}
