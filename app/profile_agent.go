package app

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"datascout/ai"
	"datascout/domain/analysis"
	"datascout/domain/dataset"
	stats "datascout/internal/analysis"
	"datascout/ports"
)

// ProfileAgent computes per-column statistics and asks the collaborator
// for a business reading of each summary.
type ProfileAgent struct {
	gen ports.GeneratorPort
}

// NewProfileAgent creates the agent.
func NewProfileAgent(gen ports.GeneratorPort) *ProfileAgent {
	return &ProfileAgent{gen: gen}
}

// Analyze profiles numeric and categorical columns. Column order in the
// output follows dataset order regardless of call scheduling. The degraded
// slice carries at most one note covering all failed insight calls.
func (a *ProfileAgent) Analyze(ctx context.Context, ds *dataset.Dataset) (*analysis.ProfileAnalysis, []string) {
	var numericCols, categoricalCols []*dataset.Column
	for i := range ds.Columns {
		col := &ds.Columns[i]
		switch {
		case col.DType.IsNumeric():
			numericCols = append(numericCols, col)
		case col.DType.IsCategorical():
			categoricalCols = append(categoricalCols, col)
		}
	}

	result := &analysis.ProfileAnalysis{
		NumericAnalysis:     make([]analysis.NumericColumnStats, 0, len(numericCols)),
		CategoricalAnalysis: make([]analysis.CategoricalColumnStats, 0, len(categoricalCols)),
	}

	numericOut := make([]*analysis.NumericColumnStats, len(numericCols))
	categoricalOut := make([]*analysis.CategoricalColumnStats, len(categoricalCols))
	callErrs := make([]error, len(numericCols)+len(categoricalCols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCalls)
	for i, col := range numericCols {
		g.Go(func() error {
			numericOut[i], callErrs[i] = a.analyzeNumeric(gctx, col)
			return nil
		})
	}
	for i, col := range categoricalCols {
		g.Go(func() error {
			categoricalOut[i], callErrs[len(numericCols)+i] = a.analyzeCategorical(gctx, col)
			return nil
		})
	}
	g.Wait()

	for _, s := range numericOut {
		if s != nil {
			result.NumericAnalysis = append(result.NumericAnalysis, *s)
		}
	}
	for _, s := range categoricalOut {
		if s != nil {
			result.CategoricalAnalysis = append(result.CategoricalAnalysis, *s)
		}
	}

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
		degraded = append(degraded, degradedNote("insight generation", failed, len(callErrs), first))
	}
	return result, degraded
}

// analyzeNumeric returns nil stats for columns with no parseable values;
// those columns simply drop out of the profile.
func (a *ProfileAgent) analyzeNumeric(ctx context.Context, col *dataset.Column) (*analysis.NumericColumnStats, error) {
	sum, ok := stats.DescribeNumeric(col)
	if !ok {
		return nil, nil
	}

	out := &analysis.NumericColumnStats{
		ColumnName: col.Name,
		Mean:       sum.Mean,
		Median:     sum.Median,
		Std:        sum.Std,
		Min:        sum.Min,
		Max:        sum.Max,
		Q25:        sum.Q25,
		Q75:        sum.Q75,
		Skewness:   sum.Skewness,
		IsNormal:   sum.IsNormal,
	}

	statsDict := fmt.Sprintf(
		"{'mean': %g, 'median': %g, 'std': %g, 'min': %g, 'max': %g, 'skewness': %g, 'q25': %g, 'q75': %g}",
		sum.Mean, sum.Median, sum.Std, sum.Min, sum.Max, sum.Skewness, sum.Q25, sum.Q75,
	)

	gen, err := a.gen.Generate(ctx, ai.StatisticalInsightGenerator, map[string]string{
		"column_name": col.Name,
		"column_type": "numeric",
		"stats_dict":  statsDict,
	})
	if err != nil {
		out.Insight = fmt.Sprintf("Error generating insight: %v", err)
		out.PatternDetected = sum.Pattern
		out.ActionableSuggestion = "Review statistics manually"
		return out, err
	}

	out.Insight = gen["insight"]
	out.PatternDetected = gen["pattern_detected"]
	out.ActionableSuggestion = gen["actionable_suggestion"]
	return out, nil
}

func (a *ProfileAgent) analyzeCategorical(ctx context.Context, col *dataset.Column) (*analysis.CategoricalColumnStats, error) {
	sum, ok := stats.DescribeCategorical(col)
	if !ok {
		return nil, nil
	}

	out := &analysis.CategoricalColumnStats{
		ColumnName:   col.Name,
		Cardinality:  sum.Cardinality,
		TopValue:     sum.TopValue,
		TopFrequency: sum.TopFrequency,
		Top5:         sum.Top5,
	}

	top5 := make([]string, len(sum.Top5))
	for i, vc := range sum.Top5 {
		top5[i] = fmt.Sprintf("('%s', %d)", vc.Value, vc.Count)
	}
	statsDict := fmt.Sprintf(
		"{'cardinality': %d, 'top_value': '%s', 'top_frequency': %d, 'top_5_values': [%s]}",
		sum.Cardinality, sum.TopValue, sum.TopFrequency, strings.Join(top5, ", "),
	)

	gen, err := a.gen.Generate(ctx, ai.StatisticalInsightGenerator, map[string]string{
		"column_name": col.Name,
		"column_type": "categorical",
		"stats_dict":  statsDict,
	})
	if err != nil {
		out.Insight = fmt.Sprintf("Error generating insight: %v", err)
		out.PatternDetected = "unknown"
		out.ActionableSuggestion = "Review distribution manually"
		return out, err
	}

	out.Insight = gen["insight"]
	out.PatternDetected = gen["pattern_detected"]
	out.ActionableSuggestion = gen["actionable_suggestion"]
	return out, nil
}
