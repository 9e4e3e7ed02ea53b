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

// QualityAgent runs the rule-based quality checks and asks the
// collaborator for a fix per detected issue.
type QualityAgent struct {
	gen ports.GeneratorPort
}

// NewQualityAgent creates the agent.
func NewQualityAgent(gen ports.GeneratorPort) *QualityAgent {
	return &QualityAgent{gen: gen}
}

// Analyze runs the four checks in fixed order (missing values, duplicates,
// outliers, inconsistent categories), then fills each issue's fix via one
// generation call. The degraded slice carries at most one note covering all
// failed recommendation calls.
func (a *QualityAgent) Analyze(ctx context.Context, ds *dataset.Dataset) (*analysis.QualityAnalysis, []string) {
	issues := a.detectIssues(ds)

	callErrs := make([]error, len(issues))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCalls)
	for i := range issues {
		g.Go(func() error {
			callErrs[i] = a.recommend(gctx, ds, &issues[i])
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
		degraded = append(degraded, degradedNote("fix recommendation", failed, len(issues), first))
	}

	return &analysis.QualityAnalysis{
		IssuesFound: issues,
		Summary:     analysis.SummarizeIssues(issues),
	}, degraded
}

func (a *QualityAgent) detectIssues(ds *dataset.Dataset) []analysis.QualityIssue {
	var issues []analysis.QualityIssue
	totalRows := ds.Rows()

	// Missing values, per column.
	for i := range ds.Columns {
		col := &ds.Columns[i]
		rep, ok := stats.Missing(col)
		if !ok {
			continue
		}
		issues = append(issues, analysis.QualityIssue{
			Type:        analysis.IssueMissingValues,
			Column:      col.Name,
			Severity:    stats.MissingSeverity(rep.Percentage),
			Description: fmt.Sprintf("%d missing values (%.1f%%) in column '%s'", rep.Count, rep.Percentage, col.Name),
			Count:       rep.Count,
			Percentage:  stats.RoundPercent(rep.Percentage),
		})
	}

	// Duplicate rows, dataset wide.
	if dupCount := stats.DuplicateRows(ds); dupCount > 0 && totalRows > 0 {
		dupPct := float64(dupCount) / float64(totalRows) * 100
		issues = append(issues, analysis.QualityIssue{
			Type:        analysis.IssueDuplicates,
			Column:      "entire_row",
			Severity:    stats.DuplicateSeverity(dupPct),
			Description: fmt.Sprintf("%d duplicate rows (%.1f%%)", dupCount, dupPct),
			Count:       dupCount,
			Percentage:  stats.RoundPercent(dupPct),
		})
	}

	// Outliers, per numeric column.
	for i := range ds.Columns {
		col := &ds.Columns[i]
		if !col.DType.IsNumeric() {
			continue
		}
		rep, ok := stats.Outliers(col)
		if !ok {
			continue
		}
		issues = append(issues, analysis.QualityIssue{
			Type:     analysis.IssueOutliers,
			Column:   col.Name,
			Severity: stats.OutlierSeverity(rep.Percentage),
			Description: fmt.Sprintf("%d outliers (%.1f%%) in '%s' (outside [%.2f, %.2f])",
				rep.Count, rep.Percentage, col.Name, rep.LowerBound, rep.UpperBound),
			Count:      rep.Count,
			Percentage: stats.RoundPercent(rep.Percentage),
			Bounds:     []float64{round2(rep.LowerBound), round2(rep.UpperBound)},
		})
	}

	// Inconsistent spellings, per categorical column.
	for i := range ds.Columns {
		col := &ds.Columns[i]
		if !col.DType.IsCategorical() {
			continue
		}
		count, ok := stats.InconsistentCategories(col)
		if !ok {
			continue
		}
		issues = append(issues, analysis.QualityIssue{
			Type:        analysis.IssueInconsistentCategories,
			Column:      col.Name,
			Severity:    analysis.SeverityInfo,
			Description: fmt.Sprintf("'%s' has %d inconsistent values (case/whitespace issues)", col.Name, count),
			Count:       count,
		})
	}

	return issues
}

func round2(v float64) float64 {
	return stats.RoundPercent(v)
}

// recommend fills the issue's fix fields. On failure the issue keeps a
// canned fallback and the error is reported to the caller.
func (a *QualityAgent) recommend(ctx context.Context, ds *dataset.Dataset, issue *analysis.QualityIssue) error {
	out, err := a.gen.Generate(ctx, ai.QualityRecommender, map[string]string{
		"issue_type":        string(issue.Type),
		"column_name":       issue.Column,
		"issue_description": issue.Description,
		"sample_data":       a.sampleData(ds, issue),
	})
	if err != nil {
		issue.RecommendedAction, issue.CodeSnippet, issue.Impact = fallbackFix(issue)
		return err
	}
	issue.RecommendedAction = out["recommended_action"]
	issue.CodeSnippet = out["code_snippet"]
	issue.Impact = out["impact_description"]
	return nil
}

func (a *QualityAgent) sampleData(ds *dataset.Dataset, issue *analysis.QualityIssue) string {
	if issue.Column == "entire_row" {
		return fmt.Sprintf("%d of %d rows repeat an earlier row", issue.Count, ds.Rows())
	}
	col := ds.Column(issue.Column)
	if col == nil {
		return ""
	}
	return "[" + strings.Join(col.SampleValues(3), ", ") + "]"
}

// fallbackFix returns the canned action, snippet, and impact for an issue
// whose recommendation call failed.
func fallbackFix(issue *analysis.QualityIssue) (action, code, impact string) {
	switch issue.Type {
	case analysis.IssueMissingValues:
		return "Impute with median/mode or drop rows",
			fmt.Sprintf("df['%s'].fillna(df['%s'].median(), inplace=True)", issue.Column, issue.Column),
			"Fill missing values"
	case analysis.IssueDuplicates:
		return "Remove duplicate rows",
			"df.drop_duplicates(inplace=True)",
			fmt.Sprintf("Remove %d duplicate rows", issue.Count)
	case analysis.IssueOutliers:
		lower, upper := 0.0, 0.0
		if len(issue.Bounds) == 2 {
			lower, upper = issue.Bounds[0], issue.Bounds[1]
		}
		return "Cap outliers or flag for investigation",
			fmt.Sprintf("df['%s'] = df['%s'].clip(lower=%.2f, upper=%.2f)", issue.Column, issue.Column, lower, upper),
			"Cap extreme values"
	default:
		return "Standardize categorical values",
			fmt.Sprintf("df['%s'] = df['%s'].str.lower().str.strip()", issue.Column, issue.Column),
			fmt.Sprintf("Reduce %d redundant categories", issue.Count)
	}
}
