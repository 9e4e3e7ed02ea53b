package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"datascout/domain/analysis"
	"datascout/domain/dataset"
)

func TestSchemaAgentInterpretsColumns(t *testing.T) {
	gen := newStubGenerator()
	gen.responses["SchemaInterpreter"] = map[string]string{
		"business_type": "Numeric Metric",
		"confidence":    "high",
	}
	agent := NewSchemaAgent(gen, 3)

	result, degraded := agent.Analyze(context.Background(), testDataset())
	if len(degraded) != 0 {
		t.Fatalf("unexpected degraded notes: %v", degraded)
	}
	if len(result.Columns) != 2 {
		t.Fatalf("expected 2 column profiles, got %d", len(result.Columns))
	}

	amount := result.Columns[0]
	if amount.ColumnName != "amount" || amount.DType != "float64" {
		t.Errorf("unexpected first column: %+v", amount)
	}
	if amount.BusinessType != "Numeric Metric" || amount.Confidence != "high" {
		t.Errorf("interpretation not merged: %+v", amount)
	}
	if amount.SampleValues != "[1, 2, 3]" {
		t.Errorf("expected 3 sample values, got %q", amount.SampleValues)
	}

	region := result.Columns[1]
	if region.NullCount != 2 {
		t.Errorf("expected 2 nulls in region, got %d", region.NullCount)
	}
	if region.UniqueCount != 3 {
		t.Errorf("expected 3 unique region values, got %d", region.UniqueCount)
	}
}

func TestSchemaAgentFallbackOnFailure(t *testing.T) {
	agent := NewSchemaAgent(&failingGenerator{err: errors.New("timeout")}, 5)

	result, degraded := agent.Analyze(context.Background(), testDataset())
	if len(degraded) != 1 {
		t.Fatalf("expected one degraded note, got %v", degraded)
	}
	if !strings.HasPrefix(degraded[0], "column interpretation failed for 2 of 2") {
		t.Errorf("unexpected note: %q", degraded[0])
	}

	col := result.Columns[0]
	if col.BusinessType != "Unknown" || col.Confidence != "low" || col.Recommendation != "Review manually" {
		t.Errorf("fallback profile not applied: %+v", col)
	}
	if !strings.Contains(col.Reasoning, "timeout") {
		t.Errorf("reasoning should carry the error, got %q", col.Reasoning)
	}
	// Deterministic fields survive the generation failure.
	if col.UniqueCount != 6 || col.NullCount != 0 {
		t.Errorf("deterministic stats lost: %+v", col)
	}
}

func TestSchemaAgentAllNullColumn(t *testing.T) {
	ds := &dataset.Dataset{Name: "nulls", Columns: []dataset.Column{
		{Name: "empty", DType: dataset.DTypeObject, Cells: []dataset.Cell{
			{Null: true}, {Null: true},
		}},
	}}
	gen := newStubGenerator()
	agent := NewSchemaAgent(gen, 5)

	result, _ := agent.Analyze(context.Background(), ds)
	col := result.Columns[0]
	if col.SampleValues != "All null values" {
		t.Errorf("expected all-null marker, got %q", col.SampleValues)
	}
	if col.NullPercentage != 100 {
		t.Errorf("expected 100%% nulls, got %g", col.NullPercentage)
	}
}

func TestProfileAgentNumericAndCategorical(t *testing.T) {
	gen := newStubGenerator()
	agent := NewProfileAgent(gen)

	result, degraded := agent.Analyze(context.Background(), testDataset())
	if len(degraded) != 0 {
		t.Fatalf("unexpected degraded notes: %v", degraded)
	}
	if len(result.NumericAnalysis) != 1 || len(result.CategoricalAnalysis) != 1 {
		t.Fatalf("expected 1 numeric + 1 categorical, got %d + %d",
			len(result.NumericAnalysis), len(result.CategoricalAnalysis))
	}

	num := result.NumericAnalysis[0]
	if num.ColumnName != "amount" {
		t.Errorf("unexpected numeric column %q", num.ColumnName)
	}
	if num.Median != 4 || num.Q25 != 2.5 || num.Q75 != 5 {
		t.Errorf("unexpected quartiles: median=%g q25=%g q75=%g", num.Median, num.Q25, num.Q75)
	}
	if num.Insight != "stub insight" {
		t.Errorf("insight not merged: %q", num.Insight)
	}

	cat := result.CategoricalAnalysis[0]
	if cat.ColumnName != "region" || cat.TopValue != "South" || cat.TopFrequency != 3 {
		t.Errorf("unexpected categorical stats: %+v", cat)
	}
	if cat.Cardinality != 3 {
		t.Errorf("expected cardinality 3, got %d", cat.Cardinality)
	}
}

func TestProfileAgentFallbacks(t *testing.T) {
	agent := NewProfileAgent(&failingGenerator{err: errors.New("quota")})

	result, degraded := agent.Analyze(context.Background(), testDataset())
	if len(degraded) != 1 {
		t.Fatalf("expected one degraded note, got %v", degraded)
	}
	if !strings.HasPrefix(degraded[0], "insight generation failed for 2 of 2") {
		t.Errorf("unexpected note: %q", degraded[0])
	}

	num := result.NumericAnalysis[0]
	if num.PatternDetected != "right skewed" {
		t.Errorf("fallback pattern should come from computed skewness, got %q", num.PatternDetected)
	}
	if num.ActionableSuggestion != "Review statistics manually" {
		t.Errorf("unexpected numeric fallback: %q", num.ActionableSuggestion)
	}

	cat := result.CategoricalAnalysis[0]
	if cat.PatternDetected != "unknown" || cat.ActionableSuggestion != "Review distribution manually" {
		t.Errorf("unexpected categorical fallback: %+v", cat)
	}
}

func TestProfileAgentSkipsUnparseableColumns(t *testing.T) {
	ds := &dataset.Dataset{Name: "odd", Columns: []dataset.Column{
		{Name: "ghost", DType: dataset.DTypeFloat64, Cells: []dataset.Cell{
			{Null: true}, {Null: true},
		}},
	}}
	gen := newStubGenerator()
	agent := NewProfileAgent(gen)

	result, degraded := agent.Analyze(context.Background(), ds)
	if len(degraded) != 0 {
		t.Fatalf("unexpected degraded notes: %v", degraded)
	}
	if len(result.NumericAnalysis) != 0 {
		t.Errorf("all-null numeric column should drop out, got %+v", result.NumericAnalysis)
	}
	if gen.calls["StatisticalInsightGenerator"] != 0 {
		t.Errorf("no insight call expected for dropped column")
	}
}

func TestQualityAgentDetectsAllIssueTypes(t *testing.T) {
	gen := newStubGenerator()
	agent := NewQualityAgent(gen)

	result, degraded := agent.Analyze(context.Background(), testDataset())
	if len(degraded) != 0 {
		t.Fatalf("unexpected degraded notes: %v", degraded)
	}

	byType := map[analysis.IssueType]analysis.QualityIssue{}
	for _, issue := range result.IssuesFound {
		byType[issue.Type] = issue
	}

	missing, ok := byType[analysis.IssueMissingValues]
	if !ok || missing.Column != "region" || missing.Count != 2 {
		t.Errorf("missing-values issue wrong: %+v", missing)
	}

	dup, ok := byType[analysis.IssueDuplicates]
	if !ok || dup.Column != "entire_row" {
		t.Errorf("duplicates issue wrong: %+v", dup)
	}

	out, ok := byType[analysis.IssueOutliers]
	if !ok || out.Column != "amount" || out.Count != 1 {
		t.Errorf("outliers issue wrong: %+v", out)
	}
	if len(out.Bounds) != 2 || out.Bounds[0] != -1.25 || out.Bounds[1] != 8.75 {
		t.Errorf("unexpected outlier bounds: %v", out.Bounds)
	}

	inc, ok := byType[analysis.IssueInconsistentCategories]
	if !ok || inc.Column != "region" || inc.Count != 1 {
		t.Errorf("inconsistent-categories issue wrong: %+v", inc)
	}
	if inc.Severity != analysis.SeverityInfo {
		t.Errorf("inconsistency severity should stay info, got %s", inc.Severity)
	}

	if result.IssuesFound[0].RecommendedAction != "stub recommended_action" {
		t.Errorf("recommendation not merged: %+v", result.IssuesFound[0])
	}
	if result.Summary.TotalIssues != len(result.IssuesFound) {
		t.Errorf("summary total %d != issues %d", result.Summary.TotalIssues, len(result.IssuesFound))
	}
}

func TestQualityAgentFallbackFixes(t *testing.T) {
	agent := NewQualityAgent(&failingGenerator{err: errors.New("down")})

	result, degraded := agent.Analyze(context.Background(), testDataset())
	if len(degraded) != 1 {
		t.Fatalf("expected one degraded note, got %v", degraded)
	}

	for _, issue := range result.IssuesFound {
		if issue.RecommendedAction == "" || issue.CodeSnippet == "" {
			t.Errorf("fallback fix missing for %s: %+v", issue.Type, issue)
		}
		switch issue.Type {
		case analysis.IssueMissingValues:
			if !strings.Contains(issue.CodeSnippet, ".fillna(") {
				t.Errorf("unexpected missing fix: %q", issue.CodeSnippet)
			}
		case analysis.IssueDuplicates:
			if issue.CodeSnippet != "df.drop_duplicates(inplace=True)" {
				t.Errorf("unexpected duplicate fix: %q", issue.CodeSnippet)
			}
		case analysis.IssueOutliers:
			if !strings.Contains(issue.CodeSnippet, ".clip(lower=-1.25, upper=8.75)") {
				t.Errorf("outlier fix should use detected bounds: %q", issue.CodeSnippet)
			}
		case analysis.IssueInconsistentCategories:
			if !strings.Contains(issue.CodeSnippet, ".str.lower().str.strip()") {
				t.Errorf("unexpected category fix: %q", issue.CodeSnippet)
			}
		}
	}
}

func TestMLAdvisorDetectorFailureStillPlans(t *testing.T) {
	gen := newStubGenerator()
	gen.failFor["MLUseCaseDetector"] = errors.New("blocked")
	agent := NewMLAdvisorAgent(gen)

	schema := &analysis.SchemaAnalysis{Summary: analysis.SchemaSummary{TotalRows: 10, TotalColumns: 2}}
	profile := &analysis.ProfileAnalysis{}
	quality := &analysis.QualityAnalysis{}

	result, degraded := agent.Analyze(context.Background(), schema, profile, quality)
	if len(degraded) != 1 || !strings.HasPrefix(degraded[0], "use case detection failed") {
		t.Fatalf("unexpected degraded notes: %v", degraded)
	}

	uc := result.MLUseCase
	if uc.DetectedUseCase != "Unable to detect" || uc.TargetVariable != "Unknown" || uc.SuitabilityScore != "0" {
		t.Errorf("detector sentinels missing: %+v", uc)
	}
	// The planner still runs against the sentinels.
	if gen.calls["FeatureEngineeringPlanner"] != 1 {
		t.Errorf("planner should run after detector failure, calls=%d", gen.calls["FeatureEngineeringPlanner"])
	}
	if result.FeatureEngineering.FeaturePlan != "stub feature_plan" {
		t.Errorf("planner output not merged: %+v", result.FeatureEngineering)
	}
}

func TestMLAdvisorPlannerFailure(t *testing.T) {
	gen := newStubGenerator()
	gen.responses["MLUseCaseDetector"] = map[string]string{"detected_use_case": "Binary Classification"}
	gen.failFor["FeatureEngineeringPlanner"] = errors.New("blocked")
	agent := NewMLAdvisorAgent(gen)

	result, degraded := agent.Analyze(context.Background(),
		&analysis.SchemaAnalysis{}, &analysis.ProfileAnalysis{}, &analysis.QualityAnalysis{})
	if len(degraded) != 1 || !strings.HasPrefix(degraded[0], "feature planning failed") {
		t.Fatalf("unexpected degraded notes: %v", degraded)
	}

	fe := result.FeatureEngineering
	if !strings.HasPrefix(fe.FeaturePlan, "Error generating plan:") {
		t.Errorf("unexpected plan fallback: %q", fe.FeaturePlan)
	}
	if fe.TrainingRecommendations != "Unable to generate recommendations" {
		t.Errorf("unexpected training fallback: %q", fe.TrainingRecommendations)
	}
	if fe.MLflowSetup != "Unable to generate MLflow recommendations" {
		t.Errorf("unexpected mlflow fallback: %q", fe.MLflowSetup)
	}
	if result.MLUseCase.DetectedUseCase != "Binary Classification" {
		t.Errorf("detector result lost: %+v", result.MLUseCase)
	}
}

func TestPlanningInstructionsByUseCase(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"Binary Classification", "Classification Focus"},
		{"Sales Regression", "Regression Focus"},
		{"Customer Clustering", "Clustering Focus"},
		{"Time Series Forecasting", "Time-Series Focus"},
		{"Anomaly Detection", ""},
	}
	for _, tc := range cases {
		got := planningInstructions(tc.label)
		if !strings.Contains(got, "## 1. Data Preparation") {
			t.Errorf("%s: base instructions missing", tc.label)
		}
		if tc.want == "" {
			if strings.Contains(got, "Focus:") {
				t.Errorf("%s: generic label should get base instructions only", tc.label)
			}
		} else if !strings.Contains(got, tc.want) {
			t.Errorf("%s: expected %q in instructions", tc.label, tc.want)
		}
	}
}

func TestDeploymentAgentSentinelOnFailure(t *testing.T) {
	agent := NewDeploymentAgent(&failingGenerator{err: errors.New("offline")})

	ml := &analysis.MLRecommendation{
		MLUseCase: analysis.MLUseCase{DetectedUseCase: "Churn", TargetVariable: "churned", SuitabilityScore: "80"},
	}
	result, degraded := agent.Analyze(context.Background(), &analysis.SchemaAnalysis{}, ml)
	if len(degraded) != 1 || !strings.HasPrefix(degraded[0], "deployment planning failed") {
		t.Fatalf("unexpected degraded notes: %v", degraded)
	}
	if result.PlatformSetup != "Error: offline" {
		t.Errorf("error should be carried in the first field, got %q", result.PlatformSetup)
	}
	if result.ServingStrategy != analysis.UnableToGenerate || result.FutureEnhancements != analysis.UnableToGenerate {
		t.Errorf("sentinels missing: %+v", result)
	}
}

func TestBusinessAgentDefaultsAndFailure(t *testing.T) {
	gen := newStubGenerator()
	agent := NewBusinessCommunicationAgent(gen)

	ml := &analysis.MLRecommendation{
		MLUseCase: analysis.MLUseCase{DetectedUseCase: "Churn", TargetVariable: "churned", SuitabilityScore: "80"},
	}
	// Empty risk and metrics fields fall back to fixed phrases in the prompt
	// inputs; the call itself succeeds.
	result, degraded := agent.Analyze(context.Background(), ml, &analysis.DeploymentStrategy{})
	if len(degraded) != 0 {
		t.Fatalf("unexpected degraded notes: %v", degraded)
	}
	if result.ExecutiveSummary != "stub executive_summary" {
		t.Errorf("output not merged: %+v", result)
	}

	failing := NewBusinessCommunicationAgent(&failingGenerator{err: errors.New("offline")})
	result, degraded = failing.Analyze(context.Background(), ml, &analysis.DeploymentStrategy{})
	if len(degraded) != 1 || !strings.HasPrefix(degraded[0], "business communication failed") {
		t.Fatalf("unexpected degraded notes: %v", degraded)
	}
	if result.ExecutiveSummary != "Error: offline" || result.RiskMatrix != analysis.UnableToGenerate {
		t.Errorf("sentinels missing: %+v", result)
	}
}

func TestPOAgentFailureDocument(t *testing.T) {
	agent := NewPOAgent(&failingGenerator{err: errors.New("offline")})

	prd := agent.GeneratePRD(context.Background(),
		&analysis.SchemaAnalysis{},
		&analysis.QualityAnalysis{},
		&analysis.MLRecommendation{},
		&analysis.DeploymentStrategy{},
		&analysis.BusinessCommunication{},
	)
	if prd.Status != "error" {
		t.Fatalf("expected error status, got %q", prd.Status)
	}
	if !strings.HasPrefix(prd.PRDDocument, "# PRD Generation Failed") {
		t.Errorf("unexpected failure document: %q", prd.PRDDocument)
	}
	if !strings.Contains(prd.PRDDocument, "offline") {
		t.Errorf("failure document should carry the error: %q", prd.PRDDocument)
	}
}

func TestTruncateAppendsEllipsis(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abcd..." {
		t.Errorf("truncate long = %q", got)
	}
	if got := truncate("ab", 4); got != "ab..." {
		t.Errorf("truncate short = %q", got)
	}
}

func TestDegradedNote(t *testing.T) {
	err := errors.New("boom")
	if got := degradedNote("insight generation", 2, 5, err); got != "insight generation failed for 2 of 5: boom" {
		t.Errorf("multi note = %q", got)
	}
	if got := degradedNote("deployment planning", 1, 1, err); got != "deployment planning failed: boom" {
		t.Errorf("single note = %q", got)
	}
}
