package analysis

import (
	"testing"
)

func TestParseUseCaseKind(t *testing.T) {
	cases := []struct {
		label string
		want  UseCaseKind
	}{
		{"Binary Classification", UseCaseClassification},
		{"classification", UseCaseClassification},
		{"Multi-class CLASSIFICATION problem", UseCaseClassification},
		{"Regression", UseCaseRegression},
		{"Linear regression forecasting", UseCaseRegression},
		{"Customer clustering / segmentation", UseCaseClustering},
		{"Time-Series Forecasting", UseCaseTimeSeries},
		{"time series analysis", UseCaseTimeSeries},
		{"Anomaly Detection", UseCaseGeneric},
		{"", UseCaseGeneric},
		{"Unable to detect", UseCaseGeneric},
	}
	for _, tc := range cases {
		if got := ParseUseCaseKind(tc.label); got != tc.want {
			t.Errorf("ParseUseCaseKind(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestSummarizeIssues(t *testing.T) {
	issues := []QualityIssue{
		{Type: IssueMissingValues, Severity: SeverityCritical},
		{Type: IssueMissingValues, Severity: SeverityInfo},
		{Type: IssueDuplicates, Severity: SeverityWarnings},
		{Type: IssueOutliers, Severity: SeverityWarnings},
		{Type: IssueInconsistentCategories, Severity: SeverityInfo},
	}
	s := SummarizeIssues(issues)
	if s.TotalIssues != 5 {
		t.Errorf("TotalIssues = %d, want 5", s.TotalIssues)
	}
	if s.Critical != 1 || s.Warnings != 2 || s.Info != 2 {
		t.Errorf("severity counts = %d/%d/%d, want 1/2/2", s.Critical, s.Warnings, s.Info)
	}
	if s.Critical+s.Warnings+s.Info != s.TotalIssues {
		t.Errorf("severity counts do not sum to total")
	}
}

func TestSummarizeIssuesEmpty(t *testing.T) {
	s := SummarizeIssues(nil)
	if s.TotalIssues != 0 || s.Critical != 0 || s.Warnings != 0 || s.Info != 0 {
		t.Errorf("empty summary = %+v, want all zeros", s)
	}
}

func TestFailedDeploymentStrategy(t *testing.T) {
	ds := FailedDeploymentStrategy("generation timed out")
	if ds.PlatformSetup != "Error: generation timed out" {
		t.Errorf("PlatformSetup = %q", ds.PlatformSetup)
	}
	for name, v := range map[string]string{
		"ServingStrategy":    ds.ServingStrategy,
		"MonitoringPlan":     ds.MonitoringPlan,
		"FutureEnhancements": ds.FutureEnhancements,
	} {
		if v != UnableToGenerate {
			t.Errorf("%s = %q, want sentinel", name, v)
		}
	}
}

func TestReadyForPRD(t *testing.T) {
	r := &PipelineResult{}
	if r.ReadyForPRD() {
		t.Fatal("empty result should not be ready for PRD")
	}
	r.SchemaAnalysis = &SchemaAnalysis{}
	r.QualityAnalysis = &QualityAnalysis{}
	r.MLRecommendations = &MLRecommendation{}
	r.DeploymentStrategy = &DeploymentStrategy{}
	if r.ReadyForPRD() {
		t.Fatal("missing business communication should block PRD")
	}
	r.BusinessCommunication = &BusinessCommunication{}
	if !r.ReadyForPRD() {
		t.Fatal("all five cached results should enable PRD")
	}
	// ProfileAnalysis is intentionally not part of the PRD gate.
	if r.ProfileAnalysis != nil {
		t.Fatal("test setup should not populate profile analysis")
	}
}
