package analysis

import (
	"strings"

	"datascout/domain/core"
)

// Status is the lifecycle state of a pipeline run.
type Status string

const (
	StatusInProgress     Status = "in_progress"
	StatusCompleted      Status = "completed"
	StatusPartialFailure Status = "partial_failure"
)

// Severity classifies a quality issue. Thresholds are fixed in the
// quality checks; there is no runtime configuration for them.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarnings Severity = "warnings"
	SeverityInfo     Severity = "info"
)

// IssueType names the four quality checks.
type IssueType string

const (
	IssueMissingValues          IssueType = "missing_values"
	IssueDuplicates             IssueType = "duplicates"
	IssueOutliers               IssueType = "outliers"
	IssueInconsistentCategories IssueType = "inconsistent_categories"
)

// Stage names as they appear in PipelineResult.AgentsCompleted.
const (
	StageSchema     = "schema_agent"
	StageProfile    = "profile_agent"
	StageQuality    = "quality_agent"
	StageMLAdvisor  = "ml_advisor_agent"
	StageDeployment = "deployment_agent"
	StageBusiness   = "business_communication_agent"
)

// ColumnProfile combines deterministic column statistics with the
// generated business interpretation. The deterministic fields are fixed
// before the generation call; the last four are merged in afterwards.
type ColumnProfile struct {
	ColumnName     string  `json:"column_name"`
	DType          string  `json:"dtype"`
	NullCount      int     `json:"null_count"`
	NullPercentage float64 `json:"null_percentage"`
	UniqueCount    int     `json:"unique_count"`
	SampleValues   string  `json:"sample_values"`
	BusinessType   string  `json:"business_type"`
	Confidence     string  `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
	Recommendation string  `json:"recommendation"`
}

// SchemaSummary holds dataset-level shape numbers.
type SchemaSummary struct {
	TotalColumns  int     `json:"total_columns"`
	TotalRows     int     `json:"total_rows"`
	MemoryUsageMB float64 `json:"memory_usage_mb"`
}

// SchemaAnalysis is the Schema stage output.
type SchemaAnalysis struct {
	Columns []ColumnProfile `json:"columns"`
	Summary SchemaSummary   `json:"summary"`
}

// NumericColumnStats is the Profile stage output for one numeric column.
type NumericColumnStats struct {
	ColumnName           string  `json:"column_name"`
	Mean                 float64 `json:"mean"`
	Median               float64 `json:"median"`
	Std                  float64 `json:"std"`
	Min                  float64 `json:"min"`
	Max                  float64 `json:"max"`
	Q25                  float64 `json:"q25"`
	Q75                  float64 `json:"q75"`
	Skewness             float64 `json:"skewness"`
	IsNormal             bool    `json:"is_normal"`
	PatternDetected      string  `json:"pattern_detected"`
	Insight              string  `json:"insight"`
	ActionableSuggestion string  `json:"actionable_suggestion"`
}

// ValueCount is one (value, count) pair in a frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoricalColumnStats is the Profile stage output for one categorical column.
type CategoricalColumnStats struct {
	ColumnName           string       `json:"column_name"`
	Cardinality          int          `json:"cardinality"`
	TopValue             string       `json:"top_value"`
	TopFrequency         int          `json:"top_frequency"`
	Top5                 []ValueCount `json:"top_5"`
	PatternDetected      string       `json:"pattern_detected"`
	Insight              string       `json:"insight"`
	ActionableSuggestion string       `json:"actionable_suggestion"`
}

// ProfileAnalysis is the Profile stage output.
type ProfileAnalysis struct {
	NumericAnalysis     []NumericColumnStats     `json:"numeric_analysis"`
	CategoricalAnalysis []CategoricalColumnStats `json:"categorical_analysis"`
}

// QualityIssue is one detected data-quality problem with its generated fix.
type QualityIssue struct {
	Type              IssueType `json:"type"`
	Column            string    `json:"column"`
	Severity          Severity  `json:"severity"`
	Description       string    `json:"description"`
	Count             int       `json:"count"`
	Percentage        float64   `json:"percentage,omitempty"`
	Bounds            []float64 `json:"bounds,omitempty"`
	RecommendedAction string    `json:"recommended_action"`
	CodeSnippet       string    `json:"code_snippet"`
	Impact            string    `json:"impact"`
}

// QualitySummary aggregates issue counts per severity.
type QualitySummary struct {
	TotalIssues int `json:"total_issues"`
	Critical    int `json:"critical"`
	Warnings    int `json:"warnings"`
	Info        int `json:"info"`
}

// QualityAnalysis is the Quality stage output.
type QualityAnalysis struct {
	IssuesFound []QualityIssue `json:"issues_found"`
	Summary     QualitySummary `json:"summary"`
}

// SummarizeIssues folds a set of issues into per-severity counts.
// The counts always sum to TotalIssues.
func SummarizeIssues(issues []QualityIssue) QualitySummary {
	s := QualitySummary{}
	for _, issue := range issues {
		s.TotalIssues++
		switch issue.Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityWarnings:
			s.Warnings++
		default:
			s.Info++
		}
	}
	return s
}

// MLUseCase is the detected machine-learning framing of the dataset.
// SuitabilityScore stays string-encoded because it passes through the
// generation collaborator unparsed.
type MLUseCase struct {
	DetectedUseCase    string `json:"detected_use_case"`
	TargetVariable     string `json:"target_variable"`
	TargetReasoning    string `json:"target_reasoning"`
	SuitabilityScore   string `json:"suitability_score"`
	AlternativeUseCase string `json:"alternative_use_case"`
}

// FeatureEngineering is the generated modelling roadmap.
type FeatureEngineering struct {
	FeaturePlan             string `json:"feature_plan"`
	TrainingRecommendations string `json:"training_recommendations"`
	MLflowSetup             string `json:"mlflow_setup"`
}

// MLRecommendation is the MLAdvisor stage output.
type MLRecommendation struct {
	MLUseCase          MLUseCase          `json:"ml_use_case"`
	FeatureEngineering FeatureEngineering `json:"feature_engineering"`
}

// DeploymentStrategy holds fifteen generated markdown sections. On
// generation failure every field is replaced by a fixed sentinel, with the
// captured error carried in PlatformSetup.
type DeploymentStrategy struct {
	PlatformSetup         string `json:"databricks_setup"`
	ServingStrategy       string `json:"serving_strategy"`
	MonitoringPlan        string `json:"monitoring_plan"`
	DataStrategy          string `json:"data_strategy"`
	TeamRequirements      string `json:"team_requirements"`
	ImplementationRoadmap string `json:"implementation_roadmap"`
	RiskMitigation        string `json:"risk_mitigation"`
	CostEstimation        string `json:"cost_estimation"`
	GovernanceFramework   string `json:"governance_framework"`
	SuccessMetrics        string `json:"success_metrics"`
	BusinessImpact        string `json:"business_impact"`
	TestingFramework      string `json:"testing_framework"`
	OperationalPlaybook   string `json:"operational_playbook"`
	EnablementPlan        string `json:"enablement_plan"`
	FutureEnhancements    string `json:"future_enhancements"`
}

// UnableToGenerate is the sentinel used for generated fields that could
// not be produced.
const UnableToGenerate = "Unable to generate"

// FailedDeploymentStrategy returns the all-sentinel strategy carrying the
// error text in the first field.
func FailedDeploymentStrategy(errText string) *DeploymentStrategy {
	return &DeploymentStrategy{
		PlatformSetup:         "Error: " + errText,
		ServingStrategy:       UnableToGenerate,
		MonitoringPlan:        UnableToGenerate,
		DataStrategy:          UnableToGenerate,
		TeamRequirements:      UnableToGenerate,
		ImplementationRoadmap: UnableToGenerate,
		RiskMitigation:        UnableToGenerate,
		CostEstimation:        UnableToGenerate,
		GovernanceFramework:   UnableToGenerate,
		SuccessMetrics:        UnableToGenerate,
		BusinessImpact:        UnableToGenerate,
		TestingFramework:      UnableToGenerate,
		OperationalPlaybook:   UnableToGenerate,
		EnablementPlan:        UnableToGenerate,
		FutureEnhancements:    UnableToGenerate,
	}
}

// BusinessCommunication holds five generated stakeholder-facing sections.
type BusinessCommunication struct {
	ExecutiveSummary         string `json:"executive_summary"`
	RiskMatrix               string `json:"risk_matrix"`
	TimelineVisual           string `json:"timeline_visual"`
	BudgetJustification      string `json:"budget_justification"`
	StakeholderTalkingPoints string `json:"stakeholder_talking_points"`
}

// FailedBusinessCommunication returns the all-sentinel record carrying the
// error text in the first field.
func FailedBusinessCommunication(errText string) *BusinessCommunication {
	return &BusinessCommunication{
		ExecutiveSummary:         "Error: " + errText,
		RiskMatrix:               UnableToGenerate,
		TimelineVisual:           UnableToGenerate,
		BudgetJustification:      UnableToGenerate,
		StakeholderTalkingPoints: UnableToGenerate,
	}
}

// PRDResult is the product-requirements-document artifact.
type PRDResult struct {
	PRDDocument string `json:"prd_document"`
	Status      string `json:"status"` // "success" or "error"
}

// PipelineResult aggregates the whole run. Each stage result is absent
// until its stage runs and produces a record; Errors accumulates per-stage
// failure strings without ever aborting the run.
type PipelineResult struct {
	ID                    core.RunID             `json:"id"`
	DatasetName           string                 `json:"dataset_name"`
	Status                Status                 `json:"status"`
	AgentsCompleted       []string               `json:"agents_completed"`
	SchemaAnalysis        *SchemaAnalysis        `json:"schema_analysis,omitempty"`
	ProfileAnalysis       *ProfileAnalysis       `json:"profile_analysis,omitempty"`
	QualityAnalysis       *QualityAnalysis       `json:"quality_analysis,omitempty"`
	MLRecommendations     *MLRecommendation      `json:"ml_recommendations,omitempty"`
	DeploymentStrategy    *DeploymentStrategy    `json:"deployment_strategy,omitempty"`
	BusinessCommunication *BusinessCommunication `json:"business_communication,omitempty"`
	Errors                []string               `json:"errors"`
	PRD                   *PRDResult             `json:"prd,omitempty"`
	CreatedAt             core.Timestamp         `json:"created_at"`
}

// ReadyForPRD reports whether all five inputs of PRD generation are cached.
func (r *PipelineResult) ReadyForPRD() bool {
	return r.SchemaAnalysis != nil &&
		r.QualityAnalysis != nil &&
		r.MLRecommendations != nil &&
		r.DeploymentStrategy != nil &&
		r.BusinessCommunication != nil
}

// UseCaseKind is the enumerated ML use-case family used to select
// planning instructions.
type UseCaseKind string

const (
	UseCaseClassification UseCaseKind = "classification"
	UseCaseRegression     UseCaseKind = "regression"
	UseCaseClustering     UseCaseKind = "clustering"
	UseCaseTimeSeries     UseCaseKind = "time-series"
	UseCaseGeneric        UseCaseKind = "generic"
)

// ParseUseCaseKind maps the collaborator's free-text use-case label onto
// the enumerated kind by case-insensitive substring containment. Compound
// labels match their first hit in the order below; unknown labels fall
// through to the generic arm.
func ParseUseCaseKind(label string) UseCaseKind {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "classification"):
		return UseCaseClassification
	case strings.Contains(lower, "regression"):
		return UseCaseRegression
	case strings.Contains(lower, "clustering"):
		return UseCaseClustering
	case strings.Contains(lower, "time-series"), strings.Contains(lower, "time series"):
		return UseCaseTimeSeries
	default:
		return UseCaseGeneric
	}
}
