package app

import (
	"context"
	"fmt"
	"strings"

	"datascout/ai"
	"datascout/domain/analysis"
	"datascout/ports"
)

// Key column and column summary caps keep the detection prompts small.
const (
	maxKeyColumns       = 10
	maxSummaryColumns   = 15
	lowCardinalityLimit = 20
)

// MLAdvisorAgent synthesizes the earlier analyses into an ML framing:
// first the use case detection call, then the feature planning call. The
// second call runs even when the first degrades, using its sentinels.
type MLAdvisorAgent struct {
	gen ports.GeneratorPort
}

// NewMLAdvisorAgent creates the agent.
func NewMLAdvisorAgent(gen ports.GeneratorPort) *MLAdvisorAgent {
	return &MLAdvisorAgent{gen: gen}
}

// Analyze produces the ML recommendation. Each of the two calls that fails
// contributes one note to the degraded slice.
func (a *MLAdvisorAgent) Analyze(
	ctx context.Context,
	schema *analysis.SchemaAnalysis,
	profile *analysis.ProfileAnalysis,
	quality *analysis.QualityAnalysis,
) (*analysis.MLRecommendation, []string) {
	var degraded []string

	useCase := analysis.MLUseCase{}
	out, err := a.gen.Generate(ctx, ai.MLUseCaseDetector, map[string]string{
		"dataset_overview": datasetOverview(schema),
		"key_columns":      keyColumns(schema),
		"quality_issues":   qualityDigest(quality),
	})
	if err != nil {
		degraded = append(degraded, degradedNote("use case detection", 1, 1, err))
		useCase = analysis.MLUseCase{
			DetectedUseCase:    "Unable to detect",
			TargetVariable:     "Unknown",
			TargetReasoning:    fmt.Sprintf("Error: %v", err),
			SuitabilityScore:   "0",
			AlternativeUseCase: "N/A",
		}
	} else {
		useCase = analysis.MLUseCase{
			DetectedUseCase:    out["detected_use_case"],
			TargetVariable:     out["target_variable"],
			TargetReasoning:    out["target_reasoning"],
			SuitabilityScore:   out["suitability_score"],
			AlternativeUseCase: out["alternative_use_case"],
		}
	}

	fe := analysis.FeatureEngineering{}
	planOut, err := a.gen.Generate(ctx, ai.FeatureEngineeringPlanner, map[string]string{
		"column_summary":        columnSummary(schema),
		"target_variable":       useCase.TargetVariable,
		"ml_use_case":           useCase.DetectedUseCase,
		"planning_instructions": planningInstructions(useCase.DetectedUseCase),
	})
	if err != nil {
		degraded = append(degraded, degradedNote("feature planning", 1, 1, err))
		fe = analysis.FeatureEngineering{
			FeaturePlan:             fmt.Sprintf("Error generating plan: %v", err),
			TrainingRecommendations: "Unable to generate recommendations",
			MLflowSetup:             "Unable to generate MLflow recommendations",
		}
	} else {
		fe = analysis.FeatureEngineering{
			FeaturePlan:             planOut["feature_plan"],
			TrainingRecommendations: planOut["training_recommendations"],
			MLflowSetup:             planOut["mlflow_setup"],
		}
	}

	return &analysis.MLRecommendation{MLUseCase: useCase, FeatureEngineering: fe}, degraded
}

func datasetOverview(schema *analysis.SchemaAnalysis) string {
	s := schema.Summary
	return fmt.Sprintf("Dataset: %d rows, %d columns, %.1fMB", s.TotalRows, s.TotalColumns, s.MemoryUsageMB)
}

func keyColumns(schema *analysis.SchemaAnalysis) string {
	cols := schema.Columns
	if len(cols) > maxKeyColumns {
		cols = cols[:maxKeyColumns]
	}
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = fmt.Sprintf("%s (%s, %g%% nulls, %d unique)",
			col.ColumnName, col.BusinessType, col.NullPercentage, col.UniqueCount)
	}
	return strings.Join(parts, "; ")
}

func qualityDigest(quality *analysis.QualityAnalysis) string {
	s := quality.Summary
	if s.TotalIssues == 0 {
		return "No quality issues detected"
	}
	return fmt.Sprintf("%d issues found: %d critical, %d warnings", s.TotalIssues, s.Critical, s.Warnings)
}

func columnSummary(schema *analysis.SchemaAnalysis) string {
	cols := schema.Columns
	if len(cols) > maxSummaryColumns {
		cols = cols[:maxSummaryColumns]
	}
	totalRows := schema.Summary.TotalRows
	lines := make([]string, len(cols))
	for i, col := range cols {
		line := fmt.Sprintf("- %s: %s, %s", col.ColumnName, col.BusinessType, col.DType)
		if col.UniqueCount < lowCardinalityLimit {
			line += fmt.Sprintf(", %d categories", col.UniqueCount)
		} else if col.UniqueCount == totalRows {
			line += ", unique identifier"
		}
		if col.NullPercentage > 5 {
			line += fmt.Sprintf(", %g%% nulls", col.NullPercentage)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// planningInstructions selects the planning depth and focus areas by use
// case family; unknown labels get the base instructions.
func planningInstructions(useCase string) string {
	base := `You are an expert data scientist. Generate a clear, step-by-step ML plan in MARKDOWN FORMAT:

## 1. Data Preparation
- Train/validation/test splits (ratios)
- Preprocessing steps
- Feature transformations

## 2. Model Training
- Baseline model (specify)
- Advanced models (specify algorithms)
- Training sequence

## 3. Evaluation & Validation
- Primary metrics (specify)
- Cross-validation strategy
- Holdout evaluation approach

## 4. Hyperparameter Tuning
- Key parameters to tune
- Search strategy (grid/random/bayesian)

## 5. MLflow Tracking
- Experiment setup code
- Parameters and metrics to log
- Artifact storage plan

## 6. Deployment & Monitoring
- Model serialization format
- Monitoring metrics
- Retraining triggers

Use markdown headers (##), bullet points (-), keep responses concise and actionable.`

	switch analysis.ParseUseCaseKind(useCase) {
	case analysis.UseCaseClassification:
		return base + "\n\n**Classification Focus:** Include class imbalance handling, precision/recall tradeoffs, ROC-AUC, confusion matrix analysis."
	case analysis.UseCaseRegression:
		return base + "\n\n**Regression Focus:** Emphasize RMSE, MAE, R2, residual analysis, outlier detection and handling."
	case analysis.UseCaseClustering:
		return base + "\n\n**Clustering Focus:** Include silhouette score, elbow method, feature scaling requirements, cluster interpretation."
	case analysis.UseCaseTimeSeries:
		return base + "\n\n**Time-Series Focus:** Include temporal splits, stationarity checks, lag features, forecast horizon selection."
	default:
		return base
	}
}
