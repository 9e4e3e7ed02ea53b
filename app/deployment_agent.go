package app

import (
	"context"
	"fmt"

	"datascout/ai"
	"datascout/domain/analysis"
	"datascout/ports"
)

// DeploymentAgent turns the ML framing into the fifteen-section rollout
// strategy in a single generation call.
type DeploymentAgent struct {
	gen ports.GeneratorPort
}

// NewDeploymentAgent creates the agent.
func NewDeploymentAgent(gen ports.GeneratorPort) *DeploymentAgent {
	return &DeploymentAgent{gen: gen}
}

// Analyze always returns a structurally complete strategy; on failure every
// section carries a sentinel and one note lands in the degraded slice.
func (a *DeploymentAgent) Analyze(
	ctx context.Context,
	schema *analysis.SchemaAnalysis,
	ml *analysis.MLRecommendation,
) (*analysis.DeploymentStrategy, []string) {
	out, err := a.gen.Generate(ctx, ai.DeploymentPlanner, map[string]string{
		"ml_use_case":   deploymentUseCase(ml),
		"feature_plan":  ml.FeatureEngineering.FeaturePlan,
		"training_plan": ml.FeatureEngineering.TrainingRecommendations,
		"data_summary":  datasetOverview(schema),
	})
	if err != nil {
		return analysis.FailedDeploymentStrategy(err.Error()),
			[]string{degradedNote("deployment planning", 1, 1, err)}
	}

	return &analysis.DeploymentStrategy{
		PlatformSetup:         out["databricks_setup"],
		ServingStrategy:       out["serving_strategy"],
		MonitoringPlan:        out["monitoring_plan"],
		DataStrategy:          out["data_strategy"],
		TeamRequirements:      out["team_requirements"],
		ImplementationRoadmap: out["implementation_roadmap"],
		RiskMitigation:        out["risk_mitigation"],
		CostEstimation:        out["cost_estimation"],
		GovernanceFramework:   out["governance_framework"],
		SuccessMetrics:        out["success_metrics"],
		BusinessImpact:        out["business_impact"],
		TestingFramework:      out["testing_framework"],
		OperationalPlaybook:   out["operational_playbook"],
		EnablementPlan:        out["enablement_plan"],
		FutureEnhancements:    out["future_enhancements"],
	}, nil
}

func deploymentUseCase(ml *analysis.MLRecommendation) string {
	uc := ml.MLUseCase
	return fmt.Sprintf("%s | Target: %s | Score: %s/100", uc.DetectedUseCase, uc.TargetVariable, uc.SuitabilityScore)
}
