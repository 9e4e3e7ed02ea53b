package app

import (
	"context"
	"fmt"

	"datascout/ai"
	"datascout/domain/analysis"
	"datascout/ports"
)

// highlightLen caps each deployment highlight embedded in the business
// communication prompt.
const highlightLen = 100

// BusinessCommunicationAgent turns the technical strategy into
// stakeholder material in a single generation call.
type BusinessCommunicationAgent struct {
	gen ports.GeneratorPort
}

// NewBusinessCommunicationAgent creates the agent.
func NewBusinessCommunicationAgent(gen ports.GeneratorPort) *BusinessCommunicationAgent {
	return &BusinessCommunicationAgent{gen: gen}
}

// Analyze always returns a structurally complete record; on failure every
// section carries a sentinel and one note lands in the degraded slice.
func (a *BusinessCommunicationAgent) Analyze(
	ctx context.Context,
	ml *analysis.MLRecommendation,
	deployment *analysis.DeploymentStrategy,
) (*analysis.BusinessCommunication, []string) {
	out, err := a.gen.Generate(ctx, ai.BusinessCommunicationGenerator, map[string]string{
		"ml_use_case":        businessUseCase(ml),
		"deployment_summary": deploymentHighlights(deployment),
		"technical_risks":    orDefault(deployment.RiskMitigation, "No risks identified"),
		"success_metrics":    orDefault(deployment.SuccessMetrics, "No metrics defined"),
	})
	if err != nil {
		return analysis.FailedBusinessCommunication(err.Error()),
			[]string{degradedNote("business communication", 1, 1, err)}
	}

	return &analysis.BusinessCommunication{
		ExecutiveSummary:         out["executive_summary"],
		RiskMatrix:               out["risk_matrix"],
		TimelineVisual:           out["timeline_visual"],
		BudgetJustification:      out["budget_justification"],
		StakeholderTalkingPoints: out["stakeholder_talking_points"],
	}, nil
}

func businessUseCase(ml *analysis.MLRecommendation) string {
	uc := ml.MLUseCase
	return fmt.Sprintf("%s targeting %s (Readiness: %s/100)", uc.DetectedUseCase, uc.TargetVariable, uc.SuitabilityScore)
}

func deploymentHighlights(deployment *analysis.DeploymentStrategy) string {
	team := orDefault(deployment.TeamRequirements, "Team size not estimated")
	timeline := orDefault(deployment.ImplementationRoadmap, "Timeline not defined")
	costs := orDefault(deployment.CostEstimation, "Costs not estimated")
	return fmt.Sprintf("Team: %s | Timeline: %s | Costs: %s",
		truncate(team, highlightLen), truncate(timeline, highlightLen), truncate(costs, highlightLen))
}
