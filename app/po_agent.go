package app

import (
	"context"
	"fmt"

	"datascout/ai"
	"datascout/domain/analysis"
	"datascout/ports"
)

// Digest caps for the PRD prompt, per source section.
const (
	prdFeaturePlanLen   = 500
	prdDeploySectionLen = 300
	prdExecSummaryLen   = 400
	prdMonitoringLen    = 200
	prdTalkingPointsLen = 200
)

// POAgent assembles the product requirements document from every cached
// analysis result.
type POAgent struct {
	gen ports.GeneratorPort
}

// NewPOAgent creates the agent.
func NewPOAgent(gen ports.GeneratorPort) *POAgent {
	return &POAgent{gen: gen}
}

// GeneratePRD produces the document. Unlike the analysis stages, a failure
// here is reported in the result's status rather than a degraded note.
func (a *POAgent) GeneratePRD(
	ctx context.Context,
	schema *analysis.SchemaAnalysis,
	quality *analysis.QualityAnalysis,
	ml *analysis.MLRecommendation,
	deployment *analysis.DeploymentStrategy,
	business *analysis.BusinessCommunication,
) *analysis.PRDResult {
	out, err := a.gen.Generate(ctx, ai.PRDGenerator, map[string]string{
		"ml_use_case":         prdUseCase(ml),
		"feature_engineering": prdFeatureEngineering(ml),
		"deployment_strategy": prdDeploymentSummary(deployment),
		"business_summary":    prdBusinessSummary(business),
		"quality_issues":      prdQualitySummary(quality),
	})
	if err != nil {
		return &analysis.PRDResult{
			PRDDocument: fmt.Sprintf("# PRD Generation Failed\n\nError: %v", err),
			Status:      "error",
		}
	}
	return &analysis.PRDResult{PRDDocument: out["prd_document"], Status: "success"}
}

func prdUseCase(ml *analysis.MLRecommendation) string {
	uc := ml.MLUseCase
	return fmt.Sprintf(`
**Use Case**: %s
**Target Variable**: %s
**ML Readiness**: %s/100
**Reasoning**: %s
**Alternative**: %s
`, uc.DetectedUseCase, uc.TargetVariable, uc.SuitabilityScore, uc.TargetReasoning, orDefault(uc.AlternativeUseCase, "N/A"))
}

func prdFeatureEngineering(ml *analysis.MLRecommendation) string {
	fe := ml.FeatureEngineering
	return fmt.Sprintf(`
**Feature Plan**:
%s

**Training Strategy**:
%s

**MLflow Setup**:
%s
`, truncate(orDefault(fe.FeaturePlan, "N/A"), prdFeaturePlanLen), orDefault(fe.TrainingRecommendations, "N/A"), orDefault(fe.MLflowSetup, "N/A"))
}

func prdDeploymentSummary(deployment *analysis.DeploymentStrategy) string {
	return fmt.Sprintf(`
**Team Requirements**: %s
**Timeline**: %s
**Costs**: %s
**Infrastructure**: %s
**Monitoring**: %s
`,
		truncate(orDefault(deployment.TeamRequirements, "N/A"), prdDeploySectionLen),
		truncate(orDefault(deployment.ImplementationRoadmap, "N/A"), prdDeploySectionLen),
		truncate(orDefault(deployment.CostEstimation, "N/A"), prdDeploySectionLen),
		truncate(orDefault(deployment.PlatformSetup, "N/A"), prdDeploySectionLen),
		truncate(orDefault(deployment.MonitoringPlan, "N/A"), prdMonitoringLen))
}

func prdBusinessSummary(business *analysis.BusinessCommunication) string {
	return fmt.Sprintf(`
**Executive Summary**: %s
**ROI Justification**: %s
**Success Metrics**: %s
`,
		truncate(orDefault(business.ExecutiveSummary, "N/A"), prdExecSummaryLen),
		truncate(orDefault(business.BudgetJustification, "N/A"), prdDeploySectionLen),
		truncate(orDefault(business.StakeholderTalkingPoints, "N/A"), prdTalkingPointsLen))
}

func prdQualitySummary(quality *analysis.QualityAnalysis) string {
	s := quality.Summary
	return fmt.Sprintf(`
**Total Issues**: %d
**Critical**: %d
**Warnings**: %d
**Info**: %d
`, s.TotalIssues, s.Critical, s.Warnings, s.Info)
}
