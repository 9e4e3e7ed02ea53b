package app

import (
	"context"

	"datascout/domain/analysis"
	"datascout/domain/core"
	"datascout/domain/dataset"
	"datascout/internal"
	"datascout/ports"

	"fmt"
)

// Supervisor orchestrates the analysis pipeline over one uploaded dataset.
// Stages run in a fixed order; later stages are gated on the presence of
// the results they consume. A stage that degrades still completes, with
// its failure notes accumulated on the run.
type Supervisor struct {
	schema     *SchemaAgent
	profile    *ProfileAgent
	quality    *QualityAgent
	mlAdvisor  *MLAdvisorAgent
	deployment *DeploymentAgent
	business   *BusinessCommunicationAgent
	po         *POAgent

	repo ports.RunRepository // optional checkpoint store
	log  *internal.Logger
}

// NewSupervisor wires all agents onto one generator.
func NewSupervisor(gen ports.GeneratorPort, repo ports.RunRepository, maxSampleValues int) *Supervisor {
	return &Supervisor{
		schema:     NewSchemaAgent(gen, maxSampleValues),
		profile:    NewProfileAgent(gen),
		quality:    NewQualityAgent(gen),
		mlAdvisor:  NewMLAdvisorAgent(gen),
		deployment: NewDeploymentAgent(gen),
		business:   NewBusinessCommunicationAgent(gen),
		po:         NewPOAgent(gen),
		repo:       repo,
		log:        internal.DefaultLogger,
	}
}

// AnalyzeDataset runs the six analysis stages. It never returns an error:
// every failure mode ends up in the result's Errors with the run state
// still well formed.
func (s *Supervisor) AnalyzeDataset(ctx context.Context, ds *dataset.Dataset) *analysis.PipelineResult {
	result := &analysis.PipelineResult{
		ID:              core.NewRunID(),
		DatasetName:     ds.Name,
		Status:          analysis.StatusInProgress,
		AgentsCompleted: []string{},
		Errors:          []string{},
		CreatedAt:       core.Now(),
	}
	s.checkpoint(ctx, result)

	// Step 1: schema interpretation.
	s.runStage(result, analysis.StageSchema, "Schema Agent", func() []string {
		s.log.Info("Running schema agent for %s", ds.Name)
		schemaRes, degraded := s.schema.Analyze(ctx, ds)
		result.SchemaAnalysis = schemaRes
		return degraded
	})
	s.checkpoint(ctx, result)

	// Step 2: statistical profiling.
	s.runStage(result, analysis.StageProfile, "Profile Agent", func() []string {
		s.log.Info("Running profile agent for %s", ds.Name)
		profileRes, degraded := s.profile.Analyze(ctx, ds)
		result.ProfileAnalysis = profileRes
		return degraded
	})
	s.checkpoint(ctx, result)

	// Step 3: quality checks.
	s.runStage(result, analysis.StageQuality, "Quality Agent", func() []string {
		s.log.Info("Running quality agent for %s", ds.Name)
		qualityRes, degraded := s.quality.Analyze(ctx, ds)
		result.QualityAnalysis = qualityRes
		return degraded
	})
	s.checkpoint(ctx, result)

	// Step 4: ML advisor synthesizes the three analyses.
	if result.SchemaAnalysis != nil && result.ProfileAnalysis != nil && result.QualityAnalysis != nil {
		s.runStage(result, analysis.StageMLAdvisor, "ML Advisor Agent", func() []string {
			s.log.Info("Running ML advisor agent for %s", ds.Name)
			mlRes, degraded := s.mlAdvisor.Analyze(ctx, result.SchemaAnalysis, result.ProfileAnalysis, result.QualityAnalysis)
			result.MLRecommendations = mlRes
			return degraded
		})
		s.checkpoint(ctx, result)
	}

	// Step 5: deployment strategy.
	if result.MLRecommendations != nil {
		s.runStage(result, analysis.StageDeployment, "Deployment Agent", func() []string {
			s.log.Info("Running deployment agent for %s", ds.Name)
			deployRes, degraded := s.deployment.Analyze(ctx, result.SchemaAnalysis, result.MLRecommendations)
			result.DeploymentStrategy = deployRes
			return degraded
		})
		s.checkpoint(ctx, result)
	}

	// Step 6: business communication.
	if result.MLRecommendations != nil && result.DeploymentStrategy != nil {
		s.runStage(result, analysis.StageBusiness, "Business Communication Agent", func() []string {
			s.log.Info("Running business communication agent for %s", ds.Name)
			bizRes, degraded := s.business.Analyze(ctx, result.MLRecommendations, result.DeploymentStrategy)
			result.BusinessCommunication = bizRes
			return degraded
		})
	}

	if len(result.Errors) == 0 {
		result.Status = analysis.StatusCompleted
	} else {
		result.Status = analysis.StatusPartialFailure
	}
	s.checkpoint(ctx, result)
	return result
}

// runStage executes one agent call, marking the stage complete on return.
// A panic inside the agent is the stage-level failure path: the stage's
// result field stays nil, the stage is not added to AgentsCompleted, and
// one error records the failure. Later stages gate on the nil result.
// Panics raised inside the agents' errgroup fan-outs resurface from Wait
// on the calling goroutine, so they land here too.
func (s *Supervisor) runStage(result *analysis.PipelineResult, stage, displayName string, fn func() []string) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("%s failed: %v", displayName, r)
			result.Errors = append(result.Errors, msg)
			s.log.Error("%s", msg)
		}
	}()
	degraded := fn()
	s.completeStage(result, stage, displayName, degraded)
}

// completeStage marks the stage done and records one error per failing
// call site within it.
func (s *Supervisor) completeStage(result *analysis.PipelineResult, stage, displayName string, degraded []string) {
	result.AgentsCompleted = append(result.AgentsCompleted, stage)
	for _, note := range degraded {
		msg := fmt.Sprintf("%s failed: %s", displayName, note)
		result.Errors = append(result.Errors, msg)
		s.log.Warn("%s", msg)
	}
}

func (s *Supervisor) checkpoint(ctx context.Context, result *analysis.PipelineResult) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, result); err != nil {
		s.log.Error("failed to checkpoint run %s: %v", result.ID, err)
	}
}

// insufficientPRDData is returned when PRD generation is requested before
// all five source analyses exist.
const insufficientPRDData = "# Error\n\nInsufficient data to generate PRD. Please complete all analysis steps first."

// GeneratePRD builds the PRD from cached results without re-running any
// analysis stage, then attaches it to the run.
func (s *Supervisor) GeneratePRD(ctx context.Context, result *analysis.PipelineResult) *analysis.PRDResult {
	if !result.ReadyForPRD() {
		prd := &analysis.PRDResult{PRDDocument: insufficientPRDData, Status: "error"}
		result.PRD = prd
		return prd
	}

	s.log.Info("Generating PRD for %s", result.DatasetName)
	prd := s.po.GeneratePRD(ctx,
		result.SchemaAnalysis,
		result.QualityAnalysis,
		result.MLRecommendations,
		result.DeploymentStrategy,
		result.BusinessCommunication,
	)
	result.PRD = prd
	s.checkpoint(ctx, result)
	return prd
}

// Summary renders a human-readable digest of a finished run.
func (s *Supervisor) Summary(result *analysis.PipelineResult) string {
	if result.Status != analysis.StatusCompleted {
		return fmt.Sprintf("Analysis completed with errors: %s", joinStrings(result.Errors))
	}
	schema := result.SchemaAnalysis.Summary
	quality := analysis.QualitySummary{}
	if result.QualityAnalysis != nil {
		quality = result.QualityAnalysis.Summary
	}
	return fmt.Sprintf(`Analysis Complete!

Dataset Overview:
- Total Rows: %d
- Total Columns: %d
- Memory Usage: %.2f MB

Quality Summary:
- Issues Found: %d
- Critical: %d
- Warnings: %d

Agents Completed: %s`,
		schema.TotalRows, schema.TotalColumns, schema.MemoryUsageMB,
		quality.TotalIssues, quality.Critical, quality.Warnings,
		joinStrings(result.AgentsCompleted))
}

func joinStrings(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
