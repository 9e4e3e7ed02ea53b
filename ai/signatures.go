// Package ai holds the generation signatures and prompt assembly shared by
// the analysis agents.
package ai

import (
	"datascout/ports"
)

// SchemaInterpreter infers the business meaning of one column from its
// computed statistics and sample values.
var SchemaInterpreter = ports.Signature{
	Name:        "SchemaInterpreter",
	Description: "Interprets a column's storage type and infers its business meaning from sample values and statistics.",
	Inputs: []ports.Field{
		{Name: "column_name", Description: "Name of the column"},
		{Name: "dtype", Description: "Storage data type (e.g., int64, object, float64)"},
		{Name: "null_count", Description: "Number of null values"},
		{Name: "unique_count", Description: "Number of unique values"},
		{Name: "total_count", Description: "Total number of rows"},
		{Name: "sample_values", Description: "List of sample non-null values as string"},
	},
	Outputs: []ports.Field{
		{Name: "business_type", Description: "Business type: 'Identifier', 'Categorical', 'Numeric Metric', 'Date/Time', 'Text', or 'Boolean'"},
		{Name: "confidence", Description: "Confidence level: 'high', 'medium', or 'low'"},
		{Name: "reasoning", Description: "One sentence explanation for the classification"},
		{Name: "recommendation", Description: "Brief recommendation: 'Keep', 'Review', or 'Consider dropping' with reason"},
	},
}

// StatisticalInsightGenerator turns a column's statistical summary into a
// business insight and a suggested action.
var StatisticalInsightGenerator = ports.Signature{
	Name:        "StatisticalInsightGenerator",
	Description: "Generates business insights from the statistical summary of a column.",
	Inputs: []ports.Field{
		{Name: "column_name", Description: "Name of the column"},
		{Name: "column_type", Description: "Type: 'numeric' or 'categorical'"},
		{Name: "stats_dict", Description: "Statistics (mean/median/std for numeric, cardinality/top_values for categorical)"},
	},
	Outputs: []ports.Field{
		{Name: "insight", Description: "1 sentence business insight explaining what the statistics reveal"},
		{Name: "pattern_detected", Description: "For numeric: 'normal', 'right skewed', 'left skewed', 'bimodal', 'uniform'. For categorical: 'high cardinality', 'low cardinality', 'binary', 'dominant category'"},
		{Name: "actionable_suggestion", Description: "Specific action an analyst should take based on the pattern"},
	},
}

// QualityRecommender proposes a fix for one detected data quality issue.
var QualityRecommender = ports.Signature{
	Name:        "QualityRecommender",
	Description: "Recommends actions to fix data quality issues with code snippets and impact assessment.",
	Inputs: []ports.Field{
		{Name: "issue_type", Description: "Type: 'missing_values', 'duplicates', 'outliers', 'inconsistent_categories'"},
		{Name: "column_name", Description: "Affected column name"},
		{Name: "issue_description", Description: "Description of the quality issue with counts/percentages"},
		{Name: "sample_data", Description: "Sample of affected data"},
	},
	Outputs: []ports.Field{
		{Name: "recommended_action", Description: "Specific recommendation (e.g., 'Impute with median', 'Drop duplicates', 'Cap outliers')"},
		{Name: "code_snippet", Description: "Code snippet to fix the issue"},
		{Name: "impact_description", Description: "What will change after applying this fix"},
	},
}

// MLUseCaseDetector picks the primary machine-learning framing for the
// dataset as a whole.
var MLUseCaseDetector = ports.Signature{
	Name:        "MLUseCaseDetector",
	Description: "Detects a suitable ML use case and target variable from the dataset analysis.",
	Inputs: []ports.Field{
		{Name: "dataset_overview", Description: "Dataset overview: row count, column count, column types summary"},
		{Name: "key_columns", Description: "List of important columns with their types and characteristics"},
		{Name: "quality_issues", Description: "Summary of data quality problems found"},
	},
	Outputs: []ports.Field{
		{Name: "detected_use_case", Description: "Primary ML use case: regression, classification, clustering, or time-series"},
		{Name: "target_variable", Description: "Recommended target column name"},
		{Name: "target_reasoning", Description: "2-sentence explanation why this target makes sense"},
		{Name: "suitability_score", Description: "ML readiness score 0-100"},
		{Name: "alternative_use_case", Description: "Alternative ML approach if applicable"},
	},
}

// FeatureEngineeringPlanner builds the modelling roadmap for the detected
// use case.
var FeatureEngineeringPlanner = ports.Signature{
	Name:        "FeatureEngineeringPlanner",
	Description: "Generates a column-by-column feature engineering strategy in markdown.",
	Inputs: []ports.Field{
		{Name: "column_summary", Description: "Key columns with types, cardinality, null%, patterns"},
		{Name: "target_variable", Description: "Selected target variable"},
		{Name: "ml_use_case", Description: "Selected ML use case"},
		{Name: "planning_instructions", Description: "Use case-specific instructions for planning depth and focus areas"},
	},
	Outputs: []ports.Field{
		{Name: "feature_plan", Description: "Markdown formatted feature engineering plan with transformations per column"},
		{Name: "training_recommendations", Description: "Model suggestions, validation strategy, hyperparameter hints in 3-4 sentences"},
		{Name: "mlflow_setup", Description: "MLflow experiment tracking recommendations in 2-3 sentences"},
	},
}

// DeploymentPlanner produces the full MLOps rollout strategy, fifteen
// markdown sections from infrastructure through future vision.
var DeploymentPlanner = ports.Signature{
	Name:        "DeploymentPlanner",
	Description: "Generates a comprehensive MLOps deployment strategy covering technical, organizational, and operational aspects.",
	Inputs: []ports.Field{
		{Name: "ml_use_case", Description: "Detected ML use case and target variable"},
		{Name: "feature_plan", Description: "Feature engineering strategy"},
		{Name: "training_plan", Description: "Model training recommendations"},
		{Name: "data_summary", Description: "Dataset schema and quality summary"},
	},
	Outputs: []ports.Field{
		{Name: "databricks_setup", Description: "Unity Catalog structure, cluster configurations, MLflow experiment setup in markdown with ## headers"},
		{Name: "serving_strategy", Description: "Model serving endpoint configuration, API design, versioning strategy, scaling considerations in markdown"},
		{Name: "monitoring_plan", Description: "Data drift detection, model performance tracking, alerting setup, dashboard recommendations in markdown"},
		{Name: "data_strategy", Description: "Data pipeline architecture, refresh frequency, retention policies, backup strategy in markdown"},
		{Name: "team_requirements", Description: "Required roles, FTE estimates, skill requirements, ramp-up timeline in markdown"},
		{Name: "implementation_roadmap", Description: "Phase-wise timeline in weeks with key milestones and deliverables in markdown"},
		{Name: "risk_mitigation", Description: "Technical risks, organizational dependencies, data quality risks, mitigation strategies with ownership in markdown"},
		{Name: "cost_estimation", Description: "Compute costs, storage costs, serving endpoint costs, monthly estimates, optimization strategies in markdown"},
		{Name: "governance_framework", Description: "Permissions, model approval workflow, data access controls, compliance requirements in markdown"},
		{Name: "success_metrics", Description: "Business KPIs to track, model performance metrics, operational SLAs, reporting cadence in markdown"},
		{Name: "business_impact", Description: "ROI estimation, business value drivers, efficiency gains, stakeholder communication plan in markdown"},
		{Name: "testing_framework", Description: "Unit testing strategy, integration tests, model validation tests, data quality tests, CI/CD pipeline in markdown"},
		{Name: "operational_playbook", Description: "Incident response procedures, model degradation handling, pipeline failure recovery, rollback strategy in markdown"},
		{Name: "enablement_plan", Description: "Documentation requirements, training sessions, runbooks, knowledge transfer checklist in markdown"},
		{Name: "future_enhancements", Description: "Feature store adoption, A/B testing framework, AutoML integration, advanced monitoring in markdown"},
	},
}

// BusinessCommunicationGenerator translates the technical strategy into
// stakeholder-facing material.
var BusinessCommunicationGenerator = ports.Signature{
	Name:        "BusinessCommunicationGenerator",
	Description: "Generates executive-ready business communication materials from the technical ML strategy.",
	Inputs: []ports.Field{
		{Name: "ml_use_case", Description: "ML use case, target variable, and readiness score"},
		{Name: "deployment_summary", Description: "Key highlights from deployment strategy: team size, timeline, costs"},
		{Name: "technical_risks", Description: "Summary of technical and organizational risks"},
		{Name: "success_metrics", Description: "Business KPIs and model performance metrics"},
	},
	Outputs: []ports.Field{
		{Name: "executive_summary", Description: "1-page executive summary in plain English: problem, solution, value, investment, timeline. Use markdown headers and bullet points."},
		{Name: "risk_matrix", Description: "Risk prioritization matrix in markdown table format with Impact x Likelihood grid"},
		{Name: "timeline_visual", Description: "Mermaid Gantt chart syntax for project timeline with phases: POC, Development, UAT, Production"},
		{Name: "budget_justification", Description: "Cost breakdown with ROI projection in markdown: investment vs expected returns with payback period"},
		{Name: "stakeholder_talking_points", Description: "Key messages for executives, technical teams, finance, and operations in markdown with ## headers"},
	},
}

// PRDGenerator assembles the product requirements document from every
// cached analysis result.
var PRDGenerator = ports.Signature{
	Name:        "PRDGenerator",
	Description: "Generates a production-grade Product Requirements Document for the ML capability.",
	Inputs: []ports.Field{
		{Name: "ml_use_case", Description: "ML use case, target variable, and suitability"},
		{Name: "feature_engineering", Description: "Feature engineering plan and training strategy"},
		{Name: "deployment_strategy", Description: "Technical infrastructure, team, timeline, and costs"},
		{Name: "business_summary", Description: "Executive summary, ROI, and stakeholder communication"},
		{Name: "quality_issues", Description: "Data quality summary and risks"},
	},
	Outputs: []ports.Field{
		{Name: "prd_document", Description: prdTemplate},
	},
}

// prdTemplate is the section outline the collaborator fills in. It stays a
// single instruction block so the whole document comes back as one field.
const prdTemplate = `Generate a comprehensive, production-ready PRD in markdown with these sections:

# Product Requirements Document (PRD)
**Project:** [derive from ML use case] / **Owner:** [Product Manager - TBD] / **Status:** Draft

## 1. Executive Summary
One paragraph: what we are building, why, expected impact, and the ask (budget/resources). Under 150 words.

## 2. Problem Statement
Current state and pain points with quantified business problem, target user personas, why existing solutions fail, market context, and a 12-24 month product vision.

## 3. Goals & Success Metrics
Business objectives as a markdown table (Metric, Owner, Baseline, Target, Timeline), product/ML metrics (model performance thresholds, operational SLAs, adoption), and leading indicators.

## 4. User Personas & Journeys
2-4 personas with role, goals, pain points, current workflow, and how the ML capability changes their experience.

## 5. Functional Requirements
4-6 prioritized user stories (P0/P1/P2) covering end-user, data scientist, and ops personas, each with measurable acceptance criteria and explicit out-of-scope notes. Non-functional requirements for performance, scalability, security, and compliance.

## 6. Technical Architecture
System context diagram, API contract for the prediction endpoint, data flow and storage, and failure modes with resilience strategy.

## 7. ML-Specific Considerations
Model lifecycle management (training cadence, validation, deployment, monitoring, retraining triggers), explainability, and bias/fairness auditing.

## 8. Risk Assessment & Mitigation
Markdown table: Risk, Impact, Likelihood, Owner, Mitigation, Trigger. Highlight the data quality risks found in the quality analysis.

## 9. Implementation Roadmap
Phased plan (POC, MVP, Scale, Optimize) with goals, deliverables, and success criteria per phase, using the timelines from the deployment strategy.

## 10. Operating Model
Post-launch roles and responsibilities, on-call and incident response, continuous improvement cadence.

## 11. Go-to-Market & Adoption
Rollout strategy, rollback criteria, user onboarding, change management.

## 12. Compliance & Legal
Data privacy, regulatory approvals, audit trail.

## 13. Budget & Resources
Team requirements, monthly cost breakdown, and ROI projection using the deployment cost estimates.

## 14. Dependencies & Assumptions

## 15. Out of Scope (Explicit Non-Goals)

## 16. Open Questions & Decisions Needed
Each with owner and due date.

## 17. Appendix
Glossary, references, revision history table.

Be SPECIFIC to the detected ML use case; use real numbers from the analysis (row counts, column types, quality issues); reference actual deployment costs and timelines; format with headers, bullets, and tables; no "TBD" without owner and deadline.`
