package mcpserver

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fairhire/fairhire/internal/biasaudit"
	"github.com/fairhire/fairhire/internal/types"
)

// candidateIDSchema is the shared input schema: every tool operates on one
// candidate already present in the store.
var candidateIDSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"candidate_id"},
	"properties": map[string]interface{}{
		"candidate_id": map[string]interface{}{
			"type":        "string",
			"description": "UUID of the candidate to operate on",
		},
	},
}

// InputCandidate identifies the candidate a tool operates on.
type InputCandidate struct {
	CandidateID string `json:"candidate_id"`
}

func (in InputCandidate) parse() (uuid.UUID, error) {
	id, err := uuid.Parse(in.CandidateID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("candidate_id is not a valid UUID: %w", err)
	}
	return id, nil
}

// MetadataParseResume describes the parse_resume tool.
var MetadataParseResume = &mcp.Tool{
	Name: "parse_resume",
	Description: "Parse a candidate's raw resume text into structured data " +
		"(contact info, work experience, education, normalized skills). " +
		"Advances the candidate to the parsed stage on success.",
	InputSchema: candidateIDSchema,
}

// OutputParseResume is the output for the ParseResume tool.
type OutputParseResume struct {
	Stage  types.Stage         `json:"stage"`
	Parsed *types.ParsedResume `json:"parsed_data"`
}

// ParseResume runs the parser agent for one candidate.
func (s *Server) ParseResume(ctx context.Context, _ *mcp.CallToolRequest, input InputCandidate) (*mcp.CallToolResult, OutputParseResume, error) {
	id, err := input.parse()
	if err != nil {
		return nil, OutputParseResume{}, err
	}
	cand, err := s.orch.RunAgent(ctx, id, types.AgentParser)
	if err != nil {
		return nil, OutputParseResume{}, err
	}
	return nil, OutputParseResume{Stage: cand.Stage, Parsed: cand.Parsed}, nil
}

// MetadataCheckGuardrails describes the check_guardrails tool.
var MetadataCheckGuardrails = &mcp.Tool{
	Name: "check_guardrails",
	Description: "Run the deterministic guardrail checks (experience, " +
		"education, required skills, age) for a parsed candidate against the " +
		"job policy. A failed check does not halt the pipeline; it forces a " +
		"Reject recommendation later.",
	InputSchema: candidateIDSchema,
}

// OutputCheckGuardrails is the output for the CheckGuardrails tool.
type OutputCheckGuardrails struct {
	Stage   types.Stage                  `json:"stage"`
	Passed  bool                         `json:"passed"`
	Results map[string]types.CheckResult `json:"results"`
}

// CheckGuardrails runs the guardrail agent for one candidate.
func (s *Server) CheckGuardrails(ctx context.Context, _ *mcp.CallToolRequest, input InputCandidate) (*mcp.CallToolResult, OutputCheckGuardrails, error) {
	id, err := input.parse()
	if err != nil {
		return nil, OutputCheckGuardrails{}, err
	}
	cand, err := s.orch.RunAgent(ctx, id, types.AgentGuardrail)
	if err != nil {
		return nil, OutputCheckGuardrails{}, err
	}
	out := OutputCheckGuardrails{Stage: cand.Stage, Results: cand.GuardrailResults}
	if cand.GuardrailPassed != nil {
		out.Passed = *cand.GuardrailPassed
	}
	return nil, out, nil
}

// MetadataScoreCandidate describes the score_candidate tool.
var MetadataScoreCandidate = &mcp.Tool{
	Name: "score_candidate",
	Description: "Score a candidate's redacted resume against the job rubric. " +
		"Component scores come from the model; the overall score is always " +
		"recomputed locally as the clamped weighted sum.",
	InputSchema: candidateIDSchema,
}

// OutputScoreCandidate is the output for the ScoreCandidate tool.
type OutputScoreCandidate struct {
	Stage  types.Stage        `json:"stage"`
	Report *types.ScoreReport `json:"scoring_results"`
}

// ScoreCandidate runs the scorer agent for one candidate.
func (s *Server) ScoreCandidate(ctx context.Context, _ *mcp.CallToolRequest, input InputCandidate) (*mcp.CallToolResult, OutputScoreCandidate, error) {
	id, err := input.parse()
	if err != nil {
		return nil, OutputScoreCandidate{}, err
	}
	cand, err := s.orch.RunAgent(ctx, id, types.AgentScorer)
	if err != nil {
		return nil, OutputScoreCandidate{}, err
	}
	return nil, OutputScoreCandidate{Stage: cand.Stage, Report: cand.Scoring}, nil
}

// MetadataGenerateSummary describes the generate_summary tool.
var MetadataGenerateSummary = &mcp.Tool{
	Name: "generate_summary",
	Description: "Generate the consolidated hiring recommendation for a " +
		"scored candidate. A failed guardrail check overrides the model's " +
		"suggested action to Reject.",
	InputSchema: candidateIDSchema,
}

// OutputGenerateSummary is the output for the GenerateSummary tool.
type OutputGenerateSummary struct {
	Stage   types.Stage    `json:"stage"`
	Summary *types.Summary `json:"summary_results"`
}

// GenerateSummary runs the summarizer agent for one candidate.
func (s *Server) GenerateSummary(ctx context.Context, _ *mcp.CallToolRequest, input InputCandidate) (*mcp.CallToolResult, OutputGenerateSummary, error) {
	id, err := input.parse()
	if err != nil {
		return nil, OutputGenerateSummary{}, err
	}
	cand, err := s.orch.RunAgent(ctx, id, types.AgentSummarizer)
	if err != nil {
		return nil, OutputGenerateSummary{}, err
	}
	return nil, OutputGenerateSummary{Stage: cand.Stage, Summary: cand.SummaryResults}, nil
}

// MetadataRunBiasAudit describes the run_bias_audit tool.
var MetadataRunBiasAudit = &mcp.Tool{
	Name: "run_bias_audit",
	Description: "Probe the scorer for demographic sensitivity: re-score the " +
		"resume under name swaps, proxy attribute flips, and an adversarial " +
		"prompt injection, then flag scenarios whose score shifts past the " +
		"threshold and report an overall risk level.",
	InputSchema: candidateIDSchema,
}

// OutputRunBiasAudit is the output for the RunBiasAudit tool.
type OutputRunBiasAudit struct {
	Stage  types.Stage        `json:"stage"`
	Report *types.AuditReport `json:"bias_audit_results"`
	Flags  []string           `json:"bias_flags,omitempty"`
}

// RunBiasAudit runs the bias auditor agent for one candidate.
func (s *Server) RunBiasAudit(ctx context.Context, _ *mcp.CallToolRequest, input InputCandidate) (*mcp.CallToolResult, OutputRunBiasAudit, error) {
	id, err := input.parse()
	if err != nil {
		return nil, OutputRunBiasAudit{}, err
	}
	cand, err := s.orch.RunAgent(ctx, id, types.AgentBiasAuditor)
	if err != nil {
		return nil, OutputRunBiasAudit{}, err
	}
	return nil, OutputRunBiasAudit{Stage: cand.Stage, Report: cand.BiasAudit, Flags: cand.BiasFlags}, nil
}

// MetadataRunFullPipeline describes the run_full_pipeline tool.
var MetadataRunFullPipeline = &mcp.Tool{
	Name: "run_full_pipeline",
	Description: "Run every remaining pipeline step for a candidate in order " +
		"(parse, guardrails, scoring, summary, bias audit), halting at the " +
		"first failure. Candidates that pass guardrails with an Accept " +
		"recommendation are auto-shortlisted.",
	InputSchema: candidateIDSchema,
}

// OutputRunFullPipeline is the output for the RunFullPipeline tool.
type OutputRunFullPipeline struct {
	FinalStage      types.Stage     `json:"final_stage"`
	OverallScore    *float64        `json:"overall_score,omitempty"`
	SuggestedAction string          `json:"suggested_action,omitempty"`
	OverallRisk     types.RiskLevel `json:"overall_risk,omitempty"`
}

// RunFullPipeline runs the whole pipeline for one candidate.
func (s *Server) RunFullPipeline(ctx context.Context, _ *mcp.CallToolRequest, input InputCandidate) (*mcp.CallToolResult, OutputRunFullPipeline, error) {
	id, err := input.parse()
	if err != nil {
		return nil, OutputRunFullPipeline{}, err
	}
	cand, err := s.orch.RunFullPipeline(ctx, id)
	if err != nil {
		return nil, OutputRunFullPipeline{}, err
	}
	out := OutputRunFullPipeline{
		FinalStage:      cand.Stage,
		OverallScore:    cand.OverallScore,
		SuggestedAction: cand.SuggestedAction,
	}
	if cand.BiasAudit != nil {
		out.OverallRisk = cand.BiasAudit.OverallRisk
	}
	return nil, out, nil
}

// MetadataGetCandidateReport describes the get_candidate_report tool.
var MetadataGetCandidateReport = &mcp.Tool{
	Name: "get_candidate_report",
	Description: "Read-only: return the full evaluation state of a candidate " +
		"including parsed data, guardrail results, scores, summary, bias " +
		"audit, and the execution ledger.",
	InputSchema: candidateIDSchema,
}

// OutputGetCandidateReport is the output for the GetCandidateReport tool.
type OutputGetCandidateReport struct {
	Candidate  *types.Candidate       `json:"candidate"`
	Executions []types.AgentExecution `json:"executions"`
}

// GetCandidateReport returns the candidate's evaluation state without
// running any agent.
func (s *Server) GetCandidateReport(ctx context.Context, _ *mcp.CallToolRequest, input InputCandidate) (*mcp.CallToolResult, OutputGetCandidateReport, error) {
	id, err := input.parse()
	if err != nil {
		return nil, OutputGetCandidateReport{}, err
	}
	cand, err := s.store.GetCandidate(ctx, id)
	if err != nil {
		return nil, OutputGetCandidateReport{}, err
	}
	if cand == nil {
		return nil, OutputGetCandidateReport{}, fmt.Errorf("candidate not found: %s", id)
	}
	execs, err := s.store.ListExecutions(ctx, id)
	if err != nil {
		return nil, OutputGetCandidateReport{}, err
	}
	return nil, OutputGetCandidateReport{Candidate: cand, Executions: execs}, nil
}

// MetadataGetJobAnalytics describes the get_job_analytics tool.
var MetadataGetJobAnalytics = &mcp.Tool{
	Name: "get_job_analytics",
	Description: "Read-only: aggregate fairness metrics for one job position " +
		"across all its candidates: probe statistics by type, flag rate, score " +
		"distribution, top flagged scenarios, PII detections, and adversarial " +
		"injection pass rate.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"job_id"},
		"properties": map[string]interface{}{
			"job_id": map[string]interface{}{
				"type":        "string",
				"description": "UUID of the job position to aggregate over",
			},
		},
	},
}

// InputJob identifies the job position a tool operates on.
type InputJob struct {
	JobID string `json:"job_id"`
}

// OutputGetJobAnalytics is the output for the GetJobAnalytics tool.
type OutputGetJobAnalytics struct {
	JobID     string              `json:"job_id"`
	Dashboard biasaudit.Dashboard `json:"dashboard"`
}

// GetJobAnalytics aggregates fairness metrics over every candidate of a job.
func (s *Server) GetJobAnalytics(ctx context.Context, _ *mcp.CallToolRequest, input InputJob) (*mcp.CallToolResult, OutputGetJobAnalytics, error) {
	jobID, err := uuid.Parse(input.JobID)
	if err != nil {
		return nil, OutputGetJobAnalytics{}, fmt.Errorf("job_id is not a valid UUID: %w", err)
	}

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, OutputGetJobAnalytics{}, err
	}
	if job == nil {
		return nil, OutputGetJobAnalytics{}, fmt.Errorf("job position not found: %s", jobID)
	}

	candidates, err := s.store.ListCandidates(ctx, jobID, "")
	if err != nil {
		return nil, OutputGetJobAnalytics{}, err
	}

	var probes []types.BiasProbe
	for _, cand := range candidates {
		ps, err := s.store.ListProbes(ctx, cand.ID)
		if err != nil {
			return nil, OutputGetJobAnalytics{}, err
		}
		probes = append(probes, ps...)
	}

	return nil, OutputGetJobAnalytics{
		JobID:     jobID.String(),
		Dashboard: biasaudit.BuildDashboard(candidates, probes),
	}, nil
}
