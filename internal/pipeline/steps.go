package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fairhire/fairhire/internal/agents"
	"github.com/fairhire/fairhire/internal/guardrails"
	"github.com/fairhire/fairhire/internal/parsing"
	"github.com/fairhire/fairhire/internal/redact"
	"github.com/fairhire/fairhire/internal/scoring"
	"github.com/fairhire/fairhire/internal/summary"
	"github.com/fairhire/fairhire/internal/types"
)

// stepClass is the scheduling class of a step. Model-calling steps contend
// for the narrow agent-slot pool; deterministic steps run on the wider
// utility pool so they are never starved by slow model calls.
type stepClass int

const (
	classAgentCall stepClass = iota
	classUtility
)

// step binds one agent to its place in the state machine: the stages it may
// run from, the in-progress stage persisted at step start, the stage
// persisted on success, the ledger input payload, and the prerequisite
// check.
type step struct {
	name        string
	agent       types.AgentKind
	class       stepClass
	from        []types.Stage
	active      types.Stage
	done        types.Stage
	input       func(cand *types.Candidate) any
	checkPrereq func(cand *types.Candidate) error
	run         func(ctx context.Context, o *Orchestrator, cand *types.Candidate, job *types.JobPosition) (output any, tokens int, err error)
}

// pipelineSteps is the full pipeline in execution order.
var pipelineSteps = []step{
	{
		name:   "parser",
		agent:  types.AgentParser,
		class:  classAgentCall,
		from:   []types.Stage{types.StageNew, types.StageParsing},
		active: types.StageParsing,
		done:   types.StageParsed,
		input: func(cand *types.Candidate) any {
			return map[string]any{"resume_text_length": len(cand.ResumeText)}
		},
		checkPrereq: func(cand *types.Candidate) error {
			if strings.TrimSpace(cand.ResumeText) == "" {
				return &agents.ValidationError{Message: "candidate has no resume text", Field: "resume_text"}
			}
			return nil
		},
		run: runParser,
	},
	{
		name:   "guardrail",
		agent:  types.AgentGuardrail,
		class:  classUtility,
		from:   []types.Stage{types.StageParsed, types.StageGuardrailCheck},
		active: types.StageGuardrailCheck,
		done:   types.StageScoring,
		input: func(cand *types.Candidate) any {
			return map[string]any{"has_parsed_data": cand.Parsed != nil}
		},
		checkPrereq: func(cand *types.Candidate) error {
			if cand.Parsed == nil {
				return &agents.ValidationError{Message: "candidate has no parsed data", Field: "parsed_data"}
			}
			return nil
		},
		run: runGuardrail,
	},
	{
		name:   "scorer",
		agent:  types.AgentScorer,
		class:  classAgentCall,
		from:   []types.Stage{types.StageScoring},
		active: types.StageScoring,
		done:   types.StageScored,
		input: func(cand *types.Candidate) any {
			return map[string]any{"redacted_text_length": len(cand.ResumeRedacted)}
		},
		checkPrereq: func(cand *types.Candidate) error {
			if cand.Parsed == nil {
				return &agents.ValidationError{Message: "candidate has no parsed data", Field: "parsed_data"}
			}
			return nil
		},
		run: runScorer,
	},
	{
		name:   "summarizer",
		agent:  types.AgentSummarizer,
		class:  classAgentCall,
		from:   []types.Stage{types.StageScored, types.StageSummarizing},
		active: types.StageSummarizing,
		done:   types.StageSummarized,
		input: func(cand *types.Candidate) any {
			return map[string]any{
				"has_parsed_data":       cand.Parsed != nil,
				"has_guardrail_results": len(cand.GuardrailResults) > 0,
				"has_scoring_results":   cand.Scoring != nil,
			}
		},
		checkPrereq: func(cand *types.Candidate) error {
			if cand.Parsed == nil {
				return &agents.ValidationError{Message: "candidate has no parsed data", Field: "parsed_data"}
			}
			if cand.Scoring == nil {
				return &agents.ValidationError{Message: "candidate has no scoring results", Field: "scoring_results"}
			}
			return nil
		},
		run: runSummarizer,
	},
	{
		name:   "bias_auditor",
		agent:  types.AgentBiasAuditor,
		class:  classAgentCall,
		from:   []types.Stage{types.StageSummarized, types.StageBiasAudit},
		active: types.StageBiasAudit,
		done:   types.StageReviewed,
		input: func(cand *types.Candidate) any {
			return map[string]any{"resume_text_length": len(cand.ResumeText)}
		},
		checkPrereq: func(cand *types.Candidate) error {
			if strings.TrimSpace(cand.ResumeText) == "" {
				return &agents.ValidationError{Message: "candidate has no resume text", Field: "resume_text"}
			}
			return nil
		},
		run: runBiasAuditor,
	},
}

func stepFor(agent types.AgentKind) (step, bool) {
	for _, st := range pipelineSteps {
		if st.agent == agent {
			return st, true
		}
	}
	return step{}, false
}

func runParser(ctx context.Context, o *Orchestrator, cand *types.Candidate, job *types.JobPosition) (any, int, error) {
	if redact.ContainsInjection(cand.ResumeText) {
		o.log.Warn("injection patterns detected in resume text",
			zap.String("candidate_id", cand.ID.String()))
	}

	var result *parsing.Result
	err := agents.Retry(ctx, o.retry, func(ctx context.Context) error {
		r, err := parsing.ParseResume(ctx, o.client, cand.ResumeText)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	parsed := result.Parsed
	cand.Parsed = parsed
	if parsed.FirstName != "" {
		cand.FirstName = parsed.FirstName
	}
	if parsed.LastName != "" {
		cand.LastName = parsed.LastName
	}
	if parsed.Email != "" {
		cand.Email = parsed.Email
	}
	if parsed.Phone != "" {
		cand.Phone = parsed.Phone
	}

	// Redaction is part of parse completion: no text may reach the scorer
	// before injections are scrubbed and PII replaced.
	cand.ResumeRedacted = redact.PrepareForScoring(cand.ResumeText)

	return parsed, result.Usage.TotalTokens, nil
}

func runGuardrail(ctx context.Context, o *Orchestrator, cand *types.Candidate, job *types.JobPosition) (any, int, error) {
	results, err := guardrails.Evaluate(cand.Parsed, job)
	if err != nil {
		return nil, 0, err
	}

	passed := guardrails.Passed(results)
	cand.GuardrailResults = results
	cand.GuardrailPassed = &passed

	return results, 0, nil
}

func runScorer(ctx context.Context, o *Orchestrator, cand *types.Candidate, job *types.JobPosition) (any, int, error) {
	weights, err := scoring.EffectiveWeights(job.RubricWeights)
	if err != nil {
		return nil, 0, err
	}

	text := cand.ResumeRedacted
	if strings.TrimSpace(text) == "" {
		text = redact.PrepareForScoring(cand.ResumeText)
		cand.ResumeRedacted = text
	}

	var result *scoring.Result
	err = agents.Retry(ctx, o.retry, func(ctx context.Context) error {
		r, err := scoring.Score(ctx, o.client, text, job.Requirements, weights)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	report := result.Report
	cand.Scoring = report
	cand.OverallScore = &report.Overall
	cand.Confidence = &report.Confidence

	return report, result.Usage.TotalTokens, nil
}

func runSummarizer(ctx context.Context, o *Orchestrator, cand *types.Candidate, job *types.JobPosition) (any, int, error) {
	var result *summary.Result
	err := agents.Retry(ctx, o.retry, func(ctx context.Context) error {
		r, err := summary.Summarize(ctx, o.client, cand, job)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	cand.SummaryResults = result.Summary
	cand.SuggestedAction = result.Summary.SuggestedAction

	return result.Summary, result.Usage.TotalTokens, nil
}

func runBiasAuditor(ctx context.Context, o *Orchestrator, cand *types.Candidate, job *types.JobPosition) (any, int, error) {
	report, err := o.auditor.Run(ctx, cand, job)
	if err != nil {
		return nil, 0, err
	}

	cand.BiasAudit = report
	cand.BiasFlags = report.FlaggedScenarios()

	if err := o.store.AppendProbes(ctx, report.Probes); err != nil {
		return nil, 0, err
	}

	return report, 0, nil
}
