// Package summary consolidates parsed data, guardrail results and scoring
// results into an actionable hiring recommendation.
package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fairhire/fairhire/internal/agents"
	"github.com/fairhire/fairhire/internal/llm"
	"github.com/fairhire/fairhire/internal/schemas"
	"github.com/fairhire/fairhire/internal/types"
)

const systemPrompt = `You are a helpful and analytical assistant responsible for summarizing candidate evaluations.
Your task is to review the candidate's details, identify their key strengths and weaknesses,
and provide a reasoned recommendation regarding acceptance or rejection.

Your response must strictly follow the JSON format below:
{
    "pros": ["strength1", "strength2", ...],
    "cons": ["weakness1", "weakness2", ...],
    "suggested_action": "Accept" | "Reject" | "Further Evaluation",
    "detailed_reasoning": "Comprehensive explanation supporting the suggested action",
    "risk_factors": ["risk1", ...],
    "interview_recommendations": ["topic to probe in interview", ...],
    "overall_assessment": "Brief 1-2 sentence verdict"
}

Rules:
- Base your assessment ONLY on the provided data
- Be fair and objective
- Consider guardrail results when making recommendations
- Flag any bias concerns from the data`

// Result carries the summary alongside ledger bookkeeping data. Overridden is
// set when the guardrail gate replaced the model's suggested action.
type Result struct {
	Summary    *types.Summary
	Usage      llm.Usage
	Raw        string
	Overridden bool
}

// Summarize generates the evaluation summary for a candidate. Guardrails are
// a hard gate: when the candidate failed them, the suggested action is forced
// to Reject no matter what the model proposed.
func Summarize(ctx context.Context, client llm.Client, cand *types.Candidate, job *types.JobPosition) (*Result, error) {
	if job == nil {
		return nil, &agents.ConfigError{Message: "job position is required for summarization"}
	}
	if cand == nil || cand.Parsed == nil {
		return nil, &agents.ValidationError{Message: "candidate has no parsed resume data to summarize"}
	}

	prompt := buildSummaryPrompt(cand, job)

	raw, usage, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &agents.ExternalServiceError{Message: "summarizer model call failed", Cause: err}
	}

	if err := schemas.ValidateJSONString(schemas.SummaryPayload, raw); err != nil {
		return nil, &agents.ParseError{Message: "summary response failed schema validation", Cause: err}
	}

	var s types.Summary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, &agents.ParseError{Message: "failed to decode summary response", Cause: err}
	}

	overridden := false
	if cand.GuardrailPassed != nil && !*cand.GuardrailPassed && s.SuggestedAction != types.ActionReject {
		s.SuggestedAction = types.ActionReject
		s.RiskFactors = append(s.RiskFactors, "Failed mandatory guardrail checks")
		overridden = true
	}

	return &Result{Summary: &s, Usage: usage, Raw: raw, Overridden: overridden}, nil
}

// buildSummaryPrompt renders the candidate's evaluation state into the
// summarizer prompt. Results maps are serialized as JSON so the model sees
// the same structure the ledger records.
func buildSummaryPrompt(cand *types.Candidate, job *types.JobPosition) string {
	var sb strings.Builder
	sb.WriteString(systemPrompt)
	sb.WriteString("\n\nHere are the candidate details:\n")
	sb.WriteString(formatCandidate(cand))

	sb.WriteString("\nHere are the guardrailing results:\n")
	sb.WriteString(marshalOrEmpty(cand.GuardrailResults))

	sb.WriteString("\n\nHere are the scoring results:\n")
	sb.WriteString(marshalOrEmpty(cand.Scoring))

	sb.WriteString("\n\nJob Position: ")
	sb.WriteString(job.Title)
	sb.WriteString("\nJob Requirements: ")
	sb.WriteString(job.Requirements)
	sb.WriteString("\n")

	return sb.String()
}

func formatCandidate(cand *types.Candidate) string {
	parsed := cand.Parsed

	experience := "Unknown"
	if parsed.ExperienceYears != nil {
		experience = fmt.Sprintf("%.1f", *parsed.ExperienceYears)
	}

	skills := "Not specified"
	if len(parsed.Skills) > 0 {
		skills = strings.Join(parsed.Skills, ", ")
	}

	var education []string
	for _, e := range parsed.Education {
		education = append(education, fmt.Sprintf("%s, %s", e.Degree, e.Institution))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", cand.FullName())
	fmt.Fprintf(&sb, "Experience: %s years\n", experience)
	fmt.Fprintf(&sb, "Skills: %s\n", skills)
	fmt.Fprintf(&sb, "Education: %s\n", strings.Join(education, "; "))
	fmt.Fprintf(&sb, "Current Title: %s\n", orUnknown(parsed.CurrentTitle))
	fmt.Fprintf(&sb, "Certifications: %s\n", strings.Join(parsed.Certifications, ", "))
	fmt.Fprintf(&sb, "Notable Achievements: %s\n", strings.Join(parsed.NotableAchievements, ", "))
	fmt.Fprintf(&sb, "Management Experience: %t\n", parsed.ManagementExperience)
	fmt.Fprintf(&sb, "Career Gaps: %s\n", strings.Join(parsed.CareerGaps, ", "))
	return sb.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

func marshalOrEmpty(v any) string {
	if v == nil {
		return "{}"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
