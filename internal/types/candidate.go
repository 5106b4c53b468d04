// Package types defines the core data model shared across the evaluation pipeline.
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stage represents a candidate's position in the evaluation pipeline.
// Stages form a strict forward sequence; transitions are enforced by the
// orchestrator's transition table, never inferred from data presence.
type Stage string

// Pipeline stages in sequence order, plus terminal/side branches.
const (
	StageNew            Stage = "new"
	StageParsing        Stage = "parsing"
	StageParsed         Stage = "parsed"
	StageGuardrailCheck Stage = "guardrail_check"
	StageScoring        Stage = "scoring"
	StageScored         Stage = "scored"
	StageSummarizing    Stage = "summarizing"
	StageSummarized     Stage = "summarized"
	StageBiasAudit      Stage = "bias_audit"
	StageReviewed       Stage = "reviewed"
	StageShortlisted    Stage = "shortlisted"
	StageRejected       Stage = "rejected"
	StageOnHold         Stage = "on_hold"
	StageWithdrawn      Stage = "withdrawn"
)

// SuggestedAction values produced by the summary agent.
const (
	ActionAccept            = "Accept"
	ActionReject            = "Reject"
	ActionFurtherEvaluation = "Further Evaluation"
)

// CheckResult is the outcome of a single guardrail check.
// Skipped marks checks that could not be evaluated (e.g. unknown age) and
// must never count as failures.
type CheckResult struct {
	Pass    bool   `json:"pass"`
	Reason  string `json:"reason"`
	Skipped bool   `json:"skipped,omitempty"`
}

// ScoreNotes carries auxiliary observations from the scorer model.
type ScoreNotes struct {
	FoundGPA             string `json:"found_gpa"`
	AccommodationPresent bool   `json:"accommodation_present"`
	VisaMention          bool   `json:"visa_mention"`
}

// ScoreReport is the scorer agent's output for one candidate.
// Overall is always computed in Go as the weighted sum of clamped
// components; the model never supplies it.
type ScoreReport struct {
	Overall    float64            `json:"overall_score"`
	Confidence float64            `json:"confidence"`
	Components map[string]float64 `json:"components"`
	Notes      ScoreNotes         `json:"notes"`
}

// Summary is the summary agent's consolidated recommendation.
type Summary struct {
	Pros                     []string `json:"pros"`
	Cons                     []string `json:"cons"`
	SuggestedAction          string   `json:"suggested_action"`
	DetailedReasoning        string   `json:"detailed_reasoning"`
	RiskFactors              []string `json:"risk_factors"`
	InterviewRecommendations []string `json:"interview_recommendations"`
	OverallAssessment        string   `json:"overall_assessment"`
}

// Candidate is the unit of work for the pipeline. During a run it is owned
// exclusively by the orchestrator under the per-candidate lock; external
// layers read it through the store.
type Candidate struct {
	ID    uuid.UUID `json:"id"`
	JobID uuid.UUID `json:"job_id"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Stage     Stage  `json:"stage"`

	ResumeText     string `json:"resume_text"`
	ResumeRedacted string `json:"resume_redacted,omitempty"`

	Parsed *ParsedResume `json:"parsed_data,omitempty"`

	GuardrailResults map[string]CheckResult `json:"guardrail_results,omitempty"`
	GuardrailPassed  *bool                  `json:"guardrail_passed,omitempty"`

	Scoring         *ScoreReport `json:"scoring_results,omitempty"`
	OverallScore    *float64     `json:"overall_score,omitempty"`
	Confidence      *float64     `json:"confidence,omitempty"`
	SummaryResults  *Summary     `json:"summary_results,omitempty"`
	SuggestedAction string       `json:"suggested_action,omitempty"`

	BiasAudit *AuditReport `json:"bias_audit_results,omitempty"`
	BiasFlags []string     `json:"bias_flags,omitempty"`

	ReviewerNotes    string `json:"reviewer_notes,omitempty"`
	ReviewerDecision string `json:"reviewer_decision,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns the candidate's display name, or "Unknown" when both
// name fields are empty.
func (c *Candidate) FullName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return "Unknown"
	}
	return name
}
