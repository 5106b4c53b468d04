package types

import (
	"time"

	"github.com/google/uuid"
)

// ProbeType classifies a counterfactual bias probe.
type ProbeType string

// Probe types.
const (
	ProbeNameSwap    ProbeType = "name_swap"
	ProbeProxyFlip   ProbeType = "proxy_flip"
	ProbeAdversarial ProbeType = "adversarial"
	ProbePIIScan     ProbeType = "pii_scan"
)

// RiskLevel is the aggregate bias-audit verdict.
type RiskLevel string

// Risk levels.
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// BiasProbe records one counterfactual scenario and its score delta against
// the baseline. Flagged is a pure function of Delta and the configured
// threshold (strict inequality).
type BiasProbe struct {
	ID          uuid.UUID `json:"id"`
	CandidateID uuid.UUID `json:"candidate_id"`

	ProbeType     ProbeType          `json:"probe_type"`
	Scenario      string             `json:"scenario"`
	OriginalScore float64            `json:"original_score"`
	ProbeScore    float64            `json:"probe_score"`
	Delta         float64            `json:"delta"`
	Flagged       bool               `json:"flagged"`
	Components    map[string]float64 `json:"components,omitempty"`
	Explanation   string             `json:"explanation,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// AuditReport aggregates all probes for one candidate.
type AuditReport struct {
	PIIScan       map[string]int `json:"pii_scan"`
	PIICount      int            `json:"pii_count"`
	TotalProbes   int            `json:"total_probes"`
	FlaggedProbes int            `json:"flagged_probes"`
	Probes        []BiasProbe    `json:"probes"`
	OverallRisk   RiskLevel      `json:"overall_risk"`
}

// FlaggedScenarios returns the scenario labels of all flagged probes, in
// probe order. This is the derived bias_flags list stored on the candidate.
func (r *AuditReport) FlaggedScenarios() []string {
	var flags []string
	for _, p := range r.Probes {
		if p.Flagged {
			flags = append(flags, p.Scenario)
		}
	}
	return flags
}
