package biasaudit

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairhire/fairhire/internal/agents"
	"github.com/fairhire/fairhire/internal/llm"
	"github.com/fairhire/fairhire/internal/redact"
	"github.com/fairhire/fairhire/internal/scoring"
	"github.com/fairhire/fairhire/internal/types"
)

// Auditor scores counterfactual text variants and aggregates the deltas into
// an audit report.
type Auditor struct {
	client   llm.Client
	cfg      Config
	detector ComplianceDetector
	retry    agents.RetryPolicy
}

// New constructs an auditor. A nil detector falls back to the keyword
// detector.
func New(client llm.Client, cfg Config, detector ComplianceDetector) *Auditor {
	if detector == nil {
		detector = NewKeywordDetector()
	}
	return &Auditor{
		client:   client,
		cfg:      cfg,
		detector: detector,
		retry:    agents.DefaultRetryPolicy(),
	}
}

// WithRetryPolicy overrides the per-probe scoring retry policy.
func (a *Auditor) WithRetryPolicy(policy agents.RetryPolicy) *Auditor {
	a.retry = policy
	return a
}

// Run executes the full probe suite for a candidate. The baseline variant is
// scored first and every probe's delta is measured against it. A probe is
// flagged when |delta| strictly exceeds the threshold; delta equal to the
// threshold is not a flag. Adversarial probes are additionally flagged when
// the compliance detector fires.
func (a *Auditor) Run(ctx context.Context, cand *types.Candidate, job *types.JobPosition) (*types.AuditReport, error) {
	if job == nil {
		return nil, &agents.ConfigError{Message: "job position is required for bias audit"}
	}
	if cand == nil || strings.TrimSpace(cand.ResumeText) == "" {
		return nil, &agents.ValidationError{Message: "candidate has no resume text to audit"}
	}

	weights, err := scoring.EffectiveWeights(job.RubricWeights)
	if err != nil {
		return nil, err
	}

	pii := redact.Scan(cand.ResumeText)

	prepared := cand.ResumeRedacted
	if strings.TrimSpace(prepared) == "" {
		prepared = redact.PrepareForScoring(cand.ResumeText)
	}

	variants := BuildVariants(prepared, a.cfg)

	var probes []types.BiasProbe
	baseline := 0.0

	for _, v := range variants {
		result, err := a.scoreVariant(ctx, v.Text, job.Requirements, weights)
		if err != nil {
			return nil, fmt.Errorf("probe %q: %w", v.Scenario, err)
		}

		score := round3(result.Report.Overall)
		if v.Scenario == ScenarioBaseline {
			baseline = score
		}

		delta := round4(score - baseline)
		flagged := v.Scenario != ScenarioBaseline && math.Abs(delta) > a.cfg.FlagThreshold
		if v.Type == types.ProbeAdversarial && a.detector.Complied(result.Raw, result.Report) {
			flagged = true
		}

		probes = append(probes, types.BiasProbe{
			ID:            uuid.New(),
			CandidateID:   cand.ID,
			ProbeType:     v.Type,
			Scenario:      v.Scenario,
			OriginalScore: baseline,
			ProbeScore:    score,
			Delta:         delta,
			Flagged:       flagged,
			Components:    result.Report.Components,
			Explanation:   explainProbe(v.Scenario, baseline, score),
			CreatedAt:     time.Now().UTC(),
		})
	}

	// The PII scan rides along as a probe with no score delta.
	probes = append(probes, types.BiasProbe{
		ID:          uuid.New(),
		CandidateID: cand.ID,
		ProbeType:   types.ProbePIIScan,
		Scenario:    "pii_scan",
		Explanation: fmt.Sprintf("PII scan found %d item(s) across %d categor(ies).", pii.Count, len(pii.Found)),
		CreatedAt:   time.Now().UTC(),
	})

	flagged := 0
	for _, p := range probes {
		if p.Flagged {
			flagged++
		}
	}

	return &types.AuditReport{
		PIIScan:       pii.Counts(),
		PIICount:      pii.Count,
		TotalProbes:   len(probes),
		FlaggedProbes: flagged,
		Probes:        probes,
		OverallRisk:   RiskFor(flagged),
	}, nil
}

func (a *Auditor) scoreVariant(ctx context.Context, text, requirements string, weights map[string]float64) (*scoring.Result, error) {
	var result *scoring.Result
	err := agents.Retry(ctx, a.retry, func(ctx context.Context) error {
		r, err := scoring.Score(ctx, a.client, text, requirements, weights)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
