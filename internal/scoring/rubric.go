// Package scoring implements weighted rubric scoring of redacted resume
// text. Component values come from the model; all arithmetic that produces
// the overall score happens here, in Go, so results are deterministic and
// reproducible regardless of model rounding.
package scoring

import (
	"fmt"
	"math"

	"github.com/fairhire/fairhire/internal/agents"
)

// WeightEpsilon is the tolerance when checking that rubric weights sum to 1.
const WeightEpsilon = 1e-6

// Rubric component names.
const (
	ComponentExperienceIC       = "experience_ic"
	ComponentExperienceMgmt     = "experience_mgmt"
	ComponentMLOpsDelivery      = "ml_ops_delivery"
	ComponentImpactOutcomes     = "impact_outcomes"
	ComponentEducationRigor     = "education_rigor"
	ComponentEducationGPA       = "education_gpa"
	ComponentReliabilityQuality = "reliability_quality"
)

// DefaultWeights returns the documented default rubric weights. Keys missing
// from a job's override map fall back to these values.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		ComponentExperienceIC:       0.25,
		ComponentExperienceMgmt:     0.20,
		ComponentMLOpsDelivery:      0.15,
		ComponentImpactOutcomes:     0.10,
		ComponentEducationRigor:     0.12,
		ComponentEducationGPA:       0.08,
		ComponentReliabilityQuality: 0.10,
	}
}

// EffectiveWeights merges job-supplied overrides onto the defaults and
// validates the result. Overrides may replace any subset of the default
// keys; unknown keys are rejected so typos cannot silently skew scores.
func EffectiveWeights(overrides map[string]float64) (map[string]float64, error) {
	weights := DefaultWeights()

	for key, value := range overrides {
		if _, ok := weights[key]; !ok {
			return nil, &agents.ConfigError{
				Message: fmt.Sprintf("unknown rubric component %q", key),
			}
		}
		weights[key] = value
	}

	if err := ValidateWeights(weights); err != nil {
		return nil, err
	}
	return weights, nil
}

// ValidateWeights checks that every weight is non-negative and that the
// weights sum to 1.0 within WeightEpsilon.
func ValidateWeights(weights map[string]float64) error {
	if len(weights) == 0 {
		return &agents.ConfigError{Message: "rubric weights are empty"}
	}

	sum := 0.0
	for key, w := range weights {
		if w < 0 {
			return &agents.ConfigError{
				Message: fmt.Sprintf("rubric weight %q is negative (%v)", key, w),
			}
		}
		sum += w
	}

	if math.Abs(sum-1.0) > WeightEpsilon {
		return &agents.ConfigError{
			Message: fmt.Sprintf("rubric weights sum to %v, expected 1.0 ± %v", sum, WeightEpsilon),
		}
	}
	return nil
}

// Combine computes the overall score as the weighted sum of components.
// Each component is clamped to [0,1] before weighting, missing components
// count as 0, and the result is clamped to [0,1]. This is the single source
// of truth for score arithmetic; no model-supplied overall is ever trusted.
func Combine(components map[string]float64, weights map[string]float64) float64 {
	score := 0.0
	for key, weight := range weights {
		score += Clamp01(components[key]) * weight
	}
	return Clamp01(score)
}

// Clamp01 clamps v to the [0,1] interval.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Confidence derives a confidence value from how many rubric components had
// evidence: 0.4 base plus 0.1 per non-zero component, capped at 1.0.
func Confidence(components map[string]float64) float64 {
	nonzero := 0
	for _, v := range components {
		if v > 0 {
			nonzero++
		}
	}
	return math.Min(1.0, 0.4+0.1*float64(nonzero))
}
