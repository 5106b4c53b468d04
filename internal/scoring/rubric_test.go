package scoring

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairhire/fairhire/internal/agents"
)

func TestDefaultWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, w := range DefaultWeights() {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, WeightEpsilon)
	assert.Len(t, DefaultWeights(), 7)
}

func TestEffectiveWeights(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]float64
		wantError bool
	}{
		{"nil overrides use defaults", nil, false},
		{
			name: "full valid override",
			overrides: map[string]float64{
				ComponentExperienceIC:       0.30,
				ComponentExperienceMgmt:     0.15,
				ComponentMLOpsDelivery:      0.15,
				ComponentImpactOutcomes:     0.10,
				ComponentEducationRigor:     0.12,
				ComponentEducationGPA:       0.08,
				ComponentReliabilityQuality: 0.10,
			},
		},
		{
			name:      "partial override breaking the sum",
			overrides: map[string]float64{ComponentExperienceIC: 0.9},
			wantError: true,
		},
		{
			name:      "unknown component rejected",
			overrides: map[string]float64{"charisma": 0.1},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weights, err := EffectiveWeights(tt.overrides)
			if tt.wantError {
				require.Error(t, err)
				var cfgErr *agents.ConfigError
				assert.True(t, errors.As(err, &cfgErr))
			} else {
				require.NoError(t, err)
				assert.NoError(t, ValidateWeights(weights))
			}
		})
	}
}

func TestValidateWeights(t *testing.T) {
	assert.NoError(t, ValidateWeights(map[string]float64{"a": 0.5, "b": 0.5}))
	assert.Error(t, ValidateWeights(map[string]float64{"a": 0.5, "b": 0.4}))
	assert.Error(t, ValidateWeights(map[string]float64{"a": 1.5, "b": -0.5}))
	assert.Error(t, ValidateWeights(nil))
	// Tiny float drift within epsilon is accepted.
	assert.NoError(t, ValidateWeights(map[string]float64{"a": 0.1 + 0.2, "b": 0.7}))
}

func TestCombineClampsComponents(t *testing.T) {
	weights := map[string]float64{"a": 0.5, "b": 0.5}

	assert.InDelta(t, 0.5, Combine(map[string]float64{"a": 2.0, "b": 0.0}, weights), 1e-9)
	assert.InDelta(t, 0.0, Combine(map[string]float64{"a": -1.0, "b": -3.0}, weights), 1e-9)
	assert.InDelta(t, 1.0, Combine(map[string]float64{"a": 1.0, "b": 1.0}, weights), 1e-9)
}

func TestCombineMissingComponentsCountAsZero(t *testing.T) {
	weights := map[string]float64{"a": 0.6, "b": 0.4}
	assert.InDelta(t, 0.6, Combine(map[string]float64{"a": 1.0}, weights), 1e-9)
	assert.InDelta(t, 0.0, Combine(nil, weights), 1e-9)
}

// TestCombineWeightedSumProperty checks, over randomized valid rubrics, that
// the overall score is exactly the weighted sum and stays in [0,1].
func TestCombineWeightedSumProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		// Random weights normalized to sum to 1.
		n := 2 + rng.Intn(8)
		raw := make([]float64, n)
		sum := 0.0
		for j := range raw {
			raw[j] = rng.Float64()
			sum += raw[j]
		}

		weights := make(map[string]float64, n)
		components := make(map[string]float64, n)
		expected := 0.0
		for j := range raw {
			key := string(rune('a' + j))
			w := raw[j] / sum
			c := rng.Float64()
			weights[key] = w
			components[key] = c
			expected += w * c
		}

		require.NoError(t, ValidateWeights(weights))

		got := Combine(components, weights)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
		assert.InDelta(t, expected, got, 1e-9)
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name       string
		components map[string]float64
		want       float64
	}{
		{"no evidence", map[string]float64{"a": 0, "b": 0}, 0.4},
		{"two nonzero", map[string]float64{"a": 0.5, "b": 0.1, "c": 0}, 0.6},
		{"capped at one", map[string]float64{"a": 1, "b": 1, "c": 1, "d": 1, "e": 1, "f": 1, "g": 1, "h": 1}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Confidence(tt.components), 1e-9)
		})
	}
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.1))
	assert.Equal(t, 1.0, Clamp01(1.1))
	assert.Equal(t, 0.42, Clamp01(0.42))
	assert.False(t, math.Signbit(Clamp01(-0.0)) && Clamp01(-0.0) != 0)
}
