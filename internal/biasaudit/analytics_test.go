package biasaudit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairhire/fairhire/internal/types"
)

func score(v float64) *float64 { return &v }

func TestBuildDashboardAggregates(t *testing.T) {
	candidates := []types.Candidate{
		{
			OverallScore: score(0.85),
			BiasAudit:    &types.AuditReport{PIICount: 2, OverallRisk: types.RiskMedium},
		},
		{
			OverallScore: score(0.5),
			BiasAudit:    &types.AuditReport{PIICount: 0, OverallRisk: types.RiskLow},
		},
		{}, // never audited, never scored
	}

	probes := []types.BiasProbe{
		{ProbeType: types.ProbeNameSwap, Scenario: "female-coded name", Delta: 0.08, Flagged: true},
		{ProbeType: types.ProbeNameSwap, Scenario: "male-coded name", Delta: 0.01},
		{ProbeType: types.ProbeAdversarial, Scenario: "embedded override", Delta: 0.2, Flagged: true},
		{ProbeType: types.ProbeAdversarial, Scenario: "embedded override", Delta: 0},
		{ProbeType: types.ProbePIIScan, Scenario: "pii scan", Delta: 0},
	}

	d := BuildDashboard(candidates, probes)

	assert.Equal(t, 2, d.TotalCandidatesAudited)
	assert.Equal(t, 1, d.PIIDetectedCount)
	assert.Equal(t, 5, d.TotalProbes)
	assert.Equal(t, 2, d.TotalFlags)
	assert.InDelta(t, 0.4, d.FlagRate, 1e-9)

	assert.Equal(t, 1, d.ScoreDistribution["0.8-1.0"])
	assert.Equal(t, 1, d.ScoreDistribution["0.4-0.6"])
	assert.Equal(t, 0, d.ScoreDistribution["0.0-0.2"])

	require.Len(t, d.ProbeStats, 3)
	assert.Equal(t, types.ProbeAdversarial, d.ProbeStats[0].ProbeType)
	assert.Equal(t, 2, d.ProbeStats[0].Total)
	assert.Equal(t, 1, d.ProbeStats[0].Flagged)
	assert.InDelta(t, 0.1, d.ProbeStats[0].AvgDelta, 1e-9)
	assert.Equal(t, types.ProbeNameSwap, d.ProbeStats[1].ProbeType)
	assert.InDelta(t, 0.045, d.ProbeStats[1].AvgDelta, 1e-9)

	require.Len(t, d.TopFlaggedScenarios, 2)
	assert.Equal(t, "embedded override", d.TopFlaggedScenarios[0].Scenario)
	assert.Equal(t, 1, d.TopFlaggedScenarios[0].Count)

	assert.Equal(t, 2, d.AdversarialResults.Total)
	assert.Equal(t, 1, d.AdversarialResults.Flagged)
	assert.InDelta(t, 0.5, d.AdversarialResults.PassRate, 1e-9)
}

func TestBuildDashboardEmpty(t *testing.T) {
	d := BuildDashboard(nil, nil)

	assert.Zero(t, d.TotalCandidatesAudited)
	assert.Zero(t, d.TotalProbes)
	assert.Zero(t, d.FlagRate)
	assert.Empty(t, d.ProbeStats)
	assert.Empty(t, d.TopFlaggedScenarios)
	assert.InDelta(t, 1.0, d.AdversarialResults.PassRate, 1e-9)
	for bucket, n := range d.ScoreDistribution {
		assert.Zero(t, n, bucket)
	}
}

func TestBuildDashboardCapsTopScenarios(t *testing.T) {
	var probes []types.BiasProbe
	for i := 0; i < 12; i++ {
		probes = append(probes, types.BiasProbe{
			ProbeType: types.ProbeProxyFlip,
			Scenario:  string(rune('a' + i)),
			Delta:     0.1,
			Flagged:   true,
		})
	}

	d := BuildDashboard(nil, probes)
	assert.Len(t, d.TopFlaggedScenarios, 10)
}
