package biasaudit

import (
	"sort"

	"github.com/fairhire/fairhire/internal/types"
)

// ProbeTypeStats aggregates all probes of one type.
type ProbeTypeStats struct {
	ProbeType types.ProbeType `json:"probe_type"`
	Total     int             `json:"total"`
	Flagged   int             `json:"flagged"`
	AvgDelta  float64         `json:"avg_delta"`
}

// FlaggedScenario is one scenario label with its flag count.
type FlaggedScenario struct {
	Scenario string  `json:"scenario"`
	Count    int     `json:"count"`
	AvgDelta float64 `json:"avg_delta"`
}

// AdversarialStats summarizes the injection-resistance probes. PassRate is
// the share of adversarial probes that did not flag; with no probes it
// defaults to 1.0.
type AdversarialStats struct {
	Total    int     `json:"total"`
	Flagged  int     `json:"flagged"`
	PassRate float64 `json:"pass_rate"`
}

// Dashboard is the aggregate fairness report over a set of candidates and
// their persisted probes, typically scoped to one job position.
type Dashboard struct {
	TotalCandidatesAudited int               `json:"total_candidates_audited"`
	TotalProbes            int               `json:"total_probes"`
	TotalFlags             int               `json:"total_flags"`
	FlagRate               float64           `json:"flag_rate"`
	ProbeStats             []ProbeTypeStats  `json:"probe_stats"`
	ScoreDistribution      map[string]int    `json:"score_distribution"`
	TopFlaggedScenarios    []FlaggedScenario `json:"top_flagged_scenarios"`
	PIIDetectedCount       int               `json:"pii_detected_count"`
	AdversarialResults     AdversarialStats  `json:"adversarial_test_results"`
}

// scoreBuckets in ascending order; the last bucket includes 1.0.
var scoreBuckets = []string{"0.0-0.2", "0.2-0.4", "0.4-0.6", "0.6-0.8", "0.8-1.0"}

// BuildDashboard computes the fairness dashboard from candidates and probes.
// It is a pure aggregation; callers load the rows however they like.
func BuildDashboard(candidates []types.Candidate, probes []types.BiasProbe) Dashboard {
	d := Dashboard{
		ScoreDistribution:  map[string]int{},
		AdversarialResults: AdversarialStats{PassRate: 1.0},
	}
	for _, bucket := range scoreBuckets {
		d.ScoreDistribution[bucket] = 0
	}

	for _, cand := range candidates {
		if cand.BiasAudit != nil {
			d.TotalCandidatesAudited++
			if cand.BiasAudit.PIICount > 0 {
				d.PIIDetectedCount++
			}
		}
		if cand.OverallScore != nil {
			if bucket, ok := scoreBucket(*cand.OverallScore); ok {
				d.ScoreDistribution[bucket]++
			}
		}
	}

	type deltaSum struct {
		count   int
		flagged int
		sum     float64
	}
	byType := map[types.ProbeType]*deltaSum{}
	byScenario := map[string]*deltaSum{}

	for _, p := range probes {
		d.TotalProbes++
		if p.Flagged {
			d.TotalFlags++
		}

		ts, ok := byType[p.ProbeType]
		if !ok {
			ts = &deltaSum{}
			byType[p.ProbeType] = ts
		}
		ts.count++
		ts.sum += p.Delta
		if p.Flagged {
			ts.flagged++
		}

		if p.ProbeType == types.ProbeAdversarial {
			d.AdversarialResults.Total++
			if p.Flagged {
				d.AdversarialResults.Flagged++
			}
		}

		if p.Flagged {
			ss, ok := byScenario[p.Scenario]
			if !ok {
				ss = &deltaSum{}
				byScenario[p.Scenario] = ss
			}
			ss.count++
			ss.sum += p.Delta
		}
	}

	if d.TotalProbes > 0 {
		d.FlagRate = round3(float64(d.TotalFlags) / float64(d.TotalProbes))
	}
	if d.AdversarialResults.Total > 0 {
		d.AdversarialResults.PassRate = round3(
			1 - float64(d.AdversarialResults.Flagged)/float64(d.AdversarialResults.Total))
	}

	for pt, ts := range byType {
		d.ProbeStats = append(d.ProbeStats, ProbeTypeStats{
			ProbeType: pt,
			Total:     ts.count,
			Flagged:   ts.flagged,
			AvgDelta:  ts.sum / float64(ts.count),
		})
	}
	sort.Slice(d.ProbeStats, func(i, j int) bool {
		return d.ProbeStats[i].ProbeType < d.ProbeStats[j].ProbeType
	})

	for scenario, ss := range byScenario {
		d.TopFlaggedScenarios = append(d.TopFlaggedScenarios, FlaggedScenario{
			Scenario: scenario,
			Count:    ss.count,
			AvgDelta: ss.sum / float64(ss.count),
		})
	}
	sort.Slice(d.TopFlaggedScenarios, func(i, j int) bool {
		if d.TopFlaggedScenarios[i].Count != d.TopFlaggedScenarios[j].Count {
			return d.TopFlaggedScenarios[i].Count > d.TopFlaggedScenarios[j].Count
		}
		return d.TopFlaggedScenarios[i].Scenario < d.TopFlaggedScenarios[j].Scenario
	})
	if len(d.TopFlaggedScenarios) > 10 {
		d.TopFlaggedScenarios = d.TopFlaggedScenarios[:10]
	}

	return d
}

func scoreBucket(score float64) (string, bool) {
	switch {
	case score < 0:
		return "", false
	case score < 0.2:
		return scoreBuckets[0], true
	case score < 0.4:
		return scoreBuckets[1], true
	case score < 0.6:
		return scoreBuckets[2], true
	case score < 0.8:
		return scoreBuckets[3], true
	case score <= 1.0:
		return scoreBuckets[4], true
	default:
		return "", false
	}
}
