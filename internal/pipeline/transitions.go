package pipeline

import (
	"github.com/fairhire/fairhire/internal/types"
)

// transitions is the stage state machine: each stage maps to the set of
// stages it may advance to. Stages move strictly forward; terminal branches
// are only reachable from REVIEWED.
var transitions = map[types.Stage][]types.Stage{
	types.StageNew:            {types.StageParsing},
	types.StageParsing:        {types.StageParsed},
	types.StageParsed:         {types.StageGuardrailCheck},
	types.StageGuardrailCheck: {types.StageScoring},
	types.StageScoring:        {types.StageScored},
	types.StageScored:         {types.StageSummarizing},
	types.StageSummarizing:    {types.StageSummarized},
	types.StageSummarized:     {types.StageBiasAudit},
	types.StageBiasAudit:      {types.StageReviewed},
	types.StageReviewed: {
		types.StageShortlisted,
		types.StageRejected,
		types.StageOnHold,
		types.StageWithdrawn,
	},
}

// CanTransition reports whether a single-hop stage transition is legal.
// Every stage change the orchestrator persists goes through this check;
// there is no multi-hop path filling.
func CanTransition(from, to types.Stage) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
