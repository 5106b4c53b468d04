// Package store persists candidates, job positions, the execution ledger,
// bias probes and the activity log. Two implementations exist: an in-memory
// store for tests and single-process runs, and a PostgreSQL store.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fairhire/fairhire/internal/types"
)

// ActivityEntry is one line of the candidate activity log, appended on every
// stage change.
type ActivityEntry struct {
	ID          uuid.UUID   `json:"id"`
	CandidateID uuid.UUID   `json:"candidate_id"`
	FromStage   types.Stage `json:"from_stage"`
	ToStage     types.Stage `json:"to_stage"`
	Message     string      `json:"message"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Store is the persistence boundary for the pipeline. Lookup methods return
// (nil, nil) when the record does not exist. AgentExecution records are
// append-only: they are created once, finalized once, and never touched
// again. Probe and activity appends are likewise immutable.
type Store interface {
	CreateJob(ctx context.Context, job *types.JobPosition) error
	GetJob(ctx context.Context, id uuid.UUID) (*types.JobPosition, error)

	CreateCandidate(ctx context.Context, cand *types.Candidate) error
	GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error)
	UpdateCandidate(ctx context.Context, cand *types.Candidate) error
	ListCandidates(ctx context.Context, jobID uuid.UUID, stage types.Stage) ([]types.Candidate, error)

	CreateExecution(ctx context.Context, exec *types.AgentExecution) error
	FinalizeExecution(ctx context.Context, exec *types.AgentExecution) error
	ListExecutions(ctx context.Context, candidateID uuid.UUID) ([]types.AgentExecution, error)

	AppendProbes(ctx context.Context, probes []types.BiasProbe) error
	ListProbes(ctx context.Context, candidateID uuid.UUID) ([]types.BiasProbe, error)

	AppendActivity(ctx context.Context, entry *ActivityEntry) error
	ListActivity(ctx context.Context, candidateID uuid.UUID) ([]ActivityEntry, error)
}
