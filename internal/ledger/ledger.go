// Package ledger records agent invocations in the append-only execution
// ledger. Every pipeline step begins a record before doing work and
// finalizes it exactly once, so the trail survives failures intact.
package ledger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fairhire/fairhire/internal/store"
	"github.com/fairhire/fairhire/internal/types"

	"github.com/google/uuid"
)

// Recorder writes execution records through the store.
type Recorder struct {
	store store.Store
}

// New returns a Recorder backed by st.
func New(st store.Store) *Recorder {
	return &Recorder{store: st}
}

// Begin creates a running execution record. input is marshalled as the
// record's input_data; a nil input leaves it empty.
func (r *Recorder) Begin(ctx context.Context, candidateID uuid.UUID, agent types.AgentKind, input any, model string) (*types.AgentExecution, error) {
	exec := &types.AgentExecution{
		ID:          uuid.New(),
		CandidateID: candidateID,
		AgentType:   agent,
		Status:      types.ExecutionRunning,
		Model:       model,
		StartedAt:   time.Now().UTC(),
	}
	if input != nil {
		if data, err := json.Marshal(input); err == nil {
			exec.InputData = data
		}
	}

	if err := r.store.CreateExecution(ctx, exec); err != nil {
		return nil, err
	}
	return exec, nil
}

// Complete finalizes a record as completed, attaching the output payload and
// token usage.
func (r *Recorder) Complete(ctx context.Context, exec *types.AgentExecution, output any, tokensUsed int) error {
	now := time.Now().UTC()
	exec.Status = types.ExecutionCompleted
	exec.CompletedAt = &now
	exec.DurationMs = now.Sub(exec.StartedAt).Milliseconds()
	exec.TokensUsed = tokensUsed
	if output != nil {
		if data, err := json.Marshal(output); err == nil {
			exec.OutputData = data
		}
	}
	return r.store.FinalizeExecution(ctx, exec)
}

// Fail finalizes a record as failed with the cause's message.
func (r *Recorder) Fail(ctx context.Context, exec *types.AgentExecution, cause error) error {
	now := time.Now().UTC()
	exec.Status = types.ExecutionFailed
	exec.CompletedAt = &now
	exec.DurationMs = now.Sub(exec.StartedAt).Milliseconds()
	if cause != nil {
		exec.ErrorMessage = cause.Error()
	}
	return r.store.FinalizeExecution(ctx, exec)
}
