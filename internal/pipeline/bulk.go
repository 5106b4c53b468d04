package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/fairhire/fairhire/internal/agents"
	"github.com/fairhire/fairhire/internal/types"
)

// BulkResult is the per-candidate outcome of a bulk run.
type BulkResult struct {
	CandidateID uuid.UUID   `json:"candidate_id"`
	FinalStage  types.Stage `json:"final_stage"`
	Error       string      `json:"error,omitempty"`
}

// RunBulk fans the full pipeline out over every NEW candidate of a job. A
// bounded worker pool runs candidates in parallel; per-candidate failures
// are collected into the result list and never abort the batch.
func (o *Orchestrator) RunBulk(ctx context.Context, jobID uuid.UUID) ([]BulkResult, error) {
	job, err := o.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &agents.ConfigError{Message: fmt.Sprintf("job position not found: %s", jobID)}
	}

	candidates, err := o.store.ListCandidates(ctx, jobID, types.StageNew)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	o.log.Info("bulk run started",
		zap.String("job_id", jobID.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("workers", o.workers))

	// Admission is wider than the agent-slot pool: candidates waiting on a
	// model call hold an agent slot, while others keep moving through the
	// utility-class steps instead of queueing behind them.
	sem := semaphore.NewWeighted(int64(o.workers) * utilitySlotFactor)
	results := make([]BulkResult, len(candidates))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for i, cand := range candidates {
		i, candID := i, cand.ID
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			final, runErr := o.RunFullPipeline(gctx, candID)

			result := BulkResult{CandidateID: candID}
			if final != nil {
				result.FinalStage = final.Stage
			}
			if runErr != nil {
				result.Error = runErr.Error()
			}

			mu.Lock()
			results[i] = result
			mu.Unlock()
			// Per-candidate failures are isolated; only context
			// cancellation aborts the batch.
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	o.log.Info("bulk run finished",
		zap.String("job_id", jobID.String()),
		zap.Int("failed", failed),
		zap.Int("total", len(results)))

	return results, nil
}
