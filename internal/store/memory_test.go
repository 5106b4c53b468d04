package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairhire/fairhire/internal/types"
)

func TestMemoryStoreCandidateLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	cand := &types.Candidate{FirstName: "Emily", LastName: "Carter", ResumeText: "..."}
	require.NoError(t, s.CreateCandidate(ctx, cand))
	assert.NotEqual(t, uuid.Nil, cand.ID)
	assert.Equal(t, types.StageNew, cand.Stage)

	got, err := s.GetCandidate(ctx, cand.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Emily", got.FirstName)

	got.Stage = types.StageParsed
	require.NoError(t, s.UpdateCandidate(ctx, got))

	again, err := s.GetCandidate(ctx, cand.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StageParsed, again.Stage)
}

func TestMemoryStoreMissingRecordsReturnNil(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	cand, err := s.GetCandidate(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, cand)

	job, err := s.GetJob(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, job)

	assert.Error(t, s.UpdateCandidate(ctx, &types.Candidate{ID: uuid.New()}))
}

func TestMemoryStoreListCandidatesFilters(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	jobA := uuid.New()
	jobB := uuid.New()

	for i, c := range []*types.Candidate{
		{JobID: jobA, FirstName: "A"},
		{JobID: jobA, FirstName: "B", Stage: types.StageReviewed},
		{JobID: jobB, FirstName: "C"},
	} {
		c.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Millisecond)
		require.NoError(t, s.CreateCandidate(ctx, c))
	}

	news, err := s.ListCandidates(ctx, jobA, types.StageNew)
	require.NoError(t, err)
	require.Len(t, news, 1)
	assert.Equal(t, "A", news[0].FirstName)

	all, err := s.ListCandidates(ctx, jobA, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryStoreExecutionLedgerIsAppendOnly(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	candID := uuid.New()

	exec := &types.AgentExecution{
		CandidateID: candID,
		AgentType:   types.AgentParser,
		Status:      types.ExecutionRunning,
	}
	require.NoError(t, s.CreateExecution(ctx, exec))
	assert.NotEqual(t, uuid.Nil, exec.ID)

	now := time.Now().UTC()
	exec.Status = types.ExecutionCompleted
	exec.CompletedAt = &now
	require.NoError(t, s.FinalizeExecution(ctx, exec))

	// A second finalize attempt on a completed record is rejected.
	assert.Error(t, s.FinalizeExecution(ctx, exec))

	records, err := s.ListExecutions(ctx, candID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, types.ExecutionCompleted, records[0].Status)
}

func TestMemoryStoreProbesAndActivity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	candID := uuid.New()

	require.NoError(t, s.AppendProbes(ctx, []types.BiasProbe{
		{CandidateID: candID, Scenario: "baseline"},
		{CandidateID: candID, Scenario: "adversarial", Flagged: true},
	}))

	probes, err := s.ListProbes(ctx, candID)
	require.NoError(t, err)
	require.Len(t, probes, 2)
	assert.NotEqual(t, uuid.Nil, probes[0].ID)

	require.NoError(t, s.AppendActivity(ctx, &ActivityEntry{
		CandidateID: candID,
		FromStage:   types.StageNew,
		ToStage:     types.StageParsing,
		Message:     "pipeline started",
	}))

	entries, err := s.ListActivity(ctx, candID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, types.StageParsing, entries[0].ToStage)
	assert.False(t, entries[0].CreatedAt.IsZero())
}
