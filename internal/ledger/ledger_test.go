package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairhire/fairhire/internal/store"
	"github.com/fairhire/fairhire/internal/types"
)

func TestRecorderCompleteCycle(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	rec := New(st)
	candID := uuid.New()

	exec, err := rec.Begin(ctx, candID, types.AgentScorer, map[string]int{"resume_text_length": 1024}, "gemini-2.5-flash")
	require.NoError(t, err)
	assert.Equal(t, types.ExecutionRunning, exec.Status)
	assert.JSONEq(t, `{"resume_text_length": 1024}`, string(exec.InputData))

	require.NoError(t, rec.Complete(ctx, exec, map[string]float64{"overall_score": 0.72}, 350))

	records, err := st.ListExecutions(ctx, candID)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, types.ExecutionCompleted, got.Status)
	assert.Equal(t, 350, got.TokensUsed)
	assert.NotNil(t, got.CompletedAt)
	assert.JSONEq(t, `{"overall_score": 0.72}`, string(got.OutputData))
}

func TestRecorderFailKeepsErrorMessage(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	rec := New(st)
	candID := uuid.New()

	exec, err := rec.Begin(ctx, candID, types.AgentParser, nil, "")
	require.NoError(t, err)

	require.NoError(t, rec.Fail(ctx, exec, errors.New("schema validation failed")))

	records, err := st.ListExecutions(ctx, candID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, types.ExecutionFailed, records[0].Status)
	assert.Equal(t, "schema validation failed", records[0].ErrorMessage)
}

func TestRecorderRecordsAreOrdered(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	rec := New(st)
	candID := uuid.New()

	for _, agent := range []types.AgentKind{types.AgentParser, types.AgentGuardrail, types.AgentScorer} {
		exec, err := rec.Begin(ctx, candID, agent, nil, "")
		require.NoError(t, err)
		require.NoError(t, rec.Complete(ctx, exec, nil, 0))
	}

	records, err := st.ListExecutions(ctx, candID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, types.AgentParser, records[0].AgentType)
	assert.Equal(t, types.AgentGuardrail, records[1].AgentType)
	assert.Equal(t, types.AgentScorer, records[2].AgentType)
}
