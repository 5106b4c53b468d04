package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AgentKind identifies a pipeline agent. The set is closed: the orchestrator
// dispatches over these values exhaustively, so adding a kind is a
// compile-time-visible change.
type AgentKind string

// Agent kinds.
const (
	AgentParser       AgentKind = "parser"
	AgentGuardrail    AgentKind = "guardrail"
	AgentScorer       AgentKind = "scorer"
	AgentSummarizer   AgentKind = "summarizer"
	AgentBiasAuditor  AgentKind = "bias_auditor"
	AgentOrchestrator AgentKind = "orchestrator"
)

// ExecutionStatus is the lifecycle state of one agent invocation.
type ExecutionStatus string

// Execution statuses.
const (
	ExecutionPending   ExecutionStatus = "pending"
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionFailed    ExecutionStatus = "failed"
)

// AgentExecution is one entry in the append-only execution ledger. A record
// is created when an agent starts, finalized exactly once on completion or
// failure, and never mutated afterward.
type AgentExecution struct {
	ID          uuid.UUID       `json:"id"`
	CandidateID uuid.UUID       `json:"candidate_id"`
	AgentType   AgentKind       `json:"agent_type"`
	Status      ExecutionStatus `json:"status"`

	InputData    json.RawMessage `json:"input_data,omitempty"`
	OutputData   json.RawMessage `json:"output_data,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`

	DurationMs int64  `json:"duration_ms"`
	TokensUsed int    `json:"tokens_used"`
	Model      string `json:"model,omitempty"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
