// Package pipeline drives the candidate evaluation state machine: it
// sequences the agents, enforces stage transitions and the per-candidate
// lock, records every invocation on the execution ledger, and applies the
// auto-shortlist rule.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/fairhire/fairhire/internal/agents"
	"github.com/fairhire/fairhire/internal/biasaudit"
	"github.com/fairhire/fairhire/internal/ledger"
	"github.com/fairhire/fairhire/internal/llm"
	"github.com/fairhire/fairhire/internal/store"
	"github.com/fairhire/fairhire/internal/types"
)

// utilitySlotFactor sizes the utility pool relative to the agent pool.
// Deterministic steps are cheap; giving them more slots keeps bookkeeping
// moving while every agent slot is occupied by a model call.
const utilitySlotFactor = 4

// InterviewPlanner sets up interview rounds for a freshly shortlisted
// candidate. It is an external collaborator; failures are logged but do not
// undo the shortlist transition.
type InterviewPlanner interface {
	SetupInterviews(ctx context.Context, cand *types.Candidate) error
}

// Options configures an Orchestrator. Zero values fall back to defaults.
type Options struct {
	Logger      *zap.Logger
	Planner     InterviewPlanner
	AuditConfig biasaudit.Config
	Detector    biasaudit.ComplianceDetector
	Retry       agents.RetryPolicy
	BulkWorkers int
}

// Orchestrator owns candidate mutation during pipeline execution. All writes
// to a candidate happen here, one step at a time, under the per-candidate
// lock. Steps are scheduled on two pools: model-calling steps take an agent
// slot, deterministic steps take a utility slot, so a burst of slow model
// calls cannot starve bookkeeping work.
type Orchestrator struct {
	store        store.Store
	client       llm.Client
	ledger       *ledger.Recorder
	auditor      *biasaudit.Auditor
	planner      InterviewPlanner
	log          *zap.Logger
	retry        agents.RetryPolicy
	workers      int
	locks        *lockTable
	agentSlots   *semaphore.Weighted
	utilitySlots *semaphore.Weighted
}

// New constructs an Orchestrator over the given store and model client.
func New(st store.Store, client llm.Client, opts Options) *Orchestrator {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	retry := opts.Retry
	if retry.MaxAttempts == 0 {
		retry = agents.DefaultRetryPolicy()
	}

	auditCfg := opts.AuditConfig
	if auditCfg.FlagThreshold == 0 {
		auditCfg = biasaudit.DefaultConfig()
	}

	workers := opts.BulkWorkers
	if workers <= 0 {
		workers = 4
	}

	return &Orchestrator{
		store:        st,
		client:       client,
		ledger:       ledger.New(st),
		auditor:      biasaudit.New(client, auditCfg, opts.Detector).WithRetryPolicy(retry),
		planner:      opts.Planner,
		log:          log,
		retry:        retry,
		workers:      workers,
		locks:        newLockTable(),
		agentSlots:   semaphore.NewWeighted(int64(workers)),
		utilitySlots: semaphore.NewWeighted(int64(workers) * utilitySlotFactor),
	}
}

// RunFullPipeline executes every remaining step for a candidate in order,
// halting at the first failure. Each step persists its in-progress stage
// before running and its completed stage after, so a failed step leaves the
// candidate at the step's in-progress stage (e.g. PARSING) with an
// inspectable ledger record, and a later run resumes from exactly there.
func (o *Orchestrator) RunFullPipeline(ctx context.Context, candidateID uuid.UUID) (*types.Candidate, error) {
	if !o.locks.acquire(candidateID) {
		return nil, &agents.ConcurrencyConflictError{CandidateID: candidateID.String()}
	}
	defer o.locks.release(candidateID)

	cand, job, err := o.load(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	run, err := o.ledger.Begin(ctx, candidateID, types.AgentOrchestrator,
		map[string]any{"stage": cand.Stage}, "")
	if err != nil {
		return nil, err
	}

	o.log.Info("pipeline started",
		zap.String("candidate_id", candidateID.String()),
		zap.String("stage", string(cand.Stage)))

	for _, st := range pipelineSteps {
		if !stageIn(cand.Stage, st.from) {
			continue
		}
		if err := o.runStep(ctx, st, cand, job); err != nil {
			_ = o.ledger.Fail(ctx, run, err)
			o.log.Error("pipeline halted",
				zap.String("candidate_id", candidateID.String()),
				zap.String("step", st.name),
				zap.Error(err))
			return cand, err
		}
	}

	if err := o.applyAutoShortlist(ctx, cand); err != nil {
		_ = o.ledger.Fail(ctx, run, err)
		return cand, err
	}

	if err := o.ledger.Complete(ctx, run, map[string]any{"final_stage": cand.Stage}, 0); err != nil {
		return cand, err
	}

	o.log.Info("pipeline completed",
		zap.String("candidate_id", candidateID.String()),
		zap.String("final_stage", string(cand.Stage)))
	return cand, nil
}

// RunAgent executes one named step in isolation. The step's prerequisite
// data must already be present and the candidate must be at a stage the
// step runs from; out-of-order requests are rejected so a single-agent run
// can never jump the candidate across unexecuted stages.
func (o *Orchestrator) RunAgent(ctx context.Context, candidateID uuid.UUID, agent types.AgentKind) (*types.Candidate, error) {
	st, ok := stepFor(agent)
	if !ok {
		return nil, &agents.ValidationError{
			Message: fmt.Sprintf("unknown agent type %q", agent),
			Field:   "agent_type",
		}
	}

	if !o.locks.acquire(candidateID) {
		return nil, &agents.ConcurrencyConflictError{CandidateID: candidateID.String()}
	}
	defer o.locks.release(candidateID)

	cand, job, err := o.load(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	if err := st.checkPrereq(cand); err != nil {
		return nil, err
	}

	if !stageIn(cand.Stage, st.from) {
		return nil, &agents.ValidationError{
			Message: fmt.Sprintf("agent %q cannot run from stage %q", agent, cand.Stage),
			Field:   "stage",
		}
	}

	if err := o.runStep(ctx, st, cand, job); err != nil {
		return cand, err
	}

	if err := o.applyAutoShortlist(ctx, cand); err != nil {
		return cand, err
	}
	return cand, nil
}

func (o *Orchestrator) load(ctx context.Context, candidateID uuid.UUID) (*types.Candidate, *types.JobPosition, error) {
	cand, err := o.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, nil, err
	}
	if cand == nil {
		return nil, nil, &agents.ValidationError{
			Message: fmt.Sprintf("candidate not found: %s", candidateID),
			Field:   "candidate_id",
		}
	}

	job, err := o.store.GetJob(ctx, cand.JobID)
	if err != nil {
		return nil, nil, err
	}
	if job == nil {
		return nil, nil, &agents.ConfigError{
			Message: fmt.Sprintf("job position not found for candidate %s", candidateID),
		}
	}
	return cand, job, nil
}

// runStep records the step on the ledger, moves the candidate to the step's
// in-progress stage, runs it on its scheduling class, and on success
// advances to the completed stage. On failure the candidate stays at the
// in-progress stage and only the ledger records the error.
func (o *Orchestrator) runStep(ctx context.Context, st step, cand *types.Candidate, job *types.JobPosition) error {
	exec, err := o.ledger.Begin(ctx, cand.ID, st.agent, st.input(cand), o.client.GetModel(llm.TierStandard))
	if err != nil {
		return err
	}

	if err := st.checkPrereq(cand); err != nil {
		_ = o.ledger.Fail(ctx, exec, err)
		return err
	}

	if cand.Stage != st.active {
		if err := o.advance(ctx, cand, st.active, st.name); err != nil {
			_ = o.ledger.Fail(ctx, exec, err)
			return err
		}
	}

	slots := o.agentSlots
	if st.class == classUtility {
		slots = o.utilitySlots
	}
	if err := slots.Acquire(ctx, 1); err != nil {
		_ = o.ledger.Fail(ctx, exec, err)
		return err
	}
	output, tokens, err := st.run(ctx, o, cand, job)
	slots.Release(1)
	if err != nil {
		_ = o.ledger.Fail(ctx, exec, err)
		return err
	}

	if err := o.advance(ctx, cand, st.done, st.name); err != nil {
		_ = o.ledger.Fail(ctx, exec, err)
		return err
	}

	if err := o.ledger.Complete(ctx, exec, output, tokens); err != nil {
		return err
	}

	o.log.Info("step completed",
		zap.String("candidate_id", cand.ID.String()),
		zap.String("step", st.name),
		zap.String("stage", string(cand.Stage)))
	return nil
}

// advance moves the candidate exactly one legal edge through the transition
// table, persisting the candidate and one activity entry. Any request that
// is not a single-hop transition is an error; stages are never path-filled.
func (o *Orchestrator) advance(ctx context.Context, cand *types.Candidate, target types.Stage, stepName string) error {
	if !CanTransition(cand.Stage, target) {
		return &agents.ValidationError{
			Message: fmt.Sprintf("illegal stage transition %q -> %q", cand.Stage, target),
			Field:   "stage",
		}
	}

	from := cand.Stage
	cand.Stage = target
	if err := o.store.UpdateCandidate(ctx, cand); err != nil {
		cand.Stage = from
		return err
	}

	entry := &store.ActivityEntry{
		CandidateID: cand.ID,
		FromStage:   from,
		ToStage:     target,
		Message:     fmt.Sprintf("%s: %s -> %s", stepName, from, target),
	}
	if err := o.store.AppendActivity(ctx, entry); err != nil {
		o.log.Warn("failed to append activity", zap.Error(err))
	}
	return nil
}

// applyAutoShortlist promotes a reviewed candidate to SHORTLISTED when the
// summary recommends Accept and guardrails passed. It runs immediately
// after the bias audit lands the candidate at REVIEWED, on both the full
// pipeline and single-agent paths; it is the only automatic transition past
// REVIEWED.
func (o *Orchestrator) applyAutoShortlist(ctx context.Context, cand *types.Candidate) error {
	if cand.Stage != types.StageReviewed {
		return nil
	}
	if cand.SuggestedAction != types.ActionAccept {
		return nil
	}
	if cand.GuardrailPassed == nil || !*cand.GuardrailPassed {
		return nil
	}

	if err := o.advance(ctx, cand, types.StageShortlisted, "auto_shortlist"); err != nil {
		return err
	}

	o.log.Info("candidate auto-shortlisted", zap.String("candidate_id", cand.ID.String()))

	if o.planner != nil {
		if err := o.planner.SetupInterviews(ctx, cand); err != nil {
			o.log.Error("interview setup failed",
				zap.String("candidate_id", cand.ID.String()),
				zap.Error(err))
		}
	}
	return nil
}

func stageIn(stage types.Stage, set []types.Stage) bool {
	for _, s := range set {
		if s == stage {
			return true
		}
	}
	return false
}
