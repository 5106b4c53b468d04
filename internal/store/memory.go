package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fairhire/fairhire/internal/types"
)

// MemoryStore is an in-memory Store used by tests and single-process runs.
// Records are copied at the struct level on the way in and out; nested maps
// and slices are owned by the orchestrator, which mutates a candidate only
// under its per-candidate lock.
type MemoryStore struct {
	mu         sync.RWMutex
	jobs       map[uuid.UUID]types.JobPosition
	candidates map[uuid.UUID]types.Candidate
	executions map[uuid.UUID][]types.AgentExecution
	probes     map[uuid.UUID][]types.BiasProbe
	activity   map[uuid.UUID][]ActivityEntry
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:       make(map[uuid.UUID]types.JobPosition),
		candidates: make(map[uuid.UUID]types.Candidate),
		executions: make(map[uuid.UUID][]types.AgentExecution),
		probes:     make(map[uuid.UUID][]types.BiasProbe),
		activity:   make(map[uuid.UUID][]ActivityEntry),
	}
}

func (s *MemoryStore) CreateJob(ctx context.Context, job *types.JobPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	s.jobs[job.ID] = *job
	return nil
}

func (s *MemoryStore) GetJob(ctx context.Context, id uuid.UUID) (*types.JobPosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	return &job, nil
}

func (s *MemoryStore) CreateCandidate(ctx context.Context, cand *types.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cand.ID == uuid.Nil {
		cand.ID = uuid.New()
	}
	if cand.Stage == "" {
		cand.Stage = types.StageNew
	}
	now := time.Now().UTC()
	if cand.CreatedAt.IsZero() {
		cand.CreatedAt = now
	}
	cand.UpdatedAt = now
	s.candidates[cand.ID] = *cand
	return nil
}

func (s *MemoryStore) GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cand, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	return &cand, nil
}

func (s *MemoryStore) UpdateCandidate(ctx context.Context, cand *types.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.candidates[cand.ID]; !ok {
		return fmt.Errorf("candidate not found: %s", cand.ID)
	}
	cand.UpdatedAt = time.Now().UTC()
	s.candidates[cand.ID] = *cand
	return nil
}

func (s *MemoryStore) ListCandidates(ctx context.Context, jobID uuid.UUID, stage types.Stage) ([]types.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.Candidate
	for _, cand := range s.candidates {
		if jobID != uuid.Nil && cand.JobID != jobID {
			continue
		}
		if stage != "" && cand.Stage != stage {
			continue
		}
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CreateExecution(ctx context.Context, exec *types.AgentExecution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if exec.ID == uuid.Nil {
		exec.ID = uuid.New()
	}
	if exec.StartedAt.IsZero() {
		exec.StartedAt = time.Now().UTC()
	}
	s.executions[exec.CandidateID] = append(s.executions[exec.CandidateID], *exec)
	return nil
}

func (s *MemoryStore) FinalizeExecution(ctx context.Context, exec *types.AgentExecution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.executions[exec.CandidateID]
	for i := range records {
		if records[i].ID == exec.ID {
			if records[i].Status != types.ExecutionRunning && records[i].Status != types.ExecutionPending {
				return fmt.Errorf("execution %s already finalized", exec.ID)
			}
			records[i] = *exec
			return nil
		}
	}
	return fmt.Errorf("execution not found: %s", exec.ID)
}

func (s *MemoryStore) ListExecutions(ctx context.Context, candidateID uuid.UUID) ([]types.AgentExecution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.executions[candidateID]
	out := make([]types.AgentExecution, len(records))
	copy(out, records)
	return out, nil
}

func (s *MemoryStore) AppendProbes(ctx context.Context, probes []types.BiasProbe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range probes {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		s.probes[p.CandidateID] = append(s.probes[p.CandidateID], p)
	}
	return nil
}

func (s *MemoryStore) ListProbes(ctx context.Context, candidateID uuid.UUID) ([]types.BiasProbe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.probes[candidateID]
	out := make([]types.BiasProbe, len(records))
	copy(out, records)
	return out, nil
}

func (s *MemoryStore) AppendActivity(ctx context.Context, entry *ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.activity[entry.CandidateID] = append(s.activity[entry.CandidateID], *entry)
	return nil
}

func (s *MemoryStore) ListActivity(ctx context.Context, candidateID uuid.UUID) ([]ActivityEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.activity[candidateID]
	out := make([]ActivityEntry, len(records))
	copy(out, records)
	return out, nil
}
