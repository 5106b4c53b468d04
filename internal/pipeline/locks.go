package pipeline

import (
	"sync"

	"github.com/google/uuid"
)

// lockTable holds per-candidate advisory locks. A pipeline or single-agent
// run holds its candidate's lock for the whole run; a concurrent attempt
// fails fast instead of interleaving writes.
type lockTable struct {
	mu   sync.Mutex
	held map[uuid.UUID]bool
}

func newLockTable() *lockTable {
	return &lockTable{held: make(map[uuid.UUID]bool)}
}

// acquire takes the candidate's lock, reporting false when already held.
func (l *lockTable) acquire(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[id] {
		return false
	}
	l.held[id] = true
	return true
}

func (l *lockTable) release(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, id)
}
