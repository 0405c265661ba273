package memory

import (
	"sync"

	"github.com/Castore1977/project-track/domain/core/aggregates"
	"github.com/Castore1977/project-track/domain/core/valueobjects"
)

// EngineTable is an in-memory, copy-on-write implementation of
// ports.EngineTable. Every write builds a new slice, so a view returned by All
// is never modified by later writes.
type EngineTable struct {
	mu      sync.RWMutex
	engines []*aggregates.Engine
	index   map[valueobjects.EngineID]int
}

// NewEngineTable creates an empty engine table
func NewEngineTable() *EngineTable {
	return &EngineTable{
		engines: []*aggregates.Engine{},
		index:   make(map[valueobjects.EngineID]int),
	}
}

// All returns the current view of the catalog
func (t *EngineTable) All() []*aggregates.Engine {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.engines
}

// Get retrieves an engine by id
func (t *EngineTable) Get(id valueobjects.EngineID) (*aggregates.Engine, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i, exists := t.index[id]
	if !exists {
		return nil, false
	}
	return t.engines[i], true
}

// Put inserts or replaces an engine
func (t *EngineTable) Put(engine *aggregates.Engine) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := make([]*aggregates.Engine, len(t.engines), len(t.engines)+1)
	copy(next, t.engines)

	if i, exists := t.index[engine.ID()]; exists {
		next[i] = engine
		t.engines = next
		return
	}

	next = append(next, engine)
	t.index[engine.ID()] = len(next) - 1
	t.engines = next
}

// Remove drops an engine by id
func (t *EngineTable) Remove(id valueobjects.EngineID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, exists := t.index[id]
	if !exists {
		return false
	}

	next := make([]*aggregates.Engine, 0, len(t.engines)-1)
	next = append(next, t.engines[:i]...)
	next = append(next, t.engines[i+1:]...)
	t.set(next)
	return true
}

// ReplaceAll swaps the whole catalog
func (t *EngineTable) ReplaceAll(engines []*aggregates.Engine) {
	next := make([]*aggregates.Engine, len(engines))
	copy(next, engines)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.set(next)
}

// Len returns the number of engines
func (t *EngineTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.engines)
}

// set installs a new slice and rebuilds the index. Caller holds the write lock.
func (t *EngineTable) set(engines []*aggregates.Engine) {
	index := make(map[valueobjects.EngineID]int, len(engines))
	for i, e := range engines {
		index[e.ID()] = i
	}
	t.engines = engines
	t.index = index
}
