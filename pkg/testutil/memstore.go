package testutil

import (
	"sync"

	"github.com/arthur-debert/oukaro/pkg/types"
)

// MemoryStore is a types.DesiredStore held in memory.
type MemoryStore struct {
	mu    sync.Mutex
	state types.DesiredState
	err   error
	loads int
}

// NewMemoryStore returns a store holding state.
func NewMemoryStore(state types.DesiredState) *MemoryStore {
	return &MemoryStore{state: state.Clone()}
}

// Desired builds a DesiredState from two name lists.
func Desired(system []types.PackageName, priv []types.PackageName) types.DesiredState {
	return types.DesiredState{
		SystemApps: types.NewPackageSet(system...),
		PrivApps:   types.NewPackageSet(priv...),
	}
}

// Set replaces the stored state and clears any failure.
func (s *MemoryStore) Set(state types.DesiredState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	s.err = nil
}

// Fail makes every Load return err until Set is called.
func (s *MemoryStore) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Loads is the number of Load calls.
func (s *MemoryStore) Loads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

// Load implements types.DesiredStore.
func (s *MemoryStore) Load() (types.DesiredState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.err != nil {
		return types.DesiredState{}, s.err
	}
	return s.state.Clone(), nil
}
