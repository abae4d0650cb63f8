// Package testfixtures provides fakes and fixed values shared by tests.
//
//   - MockStore: recording implementation of config.Store
//   - fixed configuration records and terminal sizes
//
// All mocks are thread-safe and record calls for assertions.
//
// Example usage:
//
//	func TestCommit(t *testing.T) {
//	    store := testfixtures.NewMockStore(testfixtures.AllFeaturesOff())
//	    dir := &printers.Static{Names: []string{"LaserJet", "Inkjet"}}
//	    e, _ := wizard.New(ctx, store, dir)
//	    // drive the engine...
//	    require.Equal(t, 1, store.SaveCalls())
//	}
package testfixtures

import (
	"context"
	"sync"

	"github.com/touchselfie/boothsetup/internal/config"
)

// MockStore is an in-memory config.Store that records every save.
type MockStore struct {
	mu sync.Mutex

	// Initial is returned (as a copy) by Load.
	Initial map[string]any
	// LoadError is returned by Load when set.
	LoadError error
	// SaveError is returned by Save when set; failed saves are still counted.
	SaveError error

	loads int
	saves []*config.Configuration
	tries int
}

// NewMockStore returns a store whose Load yields initial.
func NewMockStore(initial map[string]any) *MockStore {
	return &MockStore{Initial: initial}
}

func (m *MockStore) Load(ctx context.Context) (*config.Configuration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	return config.FromMap(m.Initial)
}

func (m *MockStore) Save(ctx context.Context, cfg *config.Configuration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tries++
	if m.SaveError != nil {
		return m.SaveError
	}
	m.saves = append(m.saves, cfg.Clone())
	return nil
}

// SetSaveError changes the error returned by subsequent saves.
func (m *MockStore) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveError = err
}

// LoadCalls returns the number of Load calls.
func (m *MockStore) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

// SaveCalls returns the number of successful saves.
func (m *MockStore) SaveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saves)
}

// SaveAttempts returns the number of Save calls, failed ones included.
func (m *MockStore) SaveAttempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tries
}

// Saved returns the payload of every successful save, oldest first.
func (m *MockStore) Saved() []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]map[string]any, 0, len(m.saves))
	for _, c := range m.saves {
		out = append(out, c.Map())
	}
	return out
}

// LastSaved returns the most recent payload, or nil.
func (m *MockStore) LastSaved() map[string]any {
	saved := m.Saved()
	if len(saved) == 0 {
		return nil
	}
	return saved[len(saved)-1]
}
