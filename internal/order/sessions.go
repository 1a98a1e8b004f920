package order

import (
	"context"
	"sync"

	"github.com/MikeMC777/tienda-backoffice/internal/catalog"
)

// Sessions tracks the one open draft per user. Entering the workflow loads a
// fresh catalog snapshot; the draft is discarded after commit or cancel,
// never pooled or reused.
type Sessions struct {
	mu       sync.Mutex
	provider *catalog.Provider
	active   map[string]*Controller
}

func NewSessions(provider *catalog.Provider) *Sessions {
	return &Sessions{provider: provider, active: map[string]*Controller{}}
}

// Begin opens a workflow for the user, replacing any draft already in
// flight. The catalog and reference data are fetched here, once per entry.
func (s *Sessions) Begin(ctx context.Context, userID string) (*Controller, error) {
	data, err := s.provider.Load(ctx)
	if err != nil {
		return nil, err
	}
	ctl := NewController(data)
	s.mu.Lock()
	s.active[userID] = ctl
	s.mu.Unlock()
	return ctl, nil
}

func (s *Sessions) Get(userID string) (*Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctl, ok := s.active[userID]
	return ctl, ok
}

// End discards the user's draft.
func (s *Sessions) End(userID string) {
	s.mu.Lock()
	delete(s.active, userID)
	s.mu.Unlock()
}
