package loginflow

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrStateNotFound = errors.New("login state not found")
	ErrStateExpired  = errors.New("login state expired")
)

// NowTimeFunc is the clock used for expiry checks
var NowTimeFunc = time.Now

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu     sync.Mutex
	ttl    time.Duration
	states map[string]*State
}

var _ Repo = (*InMemoryRepo)(nil)

// NewInMemoryRepo creates a repository whose states live for ttl
func NewInMemoryRepo(ttl time.Duration) *InMemoryRepo {
	return &InMemoryRepo{
		ttl:    ttl,
		states: make(map[string]*State),
	}
}

// Upsert stores or replaces a login state. Expired states are swept on every write.
func (r *InMemoryRepo) Upsert(state string, flowState *State) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if flowState == nil {
		return errors.New("flowState cannot be nil")
	}

	now := NowTimeFunc()
	stored := &State{ReturnURL: flowState.ReturnURL, CreatedAt: flowState.CreatedAt}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep(now)
	r.states[state] = stored
	return nil
}

// Consume returns the state and removes it, so each state is accepted once
func (r *InMemoryRepo) Consume(state string) (*State, error) {
	if state == "" {
		return nil, ErrStateNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	flowState, exists := r.states[state]
	if !exists {
		return nil, ErrStateNotFound
	}
	delete(r.states, state)

	if r.expired(flowState, NowTimeFunc()) {
		return nil, ErrStateExpired
	}
	return &State{ReturnURL: flowState.ReturnURL, CreatedAt: flowState.CreatedAt}, nil
}

// Delete removes a login state
func (r *InMemoryRepo) Delete(state string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.states, state)
	return nil
}

// Len returns the number of stored states
func (r *InMemoryRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func (r *InMemoryRepo) expired(flowState *State, now time.Time) bool {
	return r.ttl > 0 && now.Sub(flowState.CreatedAt) >= r.ttl
}

func (r *InMemoryRepo) sweep(now time.Time) {
	for key, flowState := range r.states {
		if r.expired(flowState, now) {
			delete(r.states, key)
		}
	}
}
