package loginsession

import (
	"fmt"
	"sync"
	"time"

	apperrors "github.com/Sajjadhussain197/umsfront/internal/errors"
	"github.com/segmentio/ksuid"
)

// NowTimeFunc is the clock used for expiry checks
var NowTimeFunc = time.Now

// InMemoryLoginSessionRepo is an in-memory implementation of Repo
type InMemoryLoginSessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session // sessionID -> Session
}

var _ Repo = (*InMemoryLoginSessionRepo)(nil)

// NewInMemoryLoginSessionRepo creates a new in-memory login session repository
func NewInMemoryLoginSessionRepo() *InMemoryLoginSessionRepo {
	return &InMemoryLoginSessionRepo{
		sessions: make(map[string]Session),
	}
}

// Create stores a session under a new KSUID and returns the ID
func (r *InMemoryLoginSessionRepo) Create(session Session) (string, error) {
	if session.SubjectID == "" {
		return "", fmt.Errorf("subjectID is required")
	}
	if session.AccessToken == "" {
		return "", fmt.Errorf("accessToken is required")
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = NowTimeFunc()
	}

	sessionID := ksuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionID] = session
	return sessionID, nil
}

// Get retrieves a session. An expired session is removed and reported as ErrSessionExpired.
func (r *InMemoryLoginSessionRepo) Get(sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, apperrors.ErrSessionNotFound
	}

	r.mu.RLock()
	session, ok := r.sessions[sessionID]
	r.mu.RUnlock()

	if !ok {
		return Session{}, apperrors.ErrSessionNotFound
	}
	if session.Expired(NowTimeFunc()) {
		_ = r.Delete(sessionID)
		return Session{}, apperrors.ErrSessionExpired
	}
	return session, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (r *InMemoryLoginSessionRepo) Delete(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

// DeleteBySubject removes every session of a user, e.g. after the account is deleted
func (r *InMemoryLoginSessionRepo) DeleteBySubject(subjectID string) error {
	if subjectID == "" {
		return fmt.Errorf("subjectID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, session := range r.sessions {
		if session.SubjectID == subjectID {
			delete(r.sessions, id)
		}
	}
	return nil
}
