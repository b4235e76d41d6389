package loginsession

import "time"

// Session keeps the identity service credentials of one signed-in browser.
// The session cookie only carries its ID.
type Session struct {
	// Core identity. A session is bound to one role; a role change needs a new session.
	SubjectID string
	Role      string

	// Backend tokens; the refresh token is stored but not rotated
	AccessToken  string
	RefreshToken string

	// Session management
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session has passed its expiry at now
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type Repo interface {
	Create(session Session) (string, error)
	Get(sessionID string) (Session, error)
	Delete(sessionID string) error
	DeleteBySubject(subjectID string) error
}
