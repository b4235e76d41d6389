package session

import (
	"context"
	"strings"
	"time"
)

// Claim is the decoded and validated content of a signed session token.
// A nil *Claim means there is no valid session.
type Claim struct {
	SubjectID string
	Role      string
	SessionID string // login session holding the backend tokens
	Name      string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasRole reports whether the claim carries a non-empty role
func (c *Claim) HasRole() bool {
	return c != nil && strings.TrimSpace(c.Role) != ""
}

type ctxKey string

const ctxKeyClaim ctxKey = "session_claim"

// WithClaim stores the request's claim in the context
func WithClaim(ctx context.Context, claim *Claim) context.Context {
	return context.WithValue(ctx, ctxKeyClaim, claim)
}

// ClaimFromContext returns the claim stored by WithClaim, or nil
func ClaimFromContext(ctx context.Context) *Claim {
	claim, _ := ctx.Value(ctxKeyClaim).(*Claim)
	return claim
}
