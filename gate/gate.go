// Package gate decides whether a request for a protected path may proceed
// given the caller's session claim.
package gate

import (
	"fmt"
	"sort"

	apperrors "github.com/Sajjadhussain197/umsfront/internal/errors"
	"github.com/Sajjadhussain197/umsfront/session"
)

// DecisionKind is the outcome of a gate evaluation
type DecisionKind int

const (
	KindAllow DecisionKind = iota
	KindRedirect
)

// Decision is either Allow or a redirect to Target. Reason is ErrNoSession or
// ErrRoleMismatch for redirects and nil for Allow.
type Decision struct {
	Kind   DecisionKind
	Target string
	Reason error
}

// Allow lets the request through
func Allow() Decision {
	return Decision{Kind: KindAllow}
}

// RedirectTo sends the request elsewhere
func RedirectTo(target string, reason error) Decision {
	return Decision{Kind: KindRedirect, Target: target, Reason: reason}
}

// Allowed reports whether the decision is Allow
func (d Decision) Allowed() bool {
	return d.Kind == KindAllow
}

func (d Decision) String() string {
	if d.Allowed() {
		return "allow"
	}
	return fmt.Sprintf("redirect(%s)", d.Target)
}

// Gate evaluates requests against an immutable rule table. It is safe for concurrent use.
type Gate struct {
	rules     Rules
	protected []string // all prefixes, longest first
}

// New builds a gate from a validated copy of rules
func New(rules Rules) (*Gate, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("[gate New] invalid rules: %w", err)
	}
	rules = rules.clone()

	seen := make(map[string]struct{})
	protected := make([]string, 0)
	for _, rule := range rules.Roles {
		for _, prefix := range rule.Prefixes {
			if _, ok := seen[prefix]; ok {
				continue
			}
			seen[prefix] = struct{}{}
			protected = append(protected, prefix)
		}
	}
	sort.Slice(protected, func(i, j int) bool {
		if len(protected[i]) != len(protected[j]) {
			return len(protected[i]) > len(protected[j])
		}
		return protected[i] < protected[j]
	})

	return &Gate{rules: rules, protected: protected}, nil
}

// LoginPath is where callers without a usable session are sent
func (g *Gate) LoginPath() string {
	return g.rules.LoginPath
}

// Roles returns the configured role names, sorted
func (g *Gate) Roles() []string {
	return g.rules.RoleNames()
}

// HomeFor returns the landing path of a role
func (g *Gate) HomeFor(role string) (string, bool) {
	rule, ok := g.rules.Roles[role]
	if !ok {
		return "", false
	}
	return rule.Home, true
}

// IsProtected reports whether path falls under any configured prefix
func (g *Gate) IsProtected(path string) bool {
	_, ok := g.matchProtected(path)
	return ok
}

// Decide evaluates path for claim. Checks run in order: missing session, missing role,
// unknown role, then prefix membership. It never mutates claim and does no I/O.
func (g *Gate) Decide(path string, claim *session.Claim) Decision {
	if claim == nil {
		return RedirectTo(g.rules.LoginPath, apperrors.ErrNoSession)
	}
	if !claim.HasRole() {
		return RedirectTo(g.rules.LoginPath, apperrors.ErrNoSession)
	}

	rule, ok := g.rules.Roles[claim.Role]
	if !ok {
		return RedirectTo(g.rules.LoginPath, apperrors.ErrNoSession)
	}

	required, protected := g.matchProtected(path)
	if !protected {
		return Allow()
	}
	for _, prefix := range rule.Prefixes {
		if prefix == required {
			return Allow()
		}
	}
	return RedirectTo(rule.Home, apperrors.ErrRoleMismatch)
}

// matchProtected returns the most specific protected prefix covering path
func (g *Gate) matchProtected(path string) (string, bool) {
	for _, prefix := range g.protected {
		if hasPathPrefix(path, prefix) {
			return prefix, true
		}
	}
	return "", false
}
