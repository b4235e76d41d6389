package server

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/Sajjadhussain197/umsfront/internal/errors"
	"github.com/Sajjadhussain197/umsfront/internal/metrics"
	"github.com/Sajjadhussain197/umsfront/server/loginsession"
	"github.com/Sajjadhussain197/umsfront/session"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyLoginSession stores the login session behind the request's claim
const ContextKeyLoginSession ContextKey = "login_session"

// SessionMiddleware resolves the session cookie into a claim on the request context.
// Any failure leaves a nil claim.
func (s *Server) SessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claim, loginSession := s.resolveSession(r)
		if claim == nil {
			if cookie, err := r.Cookie(s.config.GetSessionCookieName()); err == nil && cookie.Value != "" {
				s.ClearSessionCookie(w, r)
			}
		}

		ctx := session.WithClaim(r.Context(), claim)
		if loginSession != nil {
			ctx = context.WithValue(ctx, ContextKeyLoginSession, *loginSession)
		}
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) resolveSession(r *http.Request) (*session.Claim, *loginsession.Session) {
	cookie, err := r.Cookie(s.config.GetSessionCookieName())
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	claim := s.codec.Resolve(cookie.Value)
	if claim == nil || claim.SessionID == "" {
		return nil, nil
	}
	loginSession, err := s.loginSessions.Get(claim.SessionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrSessionNotFound) {
			log.Debug().Err(err).Str("sid", claim.SessionID).Msg("login session rejected")
		}
		return nil, nil
	}
	if loginSession.SubjectID != claim.SubjectID || loginSession.Role != claim.Role {
		return nil, nil
	}
	return claim, &loginSession
}

// loginSessionFromContext returns the login session stored by SessionMiddleware
func loginSessionFromContext(ctx context.Context) (loginsession.Session, bool) {
	loginSession, ok := ctx.Value(ContextKeyLoginSession).(loginsession.Session)
	return loginSession, ok
}

// RequireSession admits any signed-in account, whatever its role, and sends everyone
// else to the login page
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if session.ClaimFromContext(r.Context()) != nil {
				if _, ok := loginSessionFromContext(r.Context()); ok {
					next(w, r)
					return
				}
			}
			target := s.gate.LoginPath()
			if r.Method == http.MethodGet {
				target = loginRedirectPath(target, r.URL.RequestURI())
			}
			redirectSuccess(w, r, target)
		}
	}
}

// RequireGate is middleware for role-protected HTML/HTMX routes. It consults the gate
// and redirects instead of rendering whenever the decision is not Allow.
func (s *Server) RequireGate() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claim := session.ClaimFromContext(r.Context())
			decision := s.gate.Decide(r.URL.Path, claim)
			if decision.Allowed() {
				if _, ok := loginSessionFromContext(r.Context()); !ok {
					// A claim is only placed on the context together with its login session
					s.metrics.RecordGateDecision(metrics.GateNoSession)
					redirectSuccess(w, r, s.gate.LoginPath())
					return
				}
				s.metrics.RecordGateDecision(metrics.GateAllow)
				next(w, r)
				return
			}

			target := decision.Target
			if errors.Is(decision.Reason, apperrors.ErrNoSession) {
				s.metrics.RecordGateDecision(metrics.GateNoSession)
				if r.Method == http.MethodGet {
					target = loginRedirectPath(target, r.URL.RequestURI())
				}
			} else {
				s.metrics.RecordGateDecision(metrics.GateRoleMismatch)
			}
			log.Debug().
				Str("path", r.URL.Path).
				Str("decision", decision.String()).
				AnErr("reason", decision.Reason).
				Msg("gate redirect")
			redirectSuccess(w, r, target)
		}
	}
}
