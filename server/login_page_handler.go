package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/Sajjadhussain197/umsfront/identity"
	"github.com/Sajjadhussain197/umsfront/internal/metrics"
	"github.com/Sajjadhussain197/umsfront/server/loginflow"
	"github.com/Sajjadhussain197/umsfront/server/loginsession"
	"github.com/Sajjadhussain197/umsfront/session"
	"github.com/rs/zerolog/log"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	State       string // login flow state (hidden field in form)
	Email       string // Preserve email on error
	CallbackURL string
}

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		callbackURL := localPath(query.Get(callbackURLParam))

		// Already signed in: nothing to do here
		if claim := session.ClaimFromContext(r.Context()); claim != nil {
			redirectSuccess(w, r, s.landingPath(claim, callbackURL))
			return
		}

		state := generateRandomString(32)
		if err := s.loginFlows.Upsert(state, &loginflow.State{ReturnURL: callbackURL}); err != nil {
			log.Err(err).Msg("Failed to store login state")
			http.Error(w, "Failed to start login", http.StatusInternalServerError)
			return
		}
		s.SetLoginStateCookie(w, r, state, s.config.GetLoginFlowTimeout())

		data := LoginPageData{
			State:       state,
			Email:       query.Get("email"),
			CallbackURL: callbackURL,
		}
		s.renderPage(w, r, "login", "Sign in", "login.html", data)
	}
}

// LoginSubmissionHandler processes the login form submission
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Parse form data
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		state := r.FormValue(loginStateField)
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		callbackURL := localPath(r.FormValue(callbackURLParam))

		// The form state must match the cookie set when the form was rendered
		cookie, err := r.Cookie(loginStateCookieName)
		if err != nil || state == "" || cookie.Value != state {
			s.metrics.RecordLogin(metrics.LoginExpiredForm)
			s.renderLoginError(w, r, "Your sign-in form has expired, please try again", email, callbackURL)
			return
		}
		s.SetLoginStateCookie(w, r, "", -1)

		flowState, err := s.loginFlows.Consume(state)
		if err != nil {
			s.metrics.RecordLogin(metrics.LoginExpiredForm)
			s.renderLoginError(w, r, "Your sign-in form has expired, please try again", email, callbackURL)
			return
		}
		callbackURL = flowState.ReturnURL

		// Validate input
		if email == "" || password == "" {
			s.metrics.RecordLogin(metrics.LoginMissingFields)
			s.renderLoginError(w, r, "Email and password are required", email, callbackURL)
			return
		}

		result, err := s.identity.Login(r.Context(), email, password)
		if err != nil {
			log.Info().Err(err).Str("email", email).Msg("login rejected")
			s.metrics.RecordLogin(metrics.LoginInvalidCredentials)
			s.renderLoginError(w, r, "Invalid email or password", email, callbackURL)
			return
		}

		claim, err := s.startSession(w, r, result)
		if err != nil {
			log.Warn().Err(err).Str("user_id", result.User.ID).Str("role", result.User.Role).Msg("session not started")
			if errors.Is(err, errNoAccess) {
				s.metrics.RecordLogin(metrics.LoginNoAccess)
				s.renderLoginError(w, r, "Your account has no access to this application", email, "")
				return
			}
			s.metrics.RecordLogin(metrics.LoginError)
			s.renderLoginError(w, r, "Sign-in failed, please try again", email, callbackURL)
			return
		}

		log.Info().Str("user_id", claim.SubjectID).Str("role", claim.Role).Msg("user signed in")
		s.metrics.RecordLogin(metrics.LoginSuccess)
		redirectSuccess(w, r, s.landingPath(claim, callbackURL))
	}
}

// startSession stores the backend tokens server-side and issues the session cookie
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, result *identity.LoginResult) (*session.Claim, error) {
	user := result.User
	if _, ok := s.gate.HomeFor(user.Role); !ok {
		return nil, errNoAccess
	}

	now := loginsession.NowTimeFunc()
	sessionID, err := s.loginSessions.Create(loginsession.Session{
		SubjectID:    user.ID,
		Role:         user.Role,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    now.Add(s.codec.MaxAge()),
		CreatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	claim := session.Claim{
		SubjectID: user.ID,
		Role:      user.Role,
		SessionID: sessionID,
		Name:      user.DisplayName(),
		Email:     user.Email,
	}
	if err := s.issueSession(w, r, claim); err != nil {
		_ = s.loginSessions.Delete(sessionID)
		return nil, err
	}
	return &claim, nil
}

// landingPath is callbackURL when the gate lets claim in, otherwise the role's home
func (s *Server) landingPath(claim *session.Claim, callbackURL string) string {
	home, ok := s.gate.HomeFor(claim.Role)
	if !ok {
		home = RouteIndex
	}
	if callbackURL == "" {
		return home
	}
	u, err := url.Parse(callbackURL)
	if err != nil || u.Path == s.gate.LoginPath() {
		return home
	}
	if s.gate.Decide(u.Path, claim).Allowed() {
		return callbackURL
	}
	return home
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if claim := session.ClaimFromContext(r.Context()); claim != nil {
			log.Info().Str("user_id", claim.SubjectID).Msg("user signed out")
			s.metrics.RecordLogout()
		}
		s.endSession(w, r)
		redirectSuccess(w, r, s.gate.LoginPath())
	}
}

// renderLoginError redirects to login page with an error message
func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request, errorMsg, email, callbackURL string) {
	// Build redirect URL with error and email parameters
	redirectURL := withQuery(s.gate.LoginPath(), "error", errorMsg)
	if email != "" {
		redirectURL = withQuery(redirectURL, "email", email)
	}
	if callbackURL != "" {
		redirectURL = withQuery(redirectURL, callbackURLParam, callbackURL)
	}

	redirectSuccess(w, r, redirectURL)
}
