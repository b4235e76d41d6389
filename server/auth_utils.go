package server

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Sajjadhussain197/umsfront/session"
)

const (
	// loginStateCookieName carries the login form state between GET /login and POST /auth/login
	loginStateCookieName = "login_state"
	loginStateField      = "state"
	callbackURLParam     = "callbackUrl"
)

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// SetSessionCookie stores the signed session token; a negative maxAge deletes it
func (s *Server) SetSessionCookie(w http.ResponseWriter, r *http.Request, token string, maxAge time.Duration) {
	s.setCookie(w, r, s.config.GetSessionCookieName(), token, maxAge)
}

func (s *Server) ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	s.SetSessionCookie(w, r, "", -1)
}

func (s *Server) SetLoginStateCookie(w http.ResponseWriter, r *http.Request, state string, maxAge time.Duration) {
	s.setCookie(w, r, loginStateCookieName, state, maxAge)
}

func (s *Server) setCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge time.Duration) {
	cookieMaxAge := int(maxAge / time.Second)
	if maxAge < 0 {
		cookieMaxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   cookieMaxAge,
	})
}

// issueSession encodes claim and sets it as the session cookie
func (s *Server) issueSession(w http.ResponseWriter, r *http.Request, claim session.Claim) error {
	token, err := s.codec.Encode(claim)
	if err != nil {
		return err
	}
	s.SetSessionCookie(w, r, token, s.codec.MaxAge())
	return nil
}

// endSession deletes the login session behind the request and clears the cookie
func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.config.GetSessionCookieName()); err == nil && cookie.Value != "" {
		if claim := s.codec.Resolve(cookie.Value); claim != nil && claim.SessionID != "" {
			_ = s.loginSessions.Delete(claim.SessionID)
		}
	}
	s.ClearSessionCookie(w, r)
}

// localPath returns raw when it is a path on this site, otherwise ""
func localPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return u.RequestURI()
}

// withQuery appends key=value to path, keeping any existing query
func withQuery(path, key, value string) string {
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	return path + separator + url.QueryEscape(key) + "=" + url.QueryEscape(value)
}

// loginRedirectPath is the login page, remembering callback when it is a local path
func loginRedirectPath(loginPath, callback string) string {
	if callback = localPath(callback); callback == "" {
		return loginPath
	}
	return withQuery(loginPath, callbackURLParam, callback)
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	redirectSuccess(w, r, withQuery(path, "error", errorMsg))
}

// redirectWithMessage redirects and shows a success message on the target page
func redirectWithMessage(w http.ResponseWriter, r *http.Request, path, message string) {
	redirectSuccess(w, r, withQuery(path, "success", message))
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
