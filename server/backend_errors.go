package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Sajjadhussain197/umsfront/identity"
	apperrors "github.com/Sajjadhussain197/umsfront/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	msgSessionExpired     = "Your session has expired, please sign in again"
	msgForbidden          = "You are not allowed to do that"
	msgUserNotFound       = "User not found"
	msgServiceUnavailable = "The identity service is unavailable, please try again"
)

// Identity error kinds, as counted by metrics
const (
	backendUnauthorized = "unauthorized"
	backendForbidden    = "forbidden"
	backendNotFound     = "not_found"
	backendRejected     = "rejected"
	backendUnavailable  = "unavailable"
)

// handleBackendError turns an identity service failure into a redirect. A rejected
// access token ends the session.
func (s *Server) handleBackendError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if isUnauthorized(err) {
		log.Info().Err(err).Str("path", r.URL.Path).Msg("identity service rejected the session token")
		s.metrics.RecordBackendError(backendUnauthorized)
		s.endSession(w, r)
		redirectWithError(w, r, s.gate.LoginPath(), msgSessionExpired)
		return
	}
	redirectWithError(w, r, fallback, s.backendMessage(err))
}

// backendMessage picks the text shown to the user for an identity service failure
func (s *Server) backendMessage(err error) string {
	message, kind := describeBackendError(err)
	s.metrics.RecordBackendError(kind)
	if kind == backendUnavailable {
		log.Error().Err(err).Msg("identity service call failed")
	}
	return message
}

func describeBackendError(err error) (message, kind string) {
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		return msgForbidden, backendForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return msgUserNotFound, backendNotFound
	}

	var apiErr *identity.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Message != "" {
		return apiErr.Message, backendRejected
	}
	return msgServiceUnavailable, backendUnavailable
}

func isUnauthorized(err error) bool {
	return errors.Is(err, apperrors.ErrUnauthorized)
}

// validationMessage strips the sentinel suffix from a form validation error
func validationMessage(err error) string {
	return strings.TrimSuffix(err.Error(), ": "+apperrors.ErrInvalidUser.Error())
}

var errNoAccess = errors.New("role has no access to this application")
