package server

import (
	"errors"
	"net/http"

	apperrors "github.com/Sajjadhussain197/umsfront/internal/errors"
	"github.com/Sajjadhussain197/umsfront/server/loginsession"
	"github.com/Sajjadhussain197/umsfront/session"
	"github.com/Sajjadhussain197/umsfront/users"
	"github.com/rs/zerolog/log"
)

// ProfileData is the model of the profile pages
type ProfileData struct {
	User  users.User
	Paths selfServicePaths
}

// UserProfileHandler shows the signed-in account
func (s *Server) UserProfileHandler(paths selfServicePaths) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claim, loginSession := s.currentSession(r)

		user, err := s.identity.GetUser(r.Context(), loginSession.AccessToken, claim.SubjectID)
		if err != nil {
			s.handleBackendError(w, r, err, RouteIndex)
			return
		}
		s.renderPage(w, r, "profile", "My profile", "user_profile.html", ProfileData{User: *user, Paths: paths})
	}
}

// UserEditProfileHandler renders the profile form
func (s *Server) UserEditProfileHandler(paths selfServicePaths) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claim, loginSession := s.currentSession(r)

		user, err := s.identity.GetUser(r.Context(), loginSession.AccessToken, claim.SubjectID)
		if err != nil {
			s.handleBackendError(w, r, err, paths.Profile)
			return
		}
		s.renderPage(w, r, "profile", "Edit profile", "user_profile_form.html", ProfileData{User: *user, Paths: paths})
	}
}

// UserUpdateProfileHandler saves the profile form. The role is never editable here.
func (s *Server) UserUpdateProfileHandler(paths selfServicePaths) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		claim, loginSession := s.currentSession(r)

		req := users.UpdateRequest{
			FullName: r.FormValue("fullName"),
			Username: r.FormValue("username"),
			Email:    r.FormValue("email"),
		}.Normalize()
		if err := req.Validate(nil); err != nil {
			redirectWithError(w, r, paths.Edit, validationMessage(err))
			return
		}

		updated, err := s.identity.UpdateAccount(r.Context(), loginSession.AccessToken, req)
		if err != nil {
			s.handleBackendError(w, r, err, paths.Edit)
			return
		}
		s.refreshClaim(w, r, claim, updated)

		redirectWithMessage(w, r, paths.Profile, "Profile updated")
	}
}

// UserPasswordHandler renders the change password form
func (s *Server) UserPasswordHandler(paths selfServicePaths) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, "password", "Change password", "user_password.html", ProfileData{Paths: paths})
	}
}

// UserChangePasswordHandler processes the change password form
func (s *Server) UserChangePasswordHandler(paths selfServicePaths) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		_, loginSession := s.currentSession(r)

		oldPassword := r.FormValue("old_password")
		newPassword := r.FormValue("new_password")
		confirmPassword := r.FormValue("confirm_password")

		if err := users.ValidatePasswordChange(oldPassword, newPassword, confirmPassword); err != nil {
			msg := err.Error()
			if errors.Is(err, apperrors.ErrPasswordMismatch) {
				msg = "New password and confirmation do not match"
			}
			redirectWithError(w, r, paths.Password, msg)
			return
		}

		err := s.identity.ChangePassword(r.Context(), loginSession.AccessToken, users.ChangePasswordRequest{
			OldPassword: oldPassword,
			NewPassword: newPassword,
		})
		if err != nil {
			s.handleBackendError(w, r, err, paths.Password)
			return
		}

		redirectWithMessage(w, r, paths.Profile, "Password changed")
	}
}

// UserDeleteHandler deletes the signed-in account and ends every session of it
func (s *Server) UserDeleteHandler(paths selfServicePaths) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claim, loginSession := s.currentSession(r)

		if err := s.identity.DeleteUser(r.Context(), loginSession.AccessToken, claim.SubjectID); err != nil {
			s.handleBackendError(w, r, err, paths.Profile)
			return
		}
		_ = s.loginSessions.DeleteBySubject(claim.SubjectID)
		s.ClearSessionCookie(w, r)

		log.Info().Str("user_id", claim.SubjectID).Msg("account deleted by its owner")
		redirectWithMessage(w, r, s.gate.LoginPath(), "Your account has been deleted")
	}
}

// refreshClaim reissues the session cookie after the signed-in account changed.
// A changed role moves the browser to a new login session.
func (s *Server) refreshClaim(w http.ResponseWriter, r *http.Request, claim *session.Claim, updated *users.User) {
	refreshed := *claim
	refreshed.Name = updated.DisplayName()
	refreshed.Email = updated.Email
	if updated.Role != "" && updated.Role != claim.Role {
		sessionID, err := s.rotateLoginSession(r, updated.Role)
		if err != nil {
			log.Err(err).Str("user_id", claim.SubjectID).Msg("Failed to start session for new role")
			s.endSession(w, r)
			return
		}
		refreshed.Role = updated.Role
		refreshed.SessionID = sessionID
	}
	if err := s.issueSession(w, r, refreshed); err != nil {
		log.Err(err).Msg("Failed to refresh session cookie")
	}
}

// rotateLoginSession ends every session of the account and copies the request's login
// session under a new ID bound to role
func (s *Server) rotateLoginSession(r *http.Request, role string) (string, error) {
	current, ok := loginSessionFromContext(r.Context())
	if !ok {
		return "", apperrors.ErrSessionNotFound
	}
	_ = s.loginSessions.DeleteBySubject(current.SubjectID)

	next := current
	next.Role = role
	next.CreatedAt = loginsession.NowTimeFunc()
	return s.loginSessions.Create(next)
}
