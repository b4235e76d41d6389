package server

import (
	"net/http"

	"github.com/Sajjadhussain197/umsfront/server/loginsession"
	"github.com/Sajjadhussain197/umsfront/session"
	"github.com/Sajjadhussain197/umsfront/users"
	"github.com/rs/zerolog/log"
)

// AdminDashboardData is the model of the user list
type AdminDashboardData struct {
	Users         []users.User
	CurrentUserID string
	LoadError     string
}

// UserFormData is the model of the admin create and edit forms
type UserFormData struct {
	Action      string
	SubmitLabel string
	IsNew       bool
	ID          string
	FullName    string
	Username    string
	Email       string
	Role        string
	Roles       []string
}

// AdminDashboardHandler lists every account
func (s *Server) AdminDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claim, loginSession := s.currentSession(r)

		list, err := s.identity.ListUsers(r.Context(), loginSession.AccessToken)
		data := AdminDashboardData{Users: list, CurrentUserID: claim.SubjectID}
		if err != nil {
			if isUnauthorized(err) {
				s.handleBackendError(w, r, err, RouteAdminDashboard)
				return
			}
			data.LoadError = s.backendMessage(err)
		}

		s.renderPage(w, r, "dashboard", "Users", "admin_dashboard.html", data)
	}
}

// AdminNewUserHandler renders the create user form
func (s *Server) AdminNewUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		data := UserFormData{
			Action:      RouteAdminUsers,
			SubmitLabel: "Create user",
			IsNew:       true,
			FullName:    query.Get("fullName"),
			Username:    query.Get("username"),
			Email:       query.Get("email"),
			Role:        query.Get("role"),
			Roles:       s.gate.Roles(),
		}
		s.renderPage(w, r, "new-user", "New user", "admin_user_form.html", data)
	}
}

// AdminCreateUserHandler registers an account with the identity service
func (s *Server) AdminCreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		_, loginSession := s.currentSession(r)

		req := users.CreateRequest{
			FullName: r.FormValue("fullName"),
			Username: r.FormValue("username"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
			Role:     r.FormValue("role"),
		}.Normalize()

		// Keep the entered values when sending the form back
		retry := withQuery(withQuery(withQuery(withQuery(RouteAdminUserNew,
			"fullName", req.FullName), "username", req.Username), "email", req.Email), "role", req.Role)

		if err := req.Validate(s.gate.Roles()); err != nil {
			redirectWithError(w, r, retry, validationMessage(err))
			return
		}

		created, err := s.identity.Register(r.Context(), loginSession.AccessToken, req)
		if err != nil {
			s.handleBackendError(w, r, err, retry)
			return
		}

		log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user created")
		redirectWithMessage(w, r, RouteAdminDashboard, "User "+created.Email+" created")
	}
}

// AdminEditUserHandler renders the edit form of one account
func (s *Server) AdminEditUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, loginSession := s.currentSession(r)
		id := r.PathValue("id")

		user, err := s.identity.GetUser(r.Context(), loginSession.AccessToken, id)
		if err != nil {
			s.handleBackendError(w, r, err, RouteAdminDashboard)
			return
		}

		data := UserFormData{
			Action:      adminUserPath(RouteAdminUser, user.ID),
			SubmitLabel: "Save changes",
			ID:          user.ID,
			FullName:    user.FullName,
			Username:    user.Username,
			Email:       user.Email,
			Role:        user.Role,
			Roles:       s.gate.Roles(),
		}
		s.renderPage(w, r, "dashboard", "Edit user", "admin_user_form.html", data)
	}
}

// AdminUpdateUserHandler saves the edit form
func (s *Server) AdminUpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		claim, loginSession := s.currentSession(r)
		id := r.PathValue("id")
		editPath := adminUserPath(RouteAdminUserEdit, id)

		req := users.UpdateRequest{
			FullName: r.FormValue("fullName"),
			Username: r.FormValue("username"),
			Email:    r.FormValue("email"),
			Role:     r.FormValue("role"),
		}.Normalize()
		if err := req.Validate(s.gate.Roles()); err != nil {
			redirectWithError(w, r, editPath, validationMessage(err))
			return
		}

		updated, err := s.identity.UpdateUser(r.Context(), loginSession.AccessToken, id, req)
		if err != nil {
			s.handleBackendError(w, r, err, editPath)
			return
		}

		// Other accounts sign in again to pick up a changed role
		if updated.ID == claim.SubjectID {
			s.refreshClaim(w, r, claim, updated)
		} else {
			_ = s.loginSessions.DeleteBySubject(updated.ID)
		}

		redirectWithMessage(w, r, RouteAdminDashboard, "User "+updated.Email+" updated")
	}
}

// AdminDeleteUserHandler deletes another account. Admins cannot delete themselves here.
func (s *Server) AdminDeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claim, loginSession := s.currentSession(r)
		id := r.PathValue("id")

		if id == claim.SubjectID {
			redirectWithError(w, r, RouteAdminDashboard, "You cannot delete your own account")
			return
		}

		if err := s.identity.DeleteUser(r.Context(), loginSession.AccessToken, id); err != nil {
			s.handleBackendError(w, r, err, RouteAdminDashboard)
			return
		}
		_ = s.loginSessions.DeleteBySubject(id)

		log.Info().Str("user_id", id).Str("by", claim.SubjectID).Msg("user deleted")
		redirectWithMessage(w, r, RouteAdminDashboard, "User deleted")
	}
}

// currentSession returns the claim and login session of a gated request
func (s *Server) currentSession(r *http.Request) (*session.Claim, loginsession.Session) {
	current, _ := loginSessionFromContext(r.Context())
	return session.ClaimFromContext(r.Context()), current
}
