package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/Sajjadhussain197/umsfront/internal/errors"
	"github.com/Sajjadhussain197/umsfront/users"
)

// Identity service endpoints
const (
	PathLogin          = "/api/auth/users/login"
	PathRegister       = "/api/auth/users/register"
	PathListUsers      = "/api/auth/users/getallusers"
	PathGetUser        = "/api/auth/users/getuserbyid/"
	PathUpdateAccount  = "/api/auth/users/update-account"
	PathUpdateUser     = "/api/auth/users/update-user/"
	PathChangePassword = "/api/auth/users/change-password"
	PathDeleteUser     = "/api/auth/users/delete-user/"
)

// Service is the set of identity operations the front end relies on
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, accessToken string, req users.CreateRequest) (*users.User, error)
	ListUsers(ctx context.Context, accessToken string) ([]users.User, error)
	GetUser(ctx context.Context, accessToken, id string) (*users.User, error)
	UpdateAccount(ctx context.Context, accessToken string, req users.UpdateRequest) (*users.User, error)
	UpdateUser(ctx context.Context, accessToken, id string, req users.UpdateRequest) (*users.User, error)
	ChangePassword(ctx context.Context, accessToken string, req users.ChangePasswordRequest) error
	DeleteUser(ctx context.Context, accessToken, id string) error
}

// Response is the envelope every identity endpoint answers with
type Response struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode,omitempty"`
	Message    string          `json:"message,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// LoginRequest is the credential exchange body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginData is the payload of a successful credential exchange
type LoginData struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         users.User `json:"user"`
}

// LoginResult is what the front end keeps from a credential exchange
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         users.User
}

// APIError is a non-success answer from the identity service
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("identity service returned %d", e.Status)
	}
	return fmt.Sprintf("identity service returned %d: %s", e.Status, e.Message)
}

// Unwrap maps the status onto the shared sentinel errors
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case http.StatusForbidden:
		return apperrors.ErrForbidden
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	default:
		return apperrors.ErrBackend
	}
}
