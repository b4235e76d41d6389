package users

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// User is an account as returned by the identity service
type User struct {
	ID       string `json:"_id"`
	FullName string `json:"fullName,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// DisplayName prefers the full name, then the username, then the email
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// UpdateRequest carries editable account fields. Role is only honoured on admin updates.
type UpdateRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
}

// CreateRequest registers a new account
type CreateRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ChangePasswordRequest is the body of a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ToUpdate returns the editable fields of u
func (u *User) ToUpdate() UpdateRequest {
	return UpdateRequest{
		FullName: u.FullName,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// Apply copies the fields of req onto u. Role is copied only when set.
func (u *User) Apply(req UpdateRequest) {
	u.FullName = req.FullName
	u.Username = req.Username
	u.Email = req.Email
	if req.Role != "" {
		u.Role = req.Role
	}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
