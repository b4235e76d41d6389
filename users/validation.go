package users

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	apperrors "github.com/Sajjadhussain197/umsfront/internal/errors"
)

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

// ValidatePasswordChange checks a change-password form
func ValidatePasswordChange(oldPassword, newPassword, confirmPassword string) error {
	if oldPassword == "" {
		return fmt.Errorf("current password is required")
	}
	if newPassword != confirmPassword {
		return apperrors.ErrPasswordMismatch
	}
	if newPassword == oldPassword {
		return fmt.Errorf("new password must differ from the current password")
	}
	return ValidatePasswordStrength(newPassword)
}

// ValidateEmail performs a basic format check
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") || !strings.Contains(email[at:], ".") {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// Normalize trims surrounding whitespace from every field
func (r UpdateRequest) Normalize() UpdateRequest {
	return UpdateRequest{
		FullName: strings.TrimSpace(r.FullName),
		Username: strings.TrimSpace(r.Username),
		Email:    strings.TrimSpace(r.Email),
		Role:     strings.TrimSpace(r.Role),
	}
}

// Validate checks required fields. A non-empty role must be one of roles.
func (r UpdateRequest) Validate(roles []string) error {
	if r.FullName == "" {
		return fmt.Errorf("full name is required: %w", apperrors.ErrInvalidUser)
	}
	if r.Username == "" {
		return fmt.Errorf("username is required: %w", apperrors.ErrInvalidUser)
	}
	if err := ValidateEmail(r.Email); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidUser)
	}
	if r.Role != "" && !slices.Contains(roles, r.Role) {
		return fmt.Errorf("unknown role %q: %w", r.Role, apperrors.ErrInvalidUser)
	}
	return nil
}

// Normalize trims surrounding whitespace from every field except the password
func (r CreateRequest) Normalize() CreateRequest {
	return CreateRequest{
		FullName: strings.TrimSpace(r.FullName),
		Username: strings.TrimSpace(r.Username),
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
		Role:     strings.TrimSpace(r.Role),
	}
}

// Validate checks required fields, password strength and that role is one of roles
func (r CreateRequest) Validate(roles []string) error {
	update := UpdateRequest{FullName: r.FullName, Username: r.Username, Email: r.Email, Role: r.Role}
	if err := update.Validate(roles); err != nil {
		return err
	}
	if r.Role == "" {
		return fmt.Errorf("role is required: %w", apperrors.ErrInvalidUser)
	}
	if err := ValidatePasswordStrength(r.Password); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidUser)
	}
	return nil
}
