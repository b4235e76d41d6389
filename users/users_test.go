package users_test

import (
	"testing"

	apperrors "github.com/Sajjadhussain197/umsfront/internal/errors"
	"github.com/Sajjadhussain197/umsfront/users"
	"github.com/stretchr/testify/require"
)

var roles = []string{"admin", "user"}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		wantErr  string
	}{
		{"Passw0rd", ""},
		{"Sh0rt", "at least 8 characters"},
		{"password1", "uppercase"},
		{"PASSWORD1", "lowercase"},
		{"Password", "number"},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := users.ValidatePasswordStrength(tt.password)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidatePasswordChange(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, users.ValidatePasswordChange("OldPassw0rd", "NewPassw0rd", "NewPassw0rd"))
	})

	t.Run("missing current password", func(t *testing.T) {
		err := users.ValidatePasswordChange("", "NewPassw0rd", "NewPassw0rd")
		require.Error(t, err)
		require.Contains(t, err.Error(), "current password is required")
	})

	t.Run("confirmation mismatch", func(t *testing.T) {
		err := users.ValidatePasswordChange("OldPassw0rd", "NewPassw0rd", "NewPassw0rX")
		require.ErrorIs(t, err, apperrors.ErrPasswordMismatch)
	})

	t.Run("unchanged", func(t *testing.T) {
		err := users.ValidatePasswordChange("SamePassw0rd", "SamePassw0rd", "SamePassw0rd")
		require.Error(t, err)
		require.Contains(t, err.Error(), "must differ")
	})

	t.Run("weak", func(t *testing.T) {
		err := users.ValidatePasswordChange("OldPassw0rd", "weak", "weak")
		require.Error(t, err)
		require.Contains(t, err.Error(), "at least 8 characters")
	})
}

func TestValidateEmail(t *testing.T) {
	require.NoError(t, users.ValidateEmail("jane@example.com"))
	for _, email := range []string{"", "jane", "@example.com", "jane@example", "a@b@example.com"} {
		require.Error(t, users.ValidateEmail(email), email)
	}
}

func TestUpdateRequest_Validate(t *testing.T) {
	valid := users.UpdateRequest{FullName: "Jane Doe", Username: "jane", Email: "jane@example.com"}
	require.NoError(t, valid.Validate(roles))

	withRole := valid
	withRole.Role = "admin"
	require.NoError(t, withRole.Validate(roles))

	tests := []struct {
		name    string
		mutate  func(r *users.UpdateRequest)
		wantErr string
	}{
		{"no full name", func(r *users.UpdateRequest) { r.FullName = "" }, "full name is required"},
		{"no username", func(r *users.UpdateRequest) { r.Username = "" }, "username is required"},
		{"bad email", func(r *users.UpdateRequest) { r.Email = "jane" }, "invalid email format"},
		{"unknown role", func(r *users.UpdateRequest) { r.Role = "root" }, "unknown role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate(roles)
			require.ErrorIs(t, err, apperrors.ErrInvalidUser)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCreateRequest_Validate(t *testing.T) {
	req := users.CreateRequest{
		FullName: " Jane Doe ",
		Username: "jane",
		Email:    "jane@example.com ",
		Password: "Passw0rd!",
		Role:     "user",
	}.Normalize()
	require.Equal(t, "Jane Doe", req.FullName)
	require.Equal(t, "jane@example.com", req.Email)
	require.NoError(t, req.Validate(roles))

	noRole := req
	noRole.Role = ""
	require.ErrorContains(t, noRole.Validate(roles), "role is required")

	weak := req
	weak.Password = "weak"
	require.ErrorIs(t, weak.Validate(roles), apperrors.ErrInvalidUser)
}

func TestUser_DisplayNameAndApply(t *testing.T) {
	u := &users.User{ID: "1", Username: "jane", Email: "jane@example.com", Role: "user"}
	require.Equal(t, "jane", u.DisplayName())

	u.Apply(users.UpdateRequest{FullName: "Jane Doe", Username: "jdoe", Email: "jd@example.com"})
	require.Equal(t, "Jane Doe", u.DisplayName())
	require.Equal(t, "user", u.Role)

	u.Apply(users.UpdateRequest{FullName: "Jane Doe", Username: "jdoe", Email: "jd@example.com", Role: "admin"})
	require.Equal(t, "admin", u.Role)
	require.Equal(t, users.UpdateRequest{FullName: "Jane Doe", Username: "jdoe", Email: "jd@example.com", Role: "admin"}, u.ToUpdate())

	require.Equal(t, "x@example.com", (&users.User{Email: "x@example.com"}).DisplayName())
}

func TestPasswordHash(t *testing.T) {
	hash, err := users.HashPassword("Passw0rd")
	require.NoError(t, err)
	require.True(t, users.CheckPasswordHash("Passw0rd", hash))
	require.False(t, users.CheckPasswordHash("wrong", hash))
}
