package gate_test

import (
	"testing"

	"github.com/Sajjadhussain197/umsfront/gate"
	apperrors "github.com/Sajjadhussain197/umsfront/internal/errors"
	"github.com/Sajjadhussain197/umsfront/session"
	"github.com/stretchr/testify/require"
)

var (
	adminPaths = []string{"/admin", "/admin/dashboard", "/admin/users/new", "/admin/users/42/edit"}
	userPaths  = []string{"/user", "/user/profile", "/user/password", "/user/profile/edit"}
)

func newGate(t *testing.T) *gate.Gate {
	t.Helper()
	g, err := gate.New(gate.DefaultRules())
	require.NoError(t, err)
	return g
}

func claimWithRole(role string) *session.Claim {
	return &session.Claim{SubjectID: "subject-1", Role: role}
}

func TestGate_Scenarios(t *testing.T) {
	g := newGate(t)

	tests := []struct {
		name  string
		path  string
		claim *session.Claim
		want  gate.Decision
	}{
		{"no session on admin", "/admin/dashboard", nil, gate.RedirectTo("/login", apperrors.ErrNoSession)},
		{"user on admin", "/admin/dashboard", claimWithRole("user"), gate.RedirectTo("/user", apperrors.ErrRoleMismatch)},
		{"admin on user", "/user/profile", claimWithRole("admin"), gate.RedirectTo("/admin/dashboard", apperrors.ErrRoleMismatch)},
		{"admin on admin", "/admin/dashboard", claimWithRole("admin"), gate.Allow()},
		{"user on user", "/user/profile", claimWithRole("user"), gate.Allow()},
		{"empty role", "/admin/dashboard", claimWithRole(""), gate.RedirectTo("/login", apperrors.ErrNoSession)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, g.Decide(tt.path, tt.claim))
		})
	}
}

func TestGate_Properties(t *testing.T) {
	g := newGate(t)
	allPaths := append(append([]string{}, adminPaths...), userPaths...)

	t.Run("no session always redirects to login", func(t *testing.T) {
		for _, p := range allPaths {
			d := g.Decide(p, nil)
			require.False(t, d.Allowed(), p)
			require.Equal(t, "/login", d.Target, p)
			require.ErrorIs(t, d.Reason, apperrors.ErrNoSession)
		}
	})

	t.Run("user never enters admin", func(t *testing.T) {
		for _, p := range adminPaths {
			require.Equal(t, gate.RedirectTo("/user", apperrors.ErrRoleMismatch), g.Decide(p, claimWithRole("user")), p)
		}
	})

	t.Run("admin never enters user", func(t *testing.T) {
		for _, p := range userPaths {
			require.Equal(t, gate.RedirectTo("/admin/dashboard", apperrors.ErrRoleMismatch), g.Decide(p, claimWithRole("admin")), p)
		}
	})

	t.Run("roles enter their own prefixes", func(t *testing.T) {
		for _, p := range adminPaths {
			require.True(t, g.Decide(p, claimWithRole("admin")).Allowed(), p)
		}
		for _, p := range userPaths {
			require.True(t, g.Decide(p, claimWithRole("user")).Allowed(), p)
		}
	})

	t.Run("idempotent and claim untouched", func(t *testing.T) {
		for _, p := range allPaths {
			for _, role := range []string{"", "admin", "user", "auditor"} {
				claim := claimWithRole(role)
				before := *claim
				first := g.Decide(p, claim)
				second := g.Decide(p, claim)
				require.Equal(t, first, second)
				require.Equal(t, before, *claim)
			}
		}
	})
}

func TestGate_UnknownRoleFailsClosed(t *testing.T) {
	g := newGate(t)
	for _, p := range []string{"/admin/dashboard", "/user/profile", "/elsewhere"} {
		d := g.Decide(p, claimWithRole("auditor"))
		require.Equal(t, gate.RedirectTo("/login", apperrors.ErrNoSession), d, p)
	}
}

func TestGate_WhitespaceRole(t *testing.T) {
	g := newGate(t)
	require.Equal(t, gate.RedirectTo("/login", apperrors.ErrNoSession), g.Decide("/user", claimWithRole("   ")))
}

func TestGate_SegmentMatching(t *testing.T) {
	g := newGate(t)

	require.True(t, g.IsProtected("/admin"))
	require.True(t, g.IsProtected("/admin/dashboard"))
	require.True(t, g.IsProtected("/user"))
	require.False(t, g.IsProtected("/administrator"))
	require.False(t, g.IsProtected("/users"))
	require.False(t, g.IsProtected("/login"))
	require.False(t, g.IsProtected("/"))

	// outside every prefix a known role is allowed through
	require.True(t, g.Decide("/administrator", claimWithRole("user")).Allowed())
}

func TestGate_ThreeRoleTable(t *testing.T) {
	rules := gate.DefaultRules()
	rules.Roles["auditor"] = gate.RoleRule{Prefixes: []string{"/audit", "/admin/reports"}, Home: "/audit"}
	rules.Roles[gate.RoleAdmin] = gate.RoleRule{Prefixes: []string{"/admin", "/admin/reports", "/audit"}, Home: "/admin/dashboard"}

	g, err := gate.New(rules)
	require.NoError(t, err)

	tests := []struct {
		path string
		role string
		want gate.Decision
	}{
		{"/audit/log", "auditor", gate.Allow()},
		{"/admin/reports/q1", "auditor", gate.Allow()},
		{"/admin/dashboard", "auditor", gate.RedirectTo("/audit", apperrors.ErrRoleMismatch)},
		{"/user", "auditor", gate.RedirectTo("/audit", apperrors.ErrRoleMismatch)},
		{"/audit/log", "admin", gate.Allow()},
		{"/admin/reports/q1", "admin", gate.Allow()},
		{"/audit/log", "user", gate.RedirectTo("/user", apperrors.ErrRoleMismatch)},
		{"/admin/reports/q1", "user", gate.RedirectTo("/user", apperrors.ErrRoleMismatch)},
	}
	for _, tt := range tests {
		t.Run(tt.role+" "+tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, g.Decide(tt.path, claimWithRole(tt.role)))
		})
	}
}

func TestGate_RulesAreCopied(t *testing.T) {
	rules := gate.DefaultRules()
	g, err := gate.New(rules)
	require.NoError(t, err)

	rules.Roles[gate.RoleUser] = gate.RoleRule{Prefixes: []string{"/admin"}, Home: "/admin"}
	require.Equal(t, gate.RedirectTo("/user", apperrors.ErrRoleMismatch), g.Decide("/admin", claimWithRole("user")))
}

func TestGate_HomeFor(t *testing.T) {
	g := newGate(t)

	home, ok := g.HomeFor("admin")
	require.True(t, ok)
	require.Equal(t, "/admin/dashboard", home)

	home, ok = g.HomeFor("user")
	require.True(t, ok)
	require.Equal(t, "/user", home)

	_, ok = g.HomeFor("auditor")
	require.False(t, ok)

	require.Equal(t, []string{"admin", "user"}, g.Roles())
	require.Equal(t, "/login", g.LoginPath())
}

func TestRules_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rules   gate.Rules
		wantErr string
	}{
		{"bad login path", gate.Rules{LoginPath: "login", Roles: gate.DefaultRules().Roles}, "login path"},
		{"no roles", gate.Rules{LoginPath: "/login"}, "at least one role"},
		{"empty role", gate.Rules{LoginPath: "/login", Roles: map[string]gate.RoleRule{"": {Prefixes: []string{"/x"}, Home: "/x"}}}, "role name cannot be empty"},
		{"bad home", gate.Rules{LoginPath: "/login", Roles: map[string]gate.RoleRule{"x": {Prefixes: []string{"/x"}, Home: "x"}}}, "home"},
		{"no prefixes", gate.Rules{LoginPath: "/login", Roles: map[string]gate.RoleRule{"x": {Home: "/x"}}}, "at least one prefix"},
		{"root prefix", gate.Rules{LoginPath: "/login", Roles: map[string]gate.RoleRule{"x": {Prefixes: []string{"/"}, Home: "/x"}}}, "invalid prefix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rules.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)

			_, err = gate.New(tt.rules)
			require.Error(t, err)
		})
	}

	require.NoError(t, gate.DefaultRules().Validate())
}

func TestDecision_String(t *testing.T) {
	require.Equal(t, "allow", gate.Allow().String())
	require.Equal(t, "redirect(/login)", gate.RedirectTo("/login", apperrors.ErrNoSession).String())
}
