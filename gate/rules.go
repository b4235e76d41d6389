package gate

import (
	"fmt"
	"sort"
	"strings"
)

// Role names of the default rule table
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Fixed paths of the default rule table
const (
	DefaultLoginPath = "/login"
	AdminPrefix      = "/admin"
	UserPrefix       = "/user"
	AdminHome        = "/admin/dashboard"
	UserHome         = "/user"
)

// RoleRule lists the protected prefixes a role may enter and where the role is sent
// when it asks for a protected path outside them.
type RoleRule struct {
	Prefixes []string
	Home     string
}

// Rules is the role to allowed-prefix table consulted by the gate
type Rules struct {
	LoginPath string
	Roles     map[string]RoleRule
}

// DefaultRules returns the two-role table: admins own /admin, users own /user
func DefaultRules() Rules {
	return Rules{
		LoginPath: DefaultLoginPath,
		Roles: map[string]RoleRule{
			RoleAdmin: {Prefixes: []string{AdminPrefix}, Home: AdminHome},
			RoleUser:  {Prefixes: []string{UserPrefix}, Home: UserHome},
		},
	}
}

// Validate checks that the table is usable
func (r Rules) Validate() error {
	if !strings.HasPrefix(r.LoginPath, "/") {
		return fmt.Errorf("login path %q must start with '/'", r.LoginPath)
	}
	if len(r.Roles) == 0 {
		return fmt.Errorf("at least one role is required")
	}
	for role, rule := range r.Roles {
		if strings.TrimSpace(role) == "" {
			return fmt.Errorf("role name cannot be empty")
		}
		if !strings.HasPrefix(rule.Home, "/") {
			return fmt.Errorf("role %q: home %q must start with '/'", role, rule.Home)
		}
		if len(rule.Prefixes) == 0 {
			return fmt.Errorf("role %q: at least one prefix is required", role)
		}
		for _, prefix := range rule.Prefixes {
			if !strings.HasPrefix(prefix, "/") || prefix == "/" {
				return fmt.Errorf("role %q: invalid prefix %q", role, prefix)
			}
		}
	}
	return nil
}

// RoleNames returns the configured roles, sorted
func (r Rules) RoleNames() []string {
	names := make([]string, 0, len(r.Roles))
	for role := range r.Roles {
		names = append(names, role)
	}
	sort.Strings(names)
	return names
}

func (r Rules) clone() Rules {
	c := Rules{LoginPath: r.LoginPath, Roles: make(map[string]RoleRule, len(r.Roles))}
	for role, rule := range r.Roles {
		prefixes := make([]string, len(rule.Prefixes))
		for i, p := range rule.Prefixes {
			prefixes[i] = strings.TrimRight(p, "/")
		}
		c.Roles[role] = RoleRule{Prefixes: prefixes, Home: rule.Home}
	}
	return c
}

// hasPathPrefix matches whole path segments: /admin matches /admin and /admin/x, not /administrator
func hasPathPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
