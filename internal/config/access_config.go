package config

import "github.com/Sajjadhussain197/umsfront/gate"

type Access struct{}

var _ AccessConfig = Access{}

// GetAccessRules returns the role to path-prefix table consulted by the gate
func (Access) GetAccessRules() gate.Rules {
	return gate.DefaultRules()
}
