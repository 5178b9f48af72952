package types

import (
	"fmt"
	"strings"
)

// Role classifies an injected package and decides its target directory.
type Role int

const (
	// RoleSystemApp injects into <system>/app/<name>
	RoleSystemApp Role = iota
	// RolePrivApp injects into <system>/priv-app/<name>
	RolePrivApp
)

// AllRoles lists every role in processing order.
var AllRoles = []Role{RoleSystemApp, RolePrivApp}

// String returns the user-facing role name.
func (r Role) String() string {
	switch r {
	case RoleSystemApp:
		return "system-app"
	case RolePrivApp:
		return "priv-app"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Dir returns the directory under the system root that hosts the role.
func (r Role) Dir() string {
	switch r {
	case RolePrivApp:
		return "priv-app"
	default:
		return "app"
	}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleSystemApp || r == RolePrivApp
}

// ParseRole accepts the spellings used by the config file and the CLIs.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "system", "system-app", "system_app", "app":
		return RoleSystemApp, nil
	case "priv", "priv-app", "priv_app":
		return RolePrivApp, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}
