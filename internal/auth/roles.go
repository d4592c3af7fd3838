package auth

import (
	"fmt"
	"strings"
)

// Role is a user's global role.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleManager   Role = "MANAGER"
	RoleDeveloper Role = "DEVELOPER"
)

// ParseRole validates a role string supplied by a client.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleManager:
		return RoleManager, nil
	case RoleDeveloper:
		return RoleDeveloper, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Authorize implements the global role check: ADMIN passes every gate,
// everyone else passes only a gate for their exact role. There is no
// hierarchy between MANAGER and DEVELOPER.
func Authorize(caller, required Role) bool {
	return caller == RoleAdmin || caller == required
}

// AuthorizeAny reports whether the caller passes at least one of the gates.
func AuthorizeAny(caller Role, required ...Role) bool {
	for _, r := range required {
		if Authorize(caller, r) {
			return true
		}
	}
	return caller == RoleAdmin
}
