package dues

import (
	"errors"
	"fmt"
	"strings"
)

// Role of the person using a presentation layer.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleAdmin  Role = "admin"
)

// ErrNotAdmin is returned by presentation layers when a write is attempted
// without an authenticated admin session.
var ErrNotAdmin = errors.New("recording requires an authenticated admin session")

// ParseRole parses a role name, the empty string is a viewer.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "viewer", "resident":
		return RoleViewer, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleViewer, fmt.Errorf("unknown role %q", s)
	}
}

// Session is the explicit login state handed to a presentation layer.
// The accounting functions never read it.
type Session struct {
	Role          Role
	Authenticated bool
}

// CanRecord reports whether the session may append payments or expenses.
func (s Session) CanRecord() bool { return s.Authenticated && s.Role == RoleAdmin }
