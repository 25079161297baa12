package identity

import (
	"fmt"
	"strings"
)

// Role is the fixed set of user roles
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleAccounting Role = "accounting"
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleAccounting
}

func (r Role) String() string {
	return string(r)
}

// ParseRole reads a role name case-insensitively
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Action is something a user may try to do
type Action string

const (
	ActionViewReports      Action = "reports:view"
	ActionEditReport       Action = "reports:edit"
	ActionSubmitReport     Action = "reports:submit"
	ActionLockReport       Action = "reports:lock"
	ActionExportReports    Action = "reports:export"
	ActionViewMasterData   Action = "masterdata:view"
	ActionManageMasterData Action = "masterdata:manage"
)

var adminOnly = map[Action]bool{
	ActionLockReport:       true,
	ActionManageMasterData: true,
}

// Can reports whether role may perform action
func Can(role Role, action Action) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleAccounting:
		return !adminOnly[action]
	}
	return false
}
