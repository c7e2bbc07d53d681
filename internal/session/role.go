package session

import (
	"fmt"
	"strings"
)

// Role is a closed set: every user of the marketplace is either a
// job-seeking talent or a hiring company. Views dispatch on it rather
// than branching ad hoc, so each role's allowed actions stay checkable.
type Role string

const (
	RoleTalent  Role = "talent"
	RoleCompany Role = "company"
)

// ParseRole validates a raw role claim. Unknown roles are rejected at
// login rather than silently treated as one of the two.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleTalent:
		return RoleTalent, nil
	case RoleCompany:
		return RoleCompany, nil
	default:
		return "", fmt.Errorf("session: unknown role %q", raw)
	}
}

// IsCompany reports whether this is the hiring-organization role.
func (r Role) IsCompany() bool { return r == RoleCompany }

// IsTalent reports whether this is the job-seeking role.
func (r Role) IsTalent() bool { return r == RoleTalent }

// String returns the wire form of the role.
func (r Role) String() string { return string(r) }

// FriendlyName returns a label suitable for the header bar.
func (r Role) FriendlyName() string {
	switch r {
	case RoleTalent:
		return "Talent"
	case RoleCompany:
		return "Company"
	default:
		return "Unknown"
	}
}
