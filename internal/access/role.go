// Package access decides what an actor may do on a project or team, from
// project ownership, direct shares, and the actor's team memberships.
// Every check denies by default: an unknown role, a malformed share, or an
// empty actor id grants nothing.
package access

import (
	"fmt"
	"strings"
)

// ShareRole is the privilege granted by a project share, lowest first:
// viewer < commenter < editor < co_owner.
type ShareRole string

// Share roles.
const (
	Viewer    ShareRole = "viewer"
	Commenter ShareRole = "commenter"
	Editor    ShareRole = "editor"
	CoOwner   ShareRole = "co_owner"
)

// ShareRoles lists the share roles from lowest to highest privilege.
var ShareRoles = []ShareRole{Viewer, Commenter, Editor, CoOwner}

// TeamRole is a member's standing within a team.
type TeamRole string

// Team roles. Guest and member rank equally below admin.
const (
	TeamOwner  TeamRole = "owner"
	TeamAdmin  TeamRole = "admin"
	TeamMember TeamRole = "member"
	TeamGuest  TeamRole = "guest"
)

// TeamRoles lists the team roles.
var TeamRoles = []TeamRole{TeamOwner, TeamAdmin, TeamMember, TeamGuest}

// Role is an actor's effective role on a project: RoleOwner, one of the
// share roles, or RoleNone.
type Role string

// Effective roles beyond the share roles.
const (
	RoleNone  Role = ""
	RoleOwner Role = "owner"
)

// Effective-role equivalents of the share roles.
const (
	RoleViewer    = Role(Viewer)
	RoleCommenter = Role(Commenter)
	RoleEditor    = Role(Editor)
	RoleCoOwner   = Role(CoOwner)
)

func (r Role) rank() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleCommenter:
		return 2 //nolint:mnd // hierarchy index
	case RoleEditor:
		return 3 //nolint:mnd // hierarchy index
	case RoleCoOwner:
		return 4 //nolint:mnd // hierarchy index
	case RoleOwner:
		return 5 //nolint:mnd // hierarchy index
	}
	return 0
}

// AtLeast reports whether r grants at least the privilege of minRole.
// RoleNone satisfies nothing.
func (r Role) AtLeast(minRole Role) bool {
	return r.rank() > 0 && r.rank() >= minRole.rank()
}

// Known reports whether r is a recognized share role.
func (r ShareRole) Known() bool {
	return Role(r).rank() > 0 && Role(r) != RoleOwner
}

// Known reports whether r is a recognized team role.
func (r TeamRole) Known() bool {
	switch r {
	case TeamOwner, TeamAdmin, TeamMember, TeamGuest:
		return true
	}
	return false
}

func (r TeamRole) basic() bool {
	return r == TeamMember || r == TeamGuest
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

// ParseShareRole normalizes s ("Co-Owner" -> co_owner) to a share role.
func ParseShareRole(s string) (ShareRole, error) {
	r := ShareRole(normalize(s))
	if r == "coowner" {
		r = CoOwner
	}
	if !r.Known() {
		return "", fmt.Errorf("unknown share role %q", s)
	}
	return r, nil
}

// ParseTeamRole normalizes s to a team role.
func ParseTeamRole(s string) (TeamRole, error) {
	r := TeamRole(normalize(s))
	if !r.Known() {
		return "", fmt.Errorf("unknown team role %q", s)
	}
	return r, nil
}

// UnmarshalText normalizes spelling variants; unknown values are kept and grant nothing.
func (r *ShareRole) UnmarshalText(text []byte) error {
	if parsed, err := ParseShareRole(string(text)); err == nil {
		*r = parsed
		return nil
	}
	*r = ShareRole(normalize(string(text)))
	return nil
}

// UnmarshalText normalizes spelling variants; unknown values are kept and grant nothing.
func (r *TeamRole) UnmarshalText(text []byte) error {
	*r = TeamRole(normalize(string(text)))
	return nil
}
