package access

import (
	"errors"
	"fmt"
)

// Validation sentinels.
var (
	ErrInvalidShare = errors.New("invalid share")
	ErrInvalidTeam  = errors.New("invalid team")
)

// ValidateShare checks that a share names a project, a known role, and
// exactly one of a user or a team.
func ValidateShare(s Share) error {
	switch {
	case s.ProjectID == "":
		return fmt.Errorf("%w: no project", ErrInvalidShare)
	case s.SharedWithUserID != "" && s.TeamID != "":
		return fmt.Errorf("%w: both user %q and team %q set", ErrInvalidShare, s.SharedWithUserID, s.TeamID)
	case s.SharedWithUserID == "" && s.TeamID == "":
		return fmt.Errorf("%w: neither user nor team set", ErrInvalidShare)
	case !s.Role.Known():
		return fmt.Errorf("%w: unknown role %q", ErrInvalidShare, s.Role)
	}
	return nil
}

// ValidateTeam checks the members of team: known roles, no user listed
// twice, and exactly one owner who matches Team.OwnerID.
func ValidateTeam(team Team, members []Member) error {
	if team.ID == "" || team.OwnerID == "" {
		return fmt.Errorf("%w: team needs an id and an owner", ErrInvalidTeam)
	}
	seen := map[string]bool{}
	owners := 0
	for _, m := range members {
		if m.TeamID != team.ID {
			continue
		}
		if !m.Role.Known() {
			return fmt.Errorf("%w: %s has unknown role %q", ErrInvalidTeam, m.UserID, m.Role)
		}
		if seen[m.UserID] {
			return fmt.Errorf("%w: %s listed twice", ErrInvalidTeam, m.UserID)
		}
		seen[m.UserID] = true
		if m.Role == TeamOwner {
			owners++
			if m.UserID != team.OwnerID {
				return fmt.Errorf("%w: owner role held by %s, team owner is %s", ErrInvalidTeam, m.UserID, team.OwnerID)
			}
		}
	}
	if owners != 1 {
		return fmt.Errorf("%w: team %s has %d owners, want 1", ErrInvalidTeam, team.ID, owners)
	}
	return nil
}
