package access

import "slices"

// EffectiveProjectRole returns the highest role actorID holds on project.
// The owner is always RoleOwner, whatever shares exist. Otherwise the
// highest role among direct shares and shares to the actor's teams wins,
// and RoleNone means no access.
func EffectiveProjectRole(actorID string, project Project, shares []Share, memberships []Membership) Role {
	if actorID == "" {
		return RoleNone
	}
	if actorID == project.UserID {
		return RoleOwner
	}
	teams := teamSet(memberships)
	best := RoleNone
	for _, s := range shares {
		if s.ProjectID != project.ID || !applies(s, actorID, teams) {
			continue
		}
		if r := Role(s.Role); s.Role.Known() && r.rank() > best.rank() {
			best = r
		}
	}
	return best
}

// CanViewProject reports whether the actor holds any role on the project.
func CanViewProject(actorID string, project Project, shares []Share, memberships []Membership) bool {
	return EffectiveProjectRole(actorID, project, shares, memberships).AtLeast(RoleViewer)
}

// CanComment requires commenter or above.
func CanComment(actorID string, project Project, shares []Share, memberships []Membership) bool {
	return EffectiveProjectRole(actorID, project, shares, memberships).AtLeast(RoleCommenter)
}

// CanEditTasks requires editor or above.
func CanEditTasks(actorID string, project Project, shares []Share, memberships []Membership) bool {
	return EffectiveProjectRole(actorID, project, shares, memberships).AtLeast(RoleEditor)
}

// CanEditProject requires co_owner or ownership.
func CanEditProject(actorID string, project Project, shares []Share, memberships []Membership) bool {
	return EffectiveProjectRole(actorID, project, shares, memberships).AtLeast(RoleCoOwner)
}

// CanManageSharing is the same check as CanEditProject.
func CanManageSharing(actorID string, project Project, shares []Share, memberships []Membership) bool {
	return CanEditProject(actorID, project, shares, memberships)
}

// AccessibleProjectIDs returns the sorted ids of projects shared with the
// actor directly or through a team. Owned projects without a share are not
// included.
func AccessibleProjectIDs(actorID string, shares []Share, memberships []Membership) []string {
	if actorID == "" {
		return nil
	}
	teams := teamSet(memberships)
	var out []string
	for _, s := range shares {
		if !s.Role.Known() || !applies(s, actorID, teams) || slices.Contains(out, s.ProjectID) {
			continue
		}
		out = append(out, s.ProjectID)
	}
	slices.Sort(out)
	return out
}

func teamSet(memberships []Membership) map[string]bool {
	teams := make(map[string]bool, len(memberships))
	for _, m := range memberships {
		if m.TeamID != "" {
			teams[m.TeamID] = true
		}
	}
	return teams
}

// applies reports whether a well-formed share targets the actor or one of
// the actor's teams.
func applies(s Share, actorID string, teams map[string]bool) bool {
	if !s.wellFormed() {
		return false
	}
	if s.SharedWithUserID != "" {
		return s.SharedWithUserID == actorID
	}
	return teams[s.TeamID]
}
