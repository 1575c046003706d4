package access

// teamRole returns the actor's role in team. The team's OwnerID is owner
// even without a member row.
func teamRole(actorID string, team Team, members []Member) TeamRole {
	if actorID == "" {
		return ""
	}
	if actorID == team.OwnerID {
		return TeamOwner
	}
	for _, m := range members {
		if m.TeamID == team.ID && m.UserID == actorID {
			return m.Role
		}
	}
	return ""
}

func isOwner(target Member, team Team) bool {
	return target.Role == TeamOwner || (target.UserID != "" && target.UserID == team.OwnerID)
}

// CanManageTeam is true for the team owner and for admins.
func CanManageTeam(actorID string, team Team, members []Member) bool {
	switch teamRole(actorID, team, members) {
	case TeamOwner, TeamAdmin:
		return true
	}
	return false
}

// CanInviteToTeam is the same check as CanManageTeam.
func CanInviteToTeam(actorID string, team Team, members []Member) bool {
	return CanManageTeam(actorID, team, members)
}

// CanRemoveMember decides whether actorID may remove target from team.
// Nobody removes themselves here (that is leaving) and the owner is never
// removable. Admins may remove members and guests only.
func CanRemoveMember(actorID string, team Team, members []Member, target Member) bool {
	if target.TeamID != team.ID || target.UserID == actorID || isOwner(target, team) {
		return false
	}
	switch teamRole(actorID, team, members) {
	case TeamOwner:
		return true
	case TeamAdmin:
		return target.Role.basic()
	}
	return false
}

// CanChangeRole decides whether actorID may move target to newRole.
// Ownership never changes hands here. Admins may only move people between
// member and guest.
func CanChangeRole(actorID string, team Team, members []Member, target Member, newRole TeamRole) bool {
	if target.TeamID != team.ID || !newRole.Known() {
		return false
	}
	actorRole := teamRole(actorID, team, members)
	if target.UserID == actorID && actorRole != TeamOwner {
		return false
	}
	if isOwner(target, team) || newRole == TeamOwner {
		return false
	}
	switch actorRole {
	case TeamOwner:
		return true
	case TeamAdmin:
		return target.Role.basic() && newRole.basic()
	}
	return false
}
