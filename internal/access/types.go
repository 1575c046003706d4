package access

// Project is the unit access is granted on. UserID is the owner, who always
// has full authority.
type Project struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	UserID string `yaml:"owner" json:"user_id"`
}

// Share grants Role on a project to exactly one of a user or a team.
type Share struct {
	ID               string    `yaml:"id" json:"id"`
	ProjectID        string    `yaml:"project" json:"project_id"`
	SharedWithUserID string    `yaml:"user,omitempty" json:"shared_with_user_id,omitempty"`
	TeamID           string    `yaml:"team,omitempty" json:"team_id,omitempty"`
	Role             ShareRole `yaml:"role" json:"role"`
}

// wellFormed reports whether exactly one target is set.
func (s Share) wellFormed() bool {
	return (s.SharedWithUserID == "") != (s.TeamID == "")
}

// Team groups users so a project can be shared with all of them at once.
type Team struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name,omitempty" json:"name,omitempty"`
	OwnerID string `yaml:"owner" json:"owner_id"`
}

// Member is one user's row in a team.
type Member struct {
	TeamID string   `yaml:"team" json:"team_id"`
	UserID string   `yaml:"user" json:"user_id"`
	Role   TeamRole `yaml:"role" json:"role"`
}

// Membership is one of the actor's own team memberships.
type Membership struct {
	TeamID string   `json:"team_id"`
	Role   TeamRole `json:"role"`
}

// MembershipsOf returns the memberships members records for actorID.
func MembershipsOf(actorID string, members []Member) []Membership {
	if actorID == "" {
		return nil
	}
	var out []Membership
	for _, m := range members {
		if m.UserID == actorID {
			out = append(out, Membership{TeamID: m.TeamID, Role: m.Role})
		}
	}
	return out
}
