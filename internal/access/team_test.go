package access

import "testing"

var (
	team    = Team{ID: "t1", OwnerID: "own"}
	owner   = Member{TeamID: "t1", UserID: "own", Role: TeamOwner}
	admin   = Member{TeamID: "t1", UserID: "adm", Role: TeamAdmin}
	admin2  = Member{TeamID: "t1", UserID: "adm2", Role: TeamAdmin}
	member  = Member{TeamID: "t1", UserID: "mem", Role: TeamMember}
	guest   = Member{TeamID: "t1", UserID: "gst", Role: TeamGuest}
	members = []Member{owner, admin, admin2, member, guest}
)

func TestCanManageTeam(t *testing.T) {
	tests := map[string]bool{"own": true, "adm": true, "mem": false, "gst": false, "stranger": false, "": false}
	for actor, want := range tests {
		if got := CanManageTeam(actor, team, members); got != want {
			t.Errorf("CanManageTeam(%q) = %v, want %v", actor, got, want)
		}
		if got := CanInviteToTeam(actor, team, members); got != want {
			t.Errorf("CanInviteToTeam(%q) = %v, want %v", actor, got, want)
		}
	}
}

func TestCanRemoveMember(t *testing.T) {
	tests := []struct {
		actor  string
		target Member
		want   bool
	}{
		{"own", admin, true},
		{"own", member, true},
		{"own", owner, false},
		{"adm", member, true},
		{"adm", guest, true},
		{"adm", admin2, false},
		{"adm", admin, false},
		{"adm", owner, false},
		{"mem", guest, false},
		{"mem", member, false},
		{"stranger", guest, false},
	}
	for _, tt := range tests {
		if got := CanRemoveMember(tt.actor, team, members, tt.target); got != tt.want {
			t.Errorf("CanRemoveMember(%s, %s) = %v, want %v", tt.actor, tt.target.UserID, got, tt.want)
		}
	}
}

func TestCanChangeRole(t *testing.T) {
	tests := []struct {
		actor   string
		target  Member
		newRole TeamRole
		want    bool
	}{
		{"own", member, TeamAdmin, true},
		{"own", admin, TeamGuest, true},
		{"own", member, TeamOwner, false},
		{"own", owner, TeamAdmin, false},
		{"adm", member, TeamGuest, true},
		{"adm", guest, TeamMember, true},
		{"adm", member, TeamAdmin, false},
		{"adm", admin2, TeamMember, false},
		{"adm", admin, TeamMember, false},
		{"mem", member, TeamAdmin, false},
		{"mem", guest, TeamMember, false},
		{"own", member, "superuser", false},
	}
	for _, tt := range tests {
		if got := CanChangeRole(tt.actor, team, members, tt.target, tt.newRole); got != tt.want {
			t.Errorf("CanChangeRole(%s, %s -> %s) = %v, want %v",
				tt.actor, tt.target.UserID, tt.newRole, got, tt.want)
		}
	}
}
