package access

import (
	"errors"
	"slices"
	"testing"
)

var project = Project{ID: "p1", UserID: "owner"}

func direct(user string, role ShareRole) Share {
	return Share{ProjectID: "p1", SharedWithUserID: user, Role: role}
}

func teamShare(team string, role ShareRole) Share {
	return Share{ProjectID: "p1", TeamID: team, Role: role}
}

type capability struct {
	name    string
	check   func(string, Project, []Share, []Membership) bool
	minRole Role
}

var capabilities = []capability{
	{"view", CanViewProject, RoleViewer},
	{"comment", CanComment, RoleCommenter},
	{"edit tasks", CanEditTasks, RoleEditor},
	{"edit project", CanEditProject, RoleCoOwner},
	{"manage sharing", CanManageSharing, RoleCoOwner},
}

func TestOwnerAlwaysOwner(t *testing.T) {
	shares := []Share{direct("owner", Viewer), teamShare("t1", Viewer)}
	members := []Membership{{TeamID: "t1", Role: TeamGuest}}
	if got := EffectiveProjectRole("owner", project, shares, members); got != RoleOwner {
		t.Fatalf("EffectiveProjectRole(owner) = %q, want owner", got)
	}
	for _, c := range capabilities {
		if !c.check("owner", project, shares, members) {
			t.Errorf("owner denied %s", c.name)
		}
	}
}

func TestEmptyActorIsNobody(t *testing.T) {
	p := Project{ID: "p1"}
	if got := EffectiveProjectRole("", p, []Share{direct("", CoOwner)}, nil); got != RoleNone {
		t.Errorf("empty actor role = %q", got)
	}
}

func TestCapabilitiesFollowEffectiveRole(t *testing.T) {
	for _, role := range ShareRoles {
		for _, viaTeam := range []bool{false, true} {
			shares := []Share{direct("u", role)}
			var members []Membership
			if viaTeam {
				shares = []Share{teamShare("t1", role)}
				members = []Membership{{TeamID: "t1", Role: TeamMember}}
			}
			eff := EffectiveProjectRole("u", project, shares, members)
			if eff != Role(role) {
				t.Fatalf("%s (team=%v): effective role = %q", role, viaTeam, eff)
			}
			for _, c := range capabilities {
				if got, want := c.check("u", project, shares, members), eff.AtLeast(c.minRole); got != want {
					t.Errorf("%s (team=%v): %s = %v, want %v", role, viaTeam, c.name, got, want)
				}
			}
		}
	}
}

func TestRoleMonotonicity(t *testing.T) {
	for i := range ShareRoles {
		for j := i + 1; j < len(ShareRoles); j++ {
			lo := []Share{direct("u", ShareRoles[i])}
			hi := []Share{direct("u", ShareRoles[j])}
			for _, c := range capabilities {
				if c.check("u", project, lo, nil) && !c.check("u", project, hi, nil) {
					t.Errorf("%s grants %s but %s does not", ShareRoles[i], c.name, ShareRoles[j])
				}
			}
		}
	}
}

func TestHighestShareWins(t *testing.T) {
	shares := []Share{
		direct("u", Viewer),
		teamShare("t1", Editor),
		teamShare("t2", CoOwner),
		{ProjectID: "other", SharedWithUserID: "u", Role: CoOwner},
	}
	members := []Membership{{TeamID: "t1", Role: TeamMember}}
	if got := EffectiveProjectRole("u", project, shares, members); got != RoleEditor {
		t.Errorf("effective role = %q, want editor", got)
	}
}

func TestMalformedSharesGrantNothing(t *testing.T) {
	members := []Membership{{TeamID: "t1", Role: TeamMember}}
	shares := []Share{
		{ProjectID: "p1", SharedWithUserID: "u", TeamID: "t1", Role: CoOwner},
		{ProjectID: "p1", Role: CoOwner},
		{ProjectID: "p1", SharedWithUserID: "u", Role: "superuser"},
	}
	if got := EffectiveProjectRole("u", project, shares, members); got != RoleNone {
		t.Errorf("effective role = %q, want none", got)
	}
	if ids := AccessibleProjectIDs("u", shares, members); len(ids) != 0 {
		t.Errorf("AccessibleProjectIDs = %v", ids)
	}
}

func TestTeamCoOwnerCanEditProject(t *testing.T) {
	shares := []Share{teamShare("X", CoOwner)}
	if !CanEditProject("U", project, shares, []Membership{{TeamID: "X", Role: TeamAdmin}}) {
		t.Error("member of a co_owner team cannot edit the project")
	}
	if CanEditProject("U", project, shares, nil) {
		t.Error("non-member can edit the project")
	}
}

func TestAccessibleProjectIDs(t *testing.T) {
	shares := []Share{
		{ProjectID: "b", SharedWithUserID: "u", Role: Viewer},
		{ProjectID: "a", TeamID: "t1", Role: Editor},
		{ProjectID: "b", TeamID: "t1", Role: Editor},
		{ProjectID: "c", TeamID: "t2", Role: Editor},
		{ProjectID: "d", SharedWithUserID: "v", Role: Editor},
	}
	got := AccessibleProjectIDs("u", shares, []Membership{{TeamID: "t1", Role: TeamGuest}})
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("AccessibleProjectIDs = %v, want [a b]", got)
	}
}

func TestParseShareRole(t *testing.T) {
	for in, want := range map[string]ShareRole{"Co-Owner": CoOwner, "co owner": CoOwner, "EDITOR": Editor} {
		if got, err := ParseShareRole(in); err != nil || got != want {
			t.Errorf("ParseShareRole(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseShareRole("owner"); err == nil {
		t.Error("owner is not a share role")
	}
}

func TestMembershipsOf(t *testing.T) {
	members := []Member{
		{TeamID: "t1", UserID: "u", Role: TeamAdmin},
		{TeamID: "t2", UserID: "v", Role: TeamMember},
		{TeamID: "t3", UserID: "u", Role: TeamGuest},
	}
	got := MembershipsOf("u", members)
	want := []Membership{{TeamID: "t1", Role: TeamAdmin}, {TeamID: "t3", Role: TeamGuest}}
	if !slices.Equal(got, want) {
		t.Errorf("MembershipsOf = %v, want %v", got, want)
	}
}

func TestValidateShare(t *testing.T) {
	if err := ValidateShare(direct("u", Editor)); err != nil {
		t.Errorf("valid share: %v", err)
	}
	bad := []Share{
		{ProjectID: "p1", SharedWithUserID: "u", TeamID: "t", Role: Editor},
		{ProjectID: "p1", Role: Editor},
		{SharedWithUserID: "u", Role: Editor},
		{ProjectID: "p1", SharedWithUserID: "u", Role: "owner"},
	}
	for _, s := range bad {
		if err := ValidateShare(s); !errors.Is(err, ErrInvalidShare) {
			t.Errorf("ValidateShare(%+v) = %v", s, err)
		}
	}
}

func TestValidateTeam(t *testing.T) {
	team := Team{ID: "t1", OwnerID: "o"}
	ok := []Member{{TeamID: "t1", UserID: "o", Role: TeamOwner}, {TeamID: "t1", UserID: "a", Role: TeamAdmin}}
	if err := ValidateTeam(team, ok); err != nil {
		t.Errorf("valid team: %v", err)
	}
	cases := map[string][]Member{
		"no owner":    {{TeamID: "t1", UserID: "a", Role: TeamAdmin}},
		"wrong owner": {{TeamID: "t1", UserID: "a", Role: TeamOwner}},
		"two owners":  {{TeamID: "t1", UserID: "o", Role: TeamOwner}, {TeamID: "t1", UserID: "a", Role: TeamOwner}},
		"duplicate":   {{TeamID: "t1", UserID: "o", Role: TeamOwner}, {TeamID: "t1", UserID: "o", Role: TeamAdmin}},
	}
	for name, members := range cases {
		if err := ValidateTeam(team, members); !errors.Is(err, ErrInvalidTeam) {
			t.Errorf("%s: ValidateTeam = %v", name, err)
		}
	}
}
