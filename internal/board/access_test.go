package board

import (
	"testing"

	"github.com/twiced-technology-gmbh/taskflow/internal/access"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

func TestAccessDirectoryFlow(t *testing.T) {
	cfg := newTestBoard(t)

	p, err := AddProject(cfg, "alice", access.Project{ID: "web", Name: "Website"})
	if err != nil {
		t.Fatalf("AddProject: %v", err)
	}
	if p.UserID != "alice" {
		t.Fatalf("owner = %q, want alice", p.UserID)
	}

	if _, err := ShareProject(cfg, "alice", access.Share{ProjectID: "web", SharedWithUserID: "bob", Role: access.Editor}); err != nil {
		t.Fatalf("share with bob: %v", err)
	}

	// An editor cannot manage sharing.
	_, err = ShareProject(cfg, "bob", access.Share{ProjectID: "web", SharedWithUserID: "dave", Role: access.Viewer})
	assertCode(t, err, clierr.PermissionDenied)

	team, err := CreateTeam(cfg, "alice", "design")
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	if team.ID == "" {
		t.Fatal("team id not generated")
	}
	if err := AddMember(cfg, "alice", team.ID, "carol", access.TeamMember); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if _, err := ShareProject(cfg, "alice", access.Share{ProjectID: "web", TeamID: team.ID, Role: access.Viewer}); err != nil {
		t.Fatalf("share with team: %v", err)
	}

	d, err := LoadAccess(cfg)
	if err != nil {
		t.Fatalf("LoadAccess: %v", err)
	}
	if len(d.Projects) != 1 || len(d.Shares) != 2 || len(d.Teams) != 1 || len(d.Members) != 2 {
		t.Fatalf("directory = %d projects, %d shares, %d teams, %d members; want 1, 2, 1, 2",
			len(d.Projects), len(d.Shares), len(d.Teams), len(d.Members))
	}

	roles := map[string]access.Role{
		"alice": access.RoleOwner,
		"bob":   access.RoleEditor,
		"carol": access.RoleViewer,
		"dave":  access.RoleNone,
	}
	for actor, want := range roles {
		got, err := d.Role(actor, "web")
		if err != nil {
			t.Fatalf("Role(%s): %v", actor, err)
		}
		if got != want {
			t.Errorf("Role(%s) = %q, want %q", actor, got, want)
		}
	}

	if _, err := d.Role("alice", "missing"); clierr.CodeOf(err) != clierr.ProjectNotFound {
		t.Errorf("Role on unknown project = %v, want PROJECT_NOT_FOUND", err)
	}
}

func TestAuthorizeTaskEdit(t *testing.T) {
	cfg := newTestBoard(t)
	if _, err := AddProject(cfg, "alice", access.Project{ID: "web"}); err != nil {
		t.Fatalf("AddProject: %v", err)
	}
	if _, err := ShareProject(cfg, "alice", access.Share{ProjectID: "web", SharedWithUserID: "bob", Role: access.Editor}); err != nil {
		t.Fatalf("ShareProject: %v", err)
	}
	if _, err := ShareProject(cfg, "alice", access.Share{ProjectID: "web", SharedWithUserID: "carol", Role: access.Commenter}); err != nil {
		t.Fatalf("ShareProject: %v", err)
	}

	inProject := &task.Task{ID: 1, ProjectID: "web"}
	tests := []struct {
		actor string
		tk    *task.Task
		want  string
	}{
		{"alice", inProject, ""},
		{"bob", inProject, ""},
		{"carol", inProject, clierr.PermissionDenied},
		{"", inProject, ""},
		{"carol", &task.Task{ID: 2}, ""},
		{"carol", &task.Task{ID: 3, ProjectID: "unregistered"}, ""},
	}
	for _, tt := range tests {
		err := AuthorizeTaskEdit(cfg, tt.actor, tt.tk)
		if got := clierr.CodeOf(err); got != tt.want {
			t.Errorf("AuthorizeTaskEdit(%q, project %q) = %v, want code %q", tt.actor, tt.tk.ProjectID, err, tt.want)
		}
	}
}

func TestTeamMembershipChanges(t *testing.T) {
	cfg := newTestBoard(t)
	team, err := CreateTeam(cfg, "alice", "ops")
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	for user, role := range map[string]access.TeamRole{
		"bob":   access.TeamAdmin,
		"carol": access.TeamMember,
		"erin":  access.TeamAdmin,
	} {
		if err := AddMember(cfg, "alice", team.ID, user, role); err != nil {
			t.Fatalf("AddMember(%s): %v", user, err)
		}
	}

	// Admins move members between basic roles but never touch other admins.
	if err := ChangeMemberRole(cfg, "bob", team.ID, "carol", access.TeamGuest); err != nil {
		t.Fatalf("admin demoting member: %v", err)
	}
	assertCode(t, ChangeMemberRole(cfg, "bob", team.ID, "erin", access.TeamMember), clierr.PermissionDenied)
	assertCode(t, RemoveMember(cfg, "bob", team.ID, "erin"), clierr.PermissionDenied)
	assertCode(t, RemoveMember(cfg, "bob", team.ID, "alice"), clierr.PermissionDenied)

	if err := RemoveMember(cfg, "bob", team.ID, "carol"); err != nil {
		t.Fatalf("admin removing guest: %v", err)
	}
	assertCode(t, RemoveMember(cfg, "alice", team.ID, "carol"), clierr.MemberNotFound)

	assertCode(t, AddMember(cfg, "alice", team.ID, "bob", access.TeamMember), clierr.InvalidTeam)
	assertCode(t, AddMember(cfg, "alice", team.ID, "zoe", access.TeamOwner), clierr.InvalidRole)
	assertCode(t, AddMember(cfg, "", team.ID, "zoe", access.TeamMember), clierr.ActorRequired)
	assertCode(t, AddMember(cfg, "alice", "nope", "zoe", access.TeamMember), clierr.TeamNotFound)
}

func TestUnshare(t *testing.T) {
	cfg := newTestBoard(t)
	if _, err := AddProject(cfg, "alice", access.Project{ID: "web"}); err != nil {
		t.Fatalf("AddProject: %v", err)
	}
	s, err := ShareProject(cfg, "alice", access.Share{ProjectID: "web", SharedWithUserID: "bob", Role: access.CoOwner})
	if err != nil {
		t.Fatalf("ShareProject: %v", err)
	}

	assertCode(t, Unshare(cfg, "mallory", s.ID), clierr.PermissionDenied)
	// A co-owner may revoke shares, including their own.
	if err := Unshare(cfg, "bob", s.ID); err != nil {
		t.Fatalf("Unshare: %v", err)
	}
	assertCode(t, Unshare(cfg, "alice", s.ID), clierr.ShareNotFound)
}

func TestSaveAccessRejectsMalformedShare(t *testing.T) {
	cfg := newTestBoard(t)
	d := &Directory{Shares: []access.Share{{ID: "s1", ProjectID: "web", SharedWithUserID: "bob", TeamID: "t1", Role: access.Viewer}}}

	assertCode(t, SaveAccess(cfg, d), clierr.InvalidShare)
}
