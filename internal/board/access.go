package board

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/taskflow/internal/access"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

const accessFileMode = 0o600

// Directory is the contents of the board's access file.
type Directory struct {
	Projects []access.Project `yaml:"projects" json:"projects"`
	Shares   []access.Share   `yaml:"shares" json:"shares"`
	Teams    []access.Team    `yaml:"teams" json:"teams"`
	Members  []access.Member  `yaml:"members" json:"members"`
}

// Validate checks every share and team in the directory.
func (d *Directory) Validate() error {
	for _, s := range d.Shares {
		if err := access.ValidateShare(s); err != nil {
			return clierr.Newf(clierr.InvalidShare, "share %s: %v", s.ID, err)
		}
	}
	for _, t := range d.Teams {
		if err := access.ValidateTeam(t, d.Members); err != nil {
			return clierr.Newf(clierr.InvalidTeam, "%v", err)
		}
	}
	return nil
}

// Project returns the project with the given id.
func (d *Directory) Project(id string) (access.Project, bool) {
	i := slices.IndexFunc(d.Projects, func(p access.Project) bool { return p.ID == id })
	if i < 0 {
		return access.Project{}, false
	}
	return d.Projects[i], true
}

// Team returns the team with the given id.
func (d *Directory) Team(id string) (access.Team, bool) {
	i := slices.IndexFunc(d.Teams, func(t access.Team) bool { return t.ID == id })
	if i < 0 {
		return access.Team{}, false
	}
	return d.Teams[i], true
}

// Member returns userID's row in teamID.
func (d *Directory) Member(teamID, userID string) (access.Member, bool) {
	i := d.memberIndex(teamID, userID)
	if i < 0 {
		return access.Member{}, false
	}
	return d.Members[i], true
}

func (d *Directory) memberIndex(teamID, userID string) int {
	return slices.IndexFunc(d.Members, func(m access.Member) bool {
		return m.TeamID == teamID && m.UserID == userID
	})
}

// MembersOf returns the rows of teamID.
func (d *Directory) MembersOf(teamID string) []access.Member {
	var out []access.Member
	for _, m := range d.Members {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	return out
}

// SharesOf returns the shares granted on projectID.
func (d *Directory) SharesOf(projectID string) []access.Share {
	var out []access.Share
	for _, s := range d.Shares {
		if s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	return out
}

// Role resolves the actor's effective role on projectID.
func (d *Directory) Role(actor, projectID string) (access.Role, error) {
	p, ok := d.Project(projectID)
	if !ok {
		return access.RoleNone, projectNotFound(projectID)
	}
	return access.EffectiveProjectRole(actor, p, d.Shares, access.MembershipsOf(actor, d.Members)), nil
}

// LoadAccess reads the access file. A board without one has an empty
// directory.
func LoadAccess(cfg *config.Config) (*Directory, error) {
	d := &Directory{}
	data, err := os.ReadFile(cfg.AccessPath()) //nolint:gosec // access path from board config
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return d, nil
		}
		return nil, fmt.Errorf("reading access file: %w", err)
	}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("parsing access file: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// SaveAccess validates d and writes it to the access file.
func SaveAccess(cfg *config.Config, d *Directory) error {
	if err := d.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling access file: %w", err)
	}
	tmp := cfg.AccessPath() + ".tmp"
	if err := os.WriteFile(tmp, data, accessFileMode); err != nil {
		return fmt.Errorf("writing access file: %w", err)
	}
	if err := os.Rename(tmp, cfg.AccessPath()); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing access file: %w", err)
	}
	return nil
}

// UpdateAccess loads the directory, applies fn, and saves the result, all
// under the board lock.
func UpdateAccess(cfg *config.Config, fn func(d *Directory) error) error {
	return withLock(cfg, func() error {
		d, err := LoadAccess(cfg)
		if err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}
		return SaveAccess(cfg, d)
	})
}

// AuthorizeTaskEdit checks that actor may edit t. Anonymous use and tasks
// outside any registered project are not restricted.
func AuthorizeTaskEdit(cfg *config.Config, actor string, t *task.Task) error {
	if actor == "" || t.ProjectID == "" {
		return nil
	}
	d, err := LoadAccess(cfg)
	if err != nil {
		return err
	}
	p, ok := d.Project(t.ProjectID)
	if !ok {
		return nil
	}
	if !access.CanEditTasks(actor, p, d.Shares, access.MembershipsOf(actor, d.Members)) {
		return denied(actor, "edit tasks in project "+p.ID)
	}
	return nil
}

// AddProject registers a project owned by actor. An empty id gets a
// generated one.
func AddProject(cfg *config.Config, actor string, p access.Project) (access.Project, error) {
	if err := requireActor(actor); err != nil {
		return p, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.UserID == "" {
		p.UserID = actor
	}
	err := UpdateAccess(cfg, func(d *Directory) error {
		if _, exists := d.Project(p.ID); exists {
			return clierr.Newf(clierr.InvalidInput, "project %s already exists", p.ID)
		}
		d.Projects = append(d.Projects, p)
		return nil
	})
	if err == nil {
		LogActorMutation(cfg.Dir(), actor, ActionProject, 0, "add "+p.ID)
	}
	return p, err
}

// ShareProject grants s on its project. The actor must be able to manage
// sharing on that project.
func ShareProject(cfg *config.Config, actor string, s access.Share) (access.Share, error) {
	if err := requireActor(actor); err != nil {
		return s, err
	}
	if err := access.ValidateShare(s); err != nil {
		return s, clierr.New(clierr.InvalidShare, err.Error())
	}
	s.ID = uuid.NewString()
	err := UpdateAccess(cfg, func(d *Directory) error {
		p, ok := d.Project(s.ProjectID)
		if !ok {
			return projectNotFound(s.ProjectID)
		}
		if s.TeamID != "" {
			if _, ok := d.Team(s.TeamID); !ok {
				return teamNotFound(s.TeamID)
			}
		}
		if !access.CanManageSharing(actor, p, d.Shares, access.MembershipsOf(actor, d.Members)) {
			return denied(actor, "manage sharing on project "+p.ID)
		}
		d.Shares = append(d.Shares, s)
		return nil
	})
	if err == nil {
		LogActorMutation(cfg.Dir(), actor, ActionShare, 0, "grant "+string(s.Role)+" on "+s.ProjectID)
	}
	return s, err
}

// Unshare revokes the share with the given id.
func Unshare(cfg *config.Config, actor, shareID string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	var projectID string
	err := UpdateAccess(cfg, func(d *Directory) error {
		i := slices.IndexFunc(d.Shares, func(s access.Share) bool { return s.ID == shareID })
		if i < 0 {
			return clierr.Newf(clierr.ShareNotFound, "share not found: %s", shareID).
				WithDetails(map[string]any{"id": shareID})
		}
		projectID = d.Shares[i].ProjectID
		p, ok := d.Project(projectID)
		if !ok {
			return projectNotFound(projectID)
		}
		if !access.CanManageSharing(actor, p, d.Shares, access.MembershipsOf(actor, d.Members)) {
			return denied(actor, "manage sharing on project "+p.ID)
		}
		d.Shares = slices.Delete(d.Shares, i, i+1)
		return nil
	})
	if err == nil {
		LogActorMutation(cfg.Dir(), actor, ActionShare, 0, "revoke "+shareID+" on "+projectID)
	}
	return err
}

// CreateTeam creates a team owned by actor, with actor as its owner member.
func CreateTeam(cfg *config.Config, actor, name string) (access.Team, error) {
	if err := requireActor(actor); err != nil {
		return access.Team{}, err
	}
	team := access.Team{ID: uuid.NewString(), Name: name, OwnerID: actor}
	err := UpdateAccess(cfg, func(d *Directory) error {
		d.Teams = append(d.Teams, team)
		d.Members = append(d.Members, access.Member{TeamID: team.ID, UserID: actor, Role: access.TeamOwner})
		return nil
	})
	if err == nil {
		LogActorMutation(cfg.Dir(), actor, ActionTeam, 0, "create "+team.ID)
	}
	return team, err
}

// AddMember invites userID into teamID with role.
func AddMember(cfg *config.Config, actor, teamID, userID string, role access.TeamRole) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if role == access.TeamOwner {
		return clierr.New(clierr.InvalidRole, "a team has exactly one owner; invite as admin, member or guest")
	}
	err := UpdateAccess(cfg, func(d *Directory) error {
		team, ok := d.Team(teamID)
		if !ok {
			return teamNotFound(teamID)
		}
		if !access.CanInviteToTeam(actor, team, d.Members) {
			return denied(actor, "invite to team "+teamID)
		}
		if _, exists := d.Member(teamID, userID); exists {
			return clierr.Newf(clierr.InvalidTeam, "%s is already in team %s", userID, teamID)
		}
		d.Members = append(d.Members, access.Member{TeamID: teamID, UserID: userID, Role: role})
		return nil
	})
	if err == nil {
		LogActorMutation(cfg.Dir(), actor, ActionTeam, 0, "add "+userID+" to "+teamID+" as "+string(role))
	}
	return err
}

// RemoveMember removes userID from teamID.
func RemoveMember(cfg *config.Config, actor, teamID, userID string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	err := UpdateAccess(cfg, func(d *Directory) error {
		team, target, err := teamTarget(d, teamID, userID)
		if err != nil {
			return err
		}
		if !access.CanRemoveMember(actor, team, d.Members, target) {
			return denied(actor, "remove "+userID+" from team "+teamID)
		}
		i := d.memberIndex(teamID, userID)
		d.Members = slices.Delete(d.Members, i, i+1)
		return nil
	})
	if err == nil {
		LogActorMutation(cfg.Dir(), actor, ActionTeam, 0, "remove "+userID+" from "+teamID)
	}
	return err
}

// ChangeMemberRole moves userID in teamID to role.
func ChangeMemberRole(cfg *config.Config, actor, teamID, userID string, role access.TeamRole) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	err := UpdateAccess(cfg, func(d *Directory) error {
		team, target, err := teamTarget(d, teamID, userID)
		if err != nil {
			return err
		}
		if !access.CanChangeRole(actor, team, d.Members, target, role) {
			return denied(actor, "change the role of "+userID+" in team "+teamID)
		}
		d.Members[d.memberIndex(teamID, userID)].Role = role
		return nil
	})
	if err == nil {
		LogActorMutation(cfg.Dir(), actor, ActionTeam, 0, "role "+userID+" in "+teamID+" -> "+string(role))
	}
	return err
}

func teamTarget(d *Directory, teamID, userID string) (access.Team, access.Member, error) {
	team, ok := d.Team(teamID)
	if !ok {
		return team, access.Member{}, teamNotFound(teamID)
	}
	target, ok := d.Member(teamID, userID)
	if !ok {
		return team, target, clierr.Newf(clierr.MemberNotFound, "%s is not in team %s", userID, teamID).
			WithDetails(map[string]any{"team": teamID, "user": userID})
	}
	return team, target, nil
}

func requireActor(actor string) error {
	if actor == "" {
		return clierr.New(clierr.ActorRequired, "this command needs an acting user (use --actor or TASKFLOW_ACTOR)")
	}
	return nil
}

func denied(actor, what string) error {
	return clierr.Newf(clierr.PermissionDenied, "%s may not %s", actor, what).
		WithDetails(map[string]any{"actor": actor})
}

func projectNotFound(id string) error {
	return clierr.Newf(clierr.ProjectNotFound, "project not found: %s", id).
		WithDetails(map[string]any{"id": id})
}

func teamNotFound(id string) error {
	return clierr.Newf(clierr.TeamNotFound, "team not found: %s", id).
		WithDetails(map[string]any{"id": id})
}
