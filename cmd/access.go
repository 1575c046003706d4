package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/access"
	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
)

var accessCmd = &cobra.Command{
	Use:   "access",
	Short: "Inspect what a user may do on projects",
	Long: `Resolves effective roles from project ownership, direct shares, and
team shares. The user is --actor (or TASKFLOW_ACTOR) unless --user is given.`,
}

var accessRoleCmd = &cobra.Command{
	Use:   "role PROJECT",
	Short: "Show the effective role on a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccessRole,
}

var accessCheckCmd = &cobra.Command{
	Use:   "check PROJECT CAPABILITY",
	Short: "Check one capability on a project",
	Long: `Exits 0 when the capability is granted and 1 when it is not.

Project capabilities: ` + strings.Join(projectCapabilityNames(), ", ") + `.
With --team, PROJECT is a team id and the capabilities are: ` + strings.Join(teamCapabilityNames(), ", ") + `.`,
	Args: cobra.ExactArgs(2), //nolint:mnd // target and capability
	RunE: runAccessCheck,
}

var accessProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the projects the user can see, with their role",
	RunE:  runAccessProjects,
}

func init() {
	accessCmd.PersistentFlags().String("user", "", "user to resolve (default --actor)")
	accessCheckCmd.Flags().Bool("team", false, "check a team capability instead of a project one")
	accessCmd.AddCommand(accessRoleCmd, accessCheckCmd, accessProjectsCmd)
	rootCmd.AddCommand(accessCmd)
}

type projectCheck func(string, access.Project, []access.Share, []access.Membership) bool

var projectCapabilities = map[string]projectCheck{
	"view":           access.CanViewProject,
	"comment":        access.CanComment,
	"edit-tasks":     access.CanEditTasks,
	"edit-project":   access.CanEditProject,
	"manage-sharing": access.CanManageSharing,
}

type teamCheck func(string, access.Team, []access.Member) bool

var teamCapabilities = map[string]teamCheck{
	"manage": access.CanManageTeam,
	"invite": access.CanInviteToTeam,
}

func projectCapabilityNames() []string {
	return sortedKeys(projectCapabilities)
}

func teamCapabilityNames() []string {
	return sortedKeys(teamCapabilities)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// subject is the user an access query resolves.
func subject(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u
	}
	return actor()
}

// roleResult is the JSON shape of access role.
type roleResult struct {
	User    string      `json:"user"`
	Project string      `json:"project_id"`
	Role    access.Role `json:"role"`
}

func runAccessRole(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	d, err := board.LoadAccess(cfg)
	if err != nil {
		return err
	}
	user := subject(cmd)
	role, err := d.Role(user, args[0])
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, roleResult{User: user, Project: args[0], Role: role})
	}
	if role == access.RoleNone {
		output.Messagef(os.Stdout, "%s has no access to %s", stringOr(user, "nobody"), args[0])
		return nil
	}
	output.Messagef(os.Stdout, "%s is %s on %s", user, role, args[0])
	return nil
}

// checkResult is the JSON shape of access check.
type checkResult struct {
	User       string `json:"user"`
	Target     string `json:"target"`
	Capability string `json:"capability"`
	Allowed    bool   `json:"allowed"`
}

func runAccessCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	d, err := board.LoadAccess(cfg)
	if err != nil {
		return err
	}
	user, target, capability := subject(cmd), args[0], args[1]

	var allowed bool
	if isTeam, _ := cmd.Flags().GetBool("team"); isTeam {
		check, ok := teamCapabilities[capability]
		if !ok {
			return unknownCapability(capability, teamCapabilityNames())
		}
		team, ok := d.Team(target)
		if !ok {
			return clierr.Newf(clierr.TeamNotFound, "team not found: %s", target).
				WithDetails(map[string]any{"id": target})
		}
		allowed = check(user, team, d.Members)
	} else {
		check, ok := projectCapabilities[capability]
		if !ok {
			return unknownCapability(capability, projectCapabilityNames())
		}
		p, ok := d.Project(target)
		if !ok {
			return clierr.Newf(clierr.ProjectNotFound, "project not found: %s", target).
				WithDetails(map[string]any{"id": target})
		}
		allowed = check(user, p, d.Shares, access.MembershipsOf(user, d.Members))
	}

	res := checkResult{User: user, Target: target, Capability: capability, Allowed: allowed}
	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, res); err != nil {
			return err
		}
	} else {
		verdict := "may not"
		if allowed {
			verdict = "may"
		}
		output.Messagef(os.Stdout, "%s %s %s on %s", stringOr(user, "nobody"), verdict, capability, target)
	}
	if !allowed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}

func unknownCapability(name string, allowed []string) error {
	return clierr.Newf(clierr.InvalidInput, "unknown capability %q", name).
		WithDetails(map[string]any{"capability": name, "allowed": allowed})
}

func runAccessProjects(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	d, err := board.LoadAccess(cfg)
	if err != nil {
		return err
	}
	rows := visibleProjects(d, subject(cmd))

	if outputFormat() == output.FormatJSON {
		if rows == nil {
			rows = []output.ProjectRow{}
		}
		return output.JSON(os.Stdout, rows)
	}
	output.ProjectsTable(os.Stdout, rows)
	return nil
}

// visibleProjects returns the projects user owns or has been shared, with
// the resolved role.
func visibleProjects(d *board.Directory, user string) []output.ProjectRow {
	shared := access.AccessibleProjectIDs(user, d.Shares, access.MembershipsOf(user, d.Members))
	var rows []output.ProjectRow
	for _, p := range d.Projects {
		if p.UserID != user && !slices.Contains(shared, p.ID) {
			continue
		}
		role, _ := d.Role(user, p.ID)
		rows = append(rows, output.ProjectRow{Project: p, Role: role})
	}
	return rows
}

func stringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// parseShareRole maps a role name to a share role or an INVALID_ROLE error.
func parseShareRole(s string) (access.ShareRole, error) {
	r, err := access.ParseShareRole(s)
	if err != nil {
		allowed := make([]string, len(access.ShareRoles))
		for i, v := range access.ShareRoles {
			allowed[i] = string(v)
		}
		return "", clierr.New(clierr.InvalidRole, err.Error()).
			WithDetails(map[string]any{"role": s, "allowed": allowed})
	}
	return r, nil
}

// parseTeamRole maps a role name to a team role or an INVALID_ROLE error.
func parseTeamRole(s string) (access.TeamRole, error) {
	r, err := access.ParseTeamRole(s)
	if err != nil {
		allowed := make([]string, len(access.TeamRoles))
		for i, v := range access.TeamRoles {
			allowed[i] = string(v)
		}
		return "", clierr.New(clierr.InvalidRole, err.Error()).
			WithDetails(map[string]any{"role": s, "allowed": allowed})
	}
	return r, nil
}
