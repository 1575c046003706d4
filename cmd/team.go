package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/access"
	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Manage teams and their members",
	Long: `Teams let a project be shared with several users at once. The owner
and admins may invite; removing and re-ranking members follows the team
hierarchy, and the owner can never be removed or demoted.`,
}

var teamCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a team owned by the acting user",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeamCreate,
}

var teamAddCmd = &cobra.Command{
	Use:   "add TEAM USER [ROLE]",
	Short: "Invite a user (default role member)",
	Args:  cobra.RangeArgs(2, 3), //nolint:mnd // team, user, optional role
	RunE:  runTeamAdd,
}

var teamRemoveCmd = &cobra.Command{
	Use:     "remove TEAM USER",
	Aliases: []string{"rm"},
	Short:   "Remove a member",
	Args:    cobra.ExactArgs(2), //nolint:mnd // team and user
	RunE:    runTeamRemove,
}

var teamRoleCmd = &cobra.Command{
	Use:   "role TEAM USER ROLE",
	Short: "Change a member's role",
	Args:  cobra.ExactArgs(3), //nolint:mnd // team, user, role
	RunE:  runTeamRole,
}

var teamListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List teams and members",
	RunE:    runTeamList,
}

func init() {
	teamCmd.AddCommand(teamCreateCmd, teamAddCmd, teamRemoveCmd, teamRoleCmd, teamListCmd)
	rootCmd.AddCommand(teamCmd)
}

func runTeamCreate(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	team, err := board.CreateTeam(cfg, actor(), args[0])
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, team)
	}
	output.Messagef(os.Stdout, "Created team %s (%s)", team.Name, team.ID)
	return nil
}

// memberResult is the JSON shape of team membership changes.
type memberResult struct {
	Status string          `json:"status"`
	TeamID string          `json:"team_id"`
	UserID string          `json:"user_id"`
	Role   access.TeamRole `json:"role,omitempty"`
}

func runTeamAdd(_ *cobra.Command, args []string) error {
	role := access.TeamMember
	if len(args) == 3 { //nolint:mnd // optional role
		r, err := parseTeamRole(args[2])
		if err != nil {
			return err
		}
		role = r
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := board.AddMember(cfg, actor(), args[0], args[1], role); err != nil {
		return err
	}
	return outputMember(memberResult{Status: "added", TeamID: args[0], UserID: args[1], Role: role},
		"Added %s to team %s as %s", args[1], args[0], role)
}

func runTeamRemove(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := board.RemoveMember(cfg, actor(), args[0], args[1]); err != nil {
		return err
	}
	return outputMember(memberResult{Status: "removed", TeamID: args[0], UserID: args[1]},
		"Removed %s from team %s", args[1], args[0])
}

func runTeamRole(_ *cobra.Command, args []string) error {
	role, err := parseTeamRole(args[2])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := board.ChangeMemberRole(cfg, actor(), args[0], args[1], role); err != nil {
		return err
	}
	return outputMember(memberResult{Status: "changed", TeamID: args[0], UserID: args[1], Role: role},
		"%s is now %s in team %s", args[1], role, args[0])
}

func outputMember(r memberResult, format string, args ...any) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, r)
	}
	output.Messagef(os.Stdout, format, args...)
	return nil
}

func runTeamList(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	d, err := board.LoadAccess(cfg)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"teams":   orEmpty(d.Teams),
			"members": orEmpty(d.Members),
		})
	}
	output.TeamsTable(os.Stdout, d)
	return nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
