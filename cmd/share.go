package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/access"
	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Grant and revoke project shares",
	Long: `Shares a project with a user or a team at a role: viewer, commenter,
editor or co_owner. Only the project owner and co-owners may manage shares.`,
}

var shareAddCmd = &cobra.Command{
	Use:   "add PROJECT ROLE",
	Short: "Share a project with a user or team",
	Example: `  taskflow share add home editor --user bob
  taskflow share add home viewer --team 7f1c...`,
	Args: cobra.ExactArgs(2), //nolint:mnd // project and role
	RunE: runShareAdd,
}

var shareRemoveCmd = &cobra.Command{
	Use:     "remove SHARE",
	Aliases: []string{"rm"},
	Short:   "Revoke a share by id",
	Args:    cobra.ExactArgs(1),
	RunE:    runShareRemove,
}

var shareListCmd = &cobra.Command{
	Use:     "list [PROJECT]",
	Aliases: []string{"ls"},
	Short:   "List shares, optionally for one project",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runShareList,
}

func init() {
	shareAddCmd.Flags().String("user", "", "user to share with")
	shareAddCmd.Flags().String("team", "", "team to share with")
	shareCmd.AddCommand(shareAddCmd, shareRemoveCmd, shareListCmd)
	rootCmd.AddCommand(shareCmd)
}

func runShareAdd(cmd *cobra.Command, args []string) error {
	role, err := parseShareRole(args[1])
	if err != nil {
		return err
	}
	user, _ := cmd.Flags().GetString("user")
	team, _ := cmd.Flags().GetString("team")
	if (user == "") == (team == "") {
		return clierr.New(clierr.InvalidShare, "a share targets exactly one of --user or --team")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := board.ShareProject(cfg, actor(), access.Share{
		ProjectID:        args[0],
		SharedWithUserID: user,
		TeamID:           team,
		Role:             role,
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, s)
	}
	target := "user " + user
	if team != "" {
		target = "team " + team
	}
	output.Messagef(os.Stdout, "Shared %s with %s as %s (share %s)", s.ProjectID, target, s.Role, s.ID)
	return nil
}

func runShareRemove(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := board.Unshare(cfg, actor(), args[0]); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"status": "revoked", "id": args[0]})
	}
	output.Messagef(os.Stdout, "Revoked share %s", args[0])
	return nil
}

func runShareList(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	d, err := board.LoadAccess(cfg)
	if err != nil {
		return err
	}

	shares := d.Shares
	if len(args) == 1 {
		if _, ok := d.Project(args[0]); !ok {
			return clierr.Newf(clierr.ProjectNotFound, "project not found: %s", args[0]).
				WithDetails(map[string]any{"id": args[0]})
		}
		shares = d.SharesOf(args[0])
	}

	if outputFormat() == output.FormatJSON {
		if shares == nil {
			shares = []access.Share{}
		}
		return output.JSON(os.Stdout, shares)
	}
	output.SharesTable(os.Stdout, shares)
	return nil
}
