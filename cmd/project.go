package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/access"
	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Register projects for access control",
	Long: `Tasks whose project is registered here can only be changed by users
with editor access or above on it.`,
}

var projectAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Register a project owned by the acting user",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectAdd,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered projects with the acting user's role",
	RunE:    runProjectList,
}

func init() {
	projectAddCmd.Flags().String("id", "", "project id (default generated)")
	projectCmd.AddCommand(projectAddCmd, projectListCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	id, _ := cmd.Flags().GetString("id")
	p, err := board.AddProject(cfg, actor(), access.Project{ID: id, Name: args[0]})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, p)
	}
	output.Messagef(os.Stdout, "Registered project %s (%s), owner %s", p.Name, p.ID, p.UserID)
	return nil
}

func runProjectList(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	d, err := board.LoadAccess(cfg)
	if err != nil {
		return err
	}

	user := actor()
	rows := make([]output.ProjectRow, 0, len(d.Projects))
	for _, p := range d.Projects {
		role, _ := d.Role(user, p.ID)
		rows = append(rows, output.ProjectRow{Project: p, Role: role})
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, rows)
	}
	output.ProjectsTable(os.Stdout, rows)
	return nil
}
