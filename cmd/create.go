package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/recurrence"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "create [TITLE]",
	Aliases: []string{"add"},
	Short:   "Create a new task",
	Long: `Creates a new task file with the given title and optional fields.

Title can be provided as a positional argument or via --title flag.
Recurring tasks are defined with --repeat and the related flags; completing
one schedules its next occurrence.`,
	Example: `  taskflow create "Pay rent" --due 2025-05-01 --repeat monthly --day-of-month 1
  taskflow create "Standup notes" --repeat weekly --on mon,wed,fri
  taskflow create "Ship release" --blocked-by 4,5 --labels release`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("title", "", "task title (alternative to positional argument)")
	createCmd.Flags().String("status", "", "task status (default from config)")
	createCmd.Flags().String("priority", "", "task priority (default from config)")
	createCmd.Flags().String("project", "", "project id (default from config)")
	createCmd.Flags().String("phase", "", "phase id")
	createCmd.Flags().String("category", "", "category id")
	createCmd.Flags().StringSlice("labels", nil, "comma-separated labels")
	createCmd.Flags().String("owner", "", "owning user id (default --actor)")
	createCmd.Flags().String("assignee", "", "assigned user id")
	createCmd.Flags().String("start", "", "start date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)")
	createCmd.Flags().String("due", "", "due date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)")
	createCmd.Flags().String("description", "", "task description (markdown)")
	createCmd.Flags().IntSlice("blocked-by", nil, "ids of tasks that block this one")
	addRecurrenceFlags(createCmd.Flags())
	createCmd.Flags().SetNormalizeFunc(normalizeTaskFlags)
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	title, err := resolveCreateTitle(cmd, args)
	if err != nil {
		return err
	}

	t := &task.Task{
		Title:     title,
		Status:    cfg.Defaults.Status,
		Priority:  cfg.Defaults.Priority,
		ProjectID: cfg.Defaults.Project,
		UserID:    cfg.Defaults.Owner,
	}
	if a := actor(); a != "" {
		t.UserID = a
	}

	if err := applyCreateFlags(cmd, t, cfg); err != nil {
		return err
	}
	if err := board.AuthorizeTaskEdit(cfg, actor(), t); err != nil {
		return err
	}

	if err := board.Create(cfg, t, time.Now()); err != nil {
		return err
	}
	logger.Debug().Int("id", t.ID).Str("file", t.File).Msg("task created")

	return outputCreateResult(t)
}

func outputCreateResult(t *task.Task) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}

	output.Messagef(os.Stdout, "Created task #%d: %s", t.ID, t.Title)
	output.Messagef(os.Stdout, "  File: %s", t.File)
	output.Messagef(os.Stdout, "  Status: %s | Priority: %s", t.Status, t.Priority)
	if t.AssigneeID != "" {
		output.Messagef(os.Stdout, "  Assignee: %s", t.AssigneeID)
	}
	if len(t.Labels) > 0 {
		output.Messagef(os.Stdout, "  Labels: %s", strings.Join(t.Labels, ", "))
	}
	if t.Recurring() {
		output.Messagef(os.Stdout, "  Repeats: %s", recurrence.Describe(*t.Recurrence))
	}
	if len(t.BlockedBy) > 0 {
		output.Messagef(os.Stdout, "  Blocked by: %v", []int(t.BlockedBy))
	}
	return nil
}

// resolveCreateTitle returns the task title from either the positional arg or --title flag.
func resolveCreateTitle(cmd *cobra.Command, args []string) (string, error) {
	flagTitle, _ := cmd.Flags().GetString("title")
	hasPositional := len(args) > 0
	hasFlag := flagTitle != ""

	switch {
	case hasPositional && hasFlag:
		return "", clierr.New(clierr.InvalidInput,
			"title provided both as argument and --title flag; use one or the other")
	case hasPositional:
		return args[0], nil
	case hasFlag:
		return flagTitle, nil
	default:
		return "", clierr.New(clierr.InvalidInput, "title is required: provide it as an argument or with --title")
	}
}

func applyCreateFlags(cmd *cobra.Command, t *task.Task, cfg *config.Config) error {
	flags := cmd.Flags()
	if v, _ := flags.GetString("status"); v != "" {
		st, err := task.ValidateStatus(v)
		if err != nil {
			return err
		}
		t.Status = st
	}
	if v, _ := flags.GetString("priority"); v != "" {
		if err := task.ValidatePriority(v, cfg.Priorities); err != nil {
			return err
		}
		t.Priority = v
	}
	if v, _ := flags.GetString("project"); v != "" {
		t.ProjectID = v
	}
	t.PhaseID, _ = flags.GetString("phase")
	t.CategoryID, _ = flags.GetString("category")
	if v, _ := flags.GetStringSlice("labels"); len(v) > 0 {
		t.Labels = task.NewSet(v...)
	}
	if v, _ := flags.GetString("owner"); v != "" {
		t.UserID = v
	}
	t.AssigneeID, _ = flags.GetString("assignee")
	if v, _ := flags.GetString("start"); v != "" {
		when, err := parseWhen("start", v, cfg.Location())
		if err != nil {
			return err
		}
		t.StartDate = when
	}
	if v, _ := flags.GetString("due"); v != "" {
		when, err := parseWhen("due", v, cfg.Location())
		if err != nil {
			return err
		}
		t.DueDate = when
	}
	t.Description, _ = flags.GetString("description")
	if v, _ := flags.GetIntSlice("blocked-by"); len(v) > 0 {
		t.BlockedBy = task.NewSet(v...)
	}

	rule, err := applyRecurrenceFlags(cmd, nil)
	if err != nil {
		return err
	}
	t.Recurrence = rule
	return nil
}
