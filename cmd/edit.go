package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/depgraph"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID[,ID,...]",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. Only specified fields are changed.
Multiple IDs can be provided as a comma-separated list.

Status changes go through move and complete so WIP limits and recurrence
apply.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	f := editCmd.Flags()
	f.String("title", "", "new title")
	f.String("priority", "", "new priority")
	f.String("project", "", "new project id")
	f.String("phase", "", "new phase id")
	f.String("category", "", "new category id")
	f.StringSlice("add-label", nil, "add labels")
	f.StringSlice("remove-label", nil, "remove labels")
	f.String("owner", "", "new owning user id")
	f.String("assignee", "", "new assignee user id")
	f.Bool("unassign", false, "clear the assignee")
	f.String("start", "", "new start date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)")
	f.Bool("clear-start", false, "clear start date")
	f.String("due", "", "new due date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)")
	f.Bool("clear-due", false, "clear due date")
	f.String("description", "", "new description (replaces the whole text)")
	f.StringP("append-description", "a", "", "append text to the description")
	f.BoolP("timestamp", "t", false, "prefix a timestamp line when appending")
	f.IntSlice("add-blocker", nil, "ids of tasks that block this one")
	f.IntSlice("remove-blocker", nil, "blocker ids to remove")
	addRecurrenceFlags(f)
	f.Bool("no-repeat", false, "disable the recurrence rule, keeping its settings")
	f.Bool("clear-repeat", false, "remove the recurrence rule")
	f.SetNormalizeFunc(normalizeTaskFlags)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		return editSingleTask(cfg, ids[0], cmd)
	}
	return runBatch(ids, func(id int) error {
		_, err := executeEdit(cfg, id, cmd)
		return err
	})
}

// editSingleTask handles a single task edit with full output.
func editSingleTask(cfg *config.Config, id int, cmd *cobra.Command) error {
	t, err := executeEdit(cfg, id, cmd)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	output.Messagef(os.Stdout, "Updated task #%d: %s", t.ID, t.Title)
	return nil
}

// executeEdit applies the flags to task id under the board lock.
func executeEdit(cfg *config.Config, id int, cmd *cobra.Command) (*task.Task, error) {
	return board.Update(cfg, id, time.Now(), func(t *task.Task, g *depgraph.Graph) error {
		if err := board.AuthorizeTaskEdit(cfg, actor(), t); err != nil {
			return err
		}
		changed, err := applyEditFlags(cmd, t, cfg)
		if err != nil {
			return err
		}
		blockersChanged, err := applyBlockerFlags(cmd, t.ID, g)
		if err != nil {
			return err
		}
		if !changed && !blockersChanged {
			return clierr.New(clierr.NoChanges, "no changes specified")
		}
		// A changed project must also be editable by the actor.
		return board.AuthorizeTaskEdit(cfg, actor(), t)
	})
}

func applyEditFlags(cmd *cobra.Command, t *task.Task, cfg *config.Config) (bool, error) {
	flags := cmd.Flags()
	changed := false
	setString := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
			changed = true
		}
	}

	setString("title", &t.Title)
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		if err := task.ValidatePriority(v, cfg.Priorities); err != nil {
			return false, err
		}
		t.Priority = v
		changed = true
	}
	setString("project", &t.ProjectID)
	setString("phase", &t.PhaseID)
	setString("category", &t.CategoryID)
	setString("owner", &t.UserID)
	setString("assignee", &t.AssigneeID)
	if unassign, _ := flags.GetBool("unassign"); unassign {
		t.AssigneeID = ""
		changed = true
	}

	if v, _ := flags.GetStringSlice("add-label"); len(v) > 0 {
		for _, l := range v {
			t.Labels, _ = t.Labels.Add(l)
		}
		changed = true
	}
	if v, _ := flags.GetStringSlice("remove-label"); len(v) > 0 {
		for _, l := range v {
			t.Labels, _ = t.Labels.Remove(l)
		}
		changed = true
	}

	dateChanged, err := applyDateFlags(cmd, t, cfg)
	if err != nil {
		return false, err
	}
	changed = changed || dateChanged

	descChanged, err := applyDescriptionFlags(cmd, t)
	if err != nil {
		return false, err
	}
	changed = changed || descChanged

	ruleChanged, err := applyEditRecurrence(cmd, t)
	if err != nil {
		return false, err
	}
	return changed || ruleChanged, nil
}

func applyDateFlags(cmd *cobra.Command, t *task.Task, cfg *config.Config) (bool, error) {
	flags := cmd.Flags()
	changed := false
	for _, field := range []struct {
		name, clearName string
		dst             **time.Time
	}{
		{"start", "clear-start", &t.StartDate},
		{"due", "clear-due", &t.DueDate},
	} {
		v, _ := flags.GetString(field.name)
		unset, _ := flags.GetBool(field.clearName)
		switch {
		case v != "" && unset:
			return false, clierr.Newf(clierr.InvalidInput, "cannot use --%s and --%s together", field.name, field.clearName)
		case v != "":
			when, err := parseWhen(field.name, v, cfg.Location())
			if err != nil {
				return false, err
			}
			*field.dst = when
			changed = true
		case unset:
			*field.dst = nil
			changed = true
		}
	}
	return changed, nil
}

func applyDescriptionFlags(cmd *cobra.Command, t *task.Task) (bool, error) {
	flags := cmd.Flags()
	replace := flags.Changed("description")
	appendSet := flags.Changed("append-description")
	switch {
	case replace && appendSet:
		return false, clierr.New(clierr.InvalidInput, "cannot use --description and --append-description together")
	case replace:
		t.Description, _ = flags.GetString("description")
	case appendSet:
		v, _ := flags.GetString("append-description")
		ts, _ := flags.GetBool("timestamp")
		t.Description = appendDescription(t.Description, v, ts, time.Now())
	default:
		return false, nil
	}
	return true, nil
}

func applyEditRecurrence(cmd *cobra.Command, t *task.Task) (bool, error) {
	flags := cmd.Flags()
	noRepeat, _ := flags.GetBool("no-repeat")
	clearRepeat, _ := flags.GetBool("clear-repeat")
	if (noRepeat || clearRepeat) && recurrenceFlagsChanged(cmd) {
		return false, clierr.New(clierr.InvalidInput, "cannot combine --no-repeat or --clear-repeat with recurrence flags")
	}
	switch {
	case clearRepeat:
		t.Recurrence = nil
		return true, nil
	case noRepeat:
		if t.Recurrence == nil {
			return false, nil
		}
		t.Recurrence.Enabled = false
		return true, nil
	}

	rule, err := applyRecurrenceFlags(cmd, t.Recurrence)
	if err != nil {
		return false, err
	}
	if rule == t.Recurrence {
		return false, nil
	}
	t.Recurrence = rule
	return true, nil
}

// applyBlockerFlags edits the blocker edges of id through the graph, so a
// cycle is refused before anything is written.
func applyBlockerFlags(cmd *cobra.Command, id int, g *depgraph.Graph) (bool, error) {
	changed := false
	add, _ := cmd.Flags().GetIntSlice("add-blocker")
	for _, b := range add {
		res := g.AddBlocker(id, b)
		if err := board.EdgeError(g, id, b, res); err != nil {
			return false, err
		}
		changed = changed || res.Changed
	}
	remove, _ := cmd.Flags().GetIntSlice("remove-blocker")
	for _, b := range remove {
		res := g.RemoveBlocker(id, b)
		changed = changed || res.Changed
	}
	return changed, nil
}

// appendDescription appends text to the existing description, optionally
// prefixed with a timestamp line.
func appendDescription(existing, text string, addTimestamp bool, now time.Time) string {
	var b strings.Builder
	if existing != "" {
		b.WriteString(strings.TrimRight(existing, "\n"))
		b.WriteString("\n\n")
	}
	if addTimestamp {
		b.WriteString(now.Format("[[2006-01-02]] Mon 15:04"))
		b.WriteByte('\n')
	}
	b.WriteString(text)
	return b.String()
}
