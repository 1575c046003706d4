package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/recurrence"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long: `Displays full details of a single task: its fields, recurrence rule,
blockers and dependents, the rendered markdown description, and its
recent activity.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().Int("history", 5, "number of activity entries to show (0 for none)")            //nolint:mnd // default history
	showCmd.Flags().Int("upcoming", 3, "number of future due dates to preview for recurring tasks") //nolint:mnd // default preview
	rootCmd.AddCommand(showCmd)
}

// taskView is the JSON shape of show.
type taskView struct {
	*task.Task
	Dependencies *board.Dependencies `json:"dependencies"`
	Activity     []board.LogEntry    `json:"activity,omitempty"`
	Upcoming     []time.Time         `json:"upcoming,omitempty"`
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return task.ValidateTaskID(args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := board.Deps(cfg, id)
	if err != nil {
		return err
	}
	t := deps.Task

	var activity []board.LogEntry
	if n, _ := cmd.Flags().GetInt("history"); n > 0 {
		activity, err = board.ReadLog(cfg.Dir(), id, n)
		if err != nil {
			logger.Warn().Err(err).Msg("activity log unavailable")
		}
	}

	var upcoming []time.Time
	if n, _ := cmd.Flags().GetInt("upcoming"); n > 0 && t.Recurring() {
		from := time.Now()
		if t.DueDate != nil {
			from = *t.DueDate
		}
		upcoming = recurrence.Occurrences(*t.Recurrence, from, n)
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, taskView{Task: t, Dependencies: deps, Activity: activity, Upcoming: upcoming})
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t)
		return nil
	}

	output.TaskDetail(os.Stdout, t, deps)
	output.UpcomingDates(os.Stdout, upcoming)
	if len(activity) > 0 {
		fmt.Fprintln(os.Stdout)
		output.LogTable(os.Stdout, activity)
	}
	return nil
}
