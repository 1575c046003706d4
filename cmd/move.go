package cmd

import (
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

var moveCmd = &cobra.Command{
	Use:   "move ID[,ID,...] [STATUS]",
	Short: "Move a task to a different status",
	Long: `Changes the status of a task. Provide the new status directly,
or use --next/--prev to move along the status order.
Multiple IDs can be provided as a comma-separated list.

Moving a task to completed behaves like the complete command.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // 1 or 2 positional args
	RunE: runMove,
}

func init() {
	moveCmd.Flags().Bool("next", false, "move to next status")
	moveCmd.Flags().Bool("prev", false, "move to previous status")
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		return moveSingleTask(cfg, ids[0], cmd, args)
	}
	return runBatch(ids, func(id int) error {
		_, err := executeMove(cfg, id, cmd, args)
		return err
	})
}

// moveSingleTask handles a single task move with full output.
func moveSingleTask(cfg *config.Config, id int, cmd *cobra.Command, args []string) error {
	res, err := executeMove(cfg, id, cmd, args)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, res)
	}
	if !res.Changed {
		output.Messagef(os.Stdout, "Task #%d is already %s", id, res.Task.Status)
		return nil
	}
	output.Messagef(os.Stdout, "Moved task #%d: %s -> %s", id, res.From, res.Task.Status)
	return nil
}

// executeMove resolves the target status and moves task id there.
func executeMove(cfg *config.Config, id int, cmd *cobra.Command, args []string) (*board.MoveResult, error) {
	t, err := board.Get(cfg, id)
	if err != nil {
		return nil, err
	}
	target, err := resolveTargetStatus(cmd, args, t)
	if err != nil {
		return nil, err
	}
	return board.Move(cfg, actor(), id, target, time.Now())
}

// resolveTargetStatus determines the target status from args or --next/--prev.
func resolveTargetStatus(cmd *cobra.Command, args []string, t *task.Task) (task.Status, error) {
	next, _ := cmd.Flags().GetBool("next")
	prev, _ := cmd.Flags().GetBool("prev")

	switch {
	case len(args) > 1 && (next || prev):
		return "", clierr.New(clierr.InvalidInput, "provide a status or --next/--prev, not both")
	case len(args) > 1:
		return task.ValidateStatus(args[1])
	case next || prev:
		step, dir := 1, "next"
		if prev {
			step, dir = -1, "previous"
		}
		idx := slices.Index(task.Statuses, t.Status) + step
		if idx < 0 || idx >= len(task.Statuses) {
			return "", clierr.Newf(clierr.InvalidStatus, "task #%d has no %s status after %s", t.ID, dir, t.Status).
				WithDetails(map[string]any{"status": string(t.Status)})
		}
		return task.Statuses[idx], nil
	default:
		return "", clierr.New(clierr.InvalidInput, "provide a target status or use --next/--prev")
	}
}
