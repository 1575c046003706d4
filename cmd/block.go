package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/depgraph"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

var blockCmd = &cobra.Command{
	Use:   "block ID BLOCKER[,BLOCKER,...]",
	Short: "Mark a task as blocked by other tasks",
	Long: `Records that task ID cannot proceed until each BLOCKER is completed or
cancelled. An edge that would make a task wait on itself, directly or
through a chain of blockers, is refused and nothing is written.`,
	Args: cobra.ExactArgs(2), //nolint:mnd // task and blocker list
	RunE: func(_ *cobra.Command, args []string) error {
		return runEdge(args, true)
	},
}

var unblockCmd = &cobra.Command{
	Use:   "unblock ID BLOCKER[,BLOCKER,...]",
	Short: "Remove blockers from a task",
	Long:  `Removes each BLOCKER from task ID. Removing an absent blocker succeeds without changes.`,
	Args:  cobra.ExactArgs(2), //nolint:mnd // task and blocker list
	RunE: func(_ *cobra.Command, args []string) error {
		return runEdge(args, false)
	},
}

func init() {
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(unblockCmd)
}

// edgeResult is the JSON shape of one blocker edit.
type edgeResult struct {
	ID      int  `json:"id"`
	Blocker int  `json:"blocker"`
	Changed bool `json:"changed"`
}

func runEdge(args []string, add bool) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return task.ValidateTaskID(args[0])
	}
	blockers, err := parseIDs(args[1])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(blockers) == 1 {
		return edgeSingle(cfg, id, blockers[0], add)
	}
	return runBatch(blockers, func(blocker int) error {
		_, err := executeEdge(cfg, id, blocker, add)
		return err
	})
}

func edgeSingle(cfg *config.Config, id, blocker int, add bool) error {
	res, err := executeEdge(cfg, id, blocker, add)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, edgeResult{ID: id, Blocker: blocker, Changed: res.Changed})
	}
	switch {
	case !res.Changed && add:
		output.Messagef(os.Stdout, "Task #%d is already blocked by #%d", id, blocker)
	case !res.Changed:
		output.Messagef(os.Stdout, "Task #%d is not blocked by #%d", id, blocker)
	case add:
		output.Messagef(os.Stdout, "Task #%d is now blocked by #%d", id, blocker)
	default:
		output.Messagef(os.Stdout, "Task #%d is no longer blocked by #%d", id, blocker)
	}
	return nil
}

func executeEdge(cfg *config.Config, id, blocker int, add bool) (depgraph.Result, error) {
	if add {
		return board.Block(cfg, actor(), id, blocker)
	}
	return board.Unblock(cfg, actor(), id, blocker)
}
