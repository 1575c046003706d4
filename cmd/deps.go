package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

var depsCmd = &cobra.Command{
	Use:   "deps ID",
	Short: "Show what a task waits on and what waits on it",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeps,
}

func init() {
	rootCmd.AddCommand(depsCmd)
}

func runDeps(_ *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return task.ValidateTaskID(args[0])
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	d, err := board.Deps(cfg, id)
	if err != nil {
		return err
	}
	if len(d.Cycle) > 0 {
		logger.Warn().Ints("cycle", d.Cycle).Msg("stored blockers form a cycle")
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, d)
	case output.FormatCompact:
		output.DepsCompact(os.Stdout, d)
	default:
		output.DepsTable(os.Stdout, d)
	}
	return nil
}
