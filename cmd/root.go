// Package cmd implements the taskflow CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/logging"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON     bool
	flagTable    bool
	flagCompact  bool
	flagDir      string
	flagNoColor  bool
	flagActor    string
	flagLogLevel string
)

var (
	env    config.Env
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "Recurring tasks, blockers, and shared projects on a file-based board",
	Long: `taskflow keeps tasks as markdown files in a board directory. Completing a
recurring task schedules its next occurrence, blockers are checked for cycles,
and projects can be shared with users and teams.

Run taskflow with no arguments to open the board TUI.`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	RunE:              runTUI,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to the board directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&flagActor, "actor", "", "user id to act as for access checks")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "diagnostic log level (debug, info, warn, error)")

	rootCmd.SetUsageTemplate(rootCmd.UsageTemplate() + "\nEnvironment:\n" + config.EnvUsage() + "\n")
}

// setup reads the environment and builds the diagnostic logger before any
// command runs.
func setup(_ *cobra.Command, _ []string) error {
	var err error
	env, err = config.ReadEnv()
	if err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}

	noColor := flagNoColor || env.NoColor != ""
	if noColor {
		output.DisableColor()
	}

	levelName := flagLogLevel
	if levelName == "" {
		levelName = env.LogLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return clierr.Newf(clierr.InvalidInput, "invalid log level %q", levelName).
			WithDetails(map[string]any{"level": levelName})
	}
	logger = logging.Stderr(level, noColor)
	return nil
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if outputFormat() == output.FormatJSON {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// resolveDir returns the board directory from --dir, TASKFLOW_DIR, or an
// upward search from the working directory.
func resolveDir() (string, error) {
	switch {
	case flagDir != "":
		return flagDir, nil
	case env.Dir != "":
		return env.Dir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return config.FindDir(cwd)
}

// loadConfig finds and loads the board config.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if errors.Is(err, config.ErrNotFound) {
		return nil, clierr.New(clierr.BoardNotFound, err.Error()).
			WithDetails(map[string]any{"dir": dir})
	}
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("dir", cfg.Dir()).Msg("board loaded")
	return cfg, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact, env.Output)
}

// actor is the identity access checks run as.
func actor() string {
	if flagActor != "" {
		return flagActor
	}
	return env.Actor
}

// printWarnings reports task files that could not be read.
func printWarnings(warnings []task.ReadWarning) {
	for _, w := range warnings {
		logger.Warn().Str("file", w.File).Err(w.Err).Msg("skipping malformed task file")
	}
}

// authorizeTask loads task id and checks the actor may edit it.
func authorizeTask(cfg *config.Config, id int) (*task.Task, error) {
	t, err := board.Get(cfg, id)
	if err != nil {
		return nil, err
	}
	if err := board.AuthorizeTaskEdit(cfg, actor(), t); err != nil {
		return nil, err
	}
	return t, nil
}

// parseIDs splits a comma-separated ID string into deduplicated int IDs.
func parseIDs(arg string) ([]int, error) {
	return board.ParseIDs(arg)
}

// runBatch executes fn for each ID and collects results. Returns a SilentError
// with exit code 1 if any operation failed (after outputting results).
func runBatch(ids []int, fn func(int) error) error {
	results := make([]output.BatchResult, 0, len(ids))
	anyFailed := false

	for _, id := range ids {
		err := fn(id)
		if err == nil {
			results = append(results, output.BatchResult{ID: id, OK: true})
			continue
		}
		anyFailed = true
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			results = append(results, output.BatchResult{ID: id, OK: false, Error: cliErr.Message, Code: cliErr.Code})
		} else {
			results = append(results, output.BatchResult{ID: id, OK: false, Error: err.Error()})
		}
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: task #%d: %s\n", r.ID, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(ids))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
