package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/filelock"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/schedule"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify board configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func setInt(key string, dst func(*config.Config) *int) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return clierr.Newf(clierr.InvalidInput, "invalid %s %q: must be an integer", key, v)
		}
		*dst(c) = n
		return nil // validation handles range check
	}
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"board.name": {
			get:      func(c *config.Config) any { return c.Board.Name },
			set:      func(c *config.Config, v string) error { c.Board.Name = v; return nil },
			writable: true,
		},
		"board.description": {
			get:      func(c *config.Config) any { return c.Board.Description },
			set:      func(c *config.Config, v string) error { c.Board.Description = v; return nil },
			writable: true,
		},
		"tasks_dir": {
			get: func(c *config.Config) any { return c.TasksDir },
		},
		"access_file": {
			get: func(c *config.Config) any { return c.AccessFile },
		},
		"statuses": {
			get: func(*config.Config) any { return task.StatusStrings() },
		},
		"priorities": {
			get: func(c *config.Config) any { return c.Priorities },
		},
		"defaults.status": {
			get: func(c *config.Config) any { return c.Defaults.Status },
			set: func(c *config.Config, v string) error {
				st, err := task.ValidateStatus(v)
				if err != nil {
					return err
				}
				c.Defaults.Status = st
				return nil
			},
			writable: true,
		},
		"defaults.priority": {
			get: func(c *config.Config) any { return c.Defaults.Priority },
			set: func(c *config.Config, v string) error {
				if err := task.ValidatePriority(v, c.Priorities); err != nil {
					return err
				}
				c.Defaults.Priority = v
				return nil
			},
			writable: true,
		},
		"defaults.project": {
			get:      func(c *config.Config) any { return c.Defaults.Project },
			set:      func(c *config.Config, v string) error { c.Defaults.Project = v; return nil },
			writable: true,
		},
		"defaults.owner": {
			get:      func(c *config.Config) any { return c.Defaults.Owner },
			set:      func(c *config.Config, v string) error { c.Defaults.Owner = v; return nil },
			writable: true,
		},
		"wip_limits": {
			get: func(c *config.Config) any {
				if c.WIPLimits == nil {
					return map[string]int{}
				}
				return c.WIPLimits
			},
		},
		"agenda.time": {
			get: func(c *config.Config) any { return c.Agenda.Time },
			set: func(c *config.Config, v string) error {
				if _, err := schedule.DailySpec(v); err != nil {
					return err
				}
				c.Agenda.Time = v
				return nil
			},
			writable: true,
		},
		"agenda.lookahead": {
			get:      func(c *config.Config) any { return c.Agenda.Lookahead },
			set:      setInt("agenda.lookahead", func(c *config.Config) *int { return &c.Agenda.Lookahead }),
			writable: true,
		},
		"agenda.timezone": {
			get: func(c *config.Config) any { return c.Agenda.Timezone },
			set: func(c *config.Config, v string) error {
				if _, err := time.LoadLocation(v); err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid agenda.timezone %q: %v", v, err)
				}
				c.Agenda.Timezone = v
				return nil
			},
			writable: true,
		},
		"tui.title_lines": {
			get:      func(c *config.Config) any { return c.TUI.TitleLines },
			set:      setInt("tui.title_lines", func(c *config.Config) *int { return &c.TUI.TitleLines }),
			writable: true,
		},
		"next_id": {
			get: func(c *config.Config) any { return c.NextID },
		},
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"board.name",
		"board.description",
		"tasks_dir",
		"access_file",
		"statuses",
		"priorities",
		"defaults.status",
		"defaults.priority",
		"defaults.project",
		"defaults.owner",
		"wip_limits",
		"agenda.time",
		"agenda.lookahead",
		"agenda.timezone",
		"tui.title_lines",
		"next_id",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()
	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		fmt.Fprintf(os.Stdout, "%-20s %v\n", key, formatConfigValue(accessors[key].get(cfg)))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}

	val := acc.get(cfg)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}
	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	// next_id is advanced under the same lock.
	var cfg *config.Config
	err = filelock.Do(filepath.Join(dir, ".lock"), func() error {
		var loadErr error
		cfg, loadErr = config.Load(dir)
		if loadErr != nil {
			return loadErr
		}
		if setErr := acc.set(cfg, value); setErr != nil {
			return setErr
		}
		if validErr := cfg.Validate(); validErr != nil {
			return clierr.New(clierr.InvalidInput, validErr.Error())
		}
		if saveErr := cfg.Save(); saveErr != nil {
			return fmt.Errorf("saving config: %w", saveErr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}
	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, ", ")
	case map[string]int:
		if len(v) == 0 {
			return "--"
		}
		parts := make([]string, 0, len(v))
		for k, n := range v {
			parts = append(parts, fmt.Sprintf("%s=%d", k, n))
		}
		sort.Strings(parts)
		return strings.Join(parts, ", ")
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
