package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no taskflow board found (run 'taskflow init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the board configuration.
type Config struct {
	Version    int            `yaml:"version"`
	Board      BoardConfig    `yaml:"board"`
	TasksDir   string         `yaml:"tasks_dir"`
	AccessFile string         `yaml:"access_file"`
	Priorities []string       `yaml:"priorities"`
	Defaults   DefaultsConfig `yaml:"defaults"`
	WIPLimits  map[string]int `yaml:"wip_limits,omitempty"`
	Agenda     AgendaConfig   `yaml:"agenda"`
	TUI        TUIConfig      `yaml:"tui,omitempty"`
	NextID     int            `yaml:"next_id"`

	// dir is the absolute path to the board directory (not serialized).
	dir string `yaml:"-"`
}

// BoardConfig holds board metadata.
type BoardConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// DefaultsConfig holds default values for new tasks.
type DefaultsConfig struct {
	Status   task.Status `yaml:"status"`
	Priority string      `yaml:"priority"`
	Project  string      `yaml:"project,omitempty"`
	Owner    string      `yaml:"owner,omitempty"`
}

// AgendaConfig controls the agenda command and its daily schedule.
type AgendaConfig struct {
	Time      string `yaml:"time"`               // HH:MM
	Lookahead int    `yaml:"lookahead"`          // days
	Timezone  string `yaml:"timezone,omitempty"` // IANA name, empty for local
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	TitleLines int `yaml:"title_lines,omitempty"`
}

// Dir returns the absolute path to the board directory.
func (c *Config) Dir() string {
	return c.dir
}

// TasksPath returns the absolute path to the tasks directory.
func (c *Config) TasksPath() string {
	return filepath.Join(c.dir, c.TasksDir)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// AccessPath returns the absolute path to the access file.
func (c *Config) AccessPath() string {
	return filepath.Join(c.dir, c.AccessFile)
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:    CurrentVersion,
		Board:      BoardConfig{Name: name},
		TasksDir:   DefaultTasksDir,
		AccessFile: DefaultAccessFile,
		Priorities: append([]string{}, DefaultPriorities...),
		Defaults: DefaultsConfig{
			Status:   DefaultStatus,
			Priority: DefaultPriority,
		},
		Agenda: AgendaConfig{Time: DefaultAgendaTime, Lookahead: DefaultAgendaLookahead},
		TUI:    TUIConfig{TitleLines: DefaultTitleLines},
		NextID: 1,
	}
}

// SetDir sets the board directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Board.Name == "" {
		return fmt.Errorf("%w: board.name is required", ErrInvalid)
	}
	if c.TasksDir == "" {
		return fmt.Errorf("%w: tasks_dir is required", ErrInvalid)
	}
	if c.AccessFile == "" {
		return fmt.Errorf("%w: access_file is required", ErrInvalid)
	}
	if len(c.Priorities) < 1 {
		return fmt.Errorf("%w: at least 1 priority is required", ErrInvalid)
	}
	if hasDuplicates(c.Priorities) {
		return fmt.Errorf("%w: priorities contain duplicates", ErrInvalid)
	}
	if !c.Defaults.Status.Valid() {
		return fmt.Errorf("%w: default status %q is not a known status", ErrInvalid, c.Defaults.Status)
	}
	if !contains(c.Priorities, c.Defaults.Priority) {
		return fmt.Errorf("%w: default priority %q not in priorities list", ErrInvalid, c.Defaults.Priority)
	}
	if err := c.validateWIPLimits(); err != nil {
		return err
	}
	if err := c.validateAgenda(); err != nil {
		return err
	}
	const minTitleLines, maxTitleLines = 1, 3
	if c.TUI.TitleLines < minTitleLines || c.TUI.TitleLines > maxTitleLines {
		return fmt.Errorf("%w: tui.title_lines must be between %d and %d",
			ErrInvalid, minTitleLines, maxTitleLines)
	}
	if c.NextID < 1 {
		return fmt.Errorf("%w: next_id must be >= 1", ErrInvalid)
	}
	return nil
}

func (c *Config) validateWIPLimits() error {
	for status, limit := range c.WIPLimits {
		if !task.Status(status).Valid() {
			return fmt.Errorf("%w: wip_limits references unknown status %q", ErrInvalid, status)
		}
		if limit < 0 {
			return fmt.Errorf("%w: wip_limits for %q must be >= 0", ErrInvalid, status)
		}
	}
	return nil
}

func (c *Config) validateAgenda() error {
	if _, _, err := ParseClock(c.Agenda.Time); err != nil {
		return fmt.Errorf("%w: agenda.time: %w", ErrInvalid, err)
	}
	if c.Agenda.Lookahead < 0 {
		return fmt.Errorf("%w: agenda.lookahead must be >= 0", ErrInvalid)
	}
	if _, err := time.LoadLocation(c.Agenda.Timezone); err != nil {
		return fmt.Errorf("%w: agenda.timezone %q: %w", ErrInvalid, c.Agenda.Timezone, err)
	}
	return nil
}

// ParseClock parses an HH:MM time of day.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

// Location returns the agenda timezone, falling back to local time.
func (c *Config) Location() *time.Location {
	if c.Agenda.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Agenda.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// WIPLimit returns the WIP limit for a status, or 0 (unlimited).
func (c *Config) WIPLimit(status task.Status) int {
	if c.WIPLimits == nil {
		return 0
	}
	return c.WIPLimits[string(status)]
}

// TitleLines returns the configured number of title lines for TUI cards.
// Returns DefaultTitleLines if the value is unset (zero).
func (c *Config) TitleLines() int {
	if c.TUI.TitleLines == 0 {
		return DefaultTitleLines
	}
	return c.TUI.TitleLines
}

// Init creates a new board in the given directory with default settings.
// It creates the board directory, tasks subdirectory, and config file.
func Init(dir, name string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)

	if err := os.MkdirAll(cfg.TasksPath(), dirMode); err != nil {
		return nil, fmt.Errorf("creating tasks directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads, migrates, and validates a config from the given board directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a board directory
// containing config.yml. Returns the absolute path to the board directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the board directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.BoardNotFound,
				"no taskflow board found (run 'taskflow init' to create one)")
		}
		dir = parent
	}
}

// PriorityIndex returns the index of a priority in the configured order, or -1.
func (c *Config) PriorityIndex(priority string) int {
	return IndexOf(c.Priorities, priority)
}

func contains(slice []string, item string) bool {
	return IndexOf(slice, item) >= 0
}

// IndexOf returns the index of item in slice, or -1 if not found.
func IndexOf(slice []string, item string) int {
	for i, s := range slice {
		if s == item {
			return i
		}
	}
	return -1
}

func hasDuplicates(slice []string) bool {
	seen := make(map[string]bool, len(slice))
	for _, s := range slice {
		if seen[s] {
			return true
		}
		seen[s] = true
	}
	return false
}
