package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

func TestInitLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DefaultDir)
	cfg, err := Init(dir, "home")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := os.Stat(cfg.TasksPath()); err != nil {
		t.Fatalf("tasks dir not created: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Board.Name != "home" || loaded.Defaults.Status != task.StatusToDo || loaded.NextID != 1 {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.AccessPath() != filepath.Join(loaded.Dir(), DefaultAccessFile) {
		t.Errorf("AccessPath = %s", loaded.AccessPath())
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load = %v, want ErrNotFound", err)
	}
}

func TestLoadMigratesV1(t *testing.T) {
	dir := t.TempDir()
	v1 := `version: 1
board:
  name: legacy
tasks_dir: tasks
priorities: [low, medium, high]
defaults:
  status: todo
  priority: medium
wip_limits:
  in-progress: 3
next_id: 4
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(v1), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if cfg.AccessFile != DefaultAccessFile || cfg.Agenda.Time != DefaultAgendaTime {
		t.Errorf("v2 defaults not applied: %+v", cfg)
	}
	if cfg.WIPLimit(task.StatusInProgress) != 3 {
		t.Errorf("wip limit = %d, want 3", cfg.WIPLimit(task.StatusInProgress))
	}

	// The migrated file is written back.
	again, err := Load(dir)
	if err != nil || again.Version != CurrentVersion {
		t.Fatalf("reload = %+v, %v", again, err)
	}
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("version: 99\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Load = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no name", func(c *Config) { c.Board.Name = "" }},
		{"duplicate priority", func(c *Config) { c.Priorities = []string{"low", "low"} }},
		{"unknown default status", func(c *Config) { c.Defaults.Status = "later" }},
		{"default priority missing", func(c *Config) { c.Defaults.Priority = "p0" }},
		{"wip unknown status", func(c *Config) { c.WIPLimits = map[string]int{"review": 1} }},
		{"wip negative", func(c *Config) { c.WIPLimits = map[string]int{"in_progress": -1} }},
		{"bad agenda time", func(c *Config) { c.Agenda.Time = "8am" }},
		{"bad timezone", func(c *Config) { c.Agenda.Timezone = "Mars/Olympus" }},
		{"title lines", func(c *Config) { c.TUI.TitleLines = 9 }},
		{"next id", func(c *Config) { c.NextID = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault("b")
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate = %v, want ErrInvalid", err)
			}
		})
	}
	if err := NewDefault("b").Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestFindDir(t *testing.T) {
	root := t.TempDir()
	if _, err := Init(filepath.Join(root, DefaultDir), "b"); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatal(err)
	}

	got, err := FindDir(nested)
	if err != nil {
		t.Fatalf("FindDir: %v", err)
	}
	if got != filepath.Join(root, DefaultDir) {
		t.Errorf("FindDir = %s", got)
	}

	if _, err := FindDir(t.TempDir()); clierr.CodeOf(err) != clierr.BoardNotFound {
		t.Errorf("FindDir outside a board = %v", err)
	}
}

func TestReadEnv(t *testing.T) {
	t.Setenv("TASKFLOW_ACTOR", "alice")
	env, err := ReadEnv()
	if err != nil {
		t.Fatalf("ReadEnv: %v", err)
	}
	if env.Actor != "alice" {
		t.Errorf("Actor = %q", env.Actor)
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("07:45")
	if err != nil || h != 7 || m != 45 {
		t.Errorf("ParseClock = %d, %d, %v", h, m, err)
	}
	if _, _, err := ParseClock("25:00"); err == nil {
		t.Error("ParseClock accepted 25:00")
	}
}
