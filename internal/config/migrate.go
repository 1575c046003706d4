package config

import (
	"fmt"

	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// migrate upgrades a config from its current version to CurrentVersion.
// Each migration function transforms the config one version forward.
// Returns an error if the config version is newer than what this binary supports.
func migrate(cfg *Config) error {
	if cfg.Version == CurrentVersion {
		return nil
	}
	if cfg.Version > CurrentVersion {
		return fmt.Errorf(
			"%w: config version %d is newer than supported version %d (upgrade taskflow)",
			ErrInvalid, cfg.Version, CurrentVersion,
		)
	}
	if cfg.Version < 1 {
		return fmt.Errorf("%w: config version %d is invalid", ErrInvalid, cfg.Version)
	}

	for cfg.Version < CurrentVersion {
		fn, ok := migrations[cfg.Version]
		if !ok {
			return fmt.Errorf("%w: no migration path from version %d", ErrInvalid, cfg.Version)
		}
		if err := fn(cfg); err != nil {
			return fmt.Errorf("migrating config from v%d: %w", cfg.Version, err)
		}
	}

	return nil
}

// migrations maps each version to the function that migrates it to the next version.
// The migration function must increment cfg.Version after a successful migration.
var migrations = map[int]func(*Config) error{
	1: migrateV1ToV2,
	2: migrateV2ToV3,
}

// migrateV1ToV2 adds the access file and agenda sections.
func migrateV1ToV2(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if cfg.AccessFile == "" {
		cfg.AccessFile = DefaultAccessFile
	}
	if cfg.Agenda.Time == "" {
		cfg.Agenda.Time = DefaultAgendaTime
	}
	if cfg.Agenda.Lookahead == 0 {
		cfg.Agenda.Lookahead = DefaultAgendaLookahead
	}
	if cfg.TUI.TitleLines == 0 {
		cfg.TUI.TitleLines = DefaultTitleLines
	}
	cfg.Version = 2
	return nil
}

// migrateV2ToV3 rewrites hyphenated status names ("in-progress") in the
// default status and wip_limits keys to their canonical form.
func migrateV2ToV3(cfg *Config) error {
	if cfg.Defaults.Status == "" {
		cfg.Defaults.Status = DefaultStatus
	}
	if len(cfg.WIPLimits) > 0 {
		limits := make(map[string]int, len(cfg.WIPLimits))
		for name, limit := range cfg.WIPLimits {
			st, err := task.ParseStatus(name)
			if err != nil {
				return fmt.Errorf("wip_limits: %w", err)
			}
			limits[string(st)] = limit
		}
		cfg.WIPLimits = limits
	}
	cfg.Version = 3
	return nil
}
