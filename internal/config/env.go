package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Env holds settings read from the process environment. A .env file in the
// working directory is loaded into the environment before this runs.
type Env struct {
	Dir      string `env:"TASKFLOW_DIR" env-description:"board directory, overrides the upward search"`
	Output   string `env:"TASKFLOW_OUTPUT" env-description:"default output format: json, table or compact"`
	Actor    string `env:"TASKFLOW_ACTOR" env-description:"user id that sharing and team commands act as"`
	LogLevel string `env:"TASKFLOW_LOG_LEVEL" env-default:"warn" env-description:"diagnostic log level"`
	NoColor  string `env:"NO_COLOR" env-description:"disable color output when set"`
}

// ReadEnv reads Env from the environment.
func ReadEnv() (Env, error) {
	var env Env
	if err := cleanenv.ReadEnv(&env); err != nil {
		return Env{}, fmt.Errorf("reading environment: %w", err)
	}
	return env, nil
}

// EnvUsage describes the recognized environment variables for help output.
func EnvUsage() string {
	var env Env
	text, err := cleanenv.GetDescription(&env, nil)
	if err != nil {
		return ""
	}
	return text
}
