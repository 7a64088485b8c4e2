// Package config manages taskflow configuration through viper.
//
// Configuration is discovered by walking up from the working directory
// to the nearest .taskflow/config.yaml, falling back to the user
// config directory. Environment variables with the TASKFLOW_ prefix
// override file values (TASKFLOW_ACTOR, TASKFLOW_DB, ...).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Dir is the per-project directory taskflow keeps its state in.
const Dir = ".taskflow"

// DatabaseName is the canonical database filename.
const DatabaseName = "taskflow.db"

var v *viper.Viper

// Initialize sets up the viper configuration singleton. Called once at
// application startup; missing config files are not an error.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	// Walk up from CWD so commands work from subdirectories.
	configFileSet := false
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			configPath := filepath.Join(dir, Dir, "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
				break
			}
		}
	}
	if !configFileSet {
		if configDir, err := os.UserConfigDir(); err == nil {
			configPath := filepath.Join(configDir, "taskflow", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	v.SetEnvPrefix("TASKFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults()

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func setDefaults() {
	v.SetDefault("actor", "")
	v.SetDefault("db", "")
	v.SetDefault("list.show-blocked-marker", true)
}

// ensure panics if Initialize was never called. Config access before
// startup is a programming error, not a runtime condition.
func ensure() {
	if v == nil {
		panic("config: Initialize not called")
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	ensure()
	return v.GetString(key)
}

// GetBool returns a boolean config value.
func GetBool(key string) bool {
	ensure()
	return v.GetBool(key)
}

// DBPath resolves the database path: explicit config/env first, then
// the nearest .taskflow directory walking up from CWD. Returns an
// error when no database location can be determined.
func DBPath() (string, error) {
	ensure()
	if path := v.GetString("db"); path != "" {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, Dir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return filepath.Join(candidate, DatabaseName), nil
		}
	}
	return "", fmt.Errorf("no %s directory found (run 'taskflow init' first, or set --db)", Dir)
}

// Actor resolves who is performing the current operation: config/env
// first, then the OS user. Threaded explicitly into the engine rather
// than read ambiently there, so the engine stays independently
// testable.
func Actor() string {
	ensure()
	if actor := v.GetString("actor"); actor != "" {
		return actor
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}
