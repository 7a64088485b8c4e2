package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of .taskflow/config.yaml.
type FileConfig struct {
	Actor string `yaml:"actor,omitempty"`
	DB    string `yaml:"db,omitempty"`
	List  struct {
		ShowBlockedMarker bool `yaml:"show-blocked-marker"`
	} `yaml:"list"`
}

// WriteDefault creates projectDir/.taskflow with a default config.yaml.
// Existing files are left alone.
func WriteDefault(projectDir, actor string) (string, error) {
	dir := filepath.Join(projectDir, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	cfg := FileConfig{Actor: actor}
	cfg.List.ShowBlockedMarker = true
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
