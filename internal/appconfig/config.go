// Package appconfig manages application settings and runtime file paths.
package appconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SSHConfig controls how the external ssh binary is invoked.
type SSHConfig struct {
	Binary       string   `yaml:"binary"`
	ExtraOptions []string `yaml:"extra_options,omitempty"`
}

// SessionLogConfig controls per-session transcript capture.
type SessionLogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir,omitempty"`
}

// Settings holds application-level settings, kept separate from the server
// group document so hand-edits to one cannot corrupt the other.
type Settings struct {
	SSH         SSHConfig        `yaml:"ssh"`
	SessionLogs SessionLogConfig `yaml:"session_logs"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		SSH: SSHConfig{Binary: "ssh"},
	}
}

// Dir returns the application data directory path.
// Uses SSH_CONNECTOR_HOME if set, otherwise ~/.ssh_connector.
func Dir() (string, error) {
	if override := os.Getenv("SSH_CONNECTOR_HOME"); override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, ".ssh_connector"), nil
}

// DocumentPath returns the full path to the server group document.
func DocumentPath() (string, error) {
	d, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.json"), nil
}

// HistoryPath returns the full path to history.json.
func HistoryPath() (string, error) {
	d, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "history.json"), nil
}

// Load reads settings.yaml from the data directory.
// If the file doesn't exist, creates it with defaults.
func Load() (Settings, error) {
	d, err := Dir()
	if err != nil {
		return Settings{}, err
	}
	if err := os.MkdirAll(d, 0o700); err != nil {
		return Settings{}, err
	}
	path := filepath.Join(d, "settings.yaml")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s := Default()
			s.SessionLogs.Dir = filepath.Join(d, "sessions")
			if err := Save(s); err != nil {
				return s, err
			}
			return s, nil
		}
		return Settings{}, err
	}
	s := Default()
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if s.SSH.Binary == "" {
		s.SSH.Binary = "ssh"
	}
	if s.SessionLogs.Dir == "" {
		s.SessionLogs.Dir = filepath.Join(d, "sessions")
	}
	return s, nil
}

// Save writes settings to settings.yaml.
func Save(s Settings) error {
	d, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d, 0o700); err != nil {
		return err
	}
	path := filepath.Join(d, "settings.yaml")
	b, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
