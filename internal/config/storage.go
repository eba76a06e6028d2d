// Package config loads and persists the server group document.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sshconnector/ssh-connector/internal/appconfig"
	"github.com/sshconnector/ssh-connector/internal/model"
)

// ErrInvalidFormat reports an imported document that lacks a server group
// mapping.
var ErrInvalidFormat = errors.New("invalid configuration format")

// Store reads and writes the server group document at a fixed path.
type Store struct {
	Path string
}

// NewStore returns a store bound to path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// DefaultStore returns a store bound to the default document path.
func DefaultStore() (*Store, error) {
	p, err := appconfig.DocumentPath()
	if err != nil {
		return nil, err
	}
	return &Store{Path: p}, nil
}

// LoadResult carries the loaded document plus anything the caller should
// relay to the user about how the load went.
type LoadResult struct {
	Config   *model.Config
	Warnings []string
	Created  bool
}

// DefaultUsername resolves the initial SSH username from the environment.
func DefaultUsername() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u := os.Getenv("USERNAME"); u != "" {
		return u
	}
	return "user"
}

// Default returns the built-in starter document.
func Default() *model.Config {
	return &model.Config{
		Username: DefaultUsername(),
		Groups: []model.Group{
			{Name: "Development", Hosts: []string{
				"dev-server-1.example.com",
				"dev-server-2.example.com",
			}},
			{Name: "Production", Hosts: []string{
				"prod-server-1.example.com",
				"prod-server-2.example.com",
			}},
			{Name: "Database", Hosts: []string{
				"db-server-1.example.com",
				"db-server-2.example.com",
			}},
		},
	}
}

// Load reads the document. A missing file or a document that fails to parse
// is replaced by the built-in default, which is persisted before returning;
// such problems surface as warnings, never as failures.
func (s *Store) Load() LoadResult {
	var res LoadResult
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Error loading configuration: %v", err))
		}
		return s.createDefault(res)
	}
	cfg := &model.Config{}
	if err := json.Unmarshal(b, cfg); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Error loading configuration: %v", err))
		return s.createDefault(res)
	}
	if !cfg.HasUsername() {
		cfg.Username = DefaultUsername()
	}
	res.Config = cfg
	return res
}

func (s *Store) createDefault(res LoadResult) LoadResult {
	cfg := Default()
	if err := s.Save(cfg); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Error saving configuration: %v", err))
	} else {
		res.Created = true
	}
	res.Config = cfg
	return res
}

// Save overwrites the document at the store path.
func (s *Store) Save(cfg *model.Config) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, b, 0o600)
}

// Export writes the document to an arbitrary path.
func (s *Store) Export(cfg *model.Config, path string) error {
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// Import reads and validates a document from path. The top level must be an
// object carrying a "server_groups" mapping; the username key is optional.
// Nothing is persisted; the caller decides what to do with the result.
func (s *Store) Import(path string) (*model.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg model.Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		if errors.Is(err, model.ErrInvalidDocument) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if !cfg.HasGroups() {
		return nil, fmt.Errorf("%w: missing 'server_groups' key", ErrInvalidFormat)
	}
	return &cfg, nil
}

// DefaultExportPath returns the conventional export location in the user's
// home directory.
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, "ssh_connector_config.json"), nil
}
