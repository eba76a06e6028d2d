// Package history tracks per-host connection activity.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/sshconnector/ssh-connector/internal/appconfig"
)

// HostStats records connection activity for one hostname.
type HostStats struct {
	Count         int   `json:"count"`
	LastConnected int64 `json:"last_connected"`
}

type store struct {
	Hosts map[string]HostStats `json:"hosts"`
}

func filePath() (string, error) {
	return appconfig.HistoryPath()
}

// Touch records one finished session for a hostname.
func Touch(host string) error {
	st, err := load()
	if err != nil {
		return err
	}
	s := st.Hosts[host]
	s.Count++
	s.LastConnected = time.Now().Unix()
	st.Hosts[host] = s
	return save(st)
}

// Stats returns activity keyed by hostname.
func Stats() (map[string]HostStats, error) {
	st, err := load()
	if err != nil {
		return nil, err
	}
	return st.Hosts, nil
}

func load() (store, error) {
	path, err := filePath()
	if err != nil {
		return store{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store{Hosts: map[string]HostStats{}}, nil
		}
		return store{}, err
	}
	var st store
	if err := json.Unmarshal(b, &st); err != nil {
		return store{Hosts: map[string]HostStats{}}, nil
	}
	if st.Hosts == nil {
		st.Hosts = map[string]HostStats{}
	}
	return st, nil
}

func save(st store) error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
