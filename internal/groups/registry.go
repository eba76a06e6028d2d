// Package groups owns the in-memory server group document and persists it
// after every successful mutation.
package groups

import (
	"errors"
	"strings"

	"github.com/sshconnector/ssh-connector/internal/model"
)

// Validation failures the menu layer turns into user-facing messages.
var (
	ErrEmptyName      = errors.New("group name cannot be empty")
	ErrDuplicateGroup = errors.New("group already exists")
	ErrUnknownGroup   = errors.New("group not found")
	ErrEmptyHost      = errors.New("server cannot be empty")
	ErrDuplicateHost  = errors.New("server already exists in this group")
	ErrUnknownHost    = errors.New("server not found")
)

// Saver persists the document after a mutation.
type Saver interface {
	Save(cfg *model.Config) error
}

// Registry owns the single document instance for the process lifetime and
// writes it back through the Saver after each change. Not safe for
// concurrent use; the application runs one controller on one goroutine.
type Registry struct {
	cfg   *model.Config
	saver Saver
}

// NewRegistry wraps an already-loaded document.
func NewRegistry(cfg *model.Config, saver Saver) *Registry {
	return &Registry{cfg: cfg, saver: saver}
}

// Config exposes the underlying document for export and inspection.
func (r *Registry) Config() *model.Config { return r.cfg }

// Username returns the current SSH username.
func (r *Registry) Username() string { return r.cfg.Username }

// Groups returns the groups in display order.
func (r *Registry) Groups() []model.Group { return r.cfg.Groups }

// GroupNames returns the group names in display order.
func (r *Registry) GroupNames() []string { return r.cfg.GroupNames() }

// Hosts returns the hostnames of one group in display order.
func (r *Registry) Hosts(group string) ([]string, error) {
	g := r.cfg.Group(group)
	if g == nil {
		return nil, ErrUnknownGroup
	}
	return g.Hosts, nil
}

// SetUsername stores a new username. A blank value is a no-op, reported via
// the changed flag so the caller can phrase its feedback.
func (r *Registry) SetUsername(name string) (changed bool, err error) {
	if strings.TrimSpace(name) == "" {
		return false, nil
	}
	r.cfg.Username = name
	return true, r.persist()
}

// AddGroup appends an empty group.
func (r *Registry) AddGroup(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if r.cfg.Group(name) != nil {
		return ErrDuplicateGroup
	}
	r.cfg.Groups = append(r.cfg.Groups, model.Group{Name: name, Hosts: []string{}})
	return r.persist()
}

// RenameGroup moves a group's host list under a new name, keeping its
// position in the display order.
func (r *Registry) RenameGroup(oldName, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return ErrEmptyName
	}
	if r.cfg.Group(newName) != nil {
		return ErrDuplicateGroup
	}
	g := r.cfg.Group(oldName)
	if g == nil {
		return ErrUnknownGroup
	}
	g.Name = newName
	return r.persist()
}

// DeleteGroup removes a group and its hosts. Confirmation is the caller's
// concern.
func (r *Registry) DeleteGroup(name string) error {
	for i := range r.cfg.Groups {
		if r.cfg.Groups[i].Name == name {
			r.cfg.Groups = append(r.cfg.Groups[:i], r.cfg.Groups[i+1:]...)
			return r.persist()
		}
	}
	return ErrUnknownGroup
}

// AddHost appends a hostname to a group.
func (r *Registry) AddHost(group, host string) error {
	if strings.TrimSpace(host) == "" {
		return ErrEmptyHost
	}
	g := r.cfg.Group(group)
	if g == nil {
		return ErrUnknownGroup
	}
	for _, h := range g.Hosts {
		if h == host {
			return ErrDuplicateHost
		}
	}
	g.Hosts = append(g.Hosts, host)
	return r.persist()
}

// RemoveHost removes the first occurrence of a hostname from a group.
func (r *Registry) RemoveHost(group, host string) error {
	g := r.cfg.Group(group)
	if g == nil {
		return ErrUnknownGroup
	}
	for i, h := range g.Hosts {
		if h == host {
			g.Hosts = append(g.Hosts[:i], g.Hosts[i+1:]...)
			return r.persist()
		}
	}
	return ErrUnknownHost
}

// Replace swaps in an imported document. The groups are taken wholesale;
// the username is taken only when the import carried one.
func (r *Registry) Replace(imported *model.Config) error {
	if imported.HasUsername() {
		r.cfg.Username = imported.Username
	}
	r.cfg.Groups = imported.Groups
	return r.persist()
}

// persist writes the document back. The mutation stays applied in memory
// even when the write fails; the caller reports the error and carries on.
func (r *Registry) persist() error {
	return r.saver.Save(r.cfg)
}
