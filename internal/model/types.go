package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidDocument reports a configuration document that is not an object
// with an object-valued "server_groups" key.
var ErrInvalidDocument = errors.New("invalid configuration document")

// Group is one named, ordered list of server hostnames.
type Group struct {
	Name  string
	Hosts []string
}

// Config is the persisted application state: the SSH username plus the
// server groups in display order.
type Config struct {
	Username string
	Groups   []Group

	hasUsername bool
	hasGroups   bool
}

// HasUsername reports whether a decoded document carried a "username" key.
func (c *Config) HasUsername() bool { return c.hasUsername }

// HasGroups reports whether a decoded document carried a "server_groups" key.
func (c *Config) HasGroups() bool { return c.hasGroups }

// Group returns the named group, or nil when absent.
func (c *Config) Group(name string) *Group {
	return findGroup(c.Groups, name)
}

func findGroup(groups []Group, name string) *Group {
	for i := range groups {
		if groups[i].Name == name {
			return &groups[i]
		}
	}
	return nil
}

// GroupNames returns the group names in display order.
func (c *Config) GroupNames() []string {
	names := make([]string, len(c.Groups))
	for i, g := range c.Groups {
		names[i] = g.Name
	}
	return names
}

// MarshalJSON writes {"username":...,"server_groups":{...}} with groups and
// hosts in slice order. encoding/json maps sort their keys, which would
// scramble the order users arranged.
func (c Config) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"username":`)
	name, err := json.Marshal(c.Username)
	if err != nil {
		return nil, err
	}
	buf.Write(name)
	buf.WriteString(`,"server_groups":{`)
	for i, g := range c.Groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		hosts := g.Hosts
		if hosts == nil {
			hosts = []string{}
		}
		list, err := json.Marshal(hosts)
		if err != nil {
			return nil, err
		}
		buf.Write(list)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a document while preserving the order in which
// groups appear. Unknown top-level keys are skipped.
func (c *Config) UnmarshalJSON(data []byte) error {
	*c = Config{}
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: top level must be an object", ErrInvalidDocument)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		switch key {
		case "username":
			var u string
			if err := dec.Decode(&u); err != nil {
				return fmt.Errorf("%w: username must be a string", ErrInvalidDocument)
			}
			c.Username = u
			c.hasUsername = true
		case "server_groups":
			groups, err := decodeGroups(dec)
			if err != nil {
				return err
			}
			c.Groups = groups
			c.hasGroups = true
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func decodeGroups(dec *json.Decoder) ([]Group, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: server_groups must be an object", ErrInvalidDocument)
	}
	groups := []Group{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := keyTok.(string)
		var hosts []string
		if err := dec.Decode(&hosts); err != nil {
			return nil, fmt.Errorf("%w: servers for group %q must be an array of strings", ErrInvalidDocument, name)
		}
		if hosts == nil {
			hosts = []string{}
		}
		// A repeated group name takes the last host list while keeping the
		// position of its first occurrence, matching JSON object semantics.
		if g := findGroup(groups, name); g != nil {
			g.Hosts = hosts
			continue
		}
		groups = append(groups, Group{Name: name, Hosts: hosts})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return groups, nil
}
