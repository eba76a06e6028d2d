package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sshconnector/ssh-connector/internal/appconfig"
	"github.com/sshconnector/ssh-connector/internal/model"
	"github.com/sshconnector/ssh-connector/internal/sshclient"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Issue struct {
	Severity       Severity `json:"severity"`
	Check          string   `json:"check"`
	Target         string   `json:"target"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

func (r Report) HasHigh() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityHigh {
			return true
		}
	}
	return false
}

// Run executes local diagnostics for ssh-connector operations. An empty
// documentPath selects the default document location.
func Run(documentPath string) (Report, error) {
	settings, err := appconfig.Load()
	if err != nil {
		return Report{}, err
	}

	var issues []Issue

	client := sshclient.New(settings)
	if err := client.EnsureBinary(); err != nil {
		issues = append(issues, Issue{
			Severity:       SeverityHigh,
			Check:          "ssh-binary",
			Target:         "PATH",
			Message:        err.Error(),
			Recommendation: "install the OpenSSH client or point ssh.binary in settings.yaml at one",
		})
	}

	if documentPath == "" {
		if path, err := appconfig.DocumentPath(); err == nil {
			documentPath = path
		}
	}
	if documentPath != "" {
		issues = append(issues, documentIssues(documentPath)...)
		checkPathPerm(&issues, documentPath, 0o600, true)
	}

	if dir, err := appconfig.Dir(); err == nil {
		checkPathPerm(&issues, dir, 0o700, false)
		checkPathPerm(&issues, filepath.Join(dir, "settings.yaml"), 0o600, true)
	}
	if path, err := appconfig.HistoryPath(); err == nil {
		checkPathPerm(&issues, path, 0o600, true)
	}
	if settings.SessionLogs.Enabled && settings.SessionLogs.Dir != "" {
		checkPathPerm(&issues, settings.SessionLogs.Dir, 0o700, false)
	}

	sort.Slice(issues, func(i, j int) bool {
		ri := severityRank(issues[i].Severity)
		rj := severityRank(issues[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if issues[i].Check != issues[j].Check {
			return issues[i].Check < issues[j].Check
		}
		if issues[i].Target != issues[j].Target {
			return issues[i].Target < issues[j].Target
		}
		return issues[i].Message < issues[j].Message
	})
	return Report{Issues: issues}, nil
}

// documentIssues inspects the server group document without loading it
// through the store, which would replace a broken document with defaults.
func documentIssues(path string) []Issue {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Issue{{
				Severity:       SeverityLow,
				Check:          "config-missing",
				Target:         path,
				Message:        "configuration document does not exist yet",
				Recommendation: "run `ssh-connector` once to create the default document",
			}}
		}
		return []Issue{{
			Severity:       SeverityLow,
			Check:          "config-unreadable",
			Target:         path,
			Message:        fmt.Sprintf("unable to read document: %v", err),
			Recommendation: "verify path and permissions manually",
		}}
	}

	var cfg model.Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return []Issue{{
			Severity:       SeverityMedium,
			Check:          "config-parse",
			Target:         path,
			Message:        fmt.Sprintf("document does not parse: %v", err),
			Recommendation: "fix the JSON by hand, or delete the file and let the next run regenerate defaults",
		}}
	}

	var issues []Issue
	if !cfg.HasUsername() {
		issues = append(issues, Issue{
			Severity:       SeverityLow,
			Check:          "config-username",
			Target:         path,
			Message:        "no username stored; the login name from the environment is used",
			Recommendation: "set a username from the main menu so sessions do not depend on $USER",
		})
	}
	issues = append(issues, duplicateHostIssues(cfg.Groups)...)
	return issues
}

// duplicateHostIssues flags hostnames that appear in more than one group.
// Usually that is a copy left behind by a group reshuffle rather than intent.
func duplicateHostIssues(groups []model.Group) []Issue {
	owners := map[string][]string{}
	for _, g := range groups {
		for _, h := range g.Hosts {
			owners[h] = append(owners[h], g.Name)
		}
	}
	var issues []Issue
	for host, names := range owners {
		if len(names) < 2 {
			continue
		}
		issues = append(issues, Issue{
			Severity:       SeverityLow,
			Check:          "duplicate-host",
			Target:         host,
			Message:        fmt.Sprintf("host appears in %d groups (%s)", len(names), strings.Join(names, ", ")),
			Recommendation: "keep each server in a single group unless the duplication is intentional",
		})
	}
	return issues
}

func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}

func checkPathPerm(issues *[]Issue, path string, max os.FileMode, isFile bool) {
	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		*issues = append(*issues, Issue{
			Severity:       SeverityLow,
			Check:          "permissions",
			Target:         path,
			Message:        fmt.Sprintf("unable to inspect permissions: %v", err),
			Recommendation: "verify path and permissions manually",
		})
		return
	}
	mode := st.Mode().Perm()
	if mode > max {
		kind := "directory"
		if isFile {
			kind = "file"
		}
		*issues = append(*issues, Issue{
			Severity:       SeverityMedium,
			Check:          "permissions",
			Target:         path,
			Message:        fmt.Sprintf("%s permissions are too broad (%#o)", kind, mode),
			Recommendation: fmt.Sprintf("restrict permissions to %#o or tighter", max),
		})
	}
}
