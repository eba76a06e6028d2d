package ui

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/sshconnector/ssh-connector/internal/config"
	"github.com/sshconnector/ssh-connector/internal/groups"
)

type fakeConnector struct {
	calls []string
	err   error
}

func (f *fakeConnector) Connect(username, host string) error {
	f.calls = append(f.calls, username+"@"+host)
	return f.err
}

type session struct {
	ctl  *Controller
	out  *bytes.Buffer
	conn *fakeConnector
	reg  *groups.Registry
	st   *config.Store
}

// newSession builds a controller over the default document with scripted
// input. One line of script per prompt the walk will hit.
func newSession(t *testing.T, script string) *session {
	t.Helper()
	t.Setenv("USER", "tester")
	st := config.NewStore(filepath.Join(t.TempDir(), "config.json"))
	res := st.Load()
	reg := groups.NewRegistry(res.Config, st)
	conn := &fakeConnector{}
	out := &bytes.Buffer{}
	screen := NewScreen(strings.NewReader(script), out, reg.Username)
	return &session{
		ctl:  NewController(screen, reg, st, conn),
		out:  out,
		conn: conn,
		reg:  reg,
		st:   st,
	}
}

func (s *session) mustContain(t *testing.T, wants ...string) {
	t.Helper()
	rendered := s.out.String()
	for _, want := range wants {
		if !strings.Contains(rendered, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRunExitPrintsGoodbye(t *testing.T) {
	s := newSession(t, "6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t, "Goodbye!")
}

func TestRunSurfacesEOF(t *testing.T) {
	s := newSession(t, "")
	if err := s.ctl.Run(); !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}

func TestConnectFlow(t *testing.T) {
	s := newSession(t, "1\n1\n1\n\n4\n5\n6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(s.conn.calls, []string{"tester@dev-server-1.example.com"}) {
		t.Fatalf("connector calls = %v", s.conn.calls)
	}
	s.mustContain(t,
		"Connecting to dev-server-1.example.com as tester...",
		"SSH session ended. Press Enter to return to the menu.",
	)
}

func TestConnectFailureReportedInline(t *testing.T) {
	s := newSession(t, "1\n1\n1\n\n4\n5\n6\n")
	s.conn.err = errors.New("no such binary")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t, "Error connecting to server: no such binary")
}

func TestAddGroupPersists(t *testing.T) {
	s := newSession(t, "1\n4\nStaging\n\n6\n6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t, "Group 'Staging' added successfully")

	reloaded := s.st.Load()
	want := []string{"Development", "Production", "Database", "Staging"}
	if got := reloaded.Config.GroupNames(); !slices.Equal(got, want) {
		t.Fatalf("persisted groups = %v, want %v", got, want)
	}
}

func TestAddGroupValidationMessages(t *testing.T) {
	s := newSession(t, "1\n4\nProduction\n\n4\n\n\n5\n6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t,
		"Group 'Production' already exists",
		"Group name cannot be empty",
	)
	if len(s.reg.GroupNames()) != 3 {
		t.Fatalf("groups = %v", s.reg.GroupNames())
	}
}

func TestAddServerFlow(t *testing.T) {
	s := newSession(t, "1\n1\n3\n1\nstaging-9.example.com\n\n5\n5\n5\n6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t, "Server 'staging-9.example.com' added to Development")

	hosts, err := s.reg.Hosts("Development")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(hosts, "staging-9.example.com") {
		t.Fatalf("hosts = %v", hosts)
	}
}

func TestRemoveServerFlow(t *testing.T) {
	s := newSession(t, "1\n1\n3\n2\n1\n\n5\n3\n5\n6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t, "Server 'dev-server-1.example.com' removed from Development")

	hosts, _ := s.reg.Hosts("Development")
	if !slices.Equal(hosts, []string{"dev-server-2.example.com"}) {
		t.Fatalf("hosts = %v", hosts)
	}
}

func TestRemoveServerCancelIsSilentNoOp(t *testing.T) {
	s := newSession(t, "1\n1\n3\n2\n3\n5\n4\n5\n6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(s.out.String(), "removed from") {
		t.Fatal("cancel must not remove anything")
	}
	hosts, _ := s.reg.Hosts("Development")
	if len(hosts) != 2 {
		t.Fatalf("hosts = %v", hosts)
	}
}

func TestRemoveServerFromEmptyGroup(t *testing.T) {
	s := newSession(t, "1\n4\nEmpty\n\n4\n1\n2\n\n5\n2\n6\n6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t, "No servers in Empty")
}

func TestRenameUnwindsToGroupsList(t *testing.T) {
	// After the rename the walk lands on the groups list; picking entry 1
	// must open the group under its new name.
	s := newSession(t, "1\n1\n3\n3\nDev\n\n1\n4\n5\n6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t,
		"Group renamed from 'Development' to 'Dev'",
		"DEV SERVERS",
	)
	if got := s.reg.GroupNames()[0]; got != "Dev" {
		t.Fatalf("first group = %q, want Dev", got)
	}
}

func TestRenameCancelledKeepsGroup(t *testing.T) {
	s := newSession(t, "1\n1\n3\n3\n\n\n4\n5\n6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t, "Rename cancelled")
	if got := s.reg.GroupNames()[0]; got != "Development" {
		t.Fatalf("first group = %q, want Development", got)
	}
}

func TestDeleteGroupNeedsExactY(t *testing.T) {
	// "yes" is not a confirmation; only "y" deletes.
	s := newSession(t, "1\n1\n3\n4\nyes\n\n4\ny\n\n4\n6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t,
		"Deletion cancelled",
		"Group 'Development' deleted",
	)
	want := []string{"Production", "Database"}
	if got := s.reg.GroupNames(); !slices.Equal(got, want) {
		t.Fatalf("groups = %v, want %v", got, want)
	}
}

func TestChangeUsername(t *testing.T) {
	s := newSession(t, "2\ndeploy\n\n6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t,
		"Username changed to deploy",
		"Current username: deploy",
	)
	if s.reg.Username() != "deploy" {
		t.Fatalf("username = %q", s.reg.Username())
	}
}

func TestChangeUsernameBlankKeepsCurrent(t *testing.T) {
	s := newSession(t, "2\n\n\n6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t, "Username unchanged")
	if s.reg.Username() != "tester" {
		t.Fatalf("username = %q", s.reg.Username())
	}
}

func TestExportToExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	s := newSession(t, "4\n"+path+"\n\n6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t, "Configuration exported to "+path)

	back, err := s.st.Import(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Groups) != 3 {
		t.Fatalf("exported groups = %v", back.GroupNames())
	}
}

func TestImportReplacesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	doc := `{"username":"imported","server_groups":{"Web":["w1.example.com"]}}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	s := newSession(t, "3\n"+path+"\n\n6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t, "Configuration imported successfully")
	if s.reg.Username() != "imported" {
		t.Fatalf("username = %q", s.reg.Username())
	}
	if got := s.reg.GroupNames(); !slices.Equal(got, []string{"Web"}) {
		t.Fatalf("groups = %v", got)
	}

	reloaded := s.st.Load()
	if got := reloaded.Config.GroupNames(); !slices.Equal(got, []string{"Web"}) {
		t.Fatalf("import was not persisted, got %v", got)
	}
}

func TestImportInvalidLeavesStateAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"username":"x"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	s := newSession(t, "3\n"+path+"\n\n6\n")
	before, err := os.ReadFile(s.st.Path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t, "Error importing configuration:")
	if len(s.reg.GroupNames()) != 3 {
		t.Fatalf("in-memory state changed: %v", s.reg.GroupNames())
	}
	after, err := os.ReadFile(s.st.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Fatal("persisted file changed on a failed import")
	}
}

func TestImportMissingFile(t *testing.T) {
	s := newSession(t, "3\n/nowhere/nothing.json\n\n6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t, "File not found: /nowhere/nothing.json")
}

func TestHelpScreen(t *testing.T) {
	s := newSession(t, "5\n\n6\n")
	if err := s.ctl.Run(); err != nil {
		t.Fatal(err)
	}
	s.mustContain(t,
		"SSH CONNECTOR HELP",
		s.st.Path,
		"For more information, visit the GitHub repository at:",
		"https://github.com/sshconnector/ssh-connector",
		"Press Enter to return to the main menu...",
	)
}
