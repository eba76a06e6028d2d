package doctor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeDocument(t *testing.T, home, content string) string {
	t.Helper()
	path := filepath.Join(home, "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunFlagsDuplicateHost(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SSH_CONNECTOR_HOME", home)

	writeDocument(t, home, `{
  "username": "tester",
  "server_groups": {
    "Web": ["shared.example.com", "web-1.example.com"],
    "Batch": ["shared.example.com"]
  }
}`)

	report, err := Run("")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, issue := range report.Issues {
		if issue.Check == "duplicate-host" && issue.Target == "shared.example.com" {
			found = true
			if issue.Severity != SeverityLow {
				t.Fatalf("duplicate-host severity = %q, want low", issue.Severity)
			}
		}
	}
	if !found {
		t.Fatalf("expected duplicate-host issue, got %+v", report.Issues)
	}
}

func TestRunFlagsBroadDocumentPermissions(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SSH_CONNECTOR_HOME", home)

	path := writeDocument(t, home, `{"username": "tester", "server_groups": {}}`)
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := Run("")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, issue := range report.Issues {
		if issue.Check == "permissions" && issue.Target == path {
			found = true
			if issue.Severity != SeverityMedium {
				t.Fatalf("permissions severity = %q, want medium", issue.Severity)
			}
		}
	}
	if !found {
		t.Fatalf("expected permissions issue for %s, got %+v", path, report.Issues)
	}
}

func TestRunReportsUnparseableDocumentWithoutRepairingIt(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SSH_CONNECTOR_HOME", home)

	garbage := "{not json"
	path := writeDocument(t, home, garbage)

	report, err := Run("")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, issue := range report.Issues {
		if issue.Check == "config-parse" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected config-parse issue, got %+v", report.Issues)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != garbage {
		t.Fatalf("diagnostics rewrote the document: %s", after)
	}
}

func TestRunReportsMissingDocumentWithoutCreatingIt(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SSH_CONNECTOR_HOME", home)

	report, err := Run("")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, issue := range report.Issues {
		if issue.Check == "config-missing" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected config-missing issue, got %+v", report.Issues)
	}
	if _, err := os.Stat(filepath.Join(home, "config.json")); !os.IsNotExist(err) {
		t.Fatalf("diagnostics created the document: %v", err)
	}
}

func TestRunInspectsDocumentPathOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SSH_CONNECTOR_HOME", home)

	alt := filepath.Join(t.TempDir(), "alt.json")
	if err := os.WriteFile(alt, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	report, err := Run(alt)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, issue := range report.Issues {
		if issue.Check == "config-parse" && issue.Target == alt {
			found = true
		}
		if issue.Check == "config-missing" {
			t.Fatalf("default document diagnosed despite override: %+v", issue)
		}
	}
	if !found {
		t.Fatalf("expected config-parse issue for %s, got %+v", alt, report.Issues)
	}
}

func TestRunJSONShape(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SSH_CONNECTOR_HOME", home)

	writeDocument(t, home, `{"username": "tester", "server_groups": {"Web": []}}`)

	report, err := Run("")
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(report)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if _, ok := decoded["issues"]; !ok {
		t.Fatalf("expected issues key in json output: %s", string(b))
	}
}
