package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"# ScholarOne Tools dependencies",
		"",
		"requests==2.31.0",
		"pandas>=2.0,<3",
		"PyQt6",
		"python-dateutil~=2.8  # parsing GUI date fields",
		"openpyxl==3.1.2; python_version >= '3.9'",
		"uvicorn[standard]>=0.23",
		"-r extra-requirements.txt",
		"--no-binary :all:",
	}, "\n")

	reqs, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []Requirement{
		{Name: "requests", Specifier: "==2.31.0", Raw: "requests==2.31.0"},
		{Name: "pandas", Specifier: ">=2.0,<3", Raw: "pandas>=2.0,<3"},
		{Name: "PyQt6", Raw: "PyQt6"},
		{Name: "python-dateutil", Specifier: "~=2.8", Raw: "python-dateutil~=2.8"},
		{Name: "openpyxl", Specifier: "==3.1.2", Raw: "openpyxl==3.1.2"},
		{Name: "uvicorn", Extras: []string{"standard"}, Specifier: ">=0.23", Raw: "uvicorn[standard]>=0.23"},
	}

	if len(reqs) != len(want) {
		t.Fatalf("got %d requirements, want %d: %+v", len(reqs), len(want), reqs)
	}
	for i := range want {
		if !reflect.DeepEqual(reqs[i], want[i]) {
			t.Errorf("reqs[%d] = %+v, want %+v", i, reqs[i], want[i])
		}
	}
}

func TestParseEmpty(t *testing.T) {
	reqs, err := Parse(strings.NewReader("# nothing here\n\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(reqs) != 0 {
		t.Errorf("got %d requirements, want 0", len(reqs))
	}
}

func TestParseUnterminatedExtras(t *testing.T) {
	_, err := Parse(strings.NewReader("uvicorn[standard>=0.23\n"))
	if err == nil {
		t.Fatal("expected error for unterminated extras")
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("error %q should mention the line number", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(path, []byte("requests==2.31.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reqs, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(reqs) != 1 || reqs[0].Name != "requests" {
		t.Errorf("Load() = %+v, want one requests requirement", reqs)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	if !os.IsNotExist(err) {
		t.Errorf("Load() error = %v, want os.IsNotExist", err)
	}
}
