// SPDX-License-Identifier: MPL-2.0

package pypkg

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseRequirementsBytes(t *testing.T) {
	t.Run("basic specifiers", func(t *testing.T) {
		data := []byte(`
langchain-openai==0.3.28
requests>=2.28.0
fastapi
`)
		reqs, err := ParseRequirementsBytes(data)
		if err != nil {
			t.Fatalf("ParseRequirementsBytes failed: %v", err)
		}
		want := []string{"langchain-openai==0.3.28", "requests>=2.28.0", "fastapi"}
		if !reflect.DeepEqual(reqs, want) {
			t.Errorf("got %v, want %v", reqs, want)
		}
	})

	t.Run("comments stripped", func(t *testing.T) {
		data := []byte(`
# Core dependencies
langchain-openai==0.3.28

# HTTP client
requests>=2.28.0  # Used for API calls
`)
		reqs, err := ParseRequirementsBytes(data)
		if err != nil {
			t.Fatalf("ParseRequirementsBytes failed: %v", err)
		}
		want := []string{"langchain-openai==0.3.28", "requests>=2.28.0"}
		if !reflect.DeepEqual(reqs, want) {
			t.Errorf("got %v, want %v", reqs, want)
		}
	})

	t.Run("editable installs skipped", func(t *testing.T) {
		data := []byte(`
-e git+https://github.com/user/repo.git
requests
--editable .
numpy
`)
		reqs, err := ParseRequirementsBytes(data)
		if err != nil {
			t.Fatalf("ParseRequirementsBytes failed: %v", err)
		}
		want := []string{"requests", "numpy"}
		if !reflect.DeepEqual(reqs, want) {
			t.Errorf("got %v, want %v", reqs, want)
		}
	})

	t.Run("pip options skipped", func(t *testing.T) {
		data := []byte(`
--index-url https://pypi.org/simple
requests
--extra-index-url https://custom.pypi.org
numpy
`)
		reqs, err := ParseRequirementsBytes(data)
		if err != nil {
			t.Fatalf("ParseRequirementsBytes failed: %v", err)
		}
		want := []string{"requests", "numpy"}
		if !reflect.DeepEqual(reqs, want) {
			t.Errorf("got %v, want %v", reqs, want)
		}
	})

	t.Run("environment markers preserved verbatim", func(t *testing.T) {
		data := []byte(`
typing-extensions; python_version<'3.11'
dataclasses; python_version<'3.7'
`)
		reqs, err := ParseRequirementsBytes(data)
		if err != nil {
			t.Fatalf("ParseRequirementsBytes failed: %v", err)
		}
		want := []string{
			"typing-extensions; python_version<'3.11'",
			"dataclasses; python_version<'3.7'",
		}
		if !reflect.DeepEqual(reqs, want) {
			t.Errorf("got %v, want %v", reqs, want)
		}
	})

	t.Run("extras kept", func(t *testing.T) {
		reqs, err := ParseRequirementsBytes([]byte("uvicorn[standard]>=0.23\n"))
		if err != nil {
			t.Fatalf("ParseRequirementsBytes failed: %v", err)
		}
		if len(reqs) != 1 || reqs[0] != "uvicorn[standard]>=0.23" {
			t.Errorf("got %v", reqs)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		reqs, err := ParseRequirementsBytes(nil)
		if err != nil {
			t.Fatalf("ParseRequirementsBytes failed: %v", err)
		}
		if len(reqs) != 0 {
			t.Errorf("expected no requirements, got %v", reqs)
		}
	})

	t.Run("garbage line is a ParseError", func(t *testing.T) {
		_, err := ParseRequirementsBytes([]byte("requests\n???\n"))
		if err == nil {
			t.Fatal("expected error")
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("expected *ParseError, got %T: %v", err, err)
		}
		if perr.Line != 2 {
			t.Errorf("expected line 2, got %d", perr.Line)
		}
		if perr.Text != "???" {
			t.Errorf("expected offending text preserved, got %q", perr.Text)
		}
	})

	t.Run("name with space before operator is a ParseError", func(t *testing.T) {
		_, err := ParseRequirementsBytes([]byte("foo bar>=1.0\n"))
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("expected *ParseError, got %T: %v", err, err)
		}
	})
}

func TestParseRequirements(t *testing.T) {
	t.Run("missing file yields no requirements", func(t *testing.T) {
		reqs, err := ParseRequirements(filepath.Join(t.TempDir(), RequirementsFileName))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reqs) != 0 {
			t.Errorf("expected none, got %v", reqs)
		}
	})

	t.Run("reads from disk", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, RequirementsFileName)
		if err := os.WriteFile(path, []byte("requests>=2.28.0\nnumpy\n"), 0o644); err != nil {
			t.Fatalf("failed to write requirements: %v", err)
		}
		reqs, err := ParseRequirements(path)
		if err != nil {
			t.Fatalf("ParseRequirements failed: %v", err)
		}
		if len(reqs) != 2 {
			t.Errorf("expected 2 requirements, got %v", reqs)
		}
	})
}

func TestParsePyproject(t *testing.T) {
	t.Run("reads project dependencies", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, PyprojectFileName)
		content := `
[project]
name = "test-agent"
dependencies = [
    "requests>=2.28.0",
    "numpy",
]
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write pyproject: %v", err)
		}

		deps, err := ParsePyproject(path)
		if err != nil {
			t.Fatalf("ParsePyproject failed: %v", err)
		}
		want := []string{"requests>=2.28.0", "numpy"}
		if !reflect.DeepEqual(deps, want) {
			t.Errorf("got %v, want %v", deps, want)
		}
	})

	t.Run("missing file yields no requirements", func(t *testing.T) {
		deps, err := ParsePyproject(filepath.Join(t.TempDir(), PyprojectFileName))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(deps) != 0 {
			t.Errorf("expected none, got %v", deps)
		}
	})

	t.Run("malformed TOML is an error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, PyprojectFileName)
		if err := os.WriteFile(path, []byte("[project\n"), 0o644); err != nil {
			t.Fatalf("failed to write pyproject: %v", err)
		}
		if _, err := ParsePyproject(path); err == nil {
			t.Error("expected error for malformed TOML")
		}
	})

	t.Run("malformed dependency entry is an error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, PyprojectFileName)
		content := "[project]\ndependencies = [\"???\"]\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write pyproject: %v", err)
		}
		if _, err := ParsePyproject(path); err == nil {
			t.Error("expected error for malformed dependency")
		}
	})
}

func TestProjectDependencies(t *testing.T) {
	t.Run("requirements.txt wins over pyproject", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, RequirementsFileName), []byte("requests\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		pyproject := "[project]\ndependencies = [\"numpy\"]\n"
		if err := os.WriteFile(filepath.Join(dir, PyprojectFileName), []byte(pyproject), 0o644); err != nil {
			t.Fatal(err)
		}

		deps, err := ProjectDependencies(dir)
		if err != nil {
			t.Fatalf("ProjectDependencies failed: %v", err)
		}
		if len(deps) != 1 || deps[0] != "requests" {
			t.Errorf("expected requirements.txt to win, got %v", deps)
		}
	})

	t.Run("falls back to pyproject", func(t *testing.T) {
		dir := t.TempDir()
		pyproject := "[project]\ndependencies = [\"numpy\"]\n"
		if err := os.WriteFile(filepath.Join(dir, PyprojectFileName), []byte(pyproject), 0o644); err != nil {
			t.Fatal(err)
		}

		deps, err := ProjectDependencies(dir)
		if err != nil {
			t.Fatalf("ProjectDependencies failed: %v", err)
		}
		if len(deps) != 1 || deps[0] != "numpy" {
			t.Errorf("expected pyproject fallback, got %v", deps)
		}
	})

	t.Run("neither file present", func(t *testing.T) {
		deps, err := ProjectDependencies(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(deps) != 0 {
			t.Errorf("expected none, got %v", deps)
		}
	})
}
