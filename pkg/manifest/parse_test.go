// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullManifestYAML = `
version: "1.0"
name: test-agent
display_name: Test Agent
description: A test agent
author: Test Author
license: MIT
entrypoint: "src.main:handler"
runtime: python3.11
capabilities:
  - chat
  - search
environment:
  LOG_LEVEL: info
dependencies:
  - "requests>=2.31.0"
  - "grpcio>=1.60.0"
metadata:
  version: "1.0.0"
  homepage: "https://example.com"
  tags:
    - demo
a2a:
  service: "src.a2a.server:serve"
rest:
  entry: "src.rest.index:mount"
ui:
  path: ui
`

func TestParseBytes(t *testing.T) {
	t.Run("full manifest parses successfully", func(t *testing.T) {
		m, err := ParseBytes([]byte(fullManifestYAML), "agent.yaml")
		if err != nil {
			t.Fatalf("ParseBytes failed: %v", err)
		}

		if m.Name != "test-agent" {
			t.Errorf("expected name 'test-agent', got %q", m.Name)
		}
		if m.DisplayName != "Test Agent" {
			t.Errorf("expected display_name 'Test Agent', got %q", m.DisplayName)
		}
		if m.Runtime != RuntimePython311 {
			t.Errorf("expected runtime python3.11, got %q", m.Runtime)
		}
		if m.Entrypoint != "src.main:handler" {
			t.Errorf("expected entrypoint 'src.main:handler', got %q", m.Entrypoint)
		}
		if m.Metadata.Version != "1.0.0" {
			t.Errorf("expected metadata version '1.0.0', got %q", m.Metadata.Version)
		}
		if len(m.Dependencies) != 2 {
			t.Errorf("expected 2 dependencies, got %d", len(m.Dependencies))
		}
		if m.Environment["LOG_LEVEL"] != "info" {
			t.Errorf("expected LOG_LEVEL=info, got %q", m.Environment["LOG_LEVEL"])
		}
		if m.A2A == nil || m.A2A.Service != "src.a2a.server:serve" {
			t.Errorf("unexpected a2a config: %+v", m.A2A)
		}
		if m.REST == nil || m.REST.Entry != "src.rest.index:mount" {
			t.Errorf("unexpected rest config: %+v", m.REST)
		}
		if m.UI == nil || m.UI.Path != "ui" {
			t.Errorf("unexpected ui config: %+v", m.UI)
		}
		if m.FilePath != "agent.yaml" {
			t.Errorf("expected FilePath to be set, got %q", m.FilePath)
		}
	})

	t.Run("defaults applied when fields omitted", func(t *testing.T) {
		data := []byte(`
name: minimal-agent
display_name: Minimal
description: Smallest valid manifest
author: Someone
license: MIT
entrypoint: "main:handler"
metadata:
  version: "0.1.0"
`)
		m, err := ParseBytes(data, "agent.yaml")
		if err != nil {
			t.Fatalf("ParseBytes failed: %v", err)
		}
		if m.Version != "1.0" {
			t.Errorf("expected default version '1.0', got %q", m.Version)
		}
		if m.Runtime != DefaultRuntime {
			t.Errorf("expected default runtime %q, got %q", DefaultRuntime, m.Runtime)
		}
	})

	t.Run("entrypoint optional when surface configured", func(t *testing.T) {
		data := []byte(`
name: rest-agent
display_name: REST Agent
description: Surface-only agent
author: Someone
license: MIT
metadata:
  version: "1.0.0"
rest:
  entry: "src.rest.index:mount"
`)
		m, err := ParseBytes(data, "agent.yaml")
		if err != nil {
			t.Fatalf("ParseBytes failed: %v", err)
		}
		if m.Entrypoint != "" {
			t.Errorf("expected empty entrypoint, got %q", m.Entrypoint)
		}
		if m.REST == nil {
			t.Error("expected rest surface to be set")
		}
	})
}

func TestParseBytesRejects(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "unknown field",
			yaml: `
name: test-agent
display_name: Test
description: d
author: a
license: MIT
entrypoint: "main:handler"
metadata:
  version: "1.0.0"
surprise: true
`,
			wantErr: "not allowed",
		},
		{
			name: "uppercase name",
			yaml: `
name: TestAgent
display_name: Test
description: d
author: a
license: MIT
entrypoint: "main:handler"
metadata:
  version: "1.0.0"
`,
			wantErr: "name",
		},
		{
			name: "invalid runtime",
			yaml: `
name: test-agent
display_name: Test
description: d
author: a
license: MIT
entrypoint: "main:handler"
runtime: python2.7
metadata:
  version: "1.0.0"
`,
			wantErr: "runtime",
		},
		{
			name: "dependency without version constraint",
			yaml: `
name: test-agent
display_name: Test
description: d
author: a
license: MIT
entrypoint: "main:handler"
dependencies:
  - requests
metadata:
  version: "1.0.0"
`,
			wantErr: "dependencies",
		},
		{
			name: "missing metadata block",
			yaml: `
name: test-agent
display_name: Test
description: d
author: a
license: MIT
entrypoint: "main:handler"
`,
			wantErr: "metadata",
		},
		{
			name: "entrypoint without colon",
			yaml: `
name: test-agent
display_name: Test
description: d
author: a
license: MIT
entrypoint: src.main.handler
metadata:
  version: "1.0.0"
`,
			wantErr: "entrypoint must be in format 'module:function'",
		},
		{
			name: "a2a service without colon",
			yaml: `
name: test-agent
display_name: Test
description: d
author: a
license: MIT
metadata:
  version: "1.0.0"
a2a:
  service: src.a2a.server.serve
`,
			wantErr: "a2a service must be in format 'module:function'",
		},
		{
			name: "rest entry without colon",
			yaml: `
name: test-agent
display_name: Test
description: d
author: a
license: MIT
metadata:
  version: "1.0.0"
rest:
  entry: src.rest.index.mount
`,
			wantErr: "rest entry must be in format 'module:function'",
		},
		{
			name: "no entrypoint and no surfaces",
			yaml: `
name: test-agent
display_name: Test
description: d
author: a
license: MIT
metadata:
  version: "1.0.0"
`,
			wantErr: "entrypoint is required when no surfaces are configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.yaml), "agent.yaml")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should contain %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("reads manifest from disk", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, FileName)
		if err := os.WriteFile(path, []byte(fullManifestYAML), 0o644); err != nil {
			t.Fatalf("failed to write manifest: %v", err)
		}

		m, err := Parse(path)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if m.Name != "test-agent" {
			t.Errorf("expected name 'test-agent', got %q", m.Name)
		}
		if m.FilePath != path {
			t.Errorf("expected FilePath %q, got %q", path, m.FilePath)
		}
	})

	t.Run("missing file returns error", func(t *testing.T) {
		_, err := Parse(filepath.Join(t.TempDir(), FileName))
		if err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestFind(t *testing.T) {
	t.Run("finds manifest in project dir", func(t *testing.T) {
		dir := t.TempDir()
		want := filepath.Join(dir, FileName)
		if err := os.WriteFile(want, []byte(fullManifestYAML), 0o644); err != nil {
			t.Fatalf("failed to write manifest: %v", err)
		}

		got, err := Find(dir)
		if err != nil {
			t.Fatalf("Find failed: %v", err)
		}
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("missing manifest returns error", func(t *testing.T) {
		_, err := Find(t.TempDir())
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "agent.yaml not found") {
			t.Errorf("error should mention agent.yaml, got: %v", err)
		}
	})
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(fullManifestYAML), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	m, err := ParseDir(dir)
	if err != nil {
		t.Fatalf("ParseDir failed: %v", err)
	}
	if m.Name != "test-agent" {
		t.Errorf("expected name 'test-agent', got %q", m.Name)
	}
}
