// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pixell-global/pixell-kit/pkg/manifest"
)

func newInitCommand() *cobra.Command {
	var surfaces []string

	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Initialize a new agent project.",
		Long: `Initialize a new agent project.

Creates a project directory with an agent.yaml manifest, an entrypoint
module, starter modules for each selected surface, and the supporting
files a build needs (.env, requirements.txt, README.md).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args[0], surfaces)
		},
	}

	cmd.Flags().StringArrayVar(&surfaces, "surface", nil, "surface to scaffold (a2a, rest, ui); repeatable, defaults to all")
	return cmd
}

func runInit(cmd *cobra.Command, projectArg string, surfaceNames []string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	want, err := resolveSurfaces(surfaceNames)
	if err != nil {
		return err
	}

	// The directory keeps the name as typed; the manifest gets the
	// normalized package name.
	projectDir := projectArg
	if _, err := os.Stat(projectDir); err == nil {
		fmt.Fprintln(errOut, ErrorStyle.Render("Directory already exists: "+projectDir))
		return fail(cmd, exitGeneral)
	}

	base := filepath.Base(projectArg)
	name := normalizeProjectName(base)
	display := displayProjectName(base)

	for _, f := range scaffoldFiles(name, display, want) {
		path := filepath.Join(projectDir, filepath.FromSlash(f.path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	fmt.Fprintf(out, "%s Created agent project %s\n", iconSuccess, PathStyle.Render(projectDir))
	fmt.Fprintln(out)
	fmt.Fprintln(out, SubtitleStyle.Render("Next steps:"))
	fmt.Fprintf(out, "  1. cd %s\n", projectDir)
	fmt.Fprintln(out, "  2. Review agent.yaml and .env")
	fmt.Fprintln(out, "  3. Run 'pixell build' to package the agent")

	return nil
}

// resolveSurfaces maps the --surface flags to the surface set,
// defaulting to every surface when none are given.
func resolveSurfaces(names []string) (map[manifest.Surface]bool, error) {
	if len(names) == 0 {
		return map[manifest.Surface]bool{
			manifest.SurfaceA2A:  true,
			manifest.SurfaceREST: true,
			manifest.SurfaceUI:   true,
		}, nil
	}

	want := make(map[manifest.Surface]bool, len(names))
	for _, n := range names {
		switch s := manifest.Surface(n); s {
		case manifest.SurfaceA2A, manifest.SurfaceREST, manifest.SurfaceUI:
			want[s] = true
		default:
			return nil, fmt.Errorf("invalid surface %q (valid surfaces: a2a, rest, ui)", n)
		}
	}
	return want, nil
}

// normalizeProjectName lowercases the given name and replaces
// underscores and spaces with hyphens, yielding a valid package name.
func normalizeProjectName(arg string) string {
	name := strings.ToLower(arg)
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ReplaceAll(name, " ", "-")
	return name
}

// displayProjectName turns the given name into a title-cased,
// space-separated display name.
func displayProjectName(arg string) string {
	flat := strings.NewReplacer("_", " ", "-", " ").Replace(arg)
	words := strings.Fields(flat)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

type scaffoldFile struct {
	path    string
	content string
}

// scaffoldFiles lists every file of a fresh project in creation order.
func scaffoldFiles(name, display string, want map[manifest.Surface]bool) []scaffoldFile {
	files := []scaffoldFile{
		{"agent.yaml", agentYAML(name, display, want)},
		{"src/main.py", mainPy(name, display)},
	}

	if want[manifest.SurfaceA2A] {
		files = append(files, scaffoldFile{"src/a2a/server.py", a2aServerPy})
	}
	if want[manifest.SurfaceREST] {
		files = append(files, scaffoldFile{"src/rest/index.py", restIndexPy(name)})
	}
	if want[manifest.SurfaceUI] {
		files = append(files, scaffoldFile{"ui/index.html", uiIndexHTML(display)})
	}

	files = append(files,
		scaffoldFile{"requirements.txt", requirementsTxt},
		scaffoldFile{".env", dotEnv(name)},
		scaffoldFile{".gitignore", gitignore},
		scaffoldFile{"README.md", readmeMd(name, display)},
	)
	return files
}

func agentYAML(name, display string, want map[manifest.Surface]bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, `version: "1.0"
name: %s
display_name: %s
description: %s, built with Pixell Kit.
author: Your Name
license: MIT
entrypoint: src.main:handler
runtime: python3.11

metadata:
  version: "0.1.0"
`, name, display, display)

	if want[manifest.SurfaceA2A] {
		b.WriteString("\na2a:\n  service: src.a2a.server:serve\n")
	}
	if want[manifest.SurfaceREST] {
		b.WriteString("\nrest:\n  entry: src.rest.index:mount\n")
	}
	if want[manifest.SurfaceUI] {
		b.WriteString("\nui:\n  path: ui\n")
	}
	return b.String()
}

func mainPy(name, display string) string {
	return fmt.Sprintf(`"""%s entrypoint."""


def handler(context):
    """Handle an agent request."""
    return {"message": "Hello from %s!"}
`, display, name)
}

const a2aServerPy = `"""A2A gRPC surface."""


def serve(port: int = 50051):
    """Start the gRPC server for agent-to-agent calls."""
    print(f"A2A server listening on port {port}")
`

func restIndexPy(name string) string {
	return fmt.Sprintf(`"""REST surface."""

from fastapi import FastAPI


def mount(app: FastAPI):
    """Mount routes on the shared FastAPI app."""

    @app.get("/api/hello")
    def hello():
        return {"message": "Hello from %s!"}
`, name)
}

func uiIndexHTML(display string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>%s</title>
  </head>
  <body>
    <h1>%s</h1>
    <p>Served from the UI surface.</p>
  </body>
</html>
`, display, display)
}

const requirementsTxt = `fastapi>=0.104.0
uvicorn>=0.24.0
watchdog>=3.0.0
`

func dotEnv(name string) string {
	return fmt.Sprintf(`# Environment packaged with %s. Runtime overrides are
# applied at deploy time with 'pixell deploy --runtime-env'.
PIXELL_ENV=development
`, name)
}

const gitignore = `__pycache__/
*.pyc
dist/
venv/
.env
`

func readmeMd(name, display string) string {
	return fmt.Sprintf(`# %s

%s is an agent project scaffolded with Pixell Kit.

## Build

    pixell build

Packages the project into dist/%s-0.1.0.apkg.

## Validate

    pixell validate

Checks agent.yaml and the project structure without building.

## Deploy

    pixell deploy --app-id <your-app-id>

Uploads the latest build to Pixell Agent Cloud.
`, display, name, name)
}
