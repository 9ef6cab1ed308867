// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pixell-global/pixell-kit/pkg/apkg"
	"github.com/pixell-global/pixell-kit/pkg/manifest"
)

// stagedIgnoreDirs are directory names never copied into the staging
// tree. Hidden directories and egg-info metadata are skipped as well.
var stagedIgnoreDirs = map[string]bool{
	"__pycache__":  true,
	"node_modules": true,
	"venv":         true,
	"dist":         true,
	"build":        true,
}

// copyProjectTree copies the project into stagingDir, excluding
// ignored directories, previously built artifacts, and the output
// directory if it is nested inside the project.
func copyProjectTree(projectDir, stagingDir, outputDir string) error {
	absOutput, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}
	absProject, err := filepath.Abs(projectDir)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}

	return filepath.WalkDir(absProject, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(absProject, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if skipStagedDir(d.Name()) || path == absOutput {
				return fs.SkipDir
			}
			return os.MkdirAll(filepath.Join(stagingDir, rel), 0o755)
		}
		if skipStagedFile(d.Name()) {
			return nil
		}
		return copyFile(path, filepath.Join(stagingDir, rel))
	})
}

// stageSurfaces assembles the dist tree: each declared surface's files
// land under a fixed directory the runner serves from. The dist
// directory exists even when no surface is declared.
func stageSurfaces(stagingDir, projectDir string, m *manifest.Manifest) error {
	distDir := filepath.Join(stagingDir, apkg.DistDirName)
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		return err
	}

	if m.A2A != nil {
		ref, err := manifest.ParseModuleRef(m.A2A.Service)
		if err != nil {
			return err
		}
		src := filepath.Join(projectDir, filepath.FromSlash(ref.SourceDir()))
		if err := copyDirContents(src, filepath.Join(distDir, string(manifest.SurfaceA2A))); err != nil {
			return err
		}
	}

	if m.REST != nil {
		ref, err := manifest.ParseModuleRef(m.REST.Entry)
		if err != nil {
			return err
		}
		src := filepath.Join(projectDir, filepath.FromSlash(ref.SourceDir()))
		if err := copyDirContents(src, filepath.Join(distDir, string(manifest.SurfaceREST))); err != nil {
			return err
		}
	}

	if m.UI != nil {
		src := filepath.Join(projectDir, filepath.FromSlash(m.UI.Path))
		if err := copyDirContents(src, filepath.Join(distDir, string(manifest.SurfaceUI))); err != nil {
			return err
		}
	}

	return nil
}

// copyDirContents mirrors the contents of src into dst, applying the
// same ignore rules as the staging copy.
func copyDirContents(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return os.MkdirAll(dst, 0o755)
		}

		if d.IsDir() {
			if skipStagedDir(d.Name()) {
				return fs.SkipDir
			}
			return os.MkdirAll(filepath.Join(dst, rel), 0o755)
		}
		if skipStagedFile(d.Name()) {
			return nil
		}
		return copyFile(path, filepath.Join(dst, rel))
	})
}

func skipStagedDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if strings.HasSuffix(name, ".egg-info") {
		return true
	}
	return stagedIgnoreDirs[name]
}

func skipStagedFile(name string) bool {
	return strings.HasSuffix(name, apkg.Suffix) || name == ".DS_Store"
}

// copyFile copies one regular file byte for byte, preserving its mode.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode().Perm())
}
