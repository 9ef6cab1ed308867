// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeTree creates files (with parent directories) under root. Paths
// ending in "/" become empty directories.
func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if len(p) > 0 && p[len(p)-1] == '/' {
			if err := os.MkdirAll(full, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("# stub\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func dottedPathsOf(t *testing.T, root string, ignoreDirs, namespaces []string) []string {
	t.Helper()
	packages, err := Discover(root, ignoreDirs, namespaces)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	return DottedPaths(packages)
}

func TestDiscover(t *testing.T) {
	t.Run("directories with direct source files", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root,
			"src/main.py",
			"core/util.py",
			"__pycache__/",
			".pixell/",
		)

		got := dottedPathsOf(t, root, DefaultIgnoreDirs, nil)
		want := []string{"core", "src"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("nested packages without intermediate sources", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root,
			"app/v1/reddit/commenter.py",
			"core/util/helpers.py",
		)

		got := dottedPathsOf(t, root, DefaultIgnoreDirs, nil)
		want := []string{"app.v1.reddit", "core.util"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("ignored directories are skipped at any depth", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root,
			"pkg/module.py",
			"pkg/__pycache__/module.cpython-311.py",
			"node_modules/left-pad/index.py",
		)

		got := dottedPathsOf(t, root, DefaultIgnoreDirs, nil)
		want := []string{"pkg"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("hidden and egg-info directories are skipped", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root,
			"src/main.py",
			".git/objects/pack.py",
			"agent.egg-info/top_level.py",
		)

		got := dottedPathsOf(t, root, DefaultIgnoreDirs, nil)
		want := []string{"src"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("root-level files never form a package", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "setup.py", "src/main.py")

		got := dottedPathsOf(t, root, DefaultIgnoreDirs, nil)
		want := []string{"src"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("non-source files do not qualify a directory", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "docs/readme.md", "src/main.py")

		got := dottedPathsOf(t, root, DefaultIgnoreDirs, nil)
		want := []string{"src"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("namespace packages and descendants are excluded", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root,
			"src/main.py",
			"vendor/lib/impl.py",
			"vendored/ok.py",
		)

		got := dottedPathsOf(t, root, DefaultIgnoreDirs, []string{"vendor"})
		want := []string{"src", "vendored"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("deterministic lexical order", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root,
			"zeta/z.py",
			"alpha/a.py",
			"alpha/nested/n.py",
			"mid/m.py",
		)

		got := dottedPathsOf(t, root, DefaultIgnoreDirs, nil)
		want := []string{"alpha", "alpha.nested", "mid", "zeta"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("package dirs carry relative paths", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "app/v1/handler.py")

		packages, err := Discover(root, DefaultIgnoreDirs, nil)
		if err != nil {
			t.Fatalf("Discover failed: %v", err)
		}
		if len(packages) != 1 {
			t.Fatalf("expected one package, got %v", packages)
		}
		if packages[0].DottedPath != "app.v1" || packages[0].Dir != "app/v1" {
			t.Errorf("unexpected package: %+v", packages[0])
		}
	})

	t.Run("missing root is an error", func(t *testing.T) {
		if _, err := Discover(filepath.Join(t.TempDir(), "nope"), nil, nil); err == nil {
			t.Error("expected error for missing root")
		}
	})
}
