// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultIgnoreDirs are directory names skipped during discovery in
// addition to hidden directories. They hold caches, build output, or
// third-party code rather than project packages.
var DefaultIgnoreDirs = []string{
	"__pycache__",
	"node_modules",
	"venv",
	"dist",
	"build",
}

// sourceFileExt marks the files that make a directory an importable
// package.
const sourceFileExt = ".py"

// Package is a directory of project code addressable by a dotted
// import path.
type Package struct {
	// DottedPath is the import path relative to the project root,
	// e.g. "app.v1.reddit".
	DottedPath string

	// Dir is the slash-separated directory path relative to the
	// project root, e.g. "app/v1/reddit".
	Dir string
}

// Discover walks rootDir and returns every directory that directly
// contains a source file, as dotted-path packages in lexical order.
// Hidden directories, names in ignoreDirs, and anything at or under a
// declared namespace package are skipped entirely.
func Discover(rootDir string, ignoreDirs []string, namespacePackages []string) ([]Package, error) {
	ignore := make(map[string]bool, len(ignoreDirs))
	for _, name := range ignoreDirs {
		ignore[name] = true
	}

	found := make(map[string]bool)
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			name := d.Name()
			if ignore[name] || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".egg-info") {
				return fs.SkipDir
			}
			if underNamespace(toDotted(rel), namespacePackages) {
				return fs.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), sourceFileExt) {
			return nil
		}
		dir := filepath.ToSlash(filepath.Dir(rel))
		if dir == "." {
			return nil
		}
		found[dir] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover packages in %s: %w", rootDir, err)
	}

	packages := make([]Package, 0, len(found))
	for dir := range found {
		packages = append(packages, Package{DottedPath: toDotted(dir), Dir: dir})
	}
	sort.Slice(packages, func(i, j int) bool {
		return packages[i].DottedPath < packages[j].DottedPath
	})
	return packages, nil
}

// DottedPaths projects packages onto their dotted import paths,
// preserving order.
func DottedPaths(packages []Package) []string {
	paths := make([]string, len(packages))
	for i, pkg := range packages {
		paths[i] = pkg.DottedPath
	}
	return paths
}

func toDotted(relDir string) string {
	return strings.ReplaceAll(relDir, "/", ".")
}

func underNamespace(dotted string, namespacePackages []string) bool {
	for _, ns := range namespacePackages {
		if dotted == ns || strings.HasPrefix(dotted, ns+".") {
			return true
		}
	}
	return false
}
