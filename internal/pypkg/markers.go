// SPDX-License-Identifier: MPL-2.0

package pypkg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteInitMarkers creates an empty __init__.py at every path segment of
// each discovered package so the staged tree imports as regular packages.
// Packages under a declared namespace package get no markers, and
// existing files are never overwritten.
func WriteInitMarkers(dir string, packages, namespacePackages []string) error {
	for _, pkg := range packages {
		if UnderNamespace(pkg, namespacePackages) {
			continue
		}

		segments := strings.Split(pkg, ".")
		markerDir := dir
		for _, seg := range segments {
			markerDir = filepath.Join(markerDir, seg)
			marker := filepath.Join(markerDir, "__init__.py")

			if _, err := os.Stat(marker); err == nil {
				continue
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("failed to stat %s: %w", marker, err)
			}
			if err := os.WriteFile(marker, nil, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", marker, err)
			}
		}
	}
	return nil
}

// UnderNamespace reports whether the dotted path is a declared namespace
// package or lives beneath one.
func UnderNamespace(pkg string, namespacePackages []string) bool {
	for _, ns := range namespacePackages {
		if pkg == ns || strings.HasPrefix(pkg, ns+".") {
			return true
		}
	}
	return false
}
