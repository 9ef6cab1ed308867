// SPDX-License-Identifier: MPL-2.0

package pypkg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pixell-global/pixell-kit/pkg/manifest"
)

// SetupFileName is the install-metadata file synthesized into the staging
// tree.
const SetupFileName = "setup.py"

// GenerateSetupPy renders a setup.py declaring the project's name and
// version from the manifest, the explicit package list (no wildcard
// discovery), and the install requirements. Output is deterministic for
// identical inputs.
func GenerateSetupPy(m *manifest.Manifest, packages, installRequires []string) string {
	var sb strings.Builder

	sb.WriteString("\"\"\"Generated by pixell build. Do not edit.\"\"\"\n")
	sb.WriteString("from setuptools import setup\n\n")
	sb.WriteString("setup(\n")
	sb.WriteString(fmt.Sprintf("    name=%q,\n", m.Name))
	sb.WriteString(fmt.Sprintf("    version=%q,\n", m.Metadata.Version))
	sb.WriteString(fmt.Sprintf("    description=%q,\n", m.Description))
	sb.WriteString(fmt.Sprintf("    author=%q,\n", m.Author))
	sb.WriteString(fmt.Sprintf("    license=%q,\n", m.License))
	writePyList(&sb, "packages", packages)
	writePyList(&sb, "install_requires", installRequires)
	sb.WriteString("    include_package_data=True,\n")
	sb.WriteString(")\n")

	return sb.String()
}

// writePyList renders a Python list literal, one quoted entry per line.
func writePyList(sb *strings.Builder, name string, entries []string) {
	if len(entries) == 0 {
		fmt.Fprintf(sb, "    %s=[],\n", name)
		return
	}
	fmt.Fprintf(sb, "    %s=[\n", name)
	for _, e := range entries {
		sb.WriteString("        " + pyQuote(e) + ",\n")
	}
	sb.WriteString("    ],\n")
}

// pyQuote single-quotes an entry, falling back to double quotes when the
// entry itself contains single quotes (environment markers often do).
func pyQuote(s string) string {
	if strings.Contains(s, "'") {
		return `"` + s + `"`
	}
	return "'" + s + "'"
}

// WriteSetupPy synthesizes setup.py in dir. A pre-existing file is left
// untouched so projects can supply a hand-written override.
func WriteSetupPy(dir string, m *manifest.Manifest, packages, installRequires []string) error {
	path := filepath.Join(dir, SetupFileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	content := GenerateSetupPy(m, packages, installRequires)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
