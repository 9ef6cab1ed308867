// SPDX-License-Identifier: MPL-2.0

// Package pakfile loads the optional per-project packaging config
// (pak.yaml). The file tunes build behavior that does not belong in
// the agent manifest: opting in to install_requires generation and
// declaring namespace packages that must not receive init markers.
// A missing file yields the zero config.
package pakfile

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/pixell-global/pixell-kit/internal/cueutil"
)

// FileName is the packaging config filename expected at the project root.
const FileName = "pak.yaml"

//go:embed pakfile_schema.cue
var pakfileSchema []byte

// Config carries build-time packaging options.
type Config struct {
	// GenerateInstallRequires fills setup.py install_requires from the
	// project dependency file when true. Off by default so projects
	// that manage installs themselves are not surprised.
	GenerateInstallRequires bool `json:"generate_install_requires"`

	// NamespacePackages lists dotted package paths to treat as
	// namespace packages. They and their descendants are excluded from
	// package discovery and never get __init__.py markers.
	NamespacePackages []string `json:"namespace_packages"`
}

// Load reads pak.yaml from projectDir. A missing file is not an
// error; it returns the zero config.
func Load(projectDir string) (*Config, error) {
	path := filepath.Join(projectDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	return ParseBytes(data, path)
}

// ParseBytes validates and decodes pak.yaml content. The path is used
// for error messages only.
func ParseBytes(data []byte, path string) (*Config, error) {
	res, err := cueutil.ParseYAMLAndDecode[Config](pakfileSchema, data, "#PakConfig",
		cueutil.WithFilename(path))
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}
