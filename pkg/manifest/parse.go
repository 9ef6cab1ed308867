// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixell-global/pixell-kit/internal/cueutil"
)

//go:embed manifest_schema.cue
var manifestSchema []byte

// Find returns the path of the agent manifest inside projectDir.
func Find(projectDir string) (string, error) {
	p := filepath.Join(projectDir, FileName)
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s not found in %s", FileName, projectDir)
		}
		return "", fmt.Errorf("failed to stat %s: %w", p, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory, expected a file", p)
	}
	return p, nil
}

// Parse reads and parses an agent manifest from the given path.
func Parse(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest at %s: %w", path, err)
	}
	return ParseBytes(data, path)
}

// ParseBytes parses agent manifest content from bytes. The schema rejects
// unknown fields and applies defaults; cross-field rules are checked
// afterwards via Validate.
func ParseBytes(data []byte, path string) (*Manifest, error) {
	result, err := cueutil.ParseYAMLAndDecode[Manifest](
		manifestSchema,
		data,
		"#Manifest",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	m := result.Value
	m.FilePath = path

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// ParseDir locates and parses the agent manifest inside projectDir.
func ParseDir(projectDir string) (*Manifest, error) {
	p, err := Find(projectDir)
	if err != nil {
		return nil, err
	}
	return Parse(p)
}
