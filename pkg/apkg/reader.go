// SPDX-License-Identifier: MPL-2.0

package apkg

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pixell-global/pixell-kit/pkg/manifest"
)

// CorruptError reports an artifact whose container or deploy
// descriptor cannot be read.
type CorruptError struct {
	Path   string
	Reason string
}

// Error implements the error interface.
func (e *CorruptError) Error() string {
	return fmt.Sprintf("artifact %s is corrupt: %s", e.Path, e.Reason)
}

// ReadDescriptor opens the artifact and parses its deploy.json entry
// without extracting anything else. Returns a *CorruptError when the
// container is unreadable or the descriptor is missing or malformed.
func ReadDescriptor(artifactPath string) (*Descriptor, error) {
	zr, err := zip.OpenReader(artifactPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact not found: %s", artifactPath)
		}
		return nil, &CorruptError{Path: artifactPath, Reason: "not a readable archive"}
	}
	defer zr.Close()

	data, ok := readEntry(&zr.Reader, DescriptorName)
	if !ok {
		return nil, &CorruptError{Path: artifactPath, Reason: DescriptorName + " entry is missing"}
	}

	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, &CorruptError{Path: artifactPath, Reason: DescriptorName + " is malformed"}
	}
	return &d, nil
}

// ExtractEnvironment returns the packaged environment map from the
// artifact's deploy descriptor. The map is never nil.
func ExtractEnvironment(artifactPath string) (map[string]string, error) {
	d, err := ReadDescriptor(artifactPath)
	if err != nil {
		return nil, err
	}
	if d.Environment == nil {
		return map[string]string{}, nil
	}
	return d.Environment, nil
}

// ExtractVersion makes a best-effort read of the packaged version:
// first from the deploy descriptor, then from an agent.yaml entry for
// archives produced by other tooling. Returns the empty string when
// no version can be determined.
func ExtractVersion(artifactPath string) string {
	zr, err := zip.OpenReader(artifactPath)
	if err != nil {
		return ""
	}
	defer zr.Close()

	if data, ok := readEntry(&zr.Reader, DescriptorName); ok {
		var d Descriptor
		if err := json.Unmarshal(data, &d); err == nil && d.Version != "" {
			return d.Version
		}
	}

	if data, ok := readEntry(&zr.Reader, manifest.FileName); ok {
		var doc struct {
			Metadata struct {
				Version string `yaml:"version"`
			} `yaml:"metadata"`
		}
		if err := yaml.Unmarshal(data, &doc); err == nil {
			return doc.Metadata.Version
		}
	}
	return ""
}

// Info summarizes an artifact for display.
type Info struct {
	Path       string
	Size       int64
	FileCount  int
	Descriptor *Descriptor
}

// Inspect reads an artifact's descriptor and entry statistics.
func Inspect(artifactPath string) (*Info, error) {
	info, err := os.Stat(artifactPath)
	if err != nil {
		return nil, fmt.Errorf("artifact not found: %s", artifactPath)
	}

	d, err := ReadDescriptor(artifactPath)
	if err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(artifactPath)
	if err != nil {
		return nil, &CorruptError{Path: artifactPath, Reason: "not a readable archive"}
	}
	defer zr.Close()

	count := 0
	for _, f := range zr.File {
		if !f.FileInfo().IsDir() {
			count++
		}
	}

	return &Info{
		Path:       artifactPath,
		Size:       info.Size(),
		FileCount:  count,
		Descriptor: d,
	}, nil
}

func readEntry(zr *zip.Reader, name string) ([]byte, bool) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, false
		}
		return data, true
	}
	return nil, false
}
