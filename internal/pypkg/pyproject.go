// SPDX-License-Identifier: MPL-2.0

package pypkg

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// PyprojectFileName is the PEP 621 project metadata file.
const PyprojectFileName = "pyproject.toml"

type pyprojectDoc struct {
	Project struct {
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
}

// ParsePyproject reads [project] dependencies from a pyproject.toml.
// A missing file yields no requirements; entries are validated with the
// same grammar as requirements.txt lines.
func ParsePyproject(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read pyproject at %s: %w", path, err)
	}

	var doc pyprojectDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for _, dep := range doc.Project.Dependencies {
		if !requirementPattern.MatchString(dep) {
			return nil, fmt.Errorf("%s: malformed dependency %q", path, dep)
		}
	}
	return doc.Project.Dependencies, nil
}
