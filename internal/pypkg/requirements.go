// SPDX-License-Identifier: MPL-2.0

package pypkg

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// RequirementsFileName is the conventional pip requirements file.
const RequirementsFileName = "requirements.txt"

// ParseError reports a malformed requirement line.
type ParseError struct {
	// Line is the 1-based line number of the offending line.
	Line int
	// Text is the offending line as written.
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed requirement at line %d: %q", e.Line, e.Text)
}

// requirementPattern loosely matches a PEP 508 requirement: a distribution
// name, optional extras, then an optional version constraint, direct
// reference, or environment marker. Values are kept verbatim; this only
// rejects lines that cannot be a requirement at all.
var requirementPattern = regexp.MustCompile(
	`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?(?:\[[A-Za-z0-9._,\s-]+\])?\s*(?:[~=!<>;@(].*)?$`,
)

// ParseRequirements reads requirement specifiers from the file at path.
// A missing file is not an error: projects without pinned dependencies
// simply build with none.
func ParseRequirements(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read requirements at %s: %w", path, err)
	}
	reqs, err := ParseRequirementsBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reqs, nil
}

// ParseRequirementsBytes parses requirements.txt content. Blank lines,
// comments, and pip options (-e, --index-url, and friends) are skipped;
// inline comments are stripped; environment markers are preserved
// verbatim. A line that cannot be a requirement is a ParseError.
func ParseRequirementsBytes(data []byte) ([]string, error) {
	var reqs []string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// pip options and editable installs never carry into the package
		if strings.HasPrefix(line, "-") {
			continue
		}

		line = strings.TrimSpace(stripInlineComment(line))
		if line == "" {
			continue
		}

		if !requirementPattern.MatchString(line) {
			return nil, &ParseError{Line: lineno, Text: scanner.Text()}
		}
		reqs = append(reqs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan requirements content: %w", err)
	}

	return reqs, nil
}

// stripInlineComment drops everything from a '#' preceded by whitespace.
func stripInlineComment(line string) string {
	for i := 1; i < len(line); i++ {
		if line[i] == '#' && (line[i-1] == ' ' || line[i-1] == '\t') {
			return line[:i]
		}
	}
	return line
}

// ProjectDependencies returns the install requirements for a project:
// requirements.txt when present, otherwise pyproject.toml's
// [project] dependencies, otherwise none.
func ProjectDependencies(projectDir string) ([]string, error) {
	reqPath := filepath.Join(projectDir, RequirementsFileName)
	if _, err := os.Stat(reqPath); err == nil {
		return ParseRequirements(reqPath)
	}
	return ParsePyproject(filepath.Join(projectDir, PyprojectFileName))
}
