// SPDX-License-Identifier: MPL-2.0

package envfile

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
)

// FileName is the standard name for an environment file.
const FileName = ".env"

// ParseError reports a malformed line in a .env file.
type ParseError struct {
	// Line is the 1-based line number of the offending line.
	Line int
	// Text is the offending line as written.
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed line %d: %q (expected KEY=VALUE)", e.Line, e.Text)
}

// Parse reads and parses the .env file at path.
func Parse(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file at %s: %w", path, err)
	}
	env, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return env, nil
}

// ParseBytes parses .env content. Blank lines and lines starting with '#'
// are skipped. Every other line must be KEY=VALUE; whitespace around the
// key and value is trimmed, and a value wrapped in matching single or
// double quotes has the quotes stripped. Values are never interpolated.
func ParseBytes(data []byte) (map[string]string, error) {
	env := make(map[string]string)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &ParseError{Line: lineno, Text: scanner.Text()}
		}

		env[key] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan env content: %w", err)
	}

	return env, nil
}

// unquote strips one pair of matching single or double quotes.
func unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '\'' && v[len(v)-1] == '\'') || (v[0] == '"' && v[len(v)-1] == '"') {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// Merge combines two environment maps into a new one. Keys from overlay win
// on conflict; keys only in base pass through unchanged. Neither input is
// modified, and no key is ever dropped.
func Merge(base, overlay map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

// Resolve flattens ordered layers into a single map, lowest precedence
// first. It is the one place the pipeline's precedence is applied: callers
// pass layers in ascending priority and later layers win on conflict.
func Resolve(layers ...map[string]string) map[string]string {
	resolved := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			resolved[k] = v
		}
	}
	return resolved
}

// Serialize renders an environment map as .env content with keys in sorted
// order. Values that would be altered by a later Parse (a wrapping quote
// pair) are re-quoted so that parse(serialize(parse(x))) == parse(x).
func Serialize(env map[string]string) []byte {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(quoteIfNeeded(env[k]))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// quoteIfNeeded wraps a value whose own first and last characters form a
// quote pair, so the wrapping survives a reparse.
func quoteIfNeeded(v string) string {
	if len(v) >= 2 {
		if v[0] == '\'' && v[len(v)-1] == '\'' {
			return `"` + v + `"`
		}
		if v[0] == '"' && v[len(v)-1] == '"' {
			return "'" + v + "'"
		}
	}
	return v
}
