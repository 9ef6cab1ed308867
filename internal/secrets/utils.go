// SPDX-License-Identifier: MPL-2.0

package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/pixell-global/pixell-kit/pkg/envfile"
)

// DefaultMaskChars is how many leading characters Mask keeps by default.
const DefaultMaskChars = 3

// keyPattern matches well-formed secret names: uppercase letters,
// digits, and underscores, not starting with a digit.
var keyPattern = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// ValidateKey reports whether key is a well-formed secret name.
func ValidateKey(key string) bool {
	return keyPattern.MatchString(key)
}

// Mask obscures a secret value for display, keeping its first showChars
// characters. Values too short to keep anything collapse to "***".
func Mask(value string, showChars int) string {
	if value == "" || showChars <= 0 || len(value) <= showChars {
		return "***"
	}
	return value[:showChars] + "***"
}

// ParseJSONFile reads a flat JSON object of secret key/value strings.
func ParseJSONFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("File not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("Invalid JSON format: %v", err)
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, errors.New("Secrets file must contain an object/dictionary")
	}

	out := make(map[string]string, len(obj))
	for key, value := range obj {
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("Value of %s must be a string", key)
		}
		out[key] = s
	}
	return out, nil
}

// ParseEnvFile reads secrets from a KEY=VALUE file, rephrasing parse
// failures in the grammar the secrets commands report.
func ParseEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("File not found: %s", path)
	}

	env, err := envfile.Parse(path)
	if err != nil {
		var parseErr *envfile.ParseError
		if errors.As(err, &parseErr) {
			text := strings.TrimSpace(parseErr.Text)
			if strings.HasPrefix(text, "=") {
				return nil, fmt.Errorf("Empty key at line %d", parseErr.Line)
			}
			return nil, fmt.Errorf("Invalid format at line %d: %s", parseErr.Line, text)
		}
		return nil, err
	}
	return env, nil
}

// FormatTable renders secrets as an aligned two-column table with keys
// in sorted order, masking values unless mask is false.
func FormatTable(secrets map[string]string, mask bool) string {
	if len(secrets) == 0 {
		return "No secrets found\n"
	}

	keys := make([]string, 0, len(secrets))
	for k := range secrets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	valueHeader := "Value"
	if mask {
		valueHeader = "Value (masked)"
	}

	keyWidth := len("Key")
	for _, k := range keys {
		if len(k) > keyWidth {
			keyWidth = len(k)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s  %s\n", keyWidth, "Key", valueHeader)
	fmt.Fprintf(&b, "%s  %s\n", strings.Repeat("-", keyWidth), strings.Repeat("-", len(valueHeader)))
	for _, k := range keys {
		value := secrets[k]
		if mask {
			value = Mask(value, DefaultMaskChars)
		}
		fmt.Fprintf(&b, "%-*s  %s\n", keyWidth, k, value)
	}
	fmt.Fprintf(&b, "\nTotal: %d secret(s)\n", len(secrets))
	return b.String()
}
