// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/pixell-global/pixell-kit/internal/issue"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev fallback", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestUserAgent(t *testing.T) {
	// Not parallel: mutates the package-level Version var.
	origVersion := Version
	t.Cleanup(func() { Version = origVersion })

	Version = "1.2.3"
	if got := userAgent(); got != "pixell-kit/1.2.3" {
		t.Errorf("userAgent() = %q, want %q", got, "pixell-kit/1.2.3")
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()
		got := formatErrorForDisplay(errors.New("something broke"), false)
		if got != "something broke" {
			t.Errorf("formatErrorForDisplay() = %q, want the raw message", got)
		}
	})

	t.Run("actionable error with suggestions", func(t *testing.T) {
		t.Parallel()
		err := issue.NewErrorContext().
			WithOperation("load agent manifest").
			WithResource("./agent.yaml").
			WithSuggestion("Run 'pixell init' to scaffold a project").
			Wrap(errors.New("no such file")).
			Build()

		got := formatErrorForDisplay(err, false)
		if !strings.Contains(got, "load agent manifest") {
			t.Errorf("formatErrorForDisplay() = %q, want the operation", got)
		}
		if !strings.Contains(got, "Run 'pixell init' to scaffold a project") {
			t.Errorf("formatErrorForDisplay() = %q, want the suggestion", got)
		}
	})

	t.Run("verbose shows chain", func(t *testing.T) {
		t.Parallel()
		err := issue.WrapWithOperation(errors.New("file not found"), "read package")

		got := formatErrorForDisplay(err, true)
		if !strings.Contains(got, "Error chain:") {
			t.Errorf("formatErrorForDisplay() = %q, want the error chain in verbose mode", got)
		}
	})
}

func TestRootCommandWiring(t *testing.T) {
	t.Parallel()

	want := []string{"init", "build", "validate", "inspect", "deploy", "secrets"}
	for _, name := range want {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}
