// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pixell-global/pixell-kit/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "pixell",
		Short: "Pixell Kit - Package AI agents into portable APKG files.",
		Long: TitleStyle.Render("pixell") + SubtitleStyle.Render(" - Package AI agents into portable APKG files.") + `

Pixell Kit scaffolds agent projects, validates their manifests, packages
them into APKG archives, and deploys them to Pixell Agent Cloud.

An agent project is a directory with an agent.yaml manifest describing
the agent's entrypoint, surfaces (REST, A2A, UI), and runtime. Building
produces a single versioned .apkg file under dist/ that carries the
project sources, resolved dependencies, and deployment metadata.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Scaffold a project:  pixell init my-agent
  2. Package it:          pixell build
  3. Ship it:             pixell deploy --app-id <id>

` + SubtitleStyle.Render("Examples:") + `
  pixell init my-agent            Scaffold a new agent project
  pixell validate                 Check agent.yaml and package structure
  pixell build                    Package the project into dist/
  pixell inspect dist/my-agent-0.1.0.apkg
  pixell deploy --app-id app-123  Upload the latest build`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newDeployCommand())
	rootCmd.AddCommand(newSecretsCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// userAgent identifies this build in cloud request headers.
func userAgent() string {
	return "pixell-kit/" + Version
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
