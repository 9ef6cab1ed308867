// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pixell-global/pixell-kit/internal/issue"
	"github.com/pixell-global/pixell-kit/internal/validator"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [project-dir]",
		Short: "Validate agent.yaml and package structure.",
		Long: `Validate agent.yaml and package structure.

Checks the manifest, the required .env file, and every declared surface
module without building anything. Errors block a build; warnings are
informational.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir := "."
			if len(args) == 1 {
				projectDir = args[0]
			}
			return runValidate(cmd, projectDir)
		},
	}
	return cmd
}

func runValidate(cmd *cobra.Command, projectDir string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	fmt.Fprintf(out, "Validating agent in %s...\n", PathStyle.Render(projectDir))

	result := validator.New(projectDir).Validate()

	if len(result.Errors) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, SubtitleStyle.Render("Errors:"))
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  %s %s\n", iconError, e)
		}
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, SubtitleStyle.Render("Warnings:"))
		for _, w := range result.Warnings {
			fmt.Fprintf(out, "  %s %s\n", iconWarning, w)
		}
	}

	fmt.Fprintln(out)
	if !result.Valid {
		fmt.Fprintln(errOut, ErrorStyle.Render(fmt.Sprintf("Validation failed: %d error(s), %d warning(s)", len(result.Errors), len(result.Warnings))))
		renderIssue(errOut, issue.ValidationFailedId)
		return fail(cmd, exitGeneral)
	}

	fmt.Fprintf(out, "%s Validation passed (%d warning(s))\n", iconSuccess, len(result.Warnings))
	return nil
}
