// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pixell-global/pixell-kit/internal/builder"
	"github.com/pixell-global/pixell-kit/internal/issue"
)

func newBuildCommand() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "build [project-dir]",
		Short: "Build agent into APKG file.",
		Long: `Build agent into APKG file.

Validates the project, resolves its packaged environment, and writes a
single versioned .apkg archive. By default the archive lands in the
project directory's dist/ folder.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir := "."
			if len(args) == 1 {
				projectDir = args[0]
			}
			return runBuild(cmd, projectDir, outputDir)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for the .apkg file (default: <project-dir>/dist)")
	return cmd
}

func runBuild(cmd *cobra.Command, projectDir, outputDir string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	if outputDir == "" {
		outputDir = filepath.Join(projectDir, "dist")
	}

	fmt.Fprintf(out, "Building agent from %s...\n", PathStyle.Render(projectDir))

	artifact, err := builder.New(projectDir, builder.WithOutputDir(outputDir)).Build(cmd.Context())
	if err != nil {
		fmt.Fprintln(errOut, ErrorStyle.Render("Build failed: ")+formatErrorForDisplay(err, verbose))

		var buildErr *builder.BuildError
		if errors.As(err, &buildErr) {
			switch buildErr.Kind {
			case builder.KindManifestInvalid:
				renderIssue(errOut, issue.ManifestInvalidId)
			case builder.KindMissingEnvFile:
				renderIssue(errOut, issue.MissingEnvFileId)
			case builder.KindValidation:
				renderIssue(errOut, issue.ValidationFailedId)
			}
		}
		return fail(cmd, exitGeneral)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s Build successful!\n", iconSuccess)
	fmt.Fprintf(out, "  Package:  %s\n", filepath.Base(artifact.Path))
	fmt.Fprintf(out, "  Location: %s\n", PathStyle.Render(filepath.Dir(artifact.Path)))
	fmt.Fprintf(out, "  Size:     %s\n", humanSize(artifact.Size))
	return nil
}
