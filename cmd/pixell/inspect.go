// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pixell-global/pixell-kit/internal/issue"
	"github.com/pixell-global/pixell-kit/pkg/apkg"
)

func newInspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <package>",
		Short: "Inspect an APKG package.",
		Long: `Inspect an APKG package.

Reads the deploy descriptor and entry statistics of a built .apkg file
without extracting it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the deploy descriptor as JSON")
	return cmd
}

func runInspect(cmd *cobra.Command, packagePath string, asJSON bool) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	info, err := apkg.Inspect(packagePath)
	if err != nil {
		fmt.Fprintln(errOut, ErrorStyle.Render("Inspection failed: ")+err.Error())

		var corrupt *apkg.CorruptError
		if errors.As(err, &corrupt) {
			renderIssue(errOut, issue.ArtifactCorruptId)
		}
		return fail(cmd, exitGeneral)
	}

	if asJSON {
		data, err := json.MarshalIndent(info.Descriptor, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode descriptor: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	d := info.Descriptor

	fmt.Fprintln(out, headerStyle.Render("Package: "+filepath.Base(info.Path)))
	fmt.Fprintf(out, "  Name:       %s\n", d.Name)
	fmt.Fprintf(out, "  Version:    %s\n", d.Version)
	fmt.Fprintf(out, "  Runtime:    %s\n", d.Runtime)
	if d.Entrypoint != "" {
		fmt.Fprintf(out, "  Entrypoint: %s\n", d.Entrypoint)
	}
	if len(d.Expose) > 0 {
		fmt.Fprintf(out, "  Surfaces:   %s\n", strings.Join(d.Expose, ", "))
		for _, surface := range d.Expose {
			fmt.Fprintf(out, "    %-4s port %d\n", surface, d.Ports[surface])
		}
	}
	fmt.Fprintf(out, "  Size:       %s\n", humanSize(info.Size))
	fmt.Fprintf(out, "  Files:      %d\n", info.FileCount)

	fmt.Fprintf(out, "  Environment: %d variable(s)\n", len(d.Environment))
	for _, key := range sortedKeys(d.Environment) {
		fmt.Fprintf(out, "    %s\n", key)
	}
	return nil
}

// sortedKeys returns the map's keys in lexical order. Only keys are
// shown; packaged environment values may carry secrets.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
