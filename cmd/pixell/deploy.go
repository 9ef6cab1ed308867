// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pixell-global/pixell-kit/internal/builder"
	"github.com/pixell-global/pixell-kit/internal/cloud"
	"github.com/pixell-global/pixell-kit/internal/issue"
	"github.com/pixell-global/pixell-kit/pkg/apkg"
)

// newCloudClient builds the API client for a deployment target.
// Tests swap this to point the client at a local server.
var newCloudClient = func(env cloud.Environment, apiKey string) *cloud.Client {
	return cloud.NewClient(env, apiKey, cloud.WithUserAgent(userAgent()))
}

type deployFlags struct {
	apkgFile   string
	appID      string
	envName    string
	version    string
	runtimeEnv []string
	force      bool
	projectDir string
	timeout    time.Duration
}

func newDeployCommand() *cobra.Command {
	var flags deployFlags

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy an APKG file to Pixell Agent Cloud",
		Long: `Deploy an APKG file to Pixell Agent Cloud.

Uploads a built package to the agent app identified by --app-id. When
no --apkg-file is given, the project is built first and the fresh
artifact is uploaded. Runtime environment overrides apply to this
deployment only and are never written back into the package.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.apkgFile, "apkg-file", "", "path to a built .apkg file (default: build the project)")
	cmd.Flags().StringVar(&flags.appID, "app-id", "", "agent app ID to deploy to")
	cmd.Flags().StringVar(&flags.envName, "env", "prod", "deployment environment (local, prod)")
	cmd.Flags().StringVar(&flags.version, "version", "", "version label for the upload (default: from the package)")
	cmd.Flags().StringArrayVar(&flags.runtimeEnv, "runtime-env", nil, "runtime environment override KEY=VALUE; repeatable")
	cmd.Flags().BoolVar(&flags.force, "force-overwrite", false, "replace an existing package of the same version")
	cmd.Flags().StringVar(&flags.projectDir, "project", ".", "project directory to build when no --apkg-file is given")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 5*time.Minute, "bound on the upload request (0 disables it)")
	_ = cmd.MarkFlagRequired("app-id")

	return cmd
}

func runDeploy(cmd *cobra.Command, flags deployFlags) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	runtimeEnv := make(map[string]string, len(flags.runtimeEnv))
	for _, pair := range flags.runtimeEnv {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			fmt.Fprintln(errOut, ErrorStyle.Render("Invalid runtime environment variable format: "+pair))
			fmt.Fprintln(errOut, "Expected format: KEY=VALUE")
			return fail(cmd, exitGeneral)
		}
		runtimeEnv[key] = value
	}

	env, err := cloud.ResolveEnvironment(flags.envName)
	if err != nil {
		fmt.Fprintln(errOut, ErrorStyle.Render(err.Error()))
		return fail(cmd, exitGeneral)
	}
	fmt.Fprintf(out, "Deploying to %s (%s)\n", env.DisplayName, env.BaseURL)

	apiKey := cloud.APIKey()
	if apiKey == "" {
		fmt.Fprintln(errOut, ErrorStyle.Render("No API key provided"))
		fmt.Fprintf(errOut, "Set %s or store api_key in ~/.pixell/config.json\n", cloud.APIKeyEnvVar)
		renderIssue(errOut, issue.ApiKeyMissingId)
		return fail(cmd, exitGeneral)
	}

	artifactPath := flags.apkgFile
	if artifactPath == "" {
		fmt.Fprintf(out, "No package specified; building %s first...\n", PathStyle.Render(flags.projectDir))
		artifact, err := builder.New(flags.projectDir, builder.WithOutputDir(filepath.Join(flags.projectDir, "dist"))).Build(cmd.Context())
		if err != nil {
			fmt.Fprintln(errOut, ErrorStyle.Render("Build failed: ")+formatErrorForDisplay(err, verbose))
			return fail(cmd, exitGeneral)
		}
		artifactPath = artifact.Path
		fmt.Fprintf(out, "%s Built %s\n", iconSuccess, filepath.Base(artifactPath))
	}

	version := flags.version
	if version == "" {
		version = apkg.ExtractVersion(artifactPath)
	}
	if version != "" {
		fmt.Fprintf(out, "Version: %s\n", version)
	}
	if len(runtimeEnv) > 0 {
		fmt.Fprintf(out, "Runtime environment variables: %d variable(s)\n", len(runtimeEnv))
	}

	ctx := cmd.Context()
	if flags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.timeout)
		defer cancel()
	}
	result, err := newCloudClient(env, apiKey).Deploy(ctx, flags.appID, artifactPath, cloud.DeployOptions{
		Version:        version,
		ForceOverwrite: flags.force,
		RuntimeEnv:     runtimeEnv,
	})
	if err != nil {
		return deployFailure(cmd, err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s Deployment initiated successfully!\n", iconSuccess)
	fmt.Fprintf(out, "  Deployment ID: %s\n", result.Deployment.ID)
	fmt.Fprintf(out, "  Status:        %s\n", result.Deployment.Status)
	if result.Package.Version != "" {
		fmt.Fprintf(out, "  Version:       %s\n", result.Package.Version)
	}
	if result.Tracking.StatusURL != "" {
		fmt.Fprintf(out, "  Track progress: %s\n", result.Tracking.StatusURL)
	}
	return nil
}

// deployFailure reports a failed deployment and maps it to the catalog
// guidance for its cause.
func deployFailure(cmd *cobra.Command, err error) error {
	errOut := cmd.ErrOrStderr()

	var (
		authErr    *cloud.AuthenticationError
		creditsErr *cloud.InsufficientCreditsError
		valErr     *cloud.ValidationError
		corruptErr *apkg.CorruptError
	)
	switch {
	case errors.As(err, &authErr):
		fmt.Fprintln(errOut, ErrorStyle.Render("Authentication failed: ")+authErr.Message)
		renderIssue(errOut, issue.AuthFailedId)

	case errors.As(err, &creditsErr):
		fmt.Fprintln(errOut, ErrorStyle.Render(creditsErr.Error()))
		renderIssue(errOut, issue.InsufficientCreditsId)

	case errors.As(err, &valErr):
		fmt.Fprintln(errOut, ErrorStyle.Render("Package rejected: ")+valErr.Message)
		for _, detail := range valErr.Details {
			fmt.Fprintf(errOut, "  %s %s\n", iconError, detail)
		}

	case errors.As(err, &corruptErr):
		fmt.Fprintln(errOut, ErrorStyle.Render("Deployment failed: ")+err.Error())
		renderIssue(errOut, issue.ArtifactCorruptId)

	default:
		fmt.Fprintln(errOut, ErrorStyle.Render("Deployment failed: ")+formatErrorForDisplay(err, verbose))
	}
	return fail(cmd, exitGeneral)
}
