// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pixell-global/pixell-kit/internal/cloud"
	"github.com/pixell-global/pixell-kit/internal/issue"
	"github.com/pixell-global/pixell-kit/internal/secrets"
)

// appIDEnvVar is consulted when --app-id is not given.
const appIDEnvVar = "PIXELL_APP_ID"

// secretsFlags holds the options shared by every secrets subcommand.
type secretsFlags struct {
	appID   string
	envName string
}

func newSecretsCommand() *cobra.Command {
	flags := &secretsFlags{}

	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Manage secrets for a deployed agent app.",
		Long: TitleStyle.Render("Manage secrets for a deployed agent app.") + "\n\n" +
			"Secrets are stored per app in Pixell Agent Cloud and injected into the\n" +
			"agent's environment at runtime. Values are masked in listings; only\n" +
			"'secrets get' prints a raw value.",
	}

	cmd.PersistentFlags().StringVar(&flags.appID, "app-id", "", "Agent app ID (defaults to $"+appIDEnvVar+")")
	cmd.PersistentFlags().StringVar(&flags.envName, "env", "prod",
		"Target environment ("+strings.Join(cloud.EnvironmentNames(), ", ")+")")

	cmd.AddCommand(
		newSecretsListCommand(flags),
		newSecretsGetCommand(flags),
		newSecretsSetCommand(flags),
		newSecretsUpdateCommand(flags),
		newSecretsDeleteCommand(flags),
		newSecretsDeleteAllCommand(flags),
	)
	return cmd
}

// openSecretsClient resolves the app ID and API key and builds a cloud
// client for the selected environment. Failures are rendered before a
// non-nil error is returned, so callers just propagate it.
func openSecretsClient(cmd *cobra.Command, flags *secretsFlags) (*cloud.Client, string, error) {
	errOut := cmd.ErrOrStderr()

	appID := flags.appID
	if appID == "" {
		appID = os.Getenv(appIDEnvVar)
	}
	if appID == "" {
		fmt.Fprintln(errOut, ErrorStyle.Render("ERROR: No app ID provided"))
		fmt.Fprintln(errOut, "Pass --app-id or set "+appIDEnvVar+".")
		renderIssue(errOut, issue.AppIdMissingId)
		return nil, "", fail(cmd, exitGeneral)
	}

	env, err := cloud.ResolveEnvironment(flags.envName)
	if err != nil {
		fmt.Fprintln(errOut, ErrorStyle.Render(err.Error()))
		return nil, "", fail(cmd, exitGeneral)
	}

	apiKey := cloud.APIKey()
	if apiKey == "" {
		fmt.Fprintln(errOut, ErrorStyle.Render("ERROR: No API key provided"))
		fmt.Fprintf(errOut, "Set %s or store api_key in ~/.pixell/config.json.\n", cloud.APIKeyEnvVar)
		renderIssue(errOut, issue.ApiKeyMissingId)
		return nil, "", fail(cmd, exitGeneral)
	}

	return newCloudClient(env, apiKey), appID, nil
}

// secretsFailure reports a cloud API failure and maps it onto the
// secrets exit-code contract: 2 for authentication failures, 3 when the
// app or secret does not exist, 1 for everything else.
func secretsFailure(cmd *cobra.Command, err error) error {
	errOut := cmd.ErrOrStderr()

	var authErr *cloud.AuthenticationError
	if errors.As(err, &authErr) {
		fmt.Fprintln(errOut, ErrorStyle.Render("AUTHENTICATION ERROR: "+authErr.Message))
		renderIssue(errOut, issue.AuthFailedId)
		return fail(cmd, exitAuth)
	}

	var notFound *cloud.NotFoundError
	if errors.As(err, &notFound) {
		fmt.Fprintln(errOut, ErrorStyle.Render("NOT FOUND: "+notFound.Message))
		return fail(cmd, exitNotFound)
	}

	fmt.Fprintln(errOut, ErrorStyle.Render("ERROR: "+formatErrorForDisplay(err, verbose)))
	return fail(cmd, exitGeneral)
}

func newSecretsListCommand(flags *secretsFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List secrets with masked values.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSecretsList(cmd, flags, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table, json)")
	return cmd
}

func runSecretsList(cmd *cobra.Command, flags *secretsFlags, format string) error {
	out := cmd.OutOrStdout()

	if format != "table" && format != "json" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s\n",
			ErrorStyle.Render(fmt.Sprintf("Invalid format: %q (valid formats: table, json)", format)))
		return fail(cmd, exitGeneral)
	}

	client, appID, err := openSecretsClient(cmd, flags)
	if err != nil {
		return err
	}

	values, err := client.ListSecrets(cmd.Context(), appID)
	if err != nil {
		return secretsFailure(cmd, err)
	}
	if values == nil {
		values = map[string]string{}
	}

	if format == "json" {
		payload, err := json.MarshalIndent(map[string]map[string]string{"secrets": values}, "", "  ")
		if err != nil {
			return secretsFailure(cmd, err)
		}
		fmt.Fprintln(out, string(payload))
		return nil
	}

	fmt.Fprint(out, secrets.FormatTable(values, true))
	return nil
}

func newSecretsGetCommand(flags *secretsFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the raw value of one secret.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSecretsGet(cmd, flags, args[0])
		},
	}
}

func runSecretsGet(cmd *cobra.Command, flags *secretsFlags, key string) error {
	client, appID, err := openSecretsClient(cmd, flags)
	if err != nil {
		return err
	}

	value, err := client.GetSecret(cmd.Context(), appID, key)
	if err != nil {
		return secretsFailure(cmd, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func newSecretsSetCommand(flags *secretsFlags) *cobra.Command {
	var (
		pairs    []string
		filePath string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set one or more secrets.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSecretsSet(cmd, flags, pairs, filePath)
		},
	}
	cmd.Flags().StringArrayVarP(&pairs, "secret", "s", nil, "Secret as KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&filePath, "file", "", "Read secrets from a .json or .env file")
	return cmd
}

func runSecretsSet(cmd *cobra.Command, flags *secretsFlags, pairs []string, filePath string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	client, appID, err := openSecretsClient(cmd, flags)
	if err != nil {
		return err
	}

	values := map[string]string{}
	if filePath != "" {
		loaded, err := loadSecretsFile(filePath)
		if err != nil {
			fmt.Fprintln(errOut, ErrorStyle.Render("ERROR: "+err.Error()))
			return fail(cmd, exitGeneral)
		}
		for k, v := range loaded {
			values[k] = v
		}
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			fmt.Fprintln(errOut, ErrorStyle.Render("Invalid secret format: "+pair))
			fmt.Fprintln(errOut, "Expected format: KEY=VALUE")
			return fail(cmd, exitGeneral)
		}
		values[key] = value
	}

	if len(values) == 0 {
		fmt.Fprintln(errOut, ErrorStyle.Render("No secrets provided"))
		fmt.Fprintln(errOut, "Pass -s KEY=VALUE or --file path/to/secrets.env.")
		return fail(cmd, exitGeneral)
	}

	for _, key := range sortedKeys(values) {
		if !secrets.ValidateKey(key) {
			fmt.Fprintln(errOut, ErrorStyle.Render("Invalid secret key: "+key))
			fmt.Fprintln(errOut, "Keys must start with an uppercase letter or underscore and contain only A-Z, 0-9, and _.")
			return fail(cmd, exitGeneral)
		}
	}

	fmt.Fprintf(out, "Setting %d secret(s) for app %s:\n\n", len(values), appID)
	fmt.Fprint(out, secrets.FormatTable(values, true))
	fmt.Fprintln(out)
	if !promptConfirm(cmd, "Save these secrets?") {
		fmt.Fprintln(out, "Cancelled")
		return nil
	}

	result, err := client.SetSecrets(cmd.Context(), appID, values)
	if err != nil {
		return secretsFailure(cmd, err)
	}

	if result != nil && result.SecretCount > 0 {
		fmt.Fprintf(out, "%s Secrets saved successfully (%d secret(s))\n", iconSuccess, result.SecretCount)
	} else {
		fmt.Fprintf(out, "%s Secrets saved successfully\n", iconSuccess)
	}
	return nil
}

// loadSecretsFile picks the parser by extension: .json files hold a flat
// object, anything else is treated as KEY=VALUE lines.
func loadSecretsFile(path string) (map[string]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return secrets.ParseJSONFile(path)
	}
	return secrets.ParseEnvFile(path)
}

func newSecretsUpdateCommand(flags *secretsFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "update <key> <value>",
		Short: "Update a single secret.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSecretsUpdate(cmd, flags, args[0], args[1])
		},
	}
}

func runSecretsUpdate(cmd *cobra.Command, flags *secretsFlags, key, value string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	client, appID, err := openSecretsClient(cmd, flags)
	if err != nil {
		return err
	}

	if !secrets.ValidateKey(key) {
		fmt.Fprintln(errOut, ErrorStyle.Render("Invalid secret key: "+key))
		fmt.Fprintln(errOut, "Keys must start with an uppercase letter or underscore and contain only A-Z, 0-9, and _.")
		return fail(cmd, exitGeneral)
	}

	if _, err := client.UpdateSecret(cmd.Context(), appID, key, value); err != nil {
		return secretsFailure(cmd, err)
	}

	fmt.Fprintf(out, "%s Secret %s updated successfully\n", iconSuccess, key)
	return nil
}

func newSecretsDeleteCommand(flags *secretsFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a single secret.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSecretsDelete(cmd, flags, args[0], force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func runSecretsDelete(cmd *cobra.Command, flags *secretsFlags, key string, force bool) error {
	out := cmd.OutOrStdout()

	client, appID, err := openSecretsClient(cmd, flags)
	if err != nil {
		return err
	}

	if !force && !promptConfirm(cmd, fmt.Sprintf("Delete secret %s from app %s?", key, appID)) {
		fmt.Fprintln(out, "Cancelled")
		return nil
	}

	if _, err := client.DeleteSecret(cmd.Context(), appID, key); err != nil {
		return secretsFailure(cmd, err)
	}

	fmt.Fprintf(out, "%s Secret %s deleted successfully\n", iconSuccess, key)
	return nil
}

func newSecretsDeleteAllCommand(flags *secretsFlags) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every secret for an app.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSecretsDeleteAll(cmd, flags, confirm)
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Acknowledge that every secret will be removed")
	return cmd
}

func runSecretsDeleteAll(cmd *cobra.Command, flags *secretsFlags, confirm bool) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	client, appID, err := openSecretsClient(cmd, flags)
	if err != nil {
		return err
	}

	if !confirm {
		fmt.Fprintln(errOut, ErrorStyle.Render("delete-all requires --confirm flag"))
		return fail(cmd, exitGeneral)
	}

	if !promptConfirm(cmd, fmt.Sprintf("Really delete ALL secrets for app %s?", appID)) {
		fmt.Fprintln(out, "Cancelled")
		return nil
	}

	if _, err := client.DeleteAllSecrets(cmd.Context(), appID); err != nil {
		return secretsFailure(cmd, err)
	}

	fmt.Fprintf(out, "%s All secrets deleted successfully\n", iconSuccess)
	return nil
}
