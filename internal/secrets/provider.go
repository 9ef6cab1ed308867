// SPDX-License-Identifier: MPL-2.0

package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Environment variables controlling provider selection.
const (
	ProviderEnvVar   = "PIXELL_SECRETS_PROVIDER"
	StaticJSONEnvVar = "PIXELL_SECRETS_JSON"
	AWSSecretsEnvVar = "PIXELL_AWS_SECRETS"
	AWSRegionEnvVar  = "PIXELL_AWS_REGION"
)

// Provider fetches secrets as an environment map.
type Provider interface {
	FetchSecrets(ctx context.Context) (map[string]string, error)
}

// EnvProvider returns the current process environment. Useful in
// local development where secrets are already exported.
type EnvProvider struct{}

// NewEnvProvider returns a provider backed by the process environment.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// FetchSecrets implements Provider.
func (p *EnvProvider) FetchSecrets(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string)
	for _, entry := range os.Environ() {
		if key, value, ok := strings.Cut(entry, "="); ok {
			out[key] = value
		}
	}
	return out, nil
}

// StaticProvider returns a fixed mapping supplied at construction.
type StaticProvider struct {
	secrets map[string]string
}

// NewStaticProvider copies the given mapping into a provider.
func NewStaticProvider(secrets map[string]string) *StaticProvider {
	copied := make(map[string]string, len(secrets))
	for k, v := range secrets {
		copied[k] = v
	}
	return &StaticProvider{secrets: copied}
}

// FetchSecrets implements Provider.
func (p *StaticProvider) FetchSecrets(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(p.secrets))
	for k, v := range p.secrets {
		out[k] = v
	}
	return out, nil
}

// FromEnv builds a provider from PIXELL_SECRETS_* variables. It
// returns (nil, nil) when no provider is configured. Setting only
// PIXELL_SECRETS_JSON selects a static provider without naming one
// explicitly; malformed JSON is ignored in that implicit mode.
func FromEnv() (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(os.Getenv(ProviderEnvVar)))
	if name == "" {
		raw := os.Getenv(StaticJSONEnvVar)
		if raw == "" {
			return nil, nil
		}
		mapping, err := decodeSecretsJSON(raw)
		if err != nil {
			return nil, nil
		}
		return NewStaticProvider(mapping), nil
	}

	switch name {
	case "env":
		return NewEnvProvider(), nil
	case "static":
		raw := os.Getenv(StaticJSONEnvVar)
		if raw == "" {
			raw = "{}"
		}
		mapping, err := decodeSecretsJSON(raw)
		if err != nil {
			return nil, err
		}
		return NewStaticProvider(mapping), nil
	case "aws":
		ids := strings.TrimSpace(os.Getenv(AWSSecretsEnvVar))
		if ids == "" {
			return nil, errors.New("PIXELL_AWS_SECRETS is required when provider=aws")
		}
		return NewAWSProvider(AWSConfig{SecretIDs: ids, Region: os.Getenv(AWSRegionEnvVar)}, nil), nil
	}
	return nil, fmt.Errorf("unknown PIXELL_SECRETS_PROVIDER: %q", name)
}

func decodeSecretsJSON(raw string) (map[string]string, error) {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, errors.New("invalid PIXELL_SECRETS_JSON: must be a JSON object")
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, errors.New("PIXELL_SECRETS_JSON must be a JSON object")
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		out[k] = stringifyJSONValue(v)
	}
	return out, nil
}

// stringifyJSONValue renders a decoded JSON value as an environment
// variable value. Strings pass through unquoted.
func stringifyJSONValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
