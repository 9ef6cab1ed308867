// SPDX-License-Identifier: MPL-2.0

package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type (
	// secretsEnvelope is the wire shape of the secrets collection.
	secretsEnvelope struct {
		Secrets map[string]string `json:"secrets"`
	}

	// MutationResult is the API's acknowledgement of a secrets write.
	MutationResult struct {
		Success     bool   `json:"success"`
		Message     string `json:"message"`
		Key         string `json:"key,omitempty"`
		SecretCount int    `json:"secretCount,omitempty"`
	}
)

func secretsPath(appID string) string {
	return "/api/agent-apps/" + url.PathEscape(appID) + "/secrets"
}

func secretPath(appID, key string) string {
	return secretsPath(appID) + "/" + url.PathEscape(key)
}

// ListSecrets fetches every secret configured for the agent app.
func (c *Client) ListSecrets(ctx context.Context, appID string) (map[string]string, error) {
	var envelope secretsEnvelope
	err := c.doSecrets(ctx, http.MethodGet, secretsPath(appID), nil, &envelope, appNotFound(appID))
	if err != nil {
		return nil, err
	}
	if envelope.Secrets == nil {
		return map[string]string{}, nil
	}
	return envelope.Secrets, nil
}

// GetSecret fetches one secret value by key.
func (c *Client) GetSecret(ctx context.Context, appID, key string) (string, error) {
	secrets, err := c.ListSecrets(ctx, appID)
	if err != nil {
		return "", err
	}
	value, ok := secrets[key]
	if !ok {
		return "", secretNotFoundErr(key)
	}
	return value, nil
}

// SetSecrets creates or replaces the given secrets in one call.
func (c *Client) SetSecrets(ctx context.Context, appID string, secrets map[string]string) (*MutationResult, error) {
	payload := secretsEnvelope{Secrets: secrets}
	var result MutationResult
	err := c.doSecrets(ctx, http.MethodPost, secretsPath(appID), payload, &result, appNotFound(appID))
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateSecret replaces the value of one existing secret.
func (c *Client) UpdateSecret(ctx context.Context, appID, key, value string) (*MutationResult, error) {
	payload := struct {
		Value string `json:"value"`
	}{Value: value}

	var result MutationResult
	err := c.doSecrets(ctx, http.MethodPut, secretPath(appID, key), payload, &result, keyNotFound(key))
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteSecret removes one secret by key.
func (c *Client) DeleteSecret(ctx context.Context, appID, key string) (*MutationResult, error) {
	var result MutationResult
	err := c.doSecrets(ctx, http.MethodDelete, secretPath(appID, key), nil, &result, keyNotFound(key))
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteAllSecrets removes every secret configured for the agent app.
func (c *Client) DeleteAllSecrets(ctx context.Context, appID string) (*MutationResult, error) {
	var result MutationResult
	err := c.doSecrets(ctx, http.MethodDelete, secretsPath(appID), nil, &result, appNotFound(appID))
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// doSecrets executes one secrets API call and maps failures to typed
// errors. The notFound callback supplies the 404 error, since its
// meaning depends on whether the path names an app or a single key.
func (c *Client) doSecrets(ctx context.Context, method, path string, payload any, out any, notFound func() error) error {
	resp, err := c.doJSON(ctx, method, path, payload)
	if err != nil {
		return fmt.Errorf("calling secrets API: %w", err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := json.Unmarshal(body, out); err != nil {
			return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthenticationError{Message: "Invalid or missing API key"}
	case resp.StatusCode == http.StatusNotFound:
		return notFound()
	default:
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
}

func appNotFound(appID string) func() error {
	return func() error {
		return &NotFoundError{Message: fmt.Sprintf("Agent app not found: %s", appID)}
	}
}

func keyNotFound(key string) func() error {
	return func() error {
		return secretNotFoundErr(key)
	}
}

func secretNotFoundErr(key string) error {
	return &NotFoundError{Message: fmt.Sprintf("Secret not found: %s", key)}
}
