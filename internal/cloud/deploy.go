// SPDX-License-Identifier: MPL-2.0

package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pixell-global/pixell-kit/pkg/apkg"
	"github.com/pixell-global/pixell-kit/pkg/envfile"
)

type (
	// DeployOptions tunes a single deployment upload.
	DeployOptions struct {
		// Version labels the uploaded package; when empty the server
		// derives it from the package descriptor.
		Version string
		// ForceOverwrite replaces an existing package of the same version.
		ForceOverwrite bool
		// RuntimeEnv overrides packaged environment keys for this
		// deployment only. It is never written back into the artifact.
		RuntimeEnv map[string]string
	}

	// Deployment describes the queued deployment job.
	Deployment struct {
		ID                       string `json:"id"`
		Status                   string `json:"status"`
		QueuedAt                 string `json:"queued_at"`
		EstimatedDurationSeconds int    `json:"estimated_duration_seconds,omitempty"`
	}

	// PackageInfo describes the stored package version.
	PackageInfo struct {
		ID        string `json:"id"`
		Version   string `json:"version"`
		SizeBytes int64  `json:"size_bytes"`
	}

	// Tracking carries the URL to poll for deployment progress.
	Tracking struct {
		StatusURL string `json:"status_url"`
	}

	// DeployResult is the API's acknowledgement of an accepted upload.
	DeployResult struct {
		Deployment Deployment  `json:"deployment"`
		Package    PackageInfo `json:"package"`
		Tracking   Tracking    `json:"tracking"`
	}
)

// Deploy uploads an APKG artifact to the agent app's deployment
// endpoint. The packaged environment is read from the artifact and
// merged with opts.RuntimeEnv, runtime overrides winning, before the
// merged map is sent alongside the file. The upload is one blocking
// call; cancel it through ctx.
func (c *Client) Deploy(ctx context.Context, appID, artifactPath string, opts DeployOptions) (*DeployResult, error) {
	if _, err := os.Stat(artifactPath); err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	packagedEnv, err := apkg.ExtractEnvironment(artifactPath)
	if err != nil {
		return nil, err
	}
	environment := envfile.Merge(packagedEnv, opts.RuntimeEnv)

	body, contentType, err := deployForm(appID, artifactPath, opts, environment)
	if err != nil {
		return nil, err
	}

	path := "/api/agent-apps/" + url.PathEscape(appID) + "/packages/deploy"
	req, err := c.newRequest(ctx, http.MethodPost, path, body, contentType)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deploying to %s: %w", c.env.DisplayName, err)
	}
	defer resp.Body.Close()

	respBody, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var result DeployResult
		if err := json.Unmarshal(respBody, &result); err != nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
		}
		return &result, nil
	}
	return nil, deployError(resp.StatusCode, respBody)
}

// deployForm renders the multipart upload: the form fields followed by
// the artifact file itself.
func deployForm(appID, artifactPath string, opts DeployOptions, environment map[string]string) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	if err := w.WriteField("app_id", appID); err != nil {
		return nil, "", fmt.Errorf("writing form field: %w", err)
	}
	if opts.Version != "" {
		if err := w.WriteField("version", opts.Version); err != nil {
			return nil, "", fmt.Errorf("writing form field: %w", err)
		}
	}
	if err := w.WriteField("force_overwrite", strconv.FormatBool(opts.ForceOverwrite)); err != nil {
		return nil, "", fmt.Errorf("writing form field: %w", err)
	}

	envJSON, err := json.Marshal(environment)
	if err != nil {
		return nil, "", fmt.Errorf("encoding environment: %w", err)
	}
	if err := w.WriteField("environment", string(envJSON)); err != nil {
		return nil, "", fmt.Errorf("writing form field: %w", err)
	}

	fw, err := w.CreateFormFile("file", filepath.Base(artifactPath))
	if err != nil {
		return nil, "", fmt.Errorf("creating file part: %w", err)
	}
	f, err := os.Open(artifactPath)
	if err != nil {
		return nil, "", fmt.Errorf("opening artifact: %w", err)
	}
	_, copyErr := io.Copy(fw, f)
	closeErr := f.Close()
	if copyErr != nil {
		return nil, "", fmt.Errorf("copying artifact into form: %w", copyErr)
	}
	if closeErr != nil {
		return nil, "", fmt.Errorf("closing artifact: %w", closeErr)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing form: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// deployError maps a failed deployment response to its typed error.
func deployError(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthenticationError{Message: messageFromBody(body, "Invalid or missing API key")}

	case http.StatusPaymentRequired:
		var payload struct {
			Required  int `json:"required"`
			Available int `json:"available"`
		}
		if err := json.Unmarshal(body, &payload); err == nil {
			return &InsufficientCreditsError{Required: payload.Required, Available: payload.Available}
		}

	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		var payload struct {
			Error   string   `json:"error"`
			Details []string `json:"details"`
		}
		if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
			return &ValidationError{Message: payload.Error, Details: payload.Details}
		}
	}
	return &APIError{StatusCode: status, Body: string(body)}
}
