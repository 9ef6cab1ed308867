// SPDX-License-Identifier: MPL-2.0

package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManagerAPI is the slice of the AWS Secrets Manager client the
// provider needs. Tests substitute a fake.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSConfig configures the AWS Secrets Manager provider.
type AWSConfig struct {
	// SecretIDs is a comma-separated list of secret names or ARNs.
	SecretIDs string
	// Region overrides the default AWS region chain when non-empty.
	Region string
}

// AWSProvider fetches secrets from AWS Secrets Manager. A secret
// whose value is a JSON object contributes its keys individually;
// any other value is stored under the secret id.
type AWSProvider struct {
	cfg    AWSConfig
	client SecretsManagerAPI
}

// NewAWSProvider builds a provider. A nil client is constructed
// lazily from the default AWS config on first fetch.
func NewAWSProvider(cfg AWSConfig, client SecretsManagerAPI) *AWSProvider {
	return &AWSProvider{cfg: cfg, client: client}
}

// FetchSecrets implements Provider.
func (p *AWSProvider) FetchSecrets(ctx context.Context) (map[string]string, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string)
	for _, id := range strings.Split(p.cfg.SecretIDs, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		resp, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(id),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch secret %s: %w", id, err)
		}
		value := aws.ToString(resp.SecretString)
		if value == "" {
			continue
		}
		mergeSecretValue(out, id, value)
	}
	return out, nil
}

func (p *AWSProvider) getClient(ctx context.Context) (SecretsManagerAPI, error) {
	if p.client != nil {
		return p.client, nil
	}
	var opts []func(*awsconfig.LoadOptions) error
	if p.cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(p.cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	p.client = secretsmanager.NewFromConfig(awsCfg)
	return p.client, nil
}

func mergeSecretValue(out map[string]string, id, value string) {
	var parsed any
	if err := json.Unmarshal([]byte(value), &parsed); err != nil {
		out[id] = value
		return
	}
	if obj, ok := parsed.(map[string]any); ok {
		for k, v := range obj {
			out[k] = stringifyJSONValue(v)
		}
		return
	}
	out[id] = stringifyJSONValue(parsed)
}
