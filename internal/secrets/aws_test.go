// SPDX-License-Identifier: MPL-2.0

package secrets

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type fakeSecretsManager struct {
	values map[string]string
	err    error
	calls  []string
}

func (f *fakeSecretsManager) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	id := aws.ToString(params.SecretId)
	f.calls = append(f.calls, id)
	if f.err != nil {
		return nil, f.err
	}
	value := f.values[id]
	out := &secretsmanager.GetSecretValueOutput{}
	if value != "" {
		out.SecretString = aws.String(value)
	}
	return out, nil
}

func TestAWSProviderFetchSecrets(t *testing.T) {
	t.Run("json object merges keys", func(t *testing.T) {
		fake := &fakeSecretsManager{values: map[string]string{
			"app/secrets": `{"API_KEY":"sk-1","DB_HOST":"pg"}`,
		}}
		p := NewAWSProvider(AWSConfig{SecretIDs: "app/secrets"}, fake)

		secrets, err := p.FetchSecrets(context.Background())
		if err != nil {
			t.Fatalf("FetchSecrets failed: %v", err)
		}
		if secrets["API_KEY"] != "sk-1" || secrets["DB_HOST"] != "pg" {
			t.Errorf("unexpected secrets: %v", secrets)
		}
	})

	t.Run("plain string stored under secret id", func(t *testing.T) {
		fake := &fakeSecretsManager{values: map[string]string{
			"db-password": "plain-value",
		}}
		p := NewAWSProvider(AWSConfig{SecretIDs: "db-password"}, fake)

		secrets, err := p.FetchSecrets(context.Background())
		if err != nil {
			t.Fatalf("FetchSecrets failed: %v", err)
		}
		if secrets["db-password"] != "plain-value" {
			t.Errorf("unexpected secrets: %v", secrets)
		}
	})

	t.Run("json scalar stored under secret id", func(t *testing.T) {
		fake := &fakeSecretsManager{values: map[string]string{
			"port": "8080",
		}}
		p := NewAWSProvider(AWSConfig{SecretIDs: "port"}, fake)

		secrets, err := p.FetchSecrets(context.Background())
		if err != nil {
			t.Fatalf("FetchSecrets failed: %v", err)
		}
		if secrets["port"] != "8080" {
			t.Errorf("unexpected secrets: %v", secrets)
		}
	})

	t.Run("comma separated ids are trimmed and fetched in order", func(t *testing.T) {
		fake := &fakeSecretsManager{values: map[string]string{
			"first":  `{"A":"1"}`,
			"second": `{"B":"2"}`,
		}}
		p := NewAWSProvider(AWSConfig{SecretIDs: " first , second ,"}, fake)

		secrets, err := p.FetchSecrets(context.Background())
		if err != nil {
			t.Fatalf("FetchSecrets failed: %v", err)
		}
		if secrets["A"] != "1" || secrets["B"] != "2" {
			t.Errorf("unexpected secrets: %v", secrets)
		}
		if len(fake.calls) != 2 || fake.calls[0] != "first" || fake.calls[1] != "second" {
			t.Errorf("unexpected calls: %v", fake.calls)
		}
	})

	t.Run("empty secret string skipped", func(t *testing.T) {
		fake := &fakeSecretsManager{values: map[string]string{}}
		p := NewAWSProvider(AWSConfig{SecretIDs: "missing"}, fake)

		secrets, err := p.FetchSecrets(context.Background())
		if err != nil {
			t.Fatalf("FetchSecrets failed: %v", err)
		}
		if len(secrets) != 0 {
			t.Errorf("expected no secrets, got %v", secrets)
		}
	})

	t.Run("client errors propagate", func(t *testing.T) {
		fake := &fakeSecretsManager{err: errors.New("access denied")}
		p := NewAWSProvider(AWSConfig{SecretIDs: "app/secrets"}, fake)

		_, err := p.FetchSecrets(context.Background())
		if err == nil || !strings.Contains(err.Error(), "failed to fetch secret app/secrets") {
			t.Errorf("expected wrapped fetch error, got %v", err)
		}
	})
}
