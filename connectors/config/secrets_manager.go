// Copyright 2025 SFGateway
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"sfgateway/connectors/base"
	"sfgateway/shared/logger"
)

// SecretsManager resolves a named secret to a map of credential fields.
// Used to load the optional server-side default credential profile; request
// credentials are never stored through this interface.
type SecretsManager interface {
	GetSecret(ctx context.Context, ref string) (map[string]string, error)
}

// NewSecretsManager builds the secrets backend selected by the config.
// Provider "none" returns nil: no default profile is available.
func NewSecretsManager(ctx context.Context, cfg *GatewayConfig) (SecretsManager, error) {
	switch cfg.SecretsProvider {
	case "aws":
		return NewAWSSecretsManager(ctx, AWSSecretsManagerOptions{Region: cfg.AWSRegion})
	case "env":
		return NewEnvSecretsManager(), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown secrets provider %q", cfg.SecretsProvider)
	}
}

// AWSSecretsManager implements SecretsManager using AWS Secrets Manager
type AWSSecretsManager struct {
	client *secretsmanager.Client
	cache  map[string]*secretCacheEntry
	mu     sync.RWMutex
	ttl    time.Duration
	log    *logger.Logger
}

type secretCacheEntry struct {
	value     map[string]string
	expiresAt time.Time
}

// AWSSecretsManagerOptions holds options for creating an AWSSecretsManager
type AWSSecretsManagerOptions struct {
	Region   string
	CacheTTL time.Duration
}

// NewAWSSecretsManager creates a new AWS Secrets Manager client
func NewAWSSecretsManager(ctx context.Context, opts AWSSecretsManagerOptions) (*AWSSecretsManager, error) {
	cfgOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		cfgOpts = append(cfgOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &AWSSecretsManager{
		client: secretsmanager.NewFromConfig(cfg),
		cache:  make(map[string]*secretCacheEntry),
		ttl:    ttl,
		log:    logger.New("config"),
	}, nil
}

// GetSecret retrieves a secret from AWS Secrets Manager. The secret value is
// expected to be a JSON object with string values.
func (s *AWSSecretsManager) GetSecret(ctx context.Context, ref string) (map[string]string, error) {
	s.mu.RLock()
	entry, exists := s.cache[ref]
	s.mu.RUnlock()

	if exists && time.Now().Before(entry.expiresAt) {
		return entry.value, nil
	}

	result, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(ref),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s: %w", maskRef(ref), err)
	}

	if result.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", maskRef(ref))
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(*result.SecretString), &fields); err != nil {
		return nil, fmt.Errorf("secret %s is not a JSON object of strings: %w", maskRef(ref), err)
	}

	s.mu.Lock()
	s.cache[ref] = &secretCacheEntry{
		value:     fields,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()

	s.log.Debug("", "Retrieved and cached secret", map[string]interface{}{"ref": maskRef(ref)})
	return fields, nil
}

// InvalidateAll clears the secret cache
func (s *AWSSecretsManager) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string]*secretCacheEntry)
	s.mu.Unlock()
}

// maskRef masks a secret reference for logging (shows only last 8 characters)
func maskRef(ref string) string {
	if len(ref) <= 12 {
		return "***"
	}
	return "..." + ref[len(ref)-8:]
}

// EnvSecretsManager implements SecretsManager using environment variables.
// The ref is used as an environment variable name prefix.
type EnvSecretsManager struct{}

// NewEnvSecretsManager creates a secrets manager that reads from environment
// variables. Useful for development deployments without AWS Secrets Manager.
func NewEnvSecretsManager() *EnvSecretsManager {
	return &EnvSecretsManager{}
}

// GetSecret retrieves credential fields from environment variables. A ref of
// "SALESFORCE" looks for SALESFORCE_USERNAME, SALESFORCE_PASSWORD,
// SALESFORCE_SECURITY_TOKEN and SALESFORCE_DOMAIN.
func (s *EnvSecretsManager) GetSecret(ctx context.Context, ref string) (map[string]string, error) {
	fields := map[string]string{}
	for envField, key := range map[string]string{
		"USERNAME":       "username",
		"PASSWORD":       "password",
		"SECURITY_TOKEN": "security_token",
		"DOMAIN":         "domain",
	} {
		if value := os.Getenv(ref + "_" + envField); value != "" {
			fields[key] = value
		}
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("no credential fields found for prefix %s", ref)
	}

	return fields, nil
}

// LocalSecretsManager implements SecretsManager from an in-memory map.
// Used by tests as a canned secrets backend.
type LocalSecretsManager struct {
	secrets map[string]map[string]string
	mu      sync.RWMutex
}

// NewLocalSecretsManager creates an empty local secrets manager
func NewLocalSecretsManager() *LocalSecretsManager {
	return &LocalSecretsManager{secrets: make(map[string]map[string]string)}
}

// GetSecret retrieves a secret from local storage
func (s *LocalSecretsManager) GetSecret(ctx context.Context, ref string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if secret, exists := s.secrets[ref]; exists {
		return secret, nil
	}
	return nil, fmt.Errorf("secret %s not found in local secrets manager", ref)
}

// SetSecret stores a secret locally
func (s *LocalSecretsManager) SetSecret(ref string, value map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[ref] = value
}

// DefaultCredentials resolves the configured default credential profile, or
// (zero, false) when no profile is configured or resolvable
func DefaultCredentials(ctx context.Context, sm SecretsManager, ref string) (base.Credentials, bool) {
	if sm == nil || ref == "" {
		return base.Credentials{}, false
	}

	fields, err := sm.GetSecret(ctx, ref)
	if err != nil {
		return base.Credentials{}, false
	}

	return base.Credentials{
		Username:      fields["username"],
		Password:      fields["password"],
		SecurityToken: fields["security_token"],
		Domain:        base.Domain(fields["domain"]),
	}, true
}
