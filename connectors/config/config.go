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
	"fmt"
	"os"
	"strings"
	"time"
)

// GatewayConfig holds the runtime configuration for the gateway process.
// Values come from environment variables, optionally overridden by a YAML
// config file (see file_loader.go).
type GatewayConfig struct {
	// Port is the HTTP listen port
	Port string
	// APIVersion is the Salesforce REST API version
	APIVersion string
	// Timeout bounds each outbound platform call
	Timeout time.Duration
	// AllowedOrigins configures CORS; "*" permits any origin
	AllowedOrigins []string
	// SecretsProvider selects the secrets backend: "aws", "env" or "none"
	SecretsProvider string
	// DefaultCredentialsRef names the secret holding the optional
	// server-side default credential profile (an ARN for the aws provider,
	// an env var prefix for the env provider)
	DefaultCredentialsRef string
	// AWSRegion is used by the aws secrets provider
	AWSRegion string
}

// LoadFromEnv builds the gateway configuration from environment variables
//
//	PORT                      - HTTP server port (default: 8080)
//	SALESFORCE_API_VERSION    - REST API version (default: 59.0)
//	REQUEST_TIMEOUT           - outbound call timeout (default: 30s)
//	CORS_ALLOWED_ORIGINS      - comma-separated origins (default: *)
//	SECRETS_PROVIDER          - aws, env or none (default: none)
//	DEFAULT_CREDENTIALS_REF   - secret reference for default credentials
//	AWS_REGION                - region for the aws secrets provider
func LoadFromEnv() (*GatewayConfig, error) {
	cfg := &GatewayConfig{
		Port:                  getEnvOrDefault("PORT", "8080"),
		APIVersion:            getEnvOrDefault("SALESFORCE_API_VERSION", "59.0"),
		SecretsProvider:       getEnvOrDefault("SECRETS_PROVIDER", "none"),
		DefaultCredentialsRef: os.Getenv("DEFAULT_CREDENTIALS_REF"),
		AWSRegion:             os.Getenv("AWS_REGION"),
	}

	timeoutStr := getEnvOrDefault("REQUEST_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", timeoutStr, err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %q", timeoutStr)
	}
	cfg.Timeout = timeout

	origins := getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")
	for _, origin := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	switch cfg.SecretsProvider {
	case "aws", "env", "none":
	default:
		return nil, fmt.Errorf("invalid SECRETS_PROVIDER %q (want aws, env or none)", cfg.SecretsProvider)
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
