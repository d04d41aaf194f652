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
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFile represents the root structure of a gateway configuration file
type ConfigFile struct {
	Version string            `yaml:"version"`
	Gateway GatewayFileConfig `yaml:"gateway,omitempty"`
}

// GatewayFileConfig mirrors GatewayConfig in file form
type GatewayFileConfig struct {
	Port                  string   `yaml:"port,omitempty"`
	APIVersion            string   `yaml:"api_version,omitempty"`
	TimeoutMs             int      `yaml:"timeout_ms,omitempty"`
	AllowedOrigins        []string `yaml:"allowed_origins,omitempty"`
	SecretsProvider       string   `yaml:"secrets_provider,omitempty"`
	DefaultCredentialsRef string   `yaml:"default_credentials_ref,omitempty"`
}

// LoadFile reads a YAML config file, expands environment variable references
// and overlays it on cfg. Fields absent from the file keep their env values.
func LoadFile(path string, cfg *GatewayConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var file ConfigFile
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := ValidateConfigFile(&file); err != nil {
		return err
	}

	gw := file.Gateway
	if gw.Port != "" {
		cfg.Port = gw.Port
	}
	if gw.APIVersion != "" {
		cfg.APIVersion = gw.APIVersion
	}
	if gw.TimeoutMs > 0 {
		cfg.Timeout = time.Duration(gw.TimeoutMs) * time.Millisecond
	}
	if len(gw.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = gw.AllowedOrigins
	}
	if gw.SecretsProvider != "" {
		cfg.SecretsProvider = gw.SecretsProvider
	}
	if gw.DefaultCredentialsRef != "" {
		cfg.DefaultCredentialsRef = gw.DefaultCredentialsRef
	}

	return nil
}

// ValidateConfigFile validates the structure of a config file
func ValidateConfigFile(file *ConfigFile) error {
	if file.Version == "" {
		return fmt.Errorf("config file must specify a version")
	}

	switch file.Gateway.SecretsProvider {
	case "", "aws", "env", "none":
	default:
		return fmt.Errorf("invalid secrets_provider %q (want aws, env or none)",
			file.Gateway.SecretsProvider)
	}

	if file.Gateway.TimeoutMs < 0 {
		return fmt.Errorf("timeout_ms must not be negative")
	}

	return nil
}

// envVarRegex matches ${VAR_NAME} or $VAR_NAME patterns
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars expands environment variable references in the string.
// Supports ${VAR_NAME}, $VAR_NAME and ${VAR_NAME:-default} syntax; undefined
// variables expand to the empty string.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		defaultVal := ""
		if idx := strings.Index(varName, ":-"); idx != -1 {
			defaultVal = varName[idx+2:]
			varName = varName[:idx]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultVal
	})
}

// GenerateExampleConfigFile generates an example configuration file
func GenerateExampleConfigFile() string {
	return `# SFGateway Runtime Configuration
# Environment variables can be referenced using ${VAR_NAME} or
# ${VAR_NAME:-default} syntax.

version: "1.0"

gateway:
  port: ${PORT:-8080}
  api_version: "59.0"
  timeout_ms: 30000
  allowed_origins:
    - "*"

  # Optional server-side default credential profile. Per-request credentials
  # always win; the profile only fills fields the caller omitted.
  secrets_provider: ${SECRETS_PROVIDER:-none}
  default_credentials_ref: ${DEFAULT_CREDENTIALS_REF}
`
}
