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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "59.0", cfg.APIVersion)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "none", cfg.SecretsProvider)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SALESFORCE_API_VERSION", "60.0")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("SECRETS_PROVIDER", "env")
	t.Setenv("DEFAULT_CREDENTIALS_REF", "SALESFORCE")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "60.0", cfg.APIVersion)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "env", cfg.SecretsProvider)
	assert.Equal(t, "SALESFORCE", cfg.DefaultCredentialsRef)
}

func TestLoadFromEnvInvalidTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")
}

func TestLoadFromEnvNegativeTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "-3s")

	_, err := LoadFromEnv()
	require.Error(t, err)
}

func TestLoadFromEnvInvalidSecretsProvider(t *testing.T) {
	t.Setenv("SECRETS_PROVIDER", "vault")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRETS_PROVIDER")
}
