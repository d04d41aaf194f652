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

package base

import (
	"errors"
	"strings"
	"testing"
)

const validToken = "AbCdEfGhIjKlMnOpQrStUvWx1" // 25 alphanumeric chars

func validCredentials() Credentials {
	return Credentials{
		Username:      "u@x.com",
		Password:      "p",
		SecurityToken: validToken,
		Domain:        DomainSandbox,
	}
}

func TestCredentials_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Credentials)
		wantErr bool
	}{
		{
			name:    "valid sandbox credentials",
			mutate:  func(c *Credentials) {},
			wantErr: false,
		},
		{
			name:    "valid production credentials",
			mutate:  func(c *Credentials) { c.Domain = DomainProduction },
			wantErr: false,
		},
		{
			name:    "empty domain accepted",
			mutate:  func(c *Credentials) { c.Domain = "" },
			wantErr: false,
		},
		{
			name:    "missing username",
			mutate:  func(c *Credentials) { c.Username = "" },
			wantErr: true,
		},
		{
			name:    "missing password",
			mutate:  func(c *Credentials) { c.Password = "" },
			wantErr: true,
		},
		{
			name:    "missing token",
			mutate:  func(c *Credentials) { c.SecurityToken = "" },
			wantErr: true,
		},
		{
			name:    "token too short",
			mutate:  func(c *Credentials) { c.SecurityToken = "abc123" },
			wantErr: true,
		},
		{
			name:    "token too long",
			mutate:  func(c *Credentials) { c.SecurityToken = validToken + "Z" },
			wantErr: true,
		},
		{
			name:    "token with non-alphanumeric character",
			mutate:  func(c *Credentials) { c.SecurityToken = strings.Replace(validToken, "C", "-", 1) },
			wantErr: true,
		},
		{
			name:    "unknown domain",
			mutate:  func(c *Credentials) { c.Domain = "staging" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := validCredentials()
			tt.mutate(&creds)

			err := creds.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected validation error, got nil")
				}
				if !IsKind(err, ErrValidation) {
					t.Errorf("Expected validation kind, got %q", KindOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected validation error: %v", err)
			}
		})
	}
}

func TestCredentials_EffectiveDomain(t *testing.T) {
	creds := Credentials{}
	if got := creds.EffectiveDomain(); got != DomainProduction {
		t.Errorf("Expected empty domain to resolve to production, got %q", got)
	}

	creds.Domain = DomainSandbox
	if got := creds.EffectiveDomain(); got != DomainSandbox {
		t.Errorf("Expected sandbox, got %q", got)
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *Error
		wantMsg string
	}{
		{
			name: "with cause",
			err: &Error{
				Kind:      ErrNetwork,
				Operation: "ExecuteQuery",
				Message:   "request failed",
				Cause:     errors.New("connection refused"),
			},
			wantMsg: "network.ExecuteQuery: request failed (cause: connection refused)",
		},
		{
			name: "without cause",
			err: &Error{
				Kind:      ErrAuth,
				Operation: "TestConnection",
				Message:   "invalid credentials",
			},
			wantMsg: "auth.TestConnection: invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewError(ErrNetwork, "FetchLimits", "request failed", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
}

func TestKindOf(t *testing.T) {
	if kind := KindOf(errors.New("plain")); kind != "" {
		t.Errorf("Expected empty kind for plain error, got %q", kind)
	}

	wrapped := NewError(ErrQuery, "ExecuteQuery", "malformed query", nil)
	if kind := KindOf(wrapped); kind != ErrQuery {
		t.Errorf("Expected query kind, got %q", kind)
	}

	// Kind survives wrapping
	outer := errors.Join(errors.New("outer"), wrapped)
	if !IsKind(outer, ErrQuery) {
		t.Error("Expected kind to survive wrapping")
	}
}
