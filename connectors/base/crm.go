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
	"context"
	"errors"
	"regexp"
)

// Domain selects the remote platform deployment target
type Domain string

const (
	// DomainProduction targets the production login endpoint
	DomainProduction Domain = "production"
	// DomainSandbox targets the sandbox (test) login endpoint
	DomainSandbox Domain = "sandbox"
)

// securityTokenPattern matches the fixed 25-character alphanumeric token format
var securityTokenPattern = regexp.MustCompile(`^[A-Za-z0-9]{25}$`)

// Credentials holds the per-request authentication material for the remote
// CRM platform. Instances are constructed from caller input, passed down the
// call chain and discarded when the request completes; they are never
// persisted and never written to logs in clear.
type Credentials struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	SecurityToken string `json:"security_token"`
	Domain        Domain `json:"domain"`
}

// Validate checks presence and shape of the credential fields. It returns a
// validation-kind *Error describing the first problem found, before any
// network call is attempted. An empty domain is accepted and treated as
// production by the client.
func (c Credentials) Validate() error {
	if c.Username == "" {
		return NewError(ErrValidation, "Validate", "username is required", nil)
	}
	if c.Password == "" {
		return NewError(ErrValidation, "Validate", "password is required", nil)
	}
	if !securityTokenPattern.MatchString(c.SecurityToken) {
		return NewError(ErrValidation, "Validate",
			"security_token must be exactly 25 alphanumeric characters", nil)
	}
	switch c.Domain {
	case DomainProduction, DomainSandbox, "":
	default:
		return NewError(ErrValidation, "Validate",
			"domain must be \"production\" or \"sandbox\"", nil)
	}
	return nil
}

// EffectiveDomain resolves an empty domain to production
func (c Credentials) EffectiveDomain() Domain {
	if c.Domain == "" {
		return DomainProduction
	}
	return c.Domain
}

// OrgInfo describes the organization behind an authenticated session
type OrgInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// UserInfo describes the authenticated user
type UserInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// ConnectionResult is the outcome of a connection test
type ConnectionResult struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	OrgInfo  *OrgInfo  `json:"org_info,omitempty"`
	UserInfo *UserInfo `json:"user_info,omitempty"`
}

// LimitUsage reports consumption against a single platform limit.
// Used is never greater than Max on a successful relay.
type LimitUsage struct {
	Used int `json:"used"`
	Max  int `json:"max"`
}

// QueryResult contains the rows returned by a relayed query, in the order
// the remote platform produced them
type QueryResult struct {
	TotalSize int                      `json:"total_size"`
	Done      bool                     `json:"done"`
	Records   []map[string]interface{} `json:"records"`
}

// CRMClient is the capability interface for a remote CRM platform. Each
// operation authenticates with the supplied credentials, performs exactly one
// remote operation and returns, with no retry and no state carried across
// calls. Implementations may be replaced by test doubles returning canned
// responses.
type CRMClient interface {
	// TestConnection authenticates and returns organization/user descriptors
	TestConnection(ctx context.Context, creds Credentials) (*ConnectionResult, error)

	// FetchLimits authenticates and returns current API usage counters keyed
	// by limit name
	FetchLimits(ctx context.Context, creds Credentials) (map[string]LimitUsage, error)

	// ExecuteQuery authenticates, submits the query text and returns the
	// resulting rows
	ExecuteQuery(ctx context.Context, creds Credentials, soql string) (*QueryResult, error)
}

// ErrorKind distinguishes the failure classes surfaced to callers
type ErrorKind string

const (
	// ErrValidation marks malformed or missing input, caught before any
	// network call
	ErrValidation ErrorKind = "validation"
	// ErrAuth marks credentials rejected by the remote platform
	ErrAuth ErrorKind = "auth"
	// ErrNetwork marks a transport-level failure reaching the platform
	ErrNetwork ErrorKind = "network"
	// ErrQuery marks a query rejected by the remote platform
	ErrQuery ErrorKind = "query"
)

// Error represents a classified failure of a CRM client operation
type Error struct {
	Kind      ErrorKind
	Operation string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	msg := string(e.Kind) + "." + e.Operation + ": " + e.Message
	if e.Cause != nil {
		msg += " (cause: " + e.Cause.Error() + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a classified Error
func NewError(kind ErrorKind, operation, message string, cause error) *Error {
	return &Error{
		Kind:      kind,
		Operation: operation,
		Message:   message,
		Cause:     cause,
	}
}

// KindOf extracts the ErrorKind from err, or "" if err carries no kind
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
