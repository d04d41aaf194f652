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

// Package salesforce implements the remote CRM client against the
// Salesforce platform using security-token authentication.
package salesforce

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sfgateway/connectors/base"
	"sfgateway/shared/logger"
)

const (
	// DefaultAPIVersion is the Salesforce REST API version used for
	// query and limits calls
	DefaultAPIVersion = "59.0"
	// DefaultTimeout is the default outbound request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxResponseSize caps response bodies read from the platform (10MB)
	DefaultMaxResponseSize = 10 * 1024 * 1024

	productionLoginURL = "https://login.salesforce.com"
	sandboxLoginURL    = "https://test.salesforce.com"
)

// LoginURL returns the login host for a domain. Endpoint selection is a pure
// function of the domain field: production maps to login.salesforce.com,
// sandbox to test.salesforce.com.
func LoginURL(domain base.Domain) string {
	if domain == base.DomainSandbox {
		return sandboxLoginURL
	}
	return productionLoginURL
}

// ClientConfig configures a Client. The zero value gives production defaults.
type ClientConfig struct {
	// APIVersion overrides DefaultAPIVersion
	APIVersion string
	// Timeout overrides DefaultTimeout
	Timeout time.Duration
	// MaxResponseSize overrides DefaultMaxResponseSize
	MaxResponseSize int64
	// ProductionLoginURL / SandboxLoginURL override the platform login hosts.
	// Used by tests to point the client at a local server.
	ProductionLoginURL string
	SandboxLoginURL    string
	// HTTPClient overrides the built-in pooled client
	HTTPClient *http.Client
}

// Client relays operations to the Salesforce platform. It holds no session
// state: every operation authenticates with the credentials it is handed and
// discards the session when the call returns. Safe for concurrent use.
type Client struct {
	apiVersion      string
	maxResponseSize int64
	loginURLs       map[base.Domain]string
	httpClient      *http.Client
	log             *logger.Logger
}

// NewClient creates a Salesforce client
func NewClient(cfg ClientConfig) *Client {
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	maxSize := cfg.MaxResponseSize
	if maxSize <= 0 {
		maxSize = DefaultMaxResponseSize
	}

	prodURL := cfg.ProductionLoginURL
	if prodURL == "" {
		prodURL = productionLoginURL
	}
	sandboxURL := cfg.SandboxLoginURL
	if sandboxURL == "" {
		sandboxURL = sandboxLoginURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				MaxIdleConns:    100,
				MaxConnsPerHost: 10,
				IdleConnTimeout: 90 * time.Second,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
			},
		}
	}

	return &Client{
		apiVersion:      apiVersion,
		maxResponseSize: maxSize,
		loginURLs: map[base.Domain]string{
			base.DomainProduction: strings.TrimSuffix(prodURL, "/"),
			base.DomainSandbox:    strings.TrimSuffix(sandboxURL, "/"),
		},
		httpClient: httpClient,
		log:        logger.New("salesforce"),
	}
}

var _ base.CRMClient = (*Client)(nil)

// session holds the result of one login call. It lives for the duration of a
// single gateway request and is never cached.
type session struct {
	sessionID   string
	instanceURL string
	userID      string
	orgID       string
	orgName     string
	userName    string
	userEmail   string
	userFull    string
}

// TestConnection authenticates and returns organization/user descriptors.
// Organization details are enriched with a describe query when possible;
// enrichment failures do not fail the connection test.
func (c *Client) TestConnection(ctx context.Context, creds base.Credentials) (*base.ConnectionResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	sess, err := c.login(ctx, creds)
	if err != nil {
		return nil, err
	}

	result := &base.ConnectionResult{
		Success: true,
		Message: "Connected to Salesforce",
		OrgInfo: &base.OrgInfo{
			ID:   sess.orgID,
			Name: sess.orgName,
		},
		UserInfo: &base.UserInfo{
			ID:       sess.userID,
			Name:     sess.userFull,
			Email:    sess.userEmail,
			Username: sess.userName,
		},
	}

	// Best-effort enrichment: the login response has no organization type,
	// so describe the org with a query. Matches the behavior of relaying
	// the raw platform descriptors rather than synthesizing them.
	if org, err := c.restQuery(ctx, sess, "SELECT Id, Name, OrganizationType FROM Organization LIMIT 1"); err == nil && len(org.Records) > 0 {
		rec := org.Records[0]
		if id, ok := rec["Id"].(string); ok {
			result.OrgInfo.ID = id
		}
		if name, ok := rec["Name"].(string); ok {
			result.OrgInfo.Name = name
		}
		if orgType, ok := rec["OrganizationType"].(string); ok {
			result.OrgInfo.Type = orgType
		}
	} else if err != nil {
		c.log.Warn(base.RequestIDFromContext(ctx), "Organization describe failed, using login descriptors",
			map[string]interface{}{"error": err.Error()})
	}

	return result, nil
}

// FetchLimits authenticates and relays the platform's API usage counters
func (c *Client) FetchLimits(ctx context.Context, creds base.Credentials) (map[string]base.LimitUsage, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	sess, err := c.login(ctx, creds)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/services/data/v%s/limits/", sess.instanceURL, c.apiVersion)
	body, status, err := c.restGET(ctx, sess, endpoint)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.classifyRESTError("FetchLimits", status, body)
	}

	var raw map[string]struct {
		Max       int `json:"Max"`
		Remaining int `json:"Remaining"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, base.NewError(base.ErrNetwork, "FetchLimits", "malformed limits response", err)
	}

	limits := make(map[string]base.LimitUsage, len(raw))
	for name, counter := range raw {
		// The platform can report Remaining > Max or a negative Remaining
		// for over-consumed soft limits; clamp so used stays within [0, Max].
		used := counter.Max - counter.Remaining
		if used < 0 {
			used = 0
		}
		if used > counter.Max {
			used = counter.Max
		}
		limits[name] = base.LimitUsage{Used: used, Max: counter.Max}
	}

	c.log.Info(base.RequestIDFromContext(ctx), "Fetched API limits",
		map[string]interface{}{"limit_count": len(limits)})

	return limits, nil
}

// ExecuteQuery authenticates and submits one SOQL query
func (c *Client) ExecuteQuery(ctx context.Context, creds base.Credentials, soql string) (*base.QueryResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(soql) == "" {
		return nil, base.NewError(base.ErrQuery, "ExecuteQuery", "query text is empty", nil)
	}

	sess, err := c.login(ctx, creds)
	if err != nil {
		return nil, err
	}

	result, err := c.restQuery(ctx, sess, soql)
	if err != nil {
		return nil, err
	}

	c.log.Info(base.RequestIDFromContext(ctx), "Query executed", map[string]interface{}{
		"soql":       base.SanitizeLogString(soql),
		"total_size": result.TotalSize,
	})

	return result, nil
}

// restQuery runs one SOQL query over the REST query endpoint
func (c *Client) restQuery(ctx context.Context, sess *session, soql string) (*base.QueryResult, error) {
	endpoint := fmt.Sprintf("%s/services/data/v%s/query/?q=%s",
		sess.instanceURL, c.apiVersion, url.QueryEscape(soql))

	body, status, err := c.restGET(ctx, sess, endpoint)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.classifyRESTError("ExecuteQuery", status, body)
	}

	var raw struct {
		TotalSize int                      `json:"totalSize"`
		Done      bool                     `json:"done"`
		Records   []map[string]interface{} `json:"records"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, base.NewError(base.ErrNetwork, "ExecuteQuery", "malformed query response", err)
	}

	// Strip the per-record attributes block; callers get plain row maps
	records := make([]map[string]interface{}, 0, len(raw.Records))
	for _, rec := range raw.Records {
		delete(rec, "attributes")
		records = append(records, rec)
	}

	return &base.QueryResult{
		TotalSize: raw.TotalSize,
		Done:      raw.Done,
		Records:   records,
	}, nil
}

// restGET performs one authenticated GET against the instance REST API
func (c *Client) restGET(ctx context.Context, sess *session, endpoint string) ([]byte, int, error) {
	outcome := "error"
	defer func() { promSalesforceCalls.WithLabelValues("rest", outcome).Inc() }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, base.NewError(base.ErrNetwork, "restGET", "failed to create request", err)
	}

	req.Header.Set("Authorization", "Bearer "+sess.sessionID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "SFGateway/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, base.NewError(base.ErrNetwork, "restGET", "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, 0, base.NewError(base.ErrNetwork, "restGET", "failed to read response", err)
	}
	if int64(len(body)) > c.maxResponseSize {
		return nil, 0, base.NewError(base.ErrNetwork, "restGET",
			fmt.Sprintf("response size exceeds limit of %d bytes", c.maxResponseSize), nil)
	}

	if resp.StatusCode == http.StatusOK {
		outcome = "success"
	}
	return body, resp.StatusCode, nil
}

// restError is the error body shape of the Salesforce REST API
type restError struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

// classifyRESTError maps a non-200 REST response to an error kind. Session
// and auth problems map to auth, everything else the platform reports about
// the request itself maps to query.
func (c *Client) classifyRESTError(operation string, status int, body []byte) error {
	var apiErrors []restError
	_ = json.Unmarshal(body, &apiErrors)

	message := fmt.Sprintf("HTTP %d", status)
	code := ""
	if len(apiErrors) > 0 {
		code = apiErrors[0].ErrorCode
		message = apiErrors[0].Message
		if code != "" {
			message = code + ": " + message
		}
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden ||
		code == "INVALID_SESSION_ID" {
		return base.NewError(base.ErrAuth, operation, message, nil)
	}
	if status >= 500 {
		return base.NewError(base.ErrNetwork, operation, message, nil)
	}
	return base.NewError(base.ErrQuery, operation, message, nil)
}
