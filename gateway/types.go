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

package gateway

import (
	"time"

	"sfgateway/connectors/base"
)

// QueryRequest is the body of POST /api/v1/salesforce/query
type QueryRequest struct {
	Query       string           `json:"query"`
	Credentials base.Credentials `json:"credentials"`
}

// LimitsResponse is the body of a successful limits call
type LimitsResponse struct {
	Success bool                       `json:"success"`
	Limits  map[string]base.LimitUsage `json:"limits"`
}

// QueryResponse is the body of a successful query call. Query echoes the
// statement that was executed.
type QueryResponse struct {
	Success bool              `json:"success"`
	Query   string            `json:"query"`
	Result  *base.QueryResult `json:"result"`
}

// SampleQuery describes one ready-to-run SOQL statement
type SampleQuery struct {
	Name        string `json:"name"`
	Query       string `json:"query"`
	Description string `json:"description"`
}

// SampleQueriesResponse is the body of GET /api/v1/salesforce/sample-queries
type SampleQueriesResponse struct {
	SampleQueries []SampleQuery `json:"sample_queries"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status     string          `json:"status"`
	Service    string          `json:"service"`
	Version    string          `json:"version"`
	Timestamp  time.Time       `json:"timestamp"`
	Components map[string]bool `json:"components"`
}

// APIError is the error envelope returned by every failing endpoint
type APIError struct {
	Error APIErrorDetail `json:"error"`
}

// APIErrorDetail carries a stable machine readable code plus a human message
type APIErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
