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
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"sfgateway/connectors/base"
	"sfgateway/shared/logger"
)

// maxRequestBody caps inbound JSON bodies at 1 MB
const maxRequestBody = 1 << 20

// DefaultCredentialsFunc resolves the optional server-side default credential
// profile. It returns false when no profile is configured or resolvable.
type DefaultCredentialsFunc func(ctx context.Context) (base.Credentials, bool)

// SalesforceHandler serves the /api/v1/salesforce endpoints. Each request
// carries its own credentials; the handler validates them, relays exactly one
// platform operation and shapes the response. Nothing is stored between
// requests.
type SalesforceHandler struct {
	service  base.CRMClient
	defaults DefaultCredentialsFunc
	metrics  *GatewayMetrics
	log      *logger.Logger
}

// NewSalesforceHandler creates a handler backed by the given CRM client.
// defaults may be nil when no server-side credential profile is configured.
func NewSalesforceHandler(service base.CRMClient, metrics *GatewayMetrics, defaults DefaultCredentialsFunc) *SalesforceHandler {
	return &SalesforceHandler{
		service:  service,
		defaults: defaults,
		metrics:  metrics,
		log:      logger.New("gateway"),
	}
}

// RegisterRoutes mounts the Salesforce endpoints on the router
func (h *SalesforceHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/v1/salesforce/test-connection", h.handleTestConnection).Methods("POST")
	r.HandleFunc("/api/v1/salesforce/limits", h.handleLimits).Methods("POST")
	r.HandleFunc("/api/v1/salesforce/query", h.handleQuery).Methods("POST")
	r.HandleFunc("/api/v1/salesforce/sample-queries", h.handleSampleQueries).Methods("GET")
}

// handleTestConnection godoc
//
//	@Summary		Test a Salesforce connection
//	@Description	Authenticates with the supplied credentials and returns org and user details on success.
//	@Tags			salesforce
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		base.Credentials	true	"Salesforce credentials"
//	@Success		200			{object}	base.ConnectionResult
//	@Failure		400			{object}	APIError
//	@Failure		401			{object}	APIError
//	@Failure		502			{object}	APIError
//	@Router			/api/v1/salesforce/test-connection [post]
func (h *SalesforceHandler) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, requestID := h.requestContext(r)
	w.Header().Set("X-Request-ID", requestID)

	var creds base.Credentials
	if !h.decodeBody(w, r, requestID, "test_connection", start, &creds) {
		return
	}

	creds = h.applyDefaults(ctx, creds)
	if err := creds.Validate(); err != nil {
		h.writeOperationError(w, requestID, "test_connection", err, start)
		return
	}

	result, err := h.service.TestConnection(ctx, creds)
	if err != nil {
		h.writeOperationError(w, requestID, "test_connection", err, start)
		return
	}

	h.log.InfoWithDuration(requestID, "Connection test completed", msSince(start), map[string]interface{}{
		"username": base.MaskUsername(creds.Username),
		"success":  result.Success,
	})
	h.metrics.Record("test_connection", true, time.Since(start))
	h.writeJSON(w, http.StatusOK, result)
}

// handleLimits godoc
//
//	@Summary		Fetch Salesforce API limits
//	@Description	Authenticates and returns per-limit used and maximum counts.
//	@Tags			salesforce
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		base.Credentials	true	"Salesforce credentials"
//	@Success		200			{object}	LimitsResponse
//	@Failure		400			{object}	APIError
//	@Failure		401			{object}	APIError
//	@Failure		502			{object}	APIError
//	@Router			/api/v1/salesforce/limits [post]
func (h *SalesforceHandler) handleLimits(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, requestID := h.requestContext(r)
	w.Header().Set("X-Request-ID", requestID)

	var creds base.Credentials
	if !h.decodeBody(w, r, requestID, "fetch_limits", start, &creds) {
		return
	}

	creds = h.applyDefaults(ctx, creds)
	if err := creds.Validate(); err != nil {
		h.writeOperationError(w, requestID, "fetch_limits", err, start)
		return
	}

	limits, err := h.service.FetchLimits(ctx, creds)
	if err != nil {
		h.writeOperationError(w, requestID, "fetch_limits", err, start)
		return
	}

	h.log.InfoWithDuration(requestID, "Limits fetched", msSince(start), map[string]interface{}{
		"username": base.MaskUsername(creds.Username),
		"count":    len(limits),
	})
	h.metrics.Record("fetch_limits", true, time.Since(start))
	h.writeJSON(w, http.StatusOK, LimitsResponse{Success: true, Limits: limits})
}

// handleQuery godoc
//
//	@Summary		Execute a SOQL query
//	@Description	Authenticates, relays the query unchanged and returns the records.
//	@Tags			salesforce
//	@Accept			json
//	@Produce		json
//	@Param			request	body		QueryRequest	true	"Query and credentials"
//	@Success		200		{object}	QueryResponse
//	@Failure		400		{object}	APIError
//	@Failure		401		{object}	APIError
//	@Failure		502		{object}	APIError
//	@Router			/api/v1/salesforce/query [post]
func (h *SalesforceHandler) handleQuery(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, requestID := h.requestContext(r)
	w.Header().Set("X-Request-ID", requestID)

	var req QueryRequest
	if !h.decodeBody(w, r, requestID, "execute_query", start, &req) {
		return
	}

	req.Credentials = h.applyDefaults(ctx, req.Credentials)
	if err := req.Credentials.Validate(); err != nil {
		h.writeOperationError(w, requestID, "execute_query", err, start)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		err := base.NewError(base.ErrQuery, "ExecuteQuery", "query text is empty", nil)
		h.writeOperationError(w, requestID, "execute_query", err, start)
		return
	}

	result, err := h.service.ExecuteQuery(ctx, req.Credentials, req.Query)
	if err != nil {
		h.writeOperationError(w, requestID, "execute_query", err, start)
		return
	}

	h.log.InfoWithDuration(requestID, "Query relayed", msSince(start), map[string]interface{}{
		"username":   base.MaskUsername(req.Credentials.Username),
		"soql":       base.SanitizeLogString(req.Query),
		"total_size": result.TotalSize,
	})
	h.metrics.Record("execute_query", true, time.Since(start))
	h.writeJSON(w, http.StatusOK, QueryResponse{Success: true, Query: req.Query, Result: result})
}

// handleSampleQueries godoc
//
//	@Summary		List sample SOQL queries
//	@Description	Returns a fixed catalog of ready-to-run queries. No credentials required.
//	@Tags			salesforce
//	@Produce		json
//	@Success		200	{object}	SampleQueriesResponse
//	@Router			/api/v1/salesforce/sample-queries [get]
func (h *SalesforceHandler) handleSampleQueries(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	_, requestID := h.requestContext(r)
	w.Header().Set("X-Request-ID", requestID)

	h.metrics.Record("sample_queries", true, time.Since(start))
	h.writeJSON(w, http.StatusOK, SampleQueriesResponse{SampleQueries: SampleQueries()})
}

// requestContext picks up the caller's request ID or mints a new one, and
// threads it through the context for downstream logging
func (h *SalesforceHandler) requestContext(r *http.Request) (context.Context, string) {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return base.WithRequestID(r.Context(), requestID), requestID
}

// decodeBody parses a capped JSON request body into dst. On failure it writes
// the validation error response and returns false.
func (h *SalesforceHandler) decodeBody(w http.ResponseWriter, r *http.Request, requestID, operation string, start time.Time, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.log.Warn(requestID, "Rejected malformed request body", map[string]interface{}{
			"operation": operation,
			"error":     base.SanitizeLogString(err.Error()),
		})
		h.metrics.Record(operation, false, time.Since(start))
		promErrorsTotal.WithLabelValues("VALIDATION_ERROR").Inc()
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return false
	}
	return true
}

// applyDefaults fills credential fields the caller omitted from the
// server-side default profile. Caller-supplied fields always win.
func (h *SalesforceHandler) applyDefaults(ctx context.Context, creds base.Credentials) base.Credentials {
	if h.defaults == nil {
		return creds
	}
	if creds.Username != "" && creds.Password != "" && creds.SecurityToken != "" && creds.Domain != "" {
		return creds
	}

	profile, ok := h.defaults(ctx)
	if !ok {
		return creds
	}

	if creds.Username == "" {
		creds.Username = profile.Username
	}
	if creds.Password == "" {
		creds.Password = profile.Password
	}
	if creds.SecurityToken == "" {
		creds.SecurityToken = profile.SecurityToken
	}
	if creds.Domain == "" {
		creds.Domain = profile.Domain
	}
	return creds
}

// writeOperationError maps a classified error onto its HTTP response, records
// metrics and logs the failure
func (h *SalesforceHandler) writeOperationError(w http.ResponseWriter, requestID, operation string, err error, start time.Time) {
	status, code := errorStatus(err)

	h.log.ErrorWithCode(requestID, "Operation failed", status, err, map[string]interface{}{
		"operation": operation,
		"code":      code,
	})
	h.metrics.Record(operation, false, time.Since(start))
	promErrorsTotal.WithLabelValues(code).Inc()
	h.writeError(w, status, code, errorMessage(err))
}

// errorStatus maps an error kind onto its HTTP status and stable code
func errorStatus(err error) (int, string) {
	switch base.KindOf(err) {
	case base.ErrValidation:
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case base.ErrAuth:
		return http.StatusUnauthorized, "AUTH_FAILED"
	case base.ErrQuery:
		return http.StatusBadRequest, "QUERY_REJECTED"
	case base.ErrNetwork:
		return http.StatusBadGateway, "NETWORK_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// errorMessage extracts the classified message without the wrapped cause
// chain, which may reference internal hosts
func errorMessage(err error) string {
	var e *base.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

func (h *SalesforceHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func (h *SalesforceHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, APIError{
		Error: APIErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
