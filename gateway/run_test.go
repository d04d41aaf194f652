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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sfgateway/connectors/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	srv, err := NewServer(context.Background(), &config.GatewayConfig{
		Port:            "0",
		APIVersion:      "59.0",
		Timeout:         5 * time.Second,
		AllowedOrigins:  []string{"*"},
		SecretsProvider: "none",
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return srv
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Expected status healthy, got %s", resp.Status)
	}
	if resp.Service != serviceName {
		t.Errorf("Expected service %s, got %s", serviceName, resp.Service)
	}
	if !resp.Components["salesforce_client"] {
		t.Error("Expected salesforce_client component to be healthy")
	}
}

func TestHealthRejectsPost(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if _, ok := resp["gateway_metrics"]; !ok {
		t.Error("Expected gateway_metrics in response")
	}
}

func TestPrometheusEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/prometheus", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestSampleQueriesRoute(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/salesforce/sample-queries", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp SampleQueriesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.SampleQueries) != len(sampleQueries) {
		t.Errorf("Expected %d sample queries, got %d", len(sampleQueries), len(resp.SampleQueries))
	}
}

func TestGatewayMetricsRecord(t *testing.T) {
	m := NewGatewayMetrics()
	m.Record("test_connection", true, 12*time.Millisecond)
	m.Record("test_connection", false, 40*time.Millisecond)
	m.Record("execute_query", true, 5*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler(w, req)

	var resp struct {
		GatewayMetrics struct {
			TotalRequests   int64 `json:"total_requests"`
			SuccessRequests int64 `json:"success_requests"`
			FailedRequests  int64 `json:"failed_requests"`
		} `json:"gateway_metrics"`
		Operations map[string]map[string]interface{} `json:"operations"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.GatewayMetrics.TotalRequests != 3 {
		t.Errorf("Expected 3 total requests, got %d", resp.GatewayMetrics.TotalRequests)
	}
	if resp.GatewayMetrics.SuccessRequests != 2 || resp.GatewayMetrics.FailedRequests != 1 {
		t.Errorf("Unexpected success/failure split: %+v", resp.GatewayMetrics)
	}
	if _, ok := resp.Operations["test_connection"]; !ok {
		t.Error("Expected per-operation metrics for test_connection")
	}
}

func TestPercentile(t *testing.T) {
	latencies := []int64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	if got := percentile(latencies, 50); got != 50 {
		t.Errorf("p50 = %v, want 50", got)
	}
	if got := percentile(latencies, 99); got != 100 {
		t.Errorf("p99 = %v, want 100", got)
	}
	if got := percentile(nil, 95); got != 0 {
		t.Errorf("empty sample p95 = %v, want 0", got)
	}
}
