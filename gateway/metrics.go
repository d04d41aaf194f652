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
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics
var (
	promRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sfgateway_requests_total",
			Help: "Total number of requests processed by the gateway",
		},
		[]string{"operation", "status"},
	)
	promRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sfgateway_request_duration_milliseconds",
			Help:    "Request duration in milliseconds",
			Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000, 10000},
		},
		[]string{"operation"},
	)
	promErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sfgateway_errors_total",
			Help: "Total number of error responses by error code",
		},
		[]string{"code"},
	)
)

func init() {
	prometheus.MustRegister(promRequestsTotal)
	prometheus.MustRegister(promRequestDuration)
	prometheus.MustRegister(promErrorsTotal)
}

// GatewayMetrics tracks per-operation request counts and latencies for the
// JSON metrics endpoint
type GatewayMetrics struct {
	mu        sync.RWMutex
	startTime time.Time

	totalRequests   int64
	successRequests int64
	failedRequests  int64

	operationMetrics map[string]*OperationMetrics
}

// OperationMetrics tracks metrics for a single gateway operation
type OperationMetrics struct {
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	Latencies       []int64
}

// NewGatewayMetrics creates an empty metrics collector
func NewGatewayMetrics() *GatewayMetrics {
	return &GatewayMetrics{
		startTime:        time.Now(),
		operationMetrics: make(map[string]*OperationMetrics),
	}
}

// Record registers one completed request for an operation
func (m *GatewayMetrics) Record(operation string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	promRequestsTotal.WithLabelValues(operation, status).Inc()
	promRequestDuration.WithLabelValues(operation).Observe(float64(duration.Milliseconds()))

	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRequests++
	if success {
		m.successRequests++
	} else {
		m.failedRequests++
	}

	om, exists := m.operationMetrics[operation]
	if !exists {
		om = &OperationMetrics{}
		m.operationMetrics[operation] = om
	}
	om.TotalRequests++
	if success {
		om.SuccessRequests++
	} else {
		om.FailedRequests++
	}
	om.Latencies = append(om.Latencies, duration.Milliseconds())
	// Keep a bounded window per operation
	if len(om.Latencies) > 1000 {
		om.Latencies = om.Latencies[len(om.Latencies)-1000:]
	}
}

// Handler serves the JSON metrics snapshot
func (m *GatewayMetrics) Handler(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()

	uptime := time.Since(m.startTime).Seconds()
	totalRequests := m.totalRequests
	successRequests := m.successRequests
	failedRequests := m.failedRequests

	operations := make(map[string]interface{})
	for op, om := range m.operationMetrics {
		operations[op] = map[string]interface{}{
			"total_requests":   om.TotalRequests,
			"success_requests": om.SuccessRequests,
			"failed_requests":  om.FailedRequests,
			"p50_ms":           percentile(om.Latencies, 50),
			"p95_ms":           percentile(om.Latencies, 95),
			"p99_ms":           percentile(om.Latencies, 99),
		}
	}
	m.mu.RUnlock()

	successRate := float64(100.0)
	if totalRequests > 0 {
		successRate = float64(successRequests) * 100.0 / float64(totalRequests)
	}
	rps := float64(totalRequests) / uptime

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"gateway_metrics": map[string]interface{}{
			"uptime_seconds":   uptime,
			"total_requests":   totalRequests,
			"success_requests": successRequests,
			"failed_requests":  failedRequests,
			"success_rate":     successRate,
			"rps":              rps,
		},
		"operations": operations,
		"timestamp":  time.Now().UTC(),
	}); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// percentile computes the p-th percentile of a latency sample in milliseconds
func percentile(latencies []int64, p int) float64 {
	if len(latencies) == 0 {
		return 0
	}

	sorted := make([]int64, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := (len(sorted)*p + 99) / 100
	if idx > 0 {
		idx--
	}
	return float64(sorted[idx])
}
