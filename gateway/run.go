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
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"sfgateway/connectors/base"
	"sfgateway/connectors/config"
	"sfgateway/connectors/salesforce"
	_ "sfgateway/docs" // swagger definitions
)

const (
	serviceName    = "sfgateway"
	serviceVersion = "1.0.0"
)

// Server bundles the gateway's wired components
type Server struct {
	cfg      *config.GatewayConfig
	handler  *SalesforceHandler
	metrics  *GatewayMetrics
	secrets  config.SecretsManager
	router   *mux.Router
}

// NewServer wires the gateway from its configuration
func NewServer(ctx context.Context, cfg *config.GatewayConfig) (*Server, error) {
	secrets, err := config.NewSecretsManager(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := salesforce.NewClient(salesforce.ClientConfig{
		APIVersion: cfg.APIVersion,
		Timeout:    cfg.Timeout,
	})

	var defaults DefaultCredentialsFunc
	if secrets != nil && cfg.DefaultCredentialsRef != "" {
		ref := cfg.DefaultCredentialsRef
		sm := secrets
		defaults = func(ctx context.Context) (base.Credentials, bool) {
			return config.DefaultCredentials(ctx, sm, ref)
		}
	}

	metrics := NewGatewayMetrics()
	handler := NewSalesforceHandler(client, metrics, defaults)

	s := &Server{
		cfg:     cfg,
		handler: handler,
		metrics: metrics,
		secrets: secrets,
	}
	s.router = s.buildRouter()
	return s, nil
}

// buildRouter mounts every endpoint on a fresh router
func (s *Server) buildRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.healthHandler).Methods("GET")

	r.HandleFunc("/metrics", s.metrics.Handler).Methods("GET")
	r.Handle("/prometheus", promhttp.Handler()).Methods("GET")

	s.handler.RegisterRoutes(r)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	return r
}

// Handler returns the fully wired HTTP handler including CORS middleware
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// healthHandler godoc
//
//	@Summary	Service health
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Version:   serviceVersion,
		Timestamp: time.Now().UTC(),
		Components: map[string]bool{
			"salesforce_client": true,
			"secrets_manager":   s.secrets != nil,
		},
	}

	s.handler.writeJSON(w, http.StatusOK, health)
}

// Run loads the configuration, wires the gateway and serves HTTP until the
// process exits.
//
// Environment variables:
//   - PORT: HTTP server port (default: 8080)
//   - CONFIG_FILE: optional YAML config file overlaid on the environment
//   - SALESFORCE_API_VERSION: Salesforce REST API version (default: 59.0)
//   - REQUEST_TIMEOUT: outbound call timeout (default: 30s)
//   - CORS_ALLOWED_ORIGINS: comma-separated origins (default: *)
//   - SECRETS_PROVIDER: aws, env or none (default: none)
//   - DEFAULT_CREDENTIALS_REF: secret holding the default credential profile
//   - AWS_REGION: region for the aws secrets provider
//   - LOG_LEVEL: DEBUG, INFO, WARN or ERROR (default: INFO)
func Run() {
	log.Printf("Starting %s...", serviceName)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := config.LoadFile(path, cfg); err != nil {
			log.Fatalf("Config file error: %v", err)
		}
	}

	srv, err := NewServer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Startup error: %v", err)
	}

	log.Printf("%s listening on port %s", serviceName, cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, srv.Handler()))
}
