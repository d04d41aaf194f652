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

// Package main is the entry point for the Salesforce connection gateway.
//
// The gateway is a stateless HTTP service that:
// - Validates Salesforce credentials before any network call
// - Tests connections and reports org and user details
// - Fetches API limit usage
// - Relays SOQL queries and returns their records
// - Serves a catalog of sample queries and Swagger documentation
//
// Usage:
//
//	./gateway
//
// Environment Variables:
//
//	PORT - HTTP server port (default: 8080)
//	CONFIG_FILE - optional YAML config file overlaid on the environment
//	SALESFORCE_API_VERSION - Salesforce REST API version (default: 59.0)
//	REQUEST_TIMEOUT - outbound call timeout (default: 30s)
//	CORS_ALLOWED_ORIGINS - comma-separated origins (default: *)
//	SECRETS_PROVIDER - aws, env or none (default: none)
//	DEFAULT_CREDENTIALS_REF - secret holding the default credential profile
//	AWS_REGION - region for the aws secrets provider
//	LOG_LEVEL - DEBUG, INFO, WARN or ERROR (default: INFO)
package main

import (
	"sfgateway/gateway"
)

//	@title			Salesforce Connection Gateway API
//	@version		1.0.0
//	@description	Validates Salesforce credentials and relays connection tests, API limit lookups and SOQL queries.
//	@BasePath		/

func main() {
	gateway.Run()
}
