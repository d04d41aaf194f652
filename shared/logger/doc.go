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

/*
Package logger provides structured JSON logging for the gateway.

# Overview

The logger package outputs single-line JSON to stdout, making logs easily
consumable by CloudWatch, ELK stack, or other log aggregation systems.

Each log entry includes:
  - Timestamp (RFC3339Nano format)
  - Log level (DEBUG, INFO, WARN, ERROR)
  - Component name (gateway, salesforce, config)
  - Request ID (for request correlation)
  - Custom fields

Credential material must never be passed in fields; use the masking helpers
in connectors/base when a credential-adjacent value has to be logged.

# Usage

Create a logger for your component:

	log := logger.New("gateway")

Log messages with request context:

	log.Info("req-456", "Processing request", map[string]interface{}{
	    "method": "POST",
	    "path":   "/api/v1/salesforce/query",
	})

Log errors with status codes:

	log.ErrorWithCode("req-456", "Request failed", 502, err, nil)

# Environment Variables

  - LOG_LEVEL: minimum level to emit (DEBUG, INFO, WARN, ERROR; default INFO)

# Thread Safety

Logger instances are safe for concurrent use from multiple goroutines.
*/
package logger
