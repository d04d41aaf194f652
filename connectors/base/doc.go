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
Package base defines the capability interface and shared types for remote
CRM clients.

# Overview

The gateway talks to the remote platform exclusively through the CRMClient
interface, which exposes three operations:

  - TestConnection: authenticate and describe the organization and user
  - FetchLimits: authenticate and relay current API usage counters
  - ExecuteQuery: authenticate and relay a single query

Every operation is a single call-and-respond: one authentication attempt,
one remote operation, no retries, no state carried between calls. The
interface exists so the concrete Salesforce client can be replaced by a
test double returning canned responses.

# Error Classification

Failures carry one of four kinds, surfaced to HTTP callers as structured
responses:

  - validation: malformed or missing input, caught before any network call
  - auth: the remote platform rejected the credentials
  - network: transport-level failure reaching the platform
  - query: the remote platform rejected the submitted query

Use KindOf or IsKind to classify an error; Error supports errors.As and
errors.Is through Unwrap.

# Credential Hygiene

Credentials live for the duration of one request. The masking helpers in
security.go are the only sanctioned way to put credential-adjacent values
into logs.
*/
package base
