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

package salesforce

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"sfgateway/connectors/base"
)

const testToken = "AbCdEfGhIjKlMnOpQrStUvWx1"

func testCredentials(domain base.Domain) base.Credentials {
	return base.Credentials{
		Username:      "u@x.com",
		Password:      "p",
		SecurityToken: testToken,
		Domain:        domain,
	}
}

// fakeSalesforce is an httptest server that speaks just enough of the SOAP
// login and REST API for the client under test
type fakeSalesforce struct {
	server      *httptest.Server
	loginCalls  atomic.Int64
	queryCalls  atomic.Int64
	limitsCalls atomic.Int64

	rejectLogin  bool
	queryStatus  int
	queryBody    string
	limitsBody   string
	queryHandler func(q string) (int, string)
}

func newFakeSalesforce(t *testing.T) *fakeSalesforce {
	t.Helper()
	f := &fakeSalesforce{}

	mux := http.NewServeMux()
	mux.HandleFunc("/services/Soap/u/", func(w http.ResponseWriter, r *http.Request) {
		f.loginCalls.Add(1)
		if f.rejectLogin {
			w.Header().Set("Content-Type", "text/xml")
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
 <soapenv:Body>
  <soapenv:Fault>
   <faultcode>sf:INVALID_LOGIN</faultcode>
   <faultstring>INVALID_LOGIN: Invalid username, password, security token; or user locked out.</faultstring>
  </soapenv:Fault>
 </soapenv:Body>
</soapenv:Envelope>`)
			return
		}
		w.Header().Set("Content-Type", "text/xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns="urn:partner.soap.sforce.com">
 <soapenv:Body>
  <loginResponse>
   <result>
    <serverUrl>%s/services/Soap/u/59.0/00Dxx0000001gEH</serverUrl>
    <sessionId>SESSION123</sessionId>
    <userId>005xx000001X8Uz</userId>
    <userInfo>
     <organizationId>00Dxx0000001gEH</organizationId>
     <organizationName>Acme Corp</organizationName>
     <userEmail>u@x.com</userEmail>
     <userFullName>Test User</userFullName>
     <userName>u@x.com</userName>
    </userInfo>
   </result>
  </loginResponse>
 </soapenv:Body>
</soapenv:Envelope>`, f.server.URL)
	})
	mux.HandleFunc("/services/data/v59.0/query/", func(w http.ResponseWriter, r *http.Request) {
		f.queryCalls.Add(1)
		if auth := r.Header.Get("Authorization"); auth != "Bearer SESSION123" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `[{"message":"Session expired or invalid","errorCode":"INVALID_SESSION_ID"}]`)
			return
		}
		q := r.URL.Query().Get("q")
		if f.queryHandler != nil {
			status, body := f.queryHandler(q)
			w.WriteHeader(status)
			fmt.Fprint(w, body)
			return
		}
		status := f.queryStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		fmt.Fprint(w, f.queryBody)
	})
	mux.HandleFunc("/services/data/v59.0/limits/", func(w http.ResponseWriter, r *http.Request) {
		f.limitsCalls.Add(1)
		fmt.Fprint(w, f.limitsBody)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

// client returns a Client with both login domains pointed at the fake server
func (f *fakeSalesforce) client() *Client {
	return NewClient(ClientConfig{
		ProductionLoginURL: f.server.URL,
		SandboxLoginURL:    f.server.URL,
	})
}

func TestLoginURL(t *testing.T) {
	if got := LoginURL(base.DomainProduction); got != "https://login.salesforce.com" {
		t.Errorf("production login URL = %q", got)
	}
	if got := LoginURL(base.DomainSandbox); got != "https://test.salesforce.com" {
		t.Errorf("sandbox login URL = %q", got)
	}
	// Empty domain resolves like production
	if got := LoginURL(""); got != "https://login.salesforce.com" {
		t.Errorf("default login URL = %q", got)
	}
}

func TestClient_InvalidToken_NoNetworkCall(t *testing.T) {
	fake := newFakeSalesforce(t)
	client := fake.client()

	creds := testCredentials(base.DomainSandbox)
	creds.SecurityToken = "too-short"

	ctx := context.Background()
	if _, err := client.TestConnection(ctx, creds); !base.IsKind(err, base.ErrValidation) {
		t.Errorf("TestConnection kind = %q, want validation", base.KindOf(err))
	}
	if _, err := client.FetchLimits(ctx, creds); !base.IsKind(err, base.ErrValidation) {
		t.Errorf("FetchLimits kind = %q, want validation", base.KindOf(err))
	}
	if _, err := client.ExecuteQuery(ctx, creds, "SELECT Id FROM Account"); !base.IsKind(err, base.ErrValidation) {
		t.Errorf("ExecuteQuery kind = %q, want validation", base.KindOf(err))
	}

	if calls := fake.loginCalls.Load(); calls != 0 {
		t.Errorf("Expected zero login calls for invalid input, got %d", calls)
	}
}

func TestClient_TestConnection(t *testing.T) {
	fake := newFakeSalesforce(t)
	fake.queryBody = `{"totalSize":1,"done":true,"records":[{"attributes":{"type":"Organization"},"Id":"00Dxx0000001gEH","Name":"Acme Corp","OrganizationType":"Developer Edition"}]}`
	client := fake.client()

	result, err := client.TestConnection(context.Background(), testCredentials(base.DomainSandbox))
	if err != nil {
		t.Fatalf("TestConnection failed: %v", err)
	}

	if !result.Success {
		t.Error("Expected success")
	}
	if result.OrgInfo == nil || result.OrgInfo.Name != "Acme Corp" {
		t.Errorf("Unexpected org info: %+v", result.OrgInfo)
	}
	if result.OrgInfo.Type != "Developer Edition" {
		t.Errorf("Expected org type from describe query, got %q", result.OrgInfo.Type)
	}
	if result.UserInfo == nil || result.UserInfo.Username != "u@x.com" {
		t.Errorf("Unexpected user info: %+v", result.UserInfo)
	}

	if calls := fake.loginCalls.Load(); calls != 1 {
		t.Errorf("Expected exactly one login attempt, got %d", calls)
	}
}

func TestClient_TestConnection_DescribeFailureStillSucceeds(t *testing.T) {
	fake := newFakeSalesforce(t)
	fake.queryStatus = http.StatusBadRequest
	fake.queryBody = `[{"message":"no access","errorCode":"INSUFFICIENT_ACCESS"}]`
	client := fake.client()

	result, err := client.TestConnection(context.Background(), testCredentials(base.DomainProduction))
	if err != nil {
		t.Fatalf("TestConnection failed: %v", err)
	}

	// Falls back to the login response descriptors
	if result.OrgInfo.Name != "Acme Corp" {
		t.Errorf("Expected org name from login response, got %q", result.OrgInfo.Name)
	}
	if result.UserInfo.Name != "Test User" {
		t.Errorf("Expected user full name from login response, got %q", result.UserInfo.Name)
	}
}

func TestClient_AuthRejected(t *testing.T) {
	fake := newFakeSalesforce(t)
	fake.rejectLogin = true
	client := fake.client()

	_, err := client.TestConnection(context.Background(), testCredentials(base.DomainProduction))
	if !base.IsKind(err, base.ErrAuth) {
		t.Fatalf("Expected auth error, got %v (kind %q)", err, base.KindOf(err))
	}
	if !strings.Contains(err.Error(), "INVALID_LOGIN") {
		t.Errorf("Expected fault detail in message, got %q", err.Error())
	}
}

func TestClient_UnreachableNetwork(t *testing.T) {
	// Grab an address that refuses connections
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	client := NewClient(ClientConfig{
		ProductionLoginURL: deadURL,
		SandboxLoginURL:    deadURL,
	})

	_, err := client.TestConnection(context.Background(), testCredentials(base.DomainSandbox))
	if !base.IsKind(err, base.ErrNetwork) {
		t.Fatalf("Expected network error for unreachable host, got %v (kind %q)", err, base.KindOf(err))
	}
}

func TestClient_ExecuteQuery(t *testing.T) {
	fake := newFakeSalesforce(t)
	fake.queryHandler = func(q string) (int, string) {
		if q != "SELECT Id, Name FROM Account LIMIT 2" {
			return http.StatusBadRequest, `[{"message":"unexpected query","errorCode":"MALFORMED_QUERY"}]`
		}
		return http.StatusOK, `{"totalSize":2,"done":true,"records":[
			{"attributes":{"type":"Account"},"Id":"001A","Name":"First"},
			{"attributes":{"type":"Account"},"Id":"001B","Name":"Second"}]}`
	}
	client := fake.client()

	result, err := client.ExecuteQuery(context.Background(),
		testCredentials(base.DomainSandbox), "SELECT Id, Name FROM Account LIMIT 2")
	if err != nil {
		t.Fatalf("ExecuteQuery failed: %v", err)
	}

	if result.TotalSize != 2 || !result.Done {
		t.Errorf("Unexpected result meta: total=%d done=%v", result.TotalSize, result.Done)
	}
	if len(result.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(result.Records))
	}
	// Order preserved, attributes stripped
	if result.Records[0]["Id"] != "001A" || result.Records[1]["Id"] != "001B" {
		t.Errorf("Record order not preserved: %v", result.Records)
	}
	if _, ok := result.Records[0]["attributes"]; ok {
		t.Error("Expected attributes block to be stripped")
	}

	if calls := fake.loginCalls.Load(); calls != 1 {
		t.Errorf("Expected exactly one login attempt, got %d", calls)
	}
}

func TestClient_ExecuteQuery_Empty(t *testing.T) {
	fake := newFakeSalesforce(t)
	client := fake.client()

	for _, soql := range []string{"", "   ", "\n\t"} {
		_, err := client.ExecuteQuery(context.Background(), testCredentials(base.DomainSandbox), soql)
		if !base.IsKind(err, base.ErrQuery) {
			t.Errorf("ExecuteQuery(%q) kind = %q, want query", soql, base.KindOf(err))
		}
	}

	if calls := fake.loginCalls.Load(); calls != 0 {
		t.Errorf("Expected no network call for empty query, got %d logins", calls)
	}
}

func TestClient_ExecuteQuery_Rejected(t *testing.T) {
	fake := newFakeSalesforce(t)
	fake.queryStatus = http.StatusBadRequest
	fake.queryBody = `[{"message":"unexpected token: FORM","errorCode":"MALFORMED_QUERY"}]`
	client := fake.client()

	_, err := client.ExecuteQuery(context.Background(),
		testCredentials(base.DomainSandbox), "SELECT Id FORM Account")
	if !base.IsKind(err, base.ErrQuery) {
		t.Fatalf("Expected query error, got %v (kind %q)", err, base.KindOf(err))
	}
	if !strings.Contains(err.Error(), "MALFORMED_QUERY") {
		t.Errorf("Expected error code in message, got %q", err.Error())
	}
}

func TestClient_FetchLimits(t *testing.T) {
	fake := newFakeSalesforce(t)
	fake.limitsBody = `{
		"DailyApiRequests": {"Max": 15000, "Remaining": 14998},
		"DataStorageMB": {"Max": 5, "Remaining": 5},
		"HourlyODataCallout": {"Max": 1000, "Remaining": 1001},
		"DailyBulkApiBatches": {"Max": 100, "Remaining": -20}
	}`
	client := fake.client()

	limits, err := client.FetchLimits(context.Background(), testCredentials(base.DomainProduction))
	if err != nil {
		t.Fatalf("FetchLimits failed: %v", err)
	}

	if got := limits["DailyApiRequests"]; got.Used != 2 || got.Max != 15000 {
		t.Errorf("DailyApiRequests = %+v, want used=2 max=15000", got)
	}
	if got := limits["DataStorageMB"]; got.Used != 0 {
		t.Errorf("DataStorageMB used = %d, want 0", got.Used)
	}
	// An over-consumed soft limit reports a negative Remaining; used is
	// clamped to the maximum
	if got := limits["DailyBulkApiBatches"]; got.Used != 100 || got.Max != 100 {
		t.Errorf("DailyBulkApiBatches = %+v, want used=100 max=100", got)
	}

	// used <= max holds for every key, including counters the platform
	// reports with Remaining > Max or negative Remaining
	for name, usage := range limits {
		if usage.Used > usage.Max {
			t.Errorf("Limit %s violates used <= max: %+v", name, usage)
		}
	}

	if calls := fake.loginCalls.Load(); calls != 1 {
		t.Errorf("Expected exactly one login attempt, got %d", calls)
	}
}

func TestInstanceFromServerURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			name: "standard server URL",
			in:   "https://na139.salesforce.com/services/Soap/u/59.0/00Dxx",
			want: "https://na139.salesforce.com",
		},
		{
			name:    "empty",
			in:      "",
			wantErr: true,
		},
		{
			name:    "no scheme",
			in:      "na139.salesforce.com/services",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := instanceFromServerURL(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("instanceFromServerURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestXMLEscape(t *testing.T) {
	got := xmlEscape(`p<&>"word`)
	if strings.ContainsAny(got, "<>") {
		t.Errorf("Expected angle brackets escaped, got %q", got)
	}
	if !strings.Contains(got, "&amp;") {
		t.Errorf("Expected ampersand escaped, got %q", got)
	}
}
