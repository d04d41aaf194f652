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
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"sfgateway/connectors/base"
)

// Security-token login goes through the SOAP partner API: password and token
// are concatenated, the response carries the session id plus the instance
// server URL used for subsequent REST calls.

const loginEnvelopeTemplate = `<?xml version="1.0" encoding="utf-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:urn="urn:partner.soap.sforce.com">
  <soapenv:Body>
    <urn:login>
      <urn:username>%s</urn:username>
      <urn:password>%s</urn:password>
    </urn:login>
  </soapenv:Body>
</soapenv:Envelope>`

// loginEnvelope mirrors the SOAP login response. Element matching is by
// local name, so namespace prefixes in the response are irrelevant.
type loginEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		LoginResponse *struct {
			Result loginResult `xml:"result"`
		} `xml:"loginResponse"`
		Fault *soapFault `xml:"Fault"`
	} `xml:"Body"`
}

type loginResult struct {
	ServerURL string `xml:"serverUrl"`
	SessionID string `xml:"sessionId"`
	UserID    string `xml:"userId"`
	UserInfo  struct {
		OrganizationID   string `xml:"organizationId"`
		OrganizationName string `xml:"organizationName"`
		UserEmail        string `xml:"userEmail"`
		UserFullName     string `xml:"userFullName"`
		UserName         string `xml:"userName"`
	} `xml:"userInfo"`
}

type soapFault struct {
	FaultCode   string `xml:"faultcode"`
	FaultString string `xml:"faultstring"`
}

// login performs exactly one authentication attempt against the login host
// selected by the credential domain. There is no retry and no token caching;
// each gateway request authenticates independently.
func (c *Client) login(ctx context.Context, creds base.Credentials) (*session, error) {
	sess, err := c.doLogin(ctx, creds)
	if err != nil {
		promSalesforceCalls.WithLabelValues("login", "error").Inc()
		return nil, err
	}
	promSalesforceCalls.WithLabelValues("login", "success").Inc()
	return sess, nil
}

func (c *Client) doLogin(ctx context.Context, creds base.Credentials) (*session, error) {
	loginHost := c.loginURLs[creds.EffectiveDomain()]
	endpoint := fmt.Sprintf("%s/services/Soap/u/%s", loginHost, c.apiVersion)

	envelope := fmt.Sprintf(loginEnvelopeTemplate,
		xmlEscape(creds.Username),
		xmlEscape(creds.Password+creds.SecurityToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		bytes.NewReader([]byte(envelope)))
	if err != nil {
		return nil, base.NewError(base.ErrNetwork, "login", "failed to create login request", err)
	}

	req.Header.Set("Content-Type", "text/xml; charset=UTF-8")
	req.Header.Set("SOAPAction", "login")
	req.Header.Set("User-Agent", "SFGateway/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, base.NewError(base.ErrNetwork, "login", "login endpoint unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, base.NewError(base.ErrNetwork, "login", "failed to read login response", err)
	}
	if int64(len(body)) > c.maxResponseSize {
		return nil, base.NewError(base.ErrNetwork, "login", "login response too large", nil)
	}

	var parsed loginEnvelope
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, base.NewError(base.ErrNetwork, "login",
			fmt.Sprintf("unparseable login response (HTTP %d)", resp.StatusCode), err)
	}

	if parsed.Body.Fault != nil {
		fault := parsed.Body.Fault
		// Login faults are credential rejections (INVALID_LOGIN,
		// LOGIN_MUST_USE_SECURITY_TOKEN, org locked, ...)
		return nil, base.NewError(base.ErrAuth, "login",
			fmt.Sprintf("%s: %s", fault.FaultCode, fault.FaultString), nil)
	}

	if parsed.Body.LoginResponse == nil || parsed.Body.LoginResponse.Result.SessionID == "" {
		return nil, base.NewError(base.ErrNetwork, "login",
			fmt.Sprintf("login response missing session (HTTP %d)", resp.StatusCode), nil)
	}

	result := parsed.Body.LoginResponse.Result

	instanceURL, err := instanceFromServerURL(result.ServerURL)
	if err != nil {
		return nil, base.NewError(base.ErrNetwork, "login", "invalid server URL in login response", err)
	}

	c.log.Debug(base.RequestIDFromContext(ctx), "Login succeeded", map[string]interface{}{
		"username": base.MaskUsername(creds.Username),
		"domain":   string(creds.EffectiveDomain()),
		"instance": instanceURL,
	})

	return &session{
		sessionID:   result.SessionID,
		instanceURL: instanceURL,
		userID:      result.UserID,
		orgID:       result.UserInfo.OrganizationID,
		orgName:     result.UserInfo.OrganizationName,
		userName:    result.UserInfo.UserName,
		userEmail:   result.UserInfo.UserEmail,
		userFull:    result.UserInfo.UserFullName,
	}, nil
}

// instanceFromServerURL reduces the SOAP server URL to the instance origin
func instanceFromServerURL(serverURL string) (string, error) {
	if serverURL == "" {
		return "", fmt.Errorf("server URL is empty")
	}
	parsed, err := url.Parse(serverURL)
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("server URL %q has no scheme or host", serverURL)
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}

// xmlEscape escapes credential text for embedding in the login envelope
func xmlEscape(s string) string {
	var buf strings.Builder
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
