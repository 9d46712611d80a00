// Package rest issues authenticated requests against the Azure DevOps REST
// API. Every query function funnels through Client: it encodes Basic auth
// from a credential or raw token, places parameters as query string or JSON
// body depending on the method, and surfaces transport and HTTP failures as
// RequestError values.
package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/azdohist/cli/internal/auth"
)

const defaultUserAgent = "azdohist-cli/1.0"

// RequestError reports a failed API call: either a non-2xx response (with
// status code and body) or a transport failure (status code 0).
type RequestError struct {
	StatusCode int
	Body       []byte
	URL        string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("API error (HTTP %d) from %s: %s", e.StatusCode, e.URL, string(e.Body))
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Response is the full envelope returned by CallRaw.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client dispatches API requests. The zero value is not usable; construct
// with NewClient.
type Client struct {
	HTTPClient *http.Client
	Logger     hclog.Logger
	UserAgent  string
	// DryRun logs the intended request instead of sending it.
	DryRun bool
}

// NewClient creates a dispatcher with the default HTTP client timeout and a
// null logger.
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		Logger:    hclog.NewNullLogger(),
		UserAgent: defaultUserAgent,
	}
}

// Call issues a request and returns the response body. Exactly one of cred
// and token must be supplied. GET serializes body as query parameters, POST
// as a JSON entity; other methods are rejected. In dry-run mode the intended
// request is logged and a nil body returned.
func (c *Client) Call(uri, method string, body *Params, cred *auth.Credential, token string) ([]byte, error) {
	resp, err := c.CallRaw(uri, method, body, cred, token)
	if err != nil || resp == nil {
		return nil, err
	}
	return resp.Body, nil
}

// CallJSON issues a request and decodes the JSON response body. Returns nil
// in dry-run mode or for an empty body.
func (c *Client) CallJSON(uri, method string, body *Params, cred *auth.Credential, token string) (interface{}, error) {
	respBody, err := c.Call(uri, method, body, cred, token)
	if err != nil || len(respBody) == 0 {
		return nil, err
	}

	var parsed interface{}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return parsed, nil
}

// CallRaw issues a request and returns the full response envelope: status
// code, headers, and raw body. Non-2xx responses still return a RequestError
// so callers never have to inspect the status themselves. In dry-run mode
// the intended request is logged and both return values are nil; callers
// must check the response before using it, not only the error.
func (c *Client) CallRaw(uri, method string, body *Params, cred *auth.Credential, token string) (*Response, error) {
	req, err := c.buildRequest(uri, method, body, cred, token)
	if err != nil {
		return nil, err
	}

	if c.DryRun {
		c.logger().Info("dry-run: request not sent", "method", req.Method, "url", req.URL.String())
		return nil, nil
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	c.logger().Debug("issuing request", "method", req.Method, "url", req.URL.String(), "request_id", requestID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &RequestError{URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{URL: req.URL.String(), Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger().Debug("request failed", "status", resp.StatusCode, "request_id", requestID)
		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			Body:       respBody,
			URL:        req.URL.String(),
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

func (c *Client) buildRequest(uri, method string, body *Params, cred *auth.Credential, token string) (*http.Request, error) {
	authHeader, err := auth.AuthorizationHeader(cred, token)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	switch method {
	case http.MethodGet:
		if body.Len() > 0 {
			sep := "?"
			if strings.Contains(uri, "?") {
				sep = "&"
			}
			uri += sep + body.Encode()
		}
	case http.MethodPost:
		if body.Len() > 0 {
			data, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request body: %w", err)
			}
			bodyReader = bytes.NewReader(data)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported method %s", auth.ErrInvalidArgument, method)
	}

	req, err := http.NewRequest(method, uri, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", authHeader)
	req.Header.Set("User-Agent", c.userAgent())
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *Client) logger() hclog.Logger {
	if c.Logger == nil {
		return hclog.NewNullLogger()
	}
	return c.Logger
}

func (c *Client) userAgent() string {
	if c.UserAgent == "" {
		return defaultUserAgent
	}
	return c.UserAgent
}
