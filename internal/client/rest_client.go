// Package client provides DigitalOcean API client wrappers
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// DefaultBaseURL is the public DigitalOcean v2 API endpoint.
const DefaultBaseURL = "https://api.digitalocean.com/v2"

// Client is a bearer-token JSON client for the DigitalOcean v2 API.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
}

// New creates a Client for the given API token. baseURL may be empty, in
// which case the public API endpoint is used.
func New(token, baseURL string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("API token is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		Token:      token,
	}, nil
}

// get performs a GET request, retrying transient transport failures.
// Only GETs are retried: the power, resize, create and delete endpoints are
// not idempotent and reissuing them could double-apply an action.
func (c *Client) get(ctx context.Context, path string, responseData interface{}) (int, error) {
	var status int
	err := RetryWithBackoff(ctx, DefaultRetryConfig(), func() error {
		var err error
		status, err = c.do(ctx, http.MethodGet, path, nil, responseData)
		return err
	})
	return status, err
}

// do performs a single HTTP request and decodes the JSON response. Non-2xx
// responses are returned as *APIError carrying the provider's message field.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	requestBody interface{},
	responseData interface{},
) (int, error) {
	url := fmt.Sprintf("%s%s", c.BaseURL, path)

	var bodyReader io.Reader
	if requestBody != nil {
		bodyBytes, err := json.Marshal(requestBody)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	tflog.Debug(ctx, "DigitalOcean API request", map[string]interface{}{
		"method": method,
		"path":   path,
	})

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return 0, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.Token))
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, newAPIError(resp.StatusCode, respBodyBytes)
	}

	tflog.Debug(ctx, "DigitalOcean API response", map[string]interface{}{
		"status_code": resp.StatusCode,
		"method":      method,
		"path":        path,
	})

	if responseData != nil && len(respBodyBytes) > 0 {
		if err := json.Unmarshal(respBodyBytes, responseData); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// pageLinks carries the pagination envelope of list responses. A populated
// links.pages.next means another page exists; its absence terminates a scan.
type pageLinks struct {
	Pages struct {
		Next string `json:"next"`
	} `json:"pages"`
}

func (l pageLinks) hasNext() bool {
	return l.Pages.Next != ""
}
