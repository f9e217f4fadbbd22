// Package gateway is a client for the payOS hosted checkout API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the payOS merchant API.
const DefaultBaseURL = "https://api-merchant.payos.vn"

const successCode = "00"

// Payment statuses reported by payOS.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusPaid       = "PAID"
	StatusCancelled  = "CANCELLED"
	StatusExpired    = "EXPIRED"
)

// Config holds the merchant credentials.
type Config struct {
	BaseURL     string
	ClientID    string
	APIKey      string
	ChecksumKey string
	HTTPClient  *http.Client
}

// Client talks to payOS. It keeps no state between calls.
type Client struct {
	baseURL     string
	clientID    string
	apiKey      string
	checksumKey string
	http        *http.Client
	now         func() time.Time
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		clientID:    cfg.ClientID,
		apiKey:      cfg.APIKey,
		checksumKey: cfg.ChecksumKey,
		http:        httpClient,
		now:         time.Now,
	}
}

func (c *Client) checkConfig() error {
	var missing []string
	if c.clientID == "" {
		missing = append(missing, "PAYOS_CLIENT_ID")
	}
	if c.apiKey == "" {
		missing = append(missing, "PAYOS_API_KEY")
	}
	if c.checksumKey == "" {
		missing = append(missing, "PAYOS_CHECKSUM_KEY")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

type envelope struct {
	Code      string          `json:"code"`
	Desc      string          `json:"desc"`
	Data      json.RawMessage `json:"data"`
	Signature string          `json:"signature,omitempty"`
}

// do sends the request and decodes the data field of a successful envelope into out.
func (c *Client) do(ctx context.Context, op, method, path string, body interface{}, out interface{}) error {
	if err := c.checkConfig(); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	req.Header.Set("x-client-id", c.clientID)
	req.Header.Set("x-api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(respBody, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Code: env.Code, Desc: env.Desc}
	}
	if decodeErr != nil {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to parse response: %w", decodeErr)}
	}
	if env.Code != successCode {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Code: env.Code, Desc: env.Desc}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to parse response data: %w", err)}
		}
	}
	return nil
}
