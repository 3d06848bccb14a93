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
)

// DefaultBaseURL is the address of a locally running FitPay backend.
const DefaultBaseURL = "http://localhost:8080"

const (
	defaultUserAgent = "fitpay-admin"
	// maxResponseBytes caps a backend answer; findall pages stay far below it.
	maxResponseBytes = 8 << 20
)

// Client is the FitPay backend API client
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Config holds the client configuration
type Config struct {
	BaseURL    string        // API base URL (e.g., "http://localhost:8080")
	Timeout    time.Duration // HTTP client timeout (default: 30s)
	HTTPClient *http.Client  // Optional custom HTTP client
	UserAgent  string        // sent on every request (default: fitpay-admin)
}

// NewClient creates a new FitPay API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: httpClient,
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest sends body as JSON and decodes a 2xx answer into result. Any
// other status becomes an *APIError; a failed round trip a *TransportError.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{}
		if len(respBody) > 0 {
			// A non-JSON body still yields an APIError, just without a message.
			_ = json.Unmarshal(respBody, apiErr)
		}
		apiErr.StatusCode = resp.StatusCode
		apiErr.Body = string(respBody)
		return apiErr
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// Students returns the student (aluno) service
func (c *Client) Students() *StudentService {
	return &StudentService{client: c}
}

// Plans returns the membership plan service
func (c *Client) Plans() *PlanService {
	return &PlanService{client: c}
}

// Addresses returns the address service
func (c *Client) Addresses() *AddressService {
	return &AddressService{client: c}
}

// Enrollments returns the enrollment (matricula) service
func (c *Client) Enrollments() *EnrollmentService {
	return &EnrollmentService{client: c}
}

// Payments returns the payment service
func (c *Client) Payments() *PaymentService {
	return &PaymentService{client: c}
}

// CashFlow returns the cash-flow entry (movimentacao) service
func (c *Client) CashFlow() *CashFlowService {
	return &CashFlowService{client: c}
}
