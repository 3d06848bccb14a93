// Package cep looks up Brazilian postal codes on the ViaCEP service.
package cep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fitpay/fitpay-admin/pkg/digits"
)

// DefaultBaseURL is the public ViaCEP endpoint.
const DefaultBaseURL = "https://viacep.com.br/ws"

var (
	// ErrInvalidCEP is returned without a request when the cleaned code is not 8 digits.
	ErrInvalidCEP = errors.New("cep must have exactly 8 digits")
	// ErrNotFound is returned when ViaCEP reports the code as unknown.
	ErrNotFound = errors.New("cep not found")
)

// Result is the address returned by ViaCEP
type Result struct {
	CEP        string `json:"cep"`
	Street     string `json:"logradouro"`
	Complement string `json:"complemento"`
	District   string `json:"bairro"`
	City       string `json:"localidade"`
	State      string `json:"uf"`
	IBGE       string `json:"ibge,omitempty"`
	DDD        string `json:"ddd,omitempty"`
}

// Client is a ViaCEP client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds the client configuration
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewClient creates a ViaCEP client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}
}

// Clean strips everything but digits from cep.
func Clean(cep string) string {
	return digits.Only(cep)
}

// Valid reports whether cep has exactly 8 digits once cleaned.
func Valid(cep string) bool {
	return len(Clean(cep)) == 8
}

// Format renders 8 digits as "00000-000". Other input is returned cleaned.
func Format(cep string) string {
	c := Clean(cep)
	if len(c) != 8 {
		return c
	}
	return c[:5] + "-" + c[5:]
}

// ViaCEP answers HTTP 200 with {"erro": true} (older deployments: "true") for unknown codes.
type lookupResponse struct {
	Result
	Erro json.RawMessage `json:"erro,omitempty"`
}

func (r lookupResponse) notFound() bool {
	s := strings.Trim(string(r.Erro), `"`)
	return s == "true"
}

// Lookup resolves cep to an address.
func (c *Client) Lookup(ctx context.Context, cep string) (*Result, error) {
	code := Clean(cep)
	if len(code) != 8 {
		return nil, ErrInvalidCEP
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", c.baseURL, code), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("viacep request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read viacep response: %w", err)
	}

	// ViaCEP answers 400 for malformed codes, which Clean already rules out.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("viacep returned status %d", resp.StatusCode)
	}

	var out lookupResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse viacep response: %w", err)
	}
	if out.notFound() {
		return nil, ErrNotFound
	}

	result := out.Result
	result.CEP = Clean(result.CEP)
	if result.CEP == "" {
		result.CEP = code
	}
	return &result, nil
}
