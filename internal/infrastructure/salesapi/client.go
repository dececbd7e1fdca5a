// Package salesapi is the register's client for the sales API.
package salesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sangkips/shundor-pos/internal/application/billing"
	"github.com/sangkips/shundor-pos/pkg/utils"
	"github.com/sony/gobreaker/v2"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20

	// breaker trips after this many consecutive failed saves
	breakerFailures = 5
	breakerCooldown = 30 * time.Second
)

var (
	// ErrMissingSaleID is returned for a 2xx response without a sale_id.
	ErrMissingSaleID = errors.New("salesapi: response carries no sale_id")
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("salesapi: unexpected status %d", e.Code)
}

// Client posts sale records to {baseURL}/sales/.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *utils.JWTManager
	registerID string
	breaker    *gobreaker.CircuitBreaker[string]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken signs every request with a bearer token for registerID.
func WithToken(tokens *utils.JWTManager, registerID string) Option {
	return func(c *Client) {
		c.tokens = tokens
		c.registerID = registerID
	}
}

// NewClient creates a sales API client. A non-positive timeout selects ten
// seconds.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "sales-api",
		Timeout: breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
	return c
}

var _ billing.Saver = (*Client)(nil)

// CreateSale posts the payload and returns the sale id assigned by the API.
// attemptID is sent as the Idempotency-Key so a retried attempt is not
// recorded twice.
func (c *Client) CreateSale(ctx context.Context, attemptID string, payload billing.SalePayload) (string, error) {
	return c.breaker.Execute(func() (string, error) {
		return c.createSale(ctx, attemptID, payload)
	})
}

func (c *Client) createSale(ctx context.Context, attemptID string, payload billing.SalePayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode sale: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sales/", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if attemptID != "" {
		req.Header.Set("Idempotency-Key", attemptID)
	}
	if c.tokens != nil {
		token, err := c.tokens.GenerateToken(c.registerID)
		if err != nil {
			return "", fmt.Errorf("failed to sign request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach sales API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Code: resp.StatusCode, Body: string(raw)}
	}

	saleID := extractSaleID(raw)
	if saleID == "" {
		return "", ErrMissingSaleID
	}
	return saleID, nil
}

// extractSaleID accepts sale_id at the top level or inside the envelope's data.
// The id is opaque: a JSON string is used as-is, a number by its literal text.
func extractSaleID(raw []byte) string {
	var body struct {
		SaleID json.RawMessage `json:"sale_id"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if id := saleIDText(body.SaleID); id != "" {
		return id
	}
	var data struct {
		SaleID json.RawMessage `json:"sale_id"`
	}
	if len(body.Data) == 0 || json.Unmarshal(body.Data, &data) != nil {
		return ""
	}
	return saleIDText(data.SaleID)
}

func saleIDText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
