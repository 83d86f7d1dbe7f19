// Package gateway talks to the external payment-verification service. The
// service is the sole authority on whether a client-reported reference was
// actually paid.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rizalfh/paylane/config"
	"github.com/shopspring/decimal"
)

type Result struct {
	Paid          bool
	GatewayStatus string
	Amount        decimal.Decimal
}

type Verifier interface {
	Verify(ctx context.Context, reference string) (*Result, error)
}

type Client struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewClient(cfg *config.GatewayConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status string          `json:"status"`
		Amount decimal.Decimal `json:"amount"`
	} `json:"data"`
}

// Verify asks the gateway whether the reference corresponds to a completed
// payment. A non-2xx response or transport error is returned as an error;
// a reachable gateway that reports the payment unpaid yields Paid == false.
func (c *Client) Verify(ctx context.Context, reference string) (*Result, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, reference)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}

	return &Result{
		Paid:          body.Status && body.Data.Status == "success",
		GatewayStatus: body.Data.Status,
		Amount:        body.Data.Amount,
	}, nil
}
