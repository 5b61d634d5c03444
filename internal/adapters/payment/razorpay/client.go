package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"communityhub/internal/domain"
)

const defaultBaseURL = "https://api.razorpay.com"

// Config holds credentials for the Razorpay orders API.
type Config struct {
	// BaseURL overrides the API host, used by tests. Empty means production.
	BaseURL   string
	KeyID     string
	KeySecret string
}

type client struct {
	httpClient *http.Client
	baseURL    string
	keyID      string
	keySecret  string
	logger     *slog.Logger
}

// NewClient returns a PaymentGateway that creates orders via the Razorpay
// REST API with basic auth.
func NewClient(httpClient *http.Client, cfg Config, logger *slog.Logger) domain.PaymentGateway {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &client{
		httpClient: httpClient,
		baseURL:    baseURL,
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		logger:     logger,
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CreateOrder asks the gateway for an order. The amount is already in minor
// units; this adapter never sees a floating-point value. The idempotency key
// is sent as the order receipt so a retried request for the same local record
// maps to the same remote order.
func (c *client) CreateOrder(ctx context.Context, amountMinorUnits int64, currency, idempotencyKey string) (*domain.PaymentOrder, error) {
	if amountMinorUnits <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}
	if !domain.SupportedCurrency(currency) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedCurrency, currency)
	}
	body, err := json.Marshal(createOrderRequest{
		Amount:   amountMinorUnits,
		Currency: currency,
		Receipt:  idempotencyKey,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: gateway returned status %d", domain.ErrGateway, resp.StatusCode)
	}

	var data createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decode order response: %v", domain.ErrGateway, err)
	}
	if data.ID == "" {
		return nil, fmt.Errorf("%w: gateway returned empty order id", domain.ErrGateway)
	}
	c.logger.Info("payment order created",
		"order_id", data.ID,
		"amount_minor_units", amountMinorUnits,
		"currency", currency,
		"receipt", idempotencyKey,
	)
	return &domain.PaymentOrder{
		OrderID:          data.ID,
		AmountMinorUnits: amountMinorUnits,
		Currency:         currency,
	}, nil
}
