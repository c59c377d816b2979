package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/dkochetov/storefront/internal/config"
)

// Client talks to the payment provider's REST API.
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
}

func NewClient(cfg config.Gateway) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type createOrderReq struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResp struct {
	ID string `json:"id"`
}

// CreateOrder registers a payment order with the gateway. Amount is in
// currency units; the provider expects the smallest denomination.
func (c *Client) CreateOrder(ctx context.Context, amount float64, receipt string) (string, error) {
	body, err := json.Marshal(createOrderReq{
		Amount:   int64(math.Round(amount * 100)),
		Currency: "INR",
		Receipt:  receipt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var out createOrderResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return out.ID, nil
}

// VerifySignature checks the HMAC-SHA256 the gateway computes over
// "orderID|paymentID" during checkout completion.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
