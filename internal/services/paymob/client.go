package paymob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"ridepay/internal/config"
)

const (
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

// Client talks to the Paymob acceptance API. Initiation is a three-step
// flow: authenticate, create an order carrying our reference as the merchant
// order id, then generate a payment key for the chosen integration.
type Client struct {
	cfg  config.PaymobConfig
	http *http.Client
}

func NewClient(cfg config.PaymobConfig) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type authResponse struct {
	Token string `json:"token"`
}

type orderResponse struct {
	ID int `json:"id"`
}

type paymentKeyResponse struct {
	Token string `json:"token"`
}

type walletRedirectResponse struct {
	RedirectURL string `json:"redirect_url"`
}

func (c *Client) InitiateCardPayment(ctx context.Context, req CardPaymentRequest) (*PaymentInitiationResult, error) {
	paymentToken, orderID, err := c.preparePaymentFlow(ctx, req.Amount, req.Reference, c.cfg.CardIntegrationID)
	if err != nil {
		return nil, fmt.Errorf("card payment initiation failed: %w", err)
	}

	iframeURL := fmt.Sprintf("%s/acceptance/iframes/%s?payment_token=%s",
		c.cfg.BaseURL, c.cfg.IframeID, paymentToken)

	return &PaymentInitiationResult{
		Success:       true,
		Reference:     req.Reference,
		RedirectURL:   iframeURL,
		PaymobOrderID: orderID,
		Status:        "pending",
		Message:       "card payment link generated",
	}, nil
}

func (c *Client) InitiateWalletPayment(ctx context.Context, req WalletPaymentRequest) (*PaymentInitiationResult, error) {
	paymentToken, orderID, err := c.preparePaymentFlow(ctx, req.Amount, req.Reference, c.cfg.WalletIntegrationID)
	if err != nil {
		return nil, fmt.Errorf("wallet payment initiation failed: %w", err)
	}

	var redirect walletRedirectResponse
	err = c.postJSON(ctx, c.cfg.BaseURL+"/acceptance/payments/pay", map[string]interface{}{
		"source": map[string]string{
			"identifier": req.WalletNumber,
			"subtype":    "WALLET",
		},
		"payment_token": paymentToken,
	}, &redirect)
	if err != nil {
		return nil, fmt.Errorf("wallet payment rejected: %w", err)
	}
	if redirect.RedirectURL == "" {
		return nil, fmt.Errorf("wallet payment: missing redirect url for reference %s", req.Reference)
	}

	return &PaymentInitiationResult{
		Success:       true,
		Reference:     req.Reference,
		RedirectURL:   redirect.RedirectURL,
		PaymobOrderID: orderID,
		Status:        "pending",
		Message:       "wallet redirection url generated",
	}, nil
}

// VerifyCallback authenticates the callback and reduces it to the reference,
// amount and outcome the ledger cares about. Verification happens before the
// payload is interpreted in any way.
func (c *Client) VerifyCallback(signature string, payload *CallbackPayload) (*CallbackOutcome, error) {
	if payload == nil {
		return nil, ErrInvalidPayload
	}

	if !VerifySignature(c.cfg.HMACSecret, signature, &payload.Obj) {
		return nil, ErrSignatureMismatch
	}

	if payload.Obj.Order == nil || payload.Obj.Order.MerchantOrderID == "" {
		return nil, fmt.Errorf("%w: missing merchant order id", ErrInvalidPayload)
	}

	return &CallbackOutcome{
		Reference: payload.Obj.Order.MerchantOrderID,
		Amount:    float64(payload.Obj.AmountCents) / 100,
		Succeeded: payload.Obj.Success,
	}, nil
}

func (c *Client) preparePaymentFlow(ctx context.Context, amount float64, reference, integrationID string) (string, int, error) {
	amountCents := int(math.Round(amount * 100))

	// Paymob expects the integration id as a number.
	intgID, err := strconv.Atoi(integrationID)
	if err != nil {
		return "", 0, fmt.Errorf("invalid integration id %q: %w", integrationID, err)
	}

	var auth authResponse
	err = c.postJSON(ctx, c.cfg.BaseURL+"/auth/tokens", map[string]string{
		"api_key": c.cfg.APIKey,
	}, &auth)
	if err != nil {
		return "", 0, fmt.Errorf("authentication failed: %w", err)
	}
	if auth.Token == "" {
		return "", 0, fmt.Errorf("authentication response missing token")
	}

	var order orderResponse
	err = c.postJSON(ctx, c.cfg.BaseURL+"/ecommerce/orders", map[string]interface{}{
		"auth_token":        auth.Token,
		"amount_cents":      amountCents,
		"currency":          "EGP",
		"merchant_order_id": reference,
		"items":             []interface{}{},
	}, &order)
	if err != nil {
		return "", 0, fmt.Errorf("order creation failed: %w", err)
	}
	if order.ID == 0 {
		return "", 0, fmt.Errorf("order response missing id")
	}

	var key paymentKeyResponse
	err = c.postJSON(ctx, c.cfg.BaseURL+"/acceptance/payment_keys", map[string]interface{}{
		"auth_token":     auth.Token,
		"amount_cents":   amountCents,
		"expiration":     3600,
		"order_id":       order.ID,
		"currency":       "EGP",
		"integration_id": intgID,
	}, &key)
	if err != nil {
		return "", 0, fmt.Errorf("payment key generation failed: %w", err)
	}
	if key.Token == "" {
		return "", 0, fmt.Errorf("payment key response missing token")
	}

	return key.Token, order.ID, nil
}

// postJSON posts body to url and decodes the response into dest. Transient
// failures (network errors, 5xx) are retried a bounded number of times with
// doubling backoff; 4xx responses fail immediately.
func (c *Client) postJSON(ctx context.Context, url string, body, dest interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := initialBackoff
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		lastErr = c.doPost(ctx, url, payload, dest)
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			return lastErr
		}
		log.Printf("paymob request to %s failed (attempt %d/%d): %v", url, attempt, maxAttempts, lastErr)
	}

	return lastErr
}

type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("paymob returned status %d: %s", e.status, e.body)
}

func isRetryable(err error) bool {
	if he, ok := err.(*httpError); ok {
		return he.status >= 500
	}
	// Network-level failures are worth retrying.
	return true
}

func (c *Client) doPost(ctx context.Context, url string, payload []byte, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &httpError{status: resp.StatusCode, body: string(data)}
	}

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
