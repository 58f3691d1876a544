package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridepay/internal/models"
	"ridepay/internal/services/paymob"
	"ridepay/internal/services/wallet"
)

// stubWalletService lets each test script the service layer and records the
// callback deliveries it receives.
type stubWalletService struct {
	wallet      *models.Wallet
	topUpErr    error
	callbackSig string
	callbacks   []*paymob.CallbackPayload
}

func (s *stubWalletService) CreateWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	return s.wallet, nil
}

func (s *stubWalletService) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	if s.wallet == nil {
		return nil, wallet.ErrWalletNotFound
	}
	return s.wallet, nil
}

func (s *stubWalletService) GetTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.LedgerEntry, error) {
	return []models.LedgerEntry{}, nil
}

func (s *stubWalletService) TopUpWithCard(ctx context.Context, userID uint, amount float64, initiate wallet.InitiateFunc) (*wallet.TopUpResult, error) {
	if s.topUpErr != nil {
		return nil, s.topUpErr
	}
	initiation, err := initiate()
	if err != nil {
		return nil, wallet.ErrInitiationFailed
	}
	return &wallet.TopUpResult{
		PaymentURL:      initiation.RedirectURL,
		Reference:       initiation.Reference,
		ProviderOrderID: initiation.PaymobOrderID,
		Status:          "pending",
	}, nil
}

func (s *stubWalletService) TopUpWithMobileWallet(ctx context.Context, userID uint, amount float64, initiate wallet.InitiateFunc) (*wallet.TopUpResult, error) {
	return s.TopUpWithCard(ctx, userID, amount, initiate)
}

func (s *stubWalletService) ProcessCallback(ctx context.Context, signature string, payload *paymob.CallbackPayload) {
	s.callbackSig = signature
	s.callbacks = append(s.callbacks, payload)
}

type stubGateway struct {
	lastCardReq   *paymob.CardPaymentRequest
	lastWalletReq *paymob.WalletPaymentRequest
}

func (g *stubGateway) InitiateCardPayment(ctx context.Context, req paymob.CardPaymentRequest) (*paymob.PaymentInitiationResult, error) {
	g.lastCardReq = &req
	return &paymob.PaymentInitiationResult{
		Success:       true,
		Reference:     req.Reference,
		RedirectURL:   "https://accept.example/iframe",
		PaymobOrderID: 9001,
	}, nil
}

func (g *stubGateway) InitiateWalletPayment(ctx context.Context, req paymob.WalletPaymentRequest) (*paymob.PaymentInitiationResult, error) {
	g.lastWalletReq = &req
	return &paymob.PaymentInitiationResult{
		Success:       true,
		Reference:     req.Reference,
		RedirectURL:   "https://accept.example/redirect",
		PaymobOrderID: 9002,
	}, nil
}

func (g *stubGateway) VerifyCallback(signature string, payload *paymob.CallbackPayload) (*paymob.CallbackOutcome, error) {
	return nil, errors.New("not used")
}

// newTestApp wires the handler behind routes; authenticated routes get the
// given claims injected the way the auth middleware would.
func newTestApp(service wallet.Service, gateway paymob.Gateway, claims *models.UserClaims) *fiber.App {
	app := fiber.New()
	handler := NewWalletHandler(service, gateway)

	app.Post("/api/wallet/callback", handler.Callback)

	authed := app.Group("/api", func(c *fiber.Ctx) error {
		if claims != nil {
			c.Locals("claims", claims)
		}
		return c.Next()
	})
	authed.Get("/wallet", handler.GetWallet)
	authed.Post("/wallet/top-up/card", handler.TopUpWithCard)
	authed.Post("/wallet/top-up/mobile-wallet", handler.TopUpWithMobileWallet)

	return app
}

func testClaims() *models.UserClaims {
	return &models.UserClaims{UserID: 7, Email: "rider@test.local", Role: "user"}
}

func TestCallback_AlwaysAnswers200(t *testing.T) {
	service := &stubWalletService{}
	app := newTestApp(service, &stubGateway{}, nil)

	body, err := json.Marshal(paymob.CallbackPayload{
		Type: "TRANSACTION",
		Obj:  paymob.CallbackTransaction{ID: 187654, Success: true},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/wallet/callback?hmac=abc123", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, service.callbacks, 1)
	assert.Equal(t, "abc123", service.callbackSig)
	assert.Equal(t, 187654, service.callbacks[0].Obj.ID)
}

func TestCallback_MalformedBodyStillAnswers200(t *testing.T) {
	service := &stubWalletService{}
	app := newTestApp(service, &stubGateway{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/wallet/callback?hmac=abc123", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// An undecodable body never reaches the service.
	assert.Empty(t, service.callbacks)
}

func TestGetWallet(t *testing.T) {
	service := &stubWalletService{wallet: &models.Wallet{ID: 1, UserID: 7, Balance: 150}}
	app := newTestApp(service, &stubGateway{}, testClaims())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/wallet", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetWallet_MissingClaims(t *testing.T) {
	app := newTestApp(&stubWalletService{}, &stubGateway{}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/wallet", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTopUpWithCard(t *testing.T) {
	service := &stubWalletService{}
	gateway := &stubGateway{}
	app := newTestApp(service, gateway, testClaims())

	req := httptest.NewRequest(http.MethodPost, "/api/wallet/top-up/card",
		bytes.NewReader([]byte(`{"amount": 50}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, gateway.lastCardReq)
	assert.Equal(t, 50.0, gateway.lastCardReq.Amount)
	assert.Equal(t, uint(7), gateway.lastCardReq.UserID)
	assert.NotEmpty(t, gateway.lastCardReq.Reference, "a fresh reference is generated per request")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var result wallet.TopUpResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, gateway.lastCardReq.Reference, result.Reference)
	assert.Equal(t, "https://accept.example/iframe", result.PaymentURL)
}

func TestTopUpWithCard_FreshReferencePerRequest(t *testing.T) {
	gateway := &stubGateway{}
	app := newTestApp(&stubWalletService{}, gateway, testClaims())

	post := func() string {
		req := httptest.NewRequest(http.MethodPost, "/api/wallet/top-up/card",
			bytes.NewReader([]byte(`{"amount": 50}`)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return gateway.lastCardReq.Reference
	}

	assert.NotEqual(t, post(), post())
}

func TestTopUpWithCard_InvalidAmount(t *testing.T) {
	app := newTestApp(&stubWalletService{}, &stubGateway{}, testClaims())

	req := httptest.NewRequest(http.MethodPost, "/api/wallet/top-up/card",
		bytes.NewReader([]byte(`{"amount": 0}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTopUpWithMobileWallet_RequiresWalletNumber(t *testing.T) {
	app := newTestApp(&stubWalletService{}, &stubGateway{}, testClaims())

	req := httptest.NewRequest(http.MethodPost, "/api/wallet/top-up/mobile-wallet",
		bytes.NewReader([]byte(`{"amount": 50}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTopUpErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"locked wallet", wallet.ErrWalletLocked, http.StatusBadRequest},
		{"missing wallet", wallet.ErrWalletNotFound, http.StatusNotFound},
		{"missing user", wallet.ErrUserNotFound, http.StatusNotFound},
		{"initiation failure", wallet.ErrInitiationFailed, http.StatusBadRequest},
		{"recording failure", wallet.ErrRecordingFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubWalletService{topUpErr: tt.err}, &stubGateway{}, testClaims())

			req := httptest.NewRequest(http.MethodPost, "/api/wallet/top-up/card",
				bytes.NewReader([]byte(`{"amount": 50}`)))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
