package wallet

import (
	"context"

	"ridepay/internal/models"
	"ridepay/internal/services/paymob"
)

// InitiateFunc performs the provider-specific session setup for a top-up.
// The handler supplies it as a closure over the payment gateway so the
// service stays agnostic of card vs. mobile-wallet details.
type InitiateFunc func() (*paymob.PaymentInitiationResult, error)

// TopUpResult is what the caller needs to send the user to the provider.
type TopUpResult struct {
	PaymentURL      string `json:"payment_url"`
	Reference       string `json:"reference"`
	ProviderOrderID int    `json:"provider_order_id"`
	Status          string `json:"status"`
}

// CacheOperator defines the wallet caching operations the service uses.
type CacheOperator interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uint) error
}

// MetricsCollector defines the interface for collecting wallet metrics
type MetricsCollector interface {
	RecordTransaction(txType string, amount float64)
	RecordError(operation, errType string)
	RecordCallback(outcome string)
}
