package wallet

import (
	"context"

	"ridepay/internal/models"
	"ridepay/internal/services/paymob"
)

// Service defines the main wallet service interface
type Service interface {
	// Wallet lifecycle. CreateWallet is idempotent: it is a no-op when the
	// user already has a wallet.
	CreateWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.LedgerEntry, error)

	// Top-up initiation. Creates the payment attempt and pending ledger
	// entry atomically; never touches the balance.
	TopUpWithCard(ctx context.Context, userID uint, amount float64, initiate InitiateFunc) (*TopUpResult, error)
	TopUpWithMobileWallet(ctx context.Context, userID uint, amount float64, initiate InitiateFunc) (*TopUpResult, error)

	// ProcessCallback reconciles a provider callback against the ledger.
	// Fire-and-forget: every outcome is logged, nothing is returned, so the
	// webhook handler can always answer 200.
	ProcessCallback(ctx context.Context, signature string, payload *paymob.CallbackPayload)
}
