package repositories

import (
	"context"
	"errors"

	"ridepay/internal/models"
)

var (
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrAttemptNotFound    = errors.New("payment attempt not found")
	ErrEntryNotFound      = errors.New("ledger entry not found")
	ErrDuplicateReference = errors.New("payment reference already exists")
)

// WalletRepository defines the interface for wallet, payment attempt and
// ledger entry database operations.
type WalletRepository interface {
	// Wallet operations
	CreateWallet(wallet *models.Wallet) error
	GetWalletByUserID(userID uint) (*models.Wallet, error)
	// GetWalletByUserIDForUpdate takes a row-level lock; only valid inside
	// ExecuteInTransaction.
	GetWalletByUserIDForUpdate(userID uint) (*models.Wallet, error)
	UpdateWallet(wallet *models.Wallet) error

	// Payment attempt operations
	CreateAttempt(attempt *models.PaymentAttempt) error
	GetAttemptByReference(reference string) (*models.PaymentAttempt, error)
	// GetAttemptByReferenceForUpdate takes a row-level lock; only valid
	// inside ExecuteInTransaction. Concurrent callbacks for one attempt
	// serialize on this lock.
	GetAttemptByReferenceForUpdate(reference string) (*models.PaymentAttempt, error)
	UpdateAttempt(attempt *models.PaymentAttempt) error

	// Ledger entry operations
	CreateEntry(entry *models.LedgerEntry) error
	GetEntryByAttemptID(attemptID uint) (*models.LedgerEntry, error)
	UpdateEntry(entry *models.LedgerEntry) error
	GetEntries(ctx context.Context, walletID uint, limit, offset int) ([]models.LedgerEntry, error)

	// ExecuteInTransaction runs fn against a repository bound to a single
	// database transaction; any error rolls the whole transaction back.
	ExecuteInTransaction(fn func(WalletRepository) error) error
}
