package models

import (
	"time"
)

// Ledger entry types
const (
	LedgerTypeDeposit     = "deposit"
	LedgerTypeWithdrawal  = "withdrawal"
	LedgerTypeEarning     = "earning"
	LedgerTypeRefund      = "refund"
	LedgerTypeRidePayment = "ride_payment"
)

// Ledger entry statuses, mirroring the paired payment attempt 1:1.
const (
	LedgerStatusPending   = "pending"
	LedgerStatusCompleted = "completed"
	LedgerStatusFailed    = "failed"
)

// LedgerEntry records one attempted balance change, paired 1:1 with a
// PaymentAttempt. BalanceBefore/BalanceAfter are snapshots taken at initiation;
// reconciliation settles the entry but never recomputes them.
type LedgerEntry struct {
	ID               uint    `gorm:"primarykey"`
	WalletID         uint    `gorm:"not null;index"`
	PaymentAttemptID uint    `gorm:"uniqueIndex;not null"`
	Type             string  `gorm:"not null"`
	Amount           float64 `gorm:"not null"`
	BalanceBefore    float64 `gorm:"not null"`
	BalanceAfter     float64 `gorm:"not null"`
	Status           string  `gorm:"not null;default:'pending'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	PaymentAttempt *PaymentAttempt `gorm:"foreignKey:PaymentAttemptID"`
}
