package models

import (
	"time"
)

// Payment attempt statuses. An attempt only ever moves pending -> success or
// pending -> failed; both end states are terminal.
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Payment types
const (
	PaymentTypeCredit = "credit"
	PaymentTypeDebit  = "debit"
)

// Payment methods
const (
	PaymentMethodCard         = "card"
	PaymentMethodMobileWallet = "mobile_wallet"
)

// PaymentAttempt is one initiated top-up with the external provider. Reference
// is the idempotency key this system chooses at initiation; the provider echoes
// it back as its merchant order field on callback.
type PaymentAttempt struct {
	ID          uint    `gorm:"primarykey"`
	UserID      uint    `gorm:"not null;index"`
	Amount      float64 `gorm:"not null"`
	PaymentType string  `gorm:"not null"`
	Method      string  `gorm:"not null"`
	Status      string  `gorm:"not null;default:'pending'"`
	Reference   string  `gorm:"uniqueIndex;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
