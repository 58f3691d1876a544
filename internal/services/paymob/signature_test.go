package paymob

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSecret = "test-hmac-secret"

// fullTransaction covers every signed field, including the nested order and
// source data objects.
func fullTransaction() *CallbackTransaction {
	return &CallbackTransaction{
		ID:                  187654,
		AmountCents:         5000,
		Success:             true,
		Is3DSecure:          true,
		IntegrationID:       44001,
		CreatedAt:           "2026-08-01T10:30:00.000000",
		Currency:            "EGP",
		IsStandalonePayment: true,
		Owner:               901,
		Order: &Order{
			ID:              554433,
			MerchantOrderID: "abc123",
		},
		SourceData: &SourceData{
			Pan:     "2345",
			SubType: "MasterCard",
			Type:    "card",
		},
	}
}

func TestComputeSignature_FixedVectors(t *testing.T) {
	tests := []struct {
		name string
		tx   *CallbackTransaction
		want string
	}{
		{
			name: "full transaction with nested objects",
			tx:   fullTransaction(),
			want: "de46df9b561016226a02b7e57e88c2648ad26fe8683add353111aec774e0573f5d18c2cc4a84cca74a6b6efd3b4b24da7480196f16f7d62485eff4353957880f",
		},
		{
			name: "failed transaction without nested objects",
			tx: &CallbackTransaction{
				ID:            1,
				IntegrationID: 2,
				Owner:         3,
				Pending:       true,
				AmountCents:   10000,
				CreatedAt:     "2026-08-02T08:00:00",
				Currency:      "EGP",
			},
			want: "732d5a51a05a6960a343f141cc770582f49633bf5b49b20e74ce28276c1fcb96fef00da84fcaceb9bbf582c3eff0905736474e47b90f433dfb1e262e8c38ac6c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeSignature(testSecret, tt.tx))
		})
	}
}

func TestVerifySignature(t *testing.T) {
	tx := fullTransaction()
	valid := ComputeSignature(testSecret, tx)

	t.Run("valid signature", func(t *testing.T) {
		assert.True(t, VerifySignature(testSecret, valid, tx))
	})

	t.Run("comparison is case-insensitive", func(t *testing.T) {
		assert.True(t, VerifySignature(testSecret, strings.ToUpper(valid), tx))
	})

	t.Run("wrong signature", func(t *testing.T) {
		assert.False(t, VerifySignature(testSecret, strings.Repeat("0", 128), tx))
	})

	t.Run("wrong secret", func(t *testing.T) {
		assert.False(t, VerifySignature("another-secret", valid, tx))
	})

	t.Run("nil transaction", func(t *testing.T) {
		assert.False(t, VerifySignature(testSecret, valid, nil))
	})
}

// Every mutated field must invalidate a previously valid signature.
func TestVerifySignature_AnyFieldMutationFails(t *testing.T) {
	valid := ComputeSignature(testSecret, fullTransaction())

	mutations := map[string]func(*CallbackTransaction){
		"amount_cents":           func(tx *CallbackTransaction) { tx.AmountCents = 5001 },
		"created_at":             func(tx *CallbackTransaction) { tx.CreatedAt = "2026-08-01T10:30:01.000000" },
		"currency":               func(tx *CallbackTransaction) { tx.Currency = "USD" },
		"error_occured":          func(tx *CallbackTransaction) { tx.ErrorOccured = true },
		"has_parent_transaction": func(tx *CallbackTransaction) { tx.HasParentTransaction = true },
		"id":                     func(tx *CallbackTransaction) { tx.ID = 187655 },
		"integration_id":         func(tx *CallbackTransaction) { tx.IntegrationID = 44002 },
		"is_3d_secure":           func(tx *CallbackTransaction) { tx.Is3DSecure = false },
		"is_auth":                func(tx *CallbackTransaction) { tx.IsAuth = true },
		"is_capture":             func(tx *CallbackTransaction) { tx.IsCapture = true },
		"is_refunded":            func(tx *CallbackTransaction) { tx.IsRefunded = true },
		"is_standalone_payment":  func(tx *CallbackTransaction) { tx.IsStandalonePayment = false },
		"is_voided":              func(tx *CallbackTransaction) { tx.IsVoided = true },
		"order id":               func(tx *CallbackTransaction) { tx.Order.ID = 554434 },
		"owner":                  func(tx *CallbackTransaction) { tx.Owner = 902 },
		"pending":                func(tx *CallbackTransaction) { tx.Pending = true },
		"source pan":             func(tx *CallbackTransaction) { tx.SourceData.Pan = "9999" },
		"source sub_type":        func(tx *CallbackTransaction) { tx.SourceData.SubType = "Visa" },
		"source type":            func(tx *CallbackTransaction) { tx.SourceData.Type = "wallet" },
		"success":                func(tx *CallbackTransaction) { tx.Success = false },
		"dropped order":          func(tx *CallbackTransaction) { tx.Order = nil },
		"dropped source data":    func(tx *CallbackTransaction) { tx.SourceData = nil },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			tx := fullTransaction()
			mutate(tx)
			assert.False(t, VerifySignature(testSecret, valid, tx))
		})
	}
}

// A signature computed over an omitted nested object must stay verifiable:
// absence is part of the signed contract, not an error that skips the check.
func TestComputeSignature_AbsentNestedObjects(t *testing.T) {
	tx := fullTransaction()
	tx.Order = nil
	tx.SourceData = nil

	sig := ComputeSignature(testSecret, tx)
	assert.True(t, VerifySignature(testSecret, sig, tx))
	assert.NotEqual(t, ComputeSignature(testSecret, fullTransaction()), sig)
}
