package paymob

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strconv"
	"strings"
)

// signatureBase concatenates the transaction fields Paymob signs, in the
// order the provider documents. This order is a wire contract: changing it
// breaks verification for every callback, so treat it as versioned and keep
// the fixed-vector tests in sync. Absent nested objects contribute nothing,
// which means an attacker cannot skip verification by omitting them.
func signatureBase(t *CallbackTransaction) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(t.AmountCents))
	b.WriteString(t.CreatedAt)
	b.WriteString(t.Currency)
	b.WriteString(strconv.FormatBool(t.ErrorOccured))
	b.WriteString(strconv.FormatBool(t.HasParentTransaction))
	b.WriteString(strconv.Itoa(t.ID))
	b.WriteString(strconv.Itoa(t.IntegrationID))
	b.WriteString(strconv.FormatBool(t.Is3DSecure))
	b.WriteString(strconv.FormatBool(t.IsAuth))
	b.WriteString(strconv.FormatBool(t.IsCapture))
	b.WriteString(strconv.FormatBool(t.IsRefunded))
	b.WriteString(strconv.FormatBool(t.IsStandalonePayment))
	b.WriteString(strconv.FormatBool(t.IsVoided))
	if t.Order != nil {
		b.WriteString(strconv.Itoa(t.Order.ID))
	}
	b.WriteString(strconv.Itoa(t.Owner))
	b.WriteString(strconv.FormatBool(t.Pending))
	if t.SourceData != nil {
		b.WriteString(t.SourceData.Pan)
		b.WriteString(t.SourceData.SubType)
		b.WriteString(t.SourceData.Type)
	}
	b.WriteString(strconv.FormatBool(t.Success))
	return b.String()
}

// ComputeSignature returns the lowercase hex HMAC-SHA512 of the transaction's
// signature base under the shared secret. Pure: no I/O, no side effects.
func ComputeSignature(secret string, t *CallbackTransaction) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(signatureBase(t)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature matches the transaction under
// secret. The comparison is case-insensitive over the hex encoding and
// constant-time over the normalized strings.
func VerifySignature(secret, signature string, t *CallbackTransaction) bool {
	if t == nil {
		return false
	}
	expected := ComputeSignature(secret, t)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
