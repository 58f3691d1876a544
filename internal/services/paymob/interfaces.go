package paymob

import (
	"context"
	"errors"
)

var (
	ErrSignatureMismatch = errors.New("callback signature mismatch")
	ErrInvalidPayload    = errors.New("invalid callback payload")
)

// Gateway is the payment provider collaborator: it opens payment sessions
// with Paymob and authenticates the transaction callbacks Paymob sends back.
type Gateway interface {
	InitiateCardPayment(ctx context.Context, req CardPaymentRequest) (*PaymentInitiationResult, error)
	InitiateWalletPayment(ctx context.Context, req WalletPaymentRequest) (*PaymentInitiationResult, error)

	// VerifyCallback authenticates a callback and normalizes it into the
	// outcome the wallet service reconciles against. It must be called
	// before any ledger or wallet row is read.
	VerifyCallback(signature string, payload *CallbackPayload) (*CallbackOutcome, error)
}
