package paymob

// CardPaymentRequest carries what the card initiation flow needs.
type CardPaymentRequest struct {
	Amount    float64
	UserID    uint
	Reference string
}

// WalletPaymentRequest carries what the mobile-wallet initiation flow needs.
type WalletPaymentRequest struct {
	Amount       float64
	UserID       uint
	Reference    string
	WalletNumber string
}

// PaymentInitiationResult is the normalized outcome of an initiation call.
type PaymentInitiationResult struct {
	Success       bool
	Reference     string
	RedirectURL   string
	PaymobOrderID int
	Status        string
	Message       string
}

// CallbackOutcome is the normalized, authenticated result of a transaction
// callback: everything the wallet service needs to reconcile an attempt.
type CallbackOutcome struct {
	Reference string
	Amount    float64
	Succeeded bool
}

// CallbackPayload is the body Paymob posts to the callback endpoint.
type CallbackPayload struct {
	Type string              `json:"type"`
	Obj  CallbackTransaction `json:"obj"`
}

// CallbackTransaction mirrors Paymob's transaction object. Field names and
// shapes follow the provider's wire format.
type CallbackTransaction struct {
	ID                   int         `json:"id"`
	Pending              bool        `json:"pending"`
	AmountCents          int         `json:"amount_cents"`
	Success              bool        `json:"success"`
	IsAuth               bool        `json:"is_auth"`
	IsCapture            bool        `json:"is_capture"`
	IsVoided             bool        `json:"is_voided"`
	IsRefunded           bool        `json:"is_refunded"`
	Is3DSecure           bool        `json:"is_3d_secure"`
	IntegrationID        int         `json:"integration_id"`
	ProfileID            int         `json:"profile_id"`
	HasParentTransaction bool        `json:"has_parent_transaction"`
	Order                *Order      `json:"order"`
	CreatedAt            string      `json:"created_at"`
	Currency             string      `json:"currency"`
	IsStandalonePayment  bool        `json:"is_standalone_payment"`
	SourceData           *SourceData `json:"source_data"`
	ErrorOccured         bool        `json:"error_occured"`
	Owner                int         `json:"owner"`
}

// Order is the provider-side order nested in a callback transaction.
// MerchantOrderID echoes the reference chosen at initiation.
type Order struct {
	ID              int    `json:"id"`
	MerchantOrderID string `json:"merchant_order_id"`
	AmountCents     int    `json:"amount_cents"`
	MerchantID      int    `json:"merchant_id"`
}

// SourceData describes the payment instrument used.
type SourceData struct {
	Pan     string `json:"pan"`
	SubType string `json:"sub_type"`
	Type    string `json:"type"`
}
