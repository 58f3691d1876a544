package wallet

// History pagination defaults
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Callback outcomes recorded in metrics and logs
const (
	CallbackOutcomeCredited  = "credited"
	CallbackOutcomeFailed    = "failed"
	CallbackOutcomeDuplicate = "duplicate"
	CallbackOutcomeRejected  = "rejected"
	CallbackOutcomeUnknown   = "unknown_reference"
)
