package wallet

import "errors"

// Service errors
var (
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrUserNotFound     = errors.New("user not found")
	ErrWalletNotFound   = errors.New("wallet not found")
	ErrWalletLocked     = errors.New("wallet is locked")
	ErrInitiationFailed = errors.New("payment initiation failed")
	ErrRecordingFailed  = errors.New("failed to record payment")
)
