package service

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrKeyMismatch          = errors.New("order key mismatch")
	ErrAmountMismatch       = errors.New("order amount mismatch")
	ErrOrderAlreadyHandled  = errors.New("order already completed/processed")
	ErrVerificationFailed   = errors.New("something went wrong")
	ErrRedirectUnresolvable = errors.New("no redirect URL configured")
)
