package domain

import "errors"

var (
	// Common domain errors
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("entity not found")
	ErrSessionNotFound    = errors.New("purchase session not found")
	ErrRateLimited        = errors.New("rate limited")
	ErrUnavailable        = errors.New("service unavailable")
	ErrProvider           = errors.New("provider error")
	ErrChallengeFailed    = errors.New("human verification challenge failed")
	ErrPhoneRejected      = errors.New("provider rejected phone number")
	ErrVerificationFailed = errors.New("code verification failed")
	ErrNoPlanSelected     = errors.New("no membership selected")
	ErrStateInvariant     = errors.New("purchase state invariant violated")
	ErrInvoiceNotReady    = errors.New("invoice detail not ready")
)
