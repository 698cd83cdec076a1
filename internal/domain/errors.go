package domain

import "errors"

var (
	// ErrDuplicateTracking - the (user, ticker) pair is already tracked.
	ErrDuplicateTracking = errors.New("ticker already tracked")

	// ErrQuoteUnavailable - upstream could not produce a usable quote.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrRenderFailed - chart generation failed.
	ErrRenderFailed = errors.New("chart render failed")

	// ErrDeliveryFailed - outbound message could not be delivered.
	ErrDeliveryFailed = errors.New("notification delivery failed")
)
