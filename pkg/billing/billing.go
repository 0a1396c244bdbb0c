package billing

import (
	"fmt"
	"time"
)

// Provider is the billing system of record. Every mutation here must
// succeed before the corresponding local write is committed.
type Provider interface {
	// PauseCollection stops charging until resumeAt while keeping the
	// subscription nominally active (invoices stay in draft).
	PauseCollection(subscriptionRef string, resumeAt time.Time) error
	// CancelAtPeriodEnd schedules cancellation for the end of the current
	// billing period, annotated with the customer's reason.
	CancelAtPeriodEnd(subscriptionRef, reason string) error
	// ClearCancelAtPeriodEnd reverts a pending cancellation.
	ClearCancelAtPeriodEnd(subscriptionRef string) error
}

// Error marks a provider-side failure. Callers treat these as retryable
// and must not apply local state changes when one is returned.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("billing provider: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
