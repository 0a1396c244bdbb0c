package service

import (
	"time"

	"courseloft_backend/internal/model"
	"courseloft_backend/internal/store"
	"courseloft_backend/pkg/billing"
)

const retentionPauseDays = 30

// CancelResult reports the outcome of a cancellation request.
type CancelResult struct {
	Message          string     `json:"message"`
	RetentionApplied bool       `json:"retention_applied"`
	NewPeriodEnd     *time.Time `json:"new_period_end,omitempty"`
	CanceledAt       *time.Time `json:"canceled_at,omitempty"`
}

// CancellationService mutates direct subscriptions in lockstep with the
// billing provider. The provider call always runs first; if it fails the
// local record is left untouched, because the provider is the source of
// truth for actual charging.
type CancellationService struct {
	store   store.Store
	billing billing.Provider
}

func NewCancellationService(s store.Store, b billing.Provider) *CancellationService {
	return &CancellationService{store: s, billing: b}
}

func (s *CancellationService) ownedSubscription(callerID, subscriptionID uint) (*model.Subscription, error) {
	sub, err := s.store.GetSubscription(subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != callerID {
		return nil, ErrPermissionDenied
	}
	return sub, nil
}

// Cancel schedules cancellation at the period end, or applies the
// retention offer instead: billing paused for 30 days at the provider and
// one extra month on the local period. The offer is one-time; a
// subscription that already used it gets the plain cancel path.
func (s *CancellationService) Cancel(callerID, subscriptionID uint, reason string, acceptRetentionOffer bool) (*CancelResult, error) {
	sub, err := s.ownedSubscription(callerID, subscriptionID)
	if err != nil {
		return nil, err
	}

	if acceptRetentionOffer && !sub.RetentionOfferApplied {
		return s.applyRetentionOffer(sub)
	}

	if err := s.billing.CancelAtPeriodEnd(sub.StripeSubscriptionID, reason); err != nil {
		return nil, err
	}

	now := time.Now()
	sub.CancelAtPeriodEnd = true
	sub.CancelReason = reason
	sub.CanceledAt = &now
	if err := s.store.SaveSubscription(sub); err != nil {
		return nil, err
	}

	return &CancelResult{
		Message:    "Subscription will be cancelled at the end of the current billing period",
		CanceledAt: sub.CanceledAt,
	}, nil
}

func (s *CancellationService) applyRetentionOffer(sub *model.Subscription) (*CancelResult, error) {
	now := time.Now()
	resumeAt := now.AddDate(0, 0, retentionPauseDays)

	if err := s.billing.PauseCollection(sub.StripeSubscriptionID, resumeAt); err != nil {
		return nil, err
	}

	sub.CurrentPeriodEnd = sub.CurrentPeriodEnd.AddDate(0, 1, 0)
	sub.RetentionOfferApplied = true
	sub.RetentionOfferAppliedAt = &now
	if err := s.store.SaveSubscription(sub); err != nil {
		return nil, err
	}

	return &CancelResult{
		Message:          "Billing paused for 30 days, your subscription stays active",
		RetentionApplied: true,
		NewPeriodEnd:     &sub.CurrentPeriodEnd,
	}, nil
}

// Reactivate reverts a pending cancellation.
func (s *CancellationService) Reactivate(callerID, subscriptionID uint) (*model.Subscription, error) {
	sub, err := s.ownedSubscription(callerID, subscriptionID)
	if err != nil {
		return nil, err
	}

	if err := s.billing.ClearCancelAtPeriodEnd(sub.StripeSubscriptionID); err != nil {
		return nil, err
	}

	now := time.Now()
	sub.CancelAtPeriodEnd = false
	sub.CancelReason = ""
	sub.CanceledAt = nil
	sub.ReactivatedAt = &now
	if err := s.store.SaveSubscription(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ListInvoices is a read-only projection; no provider round-trip.
func (s *CancellationService) ListInvoices(callerID uint) ([]model.Invoice, error) {
	return s.store.ListInvoicesForUser(callerID)
}
