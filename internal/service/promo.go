package service

import (
	"errors"
	"time"

	"courseloft_backend/internal/model"
	"courseloft_backend/internal/store"
)

// RedeemResult is returned on a successful promo redemption.
type RedeemResult struct {
	Subscription   *model.Subscription `json:"subscription"`
	DurationMonths int                 `json:"duration_months"`
}

// PromoService validates and redeems promo codes. The uniqueness check and
// the usage-cap increment run atomically inside the store, so concurrent
// redemptions cannot oversubscribe a code.
type PromoService struct {
	store store.Store
}

func NewPromoService(s store.Store) *PromoService {
	return &PromoService{store: s}
}

// Redeem validates the code (active, not expired) and then hands the
// already-used and exhausted checks to the store transaction. A prior
// redemption by the same user wins over exhaustion.
func (s *PromoService) Redeem(userID uint, code string) (*RedeemResult, error) {
	normalized := model.NormalizePromoCode(code)
	if normalized == "" {
		return nil, ErrPromoInvalid
	}

	promo, err := s.store.GetPromoCode(normalized)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPromoInvalid
	}
	if err != nil {
		return nil, err
	}
	if !promo.Active {
		return nil, ErrPromoInvalid
	}

	now := time.Now()
	if promo.IsExpiredAt(now) {
		return nil, ErrPromoExpired
	}

	months := promo.DurationMonths
	if months < 1 {
		months = 1
	}

	sub := &model.Subscription{
		UserID:             userID,
		Status:             model.StatusActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, months, 0),
	}

	if _, err := s.store.RedeemPromo(userID, promo.ID, sub); err != nil {
		return nil, err
	}

	return &RedeemResult{Subscription: sub, DurationMonths: months}, nil
}
