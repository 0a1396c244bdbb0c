package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseloft_backend/internal/model"
	"courseloft_backend/internal/store"
)

func intPtr(v int) *int { return &v }

func TestRedeemCreatesSubscription(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	svc := NewPromoService(s)

	require.NoError(t, s.CreatePromoCode(&model.PromoCode{
		Code:           "launch20",
		Active:         true,
		DurationMonths: 3,
	}))

	result, err := svc.Redeem(1, "Launch20")
	require.NoError(t, err)
	assert.Equal(t, 3, result.DurationMonths)
	require.NotNil(t, result.Subscription)
	assert.Equal(t, model.StatusActive, result.Subscription.Status)
	assert.WithinDuration(t, time.Now().AddDate(0, 3, 0), result.Subscription.CurrentPeriodEnd, time.Minute)

	promo, err := s.GetPromoCode("LAUNCH20")
	require.NoError(t, err)
	assert.Equal(t, 1, promo.UsedCount)
}

func TestRedeemDefaultsToOneMonth(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	svc := NewPromoService(s)

	require.NoError(t, s.CreatePromoCode(&model.PromoCode{
		Code:   "ONEFREE",
		Active: true,
	}))

	result, err := svc.Redeem(1, "ONEFREE")
	require.NoError(t, err)
	assert.Equal(t, 1, result.DurationMonths)
}

func TestRedeemUnknownOrInactiveCode(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	svc := NewPromoService(s)

	_, err := svc.Redeem(1, "NOPE")
	assert.ErrorIs(t, err, ErrPromoInvalid)

	require.NoError(t, s.CreatePromoCode(&model.PromoCode{
		Code:   "RETIRED",
		Active: false,
	}))
	_, err = svc.Redeem(1, "RETIRED")
	assert.ErrorIs(t, err, ErrPromoInvalid)
}

func TestRedeemExpiredCode(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	svc := NewPromoService(s)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, s.CreatePromoCode(&model.PromoCode{
		Code:      "OLDNEWS",
		Active:    true,
		ExpiresAt: &past,
	}))

	_, err := svc.Redeem(1, "OLDNEWS")
	assert.ErrorIs(t, err, ErrPromoExpired)
}

func TestRedeemExhaustedCodeCreatesNothing(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	svc := NewPromoService(s)

	require.NoError(t, s.CreatePromoCode(&model.PromoCode{
		Code:      "SAVE10",
		Active:    true,
		MaxUses:   intPtr(10),
		UsedCount: 10,
	}))

	_, err := svc.Redeem(1, "SAVE10")
	assert.ErrorIs(t, err, ErrPromoExhausted)

	_, err = s.GetLiveSubscriptionForUser(1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRedeemTwiceRejectedRegardlessOfMaxUses(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	svc := NewPromoService(s)

	require.NoError(t, s.CreatePromoCode(&model.PromoCode{
		Code:    "ONCE",
		Active:  true,
		MaxUses: intPtr(1),
	}))

	_, err := svc.Redeem(1, "ONCE")
	require.NoError(t, err)

	// The code is now exhausted too, but the same user must see
	// already-used, not exhausted.
	_, err = svc.Redeem(1, "ONCE")
	assert.ErrorIs(t, err, ErrPromoAlreadyUsed)
}

func TestConcurrentRedemptionsRespectCap(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	svc := NewPromoService(s)

	require.NoError(t, s.CreatePromoCode(&model.PromoCode{
		Code:    "LASTONE",
		Active:  true,
		MaxUses: intPtr(1),
	}))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Redeem(uint(i+1), "LASTONE")
		}(i)
	}
	wg.Wait()

	var successes, exhausted int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, ErrPromoExhausted):
			exhausted++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, exhausted)

	promo, err := s.GetPromoCode("LASTONE")
	require.NoError(t, err)
	assert.Equal(t, 1, promo.UsedCount)
}
