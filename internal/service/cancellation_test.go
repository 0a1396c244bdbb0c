package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseloft_backend/internal/model"
	"courseloft_backend/internal/store"
	"courseloft_backend/pkg/billing"
)

type fakeBilling struct {
	pauseCalls  int
	cancelCalls int
	clearCalls  int

	lastRef      string
	lastReason   string
	lastResumeAt time.Time

	err error
}

func (f *fakeBilling) PauseCollection(ref string, resumeAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.pauseCalls++
	f.lastRef = ref
	f.lastResumeAt = resumeAt
	return nil
}

func (f *fakeBilling) CancelAtPeriodEnd(ref, reason string) error {
	if f.err != nil {
		return f.err
	}
	f.cancelCalls++
	f.lastRef = ref
	f.lastReason = reason
	return nil
}

func (f *fakeBilling) ClearCancelAtPeriodEnd(ref string) error {
	if f.err != nil {
		return f.err
	}
	f.clearCalls++
	f.lastRef = ref
	return nil
}

func ownedSub(s *store.MemoryStore, userID uint) *model.Subscription {
	sub := &model.Subscription{
		UserID:               userID,
		Status:               model.StatusActive,
		StripeSubscriptionID: "sub_stripe_1",
		CurrentPeriodStart:   time.Now().AddDate(0, -1, 0),
		CurrentPeriodEnd:     time.Now().AddDate(0, 0, 10),
	}
	s.AddSubscription(sub)
	return sub
}

func TestCancelAtPeriodEnd(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	provider := &fakeBilling{}
	svc := NewCancellationService(s, provider)

	sub := ownedSub(s, 1)

	result, err := svc.Cancel(1, sub.ID, "too expensive", false)
	require.NoError(t, err)
	assert.False(t, result.RetentionApplied)
	require.NotNil(t, result.CanceledAt)

	assert.Equal(t, 1, provider.cancelCalls)
	assert.Equal(t, "sub_stripe_1", provider.lastRef)
	assert.Equal(t, "too expensive", provider.lastReason)

	got, err := s.GetSubscription(sub.ID)
	require.NoError(t, err)
	assert.True(t, got.CancelAtPeriodEnd)
	assert.Equal(t, "too expensive", got.CancelReason)
	require.NotNil(t, got.CanceledAt)
}

func TestCancelWithRetentionOffer(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	provider := &fakeBilling{}
	svc := NewCancellationService(s, provider)

	sub := ownedSub(s, 1)
	oldEnd := sub.CurrentPeriodEnd

	result, err := svc.Cancel(1, sub.ID, "", true)
	require.NoError(t, err)
	assert.True(t, result.RetentionApplied)
	require.NotNil(t, result.NewPeriodEnd)
	assert.WithinDuration(t, oldEnd.AddDate(0, 1, 0), *result.NewPeriodEnd, time.Second)

	assert.Equal(t, 1, provider.pauseCalls)
	assert.Equal(t, 0, provider.cancelCalls)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), provider.lastResumeAt, time.Minute)

	got, err := s.GetSubscription(sub.ID)
	require.NoError(t, err)
	assert.True(t, got.RetentionOfferApplied)
	assert.False(t, got.CancelAtPeriodEnd)
}

func TestRetentionOfferIsOneTime(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	provider := &fakeBilling{}
	svc := NewCancellationService(s, provider)

	sub := ownedSub(s, 1)

	_, err := svc.Cancel(1, sub.ID, "", true)
	require.NoError(t, err)

	// Second attempt with the offer accepted falls through to a plain
	// cancellation.
	result, err := svc.Cancel(1, sub.ID, "still leaving", true)
	require.NoError(t, err)
	assert.False(t, result.RetentionApplied)
	assert.Equal(t, 1, provider.pauseCalls)
	assert.Equal(t, 1, provider.cancelCalls)
}

func TestCancelProviderFailureLeavesLocalStateUntouched(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	provider := &fakeBilling{err: &billing.Error{Op: "cancel at period end", Err: assert.AnError}}
	svc := NewCancellationService(s, provider)

	sub := ownedSub(s, 1)

	_, err := svc.Cancel(1, sub.ID, "bye", false)
	require.Error(t, err)

	var billingErr *billing.Error
	require.ErrorAs(t, err, &billingErr)

	got, err := s.GetSubscription(sub.ID)
	require.NoError(t, err)
	assert.False(t, got.CancelAtPeriodEnd)
	assert.Empty(t, got.CancelReason)
	assert.Nil(t, got.CanceledAt)
}

func TestCancelRequiresOwnership(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	provider := &fakeBilling{}
	svc := NewCancellationService(s, provider)

	sub := ownedSub(s, 1)

	_, err := svc.Cancel(2, sub.ID, "", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, 0, provider.cancelCalls)

	_, err = svc.Cancel(1, 999, "", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReactivate(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	provider := &fakeBilling{}
	svc := NewCancellationService(s, provider)

	sub := ownedSub(s, 1)
	now := time.Now()
	sub.CancelAtPeriodEnd = true
	sub.CancelReason = "changed mind later"
	sub.CanceledAt = &now
	require.NoError(t, s.SaveSubscription(sub))

	got, err := svc.Reactivate(1, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.clearCalls)
	assert.False(t, got.CancelAtPeriodEnd)
	assert.Nil(t, got.CanceledAt)
	require.NotNil(t, got.ReactivatedAt)
}

func TestReactivateProviderFailureLeavesFlagSet(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	provider := &fakeBilling{err: &billing.Error{Op: "clear cancel at period end", Err: assert.AnError}}
	svc := NewCancellationService(s, provider)

	sub := ownedSub(s, 1)
	sub.CancelAtPeriodEnd = true
	require.NoError(t, s.SaveSubscription(sub))

	_, err := svc.Reactivate(1, sub.ID)
	require.Error(t, err)

	got, err := s.GetSubscription(sub.ID)
	require.NoError(t, err)
	assert.True(t, got.CancelAtPeriodEnd)
}

func TestListInvoicesNewestFirst(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	svc := NewCancellationService(s, &fakeBilling{})

	older := &model.Invoice{UserID: 1, Number: "INV-1", AmountPaid: 1900}
	older.CreatedAt = time.Now().AddDate(0, -2, 0)
	require.NoError(t, s.CreateInvoice(older))

	newer := &model.Invoice{UserID: 1, Number: "INV-2", AmountPaid: 1900}
	newer.CreatedAt = time.Now().AddDate(0, -1, 0)
	require.NoError(t, s.CreateInvoice(newer))

	other := &model.Invoice{UserID: 2, Number: "INV-3"}
	require.NoError(t, s.CreateInvoice(other))

	invoices, err := svc.ListInvoices(1)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "INV-2", invoices[0].Number)
	assert.Equal(t, "INV-1", invoices[1].Number)
}
