package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseloft_backend/internal/model"
	"courseloft_backend/internal/store"
)

func uintPtr(v uint) *uint { return &v }

func TestResolveOwnStatusDirect(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	resolver := NewAccessResolver(s)

	user := &model.User{
		SubscriptionStatus:   model.StatusActive,
		StripeSubscriptionID: "sub_direct_1",
	}
	require.NoError(t, s.CreateUser(user))

	view, err := resolver.Resolve(user)
	require.NoError(t, err)
	assert.True(t, view.HasAccess)
	assert.Equal(t, SourceDirect, view.Source)
	assert.Equal(t, "sub_direct_1", view.StripeSubscriptionID)
}

func TestResolveOwnStatusWithTeamUsesTeamFields(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	resolver := NewAccessResolver(s)

	// The team itself has no paid status: display fields come from the
	// team but access derives from the user's own provider status.
	team := &model.Team{
		Name:               "Design Guild",
		SubscriptionStatus: model.StatusNone,
		SubscriptionPlan:   "TEAM",
	}
	s.AddTeam(team)

	user := &model.User{
		SubscriptionStatus:   model.StatusActive,
		StripeSubscriptionID: "sub_own_ref",
		TeamID:               uintPtr(team.ID),
	}
	require.NoError(t, s.CreateUser(user))

	view, err := resolver.Resolve(user)
	require.NoError(t, err)
	assert.True(t, view.HasAccess)
	assert.Equal(t, SourceTeam, view.Source)
	assert.Equal(t, "TEAM", view.Plan)
	// Team carries no subscription reference, fall back to the user's own.
	assert.Equal(t, "sub_own_ref", view.StripeSubscriptionID)
	assert.False(t, view.InheritedFromTeam)
}

func TestResolveDirectSubscriptionRow(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	resolver := NewAccessResolver(s)

	user := &model.User{SubscriptionStatus: model.StatusNone}
	require.NoError(t, s.CreateUser(user))

	periodEnd := time.Now().AddDate(0, 1, 0)
	s.AddSubscription(&model.Subscription{
		UserID:               user.ID,
		Status:               model.StatusTrialing,
		StripeSubscriptionID: "sub_row_1",
		CurrentPeriodEnd:     periodEnd,
	})

	view, err := resolver.Resolve(user)
	require.NoError(t, err)
	assert.True(t, view.HasAccess)
	assert.Equal(t, SourceDirect, view.Source)
	assert.Equal(t, model.StatusTrialing, view.Status)
	require.NotNil(t, view.CurrentPeriodEnd)
	assert.WithinDuration(t, periodEnd, *view.CurrentPeriodEnd, time.Second)
}

func TestResolveTeamInheritance(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	resolver := NewAccessResolver(s)

	team := &model.Team{
		Name:                 "Sales Org",
		SubscriptionStatus:   model.StatusActive,
		SubscriptionPlan:     "TEAM",
		StripeSubscriptionID: "sub_team_1",
	}
	s.AddTeam(team)

	user := &model.User{
		SubscriptionStatus: model.StatusCanceled,
		TeamID:             uintPtr(team.ID),
	}
	require.NoError(t, s.CreateUser(user))

	view, err := resolver.Resolve(user)
	require.NoError(t, err)
	assert.True(t, view.HasAccess)
	assert.Equal(t, SourceTeam, view.Source)
	assert.True(t, view.InheritedFromTeam)
	assert.Equal(t, "sub_team_1", view.StripeSubscriptionID)
}

func TestResolveCompanyFallback(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	resolver := NewAccessResolver(s)

	company := &model.Company{
		Name:               "Globex",
		Plan:               model.CompanyPlanPaid,
		Status:             model.CompanyStatusActive,
		SubscriptionStatus: model.StatusTrialing,
	}
	s.AddCompany(company)

	user := &model.User{
		SubscriptionStatus: model.StatusNone,
		CompanyID:          uintPtr(company.ID),
	}
	require.NoError(t, s.CreateUser(user))

	view, err := resolver.Resolve(user)
	require.NoError(t, err)
	assert.True(t, view.HasAccess)
	assert.Equal(t, SourceCompany, view.Source)
	assert.Equal(t, model.StatusTrialing, view.Status)
}

func TestResolvePriorityDirectBeatsTeamAndCompany(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	resolver := NewAccessResolver(s)

	team := &model.Team{Name: "T", SubscriptionStatus: model.StatusActive}
	s.AddTeam(team)
	company := &model.Company{Name: "C", SubscriptionStatus: model.StatusActive}
	s.AddCompany(company)

	user := &model.User{
		SubscriptionStatus: model.StatusNone,
		TeamID:             uintPtr(team.ID),
		CompanyID:          uintPtr(company.ID),
	}
	require.NoError(t, s.CreateUser(user))

	s.AddSubscription(&model.Subscription{
		UserID: user.ID,
		Status: model.StatusActive,
	})

	view, err := resolver.Resolve(user)
	require.NoError(t, err)
	assert.Equal(t, SourceDirect, view.Source)
}

func TestResolveNoAccess(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	resolver := NewAccessResolver(s)

	user := &model.User{SubscriptionStatus: model.StatusPastDue}
	require.NoError(t, s.CreateUser(user))

	view, err := resolver.Resolve(user)
	require.NoError(t, err)
	assert.False(t, view.HasAccess)
	assert.Equal(t, SourceNone, view.Source)
}
