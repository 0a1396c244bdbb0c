package service

import (
	"errors"
	"time"

	"courseloft_backend/internal/model"
	"courseloft_backend/internal/store"
)

const (
	SourceDirect  = "direct"
	SourceTeam    = "team"
	SourceCompany = "company"
	SourceNone    = "none"
)

// AccessView is the result of resolving a user's paid-content access.
type AccessView struct {
	HasAccess bool   `json:"has_access"`
	Source    string `json:"source"`

	Status               string     `json:"status,omitempty"`
	Plan                 string     `json:"plan,omitempty"`
	StripeSubscriptionID string     `json:"stripe_subscription_id,omitempty"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end,omitempty"`
	TrialEnd             *time.Time `json:"trial_end,omitempty"`
	InheritedFromTeam    bool       `json:"inherited_from_team,omitempty"`
	TeamID               *uint      `json:"team_id,omitempty"`
	CompanyID            *uint      `json:"company_id,omitempty"`
}

// AccessResolver decides whether a user currently has paid access and from
// which relationship it derives. Read-only; no writes, no caching.
type AccessResolver struct {
	store store.Store
}

func NewAccessResolver(s store.Store) *AccessResolver {
	return &AccessResolver{store: s}
}

type accessSource func(*model.User) (*AccessView, error)

// Resolve checks the sources in priority order and stops at the first one
// that grants access. An account's own provider status wins over a direct
// subscription row, which wins over team, which wins over company.
func (r *AccessResolver) Resolve(user *model.User) (*AccessView, error) {
	sources := []accessSource{
		r.ownProviderStatus,
		r.directSubscription,
		r.teamSubscription,
		r.companySubscription,
	}

	for _, source := range sources {
		view, err := source(user)
		if err != nil {
			return nil, err
		}
		if view != nil {
			return view, nil
		}
	}

	return &AccessView{HasAccess: false, Source: SourceNone}, nil
}

// ownProviderStatus grants access when the account itself carries an
// active or trialing provider status. If the account belongs to a team the
// team's billing fields are used for display, falling back to the
// account's own subscription reference when the team lacks one.
func (r *AccessResolver) ownProviderStatus(user *model.User) (*AccessView, error) {
	if !user.HasPaidStatus() {
		return nil, nil
	}

	if user.TeamID != nil {
		team, err := r.store.GetTeam(*user.TeamID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		if team != nil {
			stripeID := team.StripeSubscriptionID
			if stripeID == "" {
				stripeID = user.StripeSubscriptionID
			}
			return &AccessView{
				HasAccess:            true,
				Source:               SourceTeam,
				Status:               user.SubscriptionStatus,
				Plan:                 team.SubscriptionPlan,
				StripeSubscriptionID: stripeID,
				CurrentPeriodEnd:     team.SubscriptionEndDate,
				TrialEnd:             team.TrialEndDate,
				TeamID:               user.TeamID,
			}, nil
		}
	}

	return &AccessView{
		HasAccess:            true,
		Source:               SourceDirect,
		Status:               user.SubscriptionStatus,
		StripeSubscriptionID: user.StripeSubscriptionID,
	}, nil
}

func (r *AccessResolver) directSubscription(user *model.User) (*AccessView, error) {
	sub, err := r.store.GetLiveSubscriptionForUser(user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &AccessView{
		HasAccess:            true,
		Source:               SourceDirect,
		Status:               sub.Status,
		StripeSubscriptionID: sub.StripeSubscriptionID,
		CurrentPeriodEnd:     &sub.CurrentPeriodEnd,
		TrialEnd:             sub.TrialEnd,
	}, nil
}

func (r *AccessResolver) teamSubscription(user *model.User) (*AccessView, error) {
	if user.TeamID == nil {
		return nil, nil
	}

	team, err := r.store.GetTeam(*user.TeamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !team.HasPaidStatus() {
		return nil, nil
	}

	return &AccessView{
		HasAccess:            true,
		Source:               SourceTeam,
		Status:               team.SubscriptionStatus,
		Plan:                 team.SubscriptionPlan,
		StripeSubscriptionID: team.StripeSubscriptionID,
		CurrentPeriodEnd:     team.SubscriptionEndDate,
		TrialEnd:             team.TrialEndDate,
		InheritedFromTeam:    true,
		TeamID:               user.TeamID,
	}, nil
}

// companySubscription grants access from a B2B relationship. Company trial
// state lives in the provider-mirrored SubscriptionStatus, not in
// Plan="trial"; a trialing company grants access the same as an active one.
func (r *AccessResolver) companySubscription(user *model.User) (*AccessView, error) {
	if user.CompanyID == nil {
		return nil, nil
	}

	company, err := r.store.GetCompany(*user.CompanyID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !company.HasPaidStatus() {
		return nil, nil
	}

	return &AccessView{
		HasAccess:            true,
		Source:               SourceCompany,
		Status:               company.SubscriptionStatus,
		Plan:                 company.Plan,
		StripeSubscriptionID: company.StripeSubscriptionID,
		TrialEnd:             company.TrialEndsAt,
		CompanyID:            user.CompanyID,
	}, nil
}
