package service

import (
	"time"

	"courseloft_backend/internal/model"
	"courseloft_backend/internal/store"
)

const (
	minExtensionDays = 1
	maxExtensionDays = 90
)

// TrialStatus is the read model for a company's trial.
type TrialStatus struct {
	Plan          string     `json:"plan"`
	Status        string     `json:"status"`
	TrialEndsAt   *time.Time `json:"trial_ends_at"`
	DaysRemaining int        `json:"days_remaining"`
	IsExpired     bool       `json:"is_expired"`
	SuspendedAt   *time.Time `json:"suspended_at,omitempty"`
	SuspendReason string     `json:"suspend_reason,omitempty"`
}

// TrialService reads and extends company trials.
type TrialService struct {
	store store.Store
}

func NewTrialService(s store.Store) *TrialService {
	return &TrialService{store: s}
}

func (s *TrialService) Status(companyID uint) (*TrialStatus, error) {
	company, err := s.store.GetCompany(companyID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &TrialStatus{
		Plan:          company.Plan,
		Status:        company.Status,
		TrialEndsAt:   company.TrialEndsAt,
		DaysRemaining: company.TrialDaysRemainingAt(now),
		IsExpired:     company.TrialExpiredAt(now),
		SuspendedAt:   company.SuspendedAt,
		SuspendReason: company.SuspendReason,
	}, nil
}

// Extend pushes the trial end out by the given number of days, counted
// from the current trial end or from now if the trial already lapsed. An
// extension always reactivates the company and clears every warning flag,
// so the lifecycle pass starts over on the new countdown.
func (s *TrialService) Extend(companyID uint, days int, extendedBy string) (*model.Company, error) {
	if days < minExtensionDays || days > maxExtensionDays {
		return nil, ErrInvalidArgument
	}

	company, err := s.store.GetCompany(companyID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	base := now
	if company.TrialEndsAt != nil && company.TrialEndsAt.After(now) {
		base = *company.TrialEndsAt
	}
	newEnd := base.AddDate(0, 0, days)

	company.TrialEndsAt = &newEnd
	company.Status = model.CompanyStatusActive
	company.SuspendedAt = nil
	company.SuspendReason = ""
	company.ThreeDayWarningSent = false
	company.ThreeDayWarningSentAt = nil
	company.SevenDayWarningSent = false
	company.SevenDayWarningSentAt = nil
	company.TrialExtendedBy = extendedBy
	company.TrialExtendedAt = &now

	if err := s.store.SaveCompany(company); err != nil {
		return nil, err
	}
	return company, nil
}
