package service

import (
	"fmt"
	"log"
	"time"

	"courseloft_backend/internal/model"
	"courseloft_backend/internal/store"
)

const (
	threeDayWindow = 3 * 24 * time.Hour
	sevenDayWindow = 7 * 24 * time.Hour
)

// EntityError records a single company's failure during a pass.
type EntityError struct {
	CompanyID uint   `json:"company_id"`
	Error     string `json:"error"`
}

// PassSummary is the outcome of one daily lifecycle pass.
type PassSummary struct {
	Suspended    int           `json:"suspended"`
	WarningsSent int           `json:"warnings_sent"`
	Errors       []EntityError `json:"errors,omitempty"`
}

// TrialLifecycleService advances trial companies through warnings and
// suspension. One pass per day; re-running a pass is a no-op for companies
// already advanced because every transition is guarded by its own flag or
// status check.
type TrialLifecycleService struct {
	store    store.Store
	notifier Notifier
}

func NewTrialLifecycleService(s store.Store, n Notifier) *TrialLifecycleService {
	return &TrialLifecycleService{store: s, notifier: n}
}

// RunDailyPass processes every active trial company ending within seven
// days. Companies are independent: one failure is recorded and the pass
// continues.
func (s *TrialLifecycleService) RunDailyPass(now time.Time) PassSummary {
	summary := PassSummary{}

	companies, err := s.store.ListCompaniesEndingTrial(now.Add(sevenDayWindow))
	if err != nil {
		log.Printf("Trial lifecycle pass aborted, could not list companies: %v", err)
		summary.Errors = append(summary.Errors, EntityError{Error: err.Error()})
		return summary
	}

	for i := range companies {
		company := &companies[i]
		if err := s.processCompany(company, now, &summary); err != nil {
			summary.Errors = append(summary.Errors, EntityError{
				CompanyID: company.ID,
				Error:     err.Error(),
			})
		}
	}

	log.Printf("Trial lifecycle pass complete: %d suspended, %d warnings, %d errors",
		summary.Suspended, summary.WarningsSent, len(summary.Errors))
	return summary
}

// processCompany applies at most one transition. The 3-day and 7-day
// windows are disjoint, so a company never receives both warnings in one
// pass.
func (s *TrialLifecycleService) processCompany(company *model.Company, now time.Time, summary *PassSummary) error {
	until := company.TrialEndsAt.Sub(now)

	switch {
	case until <= 0:
		return s.suspend(company, now, summary)
	case until <= threeDayWindow:
		if !company.ThreeDayWarningSent {
			return s.warn(company, now, 3, summary)
		}
	case until <= sevenDayWindow:
		if !company.SevenDayWarningSent {
			return s.warn(company, now, 7, summary)
		}
	}
	return nil
}

// suspend revokes access first; a failed expiry notification is logged but
// never rolls back or blocks the suspension.
func (s *TrialLifecycleService) suspend(company *model.Company, now time.Time, summary *PassSummary) error {
	company.Status = model.CompanyStatusSuspended
	company.SuspendedAt = &now
	company.SuspendReason = model.SuspendReasonTrialExpired

	if err := s.store.SaveCompany(company); err != nil {
		return fmt.Errorf("suspend: %w", err)
	}
	summary.Suspended++
	log.Printf("Suspended company %d (%s): trial expired %s", company.ID, company.Name, company.TrialEndsAt)

	if err := s.notifier.SendTrialExpired(company.BillingEmail); err != nil {
		log.Printf("Could not send trial expired email to %s: %v", company.BillingEmail, err)
	}
	return nil
}

// warn sends first and flags only on success, so a failed send is retried
// on the next pass.
func (s *TrialLifecycleService) warn(company *model.Company, now time.Time, days int, summary *PassSummary) error {
	if err := s.notifier.SendTrialWarning(company.BillingEmail, days, *company.TrialEndsAt); err != nil {
		return fmt.Errorf("send %d-day warning: %w", days, err)
	}

	if days == 3 {
		company.ThreeDayWarningSent = true
		company.ThreeDayWarningSentAt = &now
	} else {
		company.SevenDayWarningSent = true
		company.SevenDayWarningSentAt = &now
	}

	if err := s.store.SaveCompany(company); err != nil {
		return fmt.Errorf("record %d-day warning: %w", days, err)
	}
	summary.WarningsSent++
	return nil
}
