package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	CompanyPlanTrial = "trial"
	CompanyPlanPaid  = "paid"

	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"

	SuspendReasonTrialExpired = "trial_expired"
)

// Company is a B2B customer. Trial countdown and suspension are driven by
// the daily lifecycle pass; SubscriptionStatus is mirrored from the billing
// provider once the company converts to paid.
type Company struct {
	gorm.Model
	Name         string `json:"name" gorm:"not null"`
	Plan         string `json:"plan" gorm:"default:'trial'"`
	Status       string `json:"status" gorm:"default:'active'"`
	BillingEmail string `json:"billing_email"`

	TrialEndsAt *time.Time `json:"trial_ends_at"`

	SubscriptionStatus   string `json:"subscription_status" gorm:"default:'none'"`
	StripeSubscriptionID string `json:"stripe_subscription_id"`

	SuspendedAt   *time.Time `json:"suspended_at"`
	SuspendReason string     `json:"suspend_reason"`

	ThreeDayWarningSent   bool       `json:"three_day_warning_sent" gorm:"default:false"`
	ThreeDayWarningSentAt *time.Time `json:"three_day_warning_sent_at"`
	SevenDayWarningSent   bool       `json:"seven_day_warning_sent" gorm:"default:false"`
	SevenDayWarningSentAt *time.Time `json:"seven_day_warning_sent_at"`

	TrialExtendedBy string     `json:"trial_extended_by"`
	TrialExtendedAt *time.Time `json:"trial_extended_at"`
}

func (c *Company) HasPaidStatus() bool {
	return IsPaidStatus(c.SubscriptionStatus)
}

func (c *Company) TrialExpiredAt(now time.Time) bool {
	return c.TrialEndsAt != nil && !c.TrialEndsAt.After(now)
}

// TrialDaysRemainingAt rounds to the nearest whole day, so "2 days 1
// hour" reads as 2 days and "2 days 13 hours" as 3.
func (c *Company) TrialDaysRemainingAt(now time.Time) int {
	if c.TrialEndsAt == nil {
		return 0
	}
	remaining := c.TrialEndsAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Hours()/24 + 0.5)
}
