package model

import (
	"time"

	"gorm.io/gorm"
)

// Subscription is a direct (non-team, non-company) subscription owned by
// exactly one user.
type Subscription struct {
	gorm.Model
	UserID               uint       `json:"user_id" gorm:"index;not null"`
	StripeSubscriptionID string     `json:"stripe_subscription_id"`
	Status               string     `json:"status" gorm:"default:'active'"`
	CurrentPeriodStart   time.Time  `json:"current_period_start"`
	CurrentPeriodEnd     time.Time  `json:"current_period_end"`
	TrialEnd             *time.Time `json:"trial_end"`

	CancelAtPeriodEnd bool       `json:"cancel_at_period_end" gorm:"default:false"`
	CancelReason      string     `json:"cancel_reason"`
	CanceledAt        *time.Time `json:"canceled_at"`
	ReactivatedAt     *time.Time `json:"reactivated_at"`

	RetentionOfferApplied   bool       `json:"retention_offer_applied" gorm:"default:false"`
	RetentionOfferAppliedAt *time.Time `json:"retention_offer_applied_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (s *Subscription) IsLive() bool {
	return IsPaidStatus(s.Status)
}
