package model

import (
	"time"

	"gorm.io/gorm"
)

// Team holds a shared subscription; members inherit access through their
// team reference.
type Team struct {
	gorm.Model
	Name    string `json:"name" gorm:"not null"`
	OwnerID uint   `json:"owner_id" gorm:"index;not null"`

	SubscriptionStatus    string     `json:"subscription_status" gorm:"default:'none'"`
	SubscriptionPlan      string     `json:"subscription_plan"`
	SubscriptionStartDate *time.Time `json:"subscription_start_date"`
	SubscriptionEndDate   *time.Time `json:"subscription_end_date"`
	TrialEndDate          *time.Time `json:"trial_end_date"`
	StripeSubscriptionID  string     `json:"stripe_subscription_id"`
}

func (t *Team) HasPaidStatus() bool {
	return IsPaidStatus(t.SubscriptionStatus)
}
