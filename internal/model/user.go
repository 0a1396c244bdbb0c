package model

import "gorm.io/gorm"

// Subscription status values, mirrored from the billing provider.
const (
	StatusNone     = "none"
	StatusTrialing = "trialing"
	StatusActive   = "active"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
)

// IsPaidStatus reports whether a provider status grants paid access.
func IsPaidStatus(status string) bool {
	return status == StatusActive || status == StatusTrialing
}

type User struct {
	gorm.Model
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	FullName string `json:"full_name"`
	IsAdmin  bool   `json:"is_admin" gorm:"default:false"`

	TeamID    *uint `json:"team_id"`
	CompanyID *uint `json:"company_id"`

	SubscriptionStatus   string `json:"subscription_status" gorm:"default:'none'"`
	StripeSubscriptionID string `json:"stripe_subscription_id"`

	Team    *Team    `json:"-" gorm:"foreignKey:TeamID"`
	Company *Company `json:"-" gorm:"foreignKey:CompanyID"`
}

func (u *User) HasPaidStatus() bool {
	return IsPaidStatus(u.SubscriptionStatus)
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"email":     u.Email,
		"username":  u.Username,
		"full_name": u.FullName,
		"is_admin":  u.IsAdmin,
	}
}
