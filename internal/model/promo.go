package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// PromoCode grants a fixed-duration direct subscription. Codes are matched
// case-insensitively; NormalizePromoCode is applied before any lookup.
type PromoCode struct {
	gorm.Model
	Code           string     `json:"code" gorm:"uniqueIndex;not null"`
	Active         bool       `json:"active" gorm:"default:true"`
	ExpiresAt      *time.Time `json:"expires_at"`
	MaxUses        *int       `json:"max_uses"`
	UsedCount      int        `json:"used_count" gorm:"default:0"`
	DurationMonths int        `json:"duration_months" gorm:"default:1"`
}

func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (p *PromoCode) IsExpiredAt(now time.Time) bool {
	return p.ExpiresAt != nil && !p.ExpiresAt.After(now)
}

func (p *PromoCode) IsExhausted() bool {
	return p.MaxUses != nil && p.UsedCount >= *p.MaxUses
}

// PromoRedemption records one redemption; the composite unique index keeps
// a user from redeeming the same code twice.
type PromoRedemption struct {
	gorm.Model
	UserID         uint `json:"user_id" gorm:"not null;uniqueIndex:idx_promo_redemption_user_code"`
	PromoCodeID    uint `json:"promo_code_id" gorm:"not null;uniqueIndex:idx_promo_redemption_user_code"`
	SubscriptionID uint `json:"subscription_id" gorm:"not null"`
}
