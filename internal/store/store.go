package store

import (
	"errors"
	"time"

	"courseloft_backend/internal/model"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrPromoExhausted is returned by RedeemPromo when the guarded
	// increment would push used_count past max_uses.
	ErrPromoExhausted = errors.New("promo code has no uses left")

	// ErrPromoAlreadyUsed is returned by RedeemPromo when the user already
	// holds a redemption for the code.
	ErrPromoAlreadyUsed = errors.New("promo code already redeemed by user")
)

// Store is the persistence boundary for accounts, teams, companies,
// subscriptions, promo codes and invoices.
type Store interface {
	GetUser(id uint) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	CreateUser(u *model.User) error
	SaveUser(u *model.User) error

	GetTeam(id uint) (*model.Team, error)

	GetCompany(id uint) (*model.Company, error)
	GetCompanyByStripeSubID(stripeSubID string) (*model.Company, error)
	SaveCompany(c *model.Company) error
	// ListCompaniesEndingTrial returns active trial companies whose trial
	// ends at or before the cutoff, i.e. every company the daily lifecycle
	// pass could touch.
	ListCompaniesEndingTrial(cutoff time.Time) ([]model.Company, error)

	GetSubscription(id uint) (*model.Subscription, error)
	GetSubscriptionByStripeID(stripeSubID string) (*model.Subscription, error)
	GetLiveSubscriptionForUser(userID uint) (*model.Subscription, error)
	SaveSubscription(s *model.Subscription) error

	ListInvoicesForUser(userID uint) ([]model.Invoice, error)
	CreateInvoice(inv *model.Invoice) error

	GetPromoCode(code string) (*model.PromoCode, error)
	CreatePromoCode(p *model.PromoCode) error
	// RedeemPromo atomically re-checks redemption uniqueness and the usage
	// cap, creates the subscription and the redemption record, and
	// increments used_count. Two concurrent calls for the same user+code
	// cannot both succeed, and used_count never exceeds max_uses.
	RedeemPromo(userID uint, promoCodeID uint, sub *model.Subscription) (*model.PromoRedemption, error)
}
