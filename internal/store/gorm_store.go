package store

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"courseloft_backend/internal/model"
)

// GormStore is the production Store backed by PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *GormStore) GetUser(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) CreateUser(u *model.User) error {
	return s.db.Create(u).Error
}

func (s *GormStore) SaveUser(u *model.User) error {
	return s.db.Save(u).Error
}

func (s *GormStore) GetTeam(id uint) (*model.Team, error) {
	var team model.Team
	if err := s.db.First(&team, id).Error; err != nil {
		return nil, translate(err)
	}
	return &team, nil
}

func (s *GormStore) GetCompany(id uint) (*model.Company, error) {
	var company model.Company
	if err := s.db.First(&company, id).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

func (s *GormStore) GetCompanyByStripeSubID(stripeSubID string) (*model.Company, error) {
	var company model.Company
	if err := s.db.Where("stripe_subscription_id = ?", stripeSubID).First(&company).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

func (s *GormStore) SaveCompany(c *model.Company) error {
	return s.db.Save(c).Error
}

func (s *GormStore) ListCompaniesEndingTrial(cutoff time.Time) ([]model.Company, error) {
	var companies []model.Company
	err := s.db.
		Where("plan = ? AND status = ? AND trial_ends_at IS NOT NULL AND trial_ends_at <= ?",
			model.CompanyPlanTrial, model.CompanyStatusActive, cutoff).
		Find(&companies).Error
	return companies, err
}

func (s *GormStore) GetSubscription(id uint) (*model.Subscription, error) {
	var sub model.Subscription
	if err := s.db.First(&sub, id).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (s *GormStore) GetSubscriptionByStripeID(stripeSubID string) (*model.Subscription, error) {
	var sub model.Subscription
	if err := s.db.Where("stripe_subscription_id = ?", stripeSubID).First(&sub).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (s *GormStore) GetLiveSubscriptionForUser(userID uint) (*model.Subscription, error) {
	var sub model.Subscription
	err := s.db.
		Where("user_id = ? AND status IN ?", userID, []string{model.StatusActive, model.StatusTrialing}).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (s *GormStore) SaveSubscription(sub *model.Subscription) error {
	return s.db.Save(sub).Error
}

func (s *GormStore) ListInvoicesForUser(userID uint) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&invoices).Error
	return invoices, err
}

func (s *GormStore) CreateInvoice(inv *model.Invoice) error {
	return s.db.Create(inv).Error
}

func (s *GormStore) GetPromoCode(code string) (*model.PromoCode, error) {
	var promo model.PromoCode
	if err := s.db.Where("code = ?", model.NormalizePromoCode(code)).First(&promo).Error; err != nil {
		return nil, translate(err)
	}
	return &promo, nil
}

func (s *GormStore) CreatePromoCode(p *model.PromoCode) error {
	p.Code = model.NormalizePromoCode(p.Code)
	return s.db.Create(p).Error
}

// RedeemPromo locks the promo row for the duration of the transaction, so
// concurrent redemptions of the same code serialize here. The uniqueness
// check and the guarded increment both run under that lock.
func (s *GormStore) RedeemPromo(userID uint, promoCodeID uint, sub *model.Subscription) (*model.PromoRedemption, error) {
	var redemption *model.PromoRedemption

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var promo model.PromoCode
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&promo, promoCodeID).Error; err != nil {
			return translate(err)
		}

		var prior int64
		if err := tx.Model(&model.PromoRedemption{}).
			Where("user_id = ? AND promo_code_id = ?", userID, promoCodeID).
			Count(&prior).Error; err != nil {
			return err
		}
		if prior > 0 {
			return ErrPromoAlreadyUsed
		}

		if promo.IsExhausted() {
			return ErrPromoExhausted
		}

		if err := tx.Create(sub).Error; err != nil {
			return err
		}

		redemption = &model.PromoRedemption{
			UserID:         userID,
			PromoCodeID:    promoCodeID,
			SubscriptionID: sub.ID,
		}
		if err := tx.Create(redemption).Error; err != nil {
			return err
		}

		return tx.Model(&model.PromoCode{}).
			Where("id = ?", promoCodeID).
			UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return redemption, nil
}
