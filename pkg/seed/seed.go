package seed

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"courseloft_backend/internal/model"
)

// SeedPromoCodes creates a couple of well-known demo codes plus a batch of
// generated single-use codes for manual testing.
func SeedPromoCodes(db *gorm.DB) {
	expiry := time.Now().AddDate(0, 6, 0)
	tenUses := 10

	codes := []model.PromoCode{
		{
			Code:           "WELCOME1",
			Active:         true,
			DurationMonths: 1,
		},
		{
			Code:           "SAVE10",
			Active:         true,
			ExpiresAt:      &expiry,
			MaxUses:        &tenUses,
			DurationMonths: 3,
		},
	}

	oneUse := 1
	for i := 0; i < 5; i++ {
		suffix := strings.ToUpper(uuid.NewString()[:8])
		codes = append(codes, model.PromoCode{
			Code:           "TRY-" + suffix,
			Active:         true,
			MaxUses:        &oneUse,
			DurationMonths: 1,
		})
	}

	for _, code := range codes {
		result := db.FirstOrCreate(&code, model.PromoCode{Code: code.Code})
		if result.Error != nil {
			log.Printf("Error creating promo code %s: %v", code.Code, result.Error)
		}
	}

	log.Println("Promo codes seeded successfully!")
}

// SeedDemoCompany creates one trial company so the lifecycle pass has
// something to chew on in a fresh environment.
func SeedDemoCompany(db *gorm.DB) {
	trialEnd := time.Now().AddDate(0, 0, 14)

	company := model.Company{
		Name:         "Acme Learning",
		Plan:         model.CompanyPlanTrial,
		Status:       model.CompanyStatusActive,
		BillingEmail: "billing@acme-learning.test",
		TrialEndsAt:  &trialEnd,
	}

	result := db.FirstOrCreate(&company, model.Company{Name: company.Name})
	if result.Error != nil {
		log.Printf("Error creating demo company: %v", result.Error)
		return
	}

	log.Println("Demo company seeded successfully!")
}
