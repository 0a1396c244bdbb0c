package controller

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/datatypes"

	"courseloft_backend/internal/model"
	"courseloft_backend/internal/store"
)

var (
	webhookStore  store.Store
	webhookSecret string
)

func InitWebhookController(s store.Store, secret string) {
	webhookStore = s
	webhookSecret = secret
}

// HandleStripeWebhook mirrors provider-side subscription state into local
// records. The provider stays the source of truth; this handler only
// follows it.
func HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	switch event.Type {
	case "customer.subscription.updated":
		var subData struct {
			ID               string `json:"id"`
			Status           string `json:"status"`
			CurrentPeriodEnd int64  `json:"current_period_end"`
		}
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}
		if err := syncSubscriptionState(subData.ID, subData.Status, subData.CurrentPeriodEnd); err != nil {
			log.Printf("Could not sync subscription %s: %v", subData.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription",
			})
		}

	case "customer.subscription.deleted":
		var subData struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}
		if err := syncSubscriptionState(subData.ID, model.StatusCanceled, 0); err != nil {
			log.Printf("Could not sync deleted subscription %s: %v", subData.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription",
			})
		}

	case "invoice.paid":
		var invData struct {
			ID           string          `json:"id"`
			Number       string          `json:"number"`
			Status       string          `json:"status"`
			Currency     string          `json:"currency"`
			AmountDue    int64           `json:"amount_due"`
			AmountPaid   int64           `json:"amount_paid"`
			Subscription string          `json:"subscription"`
			PeriodStart  int64           `json:"period_start"`
			PeriodEnd    int64           `json:"period_end"`
			Lines        json.RawMessage `json:"lines"`
		}
		if err := json.Unmarshal(event.Data.Raw, &invData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		sub, err := webhookStore.GetSubscriptionByStripeID(invData.Subscription)
		if err != nil {
			log.Printf("Invoice %s references unknown subscription %s", invData.ID, invData.Subscription)
			break
		}

		number := invData.Number
		if number == "" {
			number = "INV-" + uuid.NewString()[:8]
		}
		paidAt := time.Now()
		invoice := &model.Invoice{
			UserID:          sub.UserID,
			Number:          number,
			StripeInvoiceID: invData.ID,
			Status:          invData.Status,
			Currency:        invData.Currency,
			AmountDue:       invData.AmountDue,
			AmountPaid:      invData.AmountPaid,
			Lines:           datatypes.JSON(invData.Lines),
			PeriodStart:     time.Unix(invData.PeriodStart, 0),
			PeriodEnd:       time.Unix(invData.PeriodEnd, 0),
			PaidAt:          &paidAt,
		}
		if err := webhookStore.CreateInvoice(invoice); err != nil {
			log.Printf("Could not record invoice %s: %v", invData.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not record invoice",
			})
		}
	}

	return c.SendStatus(fiber.StatusOK)
}

// syncSubscriptionState applies a provider status to whichever local
// record holds the subscription reference: a direct subscription (and its
// owner's mirrored status), or a company.
func syncSubscriptionState(stripeSubID, status string, currentPeriodEnd int64) error {
	sub, err := webhookStore.GetSubscriptionByStripeID(stripeSubID)
	if err == nil {
		sub.Status = status
		if currentPeriodEnd > 0 {
			sub.CurrentPeriodEnd = time.Unix(currentPeriodEnd, 0)
		}
		if err := webhookStore.SaveSubscription(sub); err != nil {
			return err
		}

		user, err := webhookStore.GetUser(sub.UserID)
		if err != nil {
			return err
		}
		if user.StripeSubscriptionID == stripeSubID {
			user.SubscriptionStatus = status
			return webhookStore.SaveUser(user)
		}
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	company, err := webhookStore.GetCompanyByStripeSubID(stripeSubID)
	if err != nil {
		return err
	}
	company.SubscriptionStatus = status
	return webhookStore.SaveCompany(company)
}
