package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"courseloft_backend/internal/service"
	"courseloft_backend/internal/store"
	"courseloft_backend/pkg/billing"
	"courseloft_backend/pkg/email"
	"courseloft_backend/pkg/plan"
	"courseloft_backend/pkg/utils/jwt"
)

type CancelSubscriptionInput struct {
	SubscriptionID       uint   `json:"subscription_id" validate:"required"`
	Reason               string `json:"reason"`
	AcceptRetentionOffer bool   `json:"accept_retention_offer"`
}

type ReactivateSubscriptionInput struct {
	SubscriptionID uint `json:"subscription_id" validate:"required"`
}

type ApplyPromoCodeInput struct {
	PromoCode string `json:"promo_code" validate:"required"`
}

var (
	subStore     store.Store
	accessRes    *service.AccessResolver
	cancellation *service.CancellationService
	promoSvc     *service.PromoService
	subEmail     *email.EmailService
)

func InitSubscriptionController(s store.Store, resolver *service.AccessResolver, c *service.CancellationService, p *service.PromoService, e *email.EmailService) {
	subStore = s
	accessRes = resolver
	cancellation = c
	promoSvc = p
	subEmail = e
}

// serviceError maps typed service errors onto HTTP responses. Internal
// details are logged, never returned to the caller.
func serviceError(c *fiber.Ctx, err error) error {
	var billingErr *billing.Error

	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resource not found",
		})
	case errors.Is(err, service.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to access this resource",
		})
	case errors.Is(err, service.ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	case errors.Is(err, service.ErrPromoInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid promo code",
		})
	case errors.Is(err, service.ErrPromoExpired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "This promo code has expired",
		})
	case errors.Is(err, service.ErrPromoExhausted):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "This promo code has no uses left",
		})
	case errors.Is(err, service.ErrPromoAlreadyUsed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You have already used this promo code",
		})
	case errors.As(err, &billingErr):
		log.Printf("Billing provider error: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Billing provider is temporarily unavailable, please try again",
		})
	default:
		log.Printf("Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Something went wrong",
		})
	}
}

// GetSubscriptionStatus resolves the caller's paid access. It always
// succeeds; a user with no subscription gets has_active_subscription=false.
func GetSubscriptionStatus(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	user, err := subStore.GetUser(claims.UserID)
	if err != nil {
		return serviceError(c, err)
	}

	view, err := accessRes.Resolve(user)
	if err != nil {
		return serviceError(c, err)
	}

	resp := fiber.Map{
		"has_active_subscription": view.HasAccess,
	}
	if view.HasAccess {
		resp["subscription"] = view

		// Direct subscribers get the PRO feature set; team and company
		// plans carry their own plan name.
		planType := plan.PlanType(view.Plan)
		if _, known := plan.PlanFeatures[planType]; !known {
			planType = plan.ProPlan
		}
		resp["features"] = plan.GetPlanLimits(planType).AllowedFeatures
	}
	return c.JSON(resp)
}

func CancelSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CancelSubscriptionInput)
	if err := c.BodyParser(input); err != nil || input.SubscriptionID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	result, err := cancellation.Cancel(claims.UserID, input.SubscriptionID, input.Reason, input.AcceptRetentionOffer)
	if err != nil {
		return serviceError(c, err)
	}

	resp := fiber.Map{
		"message": result.Message,
	}
	if result.RetentionApplied {
		resp["new_period_end"] = result.NewPeriodEnd
	} else {
		resp["canceled_at"] = result.CanceledAt
		sendCancellationEmail(claims.UserID, input.SubscriptionID)
	}
	return c.JSON(resp)
}

func sendCancellationEmail(userID, subscriptionID uint) {
	if subEmail == nil {
		return
	}
	user, err := subStore.GetUser(userID)
	if err != nil {
		log.Printf("Could not load user %d for cancellation email: %v", userID, err)
		return
	}
	sub, err := subStore.GetSubscription(subscriptionID)
	if err != nil {
		log.Printf("Could not load subscription %d for cancellation email: %v", subscriptionID, err)
		return
	}
	if err := subEmail.SendSubscriptionCancelled(user.Email, sub.CurrentPeriodEnd); err != nil {
		log.Printf("Could not send cancellation email to %s: %v", user.Email, err)
	}
}

func ReactivateSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(ReactivateSubscriptionInput)
	if err := c.BodyParser(input); err != nil || input.SubscriptionID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if _, err := cancellation.Reactivate(claims.UserID, input.SubscriptionID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Subscription reactivated successfully",
	})
}

func ListInvoices(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	invoices, err := cancellation.ListInvoices(claims.UserID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"invoices": invoices,
	})
}

func ApplyPromoCode(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(ApplyPromoCodeInput)
	if err := c.BodyParser(input); err != nil || input.PromoCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	result, err := promoSvc.Redeem(claims.UserID, input.PromoCode)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":      "Promo code applied successfully",
		"subscription": result.Subscription,
	})
}
