package controller

import (
	"github.com/gofiber/fiber/v2"

	"courseloft_backend/internal/service"
	"courseloft_backend/pkg/utils/jwt"
)

type ExtendTrialInput struct {
	Days int `json:"days" validate:"required,min=1,max=90"`
}

var trialSvc *service.TrialService

func InitTrialController(t *service.TrialService) {
	trialSvc = t
}

func GetTrialStatus(c *fiber.Ctx) error {
	companyID, err := c.ParamsInt("company_id")
	if err != nil || companyID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid company id",
		})
	}

	status, err := trialSvc.Status(uint(companyID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(status)
}

// ExtendTrial is admin-only (enforced by middleware in the route setup).
func ExtendTrial(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	companyID, err := c.ParamsInt("company_id")
	if err != nil || companyID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid company id",
		})
	}

	input := new(ExtendTrialInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	company, err := trialSvc.Extend(uint(companyID), input.Days, claims.Email)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":           "Trial extended successfully",
		"new_trial_ends_at": company.TrialEndsAt,
	})
}
