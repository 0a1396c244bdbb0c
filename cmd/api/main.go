package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"courseloft_backend/internal/controller"
	"courseloft_backend/internal/middleware"
	"courseloft_backend/internal/model"
	"courseloft_backend/internal/service"
	"courseloft_backend/internal/store"
	"courseloft_backend/pkg/billing"
	"courseloft_backend/pkg/config"
	"courseloft_backend/pkg/cron"
	"courseloft_backend/pkg/database"
	"courseloft_backend/pkg/email"
	"courseloft_backend/pkg/seed"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	// Protected Routes
	api.Get("/me", middleware.AuthMiddleware(), controller.GetMe)

	// Trial routes
	trials := api.Group("/trials", middleware.AuthMiddleware())
	trials.Get("/:company_id", controller.GetTrialStatus)
	trials.Post("/:company_id/extend", middleware.AdminOnly(), controller.ExtendTrial)

	// Subscription routes
	subscriptions := api.Group("/subscriptions", middleware.AuthMiddleware())
	subscriptions.Get("/status", controller.GetSubscriptionStatus)
	subscriptions.Post("/cancel", controller.CancelSubscription)
	subscriptions.Post("/reactivate", controller.ReactivateSubscription)
	subscriptions.Get("/invoices", controller.ListInvoices)
	subscriptions.Post("/promo", controller.ApplyPromoCode)

	// Stripe webhook: no auth middleware here, Stripe authenticates via
	// the signature header checked in the handler.
	api.Post("/webhook", controller.HandleStripeWebhook)
}

func main() {
	cfg := config.Load()

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.Team{},
		&model.Company{},
		&model.Subscription{},
		&model.PromoCode{},
		&model.PromoRedemption{},
		&model.Invoice{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	emailService, err := email.NewEmailService(cfg.Email.ResendAPIKey)
	if err != nil {
		log.Fatal("Could not initialize email service:", err)
	}

	accountStore := store.NewGormStore(database.GetDB())
	billingProvider := billing.NewStripeProvider(cfg.Stripe.SecretKey)

	resolver := service.NewAccessResolver(accountStore)
	lifecycle := service.NewTrialLifecycleService(accountStore, emailService)
	cancellation := service.NewCancellationService(accountStore, billingProvider)
	promo := service.NewPromoService(accountStore)
	trial := service.NewTrialService(accountStore)

	controller.InitAuthController(accountStore, emailService)
	controller.InitSubscriptionController(accountStore, resolver, cancellation, promo, emailService)
	controller.InitTrialController(trial)
	controller.InitWebhookController(accountStore, cfg.Stripe.WebhookSecret)

	seed.SeedPromoCodes(database.GetDB())
	seed.SeedDemoCompany(database.GetDB())

	cron.InitTrialLifecycleCron(lifecycle)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
