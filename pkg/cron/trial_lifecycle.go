package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"courseloft_backend/internal/service"
)

// InitTrialLifecycleCron schedules the daily trial pass at 09:00 server
// time. The pass itself is idempotent, so an overlapping or repeated run
// after a crash is harmless.
func InitTrialLifecycleCron(lifecycle *service.TrialLifecycleService) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("0 9 * * *", func() {
		runTrialPass(lifecycle)
	})

	if err != nil {
		log.Printf("Could not initialize trial lifecycle cron: %v", err)
		return c
	}

	c.Start()
	return c
}

func runTrialPass(lifecycle *service.TrialLifecycleService) {
	log.Println("Running daily trial lifecycle pass...")

	summary := lifecycle.RunDailyPass(time.Now())
	for _, entityErr := range summary.Errors {
		log.Printf("Trial pass error for company %d: %s", entityErr.CompanyID, entityErr.Error)
	}
}
