package service

import "time"

// Notifier is the one-way notification capability used by the trial
// lifecycle pass. Send failures never abort the caller.
type Notifier interface {
	SendTrialWarning(recipient string, daysRemaining int, trialEndDate time.Time) error
	SendTrialExpired(recipient string) error
}
