package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invoice is a local projection of billing-provider invoices, written by
// the webhook handler and read by the invoices endpoint.
type Invoice struct {
	gorm.Model
	UserID          uint           `json:"user_id" gorm:"index;not null"`
	Number          string         `json:"number" gorm:"uniqueIndex"`
	StripeInvoiceID string         `json:"stripe_invoice_id"`
	Status          string         `json:"status"`
	Currency        string         `json:"currency"`
	AmountDue       int64          `json:"amount_due"`
	AmountPaid      int64          `json:"amount_paid"`
	Lines           datatypes.JSON `json:"lines"`
	PeriodStart     time.Time      `json:"period_start"`
	PeriodEnd       time.Time      `json:"period_end"`
	PaidAt          *time.Time     `json:"paid_at"`
}
