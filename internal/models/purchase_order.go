package models

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseOrder carries the billing terms for one client engagement.
// MonthlyBudget backs the salaried modes, HourlyRate the foreign mode;
// nil tax rates fall back to the engine defaults.
type PurchaseOrder struct {
	ID            uuid.UUID `json:"id" db:"id"`
	CompanyID     uuid.UUID `json:"company_id" db:"company_id"`
	PONumber      string    `json:"po_number" db:"po_number"`
	MonthlyBudget *float64  `json:"monthly_budget" db:"monthly_budget"`
	HourlyRate    *float64  `json:"hourly_rate" db:"hourly_rate"`
	CGSTRate      *float64  `json:"cgst_rate" db:"cgst_rate"`
	SGSTRate      *float64  `json:"sgst_rate" db:"sgst_rate"`
	IGSTRate      *float64  `json:"igst_rate" db:"igst_rate"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
