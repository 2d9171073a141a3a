package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice statuses.
const (
	InvoiceStatusGenerated = "generated"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
)

// Invoice is one generated invoice. InvoiceData holds the per-file
// computation results as JSON (EmployeeResult slice plus grand total)
// so document rendering can replay them. TotalAmountINR is the
// payment-tracking mirror for foreign companies; for domestic ones it
// equals the headline total.
type Invoice struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	CompanyID      uuid.UUID  `json:"company_id" db:"company_id"`
	POID           uuid.UUID  `json:"po_id" db:"po_id"`
	InvoiceNumber  string     `json:"invoice_number" db:"invoice_number"`
	InvoiceData    string     `json:"invoice_data" db:"invoice_data"`
	TotalAmount    float64    `json:"total_amount" db:"total_amount"`
	SubTotal       float64    `json:"sub_total" db:"sub_total"`
	TotalAmountINR float64    `json:"total_amount_inr" db:"total_amount_inr"`
	Month          int        `json:"month" db:"month"`
	Year           int        `json:"year" db:"year"`
	Status         string     `json:"status" db:"status"`
	DocumentKey    *string    `json:"document_key" db:"document_key"`
	PaidDate       *time.Time `json:"paid_date" db:"paid_date"`
	DueDate        time.Time  `json:"due_date" db:"due_date"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// InvoiceData is the JSON payload persisted in Invoice.InvoiceData.
type InvoiceData struct {
	Employees  []EmployeeResult `json:"employees"`
	GrandTotal GrandTotal       `json:"grand_total"`
}

// GrandTotal is the element-wise sum across all successful files.
type GrandTotal struct {
	WorkedUnits float64            `json:"worked_units"`
	BaseAmount  float64            `json:"base_amount"`
	TaxLines    map[string]float64 `json:"tax_lines,omitempty"`
	SubTotal    float64            `json:"sub_total"`
}

// EmployeeResult is one timesheet file's outcome inside InvoiceData.
// Failed files carry Error and contribute nothing to the totals.
type EmployeeResult struct {
	FileName     string             `json:"file_name"`
	ObjectKey    string             `json:"object_key"`
	EmployeeName string             `json:"employee_name"`
	Location     string             `json:"location"`
	WorkedUnits  float64            `json:"worked_units"`
	BaseAmount   float64            `json:"base_amount"`
	TaxLines     map[string]float64 `json:"tax_lines,omitempty"`
	SubTotal     float64            `json:"sub_total"`
	Error        string             `json:"error,omitempty"`
}
