package repositories

import (
	"context"
	"fmt"
	"time"

	"invoicegen/internal/models"

	"github.com/google/uuid"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, paidDate *time.Time) error
	UpdateDocumentKey(ctx context.Context, id uuid.UUID, objectKey string) error
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

type invoiceRepo struct {
	db Database
}

func NewInvoiceRepo(db Database) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, company_id, po_id, invoice_number, invoice_data, total_amount, sub_total, total_amount_inr, month, year, status, document_key, paid_date, due_date, created_at, updated_at`

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (id, company_id, po_id, invoice_number, invoice_data, total_amount, sub_total, total_amount_inr, month, year, status, document_key, paid_date, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, invoice.ID, invoice.CompanyID, invoice.POID, invoice.InvoiceNumber, invoice.InvoiceData, invoice.TotalAmount, invoice.SubTotal, invoice.TotalAmountINR, invoice.Month, invoice.Year, invoice.Status, invoice.DocumentKey, invoice.PaidDate, invoice.DueDate)
	return err
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE id = $1`, invoiceColumns)
	err := r.db.QueryRow(ctx, query, id).Scan(&invoice.ID, &invoice.CompanyID, &invoice.POID, &invoice.InvoiceNumber, &invoice.InvoiceData, &invoice.TotalAmount, &invoice.SubTotal, &invoice.TotalAmountINR, &invoice.Month, &invoice.Year, &invoice.Status, &invoice.DocumentKey, &invoice.PaidDate, &invoice.DueDate, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	query := `
		UPDATE invoices
		SET invoice_data = $2, total_amount = $3, sub_total = $4, total_amount_inr = $5, status = $6, document_key = $7, paid_date = $8, due_date = $9, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, invoice.ID, invoice.InvoiceData, invoice.TotalAmount, invoice.SubTotal, invoice.TotalAmountINR, invoice.Status, invoice.DocumentKey, invoice.PaidDate, invoice.DueDate)
	return err
}

func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM invoices WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *invoiceRepo) List(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices ORDER BY created_at DESC LIMIT $1 OFFSET $2`, invoiceColumns)
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (r *invoiceRepo) ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, invoiceColumns)
	rows, err := r.db.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, paidDate *time.Time) error {
	query := `UPDATE invoices SET status = $2, paid_date = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, status, paidDate)
	return err
}

func (r *invoiceRepo) UpdateDocumentKey(ctx context.Context, id uuid.UUID, objectKey string) error {
	query := `UPDATE invoices SET document_key = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, objectKey)
	return err
}

// MarkOverdue flips every unpaid invoice past its due date to overdue
// and reports how many rows changed.
func (r *invoiceRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	query := `UPDATE invoices SET status = $1, updated_at = NOW() WHERE status = $2 AND due_date < $3`
	tag, err := r.db.Exec(ctx, query, models.InvoiceStatusOverdue, models.InvoiceStatusGenerated, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanInvoices(rows rowScanner) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	for rows.Next() {
		invoice := &models.Invoice{}
		if err := rows.Scan(&invoice.ID, &invoice.CompanyID, &invoice.POID, &invoice.InvoiceNumber, &invoice.InvoiceData, &invoice.TotalAmount, &invoice.SubTotal, &invoice.TotalAmountINR, &invoice.Month, &invoice.Year, &invoice.Status, &invoice.DocumentKey, &invoice.PaidDate, &invoice.DueDate, &invoice.CreatedAt, &invoice.UpdatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}
