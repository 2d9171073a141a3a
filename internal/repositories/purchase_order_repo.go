package repositories

import (
	"context"

	"invoicegen/internal/models"

	"github.com/google/uuid"
)

type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *models.PurchaseOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	Update(ctx context.Context, po *models.PurchaseOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.PurchaseOrder, error)
}

type purchaseOrderRepo struct {
	db Database
}

func NewPurchaseOrderRepo(db Database) PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) Create(ctx context.Context, po *models.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, company_id, po_number, monthly_budget, hourly_rate, cgst_rate, sgst_rate, igst_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, po.ID, po.CompanyID, po.PONumber, po.MonthlyBudget, po.HourlyRate, po.CGSTRate, po.SGSTRate, po.IGSTRate)
	return err
}

func (r *purchaseOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	po := &models.PurchaseOrder{}
	query := `
		SELECT id, company_id, po_number, monthly_budget, hourly_rate, cgst_rate, sgst_rate, igst_rate, created_at, updated_at
		FROM purchase_orders
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&po.ID, &po.CompanyID, &po.PONumber, &po.MonthlyBudget, &po.HourlyRate, &po.CGSTRate, &po.SGSTRate, &po.IGSTRate, &po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return po, nil
}

func (r *purchaseOrderRepo) Update(ctx context.Context, po *models.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET po_number = $2, monthly_budget = $3, hourly_rate = $4, cgst_rate = $5, sgst_rate = $6, igst_rate = $7, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, po.ID, po.PONumber, po.MonthlyBudget, po.HourlyRate, po.CGSTRate, po.SGSTRate, po.IGSTRate)
	return err
}

func (r *purchaseOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM purchase_orders WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *purchaseOrderRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.PurchaseOrder, error) {
	query := `
		SELECT id, company_id, po_number, monthly_budget, hourly_rate, cgst_rate, sgst_rate, igst_rate, created_at, updated_at
		FROM purchase_orders
		WHERE company_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pos []*models.PurchaseOrder
	for rows.Next() {
		po := &models.PurchaseOrder{}
		if err := rows.Scan(&po.ID, &po.CompanyID, &po.PONumber, &po.MonthlyBudget, &po.HourlyRate, &po.CGSTRate, &po.SGSTRate, &po.IGSTRate, &po.CreatedAt, &po.UpdatedAt); err != nil {
			return nil, err
		}
		pos = append(pos, po)
	}
	return pos, rows.Err()
}
