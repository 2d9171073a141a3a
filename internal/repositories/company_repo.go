package repositories

import (
	"context"

	"invoicegen/internal/models"

	"github.com/google/uuid"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Company, error)
}

type companyRepo struct {
	db Database
}

func NewCompanyRepo(db Database) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Create(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO companies (id, name, email, client_type, building_no, city, state, country, pin_code, gstin, sac, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, company.ID, company.Name, company.Email, company.ClientType, company.BuildingNo, company.City, company.State, company.Country, company.PinCode, company.GSTIN, company.SAC, company.Status)
	return err
}

func (r *companyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company := &models.Company{}
	query := `
		SELECT id, name, email, client_type, building_no, city, state, country, pin_code, gstin, sac, status, created_at, updated_at
		FROM companies
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&company.ID, &company.Name, &company.Email, &company.ClientType, &company.BuildingNo, &company.City, &company.State, &company.Country, &company.PinCode, &company.GSTIN, &company.SAC, &company.Status, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (r *companyRepo) Update(ctx context.Context, company *models.Company) error {
	query := `
		UPDATE companies
		SET name = $2, email = $3, client_type = $4, building_no = $5, city = $6, state = $7, country = $8, pin_code = $9, gstin = $10, sac = $11, status = $12, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, company.ID, company.Name, company.Email, company.ClientType, company.BuildingNo, company.City, company.State, company.Country, company.PinCode, company.GSTIN, company.SAC, company.Status)
	return err
}

func (r *companyRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE companies SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

func (r *companyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM companies WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *companyRepo) List(ctx context.Context, limit, offset int) ([]*models.Company, error) {
	query := `
		SELECT id, name, email, client_type, building_no, city, state, country, pin_code, gstin, sac, status, created_at, updated_at
		FROM companies
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		company := &models.Company{}
		if err := rows.Scan(&company.ID, &company.Name, &company.Email, &company.ClientType, &company.BuildingNo, &company.City, &company.State, &company.Country, &company.PinCode, &company.GSTIN, &company.SAC, &company.Status, &company.CreatedAt, &company.UpdatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}
