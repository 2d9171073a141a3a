package services

import (
	"context"
	"fmt"
	"strings"

	"invoicegen/internal/models"
	"invoicegen/internal/repositories"

	"github.com/google/uuid"
)

type CompanyServiceInterface interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompanyByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	UpdateCompany(ctx context.Context, company *models.Company) error
	UpdateCompanyStatus(ctx context.Context, id uuid.UUID, status string) error
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	ListCompanies(ctx context.Context, limit, offset int) ([]*models.Company, error)
	ListPurchaseOrders(ctx context.Context, companyID uuid.UUID) ([]*models.PurchaseOrder, error)
	CreatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error
}

type companyService struct {
	companyRepo repositories.CompanyRepository
	poRepo      repositories.PurchaseOrderRepository
}

func NewCompanyService(companyRepo repositories.CompanyRepository, poRepo repositories.PurchaseOrderRepository) CompanyServiceInterface {
	return &companyService{companyRepo: companyRepo, poRepo: poRepo}
}

func validClientType(clientType string) bool {
	switch clientType {
	case models.ClientTypeSameState, models.ClientTypeOtherState, models.ClientTypeForeign:
		return true
	}
	return false
}

func (s *companyService) CreateCompany(ctx context.Context, company *models.Company) error {
	if strings.TrimSpace(company.Name) == "" {
		return fmt.Errorf("company name is required")
	}
	if !validClientType(company.ClientType) {
		return fmt.Errorf("invalid client type %q", company.ClientType)
	}
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	if company.Status == "" {
		company.Status = "active"
	}
	return s.companyRepo.Create(ctx, company)
}

func (s *companyService) GetCompanyByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return s.companyRepo.GetByID(ctx, id)
}

func (s *companyService) UpdateCompany(ctx context.Context, company *models.Company) error {
	if !validClientType(company.ClientType) {
		return fmt.Errorf("invalid client type %q", company.ClientType)
	}
	return s.companyRepo.Update(ctx, company)
}

func (s *companyService) UpdateCompanyStatus(ctx context.Context, id uuid.UUID, status string) error {
	if status != "active" && status != "inactive" {
		return fmt.Errorf("invalid company status %q", status)
	}
	return s.companyRepo.UpdateStatus(ctx, id, status)
}

func (s *companyService) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return s.companyRepo.Delete(ctx, id)
}

func (s *companyService) ListCompanies(ctx context.Context, limit, offset int) ([]*models.Company, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.companyRepo.List(ctx, limit, offset)
}

func (s *companyService) ListPurchaseOrders(ctx context.Context, companyID uuid.UUID) ([]*models.PurchaseOrder, error) {
	return s.poRepo.ListByCompany(ctx, companyID)
}

func (s *companyService) CreatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error {
	if strings.TrimSpace(po.PONumber) == "" {
		return fmt.Errorf("po number is required")
	}
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	return s.poRepo.Create(ctx, po)
}
