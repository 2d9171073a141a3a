package services

import (
	"context"
	"fmt"
	"strings"

	"invoicegen/internal/models"
	"invoicegen/internal/repositories"

	"github.com/google/uuid"
)

type EmployeeServiceInterface interface {
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	GetEmployeeByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, employee *models.Employee) error
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	ListEmployeesByPO(ctx context.Context, poID uuid.UUID) ([]*models.Employee, error)
}

type employeeService struct {
	employeeRepo repositories.EmployeeRepository
}

func NewEmployeeService(employeeRepo repositories.EmployeeRepository) EmployeeServiceInterface {
	return &employeeService{employeeRepo: employeeRepo}
}

func (s *employeeService) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	if strings.TrimSpace(employee.Name) == "" {
		return fmt.Errorf("employee name is required")
	}
	if employee.POID == uuid.Nil {
		return fmt.Errorf("po_id is required")
	}
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	if employee.Status == "" {
		employee.Status = "Active"
	}
	return s.employeeRepo.Create(ctx, employee)
}

func (s *employeeService) GetEmployeeByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	return s.employeeRepo.GetByID(ctx, id)
}

func (s *employeeService) UpdateEmployee(ctx context.Context, employee *models.Employee) error {
	if strings.TrimSpace(employee.Name) == "" {
		return fmt.Errorf("employee name is required")
	}
	return s.employeeRepo.Update(ctx, employee)
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	return s.employeeRepo.Delete(ctx, id)
}

func (s *employeeService) ListEmployeesByPO(ctx context.Context, poID uuid.UUID) ([]*models.Employee, error) {
	return s.employeeRepo.ListByPO(ctx, poID)
}
