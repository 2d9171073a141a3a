package handlers

import (
	"net/http"
	"strconv"

	"invoicegen/internal/common"
	"invoicegen/internal/models"
	"invoicegen/internal/services"

	"github.com/labstack/echo/v4"
)

// CompanyHandlers handles HTTP requests for companies and their
// purchase orders.
type CompanyHandlers struct {
	companyService  services.CompanyServiceInterface
	employeeService services.EmployeeServiceInterface
}

func NewCompanyHandlers(companyService services.CompanyServiceInterface, employeeService services.EmployeeServiceInterface) *CompanyHandlers {
	return &CompanyHandlers{companyService: companyService, employeeService: employeeService}
}

// CreateCompany handles POST /companies
func (h *CompanyHandlers) CreateCompany(c echo.Context) error {
	ctx := c.Request().Context()

	var company models.Company
	if err := c.Bind(&company); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.companyService.CreateCompany(ctx, &company); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, company)
}

// GetCompany handles GET /companies/:id
func (h *CompanyHandlers) GetCompany(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	company, err := h.companyService.GetCompanyByID(ctx, companyID)
	if err != nil {
		return common.SendNotFoundError(c, "company")
	}

	return c.JSON(http.StatusOK, company)
}

// ListCompanies handles GET /companies
func (h *CompanyHandlers) ListCompanies(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	companies, err := h.companyService.ListCompanies(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list companies: "+err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"companies": companies,
		"limit":     limit,
		"offset":    offset,
	})
}

// UpdateCompanyStatus handles PUT /companies/:id/status
func (h *CompanyHandlers) UpdateCompanyStatus(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.companyService.UpdateCompanyStatus(ctx, companyID, req.Status); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"status": req.Status})
}

// DeleteCompany handles DELETE /companies/:id
func (h *CompanyHandlers) DeleteCompany(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.companyService.DeleteCompany(ctx, companyID); err != nil {
		return common.SendServerError(c, "Failed to delete company: "+err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// CreatePurchaseOrder handles POST /companies/:id/purchase-orders
func (h *CompanyHandlers) CreatePurchaseOrder(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var po models.PurchaseOrder
	if err := c.Bind(&po); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	po.CompanyID = companyID

	if err := h.companyService.CreatePurchaseOrder(ctx, &po); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, po)
}

// ListPurchaseOrders handles GET /companies/:id/purchase-orders
func (h *CompanyHandlers) ListPurchaseOrders(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	pos, err := h.companyService.ListPurchaseOrders(ctx, companyID)
	if err != nil {
		return common.SendServerError(c, "Failed to list purchase orders: "+err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"purchase_orders": pos})
}

// ListPOEmployees handles GET /purchase-orders/:id/employees
func (h *CompanyHandlers) ListPOEmployees(c echo.Context) error {
	ctx := c.Request().Context()

	poID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	employees, err := h.employeeService.ListEmployeesByPO(ctx, poID)
	if err != nil {
		return common.SendServerError(c, "Failed to list employees: "+err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"employees": employees})
}

// CreateEmployee handles POST /purchase-orders/:id/employees
func (h *CompanyHandlers) CreateEmployee(c echo.Context) error {
	ctx := c.Request().Context()

	poID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var employee models.Employee
	if err := c.Bind(&employee); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	employee.POID = poID

	if err := h.employeeService.CreateEmployee(ctx, &employee); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, employee)
}
