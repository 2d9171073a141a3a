package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"invoicegen/internal/common"
	"invoicegen/internal/models"
	"invoicegen/internal/services"

	"github.com/jung-kurt/gofpdf"
	"github.com/labstack/echo/v4"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// InvoiceHandlers handles HTTP requests for invoices
type InvoiceHandlers struct {
	invoiceService services.InvoiceServiceInterface
	companyService services.CompanyServiceInterface
}

// NewInvoiceHandlers creates a new invoice handlers instance
func NewInvoiceHandlers(invoiceService services.InvoiceServiceInterface, companyService services.CompanyServiceInterface) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService: invoiceService,
		companyService: companyService,
	}
}

// GenerateInvoice handles POST /invoices/generate. Multipart form with
// company_id, po_id, month, year and one or more timesheet files.
func (h *InvoiceHandlers) GenerateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, err := common.ValidateUUID(c.FormValue("company_id"), "company_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	poID, err := common.ValidateUUID(c.FormValue("po_id"), "po_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	month, err := strconv.Atoi(c.FormValue("month"))
	if err != nil || month < 1 || month > 12 {
		return common.SendValidationError(c, "month", "month must be between 1 and 12")
	}
	year, err := strconv.Atoi(c.FormValue("year"))
	if err != nil || year < 2000 || year > 2100 {
		return common.SendValidationError(c, "year", "year must be a four-digit year")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return common.SendClientError(c, "multipart form with timesheet files is required")
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		return common.SendValidationError(c, "files", "at least one timesheet file is required")
	}

	var files []services.TimesheetFile
	for _, fh := range fileHeaders {
		if !allowedTimesheetFile(fh.Filename) {
			return common.SendValidationError(c, "files", fmt.Sprintf("unsupported file type: %s", fh.Filename))
		}
		src, err := fh.Open()
		if err != nil {
			return common.SendServerError(c, "failed to read uploaded file: "+err.Error())
		}
		data, err := io.ReadAll(src)
		_ = src.Close()
		if err != nil {
			return common.SendServerError(c, "failed to read uploaded file: "+err.Error())
		}
		files = append(files, services.TimesheetFile{Name: filepath.Base(fh.Filename), Data: data})
	}

	outcome, err := h.invoiceService.GenerateInvoice(ctx, companyID, poID, month, year, files)
	if err != nil {
		if errors.Is(err, services.ErrAllFilesFailed) && outcome != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"error":     err.Error(),
				"employees": outcome.Employees,
			})
		}
		return common.SendServerError(c, "Failed to generate invoice: "+err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"invoice":     outcome.Invoice,
		"employees":   outcome.Employees,
		"grand_total": outcome.GrandTotal,
	})
}

// ListInvoices handles GET /invoices
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	invoices, err := h.invoiceService.ListInvoices(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list invoices: "+err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetInvoice handles GET /invoices/:id
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return common.SendNotFoundError(c, "invoice")
	}

	return c.JSON(http.StatusOK, invoice)
}

// UpdatePayment handles PUT /invoices/:id/payment
func (h *InvoiceHandlers) UpdatePayment(c echo.Context) error {
	ctx := c.Request().Context()

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Status   string     `json:"status"`
		PaidDate *time.Time `json:"paid_date"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.invoiceService.UpdatePayment(ctx, invoiceID, req.Status, req.PaidDate); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"status": req.Status})
}

// DownloadDocument handles GET /invoices/:id/document. Renders the
// invoice document and streams it back with its derived file name.
func (h *InvoiceHandlers) DownloadDocument(c echo.Context) error {
	ctx := c.Request().Context()

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	fileName, data, err := h.invoiceService.RenderDocument(ctx, invoiceID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRenderInProgress):
			return common.SendConflictError(c, err.Error())
		case errors.Is(err, services.ErrNoTimesheets):
			return common.SendNotFoundError(c, "timesheet data for invoice")
		case errors.Is(err, services.ErrNoTemplate):
			return common.SendNotFoundError(c, "invoice template")
		default:
			return common.SendServerError(c, "Failed to render document: "+err.Error())
		}
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
	return c.Blob(http.StatusOK, docxMIME, data)
}

// DownloadSummaryPDF handles GET /invoices/:id/summary-pdf
func (h *InvoiceHandlers) DownloadSummaryPDF(c echo.Context) error {
	ctx := c.Request().Context()

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return common.SendNotFoundError(c, "invoice")
	}
	company, err := h.companyService.GetCompanyByID(ctx, invoice.CompanyID)
	if err != nil {
		return common.SendNotFoundError(c, "company")
	}

	data, err := h.generateSummaryPDF(invoice, company)
	if err != nil {
		return common.SendServerError(c, "Failed to generate PDF: "+err.Error())
	}

	fileName := fmt.Sprintf("Invoice_%s_summary.pdf", invoice.InvoiceNumber)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// generateSummaryPDF renders the numeric summary of an invoice as a
// one-page PDF.
func (h *InvoiceHandlers) generateSummaryPDF(invoice *models.Invoice, company *models.Company) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "INVOICE SUMMARY")
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice Number: %s", invoice.InvoiceNumber))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", invoice.CreatedAt.Format("02-Jan-2006")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Billing Period: %02d/%d", invoice.Month, invoice.Year))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Company: %s (%s)", company.Name, company.ClientType))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	headers := []string{"Line", "Amount"}
	colWidths := []float64{100, 60}
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)
	rows := [][2]string{
		{"Base Amount", fmt.Sprintf("%.2f", invoice.TotalAmount)},
	}
	for _, line := range taxSummaryRows(invoice) {
		rows = append(rows, line)
	}
	rows = append(rows,
		[2]string{"Sub Total", fmt.Sprintf("%.2f", invoice.SubTotal)},
		[2]string{"Total (INR mirror)", fmt.Sprintf("%.2f", invoice.TotalAmountINR)},
	)
	for _, row := range rows {
		pdf.CellFormat(colWidths[0], 8, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, row[1], "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", invoice.Status))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// taxSummaryRows extracts the grand-total tax lines from the stored
// invoice data, in stable order.
func taxSummaryRows(invoice *models.Invoice) [][2]string {
	var data models.InvoiceData
	if err := json.Unmarshal([]byte(invoice.InvoiceData), &data); err != nil {
		return nil
	}
	names := make([]string, 0, len(data.GrandTotal.TaxLines))
	for name := range data.GrandTotal.TaxLines {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][2]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, [2]string{name, fmt.Sprintf("%.2f", data.GrandTotal.TaxLines[name])})
	}
	return rows
}

func allowedTimesheetFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}
