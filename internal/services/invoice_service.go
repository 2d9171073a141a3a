package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"invoicegen/internal/billing"
	"invoicegen/internal/caching"
	"invoicegen/internal/docgen"
	"invoicegen/internal/models"
	"invoicegen/internal/repositories"
	"invoicegen/internal/timesheet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Template object names per client type.
const (
	TemplateSameState  = "same_state.docx"
	TemplateOtherState = "other_state.docx"
	TemplateForeign    = "usd_invoice.docx"
)

const (
	renderLockTTL    = time.Minute
	templateCacheTTL = time.Hour
	invoiceDueDays   = 30
)

// ErrRenderInProgress reports a concurrent render holding the lock for
// the same invoice.
var ErrRenderInProgress = errors.New("invoice render already in progress")

// ErrNoTimesheets reports an invoice with no successfully processed
// timesheet files to render.
var ErrNoTimesheets = errors.New("no timesheet files linked to this invoice")

// ErrNoTemplate reports a jurisdiction whose template object is absent
// from both the cache and the template bucket.
var ErrNoTemplate = errors.New("invoice template not found")

// ErrAllFilesFailed reports a generation batch where every file failed;
// the per-file errors are in the outcome.
var ErrAllFilesFailed = errors.New("all timesheet files failed to process")

// TimesheetFile is one uploaded spreadsheet in a generation batch.
type TimesheetFile struct {
	Name string
	Data []byte
}

// GenerateOutcome is the structured result of one generation request:
// the persisted invoice plus the per-file results, failed files
// included.
type GenerateOutcome struct {
	Invoice    *models.Invoice
	Employees  []models.EmployeeResult
	GrandTotal models.GrandTotal
}

type InvoiceServiceInterface interface {
	GenerateInvoice(ctx context.Context, companyID, poID uuid.UUID, month, year int, files []TimesheetFile) (*GenerateOutcome, error)
	RenderDocument(ctx context.Context, invoiceID uuid.UUID) (string, []byte, error)
	GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	ListInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, status string, paidDate *time.Time) error
	MarkOverdueInvoices(ctx context.Context) (int64, error)
}

type invoiceService struct {
	invoiceRepo  repositories.InvoiceRepository
	companyRepo  repositories.CompanyRepository
	poRepo       repositories.PurchaseOrderRepository
	employeeRepo repositories.EmployeeRepository
	store        TimesheetStore
	cache        caching.CacheService
	policy       billing.Policy
}

// NewInvoiceService creates the invoice orchestration service.
func NewInvoiceService(invoiceRepo repositories.InvoiceRepository, companyRepo repositories.CompanyRepository, poRepo repositories.PurchaseOrderRepository, employeeRepo repositories.EmployeeRepository, store TimesheetStore, cache caching.CacheService, policy billing.Policy) InvoiceServiceInterface {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		companyRepo:  companyRepo,
		poRepo:       poRepo,
		employeeRepo: employeeRepo,
		store:        store,
		cache:        cache,
		policy:       policy,
	}
}

// GenerateInvoice processes a batch of timesheet files for one PO:
// each file is stored, parsed and billed independently, so one bad
// sheet fails alone while the rest still produce totals.
func (s *invoiceService) GenerateInvoice(ctx context.Context, companyID, poID uuid.UUID, month, year int, files []TimesheetFile) (*GenerateOutcome, error) {
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	po, err := s.poRepo.GetByID(ctx, poID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}
	if po.CompanyID != companyID {
		return nil, fmt.Errorf("purchase order %s does not belong to company %s", poID, companyID)
	}

	terms := termsFromPO(company.ClientType, po)
	now := time.Now()

	var results []models.EmployeeResult
	var computed []billing.Result
	for i, file := range files {
		objectKey := fmt.Sprintf("%s/%d%02d/%s", poID, year, month, file.Name)
		result := models.EmployeeResult{FileName: file.Name, ObjectKey: objectKey}

		if err := s.store.UploadTimesheet(ctx, objectKey, bytes.NewReader(file.Data), int64(len(file.Data))); err != nil {
			result.Error = fmt.Sprintf("failed to store timesheet: %v", err)
			results = append(results, result)
			continue
		}

		sheet, err := timesheet.Parse(bytes.NewReader(file.Data))
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		if sheet.EmployeeName == "" {
			sheet.EmployeeName = fmt.Sprintf("Employee %d", i+1)
		}

		totals := sheet.Totals(timesheet.DayPolicyAnyEntry)
		billed, err := s.policy.Compute(totals, terms)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		result.EmployeeName = sheet.EmployeeName
		result.Location = sheet.Location
		result.WorkedUnits = billed.WorkedUnits.InexactFloat64()
		result.BaseAmount = billed.BaseAmount.InexactFloat64()
		result.TaxLines = taxLinesToFloat(billed.TaxLines)
		result.SubTotal = billed.SubTotal.InexactFloat64()
		results = append(results, result)
		computed = append(computed, billed)
	}

	grand := billing.Aggregate(computed)
	grandTotal := models.GrandTotal{
		WorkedUnits: grand.WorkedUnits.InexactFloat64(),
		BaseAmount:  grand.BaseAmount.InexactFloat64(),
		TaxLines:    taxLinesToFloat(grand.TaxLines),
		SubTotal:    grand.SubTotal.InexactFloat64(),
	}
	outcome := &GenerateOutcome{Employees: results, GrandTotal: grandTotal}

	if len(computed) == 0 {
		return outcome, ErrAllFilesFailed
	}

	mirror := grand.BaseAmount
	if company.ClientType == models.ClientTypeForeign {
		mirror = s.policy.ConvertToINR(grand.BaseAmount)
	}

	payload, err := json.Marshal(models.InvoiceData{Employees: results, GrandTotal: grandTotal})
	if err != nil {
		return outcome, fmt.Errorf("failed to encode invoice data: %w", err)
	}

	invoice := &models.Invoice{
		ID:             uuid.New(),
		CompanyID:      companyID,
		POID:           poID,
		InvoiceNumber:  fmt.Sprintf("INV-%s-%s-%d%02d-%s", shortID(companyID), shortID(poID), year, month, now.Format("150405")),
		InvoiceData:    string(payload),
		TotalAmount:    grand.BaseAmount.InexactFloat64(),
		SubTotal:       grand.SubTotal.InexactFloat64(),
		TotalAmountINR: mirror.InexactFloat64(),
		Month:          month,
		Year:           year,
		Status:         models.InvoiceStatusGenerated,
		DueDate:        now.AddDate(0, 0, invoiceDueDays),
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return outcome, fmt.Errorf("failed to create invoice: %w", err)
	}

	outcome.Invoice = invoice
	return outcome, nil
}

// RenderDocument materializes the invoice document: sheets are
// re-read under the hour-bucket day policy, monetary lines recomputed,
// and the jurisdiction's template expanded and substituted. The
// document is stored and returned only when the whole render
// succeeds; a failed render leaves any previous document untouched.
func (s *invoiceService) RenderDocument(ctx context.Context, invoiceID uuid.UUID) (string, []byte, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	locked, lockErr := s.cache.AcquireRenderLock(ctx, invoice.ID.String(), renderLockTTL)
	if lockErr == nil && !locked {
		return "", nil, ErrRenderInProgress
	}
	if lockErr != nil {
		log.Printf("WARNING: render lock unavailable for invoice %s: %v", invoice.ID, lockErr)
	} else {
		defer func() {
			if err := s.cache.ReleaseRenderLock(context.WithoutCancel(ctx), invoice.ID.String()); err != nil {
				log.Printf("WARNING: failed to release render lock for invoice %s: %v", invoice.ID, err)
			}
		}()
	}

	company, err := s.companyRepo.GetByID(ctx, invoice.CompanyID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get company: %w", err)
	}
	po, err := s.poRepo.GetByID(ctx, invoice.POID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get purchase order: %w", err)
	}
	roster, err := s.employeeRepo.ListByPO(ctx, invoice.POID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to list employees: %w", err)
	}

	var data models.InvoiceData
	if err := json.Unmarshal([]byte(invoice.InvoiceData), &data); err != nil {
		return "", nil, fmt.Errorf("failed to decode invoice data: %w", err)
	}
	if len(data.Employees) == 0 {
		return "", nil, ErrNoTimesheets
	}

	terms := termsFromPO(company.ClientType, po)
	mode := billing.Mode(company.ClientType)

	var lines []docgen.RosterLine
	totalBase := decimal.Zero
	taxTotals := map[string]decimal.Decimal{}
	for idx, emp := range data.Employees {
		if emp.Error != "" || emp.ObjectKey == "" {
			continue
		}
		raw, err := s.store.FetchTimesheet(ctx, emp.ObjectKey)
		if err != nil {
			log.Printf("WARNING: timesheet %s unavailable for invoice %s: %v", emp.ObjectKey, invoice.InvoiceNumber, err)
			continue
		}
		sheet, err := timesheet.Parse(bytes.NewReader(raw))
		if err != nil {
			log.Printf("WARNING: timesheet %s unreadable for invoice %s: %v", emp.ObjectKey, invoice.InvoiceNumber, err)
			continue
		}
		if sheet.EmployeeName == "" {
			sheet.EmployeeName = fmt.Sprintf("Employee %d", idx+1)
		}

		totals := sheet.Totals(timesheet.DayPolicyHourBuckets)
		billed, err := s.policy.Compute(totals, terms)
		if err != nil {
			return "", nil, fmt.Errorf("failed to compute billing for %s: %w", sheet.EmployeeName, err)
		}

		dateOfJoining := ""
		if idx < len(roster) {
			dateOfJoining = derefString(roster[idx].DateOfJoining)
		}

		line := docgen.RosterLine{Name: sheet.EmployeeName}
		if mode == billing.ModeForeign {
			line.TotalHours = totals.Hours.StringFixed(2)
			line.HourlyRate = terms.HourlyRate.StringFixed(2)
			line.NetAmount = billing.FormatUSD(billed.BaseAmount)
		} else {
			line.DateOfJoining = dateOfJoining
			line.TotalDays = strconv.Itoa(totals.RecordedDays)
			line.WorkingDays = totals.WorkedDays.String()
			line.Location = sheet.Location
			line.NetAmount = billing.FormatINR(billed.BaseAmount)
		}
		lines = append(lines, line)

		totalBase = totalBase.Add(billed.BaseAmount)
		for name, amt := range billed.TaxLines {
			taxTotals[name] = taxTotals[name].Add(amt)
		}
	}
	if len(lines) == 0 {
		return "", nil, ErrNoTimesheets
	}

	grand := totalBase
	for _, amt := range taxTotals {
		grand = grand.Add(amt)
	}

	placeholders := s.placeholderMap(invoice, company, po, mode, totalBase, taxTotals, grand)

	templateName := templateForMode(mode)
	template, err := s.loadTemplate(ctx, templateName)
	if err != nil {
		return "", nil, err
	}

	doc, err := docgen.Open(template)
	if err != nil {
		return "", nil, fmt.Errorf("invoice template %s is not usable: %w", templateName, err)
	}

	layout := docgen.DomesticLayout
	if mode == billing.ModeForeign {
		layout = docgen.ForeignLayout
	}
	docgen.Fill(doc, placeholders, layout, lines)

	out, err := doc.Bytes()
	if err != nil {
		return "", nil, fmt.Errorf("failed to serialize document: %w", err)
	}

	fileName := fmt.Sprintf("Invoice_%s.docx", invoice.InvoiceNumber)
	if err := s.store.StoreDocument(ctx, fileName, out); err != nil {
		return "", nil, fmt.Errorf("failed to store document: %w", err)
	}
	if err := s.invoiceRepo.UpdateDocumentKey(ctx, invoice.ID, fileName); err != nil {
		log.Printf("WARNING: failed to record document key for invoice %s: %v", invoice.InvoiceNumber, err)
	}

	// Payment-tracking mirror follows the rendered figures, matching
	// the compute path's semantics.
	invoice.SubTotal = totalBase.InexactFloat64()
	mirror := grand
	if mode == billing.ModeForeign {
		mirror = s.policy.ConvertToINR(grand)
	}
	invoice.TotalAmountINR = mirror.InexactFloat64()
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		log.Printf("WARNING: failed to update invoice totals for %s: %v", invoice.InvoiceNumber, err)
	}

	return fileName, out, nil
}

func (s *invoiceService) placeholderMap(invoice *models.Invoice, company *models.Company, po *models.PurchaseOrder, mode billing.Mode, totalBase decimal.Decimal, taxTotals map[string]decimal.Decimal, grand decimal.Decimal) map[string]string {
	placeholders := map[string]string{
		"[Invoice number]": invoice.InvoiceNumber,
		"[Date]":           invoice.CreatedAt.Format("2006-01-02"),
		"[MM]":             strconv.Itoa(invoice.Month),
		"[YYYY]":           strconv.Itoa(invoice.Year),
		"[PO number]":      po.PONumber,
		"[company_name]":   company.Name,
		"[building_no]":    derefString(company.BuildingNo),
		"[city]":           derefString(company.City),
		"[state]":          derefString(company.State),
		"[country]":        derefString(company.Country),
		"[pin_code]":       derefString(company.PinCode),
	}

	switch mode {
	case billing.ModeForeign:
		placeholders["[ST]"] = billing.FormatUSD(grand)
	case billing.ModeSameState:
		placeholders["[GST]"] = derefString(company.GSTIN)
		placeholders["[SAC]"] = derefString(company.SAC)
		placeholders["[sub_total]"] = billing.FormatINR(totalBase)
		placeholders["[CGST]"] = billing.FormatINR(taxTotals[billing.TaxCGST])
		placeholders["[SGST]"] = billing.FormatINR(taxTotals[billing.TaxSGST])
		placeholders["[TIA]"] = billing.FormatINR(grand)
	case billing.ModeOtherState:
		placeholders["[GST]"] = derefString(company.GSTIN)
		placeholders["[SAC]"] = derefString(company.SAC)
		placeholders["[sub_total]"] = billing.FormatINR(totalBase)
		placeholders["[IGST]"] = billing.FormatINR(taxTotals[billing.TaxIGST])
		placeholders["[TIA]"] = billing.FormatINR(grand)
	}

	return placeholders
}

// loadTemplate serves template bytes from the cache, falling back to
// the object store on miss.
func (s *invoiceService) loadTemplate(ctx context.Context, name string) ([]byte, error) {
	if cached, err := s.cache.GetTemplate(ctx, name); err == nil && len(cached) > 0 {
		return cached, nil
	} else if err != nil {
		log.Printf("WARNING: template cache unavailable: %v", err)
	}

	template, err := s.store.FetchTemplate(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoTemplate, name, err)
	}
	if err := s.cache.SetTemplate(ctx, name, template, templateCacheTTL); err != nil {
		log.Printf("WARNING: failed to cache template %s: %v", name, err)
	}
	return template, nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *invoiceService) ListInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.invoiceRepo.List(ctx, limit, offset)
}

func (s *invoiceService) UpdatePayment(ctx context.Context, id uuid.UUID, status string, paidDate *time.Time) error {
	if status != models.InvoiceStatusPaid && status != models.InvoiceStatusGenerated && status != models.InvoiceStatusOverdue {
		return fmt.Errorf("invalid invoice status %q", status)
	}
	if status == models.InvoiceStatusPaid && paidDate == nil {
		now := time.Now()
		paidDate = &now
	}
	return s.invoiceRepo.UpdateStatus(ctx, id, status, paidDate)
}

func (s *invoiceService) MarkOverdueInvoices(ctx context.Context) (int64, error) {
	return s.invoiceRepo.MarkOverdue(ctx, time.Now())
}

func templateForMode(mode billing.Mode) string {
	switch mode {
	case billing.ModeOtherState:
		return TemplateOtherState
	case billing.ModeForeign:
		return TemplateForeign
	default:
		return TemplateSameState
	}
}

// termsFromPO maps purchase-order columns onto billing terms. Nil
// columns stay zero; the policy engine decides whether that is a
// validation failure for the selected mode.
func termsFromPO(clientType string, po *models.PurchaseOrder) billing.Terms {
	terms := billing.Terms{Mode: billing.Mode(clientType)}
	if po.MonthlyBudget != nil {
		terms.MonthlyBudget = decimal.NewFromFloat(*po.MonthlyBudget)
	}
	if po.HourlyRate != nil {
		terms.HourlyRate = decimal.NewFromFloat(*po.HourlyRate)
	}
	if po.CGSTRate != nil {
		terms.CGSTRate = decimal.NewFromFloat(*po.CGSTRate)
	}
	if po.SGSTRate != nil {
		terms.SGSTRate = decimal.NewFromFloat(*po.SGSTRate)
	}
	if po.IGSTRate != nil {
		terms.IGSTRate = decimal.NewFromFloat(*po.IGSTRate)
	}
	return terms
}

func taxLinesToFloat(lines map[string]decimal.Decimal) map[string]float64 {
	if len(lines) == 0 {
		return nil
	}
	out := make(map[string]float64, len(lines))
	for name, amt := range lines {
		out[name] = amt.InexactFloat64()
	}
	return out
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// shortID keeps invoice numbers readable: the first UUID segment is
// unique enough alongside the timestamp suffix.
func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
