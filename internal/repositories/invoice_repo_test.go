package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoicegen/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type InvoiceRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      InvoiceRepository
	companyID uuid.UUID
	poID      uuid.UUID
	invoiceID uuid.UUID
	context   context.Context
}

func (suite *InvoiceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewInvoiceRepo(mock)
	suite.companyID = uuid.New()
	suite.poID = uuid.New()
	suite.invoiceID = uuid.New()
	suite.context = context.Background()
}

func (suite *InvoiceRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestInvoiceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceRepoTestSuite))
}

func (suite *InvoiceRepoTestSuite) sampleInvoice() *models.Invoice {
	return &models.Invoice{
		ID:             suite.invoiceID,
		CompanyID:      suite.companyID,
		POID:           suite.poID,
		InvoiceNumber:  "INV-abc12345-def67890-202501-120000",
		InvoiceData:    `{"employees":[],"grand_total":{"sub_total":0}}`,
		TotalAmount:    118000,
		SubTotal:       118000,
		TotalAmountINR: 118000,
		Month:          1,
		Year:           2025,
		Status:         models.InvoiceStatusGenerated,
		DueDate:        time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *InvoiceRepoTestSuite) TestCreate_Success() {
	invoice := suite.sampleInvoice()

	suite.mock.ExpectExec(`INSERT INTO invoices`).
		WithArgs(invoice.ID, invoice.CompanyID, invoice.POID, invoice.InvoiceNumber, invoice.InvoiceData, invoice.TotalAmount, invoice.SubTotal, invoice.TotalAmountINR, invoice.Month, invoice.Year, invoice.Status, invoice.DocumentKey, invoice.PaidDate, invoice.DueDate).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, invoice)
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRepoTestSuite) TestCreate_DatabaseError() {
	invoice := suite.sampleInvoice()

	suite.mock.ExpectExec(`INSERT INTO invoices`).
		WithArgs(invoice.ID, invoice.CompanyID, invoice.POID, invoice.InvoiceNumber, invoice.InvoiceData, invoice.TotalAmount, invoice.SubTotal, invoice.TotalAmountINR, invoice.Month, invoice.Year, invoice.Status, invoice.DocumentKey, invoice.PaidDate, invoice.DueDate).
		WillReturnError(errors.New("database connection failed"))

	err := suite.repo.Create(suite.context, invoice)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "database connection failed")
}

func invoiceRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "company_id", "po_id", "invoice_number", "invoice_data", "total_amount", "sub_total", "total_amount_inr", "month", "year", "status", "document_key", "paid_date", "due_date", "created_at", "updated_at"})
}

func (suite *InvoiceRepoTestSuite) TestGetByID_Success() {
	now := time.Now()
	docKey := "documents/Invoice_INV-1.docx"

	suite.mock.ExpectQuery(`SELECT .+ FROM invoices WHERE id = \$1`).
		WithArgs(suite.invoiceID).
		WillReturnRows(invoiceRows().
			AddRow(suite.invoiceID, suite.companyID, suite.poID, "INV-1", "{}", 118000.0, 118000.0, 118000.0, 1, 2025, models.InvoiceStatusGenerated, &docKey, (*time.Time)(nil), now.AddDate(0, 0, 30), now, now))

	result, err := suite.repo.GetByID(suite.context, suite.invoiceID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.invoiceID, result.ID)
	assert.Equal(suite.T(), "INV-1", result.InvoiceNumber)
	assert.Equal(suite.T(), docKey, *result.DocumentKey)
	assert.Nil(suite.T(), result.PaidDate)
}

func (suite *InvoiceRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT .+ FROM invoices WHERE id = \$1`).
		WithArgs(suite.invoiceID).
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.repo.GetByID(suite.context, suite.invoiceID)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), result)
}

func (suite *InvoiceRepoTestSuite) TestList_Success() {
	now := time.Now()
	rows := invoiceRows().
		AddRow(uuid.New(), suite.companyID, suite.poID, "INV-1", "{}", 100.0, 100.0, 100.0, 1, 2025, models.InvoiceStatusGenerated, (*string)(nil), (*time.Time)(nil), now, now, now).
		AddRow(uuid.New(), suite.companyID, suite.poID, "INV-2", "{}", 200.0, 200.0, 200.0, 2, 2025, models.InvoiceStatusPaid, (*string)(nil), &now, now, now, now)

	suite.mock.ExpectQuery(`SELECT .+ FROM invoices ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(rows)

	result, err := suite.repo.List(suite.context, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 2)
	assert.Equal(suite.T(), "INV-1", result[0].InvoiceNumber)
	assert.Equal(suite.T(), models.InvoiceStatusPaid, result[1].Status)
}

func (suite *InvoiceRepoTestSuite) TestListByCompany_Empty() {
	suite.mock.ExpectQuery(`SELECT .+ FROM invoices WHERE company_id = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(suite.companyID, 10, 0).
		WillReturnRows(invoiceRows())

	result, err := suite.repo.ListByCompany(suite.context, suite.companyID, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), result)
}

func (suite *InvoiceRepoTestSuite) TestUpdateStatus_Paid() {
	paidDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectExec(`UPDATE invoices SET status = \$2, paid_date = \$3, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs(suite.invoiceID, models.InvoiceStatusPaid, &paidDate).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateStatus(suite.context, suite.invoiceID, models.InvoiceStatusPaid, &paidDate)
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRepoTestSuite) TestUpdateDocumentKey_Success() {
	objectKey := "documents/Invoice_INV-1.docx"

	suite.mock.ExpectExec(`UPDATE invoices SET document_key = \$2, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs(suite.invoiceID, objectKey).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateDocumentKey(suite.context, suite.invoiceID, objectKey)
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRepoTestSuite) TestMarkOverdue_CountsRows() {
	asOf := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectExec(`UPDATE invoices SET status = \$1, updated_at = NOW\(\) WHERE status = \$2 AND due_date < \$3`).
		WithArgs(models.InvoiceStatusOverdue, models.InvoiceStatusGenerated, asOf).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	count, err := suite.repo.MarkOverdue(suite.context, asOf)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), count)
}

func (suite *InvoiceRepoTestSuite) TestMarkOverdue_DatabaseError() {
	asOf := time.Now()

	suite.mock.ExpectExec(`UPDATE invoices SET status = \$1, updated_at = NOW\(\) WHERE status = \$2 AND due_date < \$3`).
		WithArgs(models.InvoiceStatusOverdue, models.InvoiceStatusGenerated, asOf).
		WillReturnError(errors.New("database connection failed"))

	count, err := suite.repo.MarkOverdue(suite.context, asOf)
	assert.Error(suite.T(), err)
	assert.Zero(suite.T(), count)
}
