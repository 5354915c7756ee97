package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"github.com/technet-isp/backoffice-api/internal/repository"
	"github.com/technet-isp/backoffice-api/internal/service"
	"github.com/technet-isp/backoffice-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newBillingService(db *gorm.DB) *service.BillingService {
	return service.NewBillingService(
		repository.NewBillingRepository(db),
		repository.NewCustomerRepository(db),
		zap.NewNop(),
	)
}

func TestBillingCreate_DerivesTotal(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")
	customer := testutil.CreateCustomer(t, db, company.ID, domain.CustomerStatusActive)

	svc := newBillingService(db)
	ctx := testutil.ScopeCompany(company.ID)

	billing, err := svc.Create(ctx, &domain.CreateBillingRequest{
		CompanyID:     company.ID,
		CustomerID:    customer.ID,
		InvoiceNumber: "INV-2026-0001",
		BillingDate:   time.Now(),
		DueDate:       time.Now().AddDate(0, 0, 14),
		Amount:        decimal.RequireFromString("100.00"),
		TaxAmount:     decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)

	assert.True(t, billing.TotalAmount.Equal(decimal.RequireFromString("110.00")),
		"got %s", billing.TotalAmount.String())
	assert.Equal(t, domain.BillingStatusPending, billing.Status)
	assert.Nil(t, billing.PaidAt)
}

func TestBillingCreate_CustomerCompanyMismatch(t *testing.T) {
	db := testutil.OpenTestDB(t)
	companyA := testutil.CreateCompany(t, db, "Tenant A")
	companyB := testutil.CreateCompany(t, db, "Tenant B")
	customerB := testutil.CreateCustomer(t, db, companyB.ID, domain.CustomerStatusActive)

	svc := newBillingService(db)

	// Super admin can see both, but the invoice still must not cross tenants
	_, err := svc.Create(testutil.ScopeAll(), &domain.CreateBillingRequest{
		CompanyID:     companyA.ID,
		CustomerID:    customerB.ID,
		InvoiceNumber: "INV-2026-0002",
		BillingDate:   time.Now(),
		DueDate:       time.Now().AddDate(0, 0, 14),
		Amount:        decimal.RequireFromString("50.00"),
	})
	assert.ErrorIs(t, err, service.ErrCustomerCompanyMismatch)
}

func TestBillingCreate_ScopeDeniesForeignCompany(t *testing.T) {
	db := testutil.OpenTestDB(t)
	companyA := testutil.CreateCompany(t, db, "Tenant A")
	companyB := testutil.CreateCompany(t, db, "Tenant B")
	customerB := testutil.CreateCustomer(t, db, companyB.ID, domain.CustomerStatusActive)

	svc := newBillingService(db)

	_, err := svc.Create(testutil.ScopeCompany(companyA.ID), &domain.CreateBillingRequest{
		CompanyID:     companyB.ID,
		CustomerID:    customerB.ID,
		InvoiceNumber: "INV-2026-0003",
		BillingDate:   time.Now(),
		DueDate:       time.Now().AddDate(0, 0, 14),
		Amount:        decimal.RequireFromString("50.00"),
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestBillingUpdateStatus_PaidTransitions(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")
	customer := testutil.CreateCustomer(t, db, company.ID, domain.CustomerStatusActive)
	billing := testutil.CreateBilling(t, db, company.ID, customer.ID, "75.00", domain.BillingStatusPending)

	svc := newBillingService(db)
	ctx := testutil.ScopeCompany(company.ID)

	method := domain.PaymentMethodBankTransfer
	updated, err := svc.UpdateStatus(ctx, billing.ID, &domain.UpdateBillingStatusRequest{
		Status:        domain.BillingStatusPaid,
		PaymentMethod: &method,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BillingStatusPaid, updated.Status)
	require.NotNil(t, updated.PaidAt)
	firstPaidAt := *updated.PaidAt

	// Marking paid again keeps the original timestamp
	updated, err = svc.UpdateStatus(ctx, billing.ID, &domain.UpdateBillingStatusRequest{
		Status:        domain.BillingStatusPaid,
		PaymentMethod: &method,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.PaidAt)
	assert.WithinDuration(t, firstPaidAt, *updated.PaidAt, time.Second)

	// Leaving paid clears the timestamp
	updated, err = svc.UpdateStatus(ctx, billing.ID, &domain.UpdateBillingStatusRequest{
		Status: domain.BillingStatusCancelled,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.PaidAt)
}

func TestBillingUpdateStatus_NotFound(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")

	svc := newBillingService(db)

	_, err := svc.UpdateStatus(testutil.ScopeCompany(company.ID), uuid.New(), &domain.UpdateBillingStatusRequest{
		Status: domain.BillingStatusPaid,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestBillingDelete(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")
	customer := testutil.CreateCustomer(t, db, company.ID, domain.CustomerStatusActive)
	billing := testutil.CreateBilling(t, db, company.ID, customer.ID, "75.00", domain.BillingStatusPending)

	svc := newBillingService(db)
	ctx := testutil.ScopeCompany(company.ID)

	require.NoError(t, svc.Delete(ctx, billing.ID))

	_, err := svc.GetByID(ctx, billing.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
