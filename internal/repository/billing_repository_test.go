package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"github.com/technet-isp/backoffice-api/internal/repository"
	"github.com/technet-isp/backoffice-api/internal/testutil"
)

func TestSumPaidInScope_ExactDecimalSum(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")
	customer := testutil.CreateCustomer(t, db, company.ID, domain.CustomerStatusActive)

	// 49.99 + 10.01 must come out as exactly 60, not 59.999999…
	testutil.CreateBilling(t, db, company.ID, customer.ID, "49.99", domain.BillingStatusPaid)
	testutil.CreateBilling(t, db, company.ID, customer.ID, "10.01", domain.BillingStatusPaid)
	testutil.CreateBilling(t, db, company.ID, customer.ID, "999.99", domain.BillingStatusPending)
	testutil.CreateBilling(t, db, company.ID, customer.ID, "500.00", domain.BillingStatusOverdue)

	repo := repository.NewBillingRepository(db)

	total, err := repo.SumPaidInScope(testutil.ScopeCompany(company.ID))
	require.NoError(t, err)
	assert.True(t, total.Equal(mustDecimal(t, "60.00")), "got %s", total.String())
}

func TestSumPaidInScope_RespectsScope(t *testing.T) {
	db := testutil.OpenTestDB(t)
	companyA := testutil.CreateCompany(t, db, "Tenant A")
	companyB := testutil.CreateCompany(t, db, "Tenant B")
	customerA := testutil.CreateCustomer(t, db, companyA.ID, domain.CustomerStatusActive)
	customerB := testutil.CreateCustomer(t, db, companyB.ID, domain.CustomerStatusActive)

	testutil.CreateBilling(t, db, companyA.ID, customerA.ID, "100.00", domain.BillingStatusPaid)
	testutil.CreateBilling(t, db, companyB.ID, customerB.ID, "200.00", domain.BillingStatusPaid)

	repo := repository.NewBillingRepository(db)

	totalA, err := repo.SumPaidInScope(testutil.ScopeCompany(companyA.ID))
	require.NoError(t, err)
	assert.True(t, totalA.Equal(mustDecimal(t, "100.00")), "got %s", totalA.String())

	totalAll, err := repo.SumPaidInScope(testutil.ScopeAll())
	require.NoError(t, err)
	assert.True(t, totalAll.Equal(mustDecimal(t, "300.00")), "got %s", totalAll.String())

	totalEmpty, err := repo.SumPaidInScope(testutil.ScopeEmpty())
	require.NoError(t, err)
	assert.True(t, totalEmpty.IsZero())
}

func TestRecent_LimitAndOrder(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")
	customer := testutil.CreateCustomer(t, db, company.ID, domain.CustomerStatusActive)

	created := make([]*domain.Billing, 0, 15)
	base := time.Now().Add(-15 * time.Hour)
	for i := 0; i < 15; i++ {
		b := testutil.CreateBilling(t, db, company.ID, customer.ID, "10.00", domain.BillingStatusPending)
		// Spread created_at so ordering is deterministic
		ts := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, db.Model(b).Update("created_at", ts).Error)
		b.CreatedAt = ts
		created = append(created, b)
	}

	repo := repository.NewBillingRepository(db)

	recent, err := repo.Recent(testutil.ScopeEmpty(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 10)

	// Newest first; the oldest five rows must be excluded
	assert.Equal(t, created[14].ID, recent[0].ID)
	assert.Equal(t, created[5].ID, recent[9].ID)
	for i := 1; i < len(recent); i++ {
		assert.False(t, recent[i].CreatedAt.After(recent[i-1].CreatedAt))
	}
}

func TestRecent_IsUnscoped(t *testing.T) {
	db := testutil.OpenTestDB(t)
	companyA := testutil.CreateCompany(t, db, "Tenant A")
	companyB := testutil.CreateCompany(t, db, "Tenant B")
	customerA := testutil.CreateCustomer(t, db, companyA.ID, domain.CustomerStatusActive)
	customerB := testutil.CreateCustomer(t, db, companyB.ID, domain.CustomerStatusActive)

	testutil.CreateBilling(t, db, companyA.ID, customerA.ID, "10.00", domain.BillingStatusPending)
	testutil.CreateBilling(t, db, companyB.ID, customerB.ID, "20.00", domain.BillingStatusPending)

	repo := repository.NewBillingRepository(db)

	// The recent list is global regardless of the caller's scope
	recent, err := repo.Recent(testutil.ScopeCompany(companyA.ID), 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestRecent_PreloadsRelations(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")
	customer := testutil.CreateCustomer(t, db, company.ID, domain.CustomerStatusActive)
	testutil.CreateBilling(t, db, company.ID, customer.ID, "10.00", domain.BillingStatusPending)

	repo := repository.NewBillingRepository(db)

	recent, err := repo.Recent(testutil.ScopeAll(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.NotNil(t, recent[0].Customer)
	require.NotNil(t, recent[0].Company)
	assert.Equal(t, customer.ID, recent[0].Customer.ID)
	assert.Equal(t, company.ID, recent[0].Company.ID)
}

func TestBillingList_SearchByInvoiceNumber(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")
	customer := testutil.CreateCustomer(t, db, company.ID, domain.CustomerStatusActive)

	b := testutil.CreateBilling(t, db, company.ID, customer.ID, "10.00", domain.BillingStatusPending)
	testutil.CreateBilling(t, db, company.ID, customer.ID, "20.00", domain.BillingStatusPending)

	repo := repository.NewBillingRepository(db)

	results, total, err := repo.List(testutil.ScopeCompany(company.ID), 1, 20, b.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, b.ID, results[0].ID)
}
