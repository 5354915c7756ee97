package service_test

import (
	"testing"
	"time"

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

func newDashboardService(db *gorm.DB) *service.DashboardService {
	return service.NewDashboardService(
		repository.NewUserRepository(db),
		repository.NewCompanyRepository(db),
		repository.NewDeviceRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewEmployeeRepository(db),
		repository.NewBillingRepository(db),
		zap.NewNop(),
	)
}

func TestGetDashboard_ScopedTotalsGlobalBreakdowns(t *testing.T) {
	db := testutil.OpenTestDB(t)

	companyA := testutil.CreateCompany(t, db, "Tenant A")
	companyB := testutil.CreateCompany(t, db, "Tenant B")

	// Tenant A: 2 devices, 1 customer, 1 employee
	testutil.CreateDevice(t, db, companyA.ID, domain.DeviceTypeRouter, domain.DeviceStatusOnline)
	testutil.CreateDevice(t, db, companyA.ID, domain.DeviceTypeOLT, domain.DeviceStatusOffline)
	customerA := testutil.CreateCustomer(t, db, companyA.ID, domain.CustomerStatusActive)
	testutil.CreateEmployee(t, db, companyA.ID)

	// Tenant B: 1 device, 2 customers
	testutil.CreateDevice(t, db, companyB.ID, domain.DeviceTypeSNMP, domain.DeviceStatusMaintenance)
	customerB := testutil.CreateCustomer(t, db, companyB.ID, domain.CustomerStatusSuspended)
	testutil.CreateCustomer(t, db, companyB.ID, domain.CustomerStatusActive)

	// Paid revenue in both tenants; only A's counts toward A's total
	testutil.CreateBilling(t, db, companyA.ID, customerA.ID, "49.99", domain.BillingStatusPaid)
	testutil.CreateBilling(t, db, companyA.ID, customerA.ID, "10.01", domain.BillingStatusPaid)
	testutil.CreateBilling(t, db, companyB.ID, customerB.ID, "500.00", domain.BillingStatusPaid)

	userA := testutil.CreateUser(t, db, &companyA.ID, domain.RoleAdmin)
	ctx := testutil.UserContextFor(userA)

	svc := newDashboardService(db)
	data, err := svc.GetDashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, userA.ID, data.User.ID)
	require.NotNil(t, data.CurrentCompany)
	assert.Equal(t, companyA.ID, data.CurrentCompany.ID)

	// Totals follow the tenant scope
	assert.Equal(t, int64(2), data.Stats.TotalDevices)
	assert.Equal(t, int64(1), data.Stats.TotalCustomers)
	assert.Equal(t, int64(1), data.Stats.TotalEmployees)
	assert.True(t, data.Stats.TotalRevenue.Equal(decimal.RequireFromString("60.00")),
		"got %s", data.Stats.TotalRevenue.String())

	// Breakdowns span all companies
	assert.Equal(t, int64(1), data.Stats.DeviceStats.Online)
	assert.Equal(t, int64(1), data.Stats.DeviceStats.Offline)
	assert.Equal(t, int64(1), data.Stats.DeviceStats.Maintenance)
	assert.Equal(t, int64(2), data.Stats.CustomerStats.Active)
	assert.Equal(t, int64(1), data.Stats.CustomerStats.Suspended)

	// The companies list is scoped; tenant A's admin sees only tenant A
	require.Len(t, data.Companies, 1)
	assert.Equal(t, companyA.ID, data.Companies[0].ID)

	// The recent list is global
	assert.Len(t, data.RecentBilling, 3)
}

func TestGetDashboard_SuperAdminSeesEverything(t *testing.T) {
	db := testutil.OpenTestDB(t)

	companyA := testutil.CreateCompany(t, db, "Tenant A")
	companyB := testutil.CreateCompany(t, db, "Tenant B")
	testutil.CreateDevice(t, db, companyA.ID, domain.DeviceTypeRouter, domain.DeviceStatusOnline)
	testutil.CreateDevice(t, db, companyB.ID, domain.DeviceTypeOLT, domain.DeviceStatusOnline)

	super := testutil.CreateUser(t, db, nil, domain.RoleSuperAdmin)
	ctx := testutil.UserContextFor(super)

	svc := newDashboardService(db)
	data, err := svc.GetDashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), data.Stats.TotalDevices)
	assert.Len(t, data.Companies, 2)
	assert.Nil(t, data.CurrentCompany)
}

func TestGetDashboard_UserWithoutCompanySeesEmptyTotals(t *testing.T) {
	db := testutil.OpenTestDB(t)

	company := testutil.CreateCompany(t, db, "Tenant A")
	testutil.CreateDevice(t, db, company.ID, domain.DeviceTypeRouter, domain.DeviceStatusOnline)
	customer := testutil.CreateCustomer(t, db, company.ID, domain.CustomerStatusActive)
	testutil.CreateBilling(t, db, company.ID, customer.ID, "100.00", domain.BillingStatusPaid)

	orphan := testutil.CreateUser(t, db, nil, domain.RoleAdmin)
	ctx := testutil.UserContextFor(orphan)

	svc := newDashboardService(db)
	data, err := svc.GetDashboard(ctx)
	require.NoError(t, err)

	// Scoped totals collapse to zero, but the global breakdowns and the
	// recent list still reflect the whole store.
	assert.Zero(t, data.Stats.TotalDevices)
	assert.Zero(t, data.Stats.TotalCustomers)
	assert.True(t, data.Stats.TotalRevenue.IsZero())
	assert.Empty(t, data.Companies)
	assert.Equal(t, int64(1), data.Stats.DeviceStats.Online)
	assert.Len(t, data.RecentBilling, 1)
}

func TestGetDashboard_RecentBillingLimitAndOrder(t *testing.T) {
	db := testutil.OpenTestDB(t)

	company := testutil.CreateCompany(t, db, "Tenant A")
	customer := testutil.CreateCustomer(t, db, company.ID, domain.CustomerStatusActive)

	base := time.Now().Add(-15 * time.Hour)
	newest := ""
	for i := 0; i < 15; i++ {
		b := testutil.CreateBilling(t, db, company.ID, customer.ID, "10.00", domain.BillingStatusPending)
		require.NoError(t, db.Model(b).Update("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
		newest = b.InvoiceNumber
	}

	user := testutil.CreateUser(t, db, &company.ID, domain.RoleAdmin)
	svc := newDashboardService(db)

	data, err := svc.GetDashboard(testutil.UserContextFor(user))
	require.NoError(t, err)

	require.Len(t, data.RecentBilling, 10)
	assert.Equal(t, newest, data.RecentBilling[0].InvoiceNumber)
	for i := 1; i < len(data.RecentBilling); i++ {
		assert.False(t, data.RecentBilling[i].CreatedAt.After(data.RecentBilling[i-1].CreatedAt))
	}
}

func TestGetDashboard_Unauthenticated(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newDashboardService(db)

	_, err := svc.GetDashboard(testutil.ScopeEmpty())
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
