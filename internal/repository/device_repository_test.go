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

func TestDeviceCountByStatus_IsGlobal(t *testing.T) {
	db := testutil.OpenTestDB(t)
	companyA := testutil.CreateCompany(t, db, "Tenant A")
	companyB := testutil.CreateCompany(t, db, "Tenant B")

	testutil.CreateDevice(t, db, companyA.ID, domain.DeviceTypeRouter, domain.DeviceStatusOnline)
	testutil.CreateDevice(t, db, companyA.ID, domain.DeviceTypeOLT, domain.DeviceStatusOffline)
	testutil.CreateDevice(t, db, companyB.ID, domain.DeviceTypeSNMP, domain.DeviceStatusOnline)
	testutil.CreateDevice(t, db, companyB.ID, domain.DeviceTypeSSH, domain.DeviceStatusMaintenance)

	repo := repository.NewDeviceRepository(db)

	// The breakdown spans all companies even for a scoped caller
	stats, err := repo.CountByStatus(testutil.ScopeCompany(companyA.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Online)
	assert.Equal(t, int64(1), stats.Offline)
	assert.Equal(t, int64(1), stats.Maintenance)
}

func TestDeviceUpdateMonitoring(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")
	device := testutil.CreateDevice(t, db, company.ID, domain.DeviceTypeRouter, domain.DeviceStatusOffline)

	repo := repository.NewDeviceRepository(db)
	ctx := testutil.ScopeCompany(company.ID)

	seen := time.Now().UTC().Truncate(time.Second)
	metrics := domain.JSONMap{"cpu_usage": 42.5, "uptime": "12 days"}

	err := repo.UpdateMonitoring(ctx, device.ID, domain.DeviceStatusOnline, seen, metrics)
	require.NoError(t, err)

	reloaded, err := repo.GetByID(ctx, device.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceStatusOnline, reloaded.Status)
	require.NotNil(t, reloaded.LastSeen)
	assert.WithinDuration(t, seen, *reloaded.LastSeen, time.Second)
	assert.Equal(t, 42.5, reloaded.LastMetrics["cpu_usage"])
	assert.Equal(t, "12 days", reloaded.LastMetrics["uptime"])
}

func TestDeviceGetByID_ScopeDeniesOtherTenant(t *testing.T) {
	db := testutil.OpenTestDB(t)
	companyA := testutil.CreateCompany(t, db, "Tenant A")
	companyB := testutil.CreateCompany(t, db, "Tenant B")
	device := testutil.CreateDevice(t, db, companyA.ID, domain.DeviceTypeRouter, domain.DeviceStatusOnline)

	repo := repository.NewDeviceRepository(db)

	_, err := repo.GetByID(testutil.ScopeCompany(companyB.ID), device.ID)
	assert.Error(t, err)

	found, err := repo.GetByID(testutil.ScopeCompany(companyA.ID), device.ID)
	require.NoError(t, err)
	assert.Equal(t, device.ID, found.ID)
}

func TestDeviceList_Pagination(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")
	for i := 0; i < 5; i++ {
		testutil.CreateDevice(t, db, company.ID, domain.DeviceTypeRouter, domain.DeviceStatusOnline)
	}

	repo := repository.NewDeviceRepository(db)
	ctx := testutil.ScopeCompany(company.ID)

	page1, total, err := repo.List(ctx, 1, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page1, 2)

	page3, total, err := repo.List(ctx, 3, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page3, 1)
}
