package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"github.com/technet-isp/backoffice-api/internal/http/handler"
	"github.com/technet-isp/backoffice-api/internal/repository"
	"github.com/technet-isp/backoffice-api/internal/service"
	"github.com/technet-isp/backoffice-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newDashboardHandler(db *gorm.DB) *handler.DashboardHandler {
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)

	dashboardService := service.NewDashboardService(
		userRepo,
		companyRepo,
		deviceRepo,
		repository.NewCustomerRepository(db),
		repository.NewEmployeeRepository(db),
		repository.NewBillingRepository(db),
		zap.NewNop(),
	)
	monitoringService := service.NewMonitoringService(deviceRepo, userRepo, companyRepo, zap.NewNop())
	return handler.NewDashboardHandler(dashboardService, monitoringService, zap.NewNop())
}

func TestHealthCheckHandler(t *testing.T) {
	db := testutil.OpenTestDB(t)
	h := newDashboardHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/health-check", nil)
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.HealthCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	ts, err := time.Parse(time.RFC3339, resp.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
}

func TestDashboardHandler_Unauthenticated(t *testing.T) {
	db := testutil.OpenTestDB(t)
	h := newDashboardHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/isp", nil)
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardHandler_Success(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")
	testutil.CreateDevice(t, db, company.ID, domain.DeviceTypeRouter, domain.DeviceStatusOnline)
	user := testutil.CreateUser(t, db, &company.ID, domain.RoleAdmin)

	h := newDashboardHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/isp", nil)
	req = req.WithContext(testutil.UserContextFor(user))
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "user")
	assert.Contains(t, body, "currentCompany")
	assert.Contains(t, body, "companies")
	assert.Contains(t, body, "stats")
	assert.Contains(t, body, "recentBilling")

	// Empty collections serialize as [], not null
	assert.Equal(t, "[]", string(body["recentBilling"]))

	var stats domain.DashboardStats
	require.NoError(t, json.Unmarshal(body["stats"], &stats))
	assert.Equal(t, int64(1), stats.TotalDevices)
}

func TestMonitorHandler_Success(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")
	testutil.CreateDevice(t, db, company.ID, domain.DeviceTypeRouter, domain.DeviceStatusOffline)
	user := testutil.CreateUser(t, db, &company.ID, domain.RoleAdmin)

	h := newDashboardHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/isp", nil)
	req = req.WithContext(testutil.UserContextFor(user))
	rec := httptest.NewRecorder()
	h.Monitor(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var data domain.MonitoringData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	require.Len(t, data.MonitoringData, 1)
	assert.Equal(t, domain.DeviceStatusOnline, data.MonitoringData[0].Status)
	assert.NotNil(t, data.MonitoringData[0].LastSeen)
	assert.Contains(t, data.MonitoringData[0].Metrics, "cpu_usage")
}

func TestMonitorHandler_Unauthenticated(t *testing.T) {
	db := testutil.OpenTestDB(t)
	h := newDashboardHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/isp", nil)
	rec := httptest.NewRecorder()
	h.Monitor(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTopologyHandler(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")
	testutil.CreateDevice(t, db, company.ID, domain.DeviceTypeRouter, domain.DeviceStatusOnline)
	testutil.CreateDevice(t, db, company.ID, domain.DeviceTypeOLT, domain.DeviceStatusOnline)

	h := newDashboardHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/"+company.ID.String()+"/topology", nil)
	req = req.WithContext(testutil.ScopeCompany(company.ID))
	req = withURLParam(req, "id", company.ID.String())
	rec := httptest.NewRecorder()
	h.Topology(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var topology domain.NetworkTopology
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &topology))
	assert.Len(t, topology.Nodes, 2)

	// Empty collections serialize as [], not null
	assert.Contains(t, rec.Body.String(), `"subnets":[]`)
}

func TestTopologyHandler_InvalidID(t *testing.T) {
	db := testutil.OpenTestDB(t)
	h := newDashboardHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/nope/topology", nil)
	req = withURLParam(req, "id", "nope")
	rec := httptest.NewRecorder()
	h.Topology(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
