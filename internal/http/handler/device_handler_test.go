package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
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

func newDeviceHandler(db *gorm.DB) *handler.DeviceHandler {
	deviceRepo := repository.NewDeviceRepository(db)
	deviceService := service.NewDeviceService(deviceRepo, zap.NewNop())
	monitoringService := service.NewMonitoringService(
		deviceRepo,
		repository.NewUserRepository(db),
		repository.NewCompanyRepository(db),
		zap.NewNop(),
	)
	return handler.NewDeviceHandler(deviceService, monitoringService, zap.NewNop())
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// withScope wraps a handler so the request carries the given scoped context.
func withScope(h http.HandlerFunc, ctx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, r.WithContext(ctx))
	}
}

func TestDeviceGetByID_Handler(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")
	device := testutil.CreateDevice(t, db, company.ID, domain.DeviceTypeRouter, domain.DeviceStatusOnline)

	h := newDeviceHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/devices/"+device.ID.String(), nil)
	req = req.WithContext(testutil.ScopeCompany(company.ID))
	req = withURLParam(req, "id", device.ID.String())
	rec := httptest.NewRecorder()
	h.GetByID(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var loaded domain.Device
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loaded))
	assert.Equal(t, device.ID, loaded.ID)
}

func TestDeviceGetByID_InvalidID(t *testing.T) {
	db := testutil.OpenTestDB(t)
	h := newDeviceHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/devices/not-a-uuid", nil)
	req = withURLParam(req, "id", "not-a-uuid")
	rec := httptest.NewRecorder()
	h.GetByID(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeviceGetByID_ForeignTenant(t *testing.T) {
	db := testutil.OpenTestDB(t)
	companyA := testutil.CreateCompany(t, db, "Tenant A")
	companyB := testutil.CreateCompany(t, db, "Tenant B")
	device := testutil.CreateDevice(t, db, companyB.ID, domain.DeviceTypeRouter, domain.DeviceStatusOnline)

	h := newDeviceHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/devices/"+device.ID.String(), nil)
	req = req.WithContext(testutil.ScopeCompany(companyA.ID))
	req = withURLParam(req, "id", device.ID.String())
	rec := httptest.NewRecorder()
	h.GetByID(rec, req)

	// Cross-tenant reads surface as 404, never 403
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeviceCreate_Handler(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")

	h := newDeviceHandler(db)

	rec := postJSON(t, withScope(h.Create, testutil.ScopeCompany(company.ID)), "/api/v1/devices", domain.CreateDeviceRequest{
		CompanyID: company.ID,
		Name:      "edge-router-9",
		Type:      domain.DeviceTypeRouter,
		IPAddress: "10.9.0.1",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Device
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "edge-router-9", created.Name)
	assert.Equal(t, "/api/v1/devices/"+created.ID.String(), rec.Header().Get("Location"))
}

func TestDeviceCreate_ValidationError(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")

	h := newDeviceHandler(db)

	rec := postJSON(t, withScope(h.Create, testutil.ScopeCompany(company.ID)), "/api/v1/devices", domain.CreateDeviceRequest{
		CompanyID: company.ID,
		Name:      "bad-device",
		Type:      domain.DeviceTypeRouter,
		IPAddress: "not-an-ip",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
	assert.Contains(t, apiErr.Errors, "iPAddress")
}

func TestDeviceMonitor_Handler(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")
	device := testutil.CreateDevice(t, db, company.ID, domain.DeviceTypeOLT, domain.DeviceStatusOffline)

	h := newDeviceHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/devices/"+device.ID.String()+"/monitor", nil)
	req = req.WithContext(testutil.ScopeCompany(company.ID))
	req = withURLParam(req, "id", device.ID.String())
	rec := httptest.NewRecorder()
	h.Monitor(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.DeviceMonitoringResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, device.ID, result.ID)
	assert.Equal(t, domain.DeviceStatusOnline, result.Status)
	assert.Contains(t, result.Metrics, "pon_ports")
}

func TestDeviceDelete_Handler(t *testing.T) {
	db := testutil.OpenTestDB(t)
	company := testutil.CreateCompany(t, db, "Tenant A")
	device := testutil.CreateDevice(t, db, company.ID, domain.DeviceTypeRouter, domain.DeviceStatusOnline)

	h := newDeviceHandler(db)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/devices/"+device.ID.String(), nil)
	req = req.WithContext(testutil.ScopeCompany(company.ID))
	req = withURLParam(req, "id", device.ID.String())
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, db.Model(&domain.Device{}).Where("id = ?", device.ID).Count(&count).Error)
	assert.Zero(t, count)
}
