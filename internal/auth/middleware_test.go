package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/technet-isp/backoffice-api/internal/auth"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"go.uber.org/zap"
)

func callWithRole(t *testing.T, guard func(http.Handler) http.Handler, role domain.UserRole, withUser bool) int {
	t.Helper()

	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/companies/x", nil)
	if withUser {
		ctx := auth.WithUserContext(req.Context(), &auth.UserContext{
			UserID: uuid.New(),
			Email:  "guard@example.com",
			Role:   role,
		})
		req = req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	guard(next).ServeHTTP(rec, req)

	if rec.Code == http.StatusOK {
		assert.True(t, reached)
	} else {
		assert.False(t, reached, "denied requests must not reach the handler")
	}
	return rec.Code
}

func TestRequireSuperAdmin(t *testing.T) {
	m := auth.NewMiddleware(newTestTokenManager(3600), zap.NewNop())

	assert.Equal(t, http.StatusOK, callWithRole(t, m.RequireSuperAdmin, domain.RoleSuperAdmin, true))
	assert.Equal(t, http.StatusForbidden, callWithRole(t, m.RequireSuperAdmin, domain.RoleAdmin, true))
	assert.Equal(t, http.StatusForbidden, callWithRole(t, m.RequireSuperAdmin, domain.RoleSuperAdmin, false))
}

func TestRequireRole(t *testing.T) {
	m := auth.NewMiddleware(newTestTokenManager(3600), zap.NewNop())
	guard := m.RequireRole(domain.RoleSuperAdmin, domain.RoleAdmin)

	assert.Equal(t, http.StatusOK, callWithRole(t, guard, domain.RoleAdmin, true))
	assert.Equal(t, http.StatusOK, callWithRole(t, guard, domain.RoleSuperAdmin, true))
	assert.Equal(t, http.StatusForbidden, callWithRole(t, guard, domain.RoleTechnician, true))
	assert.Equal(t, http.StatusForbidden, callWithRole(t, guard, domain.RoleUser, false))
}
