package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/technet-isp/backoffice-api/internal/auth"
	"github.com/technet-isp/backoffice-api/internal/domain"
)

func TestScopeForUser_SuperAdmin(t *testing.T) {
	user := &auth.UserContext{
		UserID: uuid.New(),
		Role:   domain.RoleSuperAdmin,
	}

	scope := auth.ScopeForUser(user)

	assert.True(t, scope.All)
	assert.Nil(t, scope.CompanyID)
	assert.False(t, scope.IsEmpty())
}

func TestScopeForUser_CompanyUser(t *testing.T) {
	companyID := uuid.New()
	user := &auth.UserContext{
		UserID:    uuid.New(),
		Role:      domain.RoleAdmin,
		CompanyID: &companyID,
	}

	scope := auth.ScopeForUser(user)

	assert.False(t, scope.All)
	require.NotNil(t, scope.CompanyID)
	assert.Equal(t, companyID, *scope.CompanyID)
}

func TestScopeForUser_NoCompany(t *testing.T) {
	// A non-super-admin without a company must get the empty scope, not
	// unrestricted visibility.
	roles := []domain.UserRole{
		domain.RoleAdmin,
		domain.RoleManager,
		domain.RoleTechnician,
		domain.RoleUser,
	}

	for _, role := range roles {
		t.Run(string(role), func(t *testing.T) {
			user := &auth.UserContext{
				UserID: uuid.New(),
				Role:   role,
			}

			scope := auth.ScopeForUser(user)

			assert.False(t, scope.All)
			assert.Nil(t, scope.CompanyID)
			assert.True(t, scope.IsEmpty())
		})
	}
}

func TestScopeForUser_Nil(t *testing.T) {
	scope := auth.ScopeForUser(nil)
	assert.True(t, scope.IsEmpty())
}

func TestEffectiveScope_ScopeWinsOverUser(t *testing.T) {
	companyID := uuid.New()
	userCtx := &auth.UserContext{
		UserID:    uuid.New(),
		Role:      domain.RoleAdmin,
		CompanyID: &companyID,
	}

	ctx := auth.WithUserContext(context.Background(), userCtx)
	ctx = auth.WithCompanyScope(ctx, auth.CompanyScope{All: true})

	scope := auth.EffectiveScope(ctx)
	assert.True(t, scope.All)
}

func TestEffectiveScope_DerivedFromUser(t *testing.T) {
	companyID := uuid.New()
	userCtx := &auth.UserContext{
		UserID:    uuid.New(),
		Role:      domain.RoleTechnician,
		CompanyID: &companyID,
	}

	ctx := auth.WithUserContext(context.Background(), userCtx)

	scope := auth.EffectiveScope(ctx)
	require.NotNil(t, scope.CompanyID)
	assert.Equal(t, companyID, *scope.CompanyID)
}

func TestEffectiveScope_Unauthenticated(t *testing.T) {
	scope := auth.EffectiveScope(context.Background())
	assert.True(t, scope.IsEmpty())
}

func TestCanAccessCompany(t *testing.T) {
	companyID := uuid.New()
	otherID := uuid.New()

	tests := []struct {
		name     string
		user     *auth.UserContext
		target   uuid.UUID
		expected bool
	}{
		{
			name:     "super admin can access any company",
			user:     &auth.UserContext{Role: domain.RoleSuperAdmin},
			target:   otherID,
			expected: true,
		},
		{
			name:     "company user can access own company",
			user:     &auth.UserContext{Role: domain.RoleAdmin, CompanyID: &companyID},
			target:   companyID,
			expected: true,
		},
		{
			name:     "company user cannot access other company",
			user:     &auth.UserContext{Role: domain.RoleAdmin, CompanyID: &companyID},
			target:   otherID,
			expected: false,
		},
		{
			name:     "user without company cannot access anything",
			user:     &auth.UserContext{Role: domain.RoleAdmin},
			target:   companyID,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.CanAccessCompany(tt.target))
		})
	}
}

func TestHasAnyRole(t *testing.T) {
	user := &auth.UserContext{Role: domain.RoleManager}

	assert.True(t, user.HasAnyRole(domain.RoleAdmin, domain.RoleManager))
	assert.False(t, user.HasAnyRole(domain.RoleAdmin, domain.RoleTechnician))
}
