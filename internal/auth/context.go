package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/technet-isp/backoffice-api/internal/domain"
)

// UserContext holds authenticated user information for the current request
type UserContext struct {
	UserID    uuid.UUID
	Name      string
	Email     string
	Role      domain.UserRole
	CompanyID *uuid.UUID
}

type contextKey string

const userContextKey contextKey = "userContext"
const companyScopeKey contextKey = "companyScope"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// IsSuperAdmin checks if the user has access to all companies
func (u *UserContext) IsSuperAdmin() bool {
	return u.Role == domain.RoleSuperAdmin
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role domain.UserRole) bool {
	return u.Role == role
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRole) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// CanAccessCompany checks if user can access data for a specific company
func (u *UserContext) CanAccessCompany(companyID uuid.UUID) bool {
	if u.IsSuperAdmin() {
		return true
	}
	return u.CompanyID != nil && *u.CompanyID == companyID
}

// CompanyScope is the resolved tenant visibility for a request. Exactly one
// of three states holds:
//
//	All == true                 super admin, no filtering
//	All == false, CompanyID set single-company visibility
//	All == false, CompanyID nil empty scope, matches nothing
//
// An empty scope is a valid state for users without a company assignment,
// not an error.
type CompanyScope struct {
	All       bool
	CompanyID *uuid.UUID
}

// IsEmpty reports whether the scope matches no rows at all
func (s CompanyScope) IsEmpty() bool {
	return !s.All && s.CompanyID == nil
}

// ScopeForUser resolves the company scope from the user's role and
// company assignment. Role never widens visibility below super_admin:
// an admin without a company still gets the empty scope.
func ScopeForUser(u *UserContext) CompanyScope {
	if u == nil {
		return CompanyScope{}
	}
	if u.IsSuperAdmin() {
		return CompanyScope{All: true}
	}
	if u.CompanyID != nil {
		id := *u.CompanyID
		return CompanyScope{CompanyID: &id}
	}
	return CompanyScope{}
}

// WithCompanyScope adds the resolved company scope to the context
func WithCompanyScope(ctx context.Context, scope CompanyScope) context.Context {
	return context.WithValue(ctx, companyScopeKey, scope)
}

// CompanyScopeFromContext extracts the company scope from the context
func CompanyScopeFromContext(ctx context.Context) (CompanyScope, bool) {
	scope, ok := ctx.Value(companyScopeKey).(CompanyScope)
	return scope, ok
}

// EffectiveScope returns the company scope repositories should filter by.
// A scope set by middleware wins; otherwise it is derived from the user
// context. An unauthenticated context resolves to the empty scope.
func EffectiveScope(ctx context.Context) CompanyScope {
	if scope, ok := CompanyScopeFromContext(ctx); ok {
		return scope
	}
	if userCtx, ok := FromContext(ctx); ok {
		return ScopeForUser(userCtx)
	}
	return CompanyScope{}
}
