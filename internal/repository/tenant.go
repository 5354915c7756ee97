package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/technet-isp/backoffice-api/internal/auth"
	"gorm.io/gorm"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string    // The field to sort by (API field name)
	Order SortOrder // asc or desc
}

// DefaultSortConfig returns a default sort configuration (created_at DESC)
func DefaultSortConfig() SortConfig {
	return SortConfig{
		Field: "createdAt",
		Order: SortOrderDesc,
	}
}

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// BuildOrderClause builds the SQL ORDER BY clause from field mapping and sort config
// fieldMap maps API field names to database column names
// Returns the default sort if field is not in whitelist
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if config.Order == SortOrderAsc {
		order = "ASC"
	}

	return column + " " + order
}

// ApplyCompanyScope applies the multi-tenant scope to a GORM query. Super
// admins get the query unchanged, company users get a company_id equality
// filter, and the empty scope yields a clause that matches no rows. The
// empty case must never widen to "all rows".
func ApplyCompanyScope(ctx context.Context, query *gorm.DB) *gorm.DB {
	return ApplyCompanyScopeWithColumn(ctx, query, "company_id")
}

// ApplyCompanyScopeWithColumn applies the company scope using a specific
// column name. Use this when the column needs table qualification.
func ApplyCompanyScopeWithColumn(ctx context.Context, query *gorm.DB, columnName string) *gorm.DB {
	scope := auth.EffectiveScope(ctx)
	if scope.All {
		return query
	}
	if scope.CompanyID != nil {
		return query.Where(columnName+" = ?", *scope.CompanyID)
	}
	return query.Where("1 = 0")
}

// HasCompanyAccess checks if the current scope covers a specific company's
// data. Useful for single-record operations where the row is already loaded.
func HasCompanyAccess(ctx context.Context, recordCompanyID uuid.UUID) bool {
	scope := auth.EffectiveScope(ctx)
	if scope.All {
		return true
	}
	return scope.CompanyID != nil && *scope.CompanyID == recordCompanyID
}
