// Package testutil provides shared helpers for package tests. It opens an
// in-memory SQLite database so tests run without external services.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/technet-isp/backoffice-api/internal/auth"
	"github.com/technet-isp/backoffice-api/internal/database"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB opens a fresh in-memory database with the full schema
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	// Every connection to :memory: is a distinct database, so the pool
	// must stay on a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db), "failed to migrate test database")
	return db
}

// ScopeAll returns a context with unrestricted company visibility
func ScopeAll() context.Context {
	return auth.WithCompanyScope(context.Background(), auth.CompanyScope{All: true})
}

// ScopeCompany returns a context scoped to a single company
func ScopeCompany(companyID uuid.UUID) context.Context {
	return auth.WithCompanyScope(context.Background(), auth.CompanyScope{CompanyID: &companyID})
}

// ScopeEmpty returns a context with the empty scope that matches nothing
func ScopeEmpty() context.Context {
	return auth.WithCompanyScope(context.Background(), auth.CompanyScope{})
}

// UserContextFor builds a context carrying both the user context and the
// scope derived from it, the way the auth middleware does.
func UserContextFor(user *domain.User) context.Context {
	userCtx := &auth.UserContext{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CompanyID: user.CompanyID,
	}
	ctx := auth.WithUserContext(context.Background(), userCtx)
	return auth.WithCompanyScope(ctx, auth.ScopeForUser(userCtx))
}

// CreateCompany inserts a tenant company with unique slug and email
func CreateCompany(t *testing.T, db *gorm.DB, name string) *domain.Company {
	t.Helper()

	suffix := uuid.NewString()[:8]
	company := &domain.Company{
		Name:     name,
		Slug:     fmt.Sprintf("%s-%s", suffix, suffix),
		Email:    fmt.Sprintf("%s@example.com", suffix),
		Type:     domain.CompanyTypeTenant,
		IsActive: true,
	}
	require.NoError(t, db.Create(company).Error)
	return company
}

// CreateParentCompany inserts a parent company
func CreateParentCompany(t *testing.T, db *gorm.DB, name string) *domain.Company {
	t.Helper()

	company := CreateCompany(t, db, name)
	company.Type = domain.CompanyTypeParent
	require.NoError(t, db.Save(company).Error)
	return company
}

// CreateUser inserts a user. companyID may be nil for super admins.
func CreateUser(t *testing.T, db *gorm.DB, companyID *uuid.UUID, role domain.UserRole) *domain.User {
	t.Helper()

	suffix := uuid.NewString()[:8]
	user := &domain.User{
		CompanyID:    companyID,
		Name:         "Test User " + suffix,
		Email:        fmt.Sprintf("user-%s@example.com", suffix),
		PasswordHash: "not-a-real-hash",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateDevice inserts a device for a company
func CreateDevice(t *testing.T, db *gorm.DB, companyID uuid.UUID, deviceType domain.DeviceType, status domain.DeviceStatus) *domain.Device {
	t.Helper()

	suffix := uuid.NewString()[:8]
	device := &domain.Device{
		CompanyID: companyID,
		Name:      "device-" + suffix,
		Type:      deviceType,
		IPAddress: "10.0.0.1",
		Port:      22,
		Status:    status,
		IsActive:  true,
	}
	require.NoError(t, db.Create(device).Error)
	return device
}

// CreateCustomer inserts a customer for a company
func CreateCustomer(t *testing.T, db *gorm.DB, companyID uuid.UUID, status domain.CustomerStatus) *domain.Customer {
	t.Helper()

	suffix := uuid.NewString()[:8]
	customer := &domain.Customer{
		CompanyID:  companyID,
		CustomerID: "CUST-" + suffix,
		Name:       "Customer " + suffix,
		Status:     status,
		MonthlyFee: decimal.NewFromInt(50),
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

// CreateEmployee inserts an employee for a company
func CreateEmployee(t *testing.T, db *gorm.DB, companyID uuid.UUID) *domain.Employee {
	t.Helper()

	suffix := uuid.NewString()[:8]
	employee := &domain.Employee{
		CompanyID:      companyID,
		EmployeeID:     "EMP-" + suffix,
		Name:           "Employee " + suffix,
		Email:          fmt.Sprintf("emp-%s@example.com", suffix),
		Position:       "Technician",
		Salary:         decimal.NewFromInt(40000),
		HireDate:       time.Now().AddDate(-1, 0, 0),
		Status:         domain.EmployeeStatusActive,
		EmploymentType: domain.EmploymentTypeFullTime,
	}
	require.NoError(t, db.Create(employee).Error)
	return employee
}

// CreateBilling inserts a billing record with the given amounts and status
func CreateBilling(t *testing.T, db *gorm.DB, companyID, customerID uuid.UUID, total string, status domain.BillingStatus) *domain.Billing {
	t.Helper()

	amount, err := decimal.NewFromString(total)
	require.NoError(t, err)

	suffix := uuid.NewString()[:8]
	billing := &domain.Billing{
		CompanyID:     companyID,
		CustomerID:    customerID,
		InvoiceNumber: "INV-" + suffix,
		BillingDate:   time.Now().AddDate(0, 0, -7),
		DueDate:       time.Now().AddDate(0, 0, 7),
		Amount:        amount,
		TaxAmount:     decimal.Zero,
		TotalAmount:   amount,
		Status:        status,
	}
	require.NoError(t, db.Create(billing).Error)
	return billing
}
