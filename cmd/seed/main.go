// Seeds the database with a parent operator, three tenant companies and
// realistic demo data for local development. Safe to run only against an
// empty database; unique constraints will reject a second run.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/technet-isp/backoffice-api/internal/config"
	"github.com/technet-isp/backoffice-api/internal/database"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"github.com/technet-isp/backoffice-api/internal/service"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	passwordHash, err := service.HashPassword("password", cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	parent := &domain.Company{
		Name:    "TechNet ISP Solutions",
		Slug:    "technet-isp",
		Email:   "admin@technet-isp.com",
		Phone:   "+1-555-0100",
		Address: "123 Technology Boulevard, Tech City, TC 12345",
		Type:    domain.CompanyTypeParent,
		Settings: domain.JSONMap{
			"timezone":      "UTC",
			"currency":      "USD",
			"billing_cycle": "monthly",
		},
		IsActive: true,
	}
	if err := db.Create(parent).Error; err != nil {
		return fmt.Errorf("failed to create parent company: %w", err)
	}

	users := []*domain.User{
		{
			CompanyID:    nil,
			Name:         "Super Administrator",
			Email:        "superadmin@technet-isp.com",
			PasswordHash: passwordHash,
			Role:         domain.RoleSuperAdmin,
			IsActive:     true,
			Permissions:  domain.JSONMap{"all_permissions": true, "multi_tenant_access": true},
		},
		{
			CompanyID:    &parent.ID,
			Name:         "John Smith",
			Email:        "john@technet-isp.com",
			PasswordHash: passwordHash,
			Role:         domain.RoleAdmin,
			IsActive:     true,
			Permissions:  domain.JSONMap{"company_management": true, "device_monitoring": true, "billing_access": true},
		},
	}
	for _, u := range users {
		if err := db.Create(u).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
	}

	tenants := []struct {
		name    string
		slug    string
		email   string
		phone   string
		address string
	}{
		{"Metro Fiber Networks", "metro-fiber-networks", "admin@metro-fiber.com", "+1-555-0200", "456 Metro Street, Metro City, MC 23456"},
		{"Rural Connect ISP", "rural-connect-isp", "admin@ruralconnect.com", "+1-555-0300", "789 Rural Route, Country Town, CT 34567"},
		{"City Wireless Solutions", "city-wireless-solutions", "admin@citywireless.com", "+1-555-0400", "321 Wireless Way, Urban Center, UC 45678"},
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i, t := range tenants {
		tenant := &domain.Company{
			Name:     t.name,
			Slug:     t.slug,
			Email:    t.email,
			Phone:    t.phone,
			Address:  t.address,
			Type:     domain.CompanyTypeTenant,
			ParentID: &parent.ID,
			IsActive: true,
			Settings: domain.JSONMap{
				"timezone":      "America/New_York",
				"currency":      "USD",
				"billing_cycle": "monthly",
			},
		}
		if err := db.Create(tenant).Error; err != nil {
			return fmt.Errorf("failed to create tenant %s: %w", t.name, err)
		}

		admin := &domain.User{
			CompanyID:    &tenant.ID,
			Name:         fmt.Sprintf("Admin %s", t.name),
			Email:        t.email,
			PasswordHash: passwordHash,
			Role:         domain.RoleAdmin,
			IsActive:     true,
			Permissions:  domain.JSONMap{"device_monitoring": true, "customer_management": true, "billing_access": true},
		}
		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create tenant admin: %w", err)
		}

		if err := seedTenantData(db, rng, tenant, i); err != nil {
			return fmt.Errorf("failed to seed tenant %s: %w", t.name, err)
		}
	}

	if err := seedDevices(db, rng, parent.ID, 10, "hq"); err != nil {
		return fmt.Errorf("failed to seed parent devices: %w", err)
	}

	fmt.Println("Seeding completed successfully")
	fmt.Println("Login credentials:")
	fmt.Println("  Super Admin:  superadmin@technet-isp.com / password")
	fmt.Println("  Parent Admin: john@technet-isp.com / password")
	fmt.Println("  Tenant Admin: admin@metro-fiber.com / password")
	return nil
}

func seedTenantData(db *gorm.DB, rng *rand.Rand, tenant *domain.Company, idx int) error {
	if err := seedDevices(db, rng, tenant.ID, 8, fmt.Sprintf("t%d", idx+1)); err != nil {
		return err
	}

	plans := []struct {
		name string
		fee  string
	}{
		{"Basic 10Mbps", "29.99"},
		{"Standard 25Mbps", "49.99"},
		{"Premium 50Mbps", "79.99"},
		{"Ultimate 100Mbps", "129.99"},
	}
	connectionTypes := []domain.ConnectionType{
		domain.ConnectionTypeFiber,
		domain.ConnectionTypeWireless,
		domain.ConnectionTypeCable,
	}

	customers := make([]*domain.Customer, 0, 20)
	for i := 0; i < 20; i++ {
		plan := plans[rng.Intn(len(plans))]
		fee, _ := decimal.NewFromString(plan.fee)
		conn := connectionTypes[rng.Intn(len(connectionTypes))]
		installed := time.Now().AddDate(0, -rng.Intn(24), 0)

		status := domain.CustomerStatusActive
		if i >= 16 {
			status = domain.CustomerStatusSuspended
		}

		c := &domain.Customer{
			CompanyID:        tenant.ID,
			CustomerID:       fmt.Sprintf("CUST-%d%03d", idx+1, i+1),
			Name:             fmt.Sprintf("Customer %d-%03d", idx+1, i+1),
			Email:            fmt.Sprintf("customer%d%03d@example.com", idx+1, i+1),
			Phone:            fmt.Sprintf("+1-555-1%d%02d", idx+1, i+1),
			Status:           status,
			ConnectionType:   &conn,
			ServicePlan:      plan.name,
			MonthlyFee:       fee,
			InstallationDate: &installed,
		}
		if err := db.Create(c).Error; err != nil {
			return err
		}
		customers = append(customers, c)
	}

	positions := []string{"Network Engineer", "Field Technician", "Support Agent", "Accountant"}
	for i := 0; i < 8; i++ {
		position := positions[rng.Intn(len(positions))]
		empType := domain.EmploymentTypeFullTime
		if i%4 == 3 {
			empType = domain.EmploymentTypeContract
		}

		e := &domain.Employee{
			CompanyID:      tenant.ID,
			EmployeeID:     fmt.Sprintf("EMP-%d%03d", idx+1, i+1),
			Name:           fmt.Sprintf("Employee %d-%03d", idx+1, i+1),
			Email:          fmt.Sprintf("employee%d%03d@example.com", idx+1, i+1),
			Position:       position,
			Department:     "Operations",
			Salary:         decimal.NewFromInt(int64(35000 + rng.Intn(40000))),
			HireDate:       time.Now().AddDate(-rng.Intn(5), -rng.Intn(12), 0),
			Status:         domain.EmployeeStatusActive,
			EmploymentType: empType,
		}
		if err := db.Create(e).Error; err != nil {
			return err
		}
	}

	invoiceSeq := 0
	for _, c := range customers[:10] {
		for j := 0; j < 3; j++ {
			invoiceSeq++
			amount := c.MonthlyFee
			tax := amount.Mul(decimal.NewFromFloat(0.1)).Round(2)
			billingDate := time.Now().AddDate(0, -j, 0)

			b := &domain.Billing{
				CompanyID:     tenant.ID,
				CustomerID:    c.ID,
				InvoiceNumber: fmt.Sprintf("INV-%d-%05d", idx+1, invoiceSeq),
				BillingDate:   billingDate,
				DueDate:       billingDate.AddDate(0, 0, 14),
				Amount:        amount,
				TaxAmount:     tax,
				TotalAmount:   amount.Add(tax),
				Status:        domain.BillingStatusPending,
			}
			// Older invoices are marked paid so the dashboard revenue is non-zero
			if j > 0 {
				method := domain.PaymentMethodBankTransfer
				paidAt := billingDate.AddDate(0, 0, rng.Intn(14))
				b.Status = domain.BillingStatusPaid
				b.PaymentMethod = &method
				b.PaidAt = &paidAt
			}
			if err := db.Create(b).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func seedDevices(db *gorm.DB, rng *rand.Rand, companyID uuid.UUID, count int, prefix string) error {
	types := []domain.DeviceType{
		domain.DeviceTypeRouter,
		domain.DeviceTypeOLT,
		domain.DeviceTypeTR069,
		domain.DeviceTypeSSH,
		domain.DeviceTypeSNMP,
	}
	brands := []string{"MikroTik", "Huawei", "Cisco", "ZTE", "Ubiquiti"}

	for i := 0; i < count; i++ {
		deviceType := types[rng.Intn(len(types))]
		status := domain.DeviceStatusOnline
		if i%4 == 3 {
			status = domain.DeviceStatusOffline
		}

		d := &domain.Device{
			CompanyID: companyID,
			Name:      fmt.Sprintf("%s-%s-%02d", prefix, deviceType, i+1),
			Type:      deviceType,
			Brand:     brands[rng.Intn(len(brands))],
			IPAddress: fmt.Sprintf("10.%d.0.%d", rng.Intn(250)+1, i+1),
			Port:      22,
			Status:    status,
			IsActive:  true,
		}
		if err := db.Create(d).Error; err != nil {
			return err
		}
	}
	return nil
}
