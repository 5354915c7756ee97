package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/technet-isp/backoffice-api/internal/auth"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"github.com/technet-isp/backoffice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// recentBillingLimit caps the dashboard's recent invoice list
const recentBillingLimit = 10

type DashboardService struct {
	userRepo     *repository.UserRepository
	companyRepo  *repository.CompanyRepository
	deviceRepo   *repository.DeviceRepository
	customerRepo *repository.CustomerRepository
	employeeRepo *repository.EmployeeRepository
	billingRepo  *repository.BillingRepository
	logger       *zap.Logger
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	companyRepo *repository.CompanyRepository,
	deviceRepo *repository.DeviceRepository,
	customerRepo *repository.CustomerRepository,
	employeeRepo *repository.EmployeeRepository,
	billingRepo *repository.BillingRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		userRepo:     userRepo,
		companyRepo:  companyRepo,
		deviceRepo:   deviceRepo,
		customerRepo: customerRepo,
		employeeRepo: employeeRepo,
		billingRepo:  billingRepo,
		logger:       logger,
	}
}

// GetDashboard assembles the dashboard payload for the authenticated user.
// Totals and revenue follow the resolved company scope; the status
// breakdowns and the recent invoice list are global. Every call reads
// fresh from the store.
func (s *DashboardService) GetDashboard(ctx context.Context) (*domain.DashboardData, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	data := &domain.DashboardData{
		User:          user,
		Companies:     []domain.Company{},
		RecentBilling: []domain.Billing{},
	}

	if user.CompanyID != nil {
		company, err := s.companyRepo.GetByIDUnscoped(ctx, *user.CompanyID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load current company: %w", err)
		}
		data.CurrentCompany = company
	}

	companies, err := s.companyRepo.ListInScopeWithRelations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	if companies != nil {
		data.Companies = companies
	}

	stats, err := s.collectStats(ctx)
	if err != nil {
		return nil, err
	}
	data.Stats = *stats

	recent, err := s.billingRepo.Recent(ctx, recentBillingLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent billing: %w", err)
	}
	if recent != nil {
		data.RecentBilling = recent
	}

	return data, nil
}

func (s *DashboardService) collectStats(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	var err error
	if stats.TotalDevices, err = s.deviceRepo.CountInScope(ctx); err != nil {
		return nil, fmt.Errorf("failed to count devices: %w", err)
	}
	if stats.TotalCustomers, err = s.customerRepo.CountInScope(ctx); err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if stats.TotalEmployees, err = s.employeeRepo.CountInScope(ctx); err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}
	if stats.TotalRevenue, err = s.billingRepo.SumPaidInScope(ctx); err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if stats.DeviceStats, err = s.deviceRepo.CountByStatus(ctx); err != nil {
		return nil, fmt.Errorf("failed to count devices by status: %w", err)
	}
	if stats.CustomerStats, err = s.customerRepo.CountByStatus(ctx); err != nil {
		return nil, fmt.Errorf("failed to count customers by status: %w", err)
	}

	return stats, nil
}
