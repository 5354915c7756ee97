package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"github.com/technet-isp/backoffice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CustomerService struct {
	customerRepo *repository.CustomerRepository
	logger       *zap.Logger
}

func NewCustomerService(customerRepo *repository.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

func (s *CustomerService) Create(ctx context.Context, req *domain.CreateCustomerRequest) (*domain.Customer, error) {
	if !repository.HasCompanyAccess(ctx, req.CompanyID) {
		return nil, ErrNotFound
	}

	customer := &domain.Customer{
		CompanyID:        req.CompanyID,
		CustomerID:       req.CustomerID,
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		WhatsappNumber:   req.WhatsappNumber,
		Address:          req.Address,
		Status:           domain.CustomerStatusActive,
		ConnectionType:   req.ConnectionType,
		ServicePlan:      req.ServicePlan,
		MonthlyFee:       req.MonthlyFee,
		InstallationDate: req.InstallationDate,
		ContractEndDate:  req.ContractEndDate,
		Notes:            req.Notes,
		CustomFields:     req.CustomFields,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("reference", customer.CustomerID),
	)
	return customer, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCustomerRequest) (*domain.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	customer.Name = req.Name
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.WhatsappNumber = req.WhatsappNumber
	customer.Address = req.Address
	customer.Status = req.Status
	customer.ConnectionType = req.ConnectionType
	customer.ServicePlan = req.ServicePlan
	customer.MonthlyFee = req.MonthlyFee
	customer.ContractEndDate = req.ContractEndDate
	customer.Notes = req.Notes
	if req.CustomFields != nil {
		customer.CustomFields = req.CustomFields
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customerRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get customer: %w", err)
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

func (s *CustomerService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	page, pageSize = clampPaging(page, pageSize)

	customers, total, err := s.customerRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return paginated(customers, total, page, pageSize), nil
}
