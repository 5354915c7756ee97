package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"github.com/technet-isp/backoffice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type BillingService struct {
	billingRepo  *repository.BillingRepository
	customerRepo *repository.CustomerRepository
	logger       *zap.Logger
}

func NewBillingService(
	billingRepo *repository.BillingRepository,
	customerRepo *repository.CustomerRepository,
	logger *zap.Logger,
) *BillingService {
	return &BillingService{
		billingRepo:  billingRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create issues an invoice. The total is always derived server-side as
// amount + tax_amount, and the customer must belong to the invoice's
// company.
func (s *BillingService) Create(ctx context.Context, req *domain.CreateBillingRequest) (*domain.Billing, error) {
	if !repository.HasCompanyAccess(ctx, req.CompanyID) {
		return nil, ErrNotFound
	}

	customer, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer.CompanyID != req.CompanyID {
		return nil, ErrCustomerCompanyMismatch
	}

	billing := &domain.Billing{
		CompanyID:     req.CompanyID,
		CustomerID:    req.CustomerID,
		InvoiceNumber: req.InvoiceNumber,
		BillingDate:   req.BillingDate,
		DueDate:       req.DueDate,
		Amount:        req.Amount,
		TaxAmount:     req.TaxAmount,
		TotalAmount:   req.Amount.Add(req.TaxAmount),
		Status:        domain.BillingStatusPending,
		Description:   req.Description,
		LineItems:     req.LineItems,
	}

	if err := s.billingRepo.Create(ctx, billing); err != nil {
		return nil, fmt.Errorf("failed to create billing: %w", err)
	}

	s.logger.Info("billing created",
		zap.String("billing_id", billing.ID.String()),
		zap.String("invoice_number", billing.InvoiceNumber),
		zap.String("total_amount", billing.TotalAmount.String()),
	)
	return billing, nil
}

func (s *BillingService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Billing, error) {
	billing, err := s.billingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get billing: %w", err)
	}
	return billing, nil
}

// UpdateStatus transitions an invoice. paid_at is set on the transition to
// paid and cleared when leaving it.
func (s *BillingService) UpdateStatus(ctx context.Context, id uuid.UUID, req *domain.UpdateBillingStatusRequest) (*domain.Billing, error) {
	billing, err := s.billingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get billing: %w", err)
	}

	billing.Status = req.Status
	billing.PaymentMethod = req.PaymentMethod
	if req.Status == domain.BillingStatusPaid {
		if billing.PaidAt == nil {
			now := time.Now().UTC()
			billing.PaidAt = &now
		}
	} else {
		billing.PaidAt = nil
	}

	if err := s.billingRepo.Update(ctx, billing); err != nil {
		return nil, fmt.Errorf("failed to update billing: %w", err)
	}
	return billing, nil
}

func (s *BillingService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.billingRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get billing: %w", err)
	}
	if err := s.billingRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete billing: %w", err)
	}
	return nil
}

func (s *BillingService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	page, pageSize = clampPaging(page, pageSize)

	billings, total, err := s.billingRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list billings: %w", err)
	}

	return paginated(billings, total, page, pageSize), nil
}
