package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"gorm.io/gorm"
)

type BillingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

func (r *BillingRepository) Create(ctx context.Context, billing *domain.Billing) error {
	return r.db.WithContext(ctx).Create(billing).Error
}

func (r *BillingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Billing, error) {
	var billing domain.Billing
	query := r.db.WithContext(ctx).Preload("Customer").Where("id = ?", id)
	query = ApplyCompanyScope(ctx, query)
	err := query.First(&billing).Error
	if err != nil {
		return nil, err
	}
	return &billing, nil
}

func (r *BillingRepository) Update(ctx context.Context, billing *domain.Billing) error {
	return r.db.WithContext(ctx).Save(billing).Error
}

func (r *BillingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Billing{}, "id = ?", id).Error
}

func (r *BillingRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.Billing, int64, error) {
	var billings []domain.Billing
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Billing{})
	query = ApplyCompanyScope(ctx, query)

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(invoice_number) LIKE ?", searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Customer").
		Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&billings).Error

	return billings, total, err
}

// SumPaidInScope sums total_amount over paid billings in the current scope.
// Amounts are plucked as strings and summed as decimals in Go, so the
// result is exact on every backend. SQL SUM over a numeric-affinity column
// goes through binary floats on some engines.
func (r *BillingRepository) SumPaidInScope(ctx context.Context) (decimal.Decimal, error) {
	var amounts []string
	query := r.db.WithContext(ctx).Model(&domain.Billing{}).
		Where("status = ?", domain.BillingStatusPaid)
	query = ApplyCompanyScope(ctx, query)
	if err := query.Pluck("total_amount", &amounts).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, raw := range amounts {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(amount)
	}
	return total, nil
}

// Recent returns the newest billing records across all companies with the
// customer and company relations loaded. Intentionally unscoped.
func (r *BillingRepository) Recent(ctx context.Context, limit int) ([]domain.Billing, error) {
	var billings []domain.Billing
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Company").
		Order("created_at DESC").
		Limit(limit).
		Find(&billings).Error
	return billings, err
}
