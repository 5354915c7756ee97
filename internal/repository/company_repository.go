package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(ctx context.Context, company *domain.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	var company domain.Company
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyCompanyScopeWithColumn(ctx, query, "id")
	err := query.First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// GetByIDUnscoped loads a company without tenant filtering. Used by the
// dashboard to resolve the current company from the user record.
func (r *CompanyRepository) GetByIDUnscoped(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	var company domain.Company
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *CompanyRepository) GetBySlug(ctx context.Context, slug string) (*domain.Company, error) {
	var company domain.Company
	query := r.db.WithContext(ctx).Where("slug = ?", slug)
	query = ApplyCompanyScopeWithColumn(ctx, query, "id")
	err := query.First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *CompanyRepository) Update(ctx context.Context, company *domain.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

func (r *CompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Company{}, "id = ?", id).Error
}

func (r *CompanyRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.Company, int64, error) {
	var companies []domain.Company
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Company{})
	query = ApplyCompanyScopeWithColumn(ctx, query, "id")

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&companies).Error

	return companies, total, err
}

// ListInScopeWithRelations loads every company visible to the current scope
// with devices, customers and employees preloaded. The dashboard embeds the
// full collections in its payload, oldest company first.
func (r *CompanyRepository) ListInScopeWithRelations(ctx context.Context) ([]domain.Company, error) {
	var companies []domain.Company
	query := r.db.WithContext(ctx).
		Preload("Devices").
		Preload("Customers").
		Preload("Employees")
	query = ApplyCompanyScopeWithColumn(ctx, query, "id")
	err := query.Order("created_at ASC").Find(&companies).Error
	return companies, err
}
