package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	var employee domain.Employee
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyCompanyScope(ctx, query)
	err := query.First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

func (r *EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Employee{}, "id = ?", id).Error
}

func (r *EmployeeRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.Employee, int64, error) {
	var employees []domain.Employee
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Employee{})
	query = ApplyCompanyScope(ctx, query)

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(employee_id) LIKE ? OR LOWER(position) LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&employees).Error

	return employees, total, err
}

func (r *EmployeeRepository) CountInScope(ctx context.Context) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Employee{})
	query = ApplyCompanyScope(ctx, query)
	err := query.Count(&count).Error
	return count, err
}
