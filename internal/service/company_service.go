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

type CompanyService struct {
	companyRepo *repository.CompanyRepository
	logger      *zap.Logger
}

func NewCompanyService(companyRepo *repository.CompanyRepository, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		logger:      logger,
	}
}

func (s *CompanyService) Create(ctx context.Context, req *domain.CreateCompanyRequest) (*domain.Company, error) {
	// A tenant's parent, when set, must be a parent-type company
	if req.ParentID != nil {
		parent, err := s.companyRepo.GetByIDUnscoped(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCompanyNotFound
			}
			return nil, fmt.Errorf("failed to load parent company: %w", err)
		}
		if !parent.IsParent() {
			return nil, fmt.Errorf("%w: parent company must have type parent", ErrInvalidInput)
		}
	}

	company := &domain.Company{
		Name:     req.Name,
		Slug:     req.Slug,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Logo:     req.Logo,
		Type:     req.Type,
		ParentID: req.ParentID,
		IsActive: true,
		Settings: req.Settings,
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.logger.Info("company created",
		zap.String("company_id", company.ID.String()),
		zap.String("slug", company.Slug),
	)
	return company, nil
}

func (s *CompanyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

func (s *CompanyService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCompanyRequest) (*domain.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	company.Name = req.Name
	company.Phone = req.Phone
	company.Address = req.Address
	company.Logo = req.Logo
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}
	if req.Settings != nil {
		company.Settings = req.Settings
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return company, nil
}

func (s *CompanyService) Delete(ctx context.Context, id uuid.UUID) error {
	// Confirm visibility before deleting
	if _, err := s.companyRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get company: %w", err)
	}
	if err := s.companyRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	return nil
}

func (s *CompanyService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	page, pageSize = clampPaging(page, pageSize)

	companies, total, err := s.companyRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	return paginated(companies, total, page, pageSize), nil
}

// clampPaging normalizes page/pageSize query values
func clampPaging(page, pageSize int) (int, int) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > repository.MaxPageSize {
		pageSize = repository.MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	return page, pageSize
}

func paginated(data interface{}, total int64, page, pageSize int) *domain.PaginatedResponse {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
