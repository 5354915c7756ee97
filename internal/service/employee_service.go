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

type EmployeeService struct {
	employeeRepo *repository.EmployeeRepository
	logger       *zap.Logger
}

func NewEmployeeService(employeeRepo *repository.EmployeeRepository, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		logger:       logger,
	}
}

func (s *EmployeeService) Create(ctx context.Context, req *domain.CreateEmployeeRequest) (*domain.Employee, error) {
	if !repository.HasCompanyAccess(ctx, req.CompanyID) {
		return nil, ErrNotFound
	}

	employee := &domain.Employee{
		CompanyID:      req.CompanyID,
		EmployeeID:     req.EmployeeID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		Position:       req.Position,
		Department:     req.Department,
		Salary:         req.Salary,
		HireDate:       req.HireDate,
		BirthDate:      req.BirthDate,
		Status:         domain.EmployeeStatusActive,
		EmploymentType: req.EmploymentType,
		Permissions:    req.Permissions,
		Notes:          req.Notes,
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.logger.Info("employee created",
		zap.String("employee_id", employee.ID.String()),
		zap.String("reference", employee.EmployeeID),
	)
	return employee, nil
}

func (s *EmployeeService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateEmployeeRequest) (*domain.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	employee.Name = req.Name
	employee.Phone = req.Phone
	employee.Address = req.Address
	employee.Position = req.Position
	employee.Department = req.Department
	employee.Salary = req.Salary
	employee.Status = req.Status
	employee.EmploymentType = req.EmploymentType
	if req.Permissions != nil {
		employee.Permissions = req.Permissions
	}
	employee.Notes = req.Notes

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return employee, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.employeeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get employee: %w", err)
	}
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

func (s *EmployeeService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	page, pageSize = clampPaging(page, pageSize)

	employees, total, err := s.employeeRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return paginated(employees, total, page, pageSize), nil
}
