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

type DeviceService struct {
	deviceRepo *repository.DeviceRepository
	logger     *zap.Logger
}

func NewDeviceService(deviceRepo *repository.DeviceRepository, logger *zap.Logger) *DeviceService {
	return &DeviceService{
		deviceRepo: deviceRepo,
		logger:     logger,
	}
}

func (s *DeviceService) Create(ctx context.Context, req *domain.CreateDeviceRequest) (*domain.Device, error) {
	if !repository.HasCompanyAccess(ctx, req.CompanyID) {
		return nil, ErrNotFound
	}

	port := req.Port
	if port == 0 {
		port = 22
	}

	device := &domain.Device{
		CompanyID:        req.CompanyID,
		Name:             req.Name,
		Type:             req.Type,
		Brand:            req.Brand,
		Model:            req.Model,
		IPAddress:        req.IPAddress,
		Port:             port,
		Username:         req.Username,
		Password:         req.Password,
		CommunityString:  req.CommunityString,
		Status:           domain.DeviceStatusOffline,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Description:      req.Description,
		MonitoringConfig: req.MonitoringConfig,
		IsActive:         true,
	}

	if err := s.deviceRepo.Create(ctx, device); err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	s.logger.Info("device created",
		zap.String("device_id", device.ID.String()),
		zap.String("type", string(device.Type)),
	)
	return device, nil
}

func (s *DeviceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	device, err := s.deviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	return device, nil
}

func (s *DeviceService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateDeviceRequest) (*domain.Device, error) {
	device, err := s.deviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	device.Name = req.Name
	device.Brand = req.Brand
	device.Model = req.Model
	device.IPAddress = req.IPAddress
	if req.Port != 0 {
		device.Port = req.Port
	}
	device.Username = req.Username
	device.Password = req.Password
	device.CommunityString = req.CommunityString
	device.Description = req.Description
	if req.MonitoringConfig != nil {
		device.MonitoringConfig = req.MonitoringConfig
	}
	if req.IsActive != nil {
		device.IsActive = *req.IsActive
	}

	if err := s.deviceRepo.Update(ctx, device); err != nil {
		return nil, fmt.Errorf("failed to update device: %w", err)
	}
	return device, nil
}

func (s *DeviceService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.deviceRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get device: %w", err)
	}
	if err := s.deviceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	return nil
}

func (s *DeviceService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	page, pageSize = clampPaging(page, pageSize)

	devices, total, err := s.deviceRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	return paginated(devices, total, page, pageSize), nil
}
