package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"gorm.io/gorm"
)

type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) Create(ctx context.Context, device *domain.Device) error {
	return r.db.WithContext(ctx).Create(device).Error
}

func (r *DeviceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	var device domain.Device
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyCompanyScope(ctx, query)
	err := query.First(&device).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *DeviceRepository) Update(ctx context.Context, device *domain.Device) error {
	return r.db.WithContext(ctx).Save(device).Error
}

func (r *DeviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Device{}, "id = ?", id).Error
}

func (r *DeviceRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.Device, int64, error) {
	var devices []domain.Device
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Device{})
	query = ApplyCompanyScope(ctx, query)

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(ip_address) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&devices).Error

	return devices, total, err
}

// ListInScope loads every device visible to the current scope, in a stable
// order. The monitoring run iterates this set.
func (r *DeviceRepository) ListInScope(ctx context.Context) ([]domain.Device, error) {
	var devices []domain.Device
	query := r.db.WithContext(ctx)
	query = ApplyCompanyScope(ctx, query)
	err := query.Order("created_at ASC").Find(&devices).Error
	return devices, err
}

// ListByCompany returns one company's devices, oldest first. The tenant
// filter still applies, so a foreign company yields no rows.
func (r *DeviceRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]domain.Device, error) {
	var devices []domain.Device
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	query = ApplyCompanyScope(ctx, query)
	err := query.Order("created_at ASC").Find(&devices).Error
	return devices, err
}

func (r *DeviceRepository) CountInScope(ctx context.Context) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Device{})
	query = ApplyCompanyScope(ctx, query)
	err := query.Count(&count).Error
	return count, err
}

// CountByStatus returns the device status breakdown over all companies.
// Intentionally unscoped.
func (r *DeviceRepository) CountByStatus(ctx context.Context) (domain.DeviceStatusStats, error) {
	var stats domain.DeviceStatusStats
	rows := []struct {
		Status domain.DeviceStatus
		Count  int64
	}{}
	err := r.db.WithContext(ctx).Model(&domain.Device{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return stats, err
	}
	for _, row := range rows {
		switch row.Status {
		case domain.DeviceStatusOnline:
			stats.Online = row.Count
		case domain.DeviceStatusOffline:
			stats.Offline = row.Count
		case domain.DeviceStatusMaintenance:
			stats.Maintenance = row.Count
		}
	}
	return stats, nil
}

// UpdateMonitoring writes back the result of one monitoring check. The
// write happens for every checked device, including failed checks.
func (r *DeviceRepository) UpdateMonitoring(ctx context.Context, id uuid.UUID, status domain.DeviceStatus, lastSeen time.Time, metrics domain.JSONMap) error {
	return r.db.WithContext(ctx).Model(&domain.Device{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"last_seen":    lastSeen,
			"last_metrics": metrics,
		}).Error
}
