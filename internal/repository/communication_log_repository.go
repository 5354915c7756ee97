package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"gorm.io/gorm"
)

// CommunicationLogRepository stores outbound customer messages. Delivery is
// handled elsewhere; this is the audit trail.
type CommunicationLogRepository struct {
	db *gorm.DB
}

func NewCommunicationLogRepository(db *gorm.DB) *CommunicationLogRepository {
	return &CommunicationLogRepository{db: db}
}

func (r *CommunicationLogRepository) Create(ctx context.Context, log *domain.CommunicationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *CommunicationLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CommunicationLog, error) {
	var log domain.CommunicationLog
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyCompanyScope(ctx, query)
	err := query.First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *CommunicationLogRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.CommunicationLog, error) {
	var logs []domain.CommunicationLog
	query := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	query = ApplyCompanyScope(ctx, query)
	err := query.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// MarkSent records a successful handoff to the delivery channel.
func (r *CommunicationLogRepository) MarkSent(ctx context.Context, id uuid.UUID, externalID string, sentAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.CommunicationLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      domain.CommunicationStatusSent,
			"external_id": externalID,
			"sent_at":     sentAt,
		}).Error
}

func (r *CommunicationLogRepository) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	return r.db.WithContext(ctx).
		Model(&domain.CommunicationLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        domain.CommunicationStatusFailed,
			"error_message": errorMessage,
		}).Error
}
