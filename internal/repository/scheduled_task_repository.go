package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"gorm.io/gorm"
)

// ScheduledTaskRepository stores per-company task definitions. The tables
// exist for forward compatibility; no scheduler consumes them yet.
type ScheduledTaskRepository struct {
	db *gorm.DB
}

func NewScheduledTaskRepository(db *gorm.DB) *ScheduledTaskRepository {
	return &ScheduledTaskRepository{db: db}
}

func (r *ScheduledTaskRepository) Create(ctx context.Context, task *domain.ScheduledTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *ScheduledTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScheduledTask, error) {
	var task domain.ScheduledTask
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyCompanyScope(ctx, query)
	err := query.First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *ScheduledTaskRepository) Update(ctx context.Context, task *domain.ScheduledTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *ScheduledTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ScheduledTask{}, "id = ?", id).Error
}

func (r *ScheduledTaskRepository) ListActive(ctx context.Context) ([]domain.ScheduledTask, error) {
	var tasks []domain.ScheduledTask
	query := r.db.WithContext(ctx).
		Where("status = ?", domain.ScheduledTaskStatusActive)
	query = ApplyCompanyScope(ctx, query)
	err := query.Order("next_run ASC").Find(&tasks).Error
	return tasks, err
}

// MarkRun records a completed execution and advances the run timestamps.
func (r *ScheduledTaskRepository) MarkRun(ctx context.Context, id uuid.UUID, ranAt time.Time, nextRun *time.Time, results domain.JSONMap) error {
	return r.db.WithContext(ctx).
		Model(&domain.ScheduledTask{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_run": ranAt,
			"next_run": nextRun,
			"results":  results,
		}).Error
}
