package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cane-field-api/internal/domain"
)

// WorkLogRepository defines the interface for work log data access
type WorkLogRepository interface {
	Create(ctx context.Context, log *domain.WorkLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.WorkLog, error)
	FindByField(ctx context.Context, fieldID uuid.UUID) ([]*domain.WorkLog, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type workLogRepositoryImpl struct {
	db *gorm.DB
}

// NewWorkLogRepository creates a new instance of WorkLogRepository
func NewWorkLogRepository(db *gorm.DB) WorkLogRepository {
	return &workLogRepositoryImpl{db: db}
}

func (r *workLogRepositoryImpl) Create(ctx context.Context, log *domain.WorkLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *workLogRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.WorkLog, error) {
	var log domain.WorkLog
	if err := r.db.WithContext(ctx).First(&log, id).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *workLogRepositoryImpl) FindByField(ctx context.Context, fieldID uuid.UUID) ([]*domain.WorkLog, error) {
	var logs []*domain.WorkLog
	if err := r.db.WithContext(ctx).
		Where("field_id = ?", fieldID).
		Order("logged_at DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *workLogRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.WorkLog{}, id).Error
}
