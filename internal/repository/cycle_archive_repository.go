package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cane-field-api/internal/domain"
)

// CycleArchiveRepository defines the interface for cycle archive data access.
// Archives are append only: there is no update or delete path.
type CycleArchiveRepository interface {
	Append(ctx context.Context, archive *domain.CycleArchive) error
	Exists(ctx context.Context, fieldID uuid.UUID, plantingCycle, ratoonNumber int) (bool, error)
	ListByField(ctx context.Context, fieldID uuid.UUID) ([]*domain.CycleArchive, error)
	CountByField(ctx context.Context, fieldID uuid.UUID) (int64, error)
}

type cycleArchiveRepositoryImpl struct {
	db *gorm.DB
}

// NewCycleArchiveRepository creates a new instance of CycleArchiveRepository
func NewCycleArchiveRepository(db *gorm.DB) CycleArchiveRepository {
	return &cycleArchiveRepositoryImpl{db: db}
}

func (r *cycleArchiveRepositoryImpl) Append(ctx context.Context, archive *domain.CycleArchive) error {
	return r.db.WithContext(ctx).Create(archive).Error
}

// Exists reports whether the given cycle of a field was already archived
func (r *cycleArchiveRepositoryImpl) Exists(ctx context.Context, fieldID uuid.UUID, plantingCycle, ratoonNumber int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.CycleArchive{}).
		Where("field_id = ? AND planting_cycle = ? AND ratoon_number = ?", fieldID, plantingCycle, ratoonNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByField returns a field's archives in chronological order, oldest first
func (r *cycleArchiveRepositoryImpl) ListByField(ctx context.Context, fieldID uuid.UUID) ([]*domain.CycleArchive, error) {
	var archives []*domain.CycleArchive
	if err := r.db.WithContext(ctx).
		Where("field_id = ?", fieldID).
		Order("archived_at ASC").
		Find(&archives).Error; err != nil {
		return nil, err
	}
	return archives, nil
}

func (r *cycleArchiveRepositoryImpl) CountByField(ctx context.Context, fieldID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.CycleArchive{}).
		Where("field_id = ?", fieldID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
