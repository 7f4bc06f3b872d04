package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cane-field-api/internal/domain"
)

// LegacyGrowthRepository mirrors field growth data into the table the
// previous tracker read from. Writes here are advisory: callers log
// failures and move on, the fields table stays authoritative.
type LegacyGrowthRepository interface {
	Upsert(ctx context.Context, record *domain.LegacyGrowthRecord) error
	FindByField(ctx context.Context, fieldID uuid.UUID) (*domain.LegacyGrowthRecord, error)
}

type legacyGrowthRepositoryImpl struct {
	db *gorm.DB
}

// NewLegacyGrowthRepository creates a new instance of LegacyGrowthRepository
func NewLegacyGrowthRepository(db *gorm.DB) LegacyGrowthRepository {
	return &legacyGrowthRepositoryImpl{db: db}
}

func (r *legacyGrowthRepositoryImpl) Upsert(ctx context.Context, record *domain.LegacyGrowthRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "field_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(record).Error
}

func (r *legacyGrowthRepositoryImpl) FindByField(ctx context.Context, fieldID uuid.UUID) (*domain.LegacyGrowthRecord, error) {
	var record domain.LegacyGrowthRecord
	if err := r.db.WithContext(ctx).
		Where("field_id = ?", fieldID).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
