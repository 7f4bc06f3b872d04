package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cane-field-api/internal/domain"
)

// FieldRepository defines the interface for field data access
type FieldRepository interface {
	Create(ctx context.Context, field *domain.Field) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Field, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Field, error)
	FindByStatus(ctx context.Context, status domain.FieldStatus) ([]*domain.Field, error)
	UpdateGrowth(ctx context.Context, id uuid.UUID, attrs map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// fieldRepositoryImpl is the GORM implementation of FieldRepository
type fieldRepositoryImpl struct {
	db *gorm.DB
}

// NewFieldRepository creates a new instance of FieldRepository
func NewFieldRepository(db *gorm.DB) FieldRepository {
	return &fieldRepositoryImpl{db: db}
}

// Create creates a new field
func (r *fieldRepositoryImpl) Create(ctx context.Context, field *domain.Field) error {
	if err := r.db.WithContext(ctx).Create(field).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a field by its ID
func (r *fieldRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
	var field domain.Field
	if err := r.db.WithContext(ctx).First(&field, id).Error; err != nil {
		return nil, err
	}
	return &field, nil
}

// FindByOwner finds all fields belonging to an owner
func (r *fieldRepositoryImpl) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Field, error) {
	var fields []*domain.Field
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

// FindByStatus finds all fields in a given cycle status
func (r *fieldRepositoryImpl) FindByStatus(ctx context.Context, status domain.FieldStatus) ([]*domain.Field, error) {
	var fields []*domain.Field
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

// UpdateGrowth applies a partial update to a field's growth attributes.
// Nil-valued attributes are stripped before the write; GORM stamps
// updated_at on the way through.
func (r *fieldRepositoryImpl) UpdateGrowth(ctx context.Context, id uuid.UUID, attrs map[string]interface{}) error {
	cleaned := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		if v == nil {
			continue
		}
		cleaned[k] = v
	}
	if len(cleaned) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domain.Field{}).
		Where("id = ?", id).
		Updates(cleaned).Error
}

// Delete soft deletes a field by ID
func (r *fieldRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Field{}, id).Error; err != nil {
		return err
	}
	return nil
}
