package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cane-field-api/internal/domain"
)

// AssignmentRepository defines the interface for field assignment data access
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.FieldAssignment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.FieldAssignment, error)
	FindByField(ctx context.Context, fieldID uuid.UUID) ([]*domain.FieldAssignment, error)
	FindApprovedWorkers(ctx context.Context, fieldID uuid.UUID) ([]uuid.UUID, error)
	ExistsByFieldAndUser(ctx context.Context, fieldID, userID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AssignmentStatus) error
}

type assignmentRepositoryImpl struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new instance of AssignmentRepository
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepositoryImpl{db: db}
}

func (r *assignmentRepositoryImpl) Create(ctx context.Context, assignment *domain.FieldAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.FieldAssignment, error) {
	var assignment domain.FieldAssignment
	if err := r.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepositoryImpl) FindByField(ctx context.Context, fieldID uuid.UUID) ([]*domain.FieldAssignment, error) {
	var assignments []*domain.FieldAssignment
	if err := r.db.WithContext(ctx).
		Where("field_id = ?", fieldID).
		Order("created_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindApprovedWorkers returns the user IDs of approved workers on a field
func (r *assignmentRepositoryImpl) FindApprovedWorkers(ctx context.Context, fieldID uuid.UUID) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&domain.FieldAssignment{}).
		Where("field_id = ? AND status = ?", fieldID, domain.AssignmentApproved).
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}
	return userIDs, nil
}

func (r *assignmentRepositoryImpl) ExistsByFieldAndUser(ctx context.Context, fieldID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.FieldAssignment{}).
		Where("field_id = ? AND user_id = ?", fieldID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *assignmentRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AssignmentStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.FieldAssignment{}).
		Where("id = ?", id).
		Update("status", status).Error
}
