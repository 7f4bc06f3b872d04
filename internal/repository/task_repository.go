package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cane-field-api/internal/domain"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	CreateBatch(ctx context.Context, tasks []*domain.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByField(ctx context.Context, fieldID uuid.UUID) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	CompletedTypes(ctx context.Context, fieldID uuid.UUID, plantingCycle, ratoonNumber int) ([]domain.TaskType, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type taskRepositoryImpl struct {
	db *gorm.DB
}

// NewTaskRepository creates a new instance of TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepositoryImpl{db: db}
}

func (r *taskRepositoryImpl) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// CreateBatch inserts a set of tasks in a single statement
func (r *taskRepositoryImpl) CreateBatch(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tasks).Error
}

func (r *taskRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepositoryImpl) FindByField(ctx context.Context, fieldID uuid.UUID) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Where("field_id = ?", fieldID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepositoryImpl) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// CompletedTypes returns the distinct task types already completed for a
// field within the given planting cycle and ratoon number.
func (r *taskRepositoryImpl) CompletedTypes(ctx context.Context, fieldID uuid.UUID, plantingCycle, ratoonNumber int) ([]domain.TaskType, error) {
	var types []domain.TaskType
	if err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Distinct("type").
		Where("field_id = ? AND planting_cycle = ? AND ratoon_number = ? AND status = ?",
			fieldID, plantingCycle, ratoonNumber, domain.TaskStatusCompleted).
		Pluck("type", &types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *taskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Task{}, id).Error
}
