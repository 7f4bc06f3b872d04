package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cane-field-api/internal/client"
	"cane-field-api/internal/domain"
	"cane-field-api/internal/dto"
	"cane-field-api/internal/metrics"
	"cane-field-api/internal/repository"
	"cane-field-api/internal/response"
)

// TaskService defines the interface for task business logic
type TaskService interface {
	CreateTask(ctx context.Context, req *dto.CreateTaskRequest, creatorID uuid.UUID) (*dto.TaskResponse, error)
	GetTask(ctx context.Context, taskID, userID uuid.UUID) (*dto.TaskResponse, error)
	ListFieldTasks(ctx context.Context, fieldID, userID uuid.UUID) ([]*dto.TaskResponse, error)
	CompleteTask(ctx context.Context, taskID, userID uuid.UUID, req *dto.CompleteTaskRequest) (*dto.TaskResponse, error)
	CancelTask(ctx context.Context, taskID, userID uuid.UUID) (*dto.TaskResponse, error)
}

type taskServiceImpl struct {
	taskRepo   repository.TaskRepository
	fieldRepo  repository.FieldRepository
	assignRepo repository.AssignmentRepository
	growth     GrowthService
	cycle      CycleService
	notifier   client.NotificationClient
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewTaskService creates a new instance of TaskService
func NewTaskService(taskRepo repository.TaskRepository, fieldRepo repository.FieldRepository, assignRepo repository.AssignmentRepository, growth GrowthService, cycle CycleService, notifier client.NotificationClient, m *metrics.Metrics, logger *zap.Logger) TaskService {
	return &taskServiceImpl{
		taskRepo:   taskRepo,
		fieldRepo:  fieldRepo,
		assignRepo: assignRepo,
		growth:     growth,
		cycle:      cycle,
		notifier:   notifier,
		metrics:    m,
		logger:     logger,
	}
}

// CreateTask creates a manual task on a field
func (s *taskServiceImpl) CreateTask(ctx context.Context, req *dto.CreateTaskRequest, creatorID uuid.UUID) (*dto.TaskResponse, error) {
	field, err := s.loadAccessibleField(ctx, req.FieldID, creatorID)
	if err != nil {
		return nil, err
	}

	taskType := req.Type
	if taskType == "" {
		taskType = domain.TaskTypeGeneral
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	assignees := req.AssigneeIDs
	if len(assignees) == 0 {
		assignees = []uuid.UUID{field.OwnerID}
	}
	assigneesJSON, err := json.Marshal(assignees)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to encode assignees", err.Error())
	}

	task := &domain.Task{
		FieldID:       req.FieldID,
		CreatorID:     creatorID,
		Type:          taskType,
		Title:         req.Title,
		Description:   req.Description,
		Priority:      priority,
		Status:        domain.TaskStatusPending,
		Deadline:      req.Deadline,
		AssigneeIDs:   assigneesJSON,
		Variety:       field.Variety,
		PlantingCycle: field.PlantingCycle,
		RatoonNumber:  field.RatoonNumber,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create task", err.Error())
	}

	// Graceful degradation: log error but don't fail the operation
	events := make([]client.NotificationEvent, 0, len(assignees))
	for _, userID := range assignees {
		if userID == creatorID {
			continue
		}
		events = append(events, client.NotificationEvent{
			Type:         client.NotificationTaskAssigned,
			TargetUserID: userID,
			Message:      fmt.Sprintf("You were assigned to \"%s\" on %s", task.Title, field.Name),
			RelatedID:    task.ID,
		})
	}
	if err := s.notifier.NotifyBulk(ctx, events); err != nil {
		s.logger.Warn("Failed to send task assignment notifications", zap.Error(err))
	}

	return toTaskResponse(task), nil
}

// GetTask returns a single task visible to the user
func (s *taskServiceImpl) GetTask(ctx context.Context, taskID, userID uuid.UUID) (*dto.TaskResponse, error) {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadAccessibleField(ctx, task.FieldID, userID); err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

// ListFieldTasks returns all tasks on a field, oldest first
func (s *taskServiceImpl) ListFieldTasks(ctx context.Context, fieldID, userID uuid.UUID) ([]*dto.TaskResponse, error) {
	if _, err := s.loadAccessibleField(ctx, fieldID, userID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.FindByField(ctx, fieldID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list tasks", err.Error())
	}
	responses := make([]*dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, toTaskResponse(t))
	}
	return responses, nil
}

// CompleteTask marks a task completed and triggers the growth side effect
// its activity implies. The status update is authoritative: once it commits
// the task stays completed even when the growth update cannot run, those
// failures are logged and surfaced through the growth record instead.
func (s *taskServiceImpl) CompleteTask(ctx context.Context, taskID, userID uuid.UUID, req *dto.CompleteTaskRequest) (*dto.TaskResponse, error) {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	field, err := s.loadAccessibleField(ctx, task.FieldID, userID)
	if err != nil {
		return nil, err
	}
	if task.Status == domain.TaskStatusCompleted {
		return nil, response.NewAppError(response.ErrCodeInvalidState, "Task is already completed", "")
	}
	if task.Status == domain.TaskStatusCancelled {
		return nil, response.NewAppError(response.ErrCodeInvalidState, "Cancelled tasks cannot be completed", "")
	}

	completedAt := time.Now().UTC()
	if req != nil && req.CompletedAt != nil {
		completedAt = req.CompletedAt.UTC()
	}

	task.Status = domain.TaskStatusCompleted
	task.CompletedAt = &completedAt
	task.CompletedBy = &userID
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to complete task", err.Error())
	}
	s.metrics.IncrementTaskCompleted()

	s.dispatchGrowthEffect(ctx, task, field, completedAt)

	// Graceful degradation: log error but don't fail the operation
	if err := s.notifier.Notify(ctx, client.NotificationEvent{
		Type:         client.NotificationTaskCompleted,
		TargetUserID: field.OwnerID,
		Message:      fmt.Sprintf("\"%s\" was completed on %s", task.Title, field.Name),
		RelatedID:    task.ID,
	}); err != nil {
		s.logger.Warn("Failed to send task completion notification", zap.Error(err))
	}

	return toTaskResponse(task), nil
}

// CancelTask cancels a pending or in-progress task
func (s *taskServiceImpl) CancelTask(ctx context.Context, taskID, userID uuid.UUID) (*dto.TaskResponse, error) {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	field, err := s.loadAccessibleField(ctx, task.FieldID, userID)
	if err != nil {
		return nil, err
	}
	if task.CreatorID != userID && field.OwnerID != userID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the task creator or the field owner can cancel a task", "")
	}
	if task.Status == domain.TaskStatusCompleted || task.Status == domain.TaskStatusCancelled {
		return nil, response.NewAppError(response.ErrCodeInvalidState, fmt.Sprintf("Task is already %s", task.Status), "")
	}

	task.Status = domain.TaskStatusCancelled
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to cancel task", err.Error())
	}
	return toTaskResponse(task), nil
}

// dispatchGrowthEffect maps a completed task onto the growth record update
// it implies. Dispatch keys on the task's type tag; untagged legacy tasks
// fall back to a substring match on the normalized title. Growth updates run
// on behalf of the field owner and never roll the completion back.
func (s *taskServiceImpl) dispatchGrowthEffect(ctx context.Context, task *domain.Task, field *domain.Field, completedAt time.Time) {
	effect := resolveTaskEffect(task)
	if effect == domain.TaskTypeGeneral {
		return
	}

	var err error
	switch effect {
	case domain.TaskTypePlanting:
		if field.Variety == "" && task.Variety == "" {
			s.logger.Warn("Planting task completed without a variety, growth record not updated",
				zap.String("taskId", task.ID.String()),
				zap.String("fieldId", field.ID.String()))
			return
		}
		variety := task.Variety
		if variety == "" {
			variety = field.Variety
		}
		_, err = s.growth.RecordPlanting(ctx, field.ID, field.OwnerID, &dto.RecordPlantingRequest{
			PlantingDate: completedAt,
			Variety:      variety,
		})
	case domain.TaskTypeBasalFertilizer:
		_, err = s.growth.RecordBasalFertilization(ctx, field.ID, field.OwnerID, completedAt)
	case domain.TaskTypeMainFertilizer:
		_, err = s.growth.RecordMainFertilization(ctx, field.ID, field.OwnerID, completedAt)
	case domain.TaskTypeHarvest:
		_, err = s.cycle.RecordHarvest(ctx, field.ID, field.OwnerID, &dto.HarvestRequest{HarvestDate: completedAt})
	default:
		return
	}

	if err != nil {
		s.logger.Warn("Growth update from task completion failed",
			zap.String("taskId", task.ID.String()),
			zap.String("fieldId", field.ID.String()),
			zap.String("effect", string(effect)),
			zap.Error(err))
	}
}

// resolveTaskEffect returns the growth-relevant activity a task represents.
// Tasks created before type tagging have Type = GENERAL, for those the
// normalized title (lower-cased, underscores to spaces) decides.
func resolveTaskEffect(task *domain.Task) domain.TaskType {
	if task.Type != "" && task.Type != domain.TaskTypeGeneral {
		return task.Type
	}
	title := strings.ToLower(strings.TrimSpace(task.Title))
	title = strings.ReplaceAll(title, "_", " ")
	switch {
	case strings.Contains(title, "basal"):
		return domain.TaskTypeBasalFertilizer
	case strings.Contains(title, "main fertiliz"):
		return domain.TaskTypeMainFertilizer
	case strings.Contains(title, "planting"):
		return domain.TaskTypePlanting
	case strings.Contains(title, "harvest"):
		return domain.TaskTypeHarvest
	default:
		return domain.TaskTypeGeneral
	}
}

func (s *taskServiceImpl) loadTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load task", err.Error())
	}
	return task, nil
}

func (s *taskServiceImpl) loadAccessibleField(ctx context.Context, fieldID, userID uuid.UUID) (*domain.Field, error) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Field not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load field", err.Error())
	}
	if field.OwnerID == userID {
		return field, nil
	}
	assigned, err := s.assignRepo.ExistsByFieldAndUser(ctx, fieldID, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check field access", err.Error())
	}
	if !assigned {
		return nil, response.NewAppError(response.ErrCodeForbidden, "You do not have access to this field", "")
	}
	return field, nil
}
