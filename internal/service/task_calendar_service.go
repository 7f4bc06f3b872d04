package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cane-field-api/internal/agronomy"
	"cane-field-api/internal/client"
	"cane-field-api/internal/domain"
	"cane-field-api/internal/dto"
	"cane-field-api/internal/metrics"
	"cane-field-api/internal/repository"
	"cane-field-api/internal/response"
)

// TaskCalendarService generates the standard crop-cycle task calendar for a
// field's current cycle.
type TaskCalendarService interface {
	GenerateStandardTasks(ctx context.Context, fieldID, creatorID uuid.UUID) (*dto.GenerateTasksResponse, error)
}

type taskCalendarServiceImpl struct {
	fieldRepo  repository.FieldRepository
	taskRepo   repository.TaskRepository
	assignRepo repository.AssignmentRepository
	catalog    *agronomy.Catalog
	notifier   client.NotificationClient
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewTaskCalendarService creates a new instance of TaskCalendarService
func NewTaskCalendarService(fieldRepo repository.FieldRepository, taskRepo repository.TaskRepository, assignRepo repository.AssignmentRepository, catalog *agronomy.Catalog, notifier client.NotificationClient, m *metrics.Metrics, logger *zap.Logger) TaskCalendarService {
	return &taskCalendarServiceImpl{
		fieldRepo:  fieldRepo,
		taskRepo:   taskRepo,
		assignRepo: assignRepo,
		catalog:    catalog,
		notifier:   notifier,
		metrics:    m,
		logger:     logger,
	}
}

// GenerateStandardTasks creates one task per standard calendar entry for the
// field's current cycle. Deadlines are the planting date plus the window end.
// Assignees are snapshot at generation time: the field owner plus every
// approved worker. Existing completed work in the same cycle is respected,
// already-covered activities are not regenerated.
func (s *taskCalendarServiceImpl) GenerateStandardTasks(ctx context.Context, fieldID, creatorID uuid.UUID) (*dto.GenerateTasksResponse, error) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Field not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load field", err.Error())
	}
	if field.Status != domain.FieldStatusActive || field.PlantingDate == nil {
		return nil, response.NewAppError(response.ErrCodeInvalidState,
			fmt.Sprintf("Cannot generate tasks: field is %s, expected an active planted cycle", field.Status), "")
	}

	profile, resolved := s.catalog.Resolve(field.Variety)
	if !resolved && field.Variety != "" {
		s.logger.Warn("Unknown variety, generating tasks from the default profile",
			zap.String("fieldId", fieldID.String()),
			zap.String("variety", field.Variety))
	}

	existing, err := s.taskRepo.FindByField(ctx, fieldID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load existing tasks", err.Error())
	}
	covered := make(map[domain.TaskType]bool)
	for _, t := range existing {
		if t.PlantingCycle == field.PlantingCycle && t.RatoonNumber == field.RatoonNumber && t.Status != domain.TaskStatusCancelled {
			covered[t.Type] = true
		}
	}

	assignees := s.snapshotAssignees(ctx, field)
	assigneesJSON, err := json.Marshal(assignees)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to encode assignees", err.Error())
	}

	// Best effort: a failed template is logged and skipped, the rest of the
	// calendar still generates
	var tasks []*domain.Task
	for _, tmpl := range agronomy.StandardCalendar(profile, field.IsRatoon) {
		if tmpl.Optional || covered[tmpl.Type] {
			continue
		}
		deadline := field.PlantingDate.AddDate(0, 0, tmpl.WindowEnd)
		task := &domain.Task{
			FieldID:       fieldID,
			CreatorID:     creatorID,
			Type:          tmpl.Type,
			Title:         tmpl.Title,
			Description:   tmpl.Description,
			Priority:      tmpl.Priority,
			Status:        domain.TaskStatusPending,
			GrowthStage:   tmpl.Stage,
			DAPWindow:     fmt.Sprintf("%d-%d", tmpl.WindowStart, tmpl.WindowEnd),
			Deadline:      &deadline,
			AssigneeIDs:   assigneesJSON,
			Variety:       field.Variety,
			PlantingCycle: field.PlantingCycle,
			RatoonNumber:  field.RatoonNumber,
		}
		if err := s.taskRepo.Create(ctx, task); err != nil {
			s.logger.Warn("Failed to create calendar task",
				zap.String("fieldId", fieldID.String()),
				zap.String("type", string(tmpl.Type)),
				zap.Error(err))
			continue
		}
		tasks = append(tasks, task)
	}
	s.metrics.IncrementTasksGenerated(len(tasks))

	// Graceful degradation: log error but don't fail the operation
	events := make([]client.NotificationEvent, 0, len(assignees))
	for _, userID := range assignees {
		events = append(events, client.NotificationEvent{
			Type:         client.NotificationTaskAssigned,
			TargetUserID: userID,
			Message:      fmt.Sprintf("%d crop calendar tasks were scheduled on %s", len(tasks), field.Name),
			RelatedID:    fieldID,
		})
	}
	if err := s.notifier.NotifyBulk(ctx, events); err != nil {
		s.logger.Warn("Failed to send task generation notifications", zap.Error(err))
	}

	responses := make([]*dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, toTaskResponse(t))
	}

	s.logger.Info("Standard calendar tasks generated",
		zap.String("fieldId", fieldID.String()),
		zap.Int("count", len(tasks)))

	return &dto.GenerateTasksResponse{
		FieldID:   fieldID,
		Generated: len(tasks),
		Tasks:     responses,
	}, nil
}

// snapshotAssignees is the owner plus all approved workers, deduplicated
func (s *taskCalendarServiceImpl) snapshotAssignees(ctx context.Context, field *domain.Field) []uuid.UUID {
	assignees := []uuid.UUID{field.OwnerID}
	workers, err := s.assignRepo.FindApprovedWorkers(ctx, field.ID)
	if err != nil {
		s.logger.Warn("Failed to load approved workers, assigning owner only",
			zap.String("fieldId", field.ID.String()), zap.Error(err))
		return assignees
	}
	seen := map[uuid.UUID]bool{field.OwnerID: true}
	for _, w := range workers {
		if !seen[w] {
			seen[w] = true
			assignees = append(assignees, w)
		}
	}
	return assignees
}

func toTaskResponse(t *domain.Task) *dto.TaskResponse {
	var assignees []uuid.UUID
	if len(t.AssigneeIDs) > 0 {
		_ = json.Unmarshal(t.AssigneeIDs, &assignees)
	}
	return &dto.TaskResponse{
		ID:            t.ID,
		FieldID:       t.FieldID,
		CreatorID:     t.CreatorID,
		Type:          t.Type,
		Title:         t.Title,
		Description:   t.Description,
		Priority:      t.Priority,
		Status:        t.Status,
		GrowthStage:   t.GrowthStage,
		DAPWindow:     t.DAPWindow,
		Deadline:      t.Deadline,
		AssigneeIDs:   assignees,
		PlantingCycle: t.PlantingCycle,
		RatoonNumber:  t.RatoonNumber,
		CompletedAt:   t.CompletedAt,
		CompletedBy:   t.CompletedBy,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
