package service

import (
	"context"
	"encoding/json"
	"errors"

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

// FieldService defines the interface for field registry business logic
type FieldService interface {
	CreateField(ctx context.Context, req *dto.CreateFieldRequest, ownerID uuid.UUID) (*dto.FieldResponse, error)
	GetField(ctx context.Context, fieldID, userID uuid.UUID) (*dto.FieldResponse, error)
	ListFields(ctx context.Context, ownerID uuid.UUID) ([]*dto.FieldResponse, error)
	DeleteField(ctx context.Context, fieldID, userID uuid.UUID) error
	ListArchives(ctx context.Context, fieldID, userID uuid.UUID) ([]*dto.CycleArchiveResponse, error)
	RequestAssignment(ctx context.Context, fieldID uuid.UUID, req *dto.AssignmentRequest, requesterID uuid.UUID) (*dto.AssignmentResponse, error)
	ReviewAssignment(ctx context.Context, assignmentID, reviewerID uuid.UUID, approve bool) (*dto.AssignmentResponse, error)
	ListAssignments(ctx context.Context, fieldID, userID uuid.UUID) ([]*dto.AssignmentResponse, error)
}

type fieldServiceImpl struct {
	fieldRepo   repository.FieldRepository
	assignRepo  repository.AssignmentRepository
	archiveRepo repository.CycleArchiveRepository
	notifier    client.NotificationClient
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewFieldService creates a new instance of FieldService
func NewFieldService(fieldRepo repository.FieldRepository, assignRepo repository.AssignmentRepository, archiveRepo repository.CycleArchiveRepository, notifier client.NotificationClient, m *metrics.Metrics, logger *zap.Logger) FieldService {
	return &fieldServiceImpl{
		fieldRepo:   fieldRepo,
		assignRepo:  assignRepo,
		archiveRepo: archiveRepo,
		notifier:    notifier,
		metrics:     m,
		logger:      logger,
	}
}

// CreateField registers a new field with no crop on it yet
func (s *fieldServiceImpl) CreateField(ctx context.Context, req *dto.CreateFieldRequest, ownerID uuid.UUID) (*dto.FieldResponse, error) {
	field := &domain.Field{
		OwnerID:            ownerID,
		Name:               req.Name,
		Location:           req.Location,
		AreaHa:             req.AreaHa,
		Variety:            req.Variety,
		CurrentGrowthStage: domain.StageNotPlanted,
		Status:             domain.FieldStatusNotPlanted,
		PlantingCycle:      1,
	}

	if err := s.fieldRepo.Create(ctx, field); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create field", err.Error())
	}

	s.logger.Info("Field created",
		zap.String("fieldId", field.ID.String()),
		zap.String("ownerId", ownerID.String()))

	return dto.ToFieldResponse(field), nil
}

// GetField returns a single field visible to the requesting user
func (s *fieldServiceImpl) GetField(ctx context.Context, fieldID, userID uuid.UUID) (*dto.FieldResponse, error) {
	field, err := s.loadVisibleField(ctx, fieldID, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToFieldResponse(field), nil
}

// ListFields returns all fields owned by the user
func (s *fieldServiceImpl) ListFields(ctx context.Context, ownerID uuid.UUID) ([]*dto.FieldResponse, error) {
	fields, err := s.fieldRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list fields", err.Error())
	}

	responses := make([]*dto.FieldResponse, 0, len(fields))
	for _, f := range fields {
		responses = append(responses, dto.ToFieldResponse(f))
	}
	return responses, nil
}

// DeleteField removes a field. Only the owner may delete.
func (s *fieldServiceImpl) DeleteField(ctx context.Context, fieldID, userID uuid.UUID) error {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Field not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to load field", err.Error())
	}
	if field.OwnerID != userID {
		return response.NewAppError(response.ErrCodeForbidden, "Only the field owner can delete the field", "")
	}

	if err := s.fieldRepo.Delete(ctx, fieldID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete field", err.Error())
	}

	s.logger.Info("Field deleted", zap.String("fieldId", fieldID.String()))
	return nil
}

// ListArchives returns the field's closed crop cycles, oldest first
func (s *fieldServiceImpl) ListArchives(ctx context.Context, fieldID, userID uuid.UUID) ([]*dto.CycleArchiveResponse, error) {
	if _, err := s.loadVisibleField(ctx, fieldID, userID); err != nil {
		return nil, err
	}

	archives, err := s.archiveRepo.ListByField(ctx, fieldID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list cycle archives", err.Error())
	}

	responses := make([]*dto.CycleArchiveResponse, 0, len(archives))
	for _, a := range archives {
		var snapshot domain.CycleSnapshot
		if err := json.Unmarshal(a.Snapshot, &snapshot); err != nil {
			s.logger.Warn("Failed to decode cycle snapshot",
				zap.String("archiveId", a.ID.String()),
				zap.Error(err))
		}
		responses = append(responses, &dto.CycleArchiveResponse{
			ID:            a.ID,
			Kind:          a.Kind,
			PlantingCycle: a.PlantingCycle,
			RatoonNumber:  a.RatoonNumber,
			Snapshot:      &snapshot,
			ArchivedAt:    a.ArchivedAt,
		})
	}
	return responses, nil
}

// RequestAssignment asks for a role on a field. Owner requests are approved
// immediately; everything else waits for the owner's review.
func (s *fieldServiceImpl) RequestAssignment(ctx context.Context, fieldID uuid.UUID, req *dto.AssignmentRequest, requesterID uuid.UUID) (*dto.AssignmentResponse, error) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Field not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load field", err.Error())
	}

	exists, err := s.assignRepo.ExistsByFieldAndUser(ctx, fieldID, req.UserID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check existing assignment", err.Error())
	}
	if exists {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "User is already assigned to this field", "")
	}

	status := domain.AssignmentPending
	if requesterID == field.OwnerID {
		status = domain.AssignmentApproved
	}

	assignment := &domain.FieldAssignment{
		FieldID: fieldID,
		UserID:  req.UserID,
		Role:    req.Role,
		Status:  status,
	}
	if err := s.assignRepo.Create(ctx, assignment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create assignment", err.Error())
	}

	if status == domain.AssignmentPending {
		// Graceful degradation: log error but don't fail the operation
		if err := s.notifier.Notify(ctx, client.NotificationEvent{
			Type:         client.NotificationTaskAssigned,
			TargetUserID: field.OwnerID,
			Message:      "A new assignment request is waiting for review on " + field.Name,
			RelatedID:    fieldID,
		}); err != nil {
			s.logger.Warn("Failed to send assignment notification", zap.Error(err))
		}
	}

	return toAssignmentResponse(assignment), nil
}

// ReviewAssignment approves or rejects a pending assignment. Owner only.
func (s *fieldServiceImpl) ReviewAssignment(ctx context.Context, assignmentID, reviewerID uuid.UUID, approve bool) (*dto.AssignmentResponse, error) {
	assignment, err := s.assignRepo.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Assignment not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load assignment", err.Error())
	}

	field, err := s.fieldRepo.FindByID(ctx, assignment.FieldID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load field", err.Error())
	}
	if field.OwnerID != reviewerID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the field owner can review assignments", "")
	}
	if assignment.Status != domain.AssignmentPending {
		return nil, response.NewAppError(response.ErrCodeInvalidState, "Assignment has already been reviewed", "")
	}

	status := domain.AssignmentRejected
	if approve {
		status = domain.AssignmentApproved
	}
	if err := s.assignRepo.UpdateStatus(ctx, assignmentID, status); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update assignment", err.Error())
	}
	assignment.Status = status

	return toAssignmentResponse(assignment), nil
}

// ListAssignments returns all assignments on a field
func (s *fieldServiceImpl) ListAssignments(ctx context.Context, fieldID, userID uuid.UUID) ([]*dto.AssignmentResponse, error) {
	if _, err := s.loadVisibleField(ctx, fieldID, userID); err != nil {
		return nil, err
	}

	assignments, err := s.assignRepo.FindByField(ctx, fieldID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list assignments", err.Error())
	}

	responses := make([]*dto.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, toAssignmentResponse(a))
	}
	return responses, nil
}

// loadVisibleField loads a field and checks the user can see it: the owner
// always can, anyone with an assignment row (any status) can.
func (s *fieldServiceImpl) loadVisibleField(ctx context.Context, fieldID, userID uuid.UUID) (*domain.Field, error) {
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

func toAssignmentResponse(a *domain.FieldAssignment) *dto.AssignmentResponse {
	return &dto.AssignmentResponse{
		ID:        a.ID,
		FieldID:   a.FieldID,
		UserID:    a.UserID,
		Role:      a.Role,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}
}
