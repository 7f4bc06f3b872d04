package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cane-field-api/internal/client"
	"cane-field-api/internal/domain"
	"cane-field-api/internal/dto"
	"cane-field-api/internal/repository"
	"cane-field-api/internal/response"
)

// WorkLogService defines the interface for work log business logic
type WorkLogService interface {
	PresignPhotoUpload(ctx context.Context, fieldID, userID uuid.UUID, req *dto.PresignUploadRequest) (*dto.PresignUploadResponse, error)
	CreateWorkLog(ctx context.Context, fieldID, workerID uuid.UUID, req *dto.CreateWorkLogRequest) (*dto.WorkLogResponse, error)
	ListFieldWorkLogs(ctx context.Context, fieldID, userID uuid.UUID) ([]*dto.WorkLogResponse, error)
}

type workLogServiceImpl struct {
	workLogRepo repository.WorkLogRepository
	fieldRepo   repository.FieldRepository
	assignRepo  repository.AssignmentRepository
	s3Client    client.S3ClientInterface
	logger      *zap.Logger
}

// NewWorkLogService creates a new instance of WorkLogService
func NewWorkLogService(workLogRepo repository.WorkLogRepository, fieldRepo repository.FieldRepository, assignRepo repository.AssignmentRepository, s3Client client.S3ClientInterface, logger *zap.Logger) WorkLogService {
	return &workLogServiceImpl{
		workLogRepo: workLogRepo,
		fieldRepo:   fieldRepo,
		assignRepo:  assignRepo,
		s3Client:    s3Client,
		logger:      logger,
	}
}

// PresignPhotoUpload returns a presigned URL for uploading a work photo.
// The client uploads directly to object storage and then references the
// returned key when creating the work log.
func (s *workLogServiceImpl) PresignPhotoUpload(ctx context.Context, fieldID, userID uuid.UUID, req *dto.PresignUploadRequest) (*dto.PresignUploadResponse, error) {
	if _, err := s.loadAccessibleField(ctx, fieldID, userID); err != nil {
		return nil, err
	}

	uploadURL, key, err := s.s3Client.GeneratePresignedUploadURL(ctx, fieldID.String(), req.FileName, req.ContentType)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to generate upload URL", err.Error())
	}

	return &dto.PresignUploadResponse{
		UploadURL: uploadURL,
		PhotoKey:  key,
	}, nil
}

// CreateWorkLog records completed field work
func (s *workLogServiceImpl) CreateWorkLog(ctx context.Context, fieldID, workerID uuid.UUID, req *dto.CreateWorkLogRequest) (*dto.WorkLogResponse, error) {
	if _, err := s.loadAccessibleField(ctx, fieldID, workerID); err != nil {
		return nil, err
	}

	loggedAt := time.Now().UTC()
	if req.LoggedAt != nil {
		loggedAt = req.LoggedAt.UTC()
	}

	log := &domain.WorkLog{
		FieldID:  fieldID,
		TaskID:   req.TaskID,
		WorkerID: workerID,
		Notes:    req.Notes,
		PhotoKey: req.PhotoKey,
		LoggedAt: loggedAt,
	}
	if req.PhotoKey != "" {
		log.PhotoURL = s.s3Client.GetFileURL(req.PhotoKey)
	}

	if err := s.workLogRepo.Create(ctx, log); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create work log", err.Error())
	}

	return toWorkLogResponse(log), nil
}

// ListFieldWorkLogs returns a field's work logs, newest first
func (s *workLogServiceImpl) ListFieldWorkLogs(ctx context.Context, fieldID, userID uuid.UUID) ([]*dto.WorkLogResponse, error) {
	if _, err := s.loadAccessibleField(ctx, fieldID, userID); err != nil {
		return nil, err
	}

	logs, err := s.workLogRepo.FindByField(ctx, fieldID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list work logs", err.Error())
	}

	responses := make([]*dto.WorkLogResponse, 0, len(logs))
	for _, l := range logs {
		responses = append(responses, toWorkLogResponse(l))
	}
	return responses, nil
}

func (s *workLogServiceImpl) loadAccessibleField(ctx context.Context, fieldID, userID uuid.UUID) (*domain.Field, error) {
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

func toWorkLogResponse(l *domain.WorkLog) *dto.WorkLogResponse {
	return &dto.WorkLogResponse{
		ID:        l.ID,
		FieldID:   l.FieldID,
		TaskID:    l.TaskID,
		WorkerID:  l.WorkerID,
		Notes:     l.Notes,
		PhotoURL:  l.PhotoURL,
		LoggedAt:  l.LoggedAt,
		CreatedAt: l.CreatedAt,
	}
}
