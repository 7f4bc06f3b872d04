package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cane-field-api/internal/agronomy"
	"cane-field-api/internal/domain"
	"cane-field-api/internal/dto"
	"cane-field-api/internal/metrics"
	"cane-field-api/internal/repository"
	"cane-field-api/internal/response"
)

// RecommendService defines the interface for activity recommendations
type RecommendService interface {
	GetRecommendations(ctx context.Context, fieldID, userID uuid.UUID, asOf time.Time) (*dto.RecommendationResponse, error)
}

type recommendServiceImpl struct {
	fieldRepo  repository.FieldRepository
	taskRepo   repository.TaskRepository
	assignRepo repository.AssignmentRepository
	catalog    *agronomy.Catalog
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewRecommendService creates a new instance of RecommendService
func NewRecommendService(fieldRepo repository.FieldRepository, taskRepo repository.TaskRepository, assignRepo repository.AssignmentRepository, catalog *agronomy.Catalog, m *metrics.Metrics, logger *zap.Logger) RecommendService {
	return &recommendServiceImpl{
		fieldRepo:  fieldRepo,
		taskRepo:   taskRepo,
		assignRepo: assignRepo,
		catalog:    catalog,
		metrics:    m,
		logger:     logger,
	}
}

// GetRecommendations evaluates the standard calendar against the field's
// current cycle and returns the remaining activities, most urgent first.
// Completion state merges the cycle's completed tasks with the growth
// record itself: a planted field never gets planting recommended again,
// regardless of whether a planting task was ever tracked.
func (s *recommendServiceImpl) GetRecommendations(ctx context.Context, fieldID, userID uuid.UUID, asOf time.Time) (*dto.RecommendationResponse, error) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Field not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load field", err.Error())
	}
	if field.OwnerID != userID {
		assigned, err := s.assignRepo.ExistsByFieldAndUser(ctx, fieldID, userID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check field access", err.Error())
		}
		if !assigned {
			return nil, response.NewAppError(response.ErrCodeForbidden, "You do not have access to this field", "")
		}
	}
	if field.Status != domain.FieldStatusActive || field.PlantingDate == nil {
		return nil, response.NewAppError(response.ErrCodeInvalidState, "Recommendations require an active planted cycle", "")
	}

	profile, _ := s.catalog.Resolve(field.Variety)
	dap := agronomy.DaysAfterPlanting(*field.PlantingDate, asOf)

	completedTypes, err := s.taskRepo.CompletedTypes(ctx, fieldID, field.PlantingCycle, field.RatoonNumber)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load completed tasks", err.Error())
	}
	completed := make(map[domain.TaskType]bool, len(completedTypes))
	for _, t := range completedTypes {
		completed[t] = true
	}
	completed[domain.TaskTypeLandPrep] = true
	completed[domain.TaskTypePlanting] = true
	if field.BasalFertilizationAt != nil {
		completed[domain.TaskTypeBasalFertilizer] = true
	}
	if field.MainFertilizationAt != nil {
		completed[domain.TaskTypeMainFertilizer] = true
	}

	recs := agronomy.BuildRecommendations(dap, profile, field.IsRatoon, completed)
	s.metrics.IncrementRecommendationRequest()

	items := make([]dto.RecommendationItem, 0, len(recs))
	for _, r := range recs {
		items = append(items, dto.RecommendationItem{
			Type:        r.Type,
			Title:       r.Title,
			Description: r.Description,
			Group:       string(r.Group),
			Urgency:     string(r.Urgency),
			WindowStart: r.WindowStart,
			WindowEnd:   r.WindowEnd,
			Stage:       r.Stage,
			Priority:    r.Priority,
		})
	}

	return &dto.RecommendationResponse{
		FieldID: fieldID,
		AsOf:    asOf,
		DAP:     dap,
		Stage:   agronomy.ClassifyStage(dap, profile),
		Items:   items,
	}, nil
}
