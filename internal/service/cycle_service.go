package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
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

// CycleService defines the interface for crop cycle transitions: closing a
// cycle with a harvest and opening the next one as a ratoon or a replant.
type CycleService interface {
	RecordHarvest(ctx context.Context, fieldID, userID uuid.UUID, req *dto.HarvestRequest) (*dto.FieldResponse, error)
	StartRatoon(ctx context.Context, fieldID, userID uuid.UUID, req *dto.RatoonRequest) (*dto.FieldResponse, error)
	Replant(ctx context.Context, fieldID, userID uuid.UUID, req *dto.ReplantRequest) (*dto.FieldResponse, error)
}

type cycleServiceImpl struct {
	fieldRepo   repository.FieldRepository
	archiveRepo repository.CycleArchiveRepository
	legacyRepo  repository.LegacyGrowthRepository
	catalog     *agronomy.Catalog
	taskGen     TaskCalendarService
	cache       *redis.Client
	notifier    client.NotificationClient
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewCycleService creates a new instance of CycleService. cache may be nil.
func NewCycleService(fieldRepo repository.FieldRepository, archiveRepo repository.CycleArchiveRepository, legacyRepo repository.LegacyGrowthRepository, catalog *agronomy.Catalog, taskGen TaskCalendarService, cache *redis.Client, notifier client.NotificationClient, m *metrics.Metrics, logger *zap.Logger) CycleService {
	return &cycleServiceImpl{
		fieldRepo:   fieldRepo,
		archiveRepo: archiveRepo,
		legacyRepo:  legacyRepo,
		catalog:     catalog,
		taskGen:     taskGen,
		cache:       cache,
		notifier:    notifier,
		metrics:     m,
		logger:      logger,
	}
}

// RecordHarvest closes the current cycle: the harvest date, final DAP, yield
// and the timing classification against the predicted window are stamped on
// the field and the field moves to HARVESTED. The cycle is not archived yet;
// archival happens when the next cycle starts.
func (s *cycleServiceImpl) RecordHarvest(ctx context.Context, fieldID, userID uuid.UUID, req *dto.HarvestRequest) (*dto.FieldResponse, error) {
	field, err := s.loadOwnedField(ctx, fieldID, userID)
	if err != nil {
		return nil, err
	}
	if field.Status != domain.FieldStatusActive {
		return nil, response.NewAppError(response.ErrCodeInvalidState,
			fmt.Sprintf("Cannot record harvest: field is %s, expected %s", field.Status, domain.FieldStatusActive), "")
	}
	if field.PlantingDate == nil {
		return nil, response.NewAppError(response.ErrCodeInvalidState, "Cannot record harvest: field has no planting date", "")
	}

	harvestDate := req.HarvestDate.UTC()
	finalDAP := agronomy.DaysAfterPlanting(*field.PlantingDate, harvestDate)

	attrs := map[string]interface{}{
		"actual_harvest_date":  harvestDate,
		"final_dap":            finalDAP,
		"status":               domain.FieldStatusHarvested,
		"current_growth_stage": domain.StageHarvested,
	}
	if req.Yield != nil {
		attrs["actual_yield"] = *req.Yield
	}
	if field.ExpectedHarvestStart != nil {
		timing, days := agronomy.ClassifyHarvestTiming(harvestDate, *field.ExpectedHarvestStart)
		attrs["harvest_timing"] = timing
		attrs["harvest_timing_days"] = days
	}

	if err := s.fieldRepo.UpdateGrowth(ctx, fieldID, attrs); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to record harvest", err.Error())
	}

	field, err = s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reload field", err.Error())
	}

	invalidateSnapshotCache(ctx, s.cache, fieldID, s.logger)
	mirrorGrowthRecord(ctx, s.legacyRepo, field, s.logger)
	s.metrics.IncrementCycleTransition("harvest")

	// Graceful degradation: log error but don't fail the operation
	if err := s.notifier.Notify(ctx, client.NotificationEvent{
		Type:         client.NotificationHarvestRecorded,
		TargetUserID: field.OwnerID,
		Message:      fmt.Sprintf("Harvest recorded on %s at %d days after planting", field.Name, finalDAP),
		RelatedID:    fieldID,
	}); err != nil {
		s.logger.Warn("Failed to send harvest notification", zap.Error(err))
	}

	s.logger.Info("Harvest recorded",
		zap.String("fieldId", fieldID.String()),
		zap.Int("finalDap", finalDAP))

	return dto.ToFieldResponse(field), nil
}

// StartRatoon opens a ratoon cycle from the just-harvested root stock. The
// finished cycle is archived first, then the growth record resets with the
// harvest date as the new cycle's anchor. Requires Status = HARVESTED; a
// field in any other state is left untouched.
func (s *cycleServiceImpl) StartRatoon(ctx context.Context, fieldID, userID uuid.UUID, req *dto.RatoonRequest) (*dto.FieldResponse, error) {
	field, err := s.loadOwnedField(ctx, fieldID, userID)
	if err != nil {
		return nil, err
	}
	if field.Status != domain.FieldStatusHarvested {
		return nil, response.NewAppError(response.ErrCodeInvalidState,
			fmt.Sprintf("Cannot start a ratoon cycle: field is %s, expected %s (record the harvest first)", field.Status, domain.FieldStatusHarvested), "")
	}
	if field.ActualHarvestDate == nil {
		return nil, response.NewAppError(response.ErrCodeInvalidState, "Cannot start a ratoon cycle: field has no recorded harvest date", "")
	}

	if err := s.archiveCycle(ctx, field, domain.ArchiveRatoon); err != nil {
		return nil, err
	}

	profile, _ := s.catalog.Resolve(field.Variety)
	anchor := field.ActualHarvestDate.UTC()
	if req.StartDate != nil {
		anchor = req.StartDate.UTC()
	}
	window := agronomy.PredictHarvestWindow(anchor, profile.RatoonHarvest)

	attrs := s.newCycleAttrs(anchor, window)
	attrs["ratoon_number"] = field.RatoonNumber + 1
	attrs["is_ratoon"] = true

	if err := s.fieldRepo.UpdateGrowth(ctx, fieldID, attrs); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to start ratoon cycle", err.Error())
	}

	s.metrics.IncrementCycleTransition("ratoon")
	return s.finishTransition(ctx, fieldID, req.GenerateTasks, userID, "Ratoon cycle started")
}

// Replant tears out the root stock and opens a fresh initial cycle. The
// planting cycle counter advances, the ratoon counter resets and the variety
// may change. Requires Status = HARVESTED; a field in any other state is
// left untouched.
func (s *cycleServiceImpl) Replant(ctx context.Context, fieldID, userID uuid.UUID, req *dto.ReplantRequest) (*dto.FieldResponse, error) {
	field, err := s.loadOwnedField(ctx, fieldID, userID)
	if err != nil {
		return nil, err
	}
	if field.Status != domain.FieldStatusHarvested {
		return nil, response.NewAppError(response.ErrCodeInvalidState,
			fmt.Sprintf("Cannot replant: field is %s, expected %s (record the harvest first)", field.Status, domain.FieldStatusHarvested), "")
	}
	if req.PlantingDate == nil && field.ActualHarvestDate == nil {
		return nil, response.NewAppError(response.ErrCodeInvalidState, "Cannot replant: no planting date given and no recorded harvest date to default to", "")
	}

	if err := s.archiveCycle(ctx, field, domain.ArchiveReplant); err != nil {
		return nil, err
	}

	variety := req.Variety
	if variety == "" {
		variety = field.Variety
	}
	profile, resolved := s.catalog.Resolve(variety)
	if !resolved && variety != "" {
		s.logger.Warn("Unknown variety on replant, using default growth profile",
			zap.String("fieldId", fieldID.String()),
			zap.String("variety", variety))
	}

	var anchor time.Time
	if req.PlantingDate != nil {
		anchor = req.PlantingDate.UTC()
	} else {
		anchor = field.ActualHarvestDate.UTC()
	}
	window := agronomy.PredictHarvestWindow(anchor, profile.InitialHarvest)

	attrs := s.newCycleAttrs(anchor, window)
	attrs["variety"] = variety
	attrs["planting_cycle"] = field.PlantingCycle + 1
	attrs["ratoon_number"] = 0
	attrs["is_ratoon"] = false

	if err := s.fieldRepo.UpdateGrowth(ctx, fieldID, attrs); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to replant field", err.Error())
	}

	s.metrics.IncrementCycleTransition("replant")
	return s.finishTransition(ctx, fieldID, req.GenerateTasks, userID, "Field replanted")
}

// archiveCycle appends the finished cycle to the field's archive list.
// Archives are append only and written exactly once per cycle; the unique
// (field, planting_cycle, ratoon_number) index backs that up. An already
// archived cycle counts as success, so a transition that failed after the
// archive write can be retried.
func (s *cycleServiceImpl) archiveCycle(ctx context.Context, field *domain.Field, kind domain.ArchiveKind) error {
	exists, err := s.archiveRepo.Exists(ctx, field.ID, field.PlantingCycle, field.RatoonNumber)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to check cycle archive", err.Error())
	}
	if exists {
		s.logger.Info("Cycle already archived, resuming transition",
			zap.String("fieldId", field.ID.String()),
			zap.Int("plantingCycle", field.PlantingCycle),
			zap.Int("ratoonNumber", field.RatoonNumber))
		return nil
	}

	snapshot := domain.CycleSnapshot{
		Variety:              field.Variety,
		PlantingDate:         field.PlantingDate,
		ExpectedHarvestStart: field.ExpectedHarvestStart,
		ExpectedHarvestEnd:   field.ExpectedHarvestEnd,
		BasalFertilizationAt: field.BasalFertilizationAt,
		MainFertilizationAt:  field.MainFertilizationAt,
		ActualHarvestDate:    field.ActualHarvestDate,
		FinalDAP:             field.FinalDAP,
		ActualYield:          field.ActualYield,
		HarvestTiming:        field.HarvestTiming,
		HarvestTimingDays:    field.HarvestTimingDays,
		WasRatoon:            field.IsRatoon,
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to encode cycle snapshot", err.Error())
	}

	archive := &domain.CycleArchive{
		FieldID:       field.ID,
		Kind:          kind,
		PlantingCycle: field.PlantingCycle,
		RatoonNumber:  field.RatoonNumber,
		Snapshot:      payload,
		ArchivedAt:    time.Now().UTC(),
	}
	if err := s.archiveRepo.Append(ctx, archive); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to archive finished cycle", err.Error())
	}
	return nil
}

// newCycleAttrs is the reset applied when any new cycle starts: terminal
// harvest fields and fertilization dates clear, the stage returns to
// germination and the window is derived from the new anchor.
func (s *cycleServiceImpl) newCycleAttrs(anchor time.Time, window agronomy.HarvestWindow) map[string]interface{} {
	return map[string]interface{}{
		"planting_date":          anchor,
		"expected_harvest_start": window.Earliest,
		"expected_harvest_end":   window.Latest,
		"basal_fertilization_at": gorm.Expr("NULL"),
		"main_fertilization_at":  gorm.Expr("NULL"),
		"current_growth_stage":   domain.StageGermination,
		"delay_days":             0,
		"status":                 domain.FieldStatusActive,
		"actual_harvest_date":    gorm.Expr("NULL"),
		"final_dap":              gorm.Expr("NULL"),
		"actual_yield":           gorm.Expr("NULL"),
		"harvest_timing":         gorm.Expr("NULL"),
		"harvest_timing_days":    gorm.Expr("NULL"),
	}
}

func (s *cycleServiceImpl) finishTransition(ctx context.Context, fieldID uuid.UUID, generateTasks bool, userID uuid.UUID, logMsg string) (*dto.FieldResponse, error) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reload field", err.Error())
	}

	invalidateSnapshotCache(ctx, s.cache, fieldID, s.logger)
	mirrorGrowthRecord(ctx, s.legacyRepo, field, s.logger)

	if generateTasks && s.taskGen != nil {
		// Best effort; the cycle transition already committed
		if _, err := s.taskGen.GenerateStandardTasks(ctx, fieldID, userID); err != nil {
			s.logger.Warn("Failed to generate standard tasks for new cycle",
				zap.String("fieldId", fieldID.String()), zap.Error(err))
		}
	}

	// Graceful degradation: log error but don't fail the operation
	if err := s.notifier.Notify(ctx, client.NotificationEvent{
		Type:         client.NotificationCycleStarted,
		TargetUserID: field.OwnerID,
		Message:      fmt.Sprintf("%s on %s (cycle %d, ratoon %d)", logMsg, field.Name, field.PlantingCycle, field.RatoonNumber),
		RelatedID:    fieldID,
	}); err != nil {
		s.logger.Warn("Failed to send cycle notification", zap.Error(err))
	}

	s.logger.Info(logMsg,
		zap.String("fieldId", fieldID.String()),
		zap.Int("plantingCycle", field.PlantingCycle),
		zap.Int("ratoonNumber", field.RatoonNumber))

	return dto.ToFieldResponse(field), nil
}

func (s *cycleServiceImpl) loadOwnedField(ctx context.Context, fieldID, userID uuid.UUID) (*domain.Field, error) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Field not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load field", err.Error())
	}
	if field.OwnerID != userID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the field owner can manage crop cycles", "")
	}
	return field, nil
}
