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
	"cane-field-api/internal/repository"
	"cane-field-api/internal/response"
)

// GrowthService defines the interface for crop growth tracking: starting a
// cycle, recording fertilization and serving the derived growth snapshot.
type GrowthService interface {
	RecordPlanting(ctx context.Context, fieldID, userID uuid.UUID, req *dto.RecordPlantingRequest) (*dto.FieldResponse, error)
	RecordBasalFertilization(ctx context.Context, fieldID, userID uuid.UUID, appliedAt time.Time) (*dto.FieldResponse, error)
	RecordMainFertilization(ctx context.Context, fieldID, userID uuid.UUID, appliedAt time.Time) (*dto.FieldResponse, error)
	GetSnapshot(ctx context.Context, fieldID, userID uuid.UUID, asOf time.Time) (*dto.GrowthSnapshotResponse, error)
}

type growthServiceImpl struct {
	fieldRepo  repository.FieldRepository
	assignRepo repository.AssignmentRepository
	legacyRepo repository.LegacyGrowthRepository
	catalog    *agronomy.Catalog
	cache      *redis.Client
	cacheTTL   time.Duration
	notifier   client.NotificationClient
	logger     *zap.Logger
}

// NewGrowthService creates a new instance of GrowthService. cache may be nil,
// in which case snapshots are always recomputed.
func NewGrowthService(fieldRepo repository.FieldRepository, assignRepo repository.AssignmentRepository, legacyRepo repository.LegacyGrowthRepository, catalog *agronomy.Catalog, cache *redis.Client, cacheTTL time.Duration, notifier client.NotificationClient, logger *zap.Logger) GrowthService {
	return &growthServiceImpl{
		fieldRepo:  fieldRepo,
		assignRepo: assignRepo,
		legacyRepo: legacyRepo,
		catalog:    catalog,
		cache:      cache,
		cacheTTL:   cacheTTL,
		notifier:   notifier,
		logger:     logger,
	}
}

// RecordPlanting starts the initial crop cycle on a not-yet-planted field.
// It stamps the planting date, resolves the variety profile and derives the
// expected harvest window from the initial-cycle month range.
func (s *growthServiceImpl) RecordPlanting(ctx context.Context, fieldID, userID uuid.UUID, req *dto.RecordPlantingRequest) (*dto.FieldResponse, error) {
	field, err := s.loadEditableField(ctx, fieldID, userID)
	if err != nil {
		return nil, err
	}
	if field.Status != domain.FieldStatusNotPlanted {
		return nil, response.NewAppError(response.ErrCodeInvalidState,
			fmt.Sprintf("Cannot record planting: field is %s, expected %s (use replant after harvest)", field.Status, domain.FieldStatusNotPlanted), "")
	}

	variety := req.Variety
	if variety == "" {
		variety = field.Variety
	}
	profile, resolved := s.catalog.Resolve(variety)
	if !resolved && variety != "" {
		s.logger.Warn("Unknown variety, using default growth profile",
			zap.String("fieldId", fieldID.String()),
			zap.String("variety", variety))
	}

	plantingDate := req.PlantingDate.UTC()
	window := agronomy.PredictHarvestWindow(plantingDate, profile.InitialHarvest)

	attrs := map[string]interface{}{
		"variety":                variety,
		"planting_date":          plantingDate,
		"expected_harvest_start": window.Earliest,
		"expected_harvest_end":   window.Latest,
		"current_growth_stage":   domain.StageGermination,
		"status":                 domain.FieldStatusActive,
		"delay_days":             0,
		"ratoon_number":          0,
		"is_ratoon":              false,
	}
	if err := s.fieldRepo.UpdateGrowth(ctx, fieldID, attrs); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to record planting", err.Error())
	}

	field, err = s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reload field", err.Error())
	}

	s.afterGrowthWrite(ctx, field)

	s.logger.Info("Planting recorded",
		zap.String("fieldId", fieldID.String()),
		zap.String("variety", variety),
		zap.String("harvestWindow", window.Format()))

	return dto.ToFieldResponse(field), nil
}

// RecordBasalFertilization records the basal application date
func (s *growthServiceImpl) RecordBasalFertilization(ctx context.Context, fieldID, userID uuid.UUID, appliedAt time.Time) (*dto.FieldResponse, error) {
	return s.recordFertilization(ctx, fieldID, userID, "basal_fertilization_at", appliedAt)
}

// RecordMainFertilization records the main application date
func (s *growthServiceImpl) RecordMainFertilization(ctx context.Context, fieldID, userID uuid.UUID, appliedAt time.Time) (*dto.FieldResponse, error) {
	return s.recordFertilization(ctx, fieldID, userID, "main_fertilization_at", appliedAt)
}

func (s *growthServiceImpl) recordFertilization(ctx context.Context, fieldID, userID uuid.UUID, column string, appliedAt time.Time) (*dto.FieldResponse, error) {
	field, err := s.loadEditableField(ctx, fieldID, userID)
	if err != nil {
		return nil, err
	}
	if field.Status != domain.FieldStatusActive {
		return nil, response.NewAppError(response.ErrCodeInvalidState,
			fmt.Sprintf("Cannot record fertilization: field is %s, expected %s", field.Status, domain.FieldStatusActive), "")
	}

	attrs := map[string]interface{}{column: appliedAt.UTC()}

	// Re-evaluate the delay with the new application on record
	if field.PlantingDate != nil {
		basalDone := field.BasalFertilizationAt != nil || column == "basal_fertilization_at"
		mainDone := field.MainFertilizationAt != nil || column == "main_fertilization_at"
		dap := agronomy.DaysAfterPlanting(*field.PlantingDate, time.Now().UTC())
		delay := agronomy.CheckFertilizationDelay(dap, basalDone, mainDone)
		attrs["delay_days"] = delay.Days
	}

	if err := s.fieldRepo.UpdateGrowth(ctx, fieldID, attrs); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to record fertilization", err.Error())
	}

	field, err = s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reload field", err.Error())
	}

	s.afterGrowthWrite(ctx, field)

	return dto.ToFieldResponse(field), nil
}

// GetSnapshot returns the derived growth view of a field as of the given
// date. For "as of now" requests the snapshot is served from cache when
// fresh; historical or future asOf dates are always recomputed.
func (s *growthServiceImpl) GetSnapshot(ctx context.Context, fieldID, userID uuid.UUID, asOf time.Time) (*dto.GrowthSnapshotResponse, error) {
	today := isToday(asOf)
	if today {
		if cached := s.cachedSnapshot(ctx, fieldID); cached != nil {
			return cached, nil
		}
	}

	field, err := s.loadVisibleField(ctx, fieldID, userID)
	if err != nil {
		return nil, err
	}

	snapshot := s.deriveSnapshot(field, asOf)

	// Persist stage and delay drift discovered while deriving. The stored
	// values only advance on "as of now" reads; historical reads are pure.
	if today && field.Status == domain.FieldStatusActive {
		attrs := map[string]interface{}{}
		if snapshot.Stage != field.CurrentGrowthStage {
			attrs["current_growth_stage"] = snapshot.Stage
		}
		if snapshot.DelayDays != field.DelayDays {
			attrs["delay_days"] = snapshot.DelayDays
			if snapshot.FertilizationDelayed && snapshot.DelayDays > field.DelayDays {
				// Graceful degradation: log error but don't fail the read
				if err := s.notifier.Notify(ctx, client.NotificationEvent{
					Type:         client.NotificationFertilizationDelayed,
					TargetUserID: field.OwnerID,
					Message:      fmt.Sprintf("Fertilization on %s is %d days behind schedule (%s)", field.Name, snapshot.DelayDays, snapshot.DelayKind),
					RelatedID:    field.ID,
				}); err != nil {
					s.logger.Warn("Failed to send delay notification", zap.Error(err))
				}
			}
		}
		if len(attrs) > 0 {
			if err := s.fieldRepo.UpdateGrowth(ctx, fieldID, attrs); err != nil {
				s.logger.Warn("Failed to persist derived growth state",
					zap.String("fieldId", fieldID.String()), zap.Error(err))
			} else {
				field.CurrentGrowthStage = snapshot.Stage
				field.DelayDays = snapshot.DelayDays
				s.afterGrowthWrite(ctx, field)
			}
		}
		s.storeSnapshot(ctx, fieldID, snapshot)
	}

	return snapshot, nil
}

// deriveSnapshot computes every derived growth value from the field record.
// Pure except for variety resolution logging inside the catalog.
func (s *growthServiceImpl) deriveSnapshot(field *domain.Field, asOf time.Time) *dto.GrowthSnapshotResponse {
	snapshot := &dto.GrowthSnapshotResponse{
		FieldID: field.ID,
		AsOf:    asOf,
		Stage:   domain.StageNotPlanted,
		Variety: field.Variety,
	}

	if field.PlantingDate == nil {
		return snapshot
	}

	profile, resolved := s.catalog.Resolve(field.Variety)
	snapshot.VarietyResolved = resolved

	dap := agronomy.DaysAfterPlanting(*field.PlantingDate, asOf)
	snapshot.DAP = dap

	if field.Status == domain.FieldStatusHarvested {
		snapshot.Stage = domain.StageHarvested
	} else {
		snapshot.Stage = agronomy.ClassifyStage(dap, profile)
	}

	if field.ExpectedHarvestStart != nil && field.ExpectedHarvestEnd != nil {
		window := agronomy.HarvestWindow{Earliest: *field.ExpectedHarvestStart, Latest: *field.ExpectedHarvestEnd}
		snapshot.HarvestWindow = window.Format()
		snapshot.ExpectedHarvestStart = field.ExpectedHarvestStart
		snapshot.ExpectedHarvestEnd = field.ExpectedHarvestEnd

		remaining := agronomy.DaysRemaining(*field.ExpectedHarvestStart, asOf)
		snapshot.DaysToHarvest = &remaining

		if field.Status == domain.FieldStatusActive {
			overdue := agronomy.CheckHarvestOverdue(*field.ExpectedHarvestEnd, asOf)
			snapshot.HarvestOverdue = overdue.Overdue
			snapshot.OverdueDays = overdue.DaysPast
		}
	}

	if field.Status == domain.FieldStatusActive {
		delay := agronomy.CheckFertilizationDelay(dap,
			field.BasalFertilizationAt != nil,
			field.MainFertilizationAt != nil)
		snapshot.FertilizationDelayed = delay.Delayed
		snapshot.DelayDays = delay.Days
		snapshot.DelayKind = string(delay.Kind)
	}

	return snapshot
}

// afterGrowthWrite runs the side channel of every growth mutation: the
// legacy record mirror and cache invalidation. Both are advisory.
func (s *growthServiceImpl) afterGrowthWrite(ctx context.Context, field *domain.Field) {
	invalidateSnapshotCache(ctx, s.cache, field.ID, s.logger)
	mirrorGrowthRecord(ctx, s.legacyRepo, field, s.logger)
}

func (s *growthServiceImpl) cachedSnapshot(ctx context.Context, fieldID uuid.UUID) *dto.GrowthSnapshotResponse {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, snapshotCacheKey(fieldID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("Snapshot cache read failed", zap.Error(err))
		}
		return nil
	}
	var snapshot dto.GrowthSnapshotResponse
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil
	}
	return &snapshot
}

func (s *growthServiceImpl) storeSnapshot(ctx context.Context, fieldID uuid.UUID, snapshot *dto.GrowthSnapshotResponse) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, snapshotCacheKey(fieldID), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("Snapshot cache write failed", zap.Error(err))
	}
}

func (s *growthServiceImpl) loadVisibleField(ctx context.Context, fieldID, userID uuid.UUID) (*domain.Field, error) {
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

// loadEditableField restricts growth mutations to the field owner
func (s *growthServiceImpl) loadEditableField(ctx context.Context, fieldID, userID uuid.UUID) (*domain.Field, error) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Field not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load field", err.Error())
	}
	if field.OwnerID != userID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the field owner can update the growth record", "")
	}
	return field, nil
}

func isToday(t time.Time) bool {
	now := time.Now().UTC()
	y1, m1, d1 := t.UTC().Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
