package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cane-field-api/internal/domain"
	"cane-field-api/internal/repository"
)

// snapshotCacheKey is the cache key for a field's derived growth snapshot
func snapshotCacheKey(fieldID uuid.UUID) string {
	return "growth:snapshot:" + fieldID.String()
}

// invalidateSnapshotCache drops the cached snapshot after a growth write.
// A nil cache client means caching is disabled.
func invalidateSnapshotCache(ctx context.Context, cache *redis.Client, fieldID uuid.UUID, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Del(ctx, snapshotCacheKey(fieldID)).Err(); err != nil {
		logger.Warn("Snapshot cache invalidation failed",
			zap.String("fieldId", fieldID.String()), zap.Error(err))
	}
}

// mirrorGrowthRecord copies the field's growth attributes into the legacy
// record table. The fields row is authoritative and has already committed
// by the time this runs; a mirror failure is logged and swallowed.
func mirrorGrowthRecord(ctx context.Context, legacyRepo repository.LegacyGrowthRepository, field *domain.Field, logger *zap.Logger) {
	payload, err := json.Marshal(map[string]interface{}{
		"variety":              field.Variety,
		"plantingDate":         field.PlantingDate,
		"expectedHarvestStart": field.ExpectedHarvestStart,
		"expectedHarvestEnd":   field.ExpectedHarvestEnd,
		"basalFertilizationAt": field.BasalFertilizationAt,
		"mainFertilizationAt":  field.MainFertilizationAt,
		"currentGrowthStage":   field.CurrentGrowthStage,
		"delayDays":            field.DelayDays,
		"status":               field.Status,
		"actualHarvestDate":    field.ActualHarvestDate,
		"ratoonNumber":         field.RatoonNumber,
		"plantingCycle":        field.PlantingCycle,
	})
	if err != nil {
		logger.Warn("Failed to encode legacy growth payload", zap.Error(err))
		return
	}

	record := &domain.LegacyGrowthRecord{
		FieldID:   field.ID,
		Payload:   payload,
		UpdatedAt: time.Now().UTC(),
	}
	if err := legacyRepo.Upsert(ctx, record); err != nil {
		logger.Warn("Legacy growth record write failed",
			zap.String("fieldId", field.ID.String()), zap.Error(err))
	}
}
