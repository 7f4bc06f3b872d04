package job

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cane-field-api/internal/agronomy"
	"cane-field-api/internal/client"
	"cane-field-api/internal/domain"
	"cane-field-api/internal/repository"
)

// OverdueSweepJob scans active fields for fertilization delays and overdue
// harvests and notifies the owners. It only reads and notifies; the
// authoritative delay value on the field advances through snapshot reads.
type OverdueSweepJob struct {
	fieldRepo repository.FieldRepository
	notifier  client.NotificationClient
	logger    *zap.Logger
}

// NewOverdueSweepJob creates a new OverdueSweepJob instance
func NewOverdueSweepJob(
	fieldRepo repository.FieldRepository,
	notifier client.NotificationClient,
	logger *zap.Logger,
) *OverdueSweepJob {
	return &OverdueSweepJob{
		fieldRepo: fieldRepo,
		notifier:  notifier,
		logger:    logger,
	}
}

// Run executes one sweep over all active fields
func (j *OverdueSweepJob) Run() {
	ctx := context.Background()
	now := time.Now().UTC()

	j.logger.Info("Starting overdue sweep")

	fields, err := j.fieldRepo.FindByStatus(ctx, domain.FieldStatusActive)
	if err != nil {
		j.logger.Error("Failed to load active fields", zap.Error(err))
		return
	}

	var events []client.NotificationEvent
	delayed := 0
	overdue := 0

	for _, field := range fields {
		if field.PlantingDate == nil {
			continue
		}
		dap := agronomy.DaysAfterPlanting(*field.PlantingDate, now)

		delay := agronomy.CheckFertilizationDelay(dap,
			field.BasalFertilizationAt != nil,
			field.MainFertilizationAt != nil)
		if delay.Delayed {
			delayed++
			events = append(events, client.NotificationEvent{
				Type:         client.NotificationFertilizationDelayed,
				TargetUserID: field.OwnerID,
				Message:      fmt.Sprintf("Fertilization on %s is %d days behind schedule (%s)", field.Name, delay.Days, delay.Kind),
				RelatedID:    field.ID,
			})
		}

		if field.ExpectedHarvestEnd != nil {
			over := agronomy.CheckHarvestOverdue(*field.ExpectedHarvestEnd, now)
			if over.Overdue {
				overdue++
				events = append(events, client.NotificationEvent{
					Type:         client.NotificationHarvestOverdue,
					TargetUserID: field.OwnerID,
					Message:      fmt.Sprintf("Harvest on %s is %d days past the grace period", field.Name, over.DaysPast),
					RelatedID:    field.ID,
				})
			}
		}
	}

	if len(events) > 0 {
		if err := j.notifier.NotifyBulk(ctx, events); err != nil {
			j.logger.Error("Failed to send overdue notifications", zap.Error(err))
		}
	}

	j.logger.Info("Overdue sweep completed",
		zap.Int("fields", len(fields)),
		zap.Int("fertilizationDelays", delayed),
		zap.Int("overdueHarvests", overdue),
	)
}
