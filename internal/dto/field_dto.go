package dto

import (
	"time"

	"github.com/google/uuid"

	"cane-field-api/internal/domain"
)

// CreateFieldRequest represents the request to register a new field
type CreateFieldRequest struct {
	Name     string  `json:"name" binding:"required,min=2,max=100" example:"East Block 7"`
	Location string  `json:"location" binding:"max=255" example:"Barangay San Isidro"`
	AreaHa   float64 `json:"areaHa" binding:"gte=0" example:"2.5"`
	Variety  string  `json:"variety" binding:"max=100" example:"PS 1"`
}

// FieldResponse represents a field in API responses
type FieldResponse struct {
	ID                   uuid.UUID             `json:"id"`
	OwnerID              uuid.UUID             `json:"ownerId"`
	Name                 string                `json:"name"`
	Location             string                `json:"location,omitempty"`
	AreaHa               float64               `json:"areaHa"`
	Variety              string                `json:"variety,omitempty"`
	PlantingDate         *time.Time            `json:"plantingDate,omitempty"`
	ExpectedHarvestStart *time.Time            `json:"expectedHarvestStart,omitempty"`
	ExpectedHarvestEnd   *time.Time            `json:"expectedHarvestEnd,omitempty"`
	BasalFertilizationAt *time.Time            `json:"basalFertilizationAt,omitempty"`
	MainFertilizationAt  *time.Time            `json:"mainFertilizationAt,omitempty"`
	CurrentGrowthStage   domain.GrowthStage    `json:"currentGrowthStage"`
	DelayDays            int                   `json:"delayDays"`
	Status               domain.FieldStatus    `json:"status"`
	ActualHarvestDate    *time.Time            `json:"actualHarvestDate,omitempty"`
	FinalDAP             *int                  `json:"finalDap,omitempty"`
	ActualYield          *float64              `json:"actualYield,omitempty"`
	HarvestTiming        *domain.HarvestTiming `json:"harvestTiming,omitempty"`
	HarvestTimingDays    *int                  `json:"harvestTimingDays,omitempty"`
	RatoonNumber         int                   `json:"ratoonNumber"`
	PlantingCycle        int                   `json:"plantingCycle"`
	IsRatoon             bool                  `json:"isRatoon"`
	CreatedAt            time.Time             `json:"createdAt"`
	UpdatedAt            time.Time             `json:"updatedAt"`
}

// ToFieldResponse converts a domain field to its API representation
func ToFieldResponse(f *domain.Field) *FieldResponse {
	return &FieldResponse{
		ID:                   f.ID,
		OwnerID:              f.OwnerID,
		Name:                 f.Name,
		Location:             f.Location,
		AreaHa:               f.AreaHa,
		Variety:              f.Variety,
		PlantingDate:         f.PlantingDate,
		ExpectedHarvestStart: f.ExpectedHarvestStart,
		ExpectedHarvestEnd:   f.ExpectedHarvestEnd,
		BasalFertilizationAt: f.BasalFertilizationAt,
		MainFertilizationAt:  f.MainFertilizationAt,
		CurrentGrowthStage:   f.CurrentGrowthStage,
		DelayDays:            f.DelayDays,
		Status:               f.Status,
		ActualHarvestDate:    f.ActualHarvestDate,
		FinalDAP:             f.FinalDAP,
		ActualYield:          f.ActualYield,
		HarvestTiming:        f.HarvestTiming,
		HarvestTimingDays:    f.HarvestTimingDays,
		RatoonNumber:         f.RatoonNumber,
		PlantingCycle:        f.PlantingCycle,
		IsRatoon:             f.IsRatoon,
		CreatedAt:            f.CreatedAt,
		UpdatedAt:            f.UpdatedAt,
	}
}

// RecordPlantingRequest starts a new initial crop cycle on a field
type RecordPlantingRequest struct {
	PlantingDate time.Time `json:"plantingDate" binding:"required" example:"2024-01-01T00:00:00Z"`
	Variety      string    `json:"variety" binding:"max=100" example:"PS 1"`
}

// RecordFertilizationRequest records a fertilization application date
type RecordFertilizationRequest struct {
	AppliedAt time.Time `json:"appliedAt" binding:"required" example:"2024-01-28T00:00:00Z"`
}

// GrowthSnapshotResponse is the derived growth view of a field as of a
// given date. Nothing in it is stored; every value is recomputed from the
// planting date, the variety profile and the fertilization record.
type GrowthSnapshotResponse struct {
	FieldID              uuid.UUID          `json:"fieldId"`
	AsOf                 time.Time          `json:"asOf"`
	DAP                  int                `json:"dap"`
	Stage                domain.GrowthStage `json:"stage"`
	Variety              string             `json:"variety,omitempty"`
	VarietyResolved      bool               `json:"varietyResolved"`
	HarvestWindow        string             `json:"harvestWindow,omitempty"`
	ExpectedHarvestStart *time.Time         `json:"expectedHarvestStart,omitempty"`
	ExpectedHarvestEnd   *time.Time         `json:"expectedHarvestEnd,omitempty"`
	DaysToHarvest        *int               `json:"daysToHarvest,omitempty"`
	FertilizationDelayed bool               `json:"fertilizationDelayed"`
	DelayDays            int                `json:"delayDays"`
	DelayKind            string             `json:"delayKind,omitempty"`
	HarvestOverdue       bool               `json:"harvestOverdue"`
	OverdueDays          int                `json:"overdueDays"`
}

// HarvestRequest records the actual harvest that closes the current cycle
type HarvestRequest struct {
	HarvestDate time.Time `json:"harvestDate" binding:"required" example:"2024-12-15T00:00:00Z"`
	Yield       *float64  `json:"yield,omitempty" binding:"omitempty,gte=0" example:"185.4"`
}

// RatoonRequest starts a ratoon cycle from the just-harvested root stock.
// StartDate defaults to the recorded harvest date when omitted.
type RatoonRequest struct {
	StartDate     *time.Time `json:"startDate,omitempty" example:"2024-12-20T00:00:00Z"`
	GenerateTasks bool       `json:"generateTasks" example:"true"`
}

// ReplantRequest tears out the root stock and starts a fresh planting.
// PlantingDate defaults to the recorded harvest date when omitted.
type ReplantRequest struct {
	PlantingDate  *time.Time `json:"plantingDate,omitempty" example:"2025-02-01T00:00:00Z"`
	Variety       string     `json:"variety" binding:"max=100" example:"VMC 86-550"`
	GenerateTasks bool       `json:"generateTasks" example:"true"`
}

// CycleArchiveResponse is one closed crop cycle in API responses
type CycleArchiveResponse struct {
	ID            uuid.UUID             `json:"id"`
	Kind          domain.ArchiveKind    `json:"kind"`
	PlantingCycle int                   `json:"plantingCycle"`
	RatoonNumber  int                   `json:"ratoonNumber"`
	Snapshot      *domain.CycleSnapshot `json:"snapshot"`
	ArchivedAt    time.Time             `json:"archivedAt"`
}

// AssignmentRequest asks for a worker or handler assignment on a field
type AssignmentRequest struct {
	UserID uuid.UUID             `json:"userId" binding:"required" example:"a1b2c3d4-e5f6-7890-abcd-ef1234567890"`
	Role   domain.AssignmentRole `json:"role" binding:"required,oneof=HANDLER WORKER"`
}

// AssignmentResponse is a field assignment in API responses
type AssignmentResponse struct {
	ID        uuid.UUID               `json:"id"`
	FieldID   uuid.UUID               `json:"fieldId"`
	UserID    uuid.UUID               `json:"userId"`
	Role      domain.AssignmentRole   `json:"role"`
	Status    domain.AssignmentStatus `json:"status"`
	CreatedAt time.Time               `json:"createdAt"`
}
