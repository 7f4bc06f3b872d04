package domain

import (
	"time"

	"github.com/google/uuid"
)

// GrowthStage represents the growth stage of the current crop cycle
type GrowthStage string

const (
	StageNotPlanted   GrowthStage = "NOT_PLANTED"
	StageGermination  GrowthStage = "GERMINATION"
	StageTillering    GrowthStage = "TILLERING"
	StageGrandGrowth  GrowthStage = "GRAND_GROWTH"
	StageMaturity     GrowthStage = "MATURITY"
	StageHarvestReady GrowthStage = "HARVEST_READY"
	StageHarvested    GrowthStage = "HARVESTED"
)

// FieldStatus represents the lifecycle status of a field's current cycle
type FieldStatus string

const (
	FieldStatusNotPlanted FieldStatus = "NOT_PLANTED"
	FieldStatusActive     FieldStatus = "ACTIVE"
	FieldStatusHarvested  FieldStatus = "HARVESTED"
)

// HarvestTiming classifies an actual harvest date against the predicted window
type HarvestTiming string

const (
	HarvestTimingEarly  HarvestTiming = "EARLY"
	HarvestTimingOnTime HarvestTiming = "ON_TIME"
	HarvestTimingLate   HarvestTiming = "LATE"
)

// Field represents a registered sugarcane field together with the growth
// record of its current crop cycle. Terminal harvest fields (ActualHarvestDate,
// FinalDAP, ActualYield, HarvestTiming) are populated only while
// Status = HARVESTED and are cleared on every ratoon/replant transition.
type Field struct {
	BaseModel
	OwnerID  uuid.UUID `gorm:"type:uuid;not null;index:idx_fields_owner_id" json:"owner_id"`
	Name     string    `gorm:"type:varchar(255);not null" json:"name"`
	Location string    `gorm:"type:varchar(255)" json:"location"`
	AreaHa   float64   `gorm:"type:numeric" json:"area_ha"`

	// Current cycle growth record
	Variety               string      `gorm:"type:varchar(100)" json:"variety"`
	PlantingDate          *time.Time  `gorm:"type:timestamp" json:"planting_date"`
	ExpectedHarvestStart  *time.Time  `gorm:"type:timestamp" json:"expected_harvest_start"`
	ExpectedHarvestEnd    *time.Time  `gorm:"type:timestamp" json:"expected_harvest_end"`
	BasalFertilizationAt  *time.Time  `gorm:"type:timestamp" json:"basal_fertilization_at"`
	MainFertilizationAt   *time.Time  `gorm:"type:timestamp" json:"main_fertilization_at"`
	CurrentGrowthStage    GrowthStage `gorm:"type:varchar(50);not null;default:'NOT_PLANTED'" json:"current_growth_stage"`
	DelayDays             int         `gorm:"not null;default:0" json:"delay_days"`
	Status                FieldStatus `gorm:"type:varchar(50);not null;default:'NOT_PLANTED';index:idx_fields_status" json:"status"`

	// Harvest terminal fields (current cycle, only while Status = HARVESTED)
	ActualHarvestDate *time.Time     `gorm:"type:timestamp" json:"actual_harvest_date"`
	FinalDAP          *int           `json:"final_dap"`
	ActualYield       *float64       `gorm:"type:numeric" json:"actual_yield"`
	HarvestTiming     *HarvestTiming `gorm:"type:varchar(20)" json:"harvest_timing"`
	HarvestTimingDays *int           `json:"harvest_timing_days"`

	// Cycle counters: RatoonNumber resets to 0 on replant, PlantingCycle only grows
	RatoonNumber  int  `gorm:"not null;default:0" json:"ratoon_number"`
	PlantingCycle int  `gorm:"not null;default:1" json:"planting_cycle"`
	IsRatoon      bool `gorm:"not null;default:false" json:"is_ratoon"`

	Assignments []FieldAssignment `gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
	Archives    []CycleArchive    `gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE" json:"archives,omitempty"`
}

// TableName specifies the table name for Field
func (Field) TableName() string {
	return "fields"
}

// AssignmentRole represents the role of a user on a field
type AssignmentRole string

const (
	RoleHandler AssignmentRole = "HANDLER"
	RoleWorker  AssignmentRole = "WORKER"
)

// AssignmentStatus represents the approval status of a field assignment
type AssignmentStatus string

const (
	AssignmentPending  AssignmentStatus = "PENDING"
	AssignmentApproved AssignmentStatus = "APPROVED"
	AssignmentRejected AssignmentStatus = "REJECTED"
)

// FieldAssignment represents a worker or handler assignment on a field
type FieldAssignment struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FieldID   uuid.UUID        `gorm:"type:uuid;not null;index:idx_field_assignments_field_id;uniqueIndex:uq_field_assignments_field_user" json:"field_id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_field_assignments_user_id;uniqueIndex:uq_field_assignments_field_user" json:"user_id"`
	Role      AssignmentRole   `gorm:"type:varchar(20);not null" json:"role"`
	Status    AssignmentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_field_assignments_status" json:"status"`
	CreatedAt time.Time        `gorm:"type:timestamp;not null;default:now()" json:"created_at"`
	UpdatedAt time.Time        `gorm:"type:timestamp;not null;default:now()" json:"updated_at"`
}

// TableName specifies the table name for FieldAssignment
func (FieldAssignment) TableName() string {
	return "field_assignments"
}
