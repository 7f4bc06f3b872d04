package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ArchiveKind distinguishes a ratoon transition from a full replant
type ArchiveKind string

const (
	ArchiveRatoon  ArchiveKind = "RATOON"
	ArchiveReplant ArchiveKind = "REPLANT"
)

// CycleArchive is an append-only record of one finished crop cycle, written
// exactly once at the moment the cycle ends (ratoon or replant) and never
// updated afterwards. Rows are ordered per field by (planting_cycle,
// ratoon_number) of the cycle they close.
type CycleArchive struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FieldID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_cycle_archives_field_id;uniqueIndex:uq_cycle_archives_field_cycle" json:"field_id"`
	Kind          ArchiveKind    `gorm:"type:varchar(20);not null" json:"kind"`
	PlantingCycle int            `gorm:"not null;uniqueIndex:uq_cycle_archives_field_cycle" json:"planting_cycle"`
	RatoonNumber  int            `gorm:"not null;uniqueIndex:uq_cycle_archives_field_cycle" json:"ratoon_number"`
	Snapshot      datatypes.JSON `gorm:"type:jsonb;not null" json:"snapshot"`
	ArchivedAt    time.Time      `gorm:"type:timestamp;not null;default:now()" json:"archived_at"`
}

// TableName specifies the table name for CycleArchive
func (CycleArchive) TableName() string {
	return "cycle_archives"
}

// CycleSnapshot is the JSON payload stored in CycleArchive.Snapshot.
// It freezes the terminal growth record of the cycle that just ended.
type CycleSnapshot struct {
	Variety              string         `json:"variety"`
	PlantingDate         *time.Time     `json:"plantingDate,omitempty"`
	ExpectedHarvestStart *time.Time     `json:"expectedHarvestStart,omitempty"`
	ExpectedHarvestEnd   *time.Time     `json:"expectedHarvestEnd,omitempty"`
	BasalFertilizationAt *time.Time     `json:"basalFertilizationAt,omitempty"`
	MainFertilizationAt  *time.Time     `json:"mainFertilizationAt,omitempty"`
	ActualHarvestDate    *time.Time     `json:"actualHarvestDate,omitempty"`
	FinalDAP             *int           `json:"finalDAP,omitempty"`
	ActualYield          *float64       `json:"actualYield,omitempty"`
	HarvestTiming        *HarvestTiming `json:"harvestTiming,omitempty"`
	HarvestTimingDays    *int           `json:"harvestTimingDays,omitempty"`
	WasRatoon            bool           `json:"wasRatoon"`
}
