package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LegacyGrowthRecord is the compatibility copy of a field's growth attributes
// kept for consumers that still read the old flat record path. Writes to this
// table are advisory: the canonical fields row is the authoritative store and
// a failed legacy write is logged and ignored. Remove this table once no
// reader depends on it.
type LegacyGrowthRecord struct {
	FieldID   uuid.UUID      `gorm:"type:uuid;primaryKey" json:"field_id"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	UpdatedAt time.Time      `gorm:"type:timestamp;not null" json:"updated_at"`
}

// TableName specifies the table name for LegacyGrowthRecord
func (LegacyGrowthRecord) TableName() string {
	return "legacy_growth_records"
}
