package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TaskType is the machine-readable activity tag carried on every task at
// creation time. Growth-tracking dispatch keys on this tag; matching the
// free-form title by substring is kept only as a fallback for legacy tasks
// created before tagging existed.
type TaskType string

const (
	TaskTypeLandPrep          TaskType = "LAND_PREPARATION"
	TaskTypePlanting          TaskType = "PLANTING"
	TaskTypeBasalFertilizer   TaskType = "BASAL_FERTILIZATION"
	TaskTypeMainFertilizer    TaskType = "MAIN_FERTILIZATION"
	TaskTypeWeeding           TaskType = "WEEDING"
	TaskTypePestControl       TaskType = "PEST_CONTROL"
	TaskTypeGrowthMonitoring  TaskType = "GROWTH_MONITORING"
	TaskTypeIrrigationCheck   TaskType = "IRRIGATION_CHECK"
	TaskTypePreHarvestCheck   TaskType = "PRE_HARVEST_CHECK"
	TaskTypeHarvest           TaskType = "HARVEST"
	TaskTypeGeneral           TaskType = "GENERAL"
)

// TaskStatus represents the completion status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

// TaskPriority represents the urgency of a task
type TaskPriority string

const (
	PriorityLow      TaskPriority = "LOW"
	PriorityMedium   TaskPriority = "MEDIUM"
	PriorityHigh     TaskPriority = "HIGH"
	PriorityCritical TaskPriority = "CRITICAL"
)

// Task represents one field activity, either generated from the standard
// crop-cycle calendar or created manually. AssigneeIDs is a one-time snapshot
// taken at creation; it is not kept in sync with later assignment changes.
type Task struct {
	BaseModel
	FieldID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_tasks_field_id" json:"field_id"`
	CreatorID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_tasks_creator_id" json:"creator_id"`
	Type          TaskType       `gorm:"type:varchar(50);not null;default:'GENERAL';index:idx_tasks_type" json:"type"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Priority      TaskPriority   `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"priority"`
	Status        TaskStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_tasks_status" json:"status"`
	GrowthStage   GrowthStage    `gorm:"type:varchar(50)" json:"growth_stage"`
	DAPWindow     string         `gorm:"type:varchar(50)" json:"dap_window"`
	Deadline      *time.Time     `gorm:"type:timestamp;index:idx_tasks_deadline" json:"deadline"`
	AssigneeIDs   datatypes.JSON `gorm:"type:jsonb" json:"assignee_ids"`
	Variety       string         `gorm:"type:varchar(100)" json:"variety"`
	PlantingCycle int            `gorm:"not null;default:1" json:"planting_cycle"`
	RatoonNumber  int            `gorm:"not null;default:0" json:"ratoon_number"`
	CompletedAt   *time.Time     `gorm:"type:timestamp" json:"completed_at"`
	CompletedBy   *uuid.UUID     `gorm:"type:uuid" json:"completed_by"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// WorkLog is a worker-submitted record of completed field work, optionally
// carrying a photo uploaded to object storage via a presigned URL.
type WorkLog struct {
	BaseModel
	FieldID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_work_logs_field_id" json:"field_id"`
	TaskID   *uuid.UUID `gorm:"type:uuid;index:idx_work_logs_task_id" json:"task_id"`
	WorkerID uuid.UUID  `gorm:"type:uuid;not null;index:idx_work_logs_worker_id" json:"worker_id"`
	Notes    string     `gorm:"type:text" json:"notes"`
	PhotoKey string     `gorm:"type:varchar(512)" json:"photo_key"`
	PhotoURL string     `gorm:"type:varchar(1024)" json:"photo_url"`
	LoggedAt time.Time  `gorm:"type:timestamp;not null" json:"logged_at"`
}

// TableName specifies the table name for WorkLog
func (WorkLog) TableName() string {
	return "work_logs"
}
