package dto

import (
	"time"

	"github.com/google/uuid"

	"cane-field-api/internal/domain"
)

// CreateTaskRequest represents the request to create a manual task
type CreateTaskRequest struct {
	FieldID     uuid.UUID           `json:"fieldId" binding:"required" example:"1275eac5-f0f9-4bee-8235-576a0042f42b"`
	Type        domain.TaskType     `json:"type" binding:"omitempty" example:"WEEDING"`
	Title       string              `json:"title" binding:"required,min=2,max=255" example:"Second weeding pass"`
	Description string              `json:"description" binding:"max=2000"`
	Priority    domain.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Deadline    *time.Time          `json:"deadline,omitempty" example:"2024-03-15T00:00:00Z"`
	AssigneeIDs []uuid.UUID         `json:"assigneeIds,omitempty" binding:"omitempty,dive,uuid"`
}

// CompleteTaskRequest marks a task as completed
type CompleteTaskRequest struct {
	CompletedAt *time.Time `json:"completedAt,omitempty" example:"2024-03-10T00:00:00Z"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID            uuid.UUID           `json:"id"`
	FieldID       uuid.UUID           `json:"fieldId"`
	CreatorID     uuid.UUID           `json:"creatorId"`
	Type          domain.TaskType     `json:"type"`
	Title         string              `json:"title"`
	Description   string              `json:"description,omitempty"`
	Priority      domain.TaskPriority `json:"priority"`
	Status        domain.TaskStatus   `json:"status"`
	GrowthStage   domain.GrowthStage  `json:"growthStage,omitempty"`
	DAPWindow     string              `json:"dapWindow,omitempty"`
	Deadline      *time.Time          `json:"deadline,omitempty"`
	AssigneeIDs   []uuid.UUID         `json:"assigneeIds,omitempty"`
	PlantingCycle int                 `json:"plantingCycle"`
	RatoonNumber  int                 `json:"ratoonNumber"`
	CompletedAt   *time.Time          `json:"completedAt,omitempty"`
	CompletedBy   *uuid.UUID          `json:"completedBy,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// GenerateTasksResponse reports the outcome of standard calendar generation
type GenerateTasksResponse struct {
	FieldID   uuid.UUID       `json:"fieldId"`
	Generated int             `json:"generated"`
	Tasks     []*TaskResponse `json:"tasks"`
}

// RecommendationItem is one recommended activity for a field
type RecommendationItem struct {
	Type        domain.TaskType     `json:"type"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Group       string              `json:"group"`
	Urgency     string              `json:"urgency"`
	WindowStart int                 `json:"windowStart"`
	WindowEnd   int                 `json:"windowEnd"`
	Stage       domain.GrowthStage  `json:"stage"`
	Priority    domain.TaskPriority `json:"priority"`
}

// RecommendationResponse is the recommendation set for a field at a DAP
type RecommendationResponse struct {
	FieldID uuid.UUID            `json:"fieldId"`
	AsOf    time.Time            `json:"asOf"`
	DAP     int                  `json:"dap"`
	Stage   domain.GrowthStage   `json:"stage"`
	Items   []RecommendationItem `json:"items"`
}
