package dto

import (
	"time"

	"github.com/google/uuid"
)

// PresignUploadRequest asks for a presigned photo upload URL
type PresignUploadRequest struct {
	FileName    string `json:"fileName" binding:"required,max=255" example:"cane-row-3.jpg"`
	ContentType string `json:"contentType" binding:"required,max=100" example:"image/jpeg"`
}

// PresignUploadResponse carries the presigned URL and the object key the
// client must echo back when creating the work log
type PresignUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	PhotoKey  string `json:"photoKey"`
}

// CreateWorkLogRequest records completed field work
type CreateWorkLogRequest struct {
	TaskID   *uuid.UUID `json:"taskId,omitempty"`
	Notes    string     `json:"notes" binding:"max=2000"`
	PhotoKey string     `json:"photoKey" binding:"max=512"`
	LoggedAt *time.Time `json:"loggedAt,omitempty" example:"2024-03-10T08:30:00Z"`
}

// WorkLogResponse is a work log entry in API responses
type WorkLogResponse struct {
	ID        uuid.UUID  `json:"id"`
	FieldID   uuid.UUID  `json:"fieldId"`
	TaskID    *uuid.UUID `json:"taskId,omitempty"`
	WorkerID  uuid.UUID  `json:"workerId"`
	Notes     string     `json:"notes,omitempty"`
	PhotoURL  string     `json:"photoUrl,omitempty"`
	LoggedAt  time.Time  `json:"loggedAt"`
	CreatedAt time.Time  `json:"createdAt"`
}
