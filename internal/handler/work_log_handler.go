package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cane-field-api/internal/dto"
	"cane-field-api/internal/response"
	"cane-field-api/internal/service"
)

type WorkLogHandler struct {
	workLogService service.WorkLogService
}

func NewWorkLogHandler(workLogService service.WorkLogService) *WorkLogHandler {
	return &WorkLogHandler{
		workLogService: workLogService,
	}
}

// PresignPhotoUpload godoc
// @Summary      Presign a work photo upload
// @Description  Returns a presigned URL for uploading a work photo directly to object storage
// @Tags         work-logs
// @Accept       json
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Param        request body dto.PresignUploadRequest true "Upload request"
// @Success      200 {object} response.SuccessResponse{data=dto.PresignUploadResponse}
// @Failure      400 {object} response.ErrorResponse
// @Router       /{fieldId}/work-logs/presign [post]
func (h *WorkLogHandler) PresignPhotoUpload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := pathUUID(c, "fieldId")
	if !ok {
		return
	}

	var req dto.PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.workLogService.PresignPhotoUpload(c.Request.Context(), fieldID, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// CreateWorkLog godoc
// @Summary      Record field work
// @Tags         work-logs
// @Accept       json
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Param        request body dto.CreateWorkLogRequest true "Work log"
// @Success      201 {object} response.SuccessResponse{data=dto.WorkLogResponse}
// @Failure      400 {object} response.ErrorResponse
// @Router       /{fieldId}/work-logs [post]
func (h *WorkLogHandler) CreateWorkLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := pathUUID(c, "fieldId")
	if !ok {
		return
	}

	var req dto.CreateWorkLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	log, err := h.workLogService.CreateWorkLog(c.Request.Context(), fieldID, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, log)
}

// ListFieldWorkLogs godoc
// @Summary      List field work logs
// @Tags         work-logs
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.WorkLogResponse}
// @Router       /{fieldId}/work-logs [get]
func (h *WorkLogHandler) ListFieldWorkLogs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := pathUUID(c, "fieldId")
	if !ok {
		return
	}

	logs, err := h.workLogService.ListFieldWorkLogs(c.Request.Context(), fieldID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, logs)
}
