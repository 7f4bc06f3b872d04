package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cane-field-api/internal/dto"
	"cane-field-api/internal/response"
	"cane-field-api/internal/service"
)

type FieldHandler struct {
	fieldService service.FieldService
}

func NewFieldHandler(fieldService service.FieldService) *FieldHandler {
	return &FieldHandler{
		fieldService: fieldService,
	}
}

// CreateField godoc
// @Summary      Register a field
// @Description  Registers a new sugarcane field owned by the caller
// @Tags         fields
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateFieldRequest true "Field registration request"
// @Success      201 {object} response.SuccessResponse{data=dto.FieldResponse}
// @Failure      400 {object} response.ErrorResponse
// @Router       / [post]
func (h *FieldHandler) CreateField(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	field, err := h.fieldService.CreateField(c.Request.Context(), &req, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, field)
}

// ListFields godoc
// @Summary      List my fields
// @Description  Returns all fields owned by the caller
// @Tags         fields
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.FieldResponse}
// @Router       / [get]
func (h *FieldHandler) ListFields(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fields, err := h.fieldService.ListFields(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, fields)
}

// GetField godoc
// @Summary      Get a field
// @Description  Returns one field with its current growth record
// @Tags         fields
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.FieldResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /{fieldId} [get]
func (h *FieldHandler) GetField(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := pathUUID(c, "fieldId")
	if !ok {
		return
	}

	field, err := h.fieldService.GetField(c.Request.Context(), fieldID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, field)
}

// DeleteField godoc
// @Summary      Delete a field
// @Description  Deletes a field. Owner only.
// @Tags         fields
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Success      200 {object} response.SuccessResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /{fieldId} [delete]
func (h *FieldHandler) DeleteField(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := pathUUID(c, "fieldId")
	if !ok {
		return
	}

	if err := h.fieldService.DeleteField(c.Request.Context(), fieldID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// ListArchives godoc
// @Summary      List cycle archives
// @Description  Returns the field's closed crop cycles, oldest first
// @Tags         fields
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.CycleArchiveResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /{fieldId}/archives [get]
func (h *FieldHandler) ListArchives(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := pathUUID(c, "fieldId")
	if !ok {
		return
	}

	archives, err := h.fieldService.ListArchives(c.Request.Context(), fieldID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, archives)
}

// RequestAssignment godoc
// @Summary      Request a field assignment
// @Description  Requests a handler or worker assignment on a field
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Param        request body dto.AssignmentRequest true "Assignment request"
// @Success      201 {object} response.SuccessResponse{data=dto.AssignmentResponse}
// @Failure      409 {object} response.ErrorResponse
// @Router       /{fieldId}/assignments [post]
func (h *FieldHandler) RequestAssignment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := pathUUID(c, "fieldId")
	if !ok {
		return
	}

	var req dto.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	assignment, err := h.fieldService.RequestAssignment(c.Request.Context(), fieldID, &req, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, assignment)
}

// ListAssignments godoc
// @Summary      List field assignments
// @Tags         assignments
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.AssignmentResponse}
// @Router       /{fieldId}/assignments [get]
func (h *FieldHandler) ListAssignments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := pathUUID(c, "fieldId")
	if !ok {
		return
	}

	assignments, err := h.fieldService.ListAssignments(c.Request.Context(), fieldID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, assignments)
}

// ApproveAssignment godoc
// @Summary      Approve an assignment
// @Description  Approves a pending assignment. Field owner only.
// @Tags         assignments
// @Produce      json
// @Param        assignmentId path string true "Assignment ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.AssignmentResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /assignments/{assignmentId}/approve [post]
func (h *FieldHandler) ApproveAssignment(c *gin.Context) {
	h.reviewAssignment(c, true)
}

// RejectAssignment godoc
// @Summary      Reject an assignment
// @Description  Rejects a pending assignment. Field owner only.
// @Tags         assignments
// @Produce      json
// @Param        assignmentId path string true "Assignment ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.AssignmentResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /assignments/{assignmentId}/reject [post]
func (h *FieldHandler) RejectAssignment(c *gin.Context) {
	h.reviewAssignment(c, false)
}

func (h *FieldHandler) reviewAssignment(c *gin.Context, approve bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	assignmentID, ok := pathUUID(c, "assignmentId")
	if !ok {
		return
	}

	assignment, err := h.fieldService.ReviewAssignment(c.Request.Context(), assignmentID, userID, approve)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, assignment)
}
