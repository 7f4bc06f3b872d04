package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cane-field-api/internal/dto"
	"cane-field-api/internal/response"
	"cane-field-api/internal/service"
)

// GrowthHandler serves growth tracking and crop cycle transitions
type GrowthHandler struct {
	growthService service.GrowthService
	cycleService  service.CycleService
}

func NewGrowthHandler(growthService service.GrowthService, cycleService service.CycleService) *GrowthHandler {
	return &GrowthHandler{
		growthService: growthService,
		cycleService:  cycleService,
	}
}

// RecordPlanting godoc
// @Summary      Record planting
// @Description  Starts the initial crop cycle: stamps the planting date and derives the harvest window from the variety profile
// @Tags         growth
// @Accept       json
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Param        request body dto.RecordPlantingRequest true "Planting record"
// @Success      200 {object} response.SuccessResponse{data=dto.FieldResponse}
// @Failure      409 {object} response.ErrorResponse
// @Router       /{fieldId}/planting [post]
func (h *GrowthHandler) RecordPlanting(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := pathUUID(c, "fieldId")
	if !ok {
		return
	}

	var req dto.RecordPlantingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	field, err := h.growthService.RecordPlanting(c.Request.Context(), fieldID, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, field)
}

// RecordBasalFertilization godoc
// @Summary      Record basal fertilization
// @Tags         growth
// @Accept       json
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Param        request body dto.RecordFertilizationRequest true "Application record"
// @Success      200 {object} response.SuccessResponse{data=dto.FieldResponse}
// @Failure      409 {object} response.ErrorResponse
// @Router       /{fieldId}/fertilization/basal [post]
func (h *GrowthHandler) RecordBasalFertilization(c *gin.Context) {
	h.recordFertilization(c, h.growthService.RecordBasalFertilization)
}

// RecordMainFertilization godoc
// @Summary      Record main fertilization
// @Tags         growth
// @Accept       json
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Param        request body dto.RecordFertilizationRequest true "Application record"
// @Success      200 {object} response.SuccessResponse{data=dto.FieldResponse}
// @Failure      409 {object} response.ErrorResponse
// @Router       /{fieldId}/fertilization/main [post]
func (h *GrowthHandler) RecordMainFertilization(c *gin.Context) {
	h.recordFertilization(c, h.growthService.RecordMainFertilization)
}

func (h *GrowthHandler) recordFertilization(c *gin.Context, record func(ctx context.Context, fieldID, userID uuid.UUID, appliedAt time.Time) (*dto.FieldResponse, error)) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := pathUUID(c, "fieldId")
	if !ok {
		return
	}

	var req dto.RecordFertilizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	field, err := record(c.Request.Context(), fieldID, userID, req.AppliedAt)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, field)
}

// GetSnapshot godoc
// @Summary      Get the growth snapshot
// @Description  Returns the derived growth view: DAP, stage, harvest window, fertilization delay and overdue state. Optional asOf query (RFC 3339) evaluates at another date.
// @Tags         growth
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Param        asOf query string false "Evaluation date (RFC 3339)"
// @Success      200 {object} response.SuccessResponse{data=dto.GrowthSnapshotResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /{fieldId}/growth [get]
func (h *GrowthHandler) GetSnapshot(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := pathUUID(c, "fieldId")
	if !ok {
		return
	}

	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid asOf date, expected RFC 3339")
			return
		}
		asOf = parsed.UTC()
	}

	snapshot, err := h.growthService.GetSnapshot(c.Request.Context(), fieldID, userID, asOf)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, snapshot)
}

// RecordHarvest godoc
// @Summary      Record a harvest
// @Description  Closes the current cycle with the actual harvest date, yield and timing classification
// @Tags         cycles
// @Accept       json
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Param        request body dto.HarvestRequest true "Harvest record"
// @Success      200 {object} response.SuccessResponse{data=dto.FieldResponse}
// @Failure      409 {object} response.ErrorResponse
// @Router       /{fieldId}/harvest [post]
func (h *GrowthHandler) RecordHarvest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := pathUUID(c, "fieldId")
	if !ok {
		return
	}

	var req dto.HarvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	field, err := h.cycleService.RecordHarvest(c.Request.Context(), fieldID, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, field)
}

// StartRatoon godoc
// @Summary      Start a ratoon cycle
// @Description  Archives the harvested cycle and regrows from the root stock, anchored on the harvest date. Requires a harvested field.
// @Tags         cycles
// @Accept       json
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Param        request body dto.RatoonRequest false "Ratoon options"
// @Success      200 {object} response.SuccessResponse{data=dto.FieldResponse}
// @Failure      409 {object} response.ErrorResponse
// @Router       /{fieldId}/ratoon [post]
func (h *GrowthHandler) StartRatoon(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := pathUUID(c, "fieldId")
	if !ok {
		return
	}

	var req dto.RatoonRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
			return
		}
	}

	field, err := h.cycleService.StartRatoon(c.Request.Context(), fieldID, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, field)
}

// Replant godoc
// @Summary      Replant a field
// @Description  Archives the harvested cycle and starts a fresh initial planting, optionally with a new variety. Requires a harvested field.
// @Tags         cycles
// @Accept       json
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Param        request body dto.ReplantRequest true "Replant request"
// @Success      200 {object} response.SuccessResponse{data=dto.FieldResponse}
// @Failure      409 {object} response.ErrorResponse
// @Router       /{fieldId}/replant [post]
func (h *GrowthHandler) Replant(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := pathUUID(c, "fieldId")
	if !ok {
		return
	}

	var req dto.ReplantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	field, err := h.cycleService.Replant(c.Request.Context(), fieldID, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, field)
}
