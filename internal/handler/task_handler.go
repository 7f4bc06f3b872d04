package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cane-field-api/internal/dto"
	"cane-field-api/internal/response"
	"cane-field-api/internal/service"
)

// TaskHandler serves task management, calendar generation and
// recommendations
type TaskHandler struct {
	taskService      service.TaskService
	calendarService  service.TaskCalendarService
	recommendService service.RecommendService
}

func NewTaskHandler(taskService service.TaskService, calendarService service.TaskCalendarService, recommendService service.RecommendService) *TaskHandler {
	return &TaskHandler{
		taskService:      taskService,
		calendarService:  calendarService,
		recommendService: recommendService,
	}
}

// CreateTask godoc
// @Summary      Create a task
// @Description  Creates a manual task on a field
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateTaskRequest true "Task creation request"
// @Success      201 {object} response.SuccessResponse{data=dto.TaskResponse}
// @Failure      400 {object} response.ErrorResponse
// @Router       /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), &req, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, task)
}

// GetTask godoc
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        taskId path string true "Task ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.TaskResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /tasks/{taskId} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "taskId")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, task)
}

// ListFieldTasks godoc
// @Summary      List field tasks
// @Tags         tasks
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.TaskResponse}
// @Router       /{fieldId}/tasks [get]
func (h *TaskHandler) ListFieldTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := pathUUID(c, "fieldId")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListFieldTasks(c.Request.Context(), fieldID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, tasks)
}

// CompleteTask godoc
// @Summary      Complete a task
// @Description  Marks a task completed. Planting, fertilization and harvest tasks update the field's growth record as a side effect.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        taskId path string true "Task ID (UUID)"
// @Param        request body dto.CompleteTaskRequest false "Completion details"
// @Success      200 {object} response.SuccessResponse{data=dto.TaskResponse}
// @Failure      409 {object} response.ErrorResponse
// @Router       /tasks/{taskId}/complete [post]
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "taskId")
	if !ok {
		return
	}

	var req dto.CompleteTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
			return
		}
	}

	task, err := h.taskService.CompleteTask(c.Request.Context(), taskID, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, task)
}

// CancelTask godoc
// @Summary      Cancel a task
// @Tags         tasks
// @Produce      json
// @Param        taskId path string true "Task ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.TaskResponse}
// @Failure      409 {object} response.ErrorResponse
// @Router       /tasks/{taskId}/cancel [post]
func (h *TaskHandler) CancelTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "taskId")
	if !ok {
		return
	}

	task, err := h.taskService.CancelTask(c.Request.Context(), taskID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, task)
}

// GenerateTasks godoc
// @Summary      Generate the standard calendar
// @Description  Creates the standard crop-cycle tasks for the field's current cycle
// @Tags         tasks
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Success      201 {object} response.SuccessResponse{data=dto.GenerateTasksResponse}
// @Failure      409 {object} response.ErrorResponse
// @Router       /{fieldId}/tasks/generate [post]
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := pathUUID(c, "fieldId")
	if !ok {
		return
	}

	result, err := h.calendarService.GenerateStandardTasks(c.Request.Context(), fieldID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, result)
}

// GetRecommendations godoc
// @Summary      Get activity recommendations
// @Description  Evaluates the standard calendar at the field's current DAP and returns the remaining activities, most urgent first
// @Tags         tasks
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Param        asOf query string false "Evaluation date (RFC 3339)"
// @Success      200 {object} response.SuccessResponse{data=dto.RecommendationResponse}
// @Failure      409 {object} response.ErrorResponse
// @Router       /{fieldId}/recommendations [get]
func (h *TaskHandler) GetRecommendations(c *gin.Context) {
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

	recs, err := h.recommendService.GetRecommendations(c.Request.Context(), fieldID, userID, asOf)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, recs)
}
