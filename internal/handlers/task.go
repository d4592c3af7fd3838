package handlers

import (
	"net/http"

	"github.com/devpilot-dev/devpilot/internal/services"
	"github.com/devpilot-dev/devpilot/internal/utils"
	"github.com/gin-gonic/gin"
)

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	AssigneeID  uint   `json:"assigneeId"`
	DueDate     string `json:"dueDate"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	AssigneeID  *uint   `json:"assigneeId"`
	DueDate     *string `json:"dueDate"`
}

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) Create(ctx *gin.Context) {
	projectID, ok := uintParam(ctx, "id")

	if !ok {
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	dueDate, err := parseDate(body.DueDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dueDate"})
		return
	}

	task, err := h.tasks.Create(ctx.Request.Context(), projectID, body.Title, body.Description, body.AssigneeID, dueDate)

	if err != nil {
		serviceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toTaskResponse(*task))
}

func (h *TaskHandler) List(ctx *gin.Context) {
	projectID, ok := uintParam(ctx, "id")

	if !ok {
		return
	}

	tasks, err := h.tasks.ListByProject(ctx.Request.Context(), projectID)

	if err != nil {
		serviceError(ctx, err)
		return
	}

	response := make([]TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		response = append(response, toTaskResponse(task))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *TaskHandler) Update(ctx *gin.Context) {
	taskID, ok := uintParam(ctx, "taskId")

	if !ok {
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	upd := services.TaskUpdate{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		AssigneeID:  body.AssigneeID,
	}

	// dueDate omitted leaves the stored value; an explicit empty string
	// clears it.
	if body.DueDate != nil {
		upd.DueDateSet = true

		dueDate, err := parseDate(*body.DueDate)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dueDate"})
			return
		}

		upd.DueDate = dueDate
	}

	caller := services.Caller{ID: currentUser.ID, Role: currentUser.Role}

	task, err := h.tasks.Update(ctx.Request.Context(), taskID, caller, upd)

	if err != nil {
		serviceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(*task))
}

func (h *TaskHandler) Delete(ctx *gin.Context) {
	taskID, ok := uintParam(ctx, "taskId")

	if !ok {
		return
	}

	if err := h.tasks.Delete(ctx.Request.Context(), taskID); err != nil {
		serviceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
