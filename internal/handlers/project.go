package handlers

import (
	"net/http"

	"github.com/devpilot-dev/devpilot/internal/services"
	"github.com/devpilot-dev/devpilot/internal/utils"
	"github.com/gin-gonic/gin"
)

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type AddMemberRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Role   string `json:"role"`
}

type ProjectHandler struct {
	projects *services.ProjectService
	tasks    *services.TaskService
}

func NewProjectHandler(projects *services.ProjectService, tasks *services.TaskService) *ProjectHandler {
	return &ProjectHandler{projects: projects, tasks: tasks}
}

func (h *ProjectHandler) Create(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	startDate, err := parseDate(body.StartDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate"})
		return
	}

	endDate, err := parseDate(body.EndDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate"})
		return
	}

	project, err := h.projects.Create(ctx.Request.Context(), body.Name, body.Description, startDate, endDate)

	if err != nil {
		serviceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toProjectResponse(*project))
}

func (h *ProjectHandler) List(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projects, err := h.projects.ListVisible(ctx.Request.Context(), services.Caller{ID: currentUser.ID, Role: currentUser.Role})

	if err != nil {
		serviceError(ctx, err)
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, toProjectResponse(project))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *ProjectHandler) Detail(ctx *gin.Context) {
	projectID, ok := uintParam(ctx, "id")

	if !ok {
		return
	}

	project, err := h.projects.Detail(ctx.Request.Context(), projectID)

	if err != nil {
		serviceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toProjectResponse(*project))
}

func (h *ProjectHandler) AddMember(ctx *gin.Context) {
	projectID, ok := uintParam(ctx, "id")

	if !ok {
		return
	}

	var body AddMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	member, err := h.projects.AddMember(ctx.Request.Context(), projectID, body.UserID, body.Role)

	if err != nil {
		serviceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toMemberResponse(*member))
}

func (h *ProjectHandler) Delete(ctx *gin.Context) {
	projectID, ok := uintParam(ctx, "id")

	if !ok {
		return
	}

	if err := h.projects.Delete(ctx.Request.Context(), projectID); err != nil {
		serviceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func (h *ProjectHandler) Metrics(ctx *gin.Context) {
	projectID, ok := uintParam(ctx, "id")

	if !ok {
		return
	}

	metrics, err := h.tasks.Metrics(ctx.Request.Context(), projectID)

	if err != nil {
		serviceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, metrics)
}
