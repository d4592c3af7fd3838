package handlers

import (
	"net/http"

	"github.com/devpilot-dev/devpilot/internal/services"
	"github.com/devpilot-dev/devpilot/internal/types"
	"github.com/devpilot-dev/devpilot/internal/utils"
	"github.com/gin-gonic/gin"
)

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type AdminHandler struct {
	users *services.UserService
}

func NewAdminHandler(users *services.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

func (h *AdminHandler) Metrics(ctx *gin.Context) {
	metrics, err := h.users.SiteMetrics(ctx.Request.Context())

	if err != nil {
		serviceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, metrics)
}

func (h *AdminHandler) ListUsers(ctx *gin.Context) {
	users, err := h.users.List(ctx.Request.Context())

	if err != nil {
		serviceError(ctx, err)
		return
	}

	response := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		response = append(response, types.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *AdminHandler) UpdateUserRole(ctx *gin.Context) {
	userID, ok := uintParam(ctx, "id")

	if !ok {
		return
	}

	var body UpdateRoleRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "role required"})
		return
	}

	role, err := h.users.UpdateRole(ctx.Request.Context(), userID, body.Role)

	if err != nil {
		serviceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": userID, "role": role})
}

func (h *AdminHandler) DeleteUser(ctx *gin.Context) {
	userID, ok := uintParam(ctx, "id")

	if !ok {
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	caller := services.Caller{ID: currentUser.ID, Role: currentUser.Role}

	if err := h.users.Delete(ctx.Request.Context(), caller, userID); err != nil {
		serviceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHandler) ListTasks(ctx *gin.Context) {
	status := ctx.Query("status")
	overdue := ctx.Query("overdue") == "true"

	tasks, err := h.users.GlobalTasks(ctx.Request.Context(), status, overdue)

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
