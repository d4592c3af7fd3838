package handlers

import (
	"net/http"

	"github.com/devpilot-dev/devpilot/internal/services"
	"github.com/gin-gonic/gin"
)

type GenerateStoriesRequest struct {
	ProjectID          uint   `json:"projectId" binding:"required"`
	ProjectDescription string `json:"projectDescription"`
	MaxStories         int    `json:"maxStories"`
}

type StoryHandler struct {
	stories *services.StoryService
}

func NewStoryHandler(stories *services.StoryService) *StoryHandler {
	return &StoryHandler{stories: stories}
}

func (h *StoryHandler) Generate(ctx *gin.Context) {
	var body GenerateStoriesRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "projectId is required"})
		return
	}

	stories, err := h.stories.Generate(ctx.Request.Context(), body.ProjectID, body.ProjectDescription, body.MaxStories)

	if err != nil {
		serviceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stories)
}
