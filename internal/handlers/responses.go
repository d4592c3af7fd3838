package handlers

import (
	"time"

	"github.com/devpilot-dev/devpilot/internal/models"
)

type TaskResponse struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	DueDate     *time.Time        `json:"dueDate"`
	ProjectID   uint              `json:"projectId"`
	AssigneeID  *uint             `json:"assigneeId"`
	Assignee    *AssigneeResponse `json:"assignee,omitempty"`
}

type AssigneeResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type MemberResponse struct {
	ID        uint              `json:"id"`
	ProjectID uint              `json:"projectId"`
	UserID    uint              `json:"userId"`
	Role      string            `json:"role"`
	User      *AssigneeResponse `json:"user,omitempty"`
}

type StoryResponse struct {
	ID        uint   `json:"id"`
	ProjectID uint   `json:"projectId"`
	Text      string `json:"text"`
}

type ProjectResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	StartDate   *time.Time       `json:"startDate"`
	EndDate     *time.Time       `json:"endDate"`
	Members     []MemberResponse `json:"members,omitempty"`
	Tasks       []TaskResponse   `json:"tasks,omitempty"`
	UserStories []StoryResponse  `json:"userStories,omitempty"`
}

func toUserRef(user *models.User) *AssigneeResponse {
	if user == nil || user.ID == 0 {
		return nil
	}
	return &AssigneeResponse{ID: user.ID, Name: user.Name, Email: user.Email}
}

func toTaskResponse(task models.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueDate:     task.DueDate,
		ProjectID:   task.ProjectID,
		AssigneeID:  task.AssigneeID,
		Assignee:    toUserRef(task.Assignee),
	}
}

func toMemberResponse(member models.ProjectMember) MemberResponse {
	return MemberResponse{
		ID:        member.ID,
		ProjectID: member.ProjectID,
		UserID:    member.UserID,
		Role:      member.Role,
		User:      toUserRef(&member.User),
	}
}

func toProjectResponse(project models.Project) ProjectResponse {
	response := ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
	}

	for _, member := range project.Members {
		response.Members = append(response.Members, toMemberResponse(member))
	}

	for _, task := range project.Tasks {
		response.Tasks = append(response.Tasks, toTaskResponse(task))
	}

	for _, story := range project.UserStories {
		response.UserStories = append(response.UserStories, StoryResponse{
			ID:        story.ID,
			ProjectID: story.ProjectID,
			Text:      story.Text,
		})
	}

	return response
}
