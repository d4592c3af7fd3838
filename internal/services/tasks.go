package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/devpilot-dev/devpilot/internal/apperrors"
	"github.com/devpilot-dev/devpilot/internal/auth"
	"github.com/devpilot-dev/devpilot/internal/logger"
	"github.com/devpilot-dev/devpilot/internal/models"
	"github.com/devpilot-dev/devpilot/internal/store"
)

// Caller identifies the authenticated user driving an operation.
type Caller struct {
	ID   uint
	Role auth.Role
}

// TaskUpdate carries the fields of a task edit. Nil pointers leave the
// stored value untouched. DueDateSet distinguishes "clear the due date"
// (set, nil value) from "leave it alone" (unset).
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	AssigneeID  *uint
	DueDate     *time.Time
	DueDateSet  bool
}

// TaskMetrics is the per-project task aggregate.
type TaskMetrics struct {
	Total             int64 `json:"total"`
	Todo              int64 `json:"todo"`
	InProgress        int64 `json:"inProgress"`
	Done              int64 `json:"done"`
	Overdue           int64 `json:"overdue"`
	CompletionPercent int   `json:"completionPercent"`
}

type TaskService struct {
	tasks    store.TaskStore
	users    store.UserStore
	projects store.ProjectStore
}

func NewTaskService(st *store.Store) *TaskService {
	return &TaskService{tasks: st.Tasks, users: st.Users, projects: st.Projects}
}

func (s *TaskService) Create(ctx context.Context, projectID uint, title, description string, assigneeID uint, dueDate *time.Time) (*models.Task, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}

	if _, err := s.projects.ByID(ctx, projectID); err != nil {
		return nil, err
	}

	task := models.Task{
		Title:       title,
		Description: description,
		Status:      models.TaskStatusTodo,
		ProjectID:   projectID,
		AssigneeID:  s.normalizeAssignee(ctx, assigneeID),
		DueDate:     dueDate,
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}

	return s.tasks.ByID(ctx, task.ID)
}

// normalizeAssignee resolves an assignee id to a nullable foreign key.
// Zero or an id that resolves to no user means unassigned, never an error.
func (s *TaskService) normalizeAssignee(ctx context.Context, assigneeID uint) *uint {
	if assigneeID == 0 {
		return nil
	}

	if _, err := s.users.ByID(ctx, assigneeID); err != nil {
		logger.Warn("task assignee not found, storing unassigned", "assignee_id", assigneeID)
		return nil
	}

	id := assigneeID
	return &id
}

// Update applies a task edit under the role policy: MANAGER and ADMIN may
// change any field of any task; a DEVELOPER may change only the status,
// and only on a task assigned to them.
func (s *TaskService) Update(ctx context.Context, taskID uint, caller Caller, upd TaskUpdate) (*models.Task, error) {
	task, err := s.tasks.ByID(ctx, taskID)

	if err != nil {
		return nil, err
	}

	fullEdit := auth.AuthorizeAny(caller.Role, auth.RoleManager)

	if !fullEdit {
		if upd.Title != nil || upd.Description != nil || upd.AssigneeID != nil || upd.DueDateSet {
			return nil, apperrors.ErrForbidden
		}

		if task.AssigneeID == nil || *task.AssigneeID != caller.ID {
			return nil, apperrors.ErrForbidden
		}
	}

	fields := make(map[string]interface{})

	if upd.Title != nil {
		fields["title"] = *upd.Title
	}

	if upd.Description != nil {
		fields["description"] = *upd.Description
	}

	if upd.Status != nil {
		if !models.ValidTaskStatus(*upd.Status) {
			return nil, apperrors.ErrInvalidStatus
		}
		// Any transition between valid states is allowed.
		fields["status"] = *upd.Status
	}

	if upd.AssigneeID != nil {
		fields["assignee_id"] = s.normalizeAssignee(ctx, *upd.AssigneeID)
	}

	if upd.DueDateSet {
		fields["due_date"] = upd.DueDate
	}

	if len(fields) == 0 {
		return task, nil
	}

	if err := s.tasks.Updates(ctx, taskID, fields); err != nil {
		return nil, err
	}

	return s.tasks.ByID(ctx, taskID)
}

func (s *TaskService) Delete(ctx context.Context, taskID uint) error {
	return s.tasks.Delete(ctx, taskID)
}

func (s *TaskService) ListByProject(ctx context.Context, projectID uint) ([]models.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

// Metrics aggregates a project's tasks by status. completionPercent is
// round(done/total*100) and 0 for an empty project.
func (s *TaskService) Metrics(ctx context.Context, projectID uint) (*TaskMetrics, error) {
	if _, err := s.projects.ByID(ctx, projectID); err != nil {
		return nil, err
	}

	counts, err := s.tasks.Counts(ctx, &projectID)

	if err != nil {
		return nil, err
	}

	return &TaskMetrics{
		Total:             counts.Total,
		Todo:              counts.Todo,
		InProgress:        counts.InProgress,
		Done:              counts.Done,
		Overdue:           counts.Overdue,
		CompletionPercent: completionPercent(counts.Done, counts.Total),
	}, nil
}

func completionPercent(done, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
