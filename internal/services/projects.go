package services

import (
	"context"
	"fmt"
	"time"

	"github.com/devpilot-dev/devpilot/internal/apperrors"
	"github.com/devpilot-dev/devpilot/internal/auth"
	"github.com/devpilot-dev/devpilot/internal/logger"
	"github.com/devpilot-dev/devpilot/internal/models"
	"github.com/devpilot-dev/devpilot/internal/store"
)

type ProjectService struct {
	projects store.ProjectStore
	members  store.MemberStore
	users    store.UserStore
}

func NewProjectService(st *store.Store) *ProjectService {
	return &ProjectService{projects: st.Projects, members: st.Members, users: st.Users}
}

func (s *ProjectService) Create(ctx context.Context, name, description string, startDate, endDate *time.Time) (*models.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}

	project := models.Project{
		Name:        name,
		Description: description,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	if err := s.projects.Create(ctx, &project); err != nil {
		return nil, err
	}

	return &project, nil
}

// AddMember binds a user to a project with a project-scoped role label.
// A user can hold at most one membership per project.
func (s *ProjectService) AddMember(ctx context.Context, projectID, userID uint, roleLabel string) (*models.ProjectMember, error) {
	if _, err := s.projects.ByID(ctx, projectID); err != nil {
		return nil, err
	}

	if _, err := s.users.ByID(ctx, userID); err != nil {
		return nil, err
	}

	if roleLabel == "" {
		roleLabel = "Developer"
	}

	member := models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      roleLabel,
	}

	if err := s.members.Add(ctx, &member); err != nil {
		return nil, err
	}

	return &member, nil
}

// Delete removes the project and its members, tasks and user stories in a
// single transaction.
func (s *ProjectService) Delete(ctx context.Context, projectID uint) error {
	if err := s.projects.DeleteCascade(ctx, projectID); err != nil {
		return err
	}

	logger.Info("project deleted", "project_id", projectID)
	return nil
}

// ListVisible returns every project for an ADMIN and only projects the
// caller is a member of for everyone else.
func (s *ProjectService) ListVisible(ctx context.Context, caller Caller) ([]models.Project, error) {
	if caller.Role == auth.RoleAdmin {
		return s.projects.ListAll(ctx)
	}

	return s.projects.ListForUser(ctx, caller.ID)
}

func (s *ProjectService) Detail(ctx context.Context, projectID uint) (*models.Project, error) {
	return s.projects.Detail(ctx, projectID)
}
