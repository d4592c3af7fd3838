package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devpilot-dev/devpilot/internal/apperrors"
	"github.com/devpilot-dev/devpilot/internal/auth"
	"github.com/devpilot-dev/devpilot/internal/logger"
	"github.com/devpilot-dev/devpilot/internal/models"
	"github.com/devpilot-dev/devpilot/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// SiteMetrics is the admin-wide dashboard aggregate.
type SiteMetrics struct {
	TotalProjects int64 `json:"totalProjects"`
	TotalUsers    int64 `json:"totalUsers"`
	TotalTasks    int64 `json:"totalTasks"`
	Todo          int64 `json:"todo"`
	InProgress    int64 `json:"inProgress"`
	Done          int64 `json:"done"`
	Overdue       int64 `json:"overdue"`
}

type UserService struct {
	users    store.UserStore
	projects store.ProjectStore
	tasks    store.TaskStore
}

func NewUserService(st *store.Store) *UserService {
	return &UserService{users: st.Users, projects: st.Projects, tasks: st.Tasks}
}

// Register creates a user. The role defaults to DEVELOPER when omitted.
func (s *UserService) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", apperrors.ErrValidation)
	}

	userRole := auth.RoleDeveloper

	if role != "" {
		parsed, err := auth.ParseRole(role)
		if err != nil {
			return nil, apperrors.ErrInvalidRole
		}
		userRole = parsed
	}

	if _, err := s.users.ByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrConflict
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         string(userRole),
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}

	logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return &user, nil
}

// Login verifies credentials and issues a signed 8-hour token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password required", apperrors.ErrValidation)
	}

	user, err := s.users.ByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(user.ID, auth.Role(user.Role))

	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) UpdateRole(ctx context.Context, userID uint, role string) (auth.Role, error) {
	parsed, err := auth.ParseRole(role)

	if err != nil {
		return "", apperrors.ErrInvalidRole
	}

	if err := s.users.UpdateRole(ctx, userID, string(parsed)); err != nil {
		return "", err
	}

	return parsed, nil
}

// Delete removes a user. Callers cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, caller Caller, userID uint) error {
	if caller.ID == userID {
		return apperrors.ErrSelfDelete
	}

	return s.users.Delete(ctx, userID)
}

func (s *UserService) SiteMetrics(ctx context.Context) (*SiteMetrics, error) {
	totalProjects, err := s.projects.Count(ctx)

	if err != nil {
		return nil, err
	}

	totalUsers, err := s.users.Count(ctx)

	if err != nil {
		return nil, err
	}

	counts, err := s.tasks.Counts(ctx, nil)

	if err != nil {
		return nil, err
	}

	return &SiteMetrics{
		TotalProjects: totalProjects,
		TotalUsers:    totalUsers,
		TotalTasks:    counts.Total,
		Todo:          counts.Todo,
		InProgress:    counts.InProgress,
		Done:          counts.Done,
		Overdue:       counts.Overdue,
	}, nil
}

// GlobalTasks lists tasks across all projects with optional status and
// overdue filters.
func (s *UserService) GlobalTasks(ctx context.Context, status string, overdue bool) ([]models.Task, error) {
	if status != "" && !models.ValidTaskStatus(status) {
		return nil, apperrors.ErrInvalidStatus
	}

	return s.tasks.ListFiltered(ctx, store.TaskFilter{Status: status, Overdue: overdue})
}
