// Package store is the persistence facade the services depend on. The
// interfaces are backed by gorm in production and by in-memory fakes in
// tests; nothing above this package touches SQL directly.
package store

import (
	"context"

	"github.com/devpilot-dev/devpilot/internal/models"
	"gorm.io/gorm"
)

// TaskCounts aggregates tasks by status. Overdue counts tasks whose due
// date is strictly before now and whose status is not DONE.
type TaskCounts struct {
	Total      int64
	Todo       int64
	InProgress int64
	Done       int64
	Overdue    int64
}

// TaskFilter narrows task listings. A nil ProjectID means all projects.
type TaskFilter struct {
	ProjectID *uint
	Status    string
	Overdue   bool
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	ByID(ctx context.Context, id uint) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id uint, role string) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type ProjectStore interface {
	Create(ctx context.Context, project *models.Project) error
	ByID(ctx context.Context, id uint) (*models.Project, error)
	// Detail loads the project with members+users, tasks+assignees and
	// user stories in one read.
	Detail(ctx context.Context, id uint) (*models.Project, error)
	ListAll(ctx context.Context) ([]models.Project, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Project, error)
	Count(ctx context.Context) (int64, error)
	// DeleteCascade removes members, tasks and stories before the project
	// itself, all inside a single transaction.
	DeleteCascade(ctx context.Context, id uint) error
}

type MemberStore interface {
	Add(ctx context.Context, member *models.ProjectMember) error
}

type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	ByID(ctx context.Context, id uint) (*models.Task, error)
	ListByProject(ctx context.Context, projectID uint) ([]models.Task, error)
	ListFiltered(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	Updates(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	Counts(ctx context.Context, projectID *uint) (TaskCounts, error)
}

type StoryStore interface {
	Create(ctx context.Context, story *models.UserStory) error
	ListByProject(ctx context.Context, projectID uint) ([]models.UserStory, error)
}

// Store bundles the per-entity stores behind one handle.
type Store struct {
	Users    UserStore
	Projects ProjectStore
	Members  MemberStore
	Tasks    TaskStore
	Stories  StoryStore
}

func New(gdb *gorm.DB) *Store {
	return &Store{
		Users:    &gormUserStore{db: gdb},
		Projects: &gormProjectStore{db: gdb},
		Members:  &gormMemberStore{db: gdb},
		Tasks:    &gormTaskStore{db: gdb},
		Stories:  &gormStoryStore{db: gdb},
	}
}
