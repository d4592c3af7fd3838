package store

import (
	"context"
	"errors"
	"time"

	"github.com/devpilot-dev/devpilot/internal/apperrors"
	"github.com/devpilot-dev/devpilot/internal/models"
	"gorm.io/gorm"
)

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrConflict
	}
	return err
}

type gormUserStore struct{ db *gorm.DB }

func (s *gormUserStore) Create(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *gormUserStore) ByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User

	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

func (s *gormUserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

func (s *gormUserStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User

	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, translate(err)
	}

	return users, nil
}

func (s *gormUserStore) UpdateRole(ctx context.Context, id uint, role string) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)

	if result.Error != nil {
		return translate(result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (s *gormUserStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.User{}, id)

	if result.Error != nil {
		return translate(result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (s *gormUserStore) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, translate(err)
	}

	return count, nil
}

type gormProjectStore struct{ db *gorm.DB }

func (s *gormProjectStore) Create(ctx context.Context, project *models.Project) error {
	return translate(s.db.WithContext(ctx).Create(project).Error)
}

func (s *gormProjectStore) ByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project

	if err := s.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, translate(err)
	}

	return &project, nil
}

func (s *gormProjectStore) Detail(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project

	err := s.db.WithContext(ctx).
		Preload("Members.User").
		Preload("Tasks.Assignee").
		Preload("UserStories").
		First(&project, id).Error

	if err != nil {
		return nil, translate(err)
	}

	return &project, nil
}

func (s *gormProjectStore) ListAll(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project

	err := s.db.WithContext(ctx).
		Preload("Members.User").
		Preload("Tasks").
		Order("id").
		Find(&projects).Error

	if err != nil {
		return nil, translate(err)
	}

	return projects, nil
}

func (s *gormProjectStore) ListForUser(ctx context.Context, userID uint) ([]models.Project, error) {
	var projects []models.Project

	err := s.db.WithContext(ctx).
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ? AND project_members.deleted_at IS NULL", userID).
		Preload("Members.User").
		Preload("Tasks").
		Order("projects.id").
		Find(&projects).Error

	if err != nil {
		return nil, translate(err)
	}

	return projects, nil
}

func (s *gormProjectStore) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := s.db.WithContext(ctx).Model(&models.Project{}).Count(&count).Error; err != nil {
		return 0, translate(err)
	}

	return count, nil
}

func (s *gormProjectStore) DeleteCascade(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project

		if err := tx.First(&project, id).Error; err != nil {
			return err
		}

		// Children first to keep referential integrity; the transaction
		// closes the partial-delete window.
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.UserStory{}).Error; err != nil {
			return err
		}

		return tx.Delete(&project).Error
	})

	return translate(err)
}

type gormMemberStore struct{ db *gorm.DB }

func (s *gormMemberStore) Add(ctx context.Context, member *models.ProjectMember) error {
	var existing models.ProjectMember

	err := s.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", member.ProjectID, member.UserID).
		First(&existing).Error

	if err == nil {
		return apperrors.ErrConflict
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return translate(err)
	}

	return translate(s.db.WithContext(ctx).Create(member).Error)
}

type gormTaskStore struct{ db *gorm.DB }

func (s *gormTaskStore) Create(ctx context.Context, task *models.Task) error {
	return translate(s.db.WithContext(ctx).Create(task).Error)
}

func (s *gormTaskStore) ByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task

	if err := s.db.WithContext(ctx).Preload("Assignee").First(&task, id).Error; err != nil {
		return nil, translate(err)
	}

	return &task, nil
}

func (s *gormTaskStore) ListByProject(ctx context.Context, projectID uint) ([]models.Task, error) {
	var tasks []models.Task

	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Preload("Assignee").
		Order("id").
		Find(&tasks).Error

	if err != nil {
		return nil, translate(err)
	}

	return tasks, nil
}

func (s *gormTaskStore) ListFiltered(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := s.db.WithContext(ctx).Model(&models.Task{}).Preload("Assignee").Preload("Project")

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.Overdue {
		query = query.Where("due_date < ? AND status <> ?", time.Now(), models.TaskStatusDone)
	}

	var tasks []models.Task

	if err := query.Order("id").Find(&tasks).Error; err != nil {
		return nil, translate(err)
	}

	return tasks, nil
}

func (s *gormTaskStore) Updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := s.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(fields)

	if result.Error != nil {
		return translate(result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (s *gormTaskStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Task{}, id)

	if result.Error != nil {
		return translate(result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (s *gormTaskStore) Counts(ctx context.Context, projectID *uint) (TaskCounts, error) {
	var counts TaskCounts

	scoped := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Task{})
		if projectID != nil {
			q = q.Where("project_id = ?", *projectID)
		}
		return q
	}

	if err := scoped().Count(&counts.Total).Error; err != nil {
		return TaskCounts{}, translate(err)
	}

	if err := scoped().Where("status = ?", models.TaskStatusTodo).Count(&counts.Todo).Error; err != nil {
		return TaskCounts{}, translate(err)
	}

	if err := scoped().Where("status = ?", models.TaskStatusInProgress).Count(&counts.InProgress).Error; err != nil {
		return TaskCounts{}, translate(err)
	}

	if err := scoped().Where("status = ?", models.TaskStatusDone).Count(&counts.Done).Error; err != nil {
		return TaskCounts{}, translate(err)
	}

	err := scoped().
		Where("due_date < ? AND status <> ?", time.Now(), models.TaskStatusDone).
		Count(&counts.Overdue).Error

	if err != nil {
		return TaskCounts{}, translate(err)
	}

	return counts, nil
}

type gormStoryStore struct{ db *gorm.DB }

func (s *gormStoryStore) Create(ctx context.Context, story *models.UserStory) error {
	return translate(s.db.WithContext(ctx).Create(story).Error)
}

func (s *gormStoryStore) ListByProject(ctx context.Context, projectID uint) ([]models.UserStory, error) {
	var stories []models.UserStory

	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id").
		Find(&stories).Error

	if err != nil {
		return nil, translate(err)
	}

	return stories, nil
}
