package services

import (
	"context"
	"time"

	"github.com/devpilot-dev/devpilot/internal/apperrors"
	"github.com/devpilot-dev/devpilot/internal/models"
	"github.com/devpilot-dev/devpilot/internal/store"
)

// memData backs in-memory implementations of the store interfaces so the
// services can be exercised without a database.
type memData struct {
	users    map[uint]*models.User
	projects map[uint]*models.Project
	members  []*models.ProjectMember
	tasks    map[uint]*models.Task
	stories  []*models.UserStory
	nextID   uint
}

func newMemData() *memData {
	return &memData{
		users:    map[uint]*models.User{},
		projects: map[uint]*models.Project{},
		tasks:    map[uint]*models.Task{},
	}
}

func (d *memData) asStore() *store.Store {
	return &store.Store{
		Users:    &memUsers{d},
		Projects: &memProjects{d},
		Members:  &memMembers{d},
		Tasks:    &memTasks{d},
		Stories:  &memStories{d},
	}
}

func (d *memData) id() uint {
	d.nextID++
	return d.nextID
}

func (d *memData) addUser(name, email, role string) *models.User {
	user := &models.User{Name: name, Email: email, Role: role}
	user.ID = d.id()
	d.users[user.ID] = user
	return user
}

func (d *memData) addProject(name string) *models.Project {
	project := &models.Project{Name: name}
	project.ID = d.id()
	d.projects[project.ID] = project
	return project
}

func (d *memData) addMember(projectID, userID uint, role string) *models.ProjectMember {
	member := &models.ProjectMember{ProjectID: projectID, UserID: userID, Role: role}
	member.ID = d.id()
	d.members = append(d.members, member)
	return member
}

func (d *memData) addTask(projectID uint, status string, assigneeID *uint, dueDate *time.Time) *models.Task {
	task := &models.Task{
		Title:      "task",
		Status:     status,
		ProjectID:  projectID,
		AssigneeID: assigneeID,
		DueDate:    dueDate,
	}
	task.ID = d.id()
	d.tasks[task.ID] = task
	return task
}

type memUsers struct{ d *memData }

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	user.ID = m.d.id()
	m.d.users[user.ID] = user
	return nil
}

func (m *memUsers) ByID(_ context.Context, id uint) (*models.User, error) {
	if user, ok := m.d.users[id]; ok {
		return user, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *memUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range m.d.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memUsers) List(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, user := range m.d.users {
		out = append(out, *user)
	}
	return out, nil
}

func (m *memUsers) UpdateRole(_ context.Context, id uint, role string) error {
	user, ok := m.d.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	user.Role = role
	return nil
}

func (m *memUsers) Delete(_ context.Context, id uint) error {
	if _, ok := m.d.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.d.users, id)
	return nil
}

func (m *memUsers) Count(_ context.Context) (int64, error) {
	return int64(len(m.d.users)), nil
}

type memProjects struct{ d *memData }

func (m *memProjects) Create(_ context.Context, project *models.Project) error {
	project.ID = m.d.id()
	m.d.projects[project.ID] = project
	return nil
}

func (m *memProjects) ByID(_ context.Context, id uint) (*models.Project, error) {
	if project, ok := m.d.projects[id]; ok {
		return project, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *memProjects) Detail(_ context.Context, id uint) (*models.Project, error) {
	project, ok := m.d.projects[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	detail := *project
	detail.Members = nil
	detail.Tasks = nil
	detail.UserStories = nil

	for _, member := range m.d.members {
		if member.ProjectID == id {
			detail.Members = append(detail.Members, *member)
		}
	}
	for _, task := range m.d.tasks {
		if task.ProjectID == id {
			detail.Tasks = append(detail.Tasks, *task)
		}
	}
	for _, story := range m.d.stories {
		if story.ProjectID == id {
			detail.UserStories = append(detail.UserStories, *story)
		}
	}

	return &detail, nil
}

func (m *memProjects) ListAll(_ context.Context) ([]models.Project, error) {
	var out []models.Project
	for _, project := range m.d.projects {
		out = append(out, *project)
	}
	return out, nil
}

func (m *memProjects) ListForUser(_ context.Context, userID uint) ([]models.Project, error) {
	var out []models.Project
	for _, member := range m.d.members {
		if member.UserID != userID {
			continue
		}
		if project, ok := m.d.projects[member.ProjectID]; ok {
			out = append(out, *project)
		}
	}
	return out, nil
}

func (m *memProjects) Count(_ context.Context) (int64, error) {
	return int64(len(m.d.projects)), nil
}

func (m *memProjects) DeleteCascade(_ context.Context, id uint) error {
	if _, ok := m.d.projects[id]; !ok {
		return apperrors.ErrNotFound
	}

	var members []*models.ProjectMember
	for _, member := range m.d.members {
		if member.ProjectID != id {
			members = append(members, member)
		}
	}
	m.d.members = members

	for taskID, task := range m.d.tasks {
		if task.ProjectID == id {
			delete(m.d.tasks, taskID)
		}
	}

	var stories []*models.UserStory
	for _, story := range m.d.stories {
		if story.ProjectID != id {
			stories = append(stories, story)
		}
	}
	m.d.stories = stories

	delete(m.d.projects, id)
	return nil
}

type memMembers struct{ d *memData }

func (m *memMembers) Add(_ context.Context, member *models.ProjectMember) error {
	for _, existing := range m.d.members {
		if existing.ProjectID == member.ProjectID && existing.UserID == member.UserID {
			return apperrors.ErrConflict
		}
	}
	member.ID = m.d.id()
	m.d.members = append(m.d.members, member)
	return nil
}

type memTasks struct{ d *memData }

func (m *memTasks) Create(_ context.Context, task *models.Task) error {
	task.ID = m.d.id()
	m.d.tasks[task.ID] = task
	return nil
}

func (m *memTasks) ByID(_ context.Context, id uint) (*models.Task, error) {
	if task, ok := m.d.tasks[id]; ok {
		copied := *task
		return &copied, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *memTasks) ListByProject(_ context.Context, projectID uint) ([]models.Task, error) {
	var out []models.Task
	for _, task := range m.d.tasks {
		if task.ProjectID == projectID {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (m *memTasks) ListFiltered(_ context.Context, filter store.TaskFilter) ([]models.Task, error) {
	now := time.Now()
	var out []models.Task
	for _, task := range m.d.tasks {
		if filter.ProjectID != nil && task.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.Overdue && !task.Overdue(now) {
			continue
		}
		out = append(out, *task)
	}
	return out, nil
}

func (m *memTasks) Updates(_ context.Context, id uint, fields map[string]interface{}) error {
	task, ok := m.d.tasks[id]
	if !ok {
		return apperrors.ErrNotFound
	}

	for key, value := range fields {
		switch key {
		case "title":
			task.Title = value.(string)
		case "description":
			task.Description = value.(string)
		case "status":
			task.Status = value.(string)
		case "assignee_id":
			task.AssigneeID = value.(*uint)
		case "due_date":
			task.DueDate = value.(*time.Time)
		}
	}
	return nil
}

func (m *memTasks) Delete(_ context.Context, id uint) error {
	if _, ok := m.d.tasks[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.d.tasks, id)
	return nil
}

func (m *memTasks) Counts(_ context.Context, projectID *uint) (store.TaskCounts, error) {
	now := time.Now()
	var counts store.TaskCounts
	for _, task := range m.d.tasks {
		if projectID != nil && task.ProjectID != *projectID {
			continue
		}
		counts.Total++
		switch task.Status {
		case models.TaskStatusTodo:
			counts.Todo++
		case models.TaskStatusInProgress:
			counts.InProgress++
		case models.TaskStatusDone:
			counts.Done++
		}
		if task.Overdue(now) {
			counts.Overdue++
		}
	}
	return counts, nil
}

type memStories struct{ d *memData }

func (m *memStories) Create(_ context.Context, story *models.UserStory) error {
	story.ID = m.d.id()
	m.d.stories = append(m.d.stories, story)
	return nil
}

func (m *memStories) ListByProject(_ context.Context, projectID uint) ([]models.UserStory, error) {
	var out []models.UserStory
	for _, story := range m.d.stories {
		if story.ProjectID == projectID {
			out = append(out, *story)
		}
	}
	return out, nil
}
