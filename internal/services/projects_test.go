package services

import (
	"context"
	"testing"
	"time"

	"github.com/devpilot-dev/devpilot/internal/apperrors"
	"github.com/devpilot-dev/devpilot/internal/auth"
	"github.com/devpilot-dev/devpilot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCreateRequiresName(t *testing.T) {
	data := newMemData()
	svc := NewProjectService(data.asStore())

	_, err := svc.Create(context.Background(), "", "desc", nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestProjectCreateKeepsDates(t *testing.T) {
	data := newMemData()
	svc := NewProjectService(data.asStore())
	start := time.Now()

	project, err := svc.Create(context.Background(), "p", "desc", &start, nil)
	require.NoError(t, err)
	require.NotNil(t, project.StartDate)
	assert.Nil(t, project.EndDate)
}

func TestAddMemberDefaultsRoleLabel(t *testing.T) {
	data := newMemData()
	project := data.addProject("p")
	user := data.addUser("dev", "dev@example.com", string(auth.RoleDeveloper))
	svc := NewProjectService(data.asStore())

	member, err := svc.AddMember(context.Background(), project.ID, user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Developer", member.Role)
}

func TestAddMemberDuplicateConflicts(t *testing.T) {
	data := newMemData()
	project := data.addProject("p")
	user := data.addUser("dev", "dev@example.com", string(auth.RoleDeveloper))
	svc := NewProjectService(data.asStore())
	ctx := context.Background()

	_, err := svc.AddMember(ctx, project.ID, user.ID, "Developer")
	require.NoError(t, err)

	_, err = svc.AddMember(ctx, project.ID, user.ID, "Manager")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestAddMemberUnknownTargets(t *testing.T) {
	data := newMemData()
	project := data.addProject("p")
	user := data.addUser("dev", "dev@example.com", string(auth.RoleDeveloper))
	svc := NewProjectService(data.asStore())
	ctx := context.Background()

	_, err := svc.AddMember(ctx, 999, user.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.AddMember(ctx, project.ID, 999, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListVisible(t *testing.T) {
	data := newMemData()
	mine := data.addProject("mine")
	data.addProject("not-mine")
	dev := data.addUser("dev", "dev@example.com", string(auth.RoleDeveloper))
	data.addMember(mine.ID, dev.ID, "Developer")
	svc := NewProjectService(data.asStore())
	ctx := context.Background()

	visible, err := svc.ListVisible(ctx, Caller{ID: dev.ID, Role: auth.RoleDeveloper})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, mine.ID, visible[0].ID)

	all, err := svc.ListVisible(ctx, Caller{ID: 999, Role: auth.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteProjectCascades(t *testing.T) {
	data := newMemData()
	project := data.addProject("p")
	keep := data.addProject("keep")
	dev := data.addUser("dev", "dev@example.com", string(auth.RoleDeveloper))
	data.addMember(project.ID, dev.ID, "Developer")
	data.addTask(project.ID, models.TaskStatusTodo, nil, nil)
	data.addTask(project.ID, models.TaskStatusDone, nil, nil)
	data.addTask(keep.ID, models.TaskStatusTodo, nil, nil)
	data.stories = append(data.stories, &models.UserStory{ProjectID: project.ID, Text: "s"})

	svc := NewProjectService(data.asStore())
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, project.ID))

	_, err := svc.Detail(ctx, project.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// No orphan rows remain for the deleted project.
	assert.Empty(t, data.members)
	assert.Empty(t, data.stories)
	for _, task := range data.tasks {
		assert.Equal(t, keep.ID, task.ProjectID)
	}
}

func TestDeleteMissingProject(t *testing.T) {
	data := newMemData()
	svc := NewProjectService(data.asStore())

	assert.ErrorIs(t, svc.Delete(context.Background(), 42), apperrors.ErrNotFound)
}

func TestDetailIncludesChildren(t *testing.T) {
	data := newMemData()
	project := data.addProject("p")
	dev := data.addUser("dev", "dev@example.com", string(auth.RoleDeveloper))
	data.addMember(project.ID, dev.ID, "Developer")
	data.addTask(project.ID, models.TaskStatusTodo, &dev.ID, nil)
	data.stories = append(data.stories, &models.UserStory{ProjectID: project.ID, Text: "s"})

	svc := NewProjectService(data.asStore())
	detail, err := svc.Detail(context.Background(), project.ID)
	require.NoError(t, err)

	assert.Len(t, detail.Members, 1)
	assert.Len(t, detail.Tasks, 1)
	assert.Len(t, detail.UserStories, 1)
}
