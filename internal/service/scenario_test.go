package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/dangerclosesec/tracker/internal/auth"
	"github.com/dangerclosesec/tracker/internal/domain"
	"github.com/dangerclosesec/tracker/internal/model"
	"github.com/dangerclosesec/tracker/internal/repository"
	"github.com/dangerclosesec/tracker/internal/service"
	"github.com/dangerclosesec/tracker/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreBacked(t *testing.T) (*service.TrackerService, *service.ActivityService) {
	db := storetest.Open(t)
	activity := service.NewActivityService(repository.NewActivityLogRepository(db))
	svc := service.NewTrackerService(
		repository.NewOrganizationRepository(db),
		repository.NewProjectRepository(db),
		repository.NewTaskRepository(db),
		repository.NewCommentRepository(db),
		activity,
		nil,
		nil,
	)
	return svc, activity
}

func TestProjectLifecycle(t *testing.T) {
	ctx := auth.WithCaller(context.Background(), "pm@acme.test")
	svc, activity := newStoreBacked(t)

	_, err := svc.CreateOrganization(ctx, service.CreateOrganizationInput{
		Name:         "Acme",
		Slug:         "acme",
		ContactEmail: "ops@acme.test",
	})
	require.NoError(t, err)

	created, err := svc.CreateProject(ctx, service.CreateProjectInput{OrgSlug: "acme", Name: "Launch"})
	require.NoError(t, err)
	projectID := created.Project.ID
	assert.Equal(t, model.ProjectActive, created.Project.Status)

	first, err := svc.CreateTask(ctx, service.CreateTaskInput{ProjectID: projectID, Title: "Design"})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, service.CreateTaskInput{ProjectID: projectID, Title: "Build"})
	require.NoError(t, err)

	detail, err := svc.GetProject(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.TaskCount)
	assert.Equal(t, int64(0), detail.CompletedTaskCount)

	_, err = svc.UpdateTaskStatus(ctx, first.ID, string(model.TaskDone))
	require.NoError(t, err)

	detail, err = svc.GetProject(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.TaskCount)
	assert.Equal(t, int64(1), detail.CompletedTaskCount)

	projects, err := svc.ListOrganizationProjects(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, int64(1), projects[0].CompletedTaskCount)

	// Moving the task back out of DONE lowers the counter again.
	_, err = svc.UpdateTaskStatus(ctx, first.ID, string(model.TaskInProgress))
	require.NoError(t, err)
	detail, err = svc.GetProject(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), detail.CompletedTaskCount)

	comment, err := svc.AddComment(ctx, service.AddCommentInput{
		TaskID:      first.ID,
		Content:     "Reopened for review",
		AuthorEmail: "pm@acme.test",
	})
	require.NoError(t, err)

	comments, err := svc.ListTaskComments(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, comment.ID, comments[0].ID)

	logs, total, err := activity.Query(ctx, repository.QueryParams{
		EntityType: model.EntityTask,
		EntityID:   first.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, entry := range logs {
		assert.Equal(t, "pm@acme.test", entry.ActorEmail)
	}

	require.NoError(t, svc.DeleteOrganization(ctx, "acme"))

	_, err = svc.GetProject(ctx, projectID)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	_, err = svc.ListTaskComments(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestSequentialUpdatesLastWriterWins(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStoreBacked(t)

	_, err := svc.CreateOrganization(ctx, service.CreateOrganizationInput{
		Name:         "Acme",
		Slug:         "acme",
		ContactEmail: "ops@acme.test",
	})
	require.NoError(t, err)
	created, err := svc.CreateProject(ctx, service.CreateProjectInput{OrgSlug: "acme", Name: "Launch"})
	require.NoError(t, err)

	for _, name := range []string{"First", "Second"} {
		_, err := svc.UpdateProject(ctx, service.UpdateProjectInput{
			ProjectID: created.Project.ID,
			Name:      domain.Some(name),
		})
		require.NoError(t, err)
	}

	detail, err := svc.GetProject(ctx, created.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second", detail.Project.Name)
}

func TestSingleTaskCompleted(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStoreBacked(t)

	_, err := svc.CreateOrganization(ctx, service.CreateOrganizationInput{
		Name:         "Acme",
		Slug:         "acme",
		ContactEmail: "ops@acme.test",
	})
	require.NoError(t, err)

	created, err := svc.CreateProject(ctx, service.CreateProjectInput{OrgSlug: "acme", Name: "Launch"})
	require.NoError(t, err)

	task, err := svc.CreateTask(ctx, service.CreateTaskInput{ProjectID: created.Project.ID, Title: "Write spec"})
	require.NoError(t, err)

	_, err = svc.UpdateTaskStatus(ctx, task.ID, "DONE")
	require.NoError(t, err)

	detail, err := svc.GetProject(ctx, created.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.TaskCount)
	assert.Equal(t, int64(1), detail.CompletedTaskCount)

	_, err = svc.GetProject(ctx, 9999999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectNameLimitCountsCharacters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStoreBacked(t)

	_, err := svc.CreateOrganization(ctx, service.CreateOrganizationInput{
		Name:         "Acme",
		Slug:         "acme",
		ContactEmail: "ops@acme.test",
	})
	require.NoError(t, err)

	// 150 characters, 300 bytes.
	name := strings.Repeat("é", 150)
	created, err := svc.CreateProject(ctx, service.CreateProjectInput{OrgSlug: "acme", Name: name})
	require.NoError(t, err)

	renamed := strings.Repeat("ü", 200)
	detail, err := svc.UpdateProject(ctx, service.UpdateProjectInput{
		ProjectID: created.Project.ID,
		Name:      domain.Some(renamed),
	})
	require.NoError(t, err)
	assert.Equal(t, renamed, detail.Project.Name)

	_, err = svc.UpdateProject(ctx, service.UpdateProjectInput{
		ProjectID: created.Project.ID,
		Name:      domain.Some(strings.Repeat("ü", 201)),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateProject(ctx, service.CreateProjectInput{OrgSlug: "acme", Name: strings.Repeat("ü", 201)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
