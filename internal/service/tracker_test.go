package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dangerclosesec/tracker/internal/domain"
	"github.com/dangerclosesec/tracker/internal/mocks"
	"github.com/dangerclosesec/tracker/internal/model"
	"github.com/dangerclosesec/tracker/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/datatypes"
)

type fixture struct {
	orgs     *mocks.MockOrganizationRepositoryIface
	projects *mocks.MockProjectRepositoryIface
	tasks    *mocks.MockTaskRepositoryIface
	comments *mocks.MockCommentRepositoryIface
	notifier *mocks.MockNotifier
	svc      *service.TrackerService
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		orgs:     mocks.NewMockOrganizationRepositoryIface(ctrl),
		projects: mocks.NewMockProjectRepositoryIface(ctrl),
		tasks:    mocks.NewMockTaskRepositoryIface(ctrl),
		comments: mocks.NewMockCommentRepositoryIface(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
	}
	f.svc = service.NewTrackerService(f.orgs, f.projects, f.tasks, f.comments, nil, f.notifier, nil)
	return f
}

func (f *fixture) expectCounts(projectID int64, total, completed int64) {
	f.projects.EXPECT().
		CountTasks(gomock.Any(), projectID, gomock.Nil()).
		Return(total, nil)
	f.projects.EXPECT().
		CountTasks(gomock.Any(), projectID, gomock.Not(gomock.Nil())).
		DoAndReturn(func(_ context.Context, _ int64, status *model.TaskStatus) (int64, error) {
			if *status != model.TaskDone {
				return 0, errors.New("unexpected status filter")
			}
			return completed, nil
		})
}

func date(t *testing.T, s string) *datatypes.Date {
	t.Helper()
	parsed, err := time.Parse(time.DateOnly, s)
	require.NoError(t, err)
	d := datatypes.Date(parsed)
	return &d
}

var acme = &model.Organization{ID: 1, Name: "Acme", Slug: "acme", ContactEmail: "ops@acme.test"}

func TestGetOrganization(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		f := newFixture(t)
		f.orgs.EXPECT().FindBySlug(gomock.Any(), "acme").Return(acme, nil)

		org, err := f.svc.GetOrganization(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "Acme", org.Name)
	})

	t.Run("unknown slug", func(t *testing.T) {
		f := newFixture(t)
		f.orgs.EXPECT().FindBySlug(gomock.Any(), "nope").Return(nil, domain.ErrOrganizationNotFound)

		_, err := f.svc.GetOrganization(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestGetProjectCounts(t *testing.T) {
	f := newFixture(t)
	project := &model.Project{ID: 7, OrganizationID: acme.ID, Name: "Launch", Status: model.ProjectActive}

	f.projects.EXPECT().FindByID(gomock.Any(), int64(7)).Return(project, nil)
	f.expectCounts(7, 3, 1)

	detail, err := f.svc.GetProject(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, project, detail.Project)
	assert.Equal(t, int64(3), detail.TaskCount)
	assert.Equal(t, int64(1), detail.CompletedTaskCount)
}

func TestGetProjectTree(t *testing.T) {
	ctx := context.Background()
	project := &model.Project{ID: 7, Name: "Launch"}

	t.Run("tasks and comments", func(t *testing.T) {
		f := newFixture(t)
		tasks := []*model.Task{{ID: 1, ProjectID: 7}, {ID: 2, ProjectID: 7}}

		f.projects.EXPECT().FindByID(gomock.Any(), int64(7)).Return(project, nil)
		f.expectCounts(7, 2, 0)
		f.tasks.EXPECT().FindByProject(gomock.Any(), int64(7)).Return(tasks, nil)
		f.comments.EXPECT().FindByTask(gomock.Any(), int64(1)).
			Return([]*model.TaskComment{{ID: 4, TaskID: 1, Content: "hi"}}, nil)
		f.comments.EXPECT().FindByTask(gomock.Any(), int64(2)).Return(nil, nil)

		detail, err := f.svc.GetProjectTree(ctx, 7, service.ProjectInclude{Comments: true})
		require.NoError(t, err)
		require.Len(t, detail.Tasks, 2)
		require.Len(t, detail.Tasks[0].Comments, 1)
		assert.Equal(t, "hi", detail.Tasks[0].Comments[0].Content)
		assert.NotNil(t, detail.Tasks[1].Comments)
		assert.Empty(t, detail.Tasks[1].Comments)
	})

	t.Run("nothing requested", func(t *testing.T) {
		f := newFixture(t)

		f.projects.EXPECT().FindByID(gomock.Any(), int64(7)).Return(project, nil)
		f.expectCounts(7, 0, 0)

		detail, err := f.svc.GetProjectTree(ctx, 7, service.ProjectInclude{})
		require.NoError(t, err)
		assert.Nil(t, detail.Tasks)
	})

	t.Run("tasks only", func(t *testing.T) {
		f := newFixture(t)

		f.projects.EXPECT().FindByID(gomock.Any(), int64(7)).Return(project, nil)
		f.expectCounts(7, 0, 0)
		f.tasks.EXPECT().FindByProject(gomock.Any(), int64(7)).Return(nil, nil)

		detail, err := f.svc.GetProjectTree(ctx, 7, service.ProjectInclude{Tasks: true})
		require.NoError(t, err)
		assert.NotNil(t, detail.Tasks)
		assert.Empty(t, detail.Tasks)
	})
}

func TestListOrganizationProjects(t *testing.T) {
	f := newFixture(t)
	projects := []*model.Project{
		{ID: 1, OrganizationID: acme.ID, Name: "One"},
		{ID: 2, OrganizationID: acme.ID, Name: "Two"},
	}

	gomock.InOrder(
		f.orgs.EXPECT().FindBySlug(gomock.Any(), "acme").Return(acme, nil),
		f.projects.EXPECT().FindByOrganization(gomock.Any(), acme.ID).Return(projects, nil),
	)
	f.expectCounts(1, 2, 2)
	f.expectCounts(2, 0, 0)

	details, err := f.svc.ListOrganizationProjects(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, int64(2), details[0].CompletedTaskCount)
	assert.Zero(t, details[1].TaskCount)
}

func TestCreateProject(t *testing.T) {
	ctx := context.Background()

	t.Run("starts active with zero counts", func(t *testing.T) {
		f := newFixture(t)
		due := date(t, "2025-01-31")

		f.orgs.EXPECT().FindBySlug(gomock.Any(), "acme").Return(acme, nil)
		f.projects.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *model.Project) error {
				assert.Equal(t, acme.ID, p.OrganizationID)
				assert.Equal(t, model.ProjectActive, p.Status)
				p.ID = 11
				return nil
			})

		detail, err := f.svc.CreateProject(ctx, service.CreateProjectInput{
			OrgSlug: "acme",
			Name:    "  Launch  ",
			DueDate: due,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(11), detail.Project.ID)
		assert.Equal(t, "Launch", detail.Project.Name)
		assert.Equal(t, due, detail.Project.DueDate)
		assert.Zero(t, detail.TaskCount)
		assert.Zero(t, detail.CompletedTaskCount)
	})

	t.Run("unknown organization", func(t *testing.T) {
		f := newFixture(t)
		f.orgs.EXPECT().FindBySlug(gomock.Any(), "ghost").Return(nil, domain.ErrOrganizationNotFound)

		_, err := f.svc.CreateProject(ctx, service.CreateProjectInput{OrgSlug: "ghost", Name: "X"})
		assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
	})

	t.Run("blank name", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateProject(ctx, service.CreateProjectInput{OrgSlug: "acme", Name: "   "})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "name is required")
	})
}

func TestUpdateProject(t *testing.T) {
	ctx := context.Background()

	t.Run("only supplied fields change", func(t *testing.T) {
		f := newFixture(t)
		current := &model.Project{ID: 3, Name: "Old", Status: model.ProjectActive, DueDate: date(t, "2025-03-01")}
		updated := &model.Project{ID: 3, Name: "Old", Status: model.ProjectCompleted, DueDate: current.DueDate}

		f.projects.EXPECT().FindByID(gomock.Any(), int64(3)).Return(current, nil)
		f.projects.EXPECT().
			Update(gomock.Any(), int64(3), map[string]interface{}{"status": model.ProjectCompleted}).
			Return(updated, nil)
		f.expectCounts(3, 0, 0)

		detail, err := f.svc.UpdateProject(ctx, service.UpdateProjectInput{
			ProjectID: 3,
			Status:    domain.Some("COMPLETED"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Old", detail.Project.Name)
		assert.Equal(t, model.ProjectCompleted, detail.Project.Status)
		assert.NotNil(t, detail.Project.DueDate)
	})

	t.Run("explicit null clears the due date", func(t *testing.T) {
		f := newFixture(t)
		current := &model.Project{ID: 3, Name: "Old", DueDate: date(t, "2025-03-01")}

		f.projects.EXPECT().FindByID(gomock.Any(), int64(3)).Return(current, nil)
		f.projects.EXPECT().
			Update(gomock.Any(), int64(3), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, changes map[string]interface{}) (*model.Project, error) {
				v, ok := changes["due_date"]
				assert.True(t, ok)
				assert.Nil(t, v)
				assert.Len(t, changes, 1)
				return &model.Project{ID: 3, Name: "Old"}, nil
			})
		f.expectCounts(3, 0, 0)

		detail, err := f.svc.UpdateProject(ctx, service.UpdateProjectInput{
			ProjectID: 3,
			DueDate:   domain.Some[*datatypes.Date](nil),
		})
		require.NoError(t, err)
		assert.Nil(t, detail.Project.DueDate)
	})

	t.Run("no fields is a read", func(t *testing.T) {
		f := newFixture(t)
		current := &model.Project{ID: 3, Name: "Old"}

		f.projects.EXPECT().FindByID(gomock.Any(), int64(3)).Return(current, nil)
		f.expectCounts(3, 1, 0)

		detail, err := f.svc.UpdateProject(ctx, service.UpdateProjectInput{ProjectID: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(1), detail.TaskCount)
	})

	t.Run("invalid status is rejected before lookup", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UpdateProject(ctx, service.UpdateProjectInput{
			ProjectID: 3,
			Status:    domain.Some("ARCHIVED"),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown project", func(t *testing.T) {
		f := newFixture(t)
		f.projects.EXPECT().FindByID(gomock.Any(), int64(99)).Return(nil, domain.ErrProjectNotFound)

		_, err := f.svc.UpdateProject(ctx, service.UpdateProjectInput{
			ProjectID: 99,
			Name:      domain.Some("New"),
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()
	project := &model.Project{ID: 5, Name: "Launch"}

	t.Run("notifies the assignee", func(t *testing.T) {
		f := newFixture(t)

		f.projects.EXPECT().FindByID(gomock.Any(), int64(5)).Return(project, nil)
		f.tasks.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, task *model.Task) error {
				assert.Equal(t, model.TaskTodo, task.Status)
				task.ID = 21
				return nil
			})
		f.notifier.EXPECT().
			TaskAssigned(gomock.Any(), project, gomock.Any()).
			Return(errors.New("sendgrid down"))

		task, err := f.svc.CreateTask(ctx, service.CreateTaskInput{
			ProjectID:     5,
			Title:         "Ship",
			AssigneeEmail: "dev@acme.test",
		})
		require.NoError(t, err, "notification failures must not fail the mutation")
		assert.Equal(t, int64(21), task.ID)
		assert.Equal(t, model.TaskTodo, task.Status)
		f.svc.Wait()
	})

	t.Run("unassigned task sends nothing", func(t *testing.T) {
		f := newFixture(t)

		f.projects.EXPECT().FindByID(gomock.Any(), int64(5)).Return(project, nil)
		f.tasks.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.CreateTask(ctx, service.CreateTaskInput{ProjectID: 5, Title: "Ship"})
		require.NoError(t, err)
	})

	t.Run("bad assignee email", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateTask(ctx, service.CreateTaskInput{
			ProjectID:     5,
			Title:         "Ship",
			AssigneeEmail: "not-an-email",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "assigneeEmail")
	})

	t.Run("unknown project", func(t *testing.T) {
		f := newFixture(t)
		f.projects.EXPECT().FindByID(gomock.Any(), int64(404)).Return(nil, domain.ErrProjectNotFound)

		_, err := f.svc.CreateTask(ctx, service.CreateTaskInput{ProjectID: 404, Title: "Ship"})
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})
}

func TestUpdateTaskStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("any transition is allowed", func(t *testing.T) {
		f := newFixture(t)
		task := &model.Task{ID: 8, Status: model.TaskDone}

		f.tasks.EXPECT().FindByID(gomock.Any(), int64(8)).Return(task, nil)
		f.tasks.EXPECT().
			UpdateStatus(gomock.Any(), task, model.TaskTodo).
			DoAndReturn(func(_ context.Context, task *model.Task, status model.TaskStatus) error {
				task.Status = status
				return nil
			})

		updated, err := f.svc.UpdateTaskStatus(ctx, 8, "TODO")
		require.NoError(t, err)
		assert.Equal(t, model.TaskTodo, updated.Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UpdateTaskStatus(ctx, 8, "BLOCKED")
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("unknown task", func(t *testing.T) {
		f := newFixture(t)
		f.tasks.EXPECT().FindByID(gomock.Any(), int64(8)).Return(nil, domain.ErrTaskNotFound)

		_, err := f.svc.UpdateTaskStatus(ctx, 8, "DONE")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	task := &model.Task{ID: 4, Title: "Ship", AssigneeEmail: "dev@acme.test"}

	t.Run("notifies the assignee", func(t *testing.T) {
		f := newFixture(t)

		f.tasks.EXPECT().FindByID(gomock.Any(), int64(4)).Return(task, nil)
		f.comments.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		f.notifier.EXPECT().CommentAdded(gomock.Any(), task, gomock.Any()).Return(nil)

		comment, err := f.svc.AddComment(ctx, service.AddCommentInput{
			TaskID:      4,
			Content:     "Looks good",
			AuthorEmail: "pm@acme.test",
		})
		require.NoError(t, err)
		assert.Equal(t, "pm@acme.test", comment.AuthorEmail)
		assert.Equal(t, int64(4), comment.TaskID)
		f.svc.Wait()
	})

	t.Run("assignee commenting on their own task", func(t *testing.T) {
		f := newFixture(t)

		f.tasks.EXPECT().FindByID(gomock.Any(), int64(4)).Return(task, nil)
		f.comments.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.AddComment(ctx, service.AddCommentInput{
			TaskID:      4,
			Content:     "Done",
			AuthorEmail: "DEV@acme.test",
		})
		require.NoError(t, err)
	})

	t.Run("missing caller", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.AddComment(ctx, service.AddCommentInput{TaskID: 4, Content: "hi"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("empty content", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.AddComment(ctx, service.AddCommentInput{
			TaskID:      4,
			Content:     "  ",
			AuthorEmail: "pm@acme.test",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestCreateOrganization(t *testing.T) {
	ctx := context.Background()

	t.Run("slug taken", func(t *testing.T) {
		f := newFixture(t)
		f.orgs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.ErrSlugTaken)

		_, err := f.svc.CreateOrganization(ctx, service.CreateOrganizationInput{
			Name:         "Acme",
			Slug:         "acme",
			ContactEmail: "ops@acme.test",
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("invalid slug", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateOrganization(ctx, service.CreateOrganizationInput{
			Name:         "Acme",
			Slug:         "acme corp!",
			ContactEmail: "ops@acme.test",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "slug")
	})
}

type blockingNotifier struct {
	release chan struct{}
	calls   chan string
}

func (n *blockingNotifier) wait(ctx context.Context, kind string) error {
	select {
	case <-n.release:
	case <-ctx.Done():
		n.calls <- kind + ":" + ctx.Err().Error()
		return ctx.Err()
	}
	n.calls <- kind
	return nil
}

func (n *blockingNotifier) TaskAssigned(ctx context.Context, _ *model.Project, _ *model.Task) error {
	return n.wait(ctx, "task_assigned")
}

func (n *blockingNotifier) CommentAdded(ctx context.Context, _ *model.Task, _ *model.TaskComment) error {
	return n.wait(ctx, "comment_added")
}

func TestSlowNotifierDoesNotBlockMutations(t *testing.T) {
	f := newFixture(t)
	notifier := &blockingNotifier{release: make(chan struct{}), calls: make(chan string, 2)}
	svc := service.NewTrackerService(f.orgs, f.projects, f.tasks, f.comments, nil, notifier, nil)

	project := &model.Project{ID: 5, Name: "Launch"}
	task := &model.Task{ID: 4, Title: "Ship", AssigneeEmail: "dev@acme.test"}
	f.projects.EXPECT().FindByID(gomock.Any(), int64(5)).Return(project, nil)
	f.tasks.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.tasks.EXPECT().FindByID(gomock.Any(), int64(4)).Return(task, nil)
	f.comments.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	// Cancelled like a finished request; delivery must outlive it.
	ctx, cancel := context.WithCancel(context.Background())

	start := time.Now()
	_, err := svc.CreateTask(ctx, service.CreateTaskInput{
		ProjectID:     5,
		Title:         "Ship",
		AssigneeEmail: "dev@acme.test",
	})
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, service.AddCommentInput{
		TaskID:      4,
		Content:     "Looks good",
		AuthorEmail: "pm@acme.test",
	})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	cancel()

	close(notifier.release)
	svc.Wait()

	close(notifier.calls)
	var kinds []string
	for kind := range notifier.calls {
		kinds = append(kinds, kind)
	}
	assert.ElementsMatch(t, []string{"task_assigned", "comment_added"}, kinds)
}

func TestNotificationTimeout(t *testing.T) {
	f := newFixture(t)
	notifier := &blockingNotifier{release: make(chan struct{}), calls: make(chan string, 1)}
	svc := service.NewTrackerService(f.orgs, f.projects, f.tasks, f.comments, nil, notifier, nil)
	svc.SetNotifyTimeout(20 * time.Millisecond)

	project := &model.Project{ID: 5, Name: "Launch"}
	f.projects.EXPECT().FindByID(gomock.Any(), int64(5)).Return(project, nil)
	f.tasks.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.CreateTask(context.Background(), service.CreateTaskInput{
		ProjectID:     5,
		Title:         "Ship",
		AssigneeEmail: "dev@acme.test",
	})
	require.NoError(t, err)

	svc.Wait()
	assert.Equal(t, "task_assigned:"+context.DeadlineExceeded.Error(), <-notifier.calls)
}
