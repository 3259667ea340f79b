// internal/service/tracker.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dangerclosesec/tracker/internal/domain"
	"github.com/dangerclosesec/tracker/internal/model"
	"github.com/dangerclosesec/tracker/internal/repository"
	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

// TrackerService is the query/mutation facade over organizations, projects,
// tasks and comments.
type TrackerService struct {
	orgRepo     repository.OrganizationRepositoryIface
	projectRepo repository.ProjectRepositoryIface
	taskRepo    repository.TaskRepositoryIface
	commentRepo repository.CommentRepositoryIface
	activity    *ActivityService
	notifier    Notifier
	logger      *slog.Logger
	validate    *validator.Validate

	notifyTimeout time.Duration
	pending       sync.WaitGroup
}

// DefaultNotifyTimeout bounds a single notification delivery.
const DefaultNotifyTimeout = 15 * time.Second

// NewTrackerService wires the facade. activity and notifier may be nil.
func NewTrackerService(
	orgRepo repository.OrganizationRepositoryIface,
	projectRepo repository.ProjectRepositoryIface,
	taskRepo repository.TaskRepositoryIface,
	commentRepo repository.CommentRepositoryIface,
	activity *ActivityService,
	notifier Notifier,
	logger *slog.Logger,
) *TrackerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackerService{
		orgRepo:     orgRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		activity:    activity,
		notifier:    notifier,
		logger:      logger,
		validate:    newValidator(),

		notifyTimeout: DefaultNotifyTimeout,
	}
}

// SetNotifyTimeout overrides DefaultNotifyTimeout. Call before serving.
func (s *TrackerService) SetNotifyTimeout(d time.Duration) {
	s.notifyTimeout = d
}

// Wait blocks until in-flight notifications have finished.
func (s *TrackerService) Wait() {
	s.pending.Wait()
}

// notify runs send in the background on a context that survives the request
// but is bounded by notifyTimeout. Failures are logged.
func (s *TrackerService) notify(ctx context.Context, kind string, taskID int64, send func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()

		if err := send(ctx); err != nil {
			s.logger.WarnContext(ctx, "notification failed", "kind", kind, "task_id", taskID, "error", err)
		}
	}()
}

// GetOrganization looks an organization up by slug. Projects are not loaded.
func (s *TrackerService) GetOrganization(ctx context.Context, slug string) (*model.Organization, error) {
	org, err := s.orgRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("finding organization: %w", err)
	}
	return org, nil
}

// ListOrganizationProjects navigates organization.projects, with counters.
func (s *TrackerService) ListOrganizationProjects(ctx context.Context, slug string) ([]*model.ProjectDetail, error) {
	org, err := s.orgRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("finding organization: %w", err)
	}

	projects, err := s.projectRepo.FindByOrganization(ctx, org.ID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	details := make([]*model.ProjectDetail, 0, len(projects))
	for _, project := range projects {
		detail, err := s.projectDetail(ctx, project)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// GetProject returns a project with taskCount and completedTaskCount.
func (s *TrackerService) GetProject(ctx context.Context, id int64) (*model.ProjectDetail, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding project: %w", err)
	}
	return s.projectDetail(ctx, project)
}

// ProjectInclude selects the children GetProjectTree loads. Comments implies Tasks.
type ProjectInclude struct {
	Tasks    bool
	Comments bool
}

// GetProjectTree loads a project with its counters and, on request, its tasks
// and their comments in one call.
func (s *TrackerService) GetProjectTree(ctx context.Context, id int64, include ProjectInclude) (*model.ProjectDetail, error) {
	detail, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !include.Tasks && !include.Comments {
		return detail, nil
	}

	tasks, err := s.taskRepo.FindByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*model.Task{}
	}

	if include.Comments {
		for _, task := range tasks {
			comments, err := s.commentRepo.FindByTask(ctx, task.ID)
			if err != nil {
				return nil, fmt.Errorf("listing comments of task %d: %w", task.ID, err)
			}
			task.Comments = make([]model.TaskComment, 0, len(comments))
			for _, c := range comments {
				task.Comments = append(task.Comments, *c)
			}
		}
	}

	detail.Tasks = tasks
	return detail, nil
}

// projectDetail computes the counters from the task rows on every call.
func (s *TrackerService) projectDetail(ctx context.Context, project *model.Project) (*model.ProjectDetail, error) {
	total, err := s.projectRepo.CountTasks(ctx, project.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("counting tasks: %w", err)
	}

	done := model.TaskDone
	completed, err := s.projectRepo.CountTasks(ctx, project.ID, &done)
	if err != nil {
		return nil, fmt.Errorf("counting completed tasks: %w", err)
	}

	return &model.ProjectDetail{
		Project:            project,
		TaskCount:          total,
		CompletedTaskCount: completed,
	}, nil
}

type CreateProjectInput struct {
	OrgSlug     string          `json:"orgSlug" validate:"required"`
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description"`
	DueDate     *datatypes.Date `json:"dueDate"`
}

// CreateProject adds an ACTIVE project to the organization named by slug.
func (s *TrackerService) CreateProject(ctx context.Context, input CreateProjectInput) (*model.ProjectDetail, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindBySlug(ctx, input.OrgSlug)
	if err != nil {
		return nil, fmt.Errorf("finding organization: %w", err)
	}

	project := &model.Project{
		OrganizationID: org.ID,
		Name:           input.Name,
		Description:    input.Description,
		Status:         model.ProjectActive,
		DueDate:        input.DueDate,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.record(ctx, model.ActionCreate, model.EntityProject, project.ID, map[string]interface{}{
		"organization": org.Slug,
		"name":         project.Name,
		"status":       project.Status,
		"dueDate":      formatDate(project.DueDate),
	})

	// A project that was just inserted has no tasks yet.
	return &model.ProjectDetail{Project: project}, nil
}

// UpdateProjectInput carries the fields of a partial update. Only fields with
// Set are written; DueDate set to nil clears the due date.
type UpdateProjectInput struct {
	ProjectID int64
	Name      domain.Optional[string]
	Status    domain.Optional[string]
	DueDate   domain.Optional[*datatypes.Date]
}

// UpdateProject applies the supplied fields and leaves the rest untouched.
func (s *TrackerService) UpdateProject(ctx context.Context, input UpdateProjectInput) (*model.ProjectDetail, error) {
	changes := make(map[string]interface{})
	logged := make(map[string]interface{})

	if name, ok := input.Name.Get(); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		if utf8.RuneCountInString(name) > 200 {
			return nil, fmt.Errorf("%w: name must be at most 200 characters", domain.ErrInvalidInput)
		}
		changes["name"] = name
		logged["name"] = name
	}

	if raw, ok := input.Status.Get(); ok {
		status, err := parseProjectStatus(raw)
		if err != nil {
			return nil, err
		}
		changes["status"] = status
		logged["status"] = status
	}

	if due, ok := input.DueDate.Get(); ok {
		if due == nil {
			changes["due_date"] = nil
		} else {
			changes["due_date"] = *due
		}
		logged["dueDate"] = formatDate(due)
	}

	project, err := s.projectRepo.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("finding project: %w", err)
	}

	if len(changes) > 0 {
		project, err = s.projectRepo.Update(ctx, project.ID, changes)
		if err != nil {
			return nil, fmt.Errorf("updating project: %w", err)
		}
		s.record(ctx, model.ActionUpdate, model.EntityProject, project.ID, logged)
	}

	return s.projectDetail(ctx, project)
}

// ListProjectTasks navigates project.tasks.
func (s *TrackerService) ListProjectTasks(ctx context.Context, projectID int64) ([]*model.Task, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("finding project: %w", err)
	}

	tasks, err := s.taskRepo.FindByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

type CreateTaskInput struct {
	ProjectID     int64  `json:"projectId" validate:"required"`
	Title         string `json:"title" validate:"required,max=200"`
	AssigneeEmail string `json:"assigneeEmail" validate:"omitempty,email,max=254"`
}

// CreateTask adds a TODO task to a project.
func (s *TrackerService) CreateTask(ctx context.Context, input CreateTaskInput) (*model.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.AssigneeEmail = strings.TrimSpace(input.AssigneeEmail)
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("finding project: %w", err)
	}

	task := &model.Task{
		ProjectID:     project.ID,
		Title:         input.Title,
		Status:        model.TaskTodo,
		AssigneeEmail: input.AssigneeEmail,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.record(ctx, model.ActionCreate, model.EntityTask, task.ID, map[string]interface{}{
		"projectId":     project.ID,
		"title":         task.Title,
		"assigneeEmail": task.AssigneeEmail,
	})

	if task.AssigneeEmail != "" && s.notifier != nil {
		p, t := *project, *task
		s.notify(ctx, "task_assigned", t.ID, func(ctx context.Context) error {
			return s.notifier.TaskAssigned(ctx, &p, &t)
		})
	}

	return task, nil
}

// UpdateTaskStatus moves a task to any status; transitions are unrestricted.
func (s *TrackerService) UpdateTaskStatus(ctx context.Context, taskID int64, status string) (*model.Task, error) {
	next, err := parseTaskStatus(status)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("finding task: %w", err)
	}

	previous := task.Status
	if err := s.taskRepo.UpdateStatus(ctx, task, next); err != nil {
		return nil, fmt.Errorf("updating task status: %w", err)
	}

	s.record(ctx, model.ActionStatusChange, model.EntityTask, task.ID, map[string]interface{}{
		"from": previous,
		"to":   next,
	})

	return task, nil
}

type AddCommentInput struct {
	TaskID      int64  `json:"taskId" validate:"required"`
	Content     string `json:"content" validate:"required"`
	AuthorEmail string `json:"authorEmail" validate:"required,email,max=254"`
}

// AddComment attaches a comment written by the authenticated caller.
func (s *TrackerService) AddComment(ctx context.Context, input AddCommentInput) (*model.TaskComment, error) {
	input.AuthorEmail = strings.TrimSpace(input.AuthorEmail)
	if input.AuthorEmail == "" {
		return nil, domain.ErrMissingCaller
	}
	if strings.TrimSpace(input.Content) == "" {
		input.Content = ""
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(ctx, input.TaskID)
	if err != nil {
		return nil, fmt.Errorf("finding task: %w", err)
	}

	comment := &model.TaskComment{
		TaskID:      task.ID,
		Content:     input.Content,
		AuthorEmail: input.AuthorEmail,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.record(ctx, model.ActionCreate, model.EntityComment, comment.ID, map[string]interface{}{
		"taskId":      task.ID,
		"authorEmail": comment.AuthorEmail,
	})

	if s.notifier != nil && task.AssigneeEmail != "" && !strings.EqualFold(task.AssigneeEmail, comment.AuthorEmail) {
		t, c := *task, *comment
		s.notify(ctx, "comment_added", t.ID, func(ctx context.Context) error {
			return s.notifier.CommentAdded(ctx, &t, &c)
		})
	}

	return comment, nil
}

// ListTaskComments navigates task.comments, oldest first.
func (s *TrackerService) ListTaskComments(ctx context.Context, taskID int64) ([]*model.TaskComment, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("finding task: %w", err)
	}

	comments, err := s.commentRepo.FindByTask(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	return comments, nil
}

// record writes the activity entry. A failure here never fails the mutation.
func (s *TrackerService) record(ctx context.Context, action, entityType string, entityID int64, changes map[string]interface{}) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, action, entityType, entityID, changes); err != nil {
		s.logger.ErrorContext(ctx, "recording activity failed",
			"action", action,
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
	}
}

func formatDate(d *datatypes.Date) interface{} {
	if d == nil {
		return nil
	}
	return time.Time(*d).Format(time.DateOnly)
}
