// internal/email/mailer/notifications.go
package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/dangerclosesec/tracker/internal/email"
	"github.com/dangerclosesec/tracker/internal/model"
)

// TaskAssignedTemplateData contains data for the task_assigned template
type TaskAssignedTemplateData struct {
	ProjectName string
	TaskTitle   string
	Link        string
}

// CommentAddedTemplateData contains data for the comment_added template
type CommentAddedTemplateData struct {
	TaskTitle   string
	AuthorEmail string
	Content     string
	Link        string
}

// Notifier emails task assignees about activity on their tasks.
type Notifier struct {
	service *email.Service
	baseURL string
}

func NewNotifier(service *email.Service, baseURL string) *Notifier {
	return &Notifier{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (n *Notifier) projectLink(projectID int64) string {
	return fmt.Sprintf("%s/projects/%d", n.baseURL, projectID)
}

// TaskAssigned tells the assignee about a task created for them
func (n *Notifier) TaskAssigned(ctx context.Context, project *model.Project, task *model.Task) error {
	return n.service.SendEmail(ctx, email.EmailData{
		To:           task.AssigneeEmail,
		Subject:      fmt.Sprintf("[%s] New task: %s", project.Name, task.Title),
		TemplateName: "task_assigned",
		TemplateData: TaskAssignedTemplateData{
			ProjectName: project.Name,
			TaskTitle:   task.Title,
			Link:        n.projectLink(project.ID),
		},
	})
}

// CommentAdded tells the assignee about a new comment on their task
func (n *Notifier) CommentAdded(ctx context.Context, task *model.Task, comment *model.TaskComment) error {
	return n.service.SendEmail(ctx, email.EmailData{
		To:           task.AssigneeEmail,
		Subject:      fmt.Sprintf("New comment on %s", task.Title),
		TemplateName: "comment_added",
		TemplateData: CommentAddedTemplateData{
			TaskTitle:   task.Title,
			AuthorEmail: comment.AuthorEmail,
			Content:     comment.Content,
			Link:        n.projectLink(task.ProjectID),
		},
	})
}
