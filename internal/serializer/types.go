package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dangerclosesec/tracker/internal/model"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Date is a calendar date rendered as YYYY-MM-DD.
type Date time.Time

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(time.DateOnly))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("date %q must be formatted as YYYY-MM-DD", s)
	}
	*d = Date(t)
	return nil
}

// Model converts the API date into the column type.
func (d *Date) Model() *datatypes.Date {
	if d == nil {
		return nil
	}
	v := datatypes.Date(time.Time(*d))
	return &v
}

func dateFrom(d *datatypes.Date) *Date {
	if d == nil {
		return nil
	}
	v := Date(time.Time(*d))
	return &v
}

type Organization struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ContactEmail string    `json:"contactEmail"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Project references its organization by id. Children are read through the
// nested list routes, or embedded when a project read asks for
// ?include=tasks or ?include=comments; Tasks and Task.Comments are omitted
// otherwise.
type Project struct {
	ID                 int64     `json:"id"`
	OrganizationID     int64     `json:"organizationId"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Status             string    `json:"status"`
	DueDate            *Date     `json:"dueDate"`
	CreatedAt          time.Time `json:"createdAt"`
	TaskCount          int64     `json:"taskCount"`
	CompletedTaskCount int64     `json:"completedTaskCount"`
	Tasks              *[]Task   `json:"tasks,omitempty"`
}

type Task struct {
	ID            int64          `json:"id"`
	ProjectID     int64          `json:"projectId"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Status        string         `json:"status"`
	AssigneeEmail string         `json:"assigneeEmail"`
	CreatedAt     time.Time      `json:"createdAt"`
	Comments      *[]TaskComment `json:"comments,omitempty"`
}

type TaskComment struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"taskId"`
	Content     string    `json:"content"`
	AuthorEmail string    `json:"authorEmail"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Activity struct {
	ID         uuid.UUID      `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   int64          `json:"entityId"`
	ActorEmail string         `json:"actorEmail,omitempty"`
	Changes    map[string]any `json:"changes,omitempty"`
	RequestID  string         `json:"requestId,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func NewOrganization(o *model.Organization) Organization {
	return Organization{
		ID:           o.ID,
		Name:         o.Name,
		Slug:         o.Slug,
		ContactEmail: o.ContactEmail,
		CreatedAt:    o.CreatedAt.UTC(),
	}
}

func NewProject(d *model.ProjectDetail) Project {
	p := d.Project
	out := Project{
		ID:                 p.ID,
		OrganizationID:     p.OrganizationID,
		Name:               p.Name,
		Description:        p.Description,
		Status:             string(p.Status),
		DueDate:            dateFrom(p.DueDate),
		CreatedAt:          p.CreatedAt.UTC(),
		TaskCount:          d.TaskCount,
		CompletedTaskCount: d.CompletedTaskCount,
	}
	if d.Tasks != nil {
		tasks := make([]Task, 0, len(d.Tasks))
		for _, t := range d.Tasks {
			tasks = append(tasks, NewTask(t))
		}
		out.Tasks = &tasks
	}
	return out
}

func NewTask(t *model.Task) Task {
	out := Task{
		ID:            t.ID,
		ProjectID:     t.ProjectID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		AssigneeEmail: t.AssigneeEmail,
		CreatedAt:     t.CreatedAt.UTC(),
	}
	if t.Comments != nil {
		comments := make([]TaskComment, 0, len(t.Comments))
		for i := range t.Comments {
			comments = append(comments, NewTaskComment(&t.Comments[i]))
		}
		out.Comments = &comments
	}
	return out
}

func NewTaskComment(c *model.TaskComment) TaskComment {
	return TaskComment{
		ID:          c.ID,
		TaskID:      c.TaskID,
		Content:     c.Content,
		AuthorEmail: c.AuthorEmail,
		CreatedAt:   c.CreatedAt.UTC(),
	}
}

func NewActivity(l model.ActivityLog) Activity {
	return Activity{
		ID:         l.ID,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		ActorEmail: l.ActorEmail,
		Changes:    l.Changes,
		RequestID:  l.RequestID,
		CreatedAt:  l.CreatedAt.UTC(),
	}
}

func init() {
	register(NewOrganization)
	register(NewProject)
	register(NewTask)
	register(NewTaskComment)
	register(NewActivity)
}
