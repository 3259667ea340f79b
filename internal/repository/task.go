// internal/repository/task.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dangerclosesec/tracker/internal/domain"
	"github.com/dangerclosesec/tracker/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskRepositoryIface interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id int64) (*model.Task, error)
	FindByProject(ctx context.Context, projectID int64) ([]*model.Task, error)
	UpdateStatus(ctx context.Context, task *model.Task, status model.TaskStatus) error
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error; err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("finding task: %w", err)
	}
	return &task, nil
}

// FindByProject returns the tasks of a project, oldest first
func (r *TaskRepository) FindByProject(ctx context.Context, projectID int64) ([]*model.Task, error) {
	var tasks []*model.Task
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at, id").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("finding project tasks: %w", err)
	}
	return tasks, nil
}

// UpdateStatus sets the status column only and reflects it on task.
func (r *TaskRepository) UpdateStatus(ctx context.Context, task *model.Task, status model.TaskStatus) error {
	result := r.db.WithContext(ctx).Model(task).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("updating task status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	task.Status = status
	return nil
}
