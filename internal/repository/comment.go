// internal/repository/comment.go
package repository

import (
	"context"
	"fmt"

	"github.com/dangerclosesec/tracker/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepositoryIface interface {
	Create(ctx context.Context, comment *model.TaskComment) error
	FindByTask(ctx context.Context, taskID int64) ([]*model.TaskComment, error)
}

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.TaskComment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return fmt.Errorf("creating comment: %w", err)
	}
	return nil
}

// FindByTask returns the comments on a task in the order they were written
func (r *CommentRepository) FindByTask(ctx context.Context, taskID int64) ([]*model.TaskComment, error) {
	var comments []*model.TaskComment
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at, id").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("finding task comments: %w", err)
	}
	return comments, nil
}
