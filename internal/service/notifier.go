package service

//go:generate mockgen -source=./notifier.go -destination=../mocks/mock_notifier.go -package=mocks Notifier

import (
	"context"

	"github.com/dangerclosesec/tracker/internal/model"
)

// Notifier tells task assignees about activity on their tasks. Delivery is
// best effort: errors are logged by the caller and never fail a mutation.
type Notifier interface {
	TaskAssigned(ctx context.Context, project *model.Project, task *model.Task) error
	CommentAdded(ctx context.Context, task *model.Task, comment *model.TaskComment) error
}
