package service

import (
	"context"

	"github.com/dangerclosesec/tracker/internal/auth"
	"github.com/dangerclosesec/tracker/internal/model"
	"github.com/dangerclosesec/tracker/internal/repository"
	"github.com/go-chi/chi/v5/middleware"
)

// ActivityService records and queries the mutation history
type ActivityService struct {
	repo repository.ActivityLogRepositoryIface
}

// NewActivityService creates a new ActivityService
func NewActivityService(repo repository.ActivityLogRepositoryIface) *ActivityService {
	return &ActivityService{
		repo: repo,
	}
}

// Record stores one mutation. The actor and request id come from ctx when present.
func (s *ActivityService) Record(
	ctx context.Context,
	action string,
	entityType string,
	entityID int64,
	changes map[string]interface{},
) error {
	log := &model.ActivityLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    model.JSONMap(changes),
		RequestID:  middleware.GetReqID(ctx),
	}

	if actor, ok := auth.CallerFromContext(ctx); ok {
		log.ActorEmail = actor
	}

	return s.repo.Create(ctx, log)
}

// Query retrieves activity based on query parameters
func (s *ActivityService) Query(
	ctx context.Context,
	params repository.QueryParams,
) ([]model.ActivityLog, int64, error) {
	return s.repo.Query(ctx, params)
}
