package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dangerclosesec/tracker/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityLogRepositoryIface interface {
	Create(ctx context.Context, log *model.ActivityLog) error
	Query(ctx context.Context, params QueryParams) ([]model.ActivityLog, int64, error)
}

// ActivityLogRepository handles database operations for activity logs
type ActivityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new ActivityLogRepository
func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{
		db: db,
	}
}

// Create inserts a new activity log entry
func (r *ActivityLogRepository) Create(ctx context.Context, log *model.ActivityLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	result := r.db.WithContext(ctx).Create(log)
	if result.Error != nil {
		return fmt.Errorf("failed to create activity log: %w", result.Error)
	}

	return nil
}

// QueryParams holds parameters for querying activity logs
type QueryParams struct {
	Action     string
	EntityType string
	EntityID   int64
	ActorEmail string
	StartTime  time.Time
	EndTime    time.Time
	Limit      int
	Offset     int
}

// DefaultQueryLimit is applied when QueryParams.Limit is not positive.
const DefaultQueryLimit = 100

// Query retrieves activity logs matching params, newest first, along with
// the total number of matches before pagination.
func (r *ActivityLogRepository) Query(ctx context.Context, params QueryParams) ([]model.ActivityLog, int64, error) {
	var logs []model.ActivityLog
	var count int64

	query := r.db.WithContext(ctx).Model(&model.ActivityLog{})

	if params.Action != "" {
		query = query.Where("action = ?", params.Action)
	}
	if params.EntityType != "" {
		query = query.Where("entity_type = ?", params.EntityType)
	}
	if params.EntityID != 0 {
		query = query.Where("entity_id = ?", params.EntityID)
	}
	if params.ActorEmail != "" {
		query = query.Where("actor_email = ?", params.ActorEmail)
	}
	if !params.StartTime.IsZero() {
		query = query.Where("created_at >= ?", params.StartTime)
	}
	if !params.EndTime.IsZero() {
		query = query.Where("created_at <= ?", params.EndTime)
	}

	// Get total count for pagination
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count activity logs: %w", err)
	}

	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	} else {
		query = query.Limit(DefaultQueryLimit)
	}

	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	result := query.Order("created_at DESC").Find(&logs)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to query activity logs: %w", result.Error)
	}

	return logs, count, nil
}
