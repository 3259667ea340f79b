package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ActivityLog records a single mutation performed through the API
type ActivityLog struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Action     string    `json:"action" gorm:"type:varchar(50);not null"`
	EntityType string    `json:"entity_type" gorm:"type:varchar(50);not null;index:idx_activity_logs_entity"`
	EntityID   int64     `json:"entity_id" gorm:"not null;index:idx_activity_logs_entity"`
	ActorEmail string    `json:"actor_email" gorm:"type:varchar(254);not null;default:''"`
	Changes    JSONMap   `json:"changes" gorm:"type:jsonb"`
	RequestID  string    `json:"request_id" gorm:"not null;default:''"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for ActivityLog
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// JSONMap represents a generic map stored as JSONB in the database
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface for JSONMap
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for JSONMap
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(JSONMap)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion failed: failed to decode JSONB")
	}

	return json.Unmarshal(bytes, m)
}

// Activity actions
const (
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionStatusChange = "status_change"
	ActionDelete       = "delete"
)

// Activity entity types
const (
	EntityOrganization = "organization"
	EntityProject      = "project"
	EntityTask         = "task"
	EntityComment      = "comment"
)
