// internal/model/project.go
package model

import (
	"time"

	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectOnHold    ProjectStatus = "ON_HOLD"
)

// ProjectStatuses lists every accepted project status.
var ProjectStatuses = []ProjectStatus{ProjectActive, ProjectCompleted, ProjectOnHold}

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

type Project struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	OrganizationID int64           `gorm:"not null;index"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Description    string          `gorm:"type:text;not null;default:''"`
	Status         ProjectStatus   `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	DueDate        *datatypes.Date `gorm:"type:date"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;<-:create"`
	UpdatedAt      time.Time

	Tasks []Task `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// ProjectDetail is a project together with its computed task counters.
// Tasks is nil unless the caller asked for them.
type ProjectDetail struct {
	Project            *Project
	TaskCount          int64
	CompletedTaskCount int64
	Tasks              []*Task
}
