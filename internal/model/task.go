// internal/model/task.go
package model

import "time"

type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
)

// TaskStatuses lists every accepted task status.
var TaskStatuses = []TaskStatus{TaskTodo, TaskInProgress, TaskDone}

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

type Task struct {
	ID            int64      `gorm:"primaryKey;autoIncrement"`
	ProjectID     int64      `gorm:"not null;index"`
	Title         string     `gorm:"type:varchar(200);not null"`
	Description   string     `gorm:"type:text;not null;default:''"`
	Status        TaskStatus `gorm:"type:varchar(20);not null;default:'TODO'"`
	AssigneeEmail string     `gorm:"type:varchar(254);not null;default:''"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;<-:create"`
	UpdatedAt     time.Time

	Comments []TaskComment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

type TaskComment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	TaskID      int64     `gorm:"not null;index"`
	Content     string    `gorm:"type:text;not null"`
	AuthorEmail string    `gorm:"type:varchar(254);not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;<-:create"`
}
