// internal/model/organization.go
package model

import "time"

type Organization struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Slug         string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	ContactEmail string    `gorm:"type:varchar(254);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime;<-:create"`

	Projects []Project `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
}
