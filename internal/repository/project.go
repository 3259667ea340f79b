// internal/repository/project.go
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

type ProjectRepositoryIface interface {
	Create(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	FindByOrganization(ctx context.Context, orgID int64) ([]*model.Project, error)
	Update(ctx context.Context, id int64, changes map[string]interface{}) (*model.Project, error)
	CountTasks(ctx context.Context, projectID int64, status *model.TaskStatus) (int64, error)
}

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error; err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("finding project: %w", err)
	}
	return &project, nil
}

// FindByOrganization returns the projects owned by an organization, oldest first
func (r *ProjectRepository) FindByOrganization(ctx context.Context, orgID int64) ([]*model.Project, error) {
	var projects []*model.Project
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at, id").
		Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("finding organization projects: %w", err)
	}
	return projects, nil
}

// Update writes only the columns present in changes and returns the
// refreshed row, both inside one transaction. An empty change set is a plain
// lookup.
func (r *ProjectRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(changes) > 0 {
			result := tx.Model(&model.Project{}).Where("id = ?", id).Updates(changes)
			if result.Error != nil {
				return fmt.Errorf("updating project: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return domain.ErrProjectNotFound
			}
		}

		if err := tx.First(&project, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProjectNotFound
			}
			return fmt.Errorf("reloading project: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// CountTasks counts the tasks of a project, optionally only those in status.
func (r *ProjectRepository) CountTasks(ctx context.Context, projectID int64, status *model.TaskStatus) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Task{}).Where("project_id = ?", projectID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting project tasks: %w", err)
	}
	return count, nil
}
