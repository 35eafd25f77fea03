package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskbridge-app/taskbridge/backend/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns all projects with their department/team/vendor rows hydrated
func (r *ProjectRepo) FindAll(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Preload("Departments").
		Preload("Team").
		Preload("Vendors").
		Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID, or nil when no row exists
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Departments").
		Preload("Team").
		Preload("Vendors").
		First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Insert creates the project row together with its join rows
func (r *ProjectRepo) Insert(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Save updates the project row and fully replaces its join rows in one
// transaction.
func (r *ProjectRepo) Save(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(project).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectDepartment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectTeamMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectVendor{}).Error; err != nil {
			return err
		}
		if len(project.Departments) > 0 {
			if err := tx.Create(&project.Departments).Error; err != nil {
				return err
			}
		}
		if len(project.Team) > 0 {
			if err := tx.Create(&project.Team).Error; err != nil {
				return err
			}
		}
		if len(project.Vendors) > 0 {
			if err := tx.Create(&project.Vendors).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the project and its join rows. Key-steps and tasks are not
// part of this cascade.
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectDepartment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTeamMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectVendor{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, "id = ?", id).Error
	})
}

// DepartmentsByProjectIDs bulk-fetches department tags for a set of projects
// in a single query.
func (r *ProjectRepo) DepartmentsByProjectIDs(ctx context.Context, projectIDs []uuid.UUID) ([]models.ProjectDepartment, error) {
	var rows []models.ProjectDepartment
	err := r.db.WithContext(ctx).Where("project_id IN ?", projectIDs).Find(&rows).Error
	return rows, err
}

// TeamByProjectIDs bulk-fetches team membership rows for a set of projects
// in a single query.
func (r *ProjectRepo) TeamByProjectIDs(ctx context.Context, projectIDs []uuid.UUID) ([]models.ProjectTeamMember, error) {
	var rows []models.ProjectTeamMember
	err := r.db.WithContext(ctx).Where("project_id IN ?", projectIDs).Find(&rows).Error
	return rows, err
}
