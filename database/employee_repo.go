package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskbridge-app/taskbridge/backend/models"
)

// EmployeeRepo reads the employee directory. Employees are owned by the
// identity system; nothing here writes them.
type EmployeeRepo struct {
	db *gorm.DB
}

func NewEmployeeRepo(db *gorm.DB) *EmployeeRepo {
	return &EmployeeRepo{db}
}

// FindAll returns every employee
func (r *EmployeeRepo) FindAll(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).Find(&employees).Error
	return employees, err
}

// FindByID returns an employee by id, or nil when no row exists
func (r *EmployeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindAdmins returns every employee holding the ADMIN role
func (r *EmployeeRepo) FindAdmins(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).Where("role = ?", models.RoleAdmin).Find(&employees).Error
	return employees, err
}
