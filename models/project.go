package models

import "github.com/google/uuid"

// Project statuses as stored in the status column.
const (
	ProjectStatusNotStarted = "Not Started"
	ProjectStatusInProgress = "In Progress"
	ProjectStatusOnHold     = "On Hold"
	ProjectStatusCompleted  = "Completed"
)

// Project represents a tracked project. Departments, team members and vendors
// live in their own join tables and are hydrated at read time.
type Project struct {
	ID                  uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectCode         string     `json:"project_code" db:"project_code" gorm:"type:text"`
	Title               string     `json:"title" db:"title" gorm:"type:text;not null"`
	Description         string     `json:"description" db:"description" gorm:"type:text"`
	Client              string     `json:"client" db:"client" gorm:"type:text"`
	Status              string     `json:"status" db:"status" gorm:"type:text;not null;default:'Not Started'"`
	Progress            int        `json:"progress" db:"progress" gorm:"not null;default:0"`
	StartDate           string     `json:"start_date" db:"start_date" gorm:"type:date"`
	EndDate             string     `json:"end_date" db:"end_date" gorm:"type:date"`
	CreatedByEmployeeID *uuid.UUID `json:"created_by_employee_id,omitempty" db:"created_by_employee_id" gorm:"type:uuid"`

	Departments []ProjectDepartment `json:"departments,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Team        []ProjectTeamMember `json:"team,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Vendors     []ProjectVendor     `json:"vendors,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// ProjectDepartment tags a project with a department name. Names are stored
// as entered; comparisons normalize both sides (see services.NormalizeDepartment).
type ProjectDepartment struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_project_department_project_id"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null"`
}

// ProjectTeamMember is the project<->employee many-to-many join.
type ProjectTeamMember struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID  uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_project_team_project_id"`
	EmployeeID uuid.UUID `json:"employee_id" db:"employee_id" gorm:"type:uuid;not null;index:idx_project_team_employee_id"`
}

// ProjectVendor is an external vendor attached to a project.
type ProjectVendor struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_project_vendor_project_id"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null"`
}
