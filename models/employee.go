package models

import "github.com/google/uuid"

// Employee roles. Anything other than ADMIN is an ordinary user.
const (
	RoleAdmin = "ADMIN"
)

// Employee is owned by the identity system; this service only reads it.
type Employee struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	EmpCode    string    `json:"emp_code" db:"emp_code" gorm:"type:text;not null;uniqueIndex:idx_employee_emp_code"`
	Name       string    `json:"name" db:"name" gorm:"type:text;not null"`
	Department string    `json:"department" db:"department" gorm:"type:text"`
	Email      string    `json:"email,omitempty" db:"email" gorm:"type:text"`
	Role       string    `json:"role" db:"role" gorm:"type:text;not null;default:'EMPLOYEE'"`
}
