package services

import (
	"github.com/google/uuid"

	"github.com/taskbridge-app/taskbridge/backend/models"
)

// Identity is the resolved requester: role plus the employee record facts the
// engine needs. Credential validation happens upstream; by the time an
// Identity reaches a service it is trusted. EmployeeID is uuid.Nil when the
// token did not resolve to an employee record.
type Identity struct {
	Role       string
	EmployeeID uuid.UUID
	EmpCode    string
	Department string
	Name       string
	Email      string
}

// IsAdmin reports whether the requester holds the ADMIN role.
func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// HasEmployee reports whether the identity resolved to an employee record.
func (i Identity) HasEmployee() bool {
	return i.EmployeeID != uuid.Nil
}
