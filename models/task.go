package models

import "github.com/google/uuid"

// Task priorities.
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// ProjectTask is a unit of work inside a project, optionally attached to a
// key-step. AssignerID is required; the API layer defaults it to the
// requester's employee id when the payload omits it.
type ProjectTask struct {
	ID         uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID  uuid.UUID  `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_project_task_project_id"`
	KeyStepID  *uuid.UUID `json:"key_step_id,omitempty" db:"key_step_id" gorm:"type:uuid;index:idx_project_task_key_step_id"`
	TaskName   string     `json:"task_name" db:"task_name" gorm:"type:text;not null"`
	Status     string     `json:"status" db:"status" gorm:"type:text;not null;default:'pending'"`
	Priority   string     `json:"priority" db:"priority" gorm:"type:text;not null;default:'medium'"`
	StartDate  string     `json:"start_date,omitempty" db:"start_date" gorm:"type:date"`
	EndDate    string     `json:"end_date,omitempty" db:"end_date" gorm:"type:date"`
	AssignerID uuid.UUID  `json:"assigner_id" db:"assigner_id" gorm:"type:uuid;not null"`
}

// TaskMember is the task<->employee many-to-many join. The full row set for a
// task is replaced wholesale on every task update.
type TaskMember struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	TaskID     uuid.UUID `json:"task_id" db:"task_id" gorm:"type:uuid;not null;index:idx_task_member_task_id"`
	EmployeeID uuid.UUID `json:"employee_id" db:"employee_id" gorm:"type:uuid;not null;index:idx_task_member_employee_id"`
}

// ValidTaskPriority reports whether p is one of the known priorities.
func ValidTaskPriority(p string) bool {
	return p == TaskPriorityLow || p == TaskPriorityMedium || p == TaskPriorityHigh
}
