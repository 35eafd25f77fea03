package models

import "github.com/google/uuid"

// Subtask is a child item of a task. Member assignment is many-to-many via
// SubtaskMember; AssignedTo is a legacy single-value field kept for rows that
// predate the join table, and acts only as a display fallback when the join
// mapping is empty.
type Subtask struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	TaskID      uuid.UUID `json:"task_id" db:"task_id" gorm:"type:uuid;not null;index:idx_subtask_task_id"`
	Title       string    `json:"title" db:"title" gorm:"type:text;not null"`
	Description string    `json:"description,omitempty" db:"description" gorm:"type:text"`
	IsCompleted bool      `json:"is_completed" db:"is_completed" gorm:"not null;default:false"`
	AssignedTo  string    `json:"assigned_to,omitempty" db:"assigned_to" gorm:"type:text"`
	StartDate   string    `json:"start_date,omitempty" db:"start_date" gorm:"type:date"`
	EndDate     string    `json:"end_date,omitempty" db:"end_date" gorm:"type:date"`
}

// SubtaskMember is the subtask<->employee many-to-many join.
type SubtaskMember struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	SubtaskID  uuid.UUID `json:"subtask_id" db:"subtask_id" gorm:"type:uuid;not null;index:idx_subtask_member_subtask_id"`
	EmployeeID uuid.UUID `json:"employee_id" db:"employee_id" gorm:"type:uuid;not null;index:idx_subtask_member_employee_id"`
}
