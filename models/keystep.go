package models

import "github.com/google/uuid"

// Key-step statuses.
const (
	KeyStepStatusPending    = "pending"
	KeyStepStatusInProgress = "in-progress"
	KeyStepStatusCompleted  = "completed"
)

// KeyStep is a project milestone. A key-step with a nil ParentKeyStepID is a
// root; one with a parent is a sub-milestone. The tree is two levels deep by
// construction: the service layer only ever creates children under roots, and
// cascade operations (delete, clone) descend exactly one level.
type KeyStep struct {
	ID              uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID       uuid.UUID  `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_key_step_project_id"`
	ParentKeyStepID *uuid.UUID `json:"parent_key_step_id,omitempty" db:"parent_key_step_id" gorm:"type:uuid;index:idx_key_step_parent_id"`
	Header          string     `json:"header" db:"header" gorm:"type:text"`
	Title           string     `json:"title" db:"title" gorm:"type:text;not null"`
	Description     string     `json:"description" db:"description" gorm:"type:text"`
	Requirements    string     `json:"requirements" db:"requirements" gorm:"type:text"`
	Phase           int        `json:"phase" db:"phase" gorm:"not null;default:1"`
	Status          string     `json:"status" db:"status" gorm:"type:text;not null;default:'pending'"`
	StartDate       string     `json:"start_date" db:"start_date" gorm:"type:date"`
	EndDate         string     `json:"end_date" db:"end_date" gorm:"type:date"`
}

// IsRoot reports whether the key-step is a top-level milestone.
func (k KeyStep) IsRoot() bool {
	return k.ParentKeyStepID == nil
}

// ValidKeyStepStatus reports whether s is one of the known key-step statuses.
func ValidKeyStepStatus(s string) bool {
	return s == KeyStepStatusPending || s == KeyStepStatusInProgress || s == KeyStepStatusCompleted
}
