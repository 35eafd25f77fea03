package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskbridge-app/taskbridge/backend/models"
)

type KeyStepRepo struct {
	db *gorm.DB
}

func NewKeyStepRepo(db *gorm.DB) *KeyStepRepo {
	return &KeyStepRepo{db}
}

// FindByID returns a key-step by id, or nil when no row exists
func (r *KeyStepRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.KeyStep, error) {
	var step models.KeyStep
	err := r.db.WithContext(ctx).First(&step, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &step, nil
}

// FindChildren returns the direct sub-milestones of a key-step, ordered by
// phase. The lookup is keyed purely on parent_key_step_id.
func (r *KeyStepRepo) FindChildren(ctx context.Context, parentID uuid.UUID) ([]models.KeyStep, error) {
	var children []models.KeyStep
	err := r.db.WithContext(ctx).
		Where("parent_key_step_id = ?", parentID).
		Order("phase ASC").
		Find(&children).Error
	return children, err
}

// FindByProjectID returns every key-step of a project, roots and children
// alike, ordered by phase.
func (r *KeyStepRepo) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]models.KeyStep, error) {
	var steps []models.KeyStep
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("phase ASC").
		Find(&steps).Error
	return steps, err
}

// Insert writes the given key-steps in a single transaction.
func (r *KeyStepRepo) Insert(ctx context.Context, steps ...*models.KeyStep) error {
	if len(steps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, step := range steps {
			if err := tx.Create(step).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// InsertChildWithNextPhase assigns step.Phase = max(phase) over siblings
// sharing (project_id, parent_key_step_id), plus one, then inserts. The
// sibling scan and the insert run inside one transaction holding an advisory
// lock on the sibling group, so two concurrent creations under the same
// parent cannot compute the same phase. A plain SELECT MAX cannot take a row
// lock when the group is empty, hence the advisory lock.
func (r *KeyStepRepo) InsertChildWithNextPhase(ctx context.Context, step *models.KeyStep) error {
	if step.ParentKeyStepID == nil {
		return errors.New("key step has no parent")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lockKey := step.ProjectID.String() + ":" + step.ParentKeyStepID.String()
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", lockKey).Error; err != nil {
			return err
		}

		var maxPhase int
		err := tx.Model(&models.KeyStep{}).
			Where("project_id = ? AND parent_key_step_id = ?", step.ProjectID, *step.ParentKeyStepID).
			Select("COALESCE(MAX(phase), 0)").
			Scan(&maxPhase).Error
		if err != nil {
			return err
		}

		step.Phase = maxPhase + 1
		return tx.Create(step).Error
	})
}

// Update saves all fields of an existing key-step
func (r *KeyStepRepo) Update(ctx context.Context, step *models.KeyStep) error {
	return r.db.WithContext(ctx).Save(step).Error
}

// DeleteWithChildren removes every key-step whose parent is the target, then
// the target itself, in one transaction. The tree is two levels deep, so one
// cascade level covers everything below the target.
func (r *KeyStepRepo) DeleteWithChildren(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_key_step_id = ?", id).Delete(&models.KeyStep{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.KeyStep{}, "id = ?", id).Error
	})
}
