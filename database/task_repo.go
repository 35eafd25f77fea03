package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskbridge-app/taskbridge/backend/models"
)

type TaskRepo struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) *TaskRepo {
	return &TaskRepo{db}
}

// FindByID returns a task by id, or nil when no row exists
func (r *TaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ProjectTask, error) {
	var task models.ProjectTask
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByProjectIDs bulk-fetches tasks for a set of projects in one query.
func (r *TaskRepo) FindByProjectIDs(ctx context.Context, projectIDs []uuid.UUID) ([]models.ProjectTask, error) {
	var tasks []models.ProjectTask
	err := r.db.WithContext(ctx).Where("project_id IN ?", projectIDs).Find(&tasks).Error
	return tasks, err
}

// MembersByTaskIDs bulk-fetches member rows for a set of tasks in one query.
func (r *TaskRepo) MembersByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) ([]models.TaskMember, error) {
	var members []models.TaskMember
	err := r.db.WithContext(ctx).Where("task_id IN ?", taskIDs).Find(&members).Error
	return members, err
}

// SubtasksByTaskIDs bulk-fetches subtasks for a set of tasks in one query.
func (r *TaskRepo) SubtasksByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) ([]models.Subtask, error) {
	var subtasks []models.Subtask
	err := r.db.WithContext(ctx).Where("task_id IN ?", taskIDs).Find(&subtasks).Error
	return subtasks, err
}

// SubtaskMembersBySubtaskIDs bulk-fetches subtask member rows in one query.
func (r *TaskRepo) SubtaskMembersBySubtaskIDs(ctx context.Context, subtaskIDs []uuid.UUID) ([]models.SubtaskMember, error) {
	var members []models.SubtaskMember
	err := r.db.WithContext(ctx).Where("subtask_id IN ?", subtaskIDs).Find(&members).Error
	return members, err
}

// InsertTaskGraph writes the task and all of its join rows in one
// transaction.
func (r *TaskRepo) InsertTaskGraph(ctx context.Context, task *models.ProjectTask, members []models.TaskMember, subtasks []models.Subtask, subtaskMembers []models.SubtaskMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		return insertGraphRows(tx, members, subtasks, subtaskMembers)
	})
}

// ReplaceTaskGraph updates the task row and fully replaces its member,
// subtask, and subtask-member rows: delete everything, insert the incoming
// set. The task row is locked for the transaction so two overlapping updates
// serialize instead of interleaving their delete and insert halves.
func (r *TaskRepo) ReplaceTaskGraph(ctx context.Context, task *models.ProjectTask, members []models.TaskMember, subtasks []models.Subtask, subtaskMembers []models.SubtaskMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.ProjectTask
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "id = ?", task.ID).Error; err != nil {
			return err
		}

		if err := deleteGraphRows(tx, task.ID); err != nil {
			return err
		}
		if err := tx.Save(task).Error; err != nil {
			return err
		}
		return insertGraphRows(tx, members, subtasks, subtaskMembers)
	})
}

// DeleteTaskGraph removes the task and all of its join rows in one
// transaction.
func (r *TaskRepo) DeleteTaskGraph(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteGraphRows(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.ProjectTask{}, "id = ?", id).Error
	})
}

// FindSubtaskByID returns a subtask by id, or nil when no row exists
func (r *TaskRepo) FindSubtaskByID(ctx context.Context, id uuid.UUID) (*models.Subtask, error) {
	var subtask models.Subtask
	err := r.db.WithContext(ctx).First(&subtask, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subtask, nil
}

// UpdateSubtask saves all fields of an existing subtask
func (r *TaskRepo) UpdateSubtask(ctx context.Context, subtask *models.Subtask) error {
	return r.db.WithContext(ctx).Save(subtask).Error
}

func insertGraphRows(tx *gorm.DB, members []models.TaskMember, subtasks []models.Subtask, subtaskMembers []models.SubtaskMember) error {
	if len(members) > 0 {
		if err := tx.Create(&members).Error; err != nil {
			return err
		}
	}
	if len(subtasks) > 0 {
		if err := tx.Create(&subtasks).Error; err != nil {
			return err
		}
	}
	if len(subtaskMembers) > 0 {
		if err := tx.Create(&subtaskMembers).Error; err != nil {
			return err
		}
	}
	return nil
}

func deleteGraphRows(tx *gorm.DB, taskID uuid.UUID) error {
	if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskMember{}).Error; err != nil {
		return err
	}

	var subtaskIDs []uuid.UUID
	if err := tx.Model(&models.Subtask{}).
		Where("task_id = ?", taskID).
		Pluck("id", &subtaskIDs).Error; err != nil {
		return err
	}
	if len(subtaskIDs) > 0 {
		if err := tx.Where("subtask_id IN ?", subtaskIDs).Delete(&models.SubtaskMember{}).Error; err != nil {
			return err
		}
	}
	return tx.Where("task_id = ?", taskID).Delete(&models.Subtask{}).Error
}
