package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskbridge-app/taskbridge/backend/errs"
	"github.com/taskbridge-app/taskbridge/backend/models"
)

// TaskStore persists tasks and their member/subtask graphs.
//
// InsertTaskGraph and ReplaceTaskGraph write the task row plus every join row
// in a single transaction. ReplaceTaskGraph is an explicit full replace: all
// existing member, subtask, and subtask-member rows for the task are deleted
// and the supplied sets inserted — there is no diffing, so an empty incoming
// set empties the table for that task. The task row is locked for the
// duration so two overlapping updates cannot interleave their
// delete-then-insert halves.
type TaskStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProjectTask, error)
	FindByProjectIDs(ctx context.Context, projectIDs []uuid.UUID) ([]models.ProjectTask, error)
	MembersByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) ([]models.TaskMember, error)
	SubtasksByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) ([]models.Subtask, error)
	SubtaskMembersBySubtaskIDs(ctx context.Context, subtaskIDs []uuid.UUID) ([]models.SubtaskMember, error)
	InsertTaskGraph(ctx context.Context, task *models.ProjectTask, members []models.TaskMember, subtasks []models.Subtask, subtaskMembers []models.SubtaskMember) error
	ReplaceTaskGraph(ctx context.Context, task *models.ProjectTask, members []models.TaskMember, subtasks []models.Subtask, subtaskMembers []models.SubtaskMember) error
	DeleteTaskGraph(ctx context.Context, id uuid.UUID) error
	FindSubtaskByID(ctx context.Context, id uuid.UUID) (*models.Subtask, error)
	UpdateSubtask(ctx context.Context, subtask *models.Subtask) error
}

// SubtaskInput is one desired subtask in a task create/update payload.
// Callers send the complete desired set on every update.
type SubtaskInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	IsCompleted bool        `json:"is_completed"`
	AssignedTo  string      `json:"assigned_to"`
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	MemberIDs   []uuid.UUID `json:"member_ids"`
}

// TaskInput is the full create/update payload for a task.
type TaskInput struct {
	ProjectID  uuid.UUID      `json:"project_id"`
	KeyStepID  *uuid.UUID     `json:"key_step_id"`
	TaskName   string         `json:"task_name"`
	Status     string         `json:"status"`
	Priority   string         `json:"priority"`
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	AssignerID *uuid.UUID     `json:"assigner_id"`
	MemberIDs  []uuid.UUID    `json:"member_ids"`
	Subtasks   []SubtaskInput `json:"subtasks"`
}

// SubtaskPatch is the partial update a subtask supports.
type SubtaskPatch struct {
	IsCompleted *bool   `json:"is_completed"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// TaskService owns task lifecycle: creation with assigner defaulting,
// full-replace updates of the member/subtask graph, deletion, and cloning.
type TaskService struct {
	store  TaskStore
	logger zerolog.Logger
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{
		store:  store,
		logger: log.With().Str("service", "tasks").Logger(),
	}
}

func (in *TaskInput) validate(requester Identity) (*errs.ValidationErrors, string, string) {
	v := errs.NewValidationErrors()
	if in.ProjectID == uuid.Nil {
		v.Add("project_id", "project_id is required")
	}
	if in.TaskName == "" {
		v.Add("task_name", "task_name is required")
	}
	if in.Priority == "" {
		in.Priority = models.TaskPriorityMedium
	} else if !models.ValidTaskPriority(in.Priority) {
		v.Add("priority", "priority must be low, medium, or high")
	}
	if in.Status == "" {
		in.Status = "pending"
	}
	if in.AssignerID == nil || *in.AssignerID == uuid.Nil {
		// the requester created it, so the requester assigned it
		if requester.HasEmployee() {
			id := requester.EmployeeID
			in.AssignerID = &id
		} else {
			v.Add("assigner_id", "assigner_id is required when the requester has no employee record")
		}
	}
	start, err := NormalizeDate(in.StartDate)
	if err != nil {
		v.Add("start_date", err.Error())
	}
	end, err := NormalizeDate(in.EndDate)
	if err != nil {
		v.Add("end_date", err.Error())
	}
	for _, sub := range in.Subtasks {
		if sub.Title == "" {
			v.Add("subtasks", "subtask title is required")
		}
		if _, err := NormalizeDate(sub.StartDate); err != nil {
			v.Add("subtasks", err.Error())
		}
		if _, err := NormalizeDate(sub.EndDate); err != nil {
			v.Add("subtasks", err.Error())
		}
	}
	return v, start, end
}

// buildGraph materializes join rows for a task from its input.
func buildGraph(taskID uuid.UUID, in TaskInput) ([]models.TaskMember, []models.Subtask, []models.SubtaskMember) {
	members := make([]models.TaskMember, 0, len(in.MemberIDs))
	for _, employeeID := range in.MemberIDs {
		members = append(members, models.TaskMember{
			ID:         uuid.New(),
			TaskID:     taskID,
			EmployeeID: employeeID,
		})
	}

	subtasks := make([]models.Subtask, 0, len(in.Subtasks))
	var subtaskMembers []models.SubtaskMember
	for _, sub := range in.Subtasks {
		start, _ := NormalizeDate(sub.StartDate)
		end, _ := NormalizeDate(sub.EndDate)
		row := models.Subtask{
			ID:          uuid.New(),
			TaskID:      taskID,
			Title:       sub.Title,
			Description: sub.Description,
			IsCompleted: sub.IsCompleted,
			AssignedTo:  sub.AssignedTo,
			StartDate:   start,
			EndDate:     end,
		}
		subtasks = append(subtasks, row)
		for _, employeeID := range sub.MemberIDs {
			subtaskMembers = append(subtaskMembers, models.SubtaskMember{
				ID:         uuid.New(),
				SubtaskID:  row.ID,
				EmployeeID: employeeID,
			})
		}
	}

	return members, subtasks, subtaskMembers
}

// Create inserts a task with its member and subtask rows. The assigner
// defaults to the requester's employee id when the payload omits it.
func (s *TaskService) Create(ctx context.Context, in TaskInput, requester Identity) (*models.ProjectTask, error) {
	v, start, end := in.validate(requester)
	if err := v.ErrOrNil(); err != nil {
		return nil, err
	}

	task := &models.ProjectTask{
		ID:         uuid.New(),
		ProjectID:  in.ProjectID,
		KeyStepID:  in.KeyStepID,
		TaskName:   in.TaskName,
		Status:     in.Status,
		Priority:   in.Priority,
		StartDate:  start,
		EndDate:    end,
		AssignerID: *in.AssignerID,
	}
	members, subtasks, subtaskMembers := buildGraph(task.ID, in)

	if err := s.store.InsertTaskGraph(ctx, task, members, subtasks, subtaskMembers); err != nil {
		return nil, errs.NewDatabaseError("create", "task", err)
	}

	s.logger.Info().
		Str("taskID", task.ID.String()).
		Str("projectID", task.ProjectID.String()).
		Int("members", len(members)).
		Int("subtasks", len(subtasks)).
		Msg("created task")
	return task, nil
}

// Update fully replaces the task row and its member/subtask graph. Sending
// an empty member or subtask set deletes every existing row of that kind;
// partial omission is not interpreted as "keep".
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, in TaskInput, requester Identity) (*models.ProjectTask, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "task", err)
	}
	if existing == nil {
		return nil, errs.NewNotFoundError("task not found")
	}

	if in.ProjectID == uuid.Nil {
		in.ProjectID = existing.ProjectID
	}
	v, start, end := in.validate(requester)
	if err := v.ErrOrNil(); err != nil {
		return nil, err
	}

	task := &models.ProjectTask{
		ID:         existing.ID,
		ProjectID:  in.ProjectID,
		KeyStepID:  in.KeyStepID,
		TaskName:   in.TaskName,
		Status:     in.Status,
		Priority:   in.Priority,
		StartDate:  start,
		EndDate:    end,
		AssignerID: *in.AssignerID,
	}
	members, subtasks, subtaskMembers := buildGraph(task.ID, in)

	if err := s.store.ReplaceTaskGraph(ctx, task, members, subtasks, subtaskMembers); err != nil {
		return nil, errs.NewDatabaseError("update", "task", err)
	}
	return task, nil
}

// Delete removes the task and its member/subtask rows atomically.
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return errs.NewDatabaseError("find", "task", err)
	}
	if existing == nil {
		return errs.NewNotFoundError("task not found")
	}
	if err := s.store.DeleteTaskGraph(ctx, id); err != nil {
		return errs.NewDatabaseError("delete", "task", err)
	}
	return nil
}

// Clone copies the task plus its member rows, subtasks, and subtask-member
// rows onto freshly generated ids, optionally overriding the name. Returns
// the new task id.
func (s *TaskService) Clone(ctx context.Context, id uuid.UUID, newName *string) (uuid.UUID, error) {
	source, err := s.store.FindByID(ctx, id)
	if err != nil {
		return uuid.Nil, errs.NewDatabaseError("find", "task", err)
	}
	if source == nil {
		return uuid.Nil, errs.NewNotFoundError("task not found")
	}

	taskIDs := []uuid.UUID{id}
	members, err := s.store.MembersByTaskIDs(ctx, taskIDs)
	if err != nil {
		return uuid.Nil, errs.NewDatabaseError("find members of", "task", err)
	}
	subtasks, err := s.store.SubtasksByTaskIDs(ctx, taskIDs)
	if err != nil {
		return uuid.Nil, errs.NewDatabaseError("find subtasks of", "task", err)
	}
	subtaskIDs := make([]uuid.UUID, 0, len(subtasks))
	for _, sub := range subtasks {
		subtaskIDs = append(subtaskIDs, sub.ID)
	}
	var subtaskMembers []models.SubtaskMember
	if len(subtaskIDs) > 0 {
		subtaskMembers, err = s.store.SubtaskMembersBySubtaskIDs(ctx, subtaskIDs)
		if err != nil {
			return uuid.Nil, errs.NewDatabaseError("find subtask members of", "task", err)
		}
	}

	clone := *source
	clone.ID = uuid.New()
	if newName != nil && *newName != "" {
		clone.TaskName = *newName
	}

	memberCopies := make([]models.TaskMember, 0, len(members))
	for _, m := range members {
		memberCopies = append(memberCopies, models.TaskMember{
			ID:         uuid.New(),
			TaskID:     clone.ID,
			EmployeeID: m.EmployeeID,
		})
	}

	subtaskIDMap := make(map[uuid.UUID]uuid.UUID, len(subtasks))
	subtaskCopies := make([]models.Subtask, 0, len(subtasks))
	for _, sub := range subtasks {
		subCopy := sub
		subCopy.ID = uuid.New()
		subCopy.TaskID = clone.ID
		subtaskIDMap[sub.ID] = subCopy.ID
		subtaskCopies = append(subtaskCopies, subCopy)
	}

	subtaskMemberCopies := make([]models.SubtaskMember, 0, len(subtaskMembers))
	for _, sm := range subtaskMembers {
		newSubtaskID, ok := subtaskIDMap[sm.SubtaskID]
		if !ok {
			continue
		}
		subtaskMemberCopies = append(subtaskMemberCopies, models.SubtaskMember{
			ID:         uuid.New(),
			SubtaskID:  newSubtaskID,
			EmployeeID: sm.EmployeeID,
		})
	}

	if err := s.store.InsertTaskGraph(ctx, &clone, memberCopies, subtaskCopies, subtaskMemberCopies); err != nil {
		return uuid.Nil, errs.NewDatabaseError("clone", "task", err)
	}

	s.logger.Info().
		Str("sourceID", id.String()).
		Str("cloneID", clone.ID.String()).
		Msg("cloned task")
	return clone.ID, nil
}

// PatchSubtask applies the partial update subtasks support: completion flag
// and dates only.
func (s *TaskService) PatchSubtask(ctx context.Context, id uuid.UUID, patch SubtaskPatch) (*models.Subtask, error) {
	subtask, err := s.store.FindSubtaskByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "subtask", err)
	}
	if subtask == nil {
		return nil, errs.NewNotFoundError("subtask not found")
	}

	v := errs.NewValidationErrors()
	if patch.IsCompleted != nil {
		subtask.IsCompleted = *patch.IsCompleted
	}
	if patch.StartDate != nil {
		start, err := NormalizeDate(*patch.StartDate)
		if err != nil {
			v.Add("start_date", err.Error())
		} else {
			subtask.StartDate = start
		}
	}
	if patch.EndDate != nil {
		end, err := NormalizeDate(*patch.EndDate)
		if err != nil {
			v.Add("end_date", err.Error())
		} else {
			subtask.EndDate = end
		}
	}
	if err := v.ErrOrNil(); err != nil {
		return nil, err
	}

	if err := s.store.UpdateSubtask(ctx, subtask); err != nil {
		return nil, errs.NewDatabaseError("update", "subtask", err)
	}
	return subtask, nil
}
