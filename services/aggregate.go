package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/taskbridge-app/taskbridge/backend/errs"
	"github.com/taskbridge-app/taskbridge/backend/models"
)

// EnrichedSubtask is a subtask with its effective assignee list attached.
// AssignedTo comes from the subtask-member join; only when that mapping is
// empty does the legacy single-value column stand in, wrapped as a
// one-element list.
type EnrichedSubtask struct {
	models.Subtask
	AssignedTo []string `json:"assigned_to_list"`
}

// EnrichedTask is a task with its member assignments and subtasks attached.
type EnrichedTask struct {
	models.ProjectTask
	MemberIDs []uuid.UUID       `json:"member_ids"`
	Subtasks  []EnrichedSubtask `json:"subtasks"`
}

// TaskAggregator materializes enriched tasks without per-row fan-out. For T
// tasks with S subtasks it issues a constant number of queries: one for the
// tasks, one for all member rows, one for all subtask rows, and one for all
// subtask-member rows — never one per task or per subtask. The member and
// subtask fetches depend only on the task id set and run concurrently; the
// subtask-member fetch waits for the subtask id list.
type TaskAggregator struct {
	store  TaskStore
	logger zerolog.Logger
}

func NewTaskAggregator(store TaskStore) *TaskAggregator {
	return &TaskAggregator{
		store:  store,
		logger: log.With().Str("service", "taskAggregator").Logger(),
	}
}

// AggregateForProjects returns enriched tasks for the given project ids, in
// stored task order. Passing one id is the single-project view; passing the
// requester's full visible set is the bulk view.
func (a *TaskAggregator) AggregateForProjects(ctx context.Context, projectIDs []uuid.UUID) ([]EnrichedTask, error) {
	if len(projectIDs) == 0 {
		return []EnrichedTask{}, nil
	}

	tasks, err := a.store.FindByProjectIDs(ctx, projectIDs)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tasks", err)
	}
	if len(tasks) == 0 {
		return []EnrichedTask{}, nil
	}

	taskIDs := make([]uuid.UUID, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}

	var (
		members  []models.TaskMember
		subtasks []models.Subtask
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = a.store.MembersByTaskIDs(gctx, taskIDs)
		return err
	})
	g.Go(func() error {
		var err error
		subtasks, err = a.store.SubtasksByTaskIDs(gctx, taskIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errs.NewDatabaseError("find associations of", "tasks", err)
	}

	var subtaskMembers []models.SubtaskMember
	if len(subtasks) > 0 {
		subtaskIDs := make([]uuid.UUID, 0, len(subtasks))
		for _, sub := range subtasks {
			subtaskIDs = append(subtaskIDs, sub.ID)
		}
		subtaskMembers, err = a.store.SubtaskMembersBySubtaskIDs(ctx, subtaskIDs)
		if err != nil {
			return nil, errs.NewDatabaseError("find members of", "subtasks", err)
		}
	}

	membersByTask := make(map[uuid.UUID][]uuid.UUID, len(tasks))
	for _, m := range members {
		membersByTask[m.TaskID] = append(membersByTask[m.TaskID], m.EmployeeID)
	}
	assigneesBySubtask := make(map[uuid.UUID][]string, len(subtasks))
	for _, sm := range subtaskMembers {
		assigneesBySubtask[sm.SubtaskID] = append(assigneesBySubtask[sm.SubtaskID], sm.EmployeeID.String())
	}
	subtasksByTask := make(map[uuid.UUID][]EnrichedSubtask, len(tasks))
	for _, sub := range subtasks {
		assigned := assigneesBySubtask[sub.ID]
		if len(assigned) == 0 && sub.AssignedTo != "" {
			assigned = []string{sub.AssignedTo}
		}
		subtasksByTask[sub.TaskID] = append(subtasksByTask[sub.TaskID], EnrichedSubtask{
			Subtask:    sub,
			AssignedTo: assigned,
		})
	}

	enriched := make([]EnrichedTask, 0, len(tasks))
	for _, t := range tasks {
		enriched = append(enriched, EnrichedTask{
			ProjectTask: t,
			MemberIDs:   membersByTask[t.ID],
			Subtasks:    subtasksByTask[t.ID],
		})
	}

	a.logger.Debug().
		Int("tasks", len(tasks)).
		Int("subtasks", len(subtasks)).
		Msg("aggregated tasks")
	return enriched, nil
}
