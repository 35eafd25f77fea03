package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/taskbridge-app/taskbridge/backend/models"
)

func TestAggregateAttachesMembersAndSubtasks(t *testing.T) {
	store := newFakeTaskStore()
	projectID := uuid.New()
	memberA, memberB := uuid.New(), uuid.New()

	task := models.ProjectTask{ID: uuid.New(), ProjectID: projectID, TaskName: "build", AssignerID: uuid.New()}
	store.tasks[task.ID] = task
	store.members = []models.TaskMember{
		{ID: uuid.New(), TaskID: task.ID, EmployeeID: memberA},
		{ID: uuid.New(), TaskID: task.ID, EmployeeID: memberB},
	}
	subtask := models.Subtask{ID: uuid.New(), TaskID: task.ID, Title: "wire it"}
	store.subtasks[subtask.ID] = subtask
	store.subtaskMembers = []models.SubtaskMember{
		{ID: uuid.New(), SubtaskID: subtask.ID, EmployeeID: memberA},
	}

	agg := NewTaskAggregator(store)
	enriched, err := agg.AggregateForProjects(context.Background(), []uuid.UUID{projectID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enriched) != 1 {
		t.Fatalf("expected 1 task, got %d", len(enriched))
	}
	got := enriched[0]
	if len(got.MemberIDs) != 2 {
		t.Errorf("expected 2 member ids, got %d", len(got.MemberIDs))
	}
	if len(got.Subtasks) != 1 {
		t.Fatalf("expected 1 subtask, got %d", len(got.Subtasks))
	}
	if len(got.Subtasks[0].AssignedTo) != 1 || got.Subtasks[0].AssignedTo[0] != memberA.String() {
		t.Errorf("subtask assignees = %v, want [%s]", got.Subtasks[0].AssignedTo, memberA)
	}
}

func TestAggregateQueryCountIsConstant(t *testing.T) {
	store := newFakeTaskStore()
	projectID := uuid.New()

	// 5 tasks, each with members and 3 subtasks carrying members
	for i := 0; i < 5; i++ {
		task := models.ProjectTask{ID: uuid.New(), ProjectID: projectID, TaskName: "t", AssignerID: uuid.New()}
		store.tasks[task.ID] = task
		store.members = append(store.members, models.TaskMember{ID: uuid.New(), TaskID: task.ID, EmployeeID: uuid.New()})
		for j := 0; j < 3; j++ {
			sub := models.Subtask{ID: uuid.New(), TaskID: task.ID, Title: "s"}
			store.subtasks[sub.ID] = sub
			store.subtaskMembers = append(store.subtaskMembers, models.SubtaskMember{
				ID: uuid.New(), SubtaskID: sub.ID, EmployeeID: uuid.New(),
			})
		}
	}

	agg := NewTaskAggregator(store)
	if _, err := agg.AggregateForProjects(context.Background(), []uuid.UUID{projectID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// tasks + members + subtasks + subtask members, regardless of row counts
	if store.queryCount != 4 {
		t.Errorf("aggregation issued %d queries, want exactly 4", store.queryCount)
	}
}

func TestAggregateLegacyAssigneeFallback(t *testing.T) {
	store := newFakeTaskStore()
	projectID := uuid.New()
	task := models.ProjectTask{ID: uuid.New(), ProjectID: projectID, TaskName: "t", AssignerID: uuid.New()}
	store.tasks[task.ID] = task

	legacy := models.Subtask{ID: uuid.New(), TaskID: task.ID, Title: "legacy", AssignedTo: "Dana Okafor"}
	mapped := models.Subtask{ID: uuid.New(), TaskID: task.ID, Title: "mapped", AssignedTo: "stale value"}
	bare := models.Subtask{ID: uuid.New(), TaskID: task.ID, Title: "nobody"}
	store.subtasks[legacy.ID] = legacy
	store.subtasks[mapped.ID] = mapped
	store.subtasks[bare.ID] = bare

	mappedEmployee := uuid.New()
	store.subtaskMembers = []models.SubtaskMember{
		{ID: uuid.New(), SubtaskID: mapped.ID, EmployeeID: mappedEmployee},
	}

	agg := NewTaskAggregator(store)
	enriched, err := agg.AggregateForProjects(context.Background(), []uuid.UUID{projectID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byTitle := make(map[string][]string)
	for _, sub := range enriched[0].Subtasks {
		byTitle[sub.Title] = sub.AssignedTo
	}

	if got := byTitle["legacy"]; len(got) != 1 || got[0] != "Dana Okafor" {
		t.Errorf("legacy column should back-fill when no member rows exist, got %v", got)
	}
	if got := byTitle["mapped"]; len(got) != 1 || got[0] != mappedEmployee.String() {
		t.Errorf("member rows must win over the legacy column, got %v", got)
	}
	if got := byTitle["nobody"]; len(got) != 0 {
		t.Errorf("no members and empty legacy column should mean no assignees, got %v", got)
	}
}

func TestAggregateEmptyInputs(t *testing.T) {
	store := newFakeTaskStore()
	agg := NewTaskAggregator(store)

	enriched, err := agg.AggregateForProjects(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enriched) != 0 {
		t.Errorf("no project ids should mean no tasks, got %d", len(enriched))
	}
	if store.queryCount != 0 {
		t.Errorf("no project ids should mean no queries, got %d", store.queryCount)
	}

	enriched, err = agg.AggregateForProjects(context.Background(), []uuid.UUID{uuid.New()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enriched) != 0 {
		t.Errorf("project without tasks should aggregate to empty, got %d", len(enriched))
	}
}
