package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/taskbridge-app/taskbridge/backend/models"
)

func completedEvent(project models.Project, oldStatus string) ProjectStatusChanged {
	return ProjectStatusChanged{
		Project:   project,
		OldStatus: oldStatus,
		NewStatus: models.ProjectStatusCompleted,
		Requester: Identity{Name: "Priya"},
	}
}

func TestNotifierSendsToEveryAdmin(t *testing.T) {
	adminA := models.Employee{ID: uuid.New(), Name: "A", Email: "a@corp.test", Role: models.RoleAdmin}
	adminB := models.Employee{ID: uuid.New(), Name: "B", Email: "b@corp.test", Role: models.RoleAdmin}
	regular := models.Employee{ID: uuid.New(), Name: "C", Email: "c@corp.test"}
	directory := newFakeEmployeeDirectory(adminA, adminB, regular)

	sink := newFakeSink()
	notifier := NewCompletionNotifier(directory, &fakeVisibilityFacts{}, newFakeTaskStore(), sink)

	project := models.Project{ID: uuid.New(), Title: "Big Launch", ProjectCode: "P-100"}
	notifier.HandleProjectStatusChanged(context.Background(), completedEvent(project, models.ProjectStatusInProgress))

	sent := sink.sentTo()
	if len(sent) != 2 || sent[0] != "a@corp.test" || sent[1] != "b@corp.test" {
		t.Fatalf("expected both admins and only admins, got %v", sent)
	}
	if sink.sent[0].TemplateKind != TemplateProjectCompleted {
		t.Errorf("template = %q, want %q", sink.sent[0].TemplateKind, TemplateProjectCompleted)
	}
}

func TestNotifierIgnoresNonCompletionTransitions(t *testing.T) {
	admin := models.Employee{ID: uuid.New(), Name: "A", Email: "a@corp.test", Role: models.RoleAdmin}
	sink := newFakeSink()
	notifier := NewCompletionNotifier(newFakeEmployeeDirectory(admin), &fakeVisibilityFacts{}, newFakeTaskStore(), sink)

	project := models.Project{ID: uuid.New(), Title: "x"}

	// already completed: restating the status is not a transition
	notifier.HandleProjectStatusChanged(context.Background(), completedEvent(project, models.ProjectStatusCompleted))

	// moving away from completed
	notifier.HandleProjectStatusChanged(context.Background(), ProjectStatusChanged{
		Project:   project,
		OldStatus: models.ProjectStatusCompleted,
		NewStatus: models.ProjectStatusInProgress,
	})

	if len(sink.sentTo()) != 0 {
		t.Fatalf("no notification expected, got %v", sink.sentTo())
	}
}

func TestNotifierDeduplicatesRecipientEmails(t *testing.T) {
	shared := "ops@corp.test"
	adminA := models.Employee{ID: uuid.New(), Name: "A", Email: shared, Role: models.RoleAdmin}
	adminB := models.Employee{ID: uuid.New(), Name: "B", Email: shared, Role: models.RoleAdmin}
	sink := newFakeSink()
	notifier := NewCompletionNotifier(newFakeEmployeeDirectory(adminA, adminB), &fakeVisibilityFacts{}, newFakeTaskStore(), sink)

	notifier.HandleProjectStatusChanged(context.Background(), completedEvent(models.Project{ID: uuid.New()}, models.ProjectStatusOnHold))

	if got := sink.sentTo(); len(got) != 1 {
		t.Fatalf("shared email should receive exactly one notification, got %v", got)
	}
}

func TestNotifierAssignerChain(t *testing.T) {
	creator := models.Employee{ID: uuid.New(), Name: "Creator", Email: "", Role: ""}
	taskAssigner := models.Employee{ID: uuid.New(), Name: "Task Assigner"}
	admin := models.Employee{ID: uuid.New(), Name: "Admin", Email: "a@corp.test", Role: models.RoleAdmin}

	t.Run("creator wins", func(t *testing.T) {
		sink := newFakeSink()
		notifier := NewCompletionNotifier(newFakeEmployeeDirectory(creator, taskAssigner, admin), &fakeVisibilityFacts{}, newFakeTaskStore(), sink)

		creatorID := creator.ID
		project := models.Project{ID: uuid.New(), CreatedByEmployeeID: &creatorID}
		notifier.HandleProjectStatusChanged(context.Background(), completedEvent(project, models.ProjectStatusInProgress))

		if sink.sent[0].Payload.AssignerName != "Creator" {
			t.Errorf("assigner = %q, want creator", sink.sent[0].Payload.AssignerName)
		}
	})

	t.Run("task assigner when creator unknown", func(t *testing.T) {
		sink := newFakeSink()
		tasks := newFakeTaskStore()
		project := models.Project{ID: uuid.New()}
		task := models.ProjectTask{ID: uuid.New(), ProjectID: project.ID, TaskName: "t", AssignerID: taskAssigner.ID}
		tasks.tasks[task.ID] = task

		notifier := NewCompletionNotifier(newFakeEmployeeDirectory(taskAssigner, admin), &fakeVisibilityFacts{}, tasks, sink)
		notifier.HandleProjectStatusChanged(context.Background(), completedEvent(project, models.ProjectStatusInProgress))

		if sink.sent[0].Payload.AssignerName != "Task Assigner" {
			t.Errorf("assigner = %q, want task assigner", sink.sent[0].Payload.AssignerName)
		}
	})

	t.Run("requester name as third resort", func(t *testing.T) {
		sink := newFakeSink()
		notifier := NewCompletionNotifier(newFakeEmployeeDirectory(admin), &fakeVisibilityFacts{}, newFakeTaskStore(), sink)

		notifier.HandleProjectStatusChanged(context.Background(), completedEvent(models.Project{ID: uuid.New()}, models.ProjectStatusInProgress))

		if sink.sent[0].Payload.AssignerName != "Priya" {
			t.Errorf("assigner = %q, want requester name", sink.sent[0].Payload.AssignerName)
		}
	})

	t.Run("placeholder as last resort", func(t *testing.T) {
		sink := newFakeSink()
		notifier := NewCompletionNotifier(newFakeEmployeeDirectory(admin), &fakeVisibilityFacts{}, newFakeTaskStore(), sink)

		notifier.HandleProjectStatusChanged(context.Background(), ProjectStatusChanged{
			Project:   models.Project{ID: uuid.New()},
			OldStatus: models.ProjectStatusInProgress,
			NewStatus: models.ProjectStatusCompleted,
		})

		if sink.sent[0].Payload.AssignerName != "System Administrator" {
			t.Errorf("assigner = %q, want placeholder", sink.sent[0].Payload.AssignerName)
		}
	})
}

func TestNotifierAssigneeChain(t *testing.T) {
	teamMember := models.Employee{ID: uuid.New(), Name: "Teammate", EmpCode: "E0042"}
	taskMember := models.Employee{ID: uuid.New(), Name: "Task Member", EmpCode: "E0077"}
	admin := models.Employee{ID: uuid.New(), Name: "Admin", Email: "a@corp.test", Role: models.RoleAdmin}

	t.Run("team member wins", func(t *testing.T) {
		project := models.Project{ID: uuid.New()}
		facts := &fakeVisibilityFacts{
			team: []models.ProjectTeamMember{
				{ID: uuid.New(), ProjectID: project.ID, EmployeeID: teamMember.ID},
			},
		}
		sink := newFakeSink()
		notifier := NewCompletionNotifier(newFakeEmployeeDirectory(teamMember, taskMember, admin), facts, newFakeTaskStore(), sink)
		notifier.HandleProjectStatusChanged(context.Background(), completedEvent(project, models.ProjectStatusInProgress))

		payload := sink.sent[0].Payload
		if payload.AssigneeName != "Teammate" || payload.AssigneeCode != "E0042" {
			t.Errorf("assignee = %q/%q, want team member", payload.AssigneeName, payload.AssigneeCode)
		}
	})

	t.Run("task member when team empty", func(t *testing.T) {
		project := models.Project{ID: uuid.New()}
		tasks := newFakeTaskStore()
		task := models.ProjectTask{ID: uuid.New(), ProjectID: project.ID, TaskName: "t", AssignerID: uuid.New()}
		tasks.tasks[task.ID] = task
		tasks.members = []models.TaskMember{{ID: uuid.New(), TaskID: task.ID, EmployeeID: taskMember.ID}}

		sink := newFakeSink()
		notifier := NewCompletionNotifier(newFakeEmployeeDirectory(taskMember, admin), &fakeVisibilityFacts{}, tasks, sink)
		notifier.HandleProjectStatusChanged(context.Background(), completedEvent(project, models.ProjectStatusInProgress))

		payload := sink.sent[0].Payload
		if payload.AssigneeName != "Task Member" || payload.AssigneeCode != "E0077" {
			t.Errorf("assignee = %q/%q, want task member", payload.AssigneeName, payload.AssigneeCode)
		}
	})

	t.Run("placeholders when nobody resolves", func(t *testing.T) {
		sink := newFakeSink()
		notifier := NewCompletionNotifier(newFakeEmployeeDirectory(admin), &fakeVisibilityFacts{}, newFakeTaskStore(), sink)
		notifier.HandleProjectStatusChanged(context.Background(), completedEvent(models.Project{ID: uuid.New()}, models.ProjectStatusInProgress))

		payload := sink.sent[0].Payload
		if payload.AssigneeName != "Team Member" || payload.AssigneeCode != "N/A" {
			t.Errorf("assignee = %q/%q, want placeholders", payload.AssigneeName, payload.AssigneeCode)
		}
	})
}

func TestNotifierOneFailureDoesNotBlockOthers(t *testing.T) {
	adminA := models.Employee{ID: uuid.New(), Name: "A", Email: "a@corp.test", Role: models.RoleAdmin}
	adminB := models.Employee{ID: uuid.New(), Name: "B", Email: "b@corp.test", Role: models.RoleAdmin}
	adminC := models.Employee{ID: uuid.New(), Name: "C", Email: "c@corp.test", Role: models.RoleAdmin}

	sink := newFakeSink()
	sink.failEmails["b@corp.test"] = errors.New("mailbox full")

	notifier := NewCompletionNotifier(newFakeEmployeeDirectory(adminA, adminB, adminC), &fakeVisibilityFacts{}, newFakeTaskStore(), sink)
	notifier.HandleProjectStatusChanged(context.Background(), completedEvent(models.Project{ID: uuid.New()}, models.ProjectStatusInProgress))

	sent := sink.sentTo()
	if len(sent) != 2 || sent[0] != "a@corp.test" || sent[1] != "c@corp.test" {
		t.Fatalf("expected the two healthy recipients to receive mail, got %v", sent)
	}
}

func TestNotifierPayloadCarriesProjectFields(t *testing.T) {
	admin := models.Employee{ID: uuid.New(), Name: "A", Email: "a@corp.test", Role: models.RoleAdmin}
	sink := newFakeSink()
	notifier := NewCompletionNotifier(newFakeEmployeeDirectory(admin), &fakeVisibilityFacts{}, newFakeTaskStore(), sink)

	project := models.Project{
		ID:          uuid.New(),
		Title:       "Big Launch",
		ProjectCode: "P-100",
		Client:      "Acme",
		StartDate:   "2026-01-01",
		EndDate:     "2026-06-30",
		Progress:    100,
	}
	notifier.HandleProjectStatusChanged(context.Background(), completedEvent(project, models.ProjectStatusInProgress))

	payload := sink.sent[0].Payload
	if payload.ProjectTitle != "Big Launch" || payload.ProjectCode != "P-100" || payload.Client != "Acme" {
		t.Errorf("payload missing project fields: %+v", payload)
	}
	if payload.Progress != 100 || payload.StartDate != "2026-01-01" || payload.EndDate != "2026-06-30" {
		t.Errorf("payload missing schedule fields: %+v", payload)
	}
}
