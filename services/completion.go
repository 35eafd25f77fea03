package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskbridge-app/taskbridge/backend/errs"
	"github.com/taskbridge-app/taskbridge/backend/models"
)

// template kinds understood by notification sinks
const TemplateProjectCompleted = "project-completed"

// placeholders when no assigner/assignee can be resolved
const (
	fallbackAssignerName = "System Administrator"
	fallbackAssigneeName = "Team Member"
	fallbackAssigneeCode = "N/A"
)

// NotificationPayload is the data a completion notification carries.
type NotificationPayload struct {
	ProjectTitle string `json:"project_title"`
	ProjectCode  string `json:"project_code"`
	Client       string `json:"client"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Progress     int    `json:"progress"`
	AssignerName string `json:"assigner_name"`
	AssigneeName string `json:"assignee_name"`
	AssigneeCode string `json:"assignee_code"`
}

// NotificationSink delivers one notification to one recipient. Failures are
// the sink's to report and the notifier's to log; they never reach the write
// path that triggered the notification.
type NotificationSink interface {
	Send(ctx context.Context, toEmail, templateKind string, payload NotificationPayload) error
}

// EmployeeDirectory is the read-only slice of the identity store the
// notifier needs.
type EmployeeDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	FindAdmins(ctx context.Context) ([]models.Employee, error)
}

// CompletionNotifier reacts to a project's transition into "Completed": it
// resolves the most plausible original assigner and a representative
// assignee through ordered fallback chains, then fans a notification out to
// every admin email, best-effort and in parallel.
type CompletionNotifier struct {
	employees EmployeeDirectory
	facts     VisibilityFacts
	tasks     TaskStore
	sink      NotificationSink
	logger    zerolog.Logger
}

func NewCompletionNotifier(employees EmployeeDirectory, facts VisibilityFacts, tasks TaskStore, sink NotificationSink) *CompletionNotifier {
	return &CompletionNotifier{
		employees: employees,
		facts:     facts,
		tasks:     tasks,
		sink:      sink,
		logger:    log.With().Str("service", "completionNotifier").Logger(),
	}
}

// HandleProjectStatusChanged consumes a post-commit status-change event.
// It fires only for transitions into "Completed" from something else; the
// event carries both statuses so the check never trusts an incoming payload.
// Everything here is best-effort: failures are logged, never returned to the
// update that triggered the event.
func (n *CompletionNotifier) HandleProjectStatusChanged(ctx context.Context, event ProjectStatusChanged) {
	if event.NewStatus != models.ProjectStatusCompleted || event.OldStatus == models.ProjectStatusCompleted {
		return
	}

	admins, err := n.employees.FindAdmins(ctx)
	if err != nil {
		n.logger.Error().Err(err).
			Str("projectID", event.Project.ID.String()).
			Msg("could not load admin recipients, completion notification skipped")
		return
	}

	recipients := distinctEmails(admins)
	if len(recipients) == 0 {
		n.logger.Warn().
			Str("projectID", event.Project.ID.String()).
			Msg("no admin emails on file, completion notification skipped")
		return
	}

	projectIDs := []uuid.UUID{event.Project.ID}
	projectTasks, err := n.tasks.FindByProjectIDs(ctx, projectIDs)
	if err != nil {
		n.logger.Warn().Err(err).Msg("could not load project tasks, falling back on requester for assigner")
		projectTasks = nil
	}

	payload := NotificationPayload{
		ProjectTitle: event.Project.Title,
		ProjectCode:  event.Project.ProjectCode,
		Client:       event.Project.Client,
		StartDate:    event.Project.StartDate,
		EndDate:      event.Project.EndDate,
		Progress:     event.Project.Progress,
		AssignerName: n.resolveAssigner(ctx, event, projectTasks),
	}
	payload.AssigneeName, payload.AssigneeCode = n.resolveAssignee(ctx, event.Project.ID, projectTasks)

	var wg sync.WaitGroup
	for _, email := range recipients {
		wg.Add(1)
		go func(toEmail string) {
			defer wg.Done()
			if err := n.sink.Send(ctx, toEmail, TemplateProjectCompleted, payload); err != nil {
				// one failed recipient never blocks or fails the rest
				dispatchErr := errs.NewDispatchError(toEmail, err)
				n.logger.Error().Err(dispatchErr).
					Str("projectID", event.Project.ID.String()).
					Msg("completion notification delivery failed")
			}
		}(email)
	}
	wg.Wait()

	n.logger.Info().
		Str("projectID", event.Project.ID.String()).
		Int("recipients", len(recipients)).
		Msg("completion notification batch dispatched")
}

// resolveAssigner walks the fallback chain for the "original assigner"
// display name: project creator, then any task's assigner, then the
// requester performing the update, then a fixed placeholder.
func (n *CompletionNotifier) resolveAssigner(ctx context.Context, event ProjectStatusChanged, projectTasks []models.ProjectTask) string {
	if event.Project.CreatedByEmployeeID != nil {
		if name := n.employeeName(ctx, *event.Project.CreatedByEmployeeID); name != "" {
			return name
		}
	}
	for _, t := range projectTasks {
		if name := n.employeeName(ctx, t.AssignerID); name != "" {
			return name
		}
	}
	if event.Requester.Name != "" {
		return event.Requester.Name
	}
	return fallbackAssignerName
}

// resolveAssignee walks the fallback chain for a representative assignee:
// first project team member, then first task member, then placeholders.
func (n *CompletionNotifier) resolveAssignee(ctx context.Context, projectID uuid.UUID, projectTasks []models.ProjectTask) (string, string) {
	projectIDs := []uuid.UUID{projectID}

	team, err := n.facts.TeamByProjectIDs(ctx, projectIDs)
	if err != nil {
		n.logger.Warn().Err(err).Msg("could not load project team for assignee resolution")
	}
	for _, member := range team {
		if name, code, ok := n.employeeNameCode(ctx, member.EmployeeID); ok {
			return name, code
		}
	}

	if len(projectTasks) > 0 {
		taskIDs := make([]uuid.UUID, 0, len(projectTasks))
		for _, t := range projectTasks {
			taskIDs = append(taskIDs, t.ID)
		}
		members, err := n.tasks.MembersByTaskIDs(ctx, taskIDs)
		if err != nil {
			n.logger.Warn().Err(err).Msg("could not load task members for assignee resolution")
		}
		for _, member := range members {
			if name, code, ok := n.employeeNameCode(ctx, member.EmployeeID); ok {
				return name, code
			}
		}
	}

	return fallbackAssigneeName, fallbackAssigneeCode
}

func (n *CompletionNotifier) employeeName(ctx context.Context, id uuid.UUID) string {
	employee, err := n.employees.FindByID(ctx, id)
	if err != nil || employee == nil {
		return ""
	}
	return employee.Name
}

func (n *CompletionNotifier) employeeNameCode(ctx context.Context, id uuid.UUID) (string, string, bool) {
	employee, err := n.employees.FindByID(ctx, id)
	if err != nil || employee == nil {
		return "", "", false
	}
	return employee.Name, employee.EmpCode, true
}

func distinctEmails(employees []models.Employee) []string {
	seen := make(map[string]struct{}, len(employees))
	emails := make([]string, 0, len(employees))
	for _, e := range employees {
		if e.Email == "" {
			continue
		}
		if _, ok := seen[e.Email]; ok {
			continue
		}
		seen[e.Email] = struct{}{}
		emails = append(emails, e.Email)
	}
	return emails
}
