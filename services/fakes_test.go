package services

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/taskbridge-app/taskbridge/backend/models"
)

// fakeVisibilityFacts serves membership facts from memory and can be told to
// fail either fetch.
type fakeVisibilityFacts struct {
	departments []models.ProjectDepartment
	team        []models.ProjectTeamMember

	departmentsErr error
	teamErr        error

	departmentCalls int
	teamCalls       int
}

func (f *fakeVisibilityFacts) DepartmentsByProjectIDs(ctx context.Context, projectIDs []uuid.UUID) ([]models.ProjectDepartment, error) {
	f.departmentCalls++
	if f.departmentsErr != nil {
		return nil, f.departmentsErr
	}
	wanted := idSet(projectIDs)
	var out []models.ProjectDepartment
	for _, d := range f.departments {
		if _, ok := wanted[d.ProjectID]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeVisibilityFacts) TeamByProjectIDs(ctx context.Context, projectIDs []uuid.UUID) ([]models.ProjectTeamMember, error) {
	f.teamCalls++
	if f.teamErr != nil {
		return nil, f.teamErr
	}
	wanted := idSet(projectIDs)
	var out []models.ProjectTeamMember
	for _, m := range f.team {
		if _, ok := wanted[m.ProjectID]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func idSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// fakeKeyStepStore keeps key-steps in a map and honors the same atomicity
// contracts as the real store: phase assignment under a per-parent mutex and
// cascading deletes.
type fakeKeyStepStore struct {
	mu    sync.Mutex
	steps map[uuid.UUID]models.KeyStep

	insertErr error
}

func newFakeKeyStepStore() *fakeKeyStepStore {
	return &fakeKeyStepStore{steps: make(map[uuid.UUID]models.KeyStep)}
}

func (f *fakeKeyStepStore) FindByID(ctx context.Context, id uuid.UUID) (*models.KeyStep, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	step, ok := f.steps[id]
	if !ok {
		return nil, nil
	}
	return &step, nil
}

func (f *fakeKeyStepStore) FindChildren(ctx context.Context, parentID uuid.UUID) ([]models.KeyStep, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var children []models.KeyStep
	for _, step := range f.steps {
		if step.ParentKeyStepID != nil && *step.ParentKeyStepID == parentID {
			children = append(children, step)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Phase < children[j].Phase })
	return children, nil
}

func (f *fakeKeyStepStore) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]models.KeyStep, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var steps []models.KeyStep
	for _, step := range f.steps {
		if step.ProjectID == projectID {
			steps = append(steps, step)
		}
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].Phase < steps[j].Phase })
	return steps, nil
}

func (f *fakeKeyStepStore) Insert(ctx context.Context, steps ...*models.KeyStep) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, step := range steps {
		f.steps[step.ID] = *step
	}
	return nil
}

func (f *fakeKeyStepStore) InsertChildWithNextPhase(ctx context.Context, step *models.KeyStep) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	maxPhase := 0
	for _, existing := range f.steps {
		if existing.ParentKeyStepID != nil && *existing.ParentKeyStepID == *step.ParentKeyStepID &&
			existing.ProjectID == step.ProjectID && existing.Phase > maxPhase {
			maxPhase = existing.Phase
		}
	}
	step.Phase = maxPhase + 1
	f.steps[step.ID] = *step
	return nil
}

func (f *fakeKeyStepStore) Update(ctx context.Context, step *models.KeyStep) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps[step.ID] = *step
	return nil
}

func (f *fakeKeyStepStore) DeleteWithChildren(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for stepID, step := range f.steps {
		if step.ParentKeyStepID != nil && *step.ParentKeyStepID == id {
			delete(f.steps, stepID)
		}
	}
	delete(f.steps, id)
	return nil
}

// fakeTaskStore keeps the full task graph in memory and counts every query so
// aggregation tests can pin the fetch count.
type fakeTaskStore struct {
	mu             sync.Mutex
	tasks          map[uuid.UUID]models.ProjectTask
	members        []models.TaskMember
	subtasks       map[uuid.UUID]models.Subtask
	subtaskMembers []models.SubtaskMember

	queryCount int
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{
		tasks:    make(map[uuid.UUID]models.ProjectTask),
		subtasks: make(map[uuid.UUID]models.Subtask),
	}
}

func (f *fakeTaskStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ProjectTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCount++
	task, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (f *fakeTaskStore) FindByProjectIDs(ctx context.Context, projectIDs []uuid.UUID) ([]models.ProjectTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCount++
	wanted := idSet(projectIDs)
	var out []models.ProjectTask
	for _, task := range f.tasks {
		if _, ok := wanted[task.ProjectID]; ok {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskName < out[j].TaskName })
	return out, nil
}

func (f *fakeTaskStore) MembersByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) ([]models.TaskMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCount++
	wanted := idSet(taskIDs)
	var out []models.TaskMember
	for _, m := range f.members {
		if _, ok := wanted[m.TaskID]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) SubtasksByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) ([]models.Subtask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCount++
	wanted := idSet(taskIDs)
	var out []models.Subtask
	for _, sub := range f.subtasks {
		if _, ok := wanted[sub.TaskID]; ok {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (f *fakeTaskStore) SubtaskMembersBySubtaskIDs(ctx context.Context, subtaskIDs []uuid.UUID) ([]models.SubtaskMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCount++
	wanted := idSet(subtaskIDs)
	var out []models.SubtaskMember
	for _, sm := range f.subtaskMembers {
		if _, ok := wanted[sm.SubtaskID]; ok {
			out = append(out, sm)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) InsertTaskGraph(ctx context.Context, task *models.ProjectTask, members []models.TaskMember, subtasks []models.Subtask, subtaskMembers []models.SubtaskMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[task.ID] = *task
	f.members = append(f.members, members...)
	for _, sub := range subtasks {
		f.subtasks[sub.ID] = sub
	}
	f.subtaskMembers = append(f.subtaskMembers, subtaskMembers...)
	return nil
}

func (f *fakeTaskStore) ReplaceTaskGraph(ctx context.Context, task *models.ProjectTask, members []models.TaskMember, subtasks []models.Subtask, subtaskMembers []models.SubtaskMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteGraphLocked(task.ID)
	f.tasks[task.ID] = *task
	f.members = append(f.members, members...)
	for _, sub := range subtasks {
		f.subtasks[sub.ID] = sub
	}
	f.subtaskMembers = append(f.subtaskMembers, subtaskMembers...)
	return nil
}

func (f *fakeTaskStore) DeleteTaskGraph(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteGraphLocked(id)
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskStore) deleteGraphLocked(taskID uuid.UUID) {
	kept := f.members[:0]
	for _, m := range f.members {
		if m.TaskID != taskID {
			kept = append(kept, m)
		}
	}
	f.members = kept

	removed := make(map[uuid.UUID]struct{})
	for subID, sub := range f.subtasks {
		if sub.TaskID == taskID {
			removed[subID] = struct{}{}
			delete(f.subtasks, subID)
		}
	}
	keptSM := f.subtaskMembers[:0]
	for _, sm := range f.subtaskMembers {
		if _, gone := removed[sm.SubtaskID]; !gone {
			keptSM = append(keptSM, sm)
		}
	}
	f.subtaskMembers = keptSM
}

func (f *fakeTaskStore) FindSubtaskByID(ctx context.Context, id uuid.UUID) (*models.Subtask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCount++
	sub, ok := f.subtasks[id]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (f *fakeTaskStore) UpdateSubtask(ctx context.Context, subtask *models.Subtask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subtasks[subtask.ID] = *subtask
	return nil
}

func (f *fakeTaskStore) membersOf(taskID uuid.UUID) []models.TaskMember {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TaskMember
	for _, m := range f.members {
		if m.TaskID == taskID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeTaskStore) subtasksOf(taskID uuid.UUID) []models.Subtask {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Subtask
	for _, sub := range f.subtasks {
		if sub.TaskID == taskID {
			out = append(out, sub)
		}
	}
	return out
}

// fakeEmployeeDirectory serves employees from a map; FindAdmins filters on
// role.
type fakeEmployeeDirectory struct {
	employees map[uuid.UUID]models.Employee
}

func newFakeEmployeeDirectory(employees ...models.Employee) *fakeEmployeeDirectory {
	byID := make(map[uuid.UUID]models.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}
	return &fakeEmployeeDirectory{employees: byID}
}

func (f *fakeEmployeeDirectory) FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *fakeEmployeeDirectory) FindAdmins(ctx context.Context) ([]models.Employee, error) {
	var admins []models.Employee
	for _, e := range f.employees {
		if e.Role == models.RoleAdmin {
			admins = append(admins, e)
		}
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].Email < admins[j].Email })
	return admins, nil
}

// sentNotification is one delivery recorded by fakeSink.
type sentNotification struct {
	ToEmail      string
	TemplateKind string
	Payload      NotificationPayload
}

// fakeSink records deliveries and can be told to fail specific recipients.
type fakeSink struct {
	mu         sync.Mutex
	sent       []sentNotification
	failEmails map[string]error
}

func newFakeSink() *fakeSink {
	return &fakeSink{failEmails: make(map[string]error)}
}

func (f *fakeSink) Send(ctx context.Context, toEmail, templateKind string, payload NotificationPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failEmails[toEmail]; ok {
		return err
	}
	f.sent = append(f.sent, sentNotification{ToEmail: toEmail, TemplateKind: templateKind, Payload: payload})
	return nil
}

func (f *fakeSink) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	emails := make([]string, 0, len(f.sent))
	for _, s := range f.sent {
		emails = append(emails, s.ToEmail)
	}
	sort.Strings(emails)
	return emails
}

// fakeProjectStore keeps projects in insertion order like the real store.
type fakeProjectStore struct {
	mu       sync.Mutex
	projects []models.Project

	saveErr error
}

func (f *fakeProjectStore) FindAll(ctx context.Context) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Project, len(f.projects))
	copy(out, f.projects)
	return out, nil
}

func (f *fakeProjectStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeProjectStore) Insert(ctx context.Context, project *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = append(f.projects, *project)
	return nil
}

func (f *fakeProjectStore) Save(ctx context.Context, project *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	for i, p := range f.projects {
		if p.ID == project.ID {
			f.projects[i] = *project
			return nil
		}
	}
	f.projects = append(f.projects, *project)
	return nil
}

func (f *fakeProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.projects[:0]
	for _, p := range f.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.projects = kept
	return nil
}
