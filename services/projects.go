package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskbridge-app/taskbridge/backend/errs"
	"github.com/taskbridge-app/taskbridge/backend/models"
)

// ProjectStore persists projects with their department/team/vendor join
// rows. Reads hydrate the joins; Save fully replaces them in the same
// transaction as the project row; Delete cascades to the join rows only —
// key-steps and tasks are not touched.
type ProjectStore interface {
	FindAll(ctx context.Context) ([]models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Insert(ctx context.Context, project *models.Project) error
	Save(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectStatusChanged is published after a project update commits with a
// different status than before. The notifier consumes it; the write path
// never waits on notification delivery.
type ProjectStatusChanged struct {
	Project   models.Project
	OldStatus string
	NewStatus string
	Requester Identity
}

// ProjectInput is the full-replace update payload for a project.
type ProjectInput struct {
	ProjectCode string      `json:"project_code"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Client      string      `json:"client"`
	Status      string      `json:"status"`
	Progress    int         `json:"progress"`
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	Departments []string    `json:"departments"`
	TeamIDs     []uuid.UUID `json:"team_ids"`
	Vendors     []string    `json:"vendors"`
}

// ProjectService owns project lifecycle plus the visible-projects read path.
type ProjectService struct {
	store      ProjectStore
	visibility *VisibilityService
	logger     zerolog.Logger
}

func NewProjectService(store ProjectStore, visibility *VisibilityService) *ProjectService {
	return &ProjectService{
		store:      store,
		visibility: visibility,
		logger:     log.With().Str("service", "projects").Logger(),
	}
}

func (in *ProjectInput) validate() (*errs.ValidationErrors, string, string) {
	v := errs.NewValidationErrors()
	if in.Title == "" {
		v.Add("title", "title is required")
	}
	if in.Progress < 0 || in.Progress > 100 {
		v.Add("progress", "progress must be between 0 and 100")
	}
	if in.Status == "" {
		in.Status = models.ProjectStatusNotStarted
	}
	start, err := NormalizeDate(in.StartDate)
	if err != nil {
		v.Add("start_date", err.Error())
	}
	end, err := NormalizeDate(in.EndDate)
	if err != nil {
		v.Add("end_date", err.Error())
	}
	if !dateNotAfter(start, end) {
		v.Add("end_date", "end_date must not precede start_date")
	}
	return v, start, end
}

func buildJoinRows(projectID uuid.UUID, in ProjectInput) ([]models.ProjectDepartment, []models.ProjectTeamMember, []models.ProjectVendor) {
	departments := make([]models.ProjectDepartment, 0, len(in.Departments))
	for _, name := range in.Departments {
		departments = append(departments, models.ProjectDepartment{
			ID:        uuid.New(),
			ProjectID: projectID,
			Name:      name,
		})
	}
	team := make([]models.ProjectTeamMember, 0, len(in.TeamIDs))
	for _, employeeID := range in.TeamIDs {
		team = append(team, models.ProjectTeamMember{
			ID:         uuid.New(),
			ProjectID:  projectID,
			EmployeeID: employeeID,
		})
	}
	vendors := make([]models.ProjectVendor, 0, len(in.Vendors))
	for _, name := range in.Vendors {
		vendors = append(vendors, models.ProjectVendor{
			ID:        uuid.New(),
			ProjectID: projectID,
			Name:      name,
		})
	}
	return departments, team, vendors
}

// ListVisible returns the projects the requester may see, in stored order.
func (s *ProjectService) ListVisible(ctx context.Context, identity Identity) ([]models.Project, error) {
	projects, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}
	return s.visibility.Resolve(ctx, identity, projects)
}

// Get fetches one project with its join rows hydrated.
func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFoundError("project not found")
	}
	return project, nil
}

// Create inserts a project and its join rows.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput, requester Identity) (*models.Project, error) {
	v, start, end := in.validate()
	if err := v.ErrOrNil(); err != nil {
		return nil, err
	}

	project := &models.Project{
		ID:          uuid.New(),
		ProjectCode: in.ProjectCode,
		Title:       in.Title,
		Description: in.Description,
		Client:      in.Client,
		Status:      in.Status,
		Progress:    in.Progress,
		StartDate:   start,
		EndDate:     end,
	}
	if requester.HasEmployee() {
		id := requester.EmployeeID
		project.CreatedByEmployeeID = &id
	}
	project.Departments, project.Team, project.Vendors = buildJoinRows(project.ID, in)

	if err := s.store.Insert(ctx, project); err != nil {
		return nil, errs.NewDatabaseError("create", "project", err)
	}

	s.logger.Info().Str("projectID", project.ID.String()).Msg("created project")
	return project, nil
}

// Update fully replaces the project and its join rows. When the write moves
// the status from any non-"Completed" value to "Completed" it returns a
// ProjectStatusChanged event for the caller to publish after the commit; a
// payload merely restating "Completed" produces no event. The pre-update row
// is always fetched first — the transition is never inferred from the
// payload alone.
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, in ProjectInput, requester Identity) (*models.Project, *ProjectStatusChanged, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, nil, errs.NewDatabaseError("find", "project", err)
	}
	if existing == nil {
		return nil, nil, errs.NewNotFoundError("project not found")
	}

	v, start, end := in.validate()
	if err := v.ErrOrNil(); err != nil {
		return nil, nil, err
	}

	project := &models.Project{
		ID:                  existing.ID,
		ProjectCode:         in.ProjectCode,
		Title:               in.Title,
		Description:         in.Description,
		Client:              in.Client,
		Status:              in.Status,
		Progress:            in.Progress,
		StartDate:           start,
		EndDate:             end,
		CreatedByEmployeeID: existing.CreatedByEmployeeID,
	}
	project.Departments, project.Team, project.Vendors = buildJoinRows(project.ID, in)

	if err := s.store.Save(ctx, project); err != nil {
		return nil, nil, errs.NewDatabaseError("update", "project", err)
	}

	var event *ProjectStatusChanged
	if existing.Status != models.ProjectStatusCompleted && project.Status == models.ProjectStatusCompleted {
		event = &ProjectStatusChanged{
			Project:   *project,
			OldStatus: existing.Status,
			NewStatus: project.Status,
			Requester: requester,
		}
	}

	return project, event, nil
}

// Delete removes the project and its department/team/vendor join rows.
// Key-steps and tasks are left in place; their cleanup is a separate,
// explicit decision for the caller.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return errs.NewDatabaseError("find", "project", err)
	}
	if existing == nil {
		return errs.NewNotFoundError("project not found")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return errs.NewDatabaseError("delete", "project", err)
	}
	s.logger.Info().Str("projectID", id.String()).Msg("deleted project")
	return nil
}
