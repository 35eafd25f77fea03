package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskbridge-app/taskbridge/backend/errs"
	"github.com/taskbridge-app/taskbridge/backend/models"
)

// KeyStepStore persists the two-level milestone tree. Composite operations
// are atomic from the caller's point of view:
//
//   - Insert writes every row in a single transaction (all or nothing).
//   - InsertChildWithNextPhase assigns step.Phase = max(phase over siblings
//     sharing the same project and parent) + 1, computed under a lock keyed
//     on (project_id, parent_key_step_id) so concurrent child creation can
//     never hand out the same phase twice.
//   - DeleteWithChildren removes every key-step whose parent is the target,
//     then the target, in one transaction.
type KeyStepStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.KeyStep, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]models.KeyStep, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]models.KeyStep, error)
	Insert(ctx context.Context, steps ...*models.KeyStep) error
	InsertChildWithNextPhase(ctx context.Context, step *models.KeyStep) error
	Update(ctx context.Context, step *models.KeyStep) error
	DeleteWithChildren(ctx context.Context, id uuid.UUID) error
}

// KeyStepService owns milestone hierarchy rules: phase numbering, the
// one-level cascade on delete, and the one-level deep clone.
type KeyStepService struct {
	store  KeyStepStore
	logger zerolog.Logger
}

func NewKeyStepService(store KeyStepStore) *KeyStepService {
	return &KeyStepService{
		store:  store,
		logger: log.With().Str("service", "keySteps").Logger(),
	}
}

// KeyStepInput carries the descriptive fields shared by create and update.
type KeyStepInput struct {
	Header       string `json:"header"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Phase        int    `json:"phase"`
	Status       string `json:"status"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

func (in *KeyStepInput) validate(requireTitle bool) (*errs.ValidationErrors, string, string) {
	v := errs.NewValidationErrors()
	if requireTitle && in.Title == "" {
		v.Add("title", "title is required")
	}
	status := in.Status
	if status == "" {
		status = models.KeyStepStatusPending
	} else if !models.ValidKeyStepStatus(status) {
		v.Add("status", "status must be pending, in-progress, or completed")
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
	in.Status = status
	return v, start, end
}

// CreateRoot creates a top-level key-step. The caller-supplied phase is
// honored; a missing or non-positive phase defaults to 1.
func (s *KeyStepService) CreateRoot(ctx context.Context, projectID uuid.UUID, in KeyStepInput) (*models.KeyStep, error) {
	v, start, end := in.validate(true)
	if projectID == uuid.Nil {
		v.Add("project_id", "project_id is required")
	}
	if err := v.ErrOrNil(); err != nil {
		return nil, err
	}

	phase := in.Phase
	if phase < 1 {
		phase = 1
	}

	step := &models.KeyStep{
		ID:           uuid.New(),
		ProjectID:    projectID,
		Header:       in.Header,
		Title:        in.Title,
		Description:  in.Description,
		Requirements: in.Requirements,
		Phase:        phase,
		Status:       in.Status,
		StartDate:    start,
		EndDate:      end,
	}
	if err := s.store.Insert(ctx, step); err != nil {
		return nil, errs.NewDatabaseError("create", "key step", err)
	}

	s.logger.Info().Str("keyStepID", step.ID.String()).Str("projectID", projectID.String()).Msg("created root key step")
	return step, nil
}

// CreateChild creates a sub-milestone under parentID. The phase is never
// taken from the caller; the store assigns max(sibling phase)+1 atomically.
// Parents must themselves be roots — the tree is two levels deep, full stop.
func (s *KeyStepService) CreateChild(ctx context.Context, parentID uuid.UUID, in KeyStepInput) (*models.KeyStep, error) {
	v, start, end := in.validate(true)
	if parentID == uuid.Nil {
		v.Add("parent_key_step_id", "parent_key_step_id is required")
	}
	if err := v.ErrOrNil(); err != nil {
		return nil, err
	}

	parent, err := s.store.FindByID(ctx, parentID)
	if err != nil {
		return nil, errs.NewDatabaseError("find parent of", "key step", err)
	}
	if parent == nil {
		return nil, errs.NewNotFoundError("parent key step not found")
	}
	if !parent.IsRoot() {
		return nil, errs.NewValidationErrors().
			Add("parent_key_step_id", "parent is a sub-milestone; sub-milestones cannot have children")
	}

	step := &models.KeyStep{
		ID:              uuid.New(),
		ProjectID:       parent.ProjectID,
		ParentKeyStepID: &parent.ID,
		Header:          in.Header,
		Title:           in.Title,
		Description:     in.Description,
		Requirements:    in.Requirements,
		Status:          in.Status,
		StartDate:       start,
		EndDate:         end,
	}
	if err := s.store.InsertChildWithNextPhase(ctx, step); err != nil {
		return nil, errs.NewDatabaseError("create child", "key step", err)
	}

	s.logger.Info().
		Str("keyStepID", step.ID.String()).
		Str("parentID", parent.ID.String()).
		Int("phase", step.Phase).
		Msg("created sub-milestone")
	return step, nil
}

// Update replaces every descriptive field of the key-step. Dates are
// normalized before persisting; bad input fails the whole request.
func (s *KeyStepService) Update(ctx context.Context, id uuid.UUID, in KeyStepInput) (*models.KeyStep, error) {
	v, start, end := in.validate(true)
	if in.Phase < 1 {
		v.Add("phase", "phase must be a positive integer")
	}
	if err := v.ErrOrNil(); err != nil {
		return nil, err
	}

	step, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "key step", err)
	}
	if step == nil {
		return nil, errs.NewNotFoundError("key step not found")
	}

	step.Header = in.Header
	step.Title = in.Title
	step.Description = in.Description
	step.Requirements = in.Requirements
	step.Phase = in.Phase
	step.Status = in.Status
	step.StartDate = start
	step.EndDate = end

	if err := s.store.Update(ctx, step); err != nil {
		return nil, errs.NewDatabaseError("update", "key step", err)
	}
	return step, nil
}

// Delete removes the key-step and its direct children in one atomic
// operation. One level is the whole tree below a root, so nothing deeper can
// be orphaned.
func (s *KeyStepService) Delete(ctx context.Context, id uuid.UUID) error {
	step, err := s.store.FindByID(ctx, id)
	if err != nil {
		return errs.NewDatabaseError("find", "key step", err)
	}
	if step == nil {
		return errs.NewNotFoundError("key step not found")
	}

	if err := s.store.DeleteWithChildren(ctx, id); err != nil {
		return errs.NewDatabaseError("delete", "key step", err)
	}

	s.logger.Info().Str("keyStepID", id.String()).Msg("deleted key step with children")
	return nil
}

// Clone copies the key-step and each of its direct children onto freshly
// generated ids, optionally overriding the title of the copy. The clone sits
// at the same level as the source (same parent, nil for roots) and carries
// zero references to the source id. Returns the new id.
func (s *KeyStepService) Clone(ctx context.Context, id uuid.UUID, newTitle *string) (uuid.UUID, error) {
	source, err := s.store.FindByID(ctx, id)
	if err != nil {
		return uuid.Nil, errs.NewDatabaseError("find", "key step", err)
	}
	if source == nil {
		return uuid.Nil, errs.NewNotFoundError("key step not found")
	}

	children, err := s.store.FindChildren(ctx, id)
	if err != nil {
		return uuid.Nil, errs.NewDatabaseError("find children of", "key step", err)
	}

	clone := &models.KeyStep{
		ID:              uuid.New(),
		ProjectID:       source.ProjectID,
		ParentKeyStepID: source.ParentKeyStepID,
		Header:          source.Header,
		Title:           source.Title,
		Description:     source.Description,
		Requirements:    source.Requirements,
		Phase:           source.Phase,
		Status:          source.Status,
		StartDate:       source.StartDate,
		EndDate:         source.EndDate,
	}
	if newTitle != nil && *newTitle != "" {
		clone.Title = *newTitle
	}

	rows := make([]*models.KeyStep, 0, len(children)+1)
	rows = append(rows, clone)
	for _, child := range children {
		childCopy := child
		childCopy.ID = uuid.New()
		childCopy.ParentKeyStepID = &clone.ID
		rows = append(rows, &childCopy)
	}

	if err := s.store.Insert(ctx, rows...); err != nil {
		return uuid.Nil, errs.NewDatabaseError("clone", "key step", err)
	}

	s.logger.Info().
		Str("sourceID", id.String()).
		Str("cloneID", clone.ID.String()).
		Int("children", len(children)).
		Msg("cloned key step")
	return clone.ID, nil
}

// Children lists direct sub-milestones of a key-step, keyed purely by
// parent id.
func (s *KeyStepService) Children(ctx context.Context, parentID uuid.UUID) ([]models.KeyStep, error) {
	children, err := s.store.FindChildren(ctx, parentID)
	if err != nil {
		return nil, errs.NewDatabaseError("find children of", "key step", err)
	}
	return children, nil
}

// KeyStepNode is a root key-step with its sub-milestones attached, ordered by
// phase.
type KeyStepNode struct {
	models.KeyStep
	Children []models.KeyStep `json:"children"`
}

// Tree materializes the full two-level milestone tree for a project from a
// single fetch: roots in phase order, each carrying its children in phase
// order.
func (s *KeyStepService) Tree(ctx context.Context, projectID uuid.UUID) ([]KeyStepNode, error) {
	steps, err := s.store.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "key steps", err)
	}

	childrenByParent := make(map[uuid.UUID][]models.KeyStep)
	roots := make([]KeyStepNode, 0, len(steps))
	for _, step := range steps {
		if step.IsRoot() {
			roots = append(roots, KeyStepNode{KeyStep: step})
			continue
		}
		childrenByParent[*step.ParentKeyStepID] = append(childrenByParent[*step.ParentKeyStepID], step)
	}
	for i := range roots {
		children := childrenByParent[roots[i].ID]
		if children == nil {
			children = []models.KeyStep{}
		}
		roots[i].Children = children
	}
	return roots, nil
}

// Get fetches a single key-step by id.
func (s *KeyStepService) Get(ctx context.Context, id uuid.UUID) (*models.KeyStep, error) {
	step, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "key step", err)
	}
	if step == nil {
		return nil, errs.NewNotFoundError("key step not found")
	}
	return step, nil
}
