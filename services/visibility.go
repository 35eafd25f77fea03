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

// VisibilityFacts supplies the per-project membership facts the resolver
// filters on. Both methods are bulk fetches over the full project id set —
// one query each, never one per project.
type VisibilityFacts interface {
	DepartmentsByProjectIDs(ctx context.Context, projectIDs []uuid.UUID) ([]models.ProjectDepartment, error)
	TeamByProjectIDs(ctx context.Context, projectIDs []uuid.UUID) ([]models.ProjectTeamMember, error)
}

// VisibilityService decides which projects a requester may see.
type VisibilityService struct {
	facts          VisibilityFacts
	bootstrapCodes map[string]struct{}
	logger         zerolog.Logger
}

// NewVisibilityService builds a resolver. bootstrapCodes are employee codes
// granted admin-equivalent visibility regardless of role; pass the configured
// set (default is the single seed administrator code).
func NewVisibilityService(facts VisibilityFacts, bootstrapCodes []string) *VisibilityService {
	codes := make(map[string]struct{}, len(bootstrapCodes))
	for _, c := range bootstrapCodes {
		codes[c] = struct{}{}
	}
	return &VisibilityService{
		facts:          facts,
		bootstrapCodes: codes,
		logger:         log.With().Str("service", "visibility").Logger(),
	}
}

// Resolve filters projects down to the subset visible to the requester.
//
// Admins and bootstrap identities see everything. Everyone else needs a
// resolved employee id — its absence is an authorization failure, never an
// empty success. A project is visible when the requester is on its team OR
// the requester's normalized department matches one of the project's
// normalized department tags. A project with no team and no department tags
// is therefore visible to admins only; that mirrors how assignments have
// always worked here and callers rely on it.
//
// Fact-fetch failures propagate: an infrastructure error must stay
// distinguishable from "you have no projects".
func (s *VisibilityService) Resolve(ctx context.Context, identity Identity, projects []models.Project) ([]models.Project, error) {
	if identity.IsAdmin() {
		return projects, nil
	}
	if _, ok := s.bootstrapCodes[identity.EmpCode]; ok {
		s.logger.Debug().Str("empCode", identity.EmpCode).Msg("bootstrap identity, visibility unfiltered")
		return projects, nil
	}
	if !identity.HasEmployee() {
		return nil, errs.NewNoResolvedEmployeeError()
	}

	if len(projects) == 0 {
		return []models.Project{}, nil
	}

	projectIDs := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
	}

	var (
		departments []models.ProjectDepartment
		team        []models.ProjectTeamMember
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		departments, err = s.facts.DepartmentsByProjectIDs(gctx, projectIDs)
		return err
	})
	g.Go(func() error {
		var err error
		team, err = s.facts.TeamByProjectIDs(gctx, projectIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errs.NewDatabaseError("fetch visibility facts", "projects", err)
	}

	departmentsByProject := make(map[uuid.UUID][]string, len(projects))
	for _, d := range departments {
		departmentsByProject[d.ProjectID] = append(departmentsByProject[d.ProjectID], NormalizeDepartment(d.Name))
	}
	teamByProject := make(map[uuid.UUID]map[uuid.UUID]struct{}, len(projects))
	for _, m := range team {
		set, ok := teamByProject[m.ProjectID]
		if !ok {
			set = make(map[uuid.UUID]struct{})
			teamByProject[m.ProjectID] = set
		}
		set[m.EmployeeID] = struct{}{}
	}

	requesterDepartment := NormalizeDepartment(identity.Department)

	visible := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if _, onTeam := teamByProject[p.ID][identity.EmployeeID]; onTeam {
			visible = append(visible, p)
			continue
		}
		if requesterDepartment != "" {
			for _, tag := range departmentsByProject[p.ID] {
				if tag == requesterDepartment {
					visible = append(visible, p)
					break
				}
			}
		}
	}

	return visible, nil
}
