package biz

import (
	"context"

	"go.uber.org/fx"

	"github.com/looplj/orghub/internal/scopes"
)

type ProjectServiceParams struct {
	fx.In

	Scoped *scopes.Store
}

// ProjectService is a thin pass-through to the scoped store: every call runs
// under the authorization context carried in ctx, so tenant isolation holds
// without the service doing anything itself.
type ProjectService struct {
	scoped *scopes.Store
}

func NewProjectService(params ProjectServiceParams) *ProjectService {
	return &ProjectService{
		scoped: params.Scoped,
	}
}

func (s *ProjectService) ListProjects(ctx context.Context, query scopes.Query) ([]scopes.Record, error) {
	return s.scoped.FindMany(ctx, scopes.ModelProjects, query)
}

func (s *ProjectService) GetProject(ctx context.Context, id int64) (scopes.Record, error) {
	return s.scoped.FindUnique(ctx, scopes.ModelProjects, scopes.Eq("id", id))
}

func (s *ProjectService) CountProjects(ctx context.Context, filter scopes.Filter) (int64, error) {
	return s.scoped.Count(ctx, scopes.ModelProjects, filter)
}

func (s *ProjectService) CreateProject(ctx context.Context, data scopes.Record) (scopes.Record, error) {
	return s.scoped.Create(ctx, scopes.ModelProjects, data)
}

func (s *ProjectService) UpdateProject(ctx context.Context, id int64, data scopes.Record) (scopes.Record, error) {
	return s.scoped.Update(ctx, scopes.ModelProjects, scopes.UpdateParams{
		Where: scopes.Eq("id", id),
		Data:  data,
	})
}

func (s *ProjectService) DeleteProject(ctx context.Context, id int64) (scopes.Record, error) {
	return s.scoped.Delete(ctx, scopes.ModelProjects, scopes.Eq("id", id))
}
