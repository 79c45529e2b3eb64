package scopes

import "fmt"

// Model names a scoped collection. The set is closed: repositories are
// registered per model and unknown models are rejected up front instead of
// being dispatched by raw string.
type Model string

const (
	ModelProjects     Model = "projects"
	ModelCourses      Model = "courses"
	ModelEvents       Model = "events"
	ModelParticipants Model = "participants"
)

// PartitionField is the column carrying the partition id on every scoped
// entity. A record is visible through this layer only when the value of this
// field is in the caller's accessible set.
const PartitionField = "sub_organization_id"

// Registry maps models to their repositories.
type Registry struct {
	repos map[Model]Repository
}

func NewRegistry() *Registry {
	return &Registry{repos: make(map[Model]Repository)}
}

// Register binds a repository to a model. Later registrations replace
// earlier ones.
func (r *Registry) Register(model Model, repo Repository) {
	r.repos[model] = repo
}

// Repository returns the repository for the model.
func (r *Registry) Repository(model Model) (Repository, error) {
	repo, ok := r.repos[model]
	if !ok {
		return nil, fmt.Errorf("scopes: no repository registered for model %q", model)
	}

	return repo, nil
}
