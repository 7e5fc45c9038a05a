package identity

import "context"

// Repository is read-only: actors, departments and projects are reference
// data owned by external collaborators.
type Repository interface {
	GetActor(ctx context.Context, actorID string) (*Actor, error)
	GetDepartment(ctx context.Context, departmentID string) (*Department, error)
	GetProject(ctx context.Context, projectID string) (*Project, error)

	// Management relationships for the scope resolver: ids of departments /
	// projects where the actor holds any manager slot.
	ManagedDepartmentIDs(ctx context.Context, actorID string) ([]string, error)
	ManagedProjectIDs(ctx context.Context, actorID string) ([]string, error)
}
