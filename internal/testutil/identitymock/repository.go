package identitymock

import (
	"context"
	"errors"

	domain "tripdesk/internal/domain/identity"
)

var errUnimplemented = errors.New("identitymock: method not implemented")

type Repo struct {
	GetActorFn             func(ctx context.Context, actorID string) (*domain.Actor, error)
	GetDepartmentFn        func(ctx context.Context, departmentID string) (*domain.Department, error)
	GetProjectFn           func(ctx context.Context, projectID string) (*domain.Project, error)
	ManagedDepartmentIDsFn func(ctx context.Context, actorID string) ([]string, error)
	ManagedProjectIDsFn    func(ctx context.Context, actorID string) ([]string, error)
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) GetActor(ctx context.Context, actorID string) (*domain.Actor, error) {
	if m.GetActorFn != nil {
		return m.GetActorFn(ctx, actorID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetDepartment(ctx context.Context, departmentID string) (*domain.Department, error) {
	if m.GetDepartmentFn != nil {
		return m.GetDepartmentFn(ctx, departmentID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	if m.GetProjectFn != nil {
		return m.GetProjectFn(ctx, projectID)
	}
	return nil, errUnimplemented
}

func (m *Repo) ManagedDepartmentIDs(ctx context.Context, actorID string) ([]string, error) {
	if m.ManagedDepartmentIDsFn != nil {
		return m.ManagedDepartmentIDsFn(ctx, actorID)
	}
	return nil, nil
}

func (m *Repo) ManagedProjectIDs(ctx context.Context, actorID string) ([]string, error) {
	if m.ManagedProjectIDsFn != nil {
		return m.ManagedProjectIDsFn(ctx, actorID)
	}
	return nil, nil
}
