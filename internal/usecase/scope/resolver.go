package scope

import (
	"context"

	"tripdesk/internal/domain/identity"
	"tripdesk/internal/domain/trip"
)

// Scope is the resolved visibility of one actor at one instant. It is
// recomputed per call from live reference data, so granting a manager slot
// is visible on the very next resolution with no cache to invalidate.
type Scope struct {
	ActorID              string
	CanViewAll           bool
	ManagedDepartmentIDs []string
	ManagedProjectIDs    []string
}

// TripScope converts to the predicate the trip repository pushes into SQL.
func (s *Scope) TripScope() trip.VisibleScope {
	return trip.VisibleScope{
		ActorID:       s.ActorID,
		ViewAll:       s.CanViewAll,
		DepartmentIDs: s.ManagedDepartmentIDs,
		ProjectIDs:    s.ManagedProjectIDs,
	}
}

// Covers is the point-access check: may the actor read this one request?
func (s *Scope) Covers(t *trip.Request) bool {
	if s.CanViewAll || t.RequesterID == s.ActorID {
		return true
	}
	for _, d := range s.ManagedDepartmentIDs {
		if d != "" && d == t.DepartmentID {
			return true
		}
	}
	for _, p := range s.ManagedProjectIDs {
		if p != "" && p == t.ProjectID {
			return true
		}
	}
	return false
}

type Resolver struct{ ids identity.Repository }

func NewResolver(r identity.Repository) *Resolver { return &Resolver{ids: r} }

// Resolve computes the actor's scope from the effective role. Management
// lookups only run for manager-class actors; base roles see own records only.
func (r *Resolver) Resolve(ctx context.Context, actor *identity.Actor) (*Scope, error) {
	s := &Scope{ActorID: actor.ActorID}

	switch actor.EffectiveRole() {
	case identity.RoleFinance, identity.RoleAdmin:
		s.CanViewAll = true
	case identity.RoleManager:
		depts, err := r.ids.ManagedDepartmentIDs(ctx, actor.ActorID)
		if err != nil {
			return nil, err
		}
		projects, err := r.ids.ManagedProjectIDs(ctx, actor.ActorID)
		if err != nil {
			return nil, err
		}
		s.ManagedDepartmentIDs = depts
		s.ManagedProjectIDs = projects
	}
	return s, nil
}
