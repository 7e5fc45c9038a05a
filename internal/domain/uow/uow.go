package uow

import (
	"context"

	"tripdesk/internal/domain/audit"
	"tripdesk/internal/domain/budget"
	"tripdesk/internal/domain/identity"
	"tripdesk/internal/domain/trip"
	"tripdesk/internal/domain/workflow"
)

// Repos bundles every repository bound to one transaction.
type Repos struct {
	Trips    trip.Repository
	Steps    workflow.Repository
	Budgets  budget.Repository
	Identity identity.Repository
	Audit    audit.Sink
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinTripTx locks the trip row first, then passes it in. Transitions
	// on the same request serialize on this lock.
	WithinTripTx(ctx context.Context, tripID string, fn func(r Repos, t *trip.Request) error) error
}
