package trip

import "context"

// VisibleScope is the resolved permission scope a list query must honor.
// The repository pushes it into the SQL predicate; callers never filter a
// fetched superset in memory.
type VisibleScope struct {
	ActorID       string
	ViewAll       bool
	DepartmentIDs []string
	ProjectIDs    []string
}

// ListFilter narrows a visible-set query.
type ListFilter struct {
	Status Status
	Type   Type
}

type Repository interface {
	Create(ctx context.Context, r *Request) error
	GetByTripID(ctx context.Context, tripID string) (*Request, error)
	// GetByTripIDForUpdate locks the row for the enclosing transaction.
	GetByTripIDForUpdate(ctx context.Context, tripID string) (*Request, error)
	Save(ctx context.Context, r *Request) error

	ListVisible(ctx context.Context, scope VisibleScope, filter ListFilter) ([]Request, error)

	AppendHistory(ctx context.Context, h *StatusHistory) error
	HistoryByTripID(ctx context.Context, tripNumericID uint64) ([]StatusHistory, error)
}
