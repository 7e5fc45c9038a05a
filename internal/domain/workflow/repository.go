package workflow

import "context"

type Repository interface {
	// CreateBatch persists a full generated sequence in one call.
	CreateBatch(ctx context.Context, steps []Step) error
	ListByTripID(ctx context.Context, tripNumericID uint64) ([]Step, error)
	Save(ctx context.Context, s *Step) error
}
