package stepmock

import (
	"context"
	"errors"

	domain "tripdesk/internal/domain/workflow"
)

var errUnimplemented = errors.New("stepmock: method not implemented")

type Repo struct {
	CreateBatchFn  func(ctx context.Context, steps []domain.Step) error
	ListByTripIDFn func(ctx context.Context, tripNumericID uint64) ([]domain.Step, error)
	SaveFn         func(ctx context.Context, s *domain.Step) error
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) CreateBatch(ctx context.Context, steps []domain.Step) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, steps)
	}
	return nil
}

func (m *Repo) ListByTripID(ctx context.Context, tripNumericID uint64) ([]domain.Step, error) {
	if m.ListByTripIDFn != nil {
		return m.ListByTripIDFn(ctx, tripNumericID)
	}
	return nil, errUnimplemented
}

func (m *Repo) Save(ctx context.Context, s *domain.Step) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}
