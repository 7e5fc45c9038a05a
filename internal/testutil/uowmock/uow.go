package uowmock

import (
	"context"
	"errors"

	"tripdesk/internal/domain/trip"
	"tripdesk/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork. Fill in the
// function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinTripTxFn func(ctx context.Context, tripID string, fn func(r uow.Repos, t *trip.Request) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough builds a UoW that hands the given repos straight to the
// callback with no transaction semantics, locking trips through the trip
// repository's ForUpdate lookup.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos)
		},
		WithinTripTxFn: func(ctx context.Context, tripID string, fn func(r uow.Repos, t *trip.Request) error) error {
			t, err := repos.Trips.GetByTripIDForUpdate(ctx, tripID)
			if err != nil {
				return err
			}
			return fn(repos, t)
		},
	}
}

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinTripTx(ctx context.Context, tripID string, fn func(r uow.Repos, t *trip.Request) error) error {
	if m.WithinTripTxFn != nil {
		return m.WithinTripTxFn(ctx, tripID, fn)
	}
	return errUnimplemented
}
