package tripmock

import (
	"context"
	"errors"

	domain "tripdesk/internal/domain/trip"
)

var errUnimplemented = errors.New("tripmock: method not implemented")

// Repo is a function-backed mock that satisfies trip.Repository. Fill in the
// function fields a test needs; the rest fail loudly.
type Repo struct {
	CreateFn               func(ctx context.Context, t *domain.Request) error
	GetByTripIDFn          func(ctx context.Context, tripID string) (*domain.Request, error)
	GetByTripIDForUpdateFn func(ctx context.Context, tripID string) (*domain.Request, error)
	SaveFn                 func(ctx context.Context, t *domain.Request) error
	ListVisibleFn          func(ctx context.Context, scope domain.VisibleScope, filter domain.ListFilter) ([]domain.Request, error)
	AppendHistoryFn        func(ctx context.Context, h *domain.StatusHistory) error
	HistoryByTripIDFn      func(ctx context.Context, tripNumericID uint64) ([]domain.StatusHistory, error)
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Create(ctx context.Context, t *domain.Request) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetByTripID(ctx context.Context, tripID string) (*domain.Request, error) {
	if m.GetByTripIDFn != nil {
		return m.GetByTripIDFn(ctx, tripID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByTripIDForUpdate(ctx context.Context, tripID string) (*domain.Request, error) {
	if m.GetByTripIDForUpdateFn != nil {
		return m.GetByTripIDForUpdateFn(ctx, tripID)
	}
	return nil, errUnimplemented
}

func (m *Repo) Save(ctx context.Context, t *domain.Request) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}

func (m *Repo) ListVisible(ctx context.Context, scope domain.VisibleScope, filter domain.ListFilter) ([]domain.Request, error) {
	if m.ListVisibleFn != nil {
		return m.ListVisibleFn(ctx, scope, filter)
	}
	return nil, errUnimplemented
}

func (m *Repo) AppendHistory(ctx context.Context, h *domain.StatusHistory) error {
	if m.AppendHistoryFn != nil {
		return m.AppendHistoryFn(ctx, h)
	}
	return nil
}

func (m *Repo) HistoryByTripID(ctx context.Context, tripNumericID uint64) ([]domain.StatusHistory, error) {
	if m.HistoryByTripIDFn != nil {
		return m.HistoryByTripIDFn(ctx, tripNumericID)
	}
	return nil, errUnimplemented
}
