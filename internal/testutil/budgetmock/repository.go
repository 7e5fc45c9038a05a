package budgetmock

import (
	"context"
	"errors"

	domain "tripdesk/internal/domain/budget"
)

var errUnimplemented = errors.New("budgetmock: method not implemented")

type Repo struct {
	CreateHolderFn       func(ctx context.Context, h *domain.Holder) error
	GetHolderFn          func(ctx context.Context, holderID string) (*domain.Holder, error)
	GetHolderForUpdateFn func(ctx context.Context, holderID string) (*domain.Holder, error)
	SaveHolderFn         func(ctx context.Context, h *domain.Holder) error
	CreateTransactionFn  func(ctx context.Context, t *domain.Transaction) error
	ListTransactionsFn   func(ctx context.Context, holderNumericID uint64) ([]domain.Transaction, error)
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) CreateHolder(ctx context.Context, h *domain.Holder) error {
	if m.CreateHolderFn != nil {
		return m.CreateHolderFn(ctx, h)
	}
	return nil
}

func (m *Repo) GetHolder(ctx context.Context, holderID string) (*domain.Holder, error) {
	if m.GetHolderFn != nil {
		return m.GetHolderFn(ctx, holderID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetHolderForUpdate(ctx context.Context, holderID string) (*domain.Holder, error) {
	if m.GetHolderForUpdateFn != nil {
		return m.GetHolderForUpdateFn(ctx, holderID)
	}
	return nil, errUnimplemented
}

func (m *Repo) SaveHolder(ctx context.Context, h *domain.Holder) error {
	if m.SaveHolderFn != nil {
		return m.SaveHolderFn(ctx, h)
	}
	return nil
}

func (m *Repo) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	if m.CreateTransactionFn != nil {
		return m.CreateTransactionFn(ctx, t)
	}
	return nil
}

func (m *Repo) ListTransactions(ctx context.Context, holderNumericID uint64) ([]domain.Transaction, error) {
	if m.ListTransactionsFn != nil {
		return m.ListTransactionsFn(ctx, holderNumericID)
	}
	return nil, errUnimplemented
}

// Mem is a tiny in-memory ledger store for tests that exercise the real
// allocate/deallocate flows end to end.
type Mem struct {
	Holders map[string]*domain.Holder
	Txs     []domain.Transaction
}

var _ domain.Repository = (*Mem)(nil)

func NewMem(holders ...*domain.Holder) *Mem {
	m := &Mem{Holders: map[string]*domain.Holder{}}
	var nextID uint64 = 1
	for _, h := range holders {
		if h.ID == 0 {
			h.ID = nextID
			nextID++
		}
		m.Holders[h.HolderID] = h
	}
	return m
}

func (m *Mem) CreateHolder(_ context.Context, h *domain.Holder) error {
	if h.ID == 0 {
		h.ID = uint64(len(m.Holders) + 1)
	}
	m.Holders[h.HolderID] = h
	return nil
}

func (m *Mem) GetHolder(_ context.Context, holderID string) (*domain.Holder, error) {
	h, ok := m.Holders[holderID]
	if !ok {
		return nil, domain.ErrHolderNotFound
	}
	cp := *h
	return &cp, nil
}

// GetHolderForUpdate hands out the live pointer: tests run serially, the
// "lock" is the absence of concurrency.
func (m *Mem) GetHolderForUpdate(_ context.Context, holderID string) (*domain.Holder, error) {
	h, ok := m.Holders[holderID]
	if !ok {
		return nil, domain.ErrHolderNotFound
	}
	return h, nil
}

func (m *Mem) SaveHolder(_ context.Context, h *domain.Holder) error {
	m.Holders[h.HolderID] = h
	return nil
}

func (m *Mem) CreateTransaction(_ context.Context, t *domain.Transaction) error {
	t.ID = uint64(len(m.Txs) + 1)
	m.Txs = append(m.Txs, *t)
	return nil
}

func (m *Mem) ListTransactions(_ context.Context, holderNumericID uint64) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, t := range m.Txs {
		if t.HolderID == holderNumericID {
			out = append(out, t)
		}
	}
	return out, nil
}
