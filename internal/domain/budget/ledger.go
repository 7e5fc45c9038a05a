package budget

import (
	"context"

	"tripdesk/pkg/id"
)

// Ledger operations. Each one must run inside a transaction holding the
// holder's row lock: the availability check and the append are one atomic
// unit against the locked row. Callers pass the tx-bound repository.

// Allocate reserves amount for tripID. Fails with ExceededError carrying the
// exact shortfall when amount exceeds what is available; nothing is written
// in that case.
func Allocate(ctx context.Context, r Repository, holderID string, amount float64, tripID, actorID string) (*Transaction, error) {
	h, err := r.GetHolderForUpdate(ctx, holderID)
	if err != nil {
		return nil, err
	}
	if avail := h.Available(); amount > avail {
		return nil, &ExceededError{HolderID: holderID, Excess: amount - avail}
	}
	h.Allocated += amount
	return commit(ctx, r, h, &Transaction{
		Type:    TxAllocation,
		Amount:  amount,
		TripID:  tripID,
		ActorID: actorID,
	})
}

// Deallocate releases a live reservation after a rejection or cancellation.
func Deallocate(ctx context.Context, r Repository, holderID string, amount float64, tripID, actorID string) (*Transaction, error) {
	h, err := r.GetHolderForUpdate(ctx, holderID)
	if err != nil {
		return nil, err
	}
	if h.Allocated < amount {
		return nil, ErrNoAllocation
	}
	h.Allocated -= amount
	return commit(ctx, r, h, &Transaction{
		Type:    TxDeallocation,
		Amount:  amount,
		TripID:  tripID,
		ActorID: actorID,
	})
}

// Spend converts a reservation to spend at payment. The two aggregates move
// in lockstep so the cost is never counted in both, and available does not
// change.
func Spend(ctx context.Context, r Repository, holderID string, amount float64, tripID, actorID string) (*Transaction, error) {
	h, err := r.GetHolderForUpdate(ctx, holderID)
	if err != nil {
		return nil, err
	}
	if h.Allocated < amount {
		return nil, ErrNoAllocation
	}
	h.Allocated -= amount
	h.Spent += amount
	return commit(ctx, r, h, &Transaction{
		Type:    TxSpend,
		Amount:  amount,
		TripID:  tripID,
		ActorID: actorID,
	})
}

// Adjust applies a signed Finance-only budget change. A negative amount may
// not take available below zero; such an adjustment fails with ExceededError
// carrying the shortfall and writes nothing.
func Adjust(ctx context.Context, r Repository, holderID string, amount float64, description, actorID string) (*Transaction, error) {
	h, err := r.GetHolderForUpdate(ctx, holderID)
	if err != nil {
		return nil, err
	}
	if after := h.Available() + amount; after < 0 {
		return nil, &ExceededError{HolderID: holderID, Excess: -after}
	}
	h.BudgetAdjustments += amount
	return commit(ctx, r, h, &Transaction{
		Type:        TxAdjustment,
		Amount:      amount,
		ActorID:     actorID,
		Description: description,
	})
}

// Bootstrap records a holder's opening balance so every history starts from
// an initial row.
func Bootstrap(ctx context.Context, r Repository, h *Holder, actorID string) (*Transaction, error) {
	if err := r.CreateHolder(ctx, h); err != nil {
		return nil, err
	}
	return commit(ctx, r, h, &Transaction{
		Type:    TxInitial,
		Amount:  h.OriginalBudget,
		ActorID: actorID,
	})
}

func commit(ctx context.Context, r Repository, h *Holder, t *Transaction) (*Transaction, error) {
	if err := r.SaveHolder(ctx, h); err != nil {
		return nil, err
	}
	t.TransactionID = id.NewID32()
	t.HolderID = h.ID
	t.Balance = h.Available()
	if err := r.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
