package budget

import "context"

type Repository interface {
	CreateHolder(ctx context.Context, h *Holder) error
	GetHolder(ctx context.Context, holderID string) (*Holder, error)
	// GetHolderForUpdate locks the holder row, serializing concurrent ledger
	// operations on the same holder for the enclosing transaction.
	GetHolderForUpdate(ctx context.Context, holderID string) (*Holder, error)
	SaveHolder(ctx context.Context, h *Holder) error

	CreateTransaction(ctx context.Context, t *Transaction) error
	ListTransactions(ctx context.Context, holderNumericID uint64) ([]Transaction, error)
}
