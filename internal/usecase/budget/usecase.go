package budget

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tripdesk/internal/domain/audit"
	budgetDomain "tripdesk/internal/domain/budget"
	"tripdesk/internal/domain/identity"
	"tripdesk/internal/domain/uow"
	"tripdesk/pkg/id"
)

var ErrZeroAdjustment = errors.New("adjustment amount must be non-zero")

type Usecase struct {
	uow     uow.UnitOfWork
	budgets budgetDomain.Repository
}

func NewUsecase(tx uow.UnitOfWork, budgets budgetDomain.Repository) *Usecase {
	return &Usecase{uow: tx, budgets: budgets}
}

type AdjustInput struct {
	HolderID    string
	Amount      float64
	Description string
}

type AdjustResult struct {
	Holder      HolderDTO      `json:"holder"`
	Transaction TransactionDTO `json:"transaction"`
}

type HolderDTO struct {
	HolderID          string  `json:"holder_id"`
	Kind              string  `json:"kind"`
	Name              string  `json:"name"`
	OriginalBudget    float64 `json:"original_budget"`
	BudgetAdjustments float64 `json:"budget_adjustments"`
	Allocated         float64 `json:"allocated"`
	Spent             float64 `json:"spent"`
	Available         float64 `json:"available"`
}

type TransactionDTO struct {
	TransactionID string    `json:"transaction_id"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	Balance       float64   `json:"balance"`
	TripID        string    `json:"trip_id,omitempty"`
	ActorID       string    `json:"actor_id"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toHolderDTO(h *budgetDomain.Holder) HolderDTO {
	return HolderDTO{
		HolderID:          h.HolderID,
		Kind:              string(h.Kind),
		Name:              h.Name,
		OriginalBudget:    h.OriginalBudget,
		BudgetAdjustments: h.BudgetAdjustments,
		Allocated:         h.Allocated,
		Spent:             h.Spent,
		Available:         h.Available(),
	}
}

func toTransactionDTO(t *budgetDomain.Transaction) TransactionDTO {
	return TransactionDTO{
		TransactionID: t.TransactionID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		Balance:       t.Balance,
		TripID:        t.TripID,
		ActorID:       t.ActorID,
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
	}
}

// Adjust applies a signed Finance-only budget change and audits it in the
// same transaction as the ledger append.
func (u *Usecase) Adjust(ctx context.Context, actor *identity.Actor, in AdjustInput) (*AdjustResult, error) {
	if actor.EffectiveRole() != identity.RoleFinance {
		return nil, &identity.PermissionError{RequiredRole: "finance"}
	}
	if in.Amount == 0 {
		return nil, ErrZeroAdjustment
	}

	var out *AdjustResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		tx, err := budgetDomain.Adjust(ctx, r.Budgets, in.HolderID, in.Amount, in.Description, actor.ActorID)
		if err != nil {
			return err
		}
		h, err := r.Budgets.GetHolder(ctx, in.HolderID)
		if err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]any{
			"amount":      in.Amount,
			"description": in.Description,
			"available":   h.Available(),
		})
		if err := r.Audit.Write(ctx, &audit.Entry{
			ActorID:    actor.ActorID,
			Action:     audit.ActionAdjust,
			EntityType: audit.EntityBudget,
			EntityID:   in.HolderID,
			Details:    string(details),
		}); err != nil {
			return err
		}

		out = &AdjustResult{Holder: toHolderDTO(h), Transaction: toTransactionDTO(tx)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a holder snapshot with its derived available amount.
func (u *Usecase) Get(ctx context.Context, holderID string) (*HolderDTO, error) {
	h, err := u.budgets.GetHolder(ctx, holderID)
	if err != nil {
		return nil, err
	}
	dto := toHolderDTO(h)
	return &dto, nil
}

// History returns the holder's full ordered ledger.
func (u *Usecase) History(ctx context.Context, holderID string) ([]TransactionDTO, error) {
	h, err := u.budgets.GetHolder(ctx, holderID)
	if err != nil {
		return nil, err
	}
	txs, err := u.budgets.ListTransactions(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	out := make([]TransactionDTO, 0, len(txs))
	for i := range txs {
		out = append(out, toTransactionDTO(&txs[i]))
	}
	return out, nil
}

type BootstrapInput struct {
	HolderID       string
	Kind           string
	Name           string
	OriginalBudget float64
}

// Bootstrap registers a budget holder with its opening balance so every
// ledger history starts from a recorded initial row. Admin-only.
func (u *Usecase) Bootstrap(ctx context.Context, actor *identity.Actor, in BootstrapInput) (*AdjustResult, error) {
	if actor.EffectiveRole() != identity.RoleAdmin {
		return nil, &identity.PermissionError{RequiredRole: "admin"}
	}

	holderID := in.HolderID
	if holderID == "" {
		holderID = id.NewID32()
	}

	var out *AdjustResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		h := &budgetDomain.Holder{
			HolderID:       holderID,
			Kind:           budgetDomain.HolderKind(in.Kind),
			Name:           in.Name,
			OriginalBudget: in.OriginalBudget,
		}
		tx, err := budgetDomain.Bootstrap(ctx, r.Budgets, h, actor.ActorID)
		if err != nil {
			return err
		}
		out = &AdjustResult{Holder: toHolderDTO(h), Transaction: toTransactionDTO(tx)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
