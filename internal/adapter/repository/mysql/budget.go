package mysql

import (
	"context"
	"errors"

	budgetDomain "tripdesk/internal/domain/budget"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BudgetRepository struct{ db *gorm.DB }

func NewBudgetRepository(db *gorm.DB) *BudgetRepository { return &BudgetRepository{db: db} }

func (r *BudgetRepository) CreateHolder(ctx context.Context, h *budgetDomain.Holder) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *BudgetRepository) GetHolder(ctx context.Context, holderID string) (*budgetDomain.Holder, error) {
	var out budgetDomain.Holder
	res := r.db.WithContext(ctx).Where("holder_id = ?", holderID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, budgetDomain.ErrHolderNotFound
	}
	return &out, res.Error
}

func (r *BudgetRepository) GetHolderForUpdate(ctx context.Context, holderID string) (*budgetDomain.Holder, error) {
	var out budgetDomain.Holder
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("holder_id = ?", holderID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, budgetDomain.ErrHolderNotFound
	}
	return &out, res.Error
}

func (r *BudgetRepository) SaveHolder(ctx context.Context, h *budgetDomain.Holder) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *BudgetRepository) CreateTransaction(ctx context.Context, t *budgetDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *BudgetRepository) ListTransactions(ctx context.Context, holderNumericID uint64) ([]budgetDomain.Transaction, error) {
	var out []budgetDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("holder_id = ?", holderNumericID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
