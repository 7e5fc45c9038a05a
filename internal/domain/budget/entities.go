package budget

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrHolderNotFound = errors.New("budget holder not found")
	ErrNoAllocation   = errors.New("no live allocation for this reference")
)

type HolderKind string

const (
	KindDepartment HolderKind = "department"
	KindProject    HolderKind = "project"
)

// Holder is a budget-carrying department or project. The aggregate columns
// are co-updated transactionally with every ledger append; the transaction
// log remains the source of truth for audit and repair.
type Holder struct {
	ID                uint64         `gorm:"primaryKey;column:id" json:"-"`
	HolderID          string         `gorm:"size:32;uniqueIndex:ux_budget_holders_holder_id" json:"holder_id"`
	Kind              HolderKind     `gorm:"size:16" json:"kind"`
	Name              string         `gorm:"size:128" json:"name"`
	OriginalBudget    float64        `gorm:"type:decimal(18,2)" json:"original_budget"`
	BudgetAdjustments float64        `gorm:"type:decimal(18,2)" json:"budget_adjustments"`
	Allocated         float64        `gorm:"type:decimal(18,2)" json:"allocated"`
	Spent             float64        `gorm:"type:decimal(18,2)" json:"spent"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Holder) TableName() string { return "budget_holders" }

// Available is what new allocations may still draw on. Spent is excluded
// alongside allocated: a paid cost stays counted exactly once, it never
// re-frees budget when the allocation converts to spend at payment.
func (h *Holder) Available() float64 {
	return h.OriginalBudget + h.BudgetAdjustments - h.Allocated - h.Spent
}

type TransactionType string

const (
	TxInitial      TransactionType = "initial"
	TxAllocation   TransactionType = "allocation"
	TxDeallocation TransactionType = "deallocation"
	TxAdjustment   TransactionType = "adjustment"
	TxSpend        TransactionType = "spend"
)

// Transaction is one immutable ledger row. Balance is the holder's available
// amount after this row committed.
type Transaction struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	TransactionID string          `gorm:"size:32;uniqueIndex:ux_budget_tx_transaction_id" json:"transaction_id"`
	HolderID      uint64          `gorm:"column:holder_id;not null;index:idx_budget_tx_holder" json:"-"`
	Type          TransactionType `gorm:"size:16" json:"type"`
	Amount        float64         `gorm:"type:decimal(18,2)" json:"amount"`
	Balance       float64         `gorm:"type:decimal(18,2)" json:"balance"`
	TripID        string          `gorm:"size:32;index" json:"trip_id,omitempty"`
	ActorID       string          `gorm:"size:32" json:"actor_id"`
	Description   string          `gorm:"type:text" json:"description,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string { return "budget_transactions" }

// ExceededError reports an allocation that would overdraw the holder,
// carrying the exact shortfall for the client message.
type ExceededError struct {
	HolderID string
	Excess   float64
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("budget exceeded for %s: short by %.2f", e.HolderID, e.Excess)
}
