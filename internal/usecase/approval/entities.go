package approval

import "errors"

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

var (
	ErrUnknownAction = errors.New("action must be approve or reject")
	ErrReasonNeeded  = errors.New("reject requires a reason")
	ErrNotApproved   = errors.New("request is not in the approved state")
	ErrNotCorrupted  = errors.New("workflow is consistent; nothing to repair")
)

type TransitionInput struct {
	TripID string
	Action Action
	Reason string
}

type BatchInput struct {
	TripIDs []string
	Action  Action
	Reason  string
}

type BatchError struct {
	TripID string `json:"trip_id"`
	Reason string `json:"reason"`
}

// BudgetImpact sums the ledger effects of a batch. Reporting only:
// enforcement always ran per item against live balances.
type BudgetImpact struct {
	Allocations   float64 `json:"allocations"`
	Deallocations float64 `json:"deallocations"`
}

type BatchResult struct {
	BatchID      string       `json:"batch_id"`
	Succeeded    []string     `json:"succeeded"`
	Errors       []BatchError `json:"errors"`
	BudgetImpact BudgetImpact `json:"budget_impact"`
}

// impact is the ledger effect of a single transition.
type impact struct {
	allocated   float64
	deallocated float64
}
