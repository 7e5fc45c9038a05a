package trip

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("trip request not found")
	ErrTerminal = errors.New("trip request is in a terminal state")
)

type Type string

const (
	TypeTicket  Type = "ticket"
	TypePlanned Type = "planned"
	TypeUrgent  Type = "urgent"
)

var validTypes = map[Type]bool{
	TypeTicket:  true,
	TypePlanned: true,
	TypeUrgent:  true,
}

func (t Type) IsValid() bool { return validTypes[t] }

type Status string

const (
	StatusPendingDepartment Status = "pending_department_approval"
	StatusPendingProject    Status = "pending_project_approval"
	StatusPendingFinance    Status = "pending_finance_approval"
	StatusApproved          Status = "approved"
	StatusRejected          Status = "rejected"
	StatusPaid              Status = "paid"
	StatusCancelled         Status = "cancelled"
)

var terminalStatuses = map[Status]bool{
	StatusRejected:  true,
	StatusPaid:      true,
	StatusCancelled: true,
}

// IsTerminal reports whether no further transition may touch the request.
// Approved is not terminal: payment or cancellation may still follow.
func (s Status) IsTerminal() bool { return terminalStatuses[s] }

func (s Status) String() string { return string(s) }

// Label is the user-facing form of the aggregate status.
func (s Status) Label() string {
	switch s {
	case StatusPendingDepartment:
		return "Pending Department Approval"
	case StatusPendingProject:
		return "Pending Project Approval"
	case StatusPendingFinance:
		return "Pending Finance Approval"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	case StatusPaid:
		return "Paid"
	case StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// BudgetState tracks which ledger bucket holds this request's cost. A cost
// lives in exactly one bucket at a time: none -> allocated -> spent, with
// rejection returning allocated -> none.
type BudgetState string

const (
	BudgetNone      BudgetState = "none"
	BudgetAllocated BudgetState = "allocated"
	BudgetSpent     BudgetState = "spent"
)

type Request struct {
	ID                uint64         `gorm:"primaryKey;column:id" json:"-"`
	TripID            string         `gorm:"size:32;uniqueIndex:ux_trips_trip_id_active" json:"trip_id"`
	RequesterID       string         `gorm:"size:32;index:idx_trips_requester" json:"requester_id"`
	Type              Type           `gorm:"type:enum('ticket','planned','urgent')" json:"type"`
	DepartmentID      string         `gorm:"size:32;index" json:"department_id,omitempty"`
	ProjectID         string         `gorm:"size:32;index" json:"project_id,omitempty"`
	Cost              float64        `gorm:"type:decimal(18,2)" json:"cost"`
	DistanceKM        float64        `gorm:"type:decimal(10,2)" json:"distance_km"`
	HasPreapprovalDoc bool           `json:"has_preapproval_doc"`
	Status            Status         `gorm:"size:40;index" json:"status"`
	BudgetState       BudgetState    `gorm:"size:16;default:'none'" json:"-"`
	StatusUpdatedAt   time.Time      `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Request) TableName() string { return "trip_requests" }

// HolderID is the budget holder this request draws from: the project when
// set, the department otherwise. Empty means no budget involvement.
func (r *Request) HolderID() string {
	if r.ProjectID != "" {
		return r.ProjectID
	}
	return r.DepartmentID
}

// StatusHistory is the append-only per-request status log. Rows are never
// updated or deleted.
type StatusHistory struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	TripID    uint64    `gorm:"column:trip_id;not null;index" json:"-"`
	Status    Status    `gorm:"size:40" json:"status"`
	ActorID   string    `gorm:"size:32" json:"actor_id"`
	Reason    string    `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (StatusHistory) TableName() string { return "trip_status_history" }
