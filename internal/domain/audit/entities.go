package audit

import "time"

// Entry is one append-only audit row. Entries are written through the unit
// of work so they commit atomically with the state change they document.
type Entry struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"-"`
	ActorID    string    `gorm:"size:32;index" json:"actor_id"`
	Action     string    `gorm:"size:64;index" json:"action"`
	EntityType string    `gorm:"size:32" json:"entity_type"`
	EntityID   string    `gorm:"size:64;index" json:"entity_id"`
	Details    string    `gorm:"type:json" json:"details,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "audit_log" }

const (
	EntityTrip   = "trip_request"
	EntityBudget = "budget_holder"
	EntityBatch  = "bulk_batch"
)

const (
	ActionCreate        = "trip.create"
	ActionApprove       = "trip.approve"
	ActionReject        = "trip.reject"
	ActionPay           = "trip.pay"
	ActionCancel        = "trip.cancel"
	ActionRepair        = "trip.repair"
	ActionAdjust        = "budget.adjust"
	ActionBulkSummary   = "trip.bulk_summary"
	ActionBulkItemError = "trip.bulk_item_error"
)
