package workflow

import (
	"time"

	"gorm.io/gorm"

	"tripdesk/internal/domain/trip"
)

type StepType string

const (
	StepDeptManager     StepType = "dept_manager"
	StepDeptManager2    StepType = "dept_manager_2"
	StepDeptManager3    StepType = "dept_manager_3"
	StepProjectManager  StepType = "project_manager"
	StepProjectManager2 StepType = "project_manager_2"
	StepFinance         StepType = "finance"
)

// PendingStatus maps a step type to the aggregate status a request shows
// while that step is the current gate.
func (t StepType) PendingStatus() trip.Status {
	switch t {
	case StepDeptManager, StepDeptManager2, StepDeptManager3:
		return trip.StatusPendingDepartment
	case StepProjectManager, StepProjectManager2:
		return trip.StatusPendingProject
	default:
		return trip.StatusPendingFinance
	}
}

// RoleName is the human name used in permission-denied messages.
func (t StepType) RoleName() string {
	switch t {
	case StepDeptManager:
		return "department manager"
	case StepDeptManager2:
		return "second department manager"
	case StepDeptManager3:
		return "tertiary department manager"
	case StepProjectManager:
		return "project manager"
	case StepProjectManager2:
		return "secondary project manager"
	case StepFinance:
		return "finance"
	}
	return string(t)
}

type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepApproved StepStatus = "approved"
	StepRejected StepStatus = "rejected"
	StepSkipped  StepStatus = "skipped"
)

// Step is one approval gate. Created in a batch at request creation,
// mutated exactly once by the approving or rejecting actor, then frozen.
type Step struct {
	ID        uint64   `gorm:"primaryKey;column:id" json:"-"`
	StepID    string   `gorm:"size:32;uniqueIndex:ux_steps_step_id" json:"step_id"`
	TripID    uint64   `gorm:"column:trip_id;not null;index:idx_steps_trip" json:"-"`
	StepOrder int      `gorm:"column:step_order;not null" json:"order"`
	Type      StepType `gorm:"size:24;column:step_type" json:"type"`
	// ApproverID pins the step to one actor; empty means any qualified
	// holder of the step type's role (the Finance gate).
	ApproverID string         `gorm:"size:32;column:approver_id" json:"approver_id,omitempty"`
	Required   bool           `gorm:"default:true" json:"required"`
	Status     StepStatus     `gorm:"size:16;default:'pending';index" json:"status"`
	ApprovedBy string         `gorm:"size:32" json:"approved_by,omitempty"`
	ApprovedAt *time.Time     `json:"approved_at,omitempty"`
	Reason     string         `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Step) TableName() string { return "workflow_steps" }
