package trip

import (
	"time"

	tripDomain "tripdesk/internal/domain/trip"
	workflowDomain "tripdesk/internal/domain/workflow"
)

type CreateInput struct {
	RequesterID       string  `json:"requester_id"`
	Type              string  `json:"type"`
	DepartmentID      string  `json:"department_id"`
	ProjectID         string  `json:"project_id"`
	Cost              float64 `json:"cost"`
	DistanceKM        float64 `json:"distance_km"`
	HasPreapprovalDoc bool    `json:"has_preapproval_doc"`
}

type ListInput struct {
	Status string
	Type   string
}

type StepDTO struct {
	StepID     string     `json:"step_id"`
	Order      int        `json:"order"`
	Type       string     `json:"type"`
	ApproverID string     `json:"approver_id,omitempty"`
	Required   bool       `json:"required"`
	Status     string     `json:"status"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

type TripDTO struct {
	TripID       string    `json:"trip_id"`
	RequesterID  string    `json:"requester_id"`
	Type         string    `json:"type"`
	DepartmentID string    `json:"department_id,omitempty"`
	ProjectID    string    `json:"project_id,omitempty"`
	Cost         float64   `json:"cost"`
	DistanceKM   float64   `json:"distance_km"`
	Status       string    `json:"status"`
	StatusLabel  string    `json:"status_label"`
	CreatedAt    time.Time `json:"created_at"`
	Steps        []StepDTO `json:"steps,omitempty"`
}

func toStepDTO(s *workflowDomain.Step) StepDTO {
	return StepDTO{
		StepID:     s.StepID,
		Order:      s.StepOrder,
		Type:       string(s.Type),
		ApproverID: s.ApproverID,
		Required:   s.Required,
		Status:     string(s.Status),
		ApprovedBy: s.ApprovedBy,
		ApprovedAt: s.ApprovedAt,
		Reason:     s.Reason,
	}
}

func ToDTO(t *tripDomain.Request, steps []workflowDomain.Step) *TripDTO {
	dto := &TripDTO{
		TripID:       t.TripID,
		RequesterID:  t.RequesterID,
		Type:         string(t.Type),
		DepartmentID: t.DepartmentID,
		ProjectID:    t.ProjectID,
		Cost:         t.Cost,
		DistanceKM:   t.DistanceKM,
		Status:       string(t.Status),
		StatusLabel:  t.Status.Label(),
		CreatedAt:    t.CreatedAt,
	}
	for i := range steps {
		dto.Steps = append(dto.Steps, toStepDTO(&steps[i]))
	}
	return dto
}
