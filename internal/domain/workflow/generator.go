package workflow

import (
	"time"

	"tripdesk/internal/domain/identity"
	"tripdesk/internal/domain/trip"
)

// GenerateInput carries everything step generation depends on. Generation is
// pure: identical inputs always produce the identical step sequence.
type GenerateInput struct {
	Type              trip.Type
	Department        *identity.Department
	Project           *identity.Project
	DistanceKM        float64
	HasPreapprovalDoc bool
	// TertiaryDistanceKM is the administrator-set distance above which a
	// configured tertiary department manager becomes a required gate.
	TertiaryDistanceKM float64
	Now                time.Time
}

// stepTemplate is one row of the closed type -> sequence mapping table.
// include decides whether the gate applies for these inputs; approver
// resolves the designated actor ("" = any qualified role holder).
type stepTemplate struct {
	typ      StepType
	include  func(in GenerateInput) bool
	approver func(in GenerateInput) string
}

func always(GenerateInput) bool          { return true }
func anyRoleHolder(GenerateInput) string { return "" }

var ticketSteps = []stepTemplate{
	{
		typ:      StepDeptManager,
		include:  always,
		approver: func(in GenerateInput) string { return in.Department.PrimaryManagerID },
	},
	{
		typ:      StepDeptManager2,
		include:  func(in GenerateInput) bool { return in.Department.SecondaryManagerID != "" },
		approver: func(in GenerateInput) string { return in.Department.SecondaryManagerID },
	},
	{
		typ: StepDeptManager3,
		include: func(in GenerateInput) bool {
			return in.Department.TertiaryManagerID != "" && in.DistanceKM > in.TertiaryDistanceKM
		},
		approver: func(in GenerateInput) string { return in.Department.TertiaryManagerID },
	},
	{typ: StepFinance, include: always, approver: anyRoleHolder},
}

var projectSteps = []stepTemplate{
	{
		typ:      StepProjectManager,
		include:  always,
		approver: func(in GenerateInput) string { return in.Project.PrimaryManagerID },
	},
	{
		typ:      StepProjectManager2,
		include:  func(in GenerateInput) bool { return in.Project.SecondaryManagerID != "" },
		approver: func(in GenerateInput) string { return in.Project.SecondaryManagerID },
	},
	{typ: StepFinance, include: always, approver: anyRoleHolder},
}

var financeOnlySteps = []stepTemplate{
	{typ: StepFinance, include: always, approver: anyRoleHolder},
}

// Generate builds the ordered step definitions for a new request, or a
// ConfigError when the request cannot legally enter the pipeline. No partial
// sequence is ever returned.
func Generate(in GenerateInput) ([]Step, error) {
	templates, err := sequenceFor(in)
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(templates))
	order := 1
	for _, t := range templates {
		if !t.include(in) {
			continue
		}
		steps = append(steps, Step{
			StepOrder:  order,
			Type:       t.typ,
			ApproverID: t.approver(in),
			Required:   true,
			Status:     StepPending,
		})
		order++
	}
	return steps, nil
}

func sequenceFor(in GenerateInput) ([]stepTemplate, error) {
	switch in.Type {
	case trip.TypeTicket:
		if in.Department == nil || !in.Department.Usable(in.Now) {
			return nil, &ConfigError{Reason: "ticket trip requires an active department"}
		}
		if in.Department.PrimaryManagerID == "" {
			return nil, &ConfigError{Reason: "department has no primary manager configured"}
		}
		return ticketSteps, nil

	case trip.TypePlanned:
		if in.Project == nil || !in.Project.Usable(in.Now) {
			return nil, &ConfigError{Reason: "planned trip requires an active project"}
		}
		if in.Project.PrimaryManagerID == "" {
			return nil, &ConfigError{Reason: "project has no primary manager configured"}
		}
		return projectSteps, nil

	case trip.TypeUrgent:
		if !in.HasPreapprovalDoc {
			return nil, &ConfigError{Reason: "urgent trip requires pre-approval documentation"}
		}
		if in.Project == nil {
			return financeOnlySteps, nil
		}
		if !in.Project.Usable(in.Now) {
			return nil, &ConfigError{Reason: "urgent trip references an inactive project"}
		}
		if in.Project.PrimaryManagerID == "" {
			return nil, &ConfigError{Reason: "project has no primary manager configured"}
		}
		return projectSteps, nil
	}
	return nil, &ConfigError{Reason: "unknown request type"}
}

// InitialStatus is the aggregate status a freshly generated sequence implies.
func InitialStatus(steps []Step) trip.Status {
	if len(steps) == 0 {
		return trip.StatusPendingFinance
	}
	return steps[0].Type.PendingStatus()
}
