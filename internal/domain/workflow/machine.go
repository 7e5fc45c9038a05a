package workflow

import (
	"sort"

	"tripdesk/internal/domain/trip"
)

// Sorted returns the steps ordered by step order. Callers get a copy; the
// input slice is never reordered in place.
func Sorted(steps []Step) []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	sort.Slice(out, func(i, j int) bool { return out[i].StepOrder < out[j].StepOrder })
	return out
}

// CurrentStep is the lowest-order step still pending. ErrNoCurrentStep means
// the workflow already ran to completion or termination.
func CurrentStep(steps []Step) (*Step, error) {
	var cur *Step
	for i := range steps {
		s := &steps[i]
		if s.Status != StepPending {
			continue
		}
		if cur == nil || s.StepOrder < cur.StepOrder {
			cur = s
		}
	}
	if cur == nil {
		return nil, ErrNoCurrentStep
	}
	return cur, nil
}

// CheckIntegrity enforces the corruption guard: no approved step may sit
// after the current pending step's order.
func CheckIntegrity(steps []Step, tripID string) error {
	cur, err := CurrentStep(steps)
	if err != nil {
		return nil // fully processed workflows have nothing to guard
	}
	for i := range steps {
		if steps[i].Status == StepApproved && steps[i].StepOrder > cur.StepOrder {
			return &CorruptionError{TripID: tripID}
		}
	}
	return nil
}

// AggregateStatus derives the request's single status label from its steps:
// the pending label of the earliest required pending step, or Approved when
// none remains. Rejection is decided by the caller, not derived here.
func AggregateStatus(steps []Step) trip.Status {
	var next *Step
	for i := range steps {
		s := &steps[i]
		if s.Status != StepPending || !s.Required {
			continue
		}
		if next == nil || s.StepOrder < next.StepOrder {
			next = s
		}
	}
	if next == nil {
		return trip.StatusApproved
	}
	return next.Type.PendingStatus()
}
