package approval

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tripdesk/internal/domain/audit"
	"tripdesk/internal/domain/budget"
	"tripdesk/internal/domain/identity"
	tripDomain "tripdesk/internal/domain/trip"
	"tripdesk/internal/domain/uow"
	workflowDomain "tripdesk/internal/domain/workflow"
	tripUC "tripdesk/internal/usecase/trip"
)

// Pay marks an approved request paid on behalf of the payment collaborator.
// The live allocation converts to spend; available does not move.
func (u *Usecase) Pay(ctx context.Context, actor *identity.Actor, tripID string) (*tripUC.TripDTO, error) {
	if actor.EffectiveRole() != identity.RoleFinance {
		return nil, &identity.PermissionError{RequiredRole: "finance"}
	}
	return u.settle(ctx, actor, tripID, tripDomain.StatusPaid, "")
}

// Cancel withdraws an approved request. The requester or finance may cancel;
// a live allocation is released.
func (u *Usecase) Cancel(ctx context.Context, actor *identity.Actor, tripID string, reason string) (*tripUC.TripDTO, error) {
	return u.settle(ctx, actor, tripID, tripDomain.StatusCancelled, reason)
}

func (u *Usecase) settle(ctx context.Context, actor *identity.Actor, tripID string, target tripDomain.Status, reason string) (*tripUC.TripDTO, error) {
	var dto *tripUC.TripDTO
	now := time.Now().UTC()

	err := u.uow.WithinTripTx(ctx, tripID, func(r uow.Repos, t *tripDomain.Request) error {
		if target == tripDomain.StatusCancelled &&
			actor.ActorID != t.RequesterID && actor.EffectiveRole() != identity.RoleFinance {
			return &identity.PermissionError{RequiredRole: "finance"}
		}
		if t.Status != tripDomain.StatusApproved {
			return ErrNotApproved
		}

		if t.BudgetState == tripDomain.BudgetAllocated && t.HolderID() != "" {
			if target == tripDomain.StatusPaid {
				if _, err := budget.Spend(ctx, r.Budgets, t.HolderID(), t.Cost, t.TripID, actor.ActorID); err != nil {
					return err
				}
				t.BudgetState = tripDomain.BudgetSpent
			} else {
				if _, err := budget.Deallocate(ctx, r.Budgets, t.HolderID(), t.Cost, t.TripID, actor.ActorID); err != nil {
					return err
				}
				t.BudgetState = tripDomain.BudgetNone
			}
		}

		t.Status = target
		t.StatusUpdatedAt = now
		if err := r.Trips.Save(ctx, t); err != nil {
			return err
		}
		if err := r.Trips.AppendHistory(ctx, &tripDomain.StatusHistory{
			TripID:  t.ID,
			Status:  target,
			ActorID: actor.ActorID,
			Reason:  reason,
		}); err != nil {
			return err
		}

		action := audit.ActionPay
		if target == tripDomain.StatusCancelled {
			action = audit.ActionCancel
		}
		if err := r.Audit.Write(ctx, &audit.Entry{
			ActorID:    actor.ActorID,
			Action:     action,
			EntityType: audit.EntityTrip,
			EntityID:   t.TripID,
		}); err != nil {
			return err
		}

		dto = tripUC.ToDTO(t, nil)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = tripDomain.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// Repair is the explicit administrative recovery for corrupted workflows:
// approved steps sitting after the earliest pending order go back to
// pending and the aggregate status is recomputed. Never invoked implicitly.
func (u *Usecase) Repair(ctx context.Context, actor *identity.Actor, tripID string) (*tripUC.TripDTO, error) {
	if actor.EffectiveRole() != identity.RoleAdmin {
		return nil, &identity.PermissionError{RequiredRole: "admin"}
	}

	var dto *tripUC.TripDTO
	now := time.Now().UTC()

	err := u.uow.WithinTripTx(ctx, tripID, func(r uow.Repos, t *tripDomain.Request) error {
		steps, err := r.Steps.ListByTripID(ctx, t.ID)
		if err != nil {
			return err
		}
		cur, err := workflowDomain.CurrentStep(steps)
		if err != nil {
			return ErrNotCorrupted
		}
		if workflowDomain.CheckIntegrity(steps, t.TripID) == nil {
			return ErrNotCorrupted
		}

		reset := 0
		for i := range steps {
			s := &steps[i]
			if s.Status == workflowDomain.StepApproved && s.StepOrder > cur.StepOrder {
				s.Status = workflowDomain.StepPending
				s.ApprovedBy = ""
				s.ApprovedAt = nil
				if err := r.Steps.Save(ctx, s); err != nil {
					return err
				}
				reset++
			}
		}

		t.Status = workflowDomain.AggregateStatus(steps)
		t.StatusUpdatedAt = now
		if err := r.Trips.Save(ctx, t); err != nil {
			return err
		}
		if err := r.Trips.AppendHistory(ctx, &tripDomain.StatusHistory{
			TripID:  t.ID,
			Status:  t.Status,
			ActorID: actor.ActorID,
			Reason:  "administrative workflow repair",
		}); err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]any{"steps_reset": reset})
		if err := r.Audit.Write(ctx, &audit.Entry{
			ActorID:    actor.ActorID,
			Action:     audit.ActionRepair,
			EntityType: audit.EntityTrip,
			EntityID:   t.TripID,
			Details:    string(details),
		}); err != nil {
			return err
		}

		u.log.Warn("workflow repaired",
			zap.String("trip_id", t.TripID),
			zap.Int("steps_reset", reset),
			zap.String("actor", actor.ActorID))

		dto = tripUC.ToDTO(t, workflowDomain.Sorted(steps))
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = tripDomain.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}
