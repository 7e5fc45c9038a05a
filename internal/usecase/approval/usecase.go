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
	"tripdesk/internal/usecase/scope"
	tripUC "tripdesk/internal/usecase/trip"
)

type Usecase struct {
	uow      uow.UnitOfWork
	resolver *scope.Resolver
	log      *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, resolver *scope.Resolver, log *zap.Logger) *Usecase {
	return &Usecase{uow: tx, resolver: resolver, log: log}
}

// Transition runs one approve/reject call through the state machine. Step
// update, aggregate status, ledger operation, history and audit rows commit
// as one unit or not at all.
func (u *Usecase) Transition(ctx context.Context, actor *identity.Actor, in TransitionInput) (*tripUC.TripDTO, error) {
	dto, _, err := u.transition(ctx, actor, in)
	return dto, err
}

func (u *Usecase) transition(ctx context.Context, actor *identity.Actor, in TransitionInput) (*tripUC.TripDTO, impact, error) {
	var imp impact

	switch in.Action {
	case ActionApprove:
	case ActionReject:
		if in.Reason == "" {
			return nil, imp, ErrReasonNeeded
		}
	default:
		return nil, imp, ErrUnknownAction
	}

	actorScope, err := u.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, imp, err
	}

	var dto *tripUC.TripDTO
	now := time.Now().UTC()

	err = u.uow.WithinTripTx(ctx, in.TripID, func(r uow.Repos, t *tripDomain.Request) error {
		if !actorScope.Covers(t) {
			return &identity.PermissionError{}
		}

		steps, err := r.Steps.ListByTripID(ctx, t.ID)
		if err != nil {
			return err
		}

		cur, err := workflowDomain.CurrentStep(steps)
		if err != nil {
			// already terminal (or fully approved): nothing to act on
			return &identity.PermissionError{}
		}
		if err := workflowDomain.CheckIntegrity(steps, t.TripID); err != nil {
			u.log.Error("workflow corruption detected",
				zap.String("trip_id", t.TripID),
				zap.Int("current_order", cur.StepOrder))
			return err
		}
		if err := approverAllowed(cur, actor); err != nil {
			return err
		}

		if in.Action == ActionApprove {
			imp, err = u.approve(ctx, r, t, steps, cur, actor, now)
		} else {
			imp, err = u.reject(ctx, r, t, steps, cur, actor, in.Reason, now)
		}
		if err != nil {
			return err
		}

		t.StatusUpdatedAt = now
		if err := r.Trips.Save(ctx, t); err != nil {
			return err
		}
		if err := r.Trips.AppendHistory(ctx, &tripDomain.StatusHistory{
			TripID:  t.ID,
			Status:  t.Status,
			ActorID: actor.ActorID,
			Reason:  in.Reason,
		}); err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]any{
			"step_id":     cur.StepID,
			"step_type":   cur.Type,
			"status":      t.Status,
			"allocated":   imp.allocated,
			"deallocated": imp.deallocated,
		})
		action := audit.ActionApprove
		if in.Action == ActionReject {
			action = audit.ActionReject
		}
		if err := r.Audit.Write(ctx, &audit.Entry{
			ActorID:    actor.ActorID,
			Action:     action,
			EntityType: audit.EntityTrip,
			EntityID:   t.TripID,
			Details:    string(details),
		}); err != nil {
			return err
		}

		dto = tripUC.ToDTO(t, workflowDomain.Sorted(steps))
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = tripDomain.ErrNotFound
		}
		return nil, impact{}, err
	}
	return dto, imp, nil
}

// approverAllowed checks the actor against the step's designated approver:
// the pinned actor id, or any holder of the finance role for the unpinned
// finance gate. Repair and other admin powers do not bypass this.
func approverAllowed(cur *workflowDomain.Step, actor *identity.Actor) error {
	if cur.ApproverID != "" {
		if cur.ApproverID != actor.ActorID {
			return &identity.PermissionError{RequiredRole: cur.Type.RoleName()}
		}
		return nil
	}
	if cur.Type == workflowDomain.StepFinance && actor.EffectiveRole() == identity.RoleFinance {
		return nil
	}
	return &identity.PermissionError{RequiredRole: cur.Type.RoleName()}
}

func (u *Usecase) approve(ctx context.Context, r uow.Repos, t *tripDomain.Request, steps []workflowDomain.Step, cur *workflowDomain.Step, actor *identity.Actor, now time.Time) (impact, error) {
	var imp impact

	// Budget reservation happens on approval of the workflow's first step,
	// uniformly for every request type. Allocation failure aborts the whole
	// transition before the step is touched.
	if isFirstStep(steps, cur) && t.BudgetState == tripDomain.BudgetNone && t.HolderID() != "" {
		if _, err := budget.Allocate(ctx, r.Budgets, t.HolderID(), t.Cost, t.TripID, actor.ActorID); err != nil {
			return imp, err
		}
		t.BudgetState = tripDomain.BudgetAllocated
		imp.allocated = t.Cost
	}

	cur.Status = workflowDomain.StepApproved
	cur.ApprovedBy = actor.ActorID
	cur.ApprovedAt = &now
	if err := r.Steps.Save(ctx, cur); err != nil {
		return imp, err
	}

	t.Status = workflowDomain.AggregateStatus(steps)
	return imp, nil
}

func (u *Usecase) reject(ctx context.Context, r uow.Repos, t *tripDomain.Request, steps []workflowDomain.Step, cur *workflowDomain.Step, actor *identity.Actor, reason string, now time.Time) (impact, error) {
	var imp impact

	cur.Status = workflowDomain.StepRejected
	cur.ApprovedBy = actor.ActorID
	cur.ApprovedAt = &now
	cur.Reason = reason
	if err := r.Steps.Save(ctx, cur); err != nil {
		return imp, err
	}

	// Later gates never run; freeze them.
	for i := range steps {
		s := &steps[i]
		if s.Status == workflowDomain.StepPending && s.StepOrder > cur.StepOrder {
			s.Status = workflowDomain.StepSkipped
			if err := r.Steps.Save(ctx, s); err != nil {
				return imp, err
			}
		}
	}

	if t.BudgetState == tripDomain.BudgetAllocated && t.HolderID() != "" {
		if _, err := budget.Deallocate(ctx, r.Budgets, t.HolderID(), t.Cost, t.TripID, actor.ActorID); err != nil {
			return imp, err
		}
		t.BudgetState = tripDomain.BudgetNone
		imp.deallocated = t.Cost
	}

	t.Status = tripDomain.StatusRejected
	return imp, nil
}

func isFirstStep(steps []workflowDomain.Step, cur *workflowDomain.Step) bool {
	for i := range steps {
		if steps[i].StepOrder < cur.StepOrder {
			return false
		}
	}
	return true
}
