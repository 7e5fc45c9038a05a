package approval

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tripdesk/internal/domain/audit"
	"tripdesk/internal/domain/identity"
	"tripdesk/internal/domain/uow"
)

var ErrEmptyBatch = errors.New("batch contains no trip ids")

// Bulk applies one action to many requests with per-item isolation: every id
// runs its own transaction, and one failure never blocks or rolls back the
// others. Budget enforcement happened per item; the returned impact is a
// report, not a reservation.
func (u *Usecase) Bulk(ctx context.Context, actor *identity.Actor, in BatchInput) (*BatchResult, error) {
	if len(in.TripIDs) == 0 {
		return nil, ErrEmptyBatch
	}
	if in.Action != ActionApprove && in.Action != ActionReject {
		return nil, ErrUnknownAction
	}
	if in.Action == ActionReject && in.Reason == "" {
		return nil, ErrReasonNeeded
	}

	res := &BatchResult{
		BatchID:   uuid.NewString(),
		Succeeded: []string{},
		Errors:    []BatchError{},
	}

	for _, tripID := range in.TripIDs {
		_, imp, err := u.transition(ctx, actor, TransitionInput{
			TripID: tripID,
			Action: in.Action,
			Reason: in.Reason,
		})
		if err != nil {
			res.Errors = append(res.Errors, BatchError{TripID: tripID, Reason: err.Error()})
			// the item's tx rolled back, so its failure is recorded separately
			failDetails, _ := json.Marshal(map[string]any{"action": in.Action, "reason": err.Error()})
			if werr := u.uow.WithinTx(ctx, func(r uow.Repos) error {
				return r.Audit.Write(ctx, &audit.Entry{
					ActorID:    actor.ActorID,
					Action:     audit.ActionBulkItemError,
					EntityType: audit.EntityTrip,
					EntityID:   tripID,
					Details:    string(failDetails),
				})
			}); werr != nil {
				u.log.Error("bulk item audit write failed",
					zap.String("trip_id", tripID), zap.Error(werr))
			}
			continue
		}
		res.Succeeded = append(res.Succeeded, tripID)
		res.BudgetImpact.Allocations += imp.allocated
		res.BudgetImpact.Deallocations += imp.deallocated
	}

	// Batch summary is its own audit entry in its own transaction; the
	// per-item entries already committed with their items.
	details, _ := json.Marshal(map[string]any{
		"action":        in.Action,
		"requested":     len(in.TripIDs),
		"succeeded":     len(res.Succeeded),
		"failed":        len(res.Errors),
		"allocations":   res.BudgetImpact.Allocations,
		"deallocations": res.BudgetImpact.Deallocations,
	})
	if err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Audit.Write(ctx, &audit.Entry{
			ActorID:    actor.ActorID,
			Action:     audit.ActionBulkSummary,
			EntityType: audit.EntityBatch,
			EntityID:   res.BatchID,
			Details:    string(details),
		})
	}); err != nil {
		// items are committed; a lost summary is logged, not failed
		u.log.Error("bulk summary audit write failed",
			zap.String("batch_id", res.BatchID), zap.Error(err))
	}

	return res, nil
}
