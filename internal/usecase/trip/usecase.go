package trip

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tripdesk/internal/domain/audit"
	"tripdesk/internal/domain/identity"
	tripDomain "tripdesk/internal/domain/trip"
	"tripdesk/internal/domain/uow"
	workflowDomain "tripdesk/internal/domain/workflow"
	"tripdesk/internal/usecase/scope"
	"tripdesk/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	uow      uow.UnitOfWork
	trips    tripDomain.Repository
	steps    workflowDomain.Repository
	resolver *scope.Resolver
	// tertiaryDistanceKM is the administrator-set threshold above which a
	// configured tertiary department manager gate applies.
	tertiaryDistanceKM float64
}

func NewUsecase(tx uow.UnitOfWork, trips tripDomain.Repository, steps workflowDomain.Repository, resolver *scope.Resolver, tertiaryDistanceKM float64) *Usecase {
	return &Usecase{
		uow:                tx,
		trips:              trips,
		steps:              steps,
		resolver:           resolver,
		tertiaryDistanceKM: tertiaryDistanceKM,
	}
}

// Create builds the workflow for a new request and persists request, steps,
// opening history row and audit entry in one transaction. A generation
// failure persists nothing.
func (u *Usecase) Create(ctx context.Context, requester *identity.Actor, in CreateInput) (*TripDTO, error) {
	typ := tripDomain.Type(in.Type)
	if !typ.IsValid() {
		return nil, &workflowDomain.ConfigError{Reason: "unknown request type"}
	}
	if in.Cost <= 0 {
		return nil, errors.New("cost must be positive")
	}

	// Ticket and urgent-without-project default to the requester's home
	// department as the budget holder.
	departmentID := in.DepartmentID
	if departmentID == "" && in.ProjectID == "" {
		departmentID = requester.DepartmentID
	}

	var dto *TripDTO
	now := time.Now().UTC()

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		gin := workflowDomain.GenerateInput{
			Type:               typ,
			DistanceKM:         in.DistanceKM,
			HasPreapprovalDoc:  in.HasPreapprovalDoc,
			TertiaryDistanceKM: u.tertiaryDistanceKM,
			Now:                now,
		}
		if departmentID != "" {
			d, err := r.Identity.GetDepartment(ctx, departmentID)
			if err != nil {
				if errors.Is(err, identity.ErrNotFound) {
					return &workflowDomain.ConfigError{Reason: "department cannot be resolved"}
				}
				return err
			}
			gin.Department = d
		}
		if in.ProjectID != "" {
			p, err := r.Identity.GetProject(ctx, in.ProjectID)
			if err != nil {
				if errors.Is(err, identity.ErrNotFound) {
					return &workflowDomain.ConfigError{Reason: "project cannot be resolved"}
				}
				return err
			}
			gin.Project = p
		}

		steps, err := workflowDomain.Generate(gin)
		if err != nil {
			return err
		}

		t := &tripDomain.Request{
			TripID:            id.NewID32(),
			RequesterID:       requester.ActorID,
			Type:              typ,
			DepartmentID:      departmentID,
			ProjectID:         in.ProjectID,
			Cost:              in.Cost,
			DistanceKM:        in.DistanceKM,
			HasPreapprovalDoc: in.HasPreapprovalDoc,
			Status:            workflowDomain.InitialStatus(steps),
			BudgetState:       tripDomain.BudgetNone,
			StatusUpdatedAt:   now,
		}
		if err := r.Trips.Create(ctx, t); err != nil {
			return err
		}

		for i := range steps {
			steps[i].StepID = id.NewID32()
			steps[i].TripID = t.ID
		}
		if err := r.Steps.CreateBatch(ctx, steps); err != nil {
			return err
		}

		if err := r.Trips.AppendHistory(ctx, &tripDomain.StatusHistory{
			TripID:  t.ID,
			Status:  t.Status,
			ActorID: requester.ActorID,
		}); err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]any{"type": in.Type, "cost": in.Cost, "steps": len(steps)})
		if err := r.Audit.Write(ctx, &audit.Entry{
			ActorID:    requester.ActorID,
			Action:     audit.ActionCreate,
			EntityType: audit.EntityTrip,
			EntityID:   t.TripID,
			Details:    string(details),
		}); err != nil {
			return err
		}

		dto = ToDTO(t, steps)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Get is point access: the record must sit inside the actor's visible set.
func (u *Usecase) Get(ctx context.Context, actor *identity.Actor, tripID string) (*TripDTO, error) {
	t, err := u.trips.GetByTripID(ctx, tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tripDomain.ErrNotFound
		}
		return nil, err
	}

	s, err := u.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !s.Covers(t) {
		return nil, &identity.PermissionError{}
	}

	steps, err := u.steps.ListByTripID(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return ToDTO(t, workflowDomain.Sorted(steps)), nil
}

// List returns the actor's visible requests, filtered at the query.
func (u *Usecase) List(ctx context.Context, actor *identity.Actor, in ListInput) ([]TripDTO, error) {
	s, err := u.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	trips, err := u.trips.ListVisible(ctx, s.TripScope(), tripDomain.ListFilter{
		Status: tripDomain.Status(in.Status),
		Type:   tripDomain.Type(in.Type),
	})
	if err != nil {
		return nil, err
	}

	out := make([]TripDTO, 0, len(trips))
	for i := range trips {
		out = append(out, *ToDTO(&trips[i], nil))
	}
	return out, nil
}
