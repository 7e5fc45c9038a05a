package approval

import (
	"context"
	"errors"
	"testing"

	"tripdesk/internal/domain/budget"
	"tripdesk/internal/domain/identity"
	tripDomain "tripdesk/internal/domain/trip"
	workflowDomain "tripdesk/internal/domain/workflow"
	"tripdesk/internal/testutil/budgetmock"
)

func approvedTrip(f *fixture, tripID, holderID string, cost float64) {
	f.addTrip(&tripDomain.Request{
		TripID: tripID, RequesterID: "emp1", Type: tripDomain.TypeTicket,
		DepartmentID: holderID, Cost: cost,
		Status: tripDomain.StatusApproved, BudgetState: tripDomain.BudgetAllocated,
	})
}

func TestPay_ConvertsAllocationToSpend(t *testing.T) {
	ledger := budgetmock.NewMem(&budget.Holder{HolderID: "d1", Kind: budget.KindDepartment, OriginalBudget: 200, Allocated: 120})
	f := newFixture(ledger)
	approvedTrip(f, "t1", "d1", 120)

	before := ledger.Holders["d1"].Available()

	dto, err := f.u.Pay(context.Background(), financier("fin1"), "t1")
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if dto.Status != string(tripDomain.StatusPaid) {
		t.Fatalf("status = %s", dto.Status)
	}

	h := ledger.Holders["d1"]
	if h.Allocated != 0 || h.Spent != 120 {
		t.Fatalf("holder = %+v", h)
	}
	// paying does not free budget
	if h.Available() != before {
		t.Fatalf("available moved from %.2f to %.2f", before, h.Available())
	}
	if f.trips["t1"].BudgetState != tripDomain.BudgetSpent {
		t.Fatalf("budget state = %s", f.trips["t1"].BudgetState)
	}
}

func TestPay_RequiresFinanceRole(t *testing.T) {
	f := newFixture(budgetmock.NewMem())
	approvedTrip(f, "t1", "d1", 50)

	var perm *identity.PermissionError
	if _, err := f.u.Pay(context.Background(), manager("mgr1"), "t1"); !errors.As(err, &perm) {
		t.Fatalf("want PermissionError, got %v", err)
	}
}

func TestPay_OnlyApprovedRequests(t *testing.T) {
	f := newFixture(budgetmock.NewMem())
	f.addTrip(&tripDomain.Request{
		TripID: "t1", RequesterID: "emp1", Type: tripDomain.TypeTicket,
		Status: tripDomain.StatusPendingFinance, BudgetState: tripDomain.BudgetNone,
	})

	if _, err := f.u.Pay(context.Background(), financier("fin1"), "t1"); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("want ErrNotApproved, got %v", err)
	}
}

func TestCancel_RequesterReleasesAllocation(t *testing.T) {
	ledger := budgetmock.NewMem(&budget.Holder{HolderID: "d1", Kind: budget.KindDepartment, OriginalBudget: 200, Allocated: 120})
	f := newFixture(ledger)
	approvedTrip(f, "t1", "d1", 120)

	requester := &identity.Actor{ActorID: "emp1", Role: identity.RoleEmployee}
	dto, err := f.u.Cancel(context.Background(), requester, "t1", "plans changed")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if dto.Status != string(tripDomain.StatusCancelled) {
		t.Fatalf("status = %s", dto.Status)
	}
	if h := ledger.Holders["d1"]; h.Allocated != 0 || h.Available() != 200 {
		t.Fatalf("holder = %+v", h)
	}
}

func TestCancel_StrangerIsDenied(t *testing.T) {
	f := newFixture(budgetmock.NewMem())
	approvedTrip(f, "t1", "d1", 50)

	stranger := &identity.Actor{ActorID: "emp2", Role: identity.RoleEmployee}
	var perm *identity.PermissionError
	if _, err := f.u.Cancel(context.Background(), stranger, "t1", "nope"); !errors.As(err, &perm) {
		t.Fatalf("want PermissionError, got %v", err)
	}
}

func TestRepair_ResetsApprovalsAfterTheGap(t *testing.T) {
	f := newFixture(budgetmock.NewMem())

	skippedGate := pendingStep(1, workflowDomain.StepDeptManager, "mgr1")
	wronglyApproved := pendingStep(2, workflowDomain.StepFinance, "")
	wronglyApproved.Status = workflowDomain.StepApproved
	wronglyApproved.ApprovedBy = "fin1"
	f.addTrip(&tripDomain.Request{
		TripID: "t1", RequesterID: "emp1", Type: tripDomain.TypeTicket, DepartmentID: "d1",
		Status: tripDomain.StatusApproved, BudgetState: tripDomain.BudgetNone,
	}, skippedGate, wronglyApproved)

	admin := &identity.Actor{ActorID: "adm1", Role: identity.RoleAdmin}
	dto, err := f.u.Repair(context.Background(), admin, "t1")
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}

	steps := f.steps[1]
	if steps[1].Status != workflowDomain.StepPending || steps[1].ApprovedBy != "" || steps[1].ApprovedAt != nil {
		t.Fatalf("approval not reset: %+v", steps[1])
	}
	if dto.Status != string(tripDomain.StatusPendingDepartment) {
		t.Fatalf("aggregate after repair = %s", dto.Status)
	}
	if len(f.sink.Entries) != 1 {
		t.Fatalf("audit = %+v", f.sink.Entries)
	}
}

func TestRepair_GuardsRoleAndConsistency(t *testing.T) {
	f := newFixture(budgetmock.NewMem())
	f.addTrip(&tripDomain.Request{
		TripID: "t1", RequesterID: "emp1", Type: tripDomain.TypeTicket, DepartmentID: "d1",
		Status: tripDomain.StatusPendingDepartment, BudgetState: tripDomain.BudgetNone,
	},
		pendingStep(1, workflowDomain.StepDeptManager, "mgr1"),
		pendingStep(2, workflowDomain.StepFinance, ""),
	)

	var perm *identity.PermissionError
	if _, err := f.u.Repair(context.Background(), financier("fin1"), "t1"); !errors.As(err, &perm) {
		t.Fatalf("non-admin repair: %v", err)
	}

	admin := &identity.Actor{ActorID: "adm1", Role: identity.RoleAdmin}
	if _, err := f.u.Repair(context.Background(), admin, "t1"); !errors.Is(err, ErrNotCorrupted) {
		t.Fatalf("repair of a healthy workflow: %v", err)
	}
}
