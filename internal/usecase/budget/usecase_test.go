package budget

import (
	"context"
	"errors"
	"testing"

	"tripdesk/internal/domain/audit"
	budgetDomain "tripdesk/internal/domain/budget"
	"tripdesk/internal/domain/identity"
	"tripdesk/internal/domain/uow"
	"tripdesk/internal/testutil/auditmock"
	"tripdesk/internal/testutil/budgetmock"
	"tripdesk/internal/testutil/uowmock"
)

func newTestUsecase(ledger *budgetmock.Mem) (*Usecase, *auditmock.Sink) {
	sink := &auditmock.Sink{}
	tx := uowmock.Passthrough(uow.Repos{Budgets: ledger, Audit: sink})
	return NewUsecase(tx, ledger), sink
}

func finance() *identity.Actor {
	return &identity.Actor{ActorID: "fin1", Role: identity.RoleFinance}
}

func TestAdjust_RoundTripRestoresAvailable(t *testing.T) {
	ledger := budgetmock.NewMem(&budgetDomain.Holder{HolderID: "d1", Kind: budgetDomain.KindDepartment, OriginalBudget: 300})
	u, sink := newTestUsecase(ledger)
	ctx := context.Background()

	up, err := u.Adjust(ctx, finance(), AdjustInput{HolderID: "d1", Amount: 75, Description: "Q4 top-up"})
	if err != nil {
		t.Fatalf("Adjust(+75): %v", err)
	}
	if up.Holder.Available != 375 || up.Transaction.Balance != 375 {
		t.Fatalf("after +75: %+v", up)
	}

	down, err := u.Adjust(ctx, finance(), AdjustInput{HolderID: "d1", Amount: -75, Description: "correction"})
	if err != nil {
		t.Fatalf("Adjust(-75): %v", err)
	}
	if down.Holder.Available != 300 {
		t.Fatalf("after round trip: %+v", down.Holder)
	}

	// two ledger rows, two audit entries; nothing collapsed or elided
	if len(ledger.Txs) != 2 {
		t.Fatalf("ledger rows = %d", len(ledger.Txs))
	}
	if len(sink.Entries) != 2 || sink.Entries[0].Action != audit.ActionAdjust {
		t.Fatalf("audit = %+v", sink.Entries)
	}
}

func TestAdjust_Guards(t *testing.T) {
	ledger := budgetmock.NewMem(&budgetDomain.Holder{HolderID: "d1", OriginalBudget: 100})
	u, _ := newTestUsecase(ledger)
	ctx := context.Background()

	var perm *identity.PermissionError
	mgr := &identity.Actor{ActorID: "mgr1", Role: identity.RoleManager}
	if _, err := u.Adjust(ctx, mgr, AdjustInput{HolderID: "d1", Amount: 10}); !errors.As(err, &perm) {
		t.Fatalf("non-finance adjust: %v", err)
	}

	// finance acting under a switched-down role loses the power too
	demoted := &identity.Actor{ActorID: "fin1", Role: identity.RoleFinance, ActiveRole: identity.RoleEmployee}
	if _, err := u.Adjust(ctx, demoted, AdjustInput{HolderID: "d1", Amount: 10}); !errors.As(err, &perm) {
		t.Fatalf("switched-down finance adjust: %v", err)
	}

	if _, err := u.Adjust(ctx, finance(), AdjustInput{HolderID: "d1", Amount: 0}); !errors.Is(err, ErrZeroAdjustment) {
		t.Fatalf("zero amount: %v", err)
	}
	if _, err := u.Adjust(ctx, finance(), AdjustInput{HolderID: "missing", Amount: 10}); !errors.Is(err, budgetDomain.ErrHolderNotFound) {
		t.Fatalf("missing holder: %v", err)
	}
}

func TestAdjust_NegativeBeyondAvailableIsRejected(t *testing.T) {
	ledger := budgetmock.NewMem(&budgetDomain.Holder{HolderID: "d1", Kind: budgetDomain.KindDepartment, OriginalBudget: 100, Allocated: 80})
	u, sink := newTestUsecase(ledger)
	ctx := context.Background()

	_, err := u.Adjust(ctx, finance(), AdjustInput{HolderID: "d1", Amount: -50, Description: "overcorrection"})
	var exceeded *budgetDomain.ExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("want ExceededError, got %v", err)
	}
	if exceeded.Excess != 30 {
		t.Fatalf("shortfall = %.2f, want 30", exceeded.Excess)
	}

	// the failed adjustment leaves no trace
	if len(ledger.Txs) != 0 {
		t.Fatalf("ledger rows = %+v", ledger.Txs)
	}
	if len(sink.Entries) != 0 {
		t.Fatalf("audit = %+v", sink.Entries)
	}
	h := ledger.Holders["d1"]
	if h.BudgetAdjustments != 0 || h.Available() != 20 {
		t.Fatalf("holder mutated: %+v", h)
	}
}

func TestGetAndHistory(t *testing.T) {
	ledger := budgetmock.NewMem(&budgetDomain.Holder{HolderID: "p1", Kind: budgetDomain.KindProject, OriginalBudget: 500, Allocated: 120})
	u, _ := newTestUsecase(ledger)
	ctx := context.Background()

	if _, err := u.Adjust(ctx, finance(), AdjustInput{HolderID: "p1", Amount: 20}); err != nil {
		t.Fatalf("Adjust: %v", err)
	}

	h, err := u.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if h.Available != 400 {
		t.Fatalf("available = %.2f, want 400", h.Available)
	}

	txs, err := u.History(ctx, "p1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != string(budgetDomain.TxAdjustment) {
		t.Fatalf("history = %+v", txs)
	}
}

func TestBootstrap_AdminOnlyWithInitialRow(t *testing.T) {
	ledger := budgetmock.NewMem()
	u, _ := newTestUsecase(ledger)
	ctx := context.Background()

	var perm *identity.PermissionError
	if _, err := u.Bootstrap(ctx, finance(), BootstrapInput{Name: "ops", Kind: "department", OriginalBudget: 1000}); !errors.As(err, &perm) {
		t.Fatalf("non-admin bootstrap: %v", err)
	}

	admin := &identity.Actor{ActorID: "adm1", Role: identity.RoleAdmin}
	out, err := u.Bootstrap(ctx, admin, BootstrapInput{Name: "ops", Kind: "department", OriginalBudget: 1000})
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if out.Holder.HolderID == "" || out.Holder.Available != 1000 {
		t.Fatalf("holder = %+v", out.Holder)
	}
	if out.Transaction.Type != string(budgetDomain.TxInitial) || out.Transaction.Amount != 1000 {
		t.Fatalf("transaction = %+v", out.Transaction)
	}
}
