package mysql

import (
	"context"
	"errors"
	"testing"

	auditDomain "tripdesk/internal/domain/audit"
	tripDomain "tripdesk/internal/domain/trip"
	"tripdesk/internal/domain/uow"
	workflowDomain "tripdesk/internal/domain/workflow"
	"tripdesk/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openUowTestDB migrates every table, so the unit of work can orchestrate
// all repos together.
func openUowTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&tripSQLite{},
		&tripDomain.StatusHistory{},
		&workflowDomain.Step{},
		&auditDomain.Entry{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	tripRepo := NewTripRepository(db)

	tripID := id.NewID32()
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		tr := makeTrip(tripID, "emp1", "d1")
		if err := r.Trips.Create(ctx, tr); err != nil {
			return err
		}
		return r.Steps.CreateBatch(ctx, []workflowDomain.Step{
			{StepID: id.NewID32(), TripID: tr.ID, StepOrder: 1, Type: workflowDomain.StepFinance, Required: true, Status: workflowDomain.StepPending},
		})
	})
	if err != nil {
		t.Fatalf("WithinTx commit: %v", err)
	}

	// visible outside the transaction
	tr, err := tripRepo.GetByTripID(ctx, tripID)
	if err != nil {
		t.Fatalf("GetByTripID after commit: %v", err)
	}
	steps, err := NewStepRepository(db).ListByTripID(ctx, tr.ID)
	if err != nil || len(steps) != 1 {
		t.Fatalf("steps after commit: %v (%d)", err, len(steps))
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	tripID := id.NewID32()
	wantErr := errors.New("boom")

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Trips.Create(ctx, makeTrip(tripID, "emp1", "d1")); err != nil {
			return err
		}
		if err := r.Audit.Write(ctx, &auditDomain.Entry{
			ActorID: "emp1", Action: auditDomain.ActionCreate,
			EntityType: auditDomain.EntityTrip, EntityID: tripID,
		}); err != nil {
			return err
		}
		return wantErr // force rollback
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("WithinTx should surface the callback error, got %v", err)
	}

	// neither write survived
	if _, err := NewTripRepository(db).GetByTripID(ctx, tripID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found after rollback, got %v", err)
	}
	var n int64
	if err := db.Model(&auditDomain.Entry{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("audit rows survived rollback: %d", n)
	}
}
