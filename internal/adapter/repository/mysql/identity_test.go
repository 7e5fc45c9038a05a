package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	identityDomain "tripdesk/internal/domain/identity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schema only for tests (no ENUM) ---

type actorSQLite struct {
	ID           uint64         `gorm:"primaryKey;column:id"`
	ActorID      string         `gorm:"size:32;column:actor_id"`
	Name         string         `gorm:"column:name"`
	Role         string         `gorm:"type:text;column:role"` // no enum
	ActiveRole   string         `gorm:"column:active_role"`
	DepartmentID string         `gorm:"column:department_id"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (actorSQLite) TableName() string { return "actors" }

func openIdentityTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&actorSQLite{}, &identityDomain.Department{}, &identityDomain.Project{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func TestGetActor(t *testing.T) {
	db := openIdentityTestDB(t)
	repo := NewIdentityRepository(db)
	ctx := context.Background()

	if err := db.Create(&actorSQLite{ActorID: "mgr1", Name: "Sam", Role: "manager", DepartmentID: "d1"}).Error; err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetActor(ctx, "mgr1")
	if err != nil {
		t.Fatalf("GetActor: %v", err)
	}
	if got.Role != identityDomain.RoleManager || got.DepartmentID != "d1" {
		t.Errorf("unexpected actor: %+v", got)
	}

	if _, err := repo.GetActor(ctx, "ghost"); !errors.Is(err, identityDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestManagedDepartmentIDs_AllThreeSlots(t *testing.T) {
	db := openIdentityTestDB(t)
	repo := NewIdentityRepository(db)
	ctx := context.Background()

	seed := []identityDomain.Department{
		{DepartmentID: "d1", Name: "eng", PrimaryManagerID: "mgr1", Active: true},
		{DepartmentID: "d2", Name: "ops", SecondaryManagerID: "mgr1", Active: true},
		{DepartmentID: "d3", Name: "hr", TertiaryManagerID: "mgr1", Active: true},
		{DepartmentID: "d4", Name: "sales", PrimaryManagerID: "mgr2", Active: true},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.ManagedDepartmentIDs(ctx, "mgr1")
	if err != nil {
		t.Fatalf("ManagedDepartmentIDs: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("managed = %v", got)
	}

	got, err = repo.ManagedDepartmentIDs(ctx, "nobody")
	if err != nil {
		t.Fatalf("ManagedDepartmentIDs(nobody): %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("managed = %v", got)
	}
}

func TestManagedProjectIDs(t *testing.T) {
	db := openIdentityTestDB(t)
	repo := NewIdentityRepository(db)
	ctx := context.Background()

	seed := []identityDomain.Project{
		{ProjectID: "p1", Name: "atlas", PrimaryManagerID: "pm1", Active: true},
		{ProjectID: "p2", Name: "hermes", SecondaryManagerID: "pm1", Active: true},
		{ProjectID: "p3", Name: "iris", PrimaryManagerID: "pm2", Active: true},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.ManagedProjectIDs(ctx, "pm1")
	if err != nil {
		t.Fatalf("ManagedProjectIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("managed = %v", got)
	}
}

func TestGetDepartmentAndProject(t *testing.T) {
	db := openIdentityTestDB(t)
	repo := NewIdentityRepository(db)
	ctx := context.Background()

	exp := time.Now().UTC().Add(24 * time.Hour)
	if err := db.Create(&identityDomain.Department{DepartmentID: "d1", Name: "eng", PrimaryManagerID: "mgr1", Active: true, ExpiresAt: &exp}).Error; err != nil {
		t.Fatal(err)
	}

	d, err := repo.GetDepartment(ctx, "d1")
	if err != nil {
		t.Fatalf("GetDepartment: %v", err)
	}
	if !d.Usable(time.Now().UTC()) {
		t.Errorf("department should be usable: %+v", d)
	}

	if _, err := repo.GetProject(ctx, "missing"); !errors.Is(err, identityDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
