package mysql

import (
	"context"

	"tripdesk/internal/domain/trip"
	"tripdesk/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Trips:    &TripRepository{db: tx},
		Steps:    &StepRepository{db: tx},
		Budgets:  &BudgetRepository{db: tx},
		Identity: &IdentityRepository{db: tx},
		Audit:    &AuditRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinTripTx(ctx context.Context, tripID string, fn func(r uow.Repos, t *trip.Request) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the trip row up-front to prevent races
		t, err := r.Trips.GetByTripIDForUpdate(ctx, tripID)
		if err != nil {
			return err
		}
		return fn(r, t)
	})
}
