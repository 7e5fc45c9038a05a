package mysql

import (
	"context"

	workflowDomain "tripdesk/internal/domain/workflow"

	"gorm.io/gorm"
)

type StepRepository struct{ db *gorm.DB }

func NewStepRepository(db *gorm.DB) *StepRepository { return &StepRepository{db: db} }

func (r *StepRepository) CreateBatch(ctx context.Context, steps []workflowDomain.Step) error {
	if len(steps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&steps).Error
}

func (r *StepRepository) ListByTripID(ctx context.Context, tripNumericID uint64) ([]workflowDomain.Step, error) {
	var out []workflowDomain.Step
	res := r.db.WithContext(ctx).
		Where("trip_id = ?", tripNumericID).
		Order("step_order ASC").
		Find(&out)
	return out, res.Error
}

func (r *StepRepository) Save(ctx context.Context, s *workflowDomain.Step) error {
	return r.db.WithContext(ctx).Save(s).Error
}
