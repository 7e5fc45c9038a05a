package mysql

import (
	"context"

	tripDomain "tripdesk/internal/domain/trip"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TripRepository struct{ db *gorm.DB }

func NewTripRepository(db *gorm.DB) *TripRepository { return &TripRepository{db: db} }

func (r *TripRepository) Create(ctx context.Context, t *tripDomain.Request) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TripRepository) Save(ctx context.Context, t *tripDomain.Request) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TripRepository) GetByTripID(ctx context.Context, tripID string) (*tripDomain.Request, error) {
	var out tripDomain.Request
	res := r.db.WithContext(ctx).Where("trip_id = ?", tripID).First(&out)
	return &out, res.Error
}

func (r *TripRepository) GetByTripIDForUpdate(ctx context.Context, tripID string) (*tripDomain.Request, error) {
	var out tripDomain.Request
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("trip_id = ?", tripID).
		First(&out)
	return &out, res.Error
}

// ListVisible pushes the resolved scope into the WHERE clause. Nothing is
// fetched outside the actor's visible set.
func (r *TripRepository) ListVisible(ctx context.Context, scope tripDomain.VisibleScope, filter tripDomain.ListFilter) ([]tripDomain.Request, error) {
	q := r.db.WithContext(ctx).Model(&tripDomain.Request{})

	if !scope.ViewAll {
		cond := r.db.Where("requester_id = ?", scope.ActorID)
		if len(scope.DepartmentIDs) > 0 {
			cond = cond.Or("department_id IN ?", scope.DepartmentIDs)
		}
		if len(scope.ProjectIDs) > 0 {
			cond = cond.Or("project_id IN ?", scope.ProjectIDs)
		}
		q = q.Where(cond)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var out []tripDomain.Request
	res := q.Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}

func (r *TripRepository) AppendHistory(ctx context.Context, h *tripDomain.StatusHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *TripRepository) HistoryByTripID(ctx context.Context, tripNumericID uint64) ([]tripDomain.StatusHistory, error) {
	var out []tripDomain.StatusHistory
	res := r.db.WithContext(ctx).
		Where("trip_id = ?", tripNumericID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
