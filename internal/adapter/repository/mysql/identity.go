package mysql

import (
	"context"
	"errors"

	identityDomain "tripdesk/internal/domain/identity"

	"gorm.io/gorm"
)

// IdentityRepository reads reference data only; writes belong to external
// collaborators.
type IdentityRepository struct{ db *gorm.DB }

func NewIdentityRepository(db *gorm.DB) *IdentityRepository { return &IdentityRepository{db: db} }

func (r *IdentityRepository) GetActor(ctx context.Context, actorID string) (*identityDomain.Actor, error) {
	var out identityDomain.Actor
	res := r.db.WithContext(ctx).Where("actor_id = ?", actorID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, identityDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *IdentityRepository) GetDepartment(ctx context.Context, departmentID string) (*identityDomain.Department, error) {
	var out identityDomain.Department
	res := r.db.WithContext(ctx).Where("department_id = ?", departmentID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, identityDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *IdentityRepository) GetProject(ctx context.Context, projectID string) (*identityDomain.Project, error) {
	var out identityDomain.Project
	res := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, identityDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *IdentityRepository) ManagedDepartmentIDs(ctx context.Context, actorID string) ([]string, error) {
	var out []string
	res := r.db.WithContext(ctx).
		Model(&identityDomain.Department{}).
		Where("primary_manager_id = ? OR secondary_manager_id = ? OR tertiary_manager_id = ?",
			actorID, actorID, actorID).
		Pluck("department_id", &out)
	return out, res.Error
}

func (r *IdentityRepository) ManagedProjectIDs(ctx context.Context, actorID string) ([]string, error) {
	var out []string
	res := r.db.WithContext(ctx).
		Model(&identityDomain.Project{}).
		Where("primary_manager_id = ? OR secondary_manager_id = ?", actorID, actorID).
		Pluck("project_id", &out)
	return out, res.Error
}
