package identity

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("identity record not found")

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleFinance  Role = "finance"
	RoleAdmin    Role = "admin"
)

var validRoles = map[Role]bool{
	RoleEmployee: true,
	RoleManager:  true,
	RoleFinance:  true,
	RoleAdmin:    true,
}

func (r Role) IsValid() bool { return validRoles[r] }

// System-wide roles see every record regardless of management relationships.
func (r Role) IsSystemWide() bool { return r == RoleFinance || r == RoleAdmin }

type Actor struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"-"`
	ActorID      string         `gorm:"size:32;uniqueIndex:ux_actors_actor_id" json:"actor_id"`
	Name         string         `gorm:"size:128" json:"name"`
	Role         Role           `gorm:"type:enum('employee','manager','finance','admin');default:'employee'" json:"role"`
	ActiveRole   Role           `gorm:"size:16" json:"active_role,omitempty"`
	DepartmentID string         `gorm:"size:32;index" json:"department_id"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Actor) TableName() string { return "actors" }

// EffectiveRole is the role every permission check must consult: the
// switched-to role when the actor is acting under one, the assigned role
// otherwise. A manager acting as employee must not keep manager scope.
func (a *Actor) EffectiveRole() Role {
	if a.ActiveRole != "" && a.ActiveRole.IsValid() {
		return a.ActiveRole
	}
	return a.Role
}

type Department struct {
	ID                 uint64         `gorm:"primaryKey;column:id" json:"-"`
	DepartmentID       string         `gorm:"size:32;uniqueIndex:ux_departments_department_id" json:"department_id"`
	Name               string         `gorm:"size:128" json:"name"`
	PrimaryManagerID   string         `gorm:"size:32;index" json:"primary_manager_id"`
	SecondaryManagerID string         `gorm:"size:32;index" json:"secondary_manager_id,omitempty"`
	TertiaryManagerID  string         `gorm:"size:32;index" json:"tertiary_manager_id,omitempty"`
	Active             bool           `gorm:"default:true" json:"active"`
	ExpiresAt          *time.Time     `json:"expires_at,omitempty"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Department) TableName() string { return "departments" }

// Usable reports whether the department may anchor a new request.
func (d *Department) Usable(now time.Time) bool {
	if !d.Active {
		return false
	}
	return d.ExpiresAt == nil || d.ExpiresAt.After(now)
}

type Project struct {
	ID                 uint64         `gorm:"primaryKey;column:id" json:"-"`
	ProjectID          string         `gorm:"size:32;uniqueIndex:ux_projects_project_id" json:"project_id"`
	Name               string         `gorm:"size:128" json:"name"`
	PrimaryManagerID   string         `gorm:"size:32;index" json:"primary_manager_id"`
	SecondaryManagerID string         `gorm:"size:32;index" json:"secondary_manager_id,omitempty"`
	Active             bool           `gorm:"default:true" json:"active"`
	ExpiresAt          *time.Time     `json:"expires_at,omitempty"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) Usable(now time.Time) bool {
	if !p.Active {
		return false
	}
	return p.ExpiresAt == nil || p.ExpiresAt.After(now)
}

// PermissionError carries the role the denied action would have needed, so
// the client message can name it without leaking anything else.
type PermissionError struct {
	RequiredRole string
}

func (e *PermissionError) Error() string {
	if e.RequiredRole == "" {
		return "permission denied"
	}
	return fmt.Sprintf("permission denied: requires %s", e.RequiredRole)
}
