package rbac

import "time"

// RoleGrant is one (role, resource, action) row. Rows for a role replace
// its built-in grants entirely.
type RoleGrant struct {
	Role      string    `gorm:"type:varchar(30);primaryKey"`
	Resource  string    `gorm:"type:varchar(40);primaryKey"`
	Action    string    `gorm:"type:varchar(20);primaryKey"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (RoleGrant) TableName() string { return "role_permissions" }
