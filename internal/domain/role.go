package domain

import "strings"

type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleHRManager      Role = "hr_manager"
	RoleNetworkManager Role = "network_manager"
	RoleEmployee       Role = "employee"
)

var AllRoles = []Role{RoleSuperAdmin, RoleHRManager, RoleNetworkManager, RoleEmployee}

func ParseRole(v string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(v)))
	return r, r.Valid()
}

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleHRManager, RoleNetworkManager, RoleEmployee:
		return true
	}
	return false
}

// IsManager covers every role that supervises other people's work.
func (r Role) IsManager() bool {
	return r == RoleSuperAdmin || r == RoleHRManager || r == RoleNetworkManager
}

func (r Role) String() string {
	return string(r)
}
