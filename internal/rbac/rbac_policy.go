package rbac

import "go-hrops/internal/domain"

type permission struct {
	resource string
	action   string
}

// Catalog lists every resource and the actions routes check against it.
var Catalog = map[string][]string{
	"attendance":   {"create", "read", "report", "process"},
	"audit":        {"read"},
	"biodata":      {"read", "review"},
	"dashboard":    {"read"},
	"inventory":    {"create", "read", "update", "delete"},
	"notification": {"send"},
	"profile":      {"create", "read", "update", "terminate", "delete"},
	"project":      {"create", "read", "update", "delete"},
	"rbac":         {"read", "update"},
	"salary":       {"read", "update"},
	"settings":     {"read", "update"},
	"suspension":   {"create", "read", "approve"},
	"task":         {"create", "read", "update", "delete"},
	"task_bin":     {"read", "restore", "purge"},
	"user":         {"create", "update", "delete"},
}

func validPermission(resource, action string) bool {
	for _, a := range Catalog[resource] {
		if a == action {
			return true
		}
	}
	return false
}

func all(resource string) []permission {
	out := make([]permission, 0, len(Catalog[resource]))
	for _, a := range Catalog[resource] {
		out = append(out, permission{resource, a})
	}
	return out
}

func grant(resource string, actions ...string) []permission {
	out := make([]permission, 0, len(actions))
	for _, a := range actions {
		out = append(out, permission{resource, a})
	}
	return out
}

func concat(groups ...[]permission) []permission {
	var out []permission
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// defaultPolicy is used for any role without rows in role_permissions.
// Row-level narrowing (own tasks, own attendance) happens in the services.
func defaultPolicy() map[domain.Role][]permission {
	superAdmin := []permission{}
	for resource := range Catalog {
		superAdmin = append(superAdmin, all(resource)...)
	}

	return map[domain.Role][]permission{
		domain.RoleSuperAdmin: superAdmin,
		domain.RoleHRManager: concat(
			grant("attendance", "create", "read", "report", "process"),
			all("audit"),
			all("biodata"),
			all("dashboard"),
			grant("inventory", "read"),
			all("notification"),
			all("profile"),
			grant("project", "read"),
			all("salary"),
			grant("settings", "read"),
			grant("suspension", "create", "read"),
			all("task"),
			grant("task_bin", "read"),
			grant("user", "create", "update"),
		),
		domain.RoleNetworkManager: concat(
			grant("attendance", "create", "read"),
			all("dashboard"),
			all("inventory"),
			grant("profile", "read"),
			all("project"),
			grant("settings", "read"),
			all("task"),
			grant("task_bin", "read"),
		),
		domain.RoleEmployee: concat(
			grant("attendance", "create", "read"),
			all("dashboard"),
			grant("inventory", "read"),
			grant("project", "read"),
			grant("settings", "read"),
			grant("task", "create", "read", "update"),
		),
	}
}
