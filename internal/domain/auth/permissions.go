package auth

import "context"

const (
	PermSkillsRead     = "skills.read"
	PermSkillsWrite    = "skills.write"
	PermEmployeesWrite = "employees.write"
	PermImportsRun     = "imports.run"
	PermAuditRead      = "audit.read"
)

const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

var Roles = []string{RoleViewer, RoleEditor, RoleAdmin}

var RolePermissions = map[string][]string{
	RoleViewer: {
		PermSkillsRead,
	},
	RoleEditor: {
		PermSkillsRead,
		PermSkillsWrite,
		PermImportsRun,
	},
	RoleAdmin: {
		PermSkillsRead,
		PermSkillsWrite,
		PermEmployeesWrite,
		PermImportsRun,
		PermAuditRead,
	},
}

// UserContext is the authenticated caller attached to a request.
type UserContext struct {
	UserID string
	Email  string
	Role   string
}

func Allowed(role, permission string) bool {
	for _, granted := range RolePermissions[role] {
		if granted == permission {
			return true
		}
	}
	return false
}

// StaticPermissions answers permission checks from RolePermissions.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	return Allowed(role, permission), nil
}
