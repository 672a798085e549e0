package model

// Role ids used by the console.
const (
	RoleManager  = "manager"
	RoleOperator = "operator"
)

// Role names issued by the backend on login.
const (
	BackendRoleManager  = "WarehouseManager"
	BackendRoleOperator = "WarehouseOperator"
)

// Permissions attached to a role.
type Permissions struct {
	CanEdit bool `json:"canEdit"`
}

// Role is a console role with its display label.
type Role struct {
	ID          string      `json:"id"`
	Label       string      `json:"label"`
	Permissions Permissions `json:"permissions"`
}

// RoleIDFor maps a backend role name to a console role id. Unknown names map
// to "".
func RoleIDFor(backendRole string) string {
	switch backendRole {
	case BackendRoleManager, RoleManager:
		return RoleManager
	case BackendRoleOperator, RoleOperator:
		return RoleOperator
	}
	return ""
}

// FindRole returns the role with the given id, or nil.
func FindRole(roles []Role, id string) *Role {
	for i := range roles {
		if roles[i].ID == id {
			return &roles[i]
		}
	}
	return nil
}
