// Package auth validates bearer tokens for the daemon's HTTP API and maps
// them to roles. With no secret configured the API is open, which is the
// normal mode for a localhost-only deployment.
package auth

// Role is an access level carried in a token.
type Role string

const (
	// RoleViewer may read alarms and preferences.
	RoleViewer Role = "viewer"
	// RoleOperator may additionally schedule, snooze, dismiss and cancel.
	RoleOperator Role = "operator"
	// RoleAdmin may additionally flip the wake permission.
	RoleAdmin Role = "admin"
)

var roleRank = map[Role]int{
	RoleViewer:   1,
	RoleOperator: 2,
	RoleAdmin:    3,
}

// NormalizeRole validates a role name.
func NormalizeRole(name string) (Role, bool) {
	role := Role(name)
	if _, ok := roleRank[role]; !ok {
		return "", false
	}
	return role, true
}

// RoleAtLeast reports whether have grants everything required does.
func RoleAtLeast(have, required Role) bool {
	return roleRank[have] >= roleRank[required]
}
