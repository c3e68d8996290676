package auth

import (
	"sort"

	"github.com/zpatrick/rbac"
)

// Roles maps role names to their definitions.
type Roles map[string]rbac.Role

// NewRoles creates role definitions from a map of role names to the scope
// patterns granted to the role, e.g. {"admin": ["*"], "analyst":
// ["reports:*"]}. Patterns can contain '*' wildcards.
func NewRoles(scopes map[string][]string) Roles {
	roles := make(Roles, len(scopes))
	for name, patterns := range scopes {
		role := rbac.Role{RoleID: name}
		for _, pat := range patterns {
			// The issuer is checked before the roles are consulted.
			role.Permissions = append(role.Permissions, rbac.NewGlobPermission(pat, "*"))
		}
		roles[name] = role
	}

	return roles
}

// Names returns the sorted role names.
func (r Roles) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Can returns true if any of the named roles grants scope on issuer. Unknown
// role names are ignored.
func (r Roles) Can(names []string, issuer, scope string) bool {
	for _, name := range names {
		role, ok := r[name]
		if !ok {
			continue
		}
		if can, err := role.Can(scope, issuer); err == nil && can {
			return true
		}
	}

	return false
}
