// Package rbac maps tenant roles to permissions.
//
// Roles form a closed set (owner, admin, member). Each role is granted a list
// of dotted permissions and may inherit the grants of other roles. A grant
// ending in ".*" covers every permission under that prefix, and "*" covers
// everything. Checks are pure lookups on a table computed once at start-up.
package rbac

import (
	"fmt"
	"slices"
	"strings"
)

// Role is a tenant membership role.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Roles lists every role, most privileged first.
func Roles() []Role { return []Role{RoleOwner, RoleAdmin, RoleMember} }

// ParseRole validates s as a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Permission is a dotted permission name such as "users.manage".
type Permission string

const (
	PermNotesWrite      Permission = "notes.write"
	PermUsersManage     Permission = "users.manage"
	PermUsersDelete     Permission = "users.delete"
	PermUsersChangeRole Permission = "users.change_role"
	PermPlanChange      Permission = "plan.change"
)

// Grant describes the permissions of one role.
type Grant struct {
	Permissions []Permission
	Inherits    []Role
}

// DefaultGrants is the built-in role table.
var DefaultGrants = map[Role]Grant{
	RoleMember: {Permissions: []Permission{"notes.*"}},
	RoleAdmin: {
		Permissions: []Permission{PermUsersManage, PermUsersDelete, PermPlanChange},
		Inherits:    []Role{RoleMember},
	},
	RoleOwner: {
		Permissions: []Permission{PermUsersChangeRole},
		Inherits:    []Role{RoleAdmin},
	},
}

// Authorizer answers permission checks for roles.
type Authorizer struct {
	perms map[Role][]Permission
}

// NewAuthorizer flattens grants, resolving inheritance. It fails on unknown
// roles and inheritance cycles.
func NewAuthorizer(grants map[Role]Grant) (*Authorizer, error) {
	a := &Authorizer{perms: make(map[Role][]Permission, len(grants))}
	for role := range grants {
		if !role.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
		}
		perms, err := flatten(role, grants, nil)
		if err != nil {
			return nil, err
		}
		slices.Sort(perms)
		a.perms[role] = slices.Compact(perms)
	}
	return a, nil
}

// MustAuthorizer is NewAuthorizer that panics on error.
func MustAuthorizer(grants map[Role]Grant) *Authorizer {
	a, err := NewAuthorizer(grants)
	if err != nil {
		panic(err)
	}
	return a
}

// Default is the authorizer built from DefaultGrants.
var Default = MustAuthorizer(DefaultGrants)

// Can returns nil if role holds perm, ErrInvalidRole for an unknown role and
// ErrInsufficientPermissions otherwise.
func (a *Authorizer) Can(role Role, perm Permission) error {
	perms, ok := a.perms[role]
	if !ok {
		return ErrInvalidRole
	}
	for _, p := range perms {
		if covers(p, perm) {
			return nil
		}
	}
	return ErrInsufficientPermissions
}

// Has is Can as a boolean.
func (a *Authorizer) Has(role Role, perm Permission) bool {
	return a.Can(role, perm) == nil
}

func flatten(role Role, grants map[Role]Grant, path []Role) ([]Permission, error) {
	if slices.Contains(path, role) {
		return nil, fmt.Errorf("%w: %v -> %s", ErrCircularInheritance, path, role)
	}
	g, ok := grants[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	out := slices.Clone(g.Permissions)
	for _, parent := range g.Inherits {
		inherited, err := flatten(parent, grants, append(path, role))
		if err != nil {
			return nil, err
		}
		out = append(out, inherited...)
	}
	return out, nil
}

func covers(grant, perm Permission) bool {
	if grant == "*" || grant == perm {
		return true
	}
	prefix, ok := strings.CutSuffix(string(grant), "*")
	return ok && strings.HasPrefix(string(perm), prefix)
}
