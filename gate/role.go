package gate

import (
	"context"
	"sort"
)

// Role is a named set of permissions.
type Role interface {
	Name() string
	HasPermission(p Permission) bool
	Permissions() []Permission
}

// RoleResolver finds the role of a user. A nil Role with a nil error
// means the user has none.
type RoleResolver[U any] interface {
	Resolve(ctx context.Context, user U) (Role, error)
}

// StaticRole is an in-memory Role.
type StaticRole struct {
	name  string
	perms []Permission
}

func NewStaticRole(name string, perms ...Permission) *StaticRole {
	return &StaticRole{name: name, perms: perms}
}

func (r *StaticRole) Name() string { return r.name }

func (r *StaticRole) HasPermission(requested Permission) bool {
	return AnyMatches(r.perms, requested)
}

// Permissions returns the granted permissions sorted.
func (r *StaticRole) Permissions() []Permission {
	out := append([]Permission(nil), r.perms...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AnyMatches reports whether one of granted matches requested.
func AnyMatches(granted []Permission, requested Permission) bool {
	for _, p := range granted {
		if p.Matches(requested) {
			return true
		}
	}
	return false
}

// StaticResolver maps users to fixed roles.
type StaticResolver[U comparable] map[U]Role

func (r StaticResolver[U]) Resolve(_ context.Context, user U) (Role, error) {
	return r[user], nil
}
