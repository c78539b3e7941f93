// Package gate checks what a user may do. A user's role grants
// "resource:action" permissions; an optional per-resource Policy then
// decides on a concrete record, typically by ownership.
//
// The user type is generic so the same gate works with plain user ids
// or richer subjects.
package gate

import (
	"context"
	"errors"
)

// Action is the kind of operation a user wants to perform.
type Action string

const (
	ActionView      Action = "view"
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionList      Action = "list"
	ActionLock      Action = "lock"
	ActionCalculate Action = "calculate"
	// ActionReadAll lets a role view and list records of other users.
	ActionReadAll Action = "read_all"
)

// scopeActions widen what other actions reach. A resource wildcard does
// not grant them; they must be listed or come from "*:*".
var scopeActions = map[Action]bool{
	ActionReadAll: true,
}

var ErrUnauthorized = errors.New("unauthorized")

// Policy decides on one resource after the role check passed. resource is
// nil for list and create.
type Policy[U any] interface {
	Can(ctx context.Context, user U, action Action, resource any) bool
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc[U any] func(ctx context.Context, user U, action Action, resource any) bool

func (f PolicyFunc[U]) Can(ctx context.Context, user U, action Action, resource any) bool {
	return f(ctx, user, action, resource)
}

// Gate combines role permissions with resource policies.
type Gate[U comparable] struct {
	roles    RoleResolver[U]
	policies map[string]Policy[U]
}

func New[U comparable](roles RoleResolver[U]) *Gate[U] {
	return &Gate[U]{roles: roles, policies: make(map[string]Policy[U])}
}

// Register sets the policy for resourceType, replacing any previous one.
// Not safe for use once the gate serves requests.
func (g *Gate[U]) Register(resourceType string, p Policy[U]) {
	g.policies[resourceType] = p
}

func (g *Gate[U]) role(ctx context.Context, user U) Role {
	var zero U
	if user == zero {
		return nil
	}
	r, err := g.roles.Resolve(ctx, user)
	if err != nil {
		return nil
	}
	return r
}

// Authorize returns ErrUnauthorized unless the user's role grants
// resourceType:action and, for a non-nil resource, the registered policy
// allows it.
func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string, resource any) error {
	r := g.role(ctx, user)
	if r == nil || !r.HasPermission(NewPermission(resourceType, action)) {
		return ErrUnauthorized
	}
	if resource == nil {
		return nil
	}
	if p, ok := g.policies[resourceType]; ok && !p.Can(ctx, user, action, resource) {
		return ErrUnauthorized
	}
	return nil
}

func (g *Gate[U]) Can(ctx context.Context, user U, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, user, action, resourceType, resource) == nil
}

// CanRole checks only the role permission. Use it before a record is loaded.
func (g *Gate[U]) CanRole(ctx context.Context, user U, action Action, resourceType string) bool {
	r := g.role(ctx, user)
	return r != nil && r.HasPermission(NewPermission(resourceType, action))
}

// IsSuperAdmin reports whether the user's role holds "*:*".
func (g *Gate[U]) IsSuperAdmin(ctx context.Context, user U) bool {
	r := g.role(ctx, user)
	return r != nil && r.HasPermission(PermissionSuperAdmin)
}
