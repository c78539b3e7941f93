package policy

import (
	"context"

	"github.com/diewo77/go-vertrieb/gate"
)

// Ownable is implemented by records that belong to one user.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy allows access to records the user owns. Resources that
// are not Ownable are denied.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

func (p *OwnershipPolicy) Can(_ context.Context, userID uint, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return ownable.GetUserID() == userID
}

// AdminBypassPolicy lets admins through and asks inner for everyone else.
type AdminBypassPolicy struct {
	inner   gate.Policy[uint]
	isAdmin func(ctx context.Context, userID uint) bool
}

func NewAdminBypassPolicy(inner gate.Policy[uint], isAdmin func(ctx context.Context, userID uint) bool) *AdminBypassPolicy {
	return &AdminBypassPolicy{inner: inner, isAdmin: isAdmin}
}

func (p *AdminBypassPolicy) Can(ctx context.Context, userID uint, action gate.Action, resource any) bool {
	if p.isAdmin(ctx, userID) {
		return true
	}
	return p.inner.Can(ctx, userID, action, resource)
}

// ReadAllPolicy lets users whose role holds "<resource>:read_all" view and
// list every record of that resource and asks inner for everything else.
type ReadAllPolicy struct {
	inner        gate.Policy[uint]
	resourceType string
	canReadAll   func(ctx context.Context, userID uint, action gate.Action, resourceType string) bool
}

func NewReadAllPolicy(inner gate.Policy[uint], resourceType string, g *gate.Gate[uint]) *ReadAllPolicy {
	return &ReadAllPolicy{inner: inner, resourceType: resourceType, canReadAll: g.CanRole}
}

func (p *ReadAllPolicy) Can(ctx context.Context, userID uint, action gate.Action, resource any) bool {
	if (action == gate.ActionView || action == gate.ActionList) &&
		p.canReadAll(ctx, userID, gate.ActionReadAll, p.resourceType) {
		return true
	}
	return p.inner.Can(ctx, userID, action, resource)
}

// Owned resource types.
const (
	ResourceAngebot    = "angebot"
	ResourceTicket     = "ticket"
	ResourceCalculator = "calculator"
	ResourceInvoice    = "invoice"
	ResourceCatalog    = "catalog"
	ResourceZoho       = "zoho"
)

// RegisterOwnership installs the owner-or-admin policy for every owned
// resource type. Read-all roles may additionally view foreign records.
func RegisterOwnership(ag *AuthGate) {
	p := NewAdminBypassPolicy(NewOwnershipPolicy(), ag.Gate.IsSuperAdmin)
	for _, res := range []string{ResourceAngebot, ResourceTicket, ResourceCalculator, ResourceInvoice} {
		ag.RegisterPolicy(res, NewReadAllPolicy(p, res, ag.Gate))
	}
}
