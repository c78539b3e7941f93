package policy_test

import (
	"context"
	"testing"

	"github.com/diewo77/go-vertrieb/gate"
	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/internal/policy"
)

type notOwnable struct{ ID uint }

func TestOwnershipPolicy(t *testing.T) {
	p := policy.NewOwnershipPolicy()
	ctx := context.Background()
	angebot := &models.Angebot{UserID: 42}

	tests := []struct {
		name     string
		user     uint
		resource any
		want     bool
	}{
		{"nil resource", 1, nil, true},
		{"owner", 42, angebot, true},
		{"non-owner", 99, angebot, false},
		{"owned invoice", 7, &models.ElectricInvoice{UserID: 7}, true},
		{"not ownable", 1, &notOwnable{ID: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Can(ctx, tt.user, gate.ActionView, tt.resource); got != tt.want {
				t.Errorf("Can = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdminBypassPolicy(t *testing.T) {
	isAdmin := func(_ context.Context, userID uint) bool { return userID == 1 }
	p := policy.NewAdminBypassPolicy(policy.NewOwnershipPolicy(), isAdmin)
	ctx := context.Background()
	ticket := &models.Ticket{UserID: 42}

	if !p.Can(ctx, 1, gate.ActionDelete, ticket) {
		t.Error("admin should bypass ownership")
	}
	if !p.Can(ctx, 42, gate.ActionView, ticket) {
		t.Error("owner should have access")
	}
	if p.Can(ctx, 99, gate.ActionView, ticket) {
		t.Error("non-owner non-admin should be denied")
	}
}

func TestReadAllPolicy(t *testing.T) {
	g := gate.New[uint](gate.StaticResolver[uint]{
		1: gate.NewStaticRole("Projektant", "ticket:view", "ticket:read_all"),
		2: gate.NewStaticRole("Vertrieb", "ticket:*"),
	})
	p := policy.NewReadAllPolicy(policy.NewOwnershipPolicy(), policy.ResourceTicket, g)
	ctx := context.Background()
	ticket := &models.Ticket{UserID: 42}

	if !p.Can(ctx, 1, gate.ActionView, ticket) {
		t.Error("read_all role should view foreign tickets")
	}
	if p.Can(ctx, 1, gate.ActionUpdate, ticket) {
		t.Error("read_all must not grant updates")
	}
	if p.Can(ctx, 2, gate.ActionView, ticket) {
		t.Error("wildcard role should not read foreign tickets")
	}
	if !p.Can(ctx, 42, gate.ActionDelete, ticket) {
		t.Error("owner should keep access")
	}
}
