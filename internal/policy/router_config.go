package policy

import (
	"time"

	"github.com/diewo77/go-vertrieb/auth"
	"github.com/diewo77/go-vertrieb/internal/catalog"
	"github.com/diewo77/go-vertrieb/internal/handlers"
	"github.com/diewo77/go-vertrieb/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultRoleCacheTTL is how long resolved roles are cached per user.
const DefaultRoleCacheTTL = 5 * time.Minute

// RouterConfig holds configured handlers and middleware for the application.
type RouterConfig struct {
	// AuthGate provides authorization checks and middleware
	AuthGate *AuthGate
	Sessions *auth.Sessions

	AuthHandler       *handlers.AuthHandler
	AngebotHandler    *handlers.AngebotHandler
	TicketHandler     *handlers.TicketHandler
	CalculatorHandler *handlers.CalculatorHandler
	InvoiceHandler    *handlers.InvoiceHandler
	CatalogHandler    *handlers.CatalogHandler
	AdminHandler      *handlers.AdminHandler
	RoleHandler       *handlers.RoleHandler
	ZohoHandler       *handlers.ZohoHandler

	Users   *services.UserService
	Cleanup *services.CleanupService
}

// Deps are the shared components the router is built from.
type Deps struct {
	DB        *gorm.DB
	Catalog   *catalog.Store
	Sessions  *auth.Sessions
	Retention services.Retention
	Log       *zap.Logger
}

// NewRouterConfig wires the authorization gate, services and handlers.
// Role or activation changes drop the user's cached role.
func NewRouterConfig(d Deps) *RouterConfig {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	authGate := NewAuthGate(d.DB, DefaultRoleCacheTTL)
	RegisterOwnership(authGate)

	users := services.NewUserService(d.DB, log.Named("users"))
	users.OnAccessChange = authGate.InvalidateUser
	cleanup := services.NewCleanupService(d.DB, d.Retention, log.Named("cleanup"))

	angebote := services.NewAngebotService(d.DB, d.Catalog, log.Named("angebot"))
	tickets := services.NewTicketService(d.DB, d.Catalog, log.Named("ticket"))
	calculators := services.NewCalculatorService(d.DB, d.Catalog, log.Named("calculator"))
	invoices := services.NewInvoiceService(d.DB, d.Catalog, log.Named("invoice"))
	zoho := services.NewZohoService(d.DB, log.Named("zoho"))

	hlog := log.Named("http")
	return &RouterConfig{
		AuthGate:          authGate,
		Sessions:          d.Sessions,
		AuthHandler:       handlers.NewAuthHandler(users, d.Sessions, hlog),
		AngebotHandler:    handlers.NewAngebotHandler(angebote, authGate, hlog),
		TicketHandler:     handlers.NewTicketHandler(tickets, authGate, hlog),
		CalculatorHandler: handlers.NewCalculatorHandler(calculators, authGate, hlog),
		InvoiceHandler:    handlers.NewInvoiceHandler(invoices, authGate, hlog),
		CatalogHandler:    handlers.NewCatalogHandler(d.Catalog, hlog),
		AdminHandler:      handlers.NewAdminHandler(users, cleanup, hlog),
		RoleHandler:       handlers.NewRoleHandler(d.DB, authGate.InvalidateAll, hlog),
		ZohoHandler:       handlers.NewZohoHandler(zoho, hlog),
		Users:             users,
		Cleanup:           cleanup,
	}
}
