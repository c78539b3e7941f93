package main

import (
	"net/http"

	"github.com/diewo77/go-vertrieb/gate"
	"github.com/diewo77/go-vertrieb/httpx"
	"github.com/diewo77/go-vertrieb/internal/policy"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	db        *gorm.DB
	routerCfg *policy.RouterConfig
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, routerCfg *policy.RouterConfig) *App {
	app := &App{
		mux:       http.NewServeMux(),
		db:        db,
		routerCfg: routerCfg,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler. The session middleware puts the user
// id into the context for every request.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.routerCfg.Sessions.Middleware(a.mux).ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// Public
	ah := a.routerCfg.AuthHandler
	a.mux.HandleFunc("GET /healthz", a.healthz)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("POST /logout", ah.Logout)

	// Authenticated
	a.mux.Handle("GET /me", a.requireAuth(http.HandlerFunc(ah.Me)))

	// Quotes
	agh := a.routerCfg.AngebotHandler
	a.handle("GET /angebote", "angebot", gate.ActionList, agh.List)
	a.handle("POST /angebote", "angebot", gate.ActionCreate, agh.Create)
	a.handle("POST /angebote/calculate", "angebot", gate.ActionCalculate, agh.Calculate)
	a.handle("GET /angebote/{id}", "angebot", gate.ActionView, agh.Get)
	a.handle("PUT /angebote/{id}", "angebot", gate.ActionUpdate, agh.Update)
	a.handle("DELETE /angebote/{id}", "angebot", gate.ActionDelete, agh.Delete)
	a.handle("GET /angebote/{id}/document", "angebot", gate.ActionView, agh.Document)
	a.handle("GET /angebote/{id}/history", "angebot", gate.ActionView, agh.History)
	a.handle("PUT /angebote/{id}/zoho-id", "angebot", gate.ActionUpdate, agh.AssignZohoID)
	a.mux.Handle("POST /angebote/{id}/lock", a.requireAdmin(http.HandlerFunc(agh.Lock)))

	// Tickets
	th := a.routerCfg.TicketHandler
	a.handle("GET /tickets", "ticket", gate.ActionList, th.List)
	a.handle("POST /tickets", "ticket", gate.ActionCreate, th.Create)
	a.handle("GET /tickets/{id}", "ticket", gate.ActionView, th.Get)
	a.handle("PUT /tickets/{id}", "ticket", gate.ActionUpdate, th.Update)
	a.handle("DELETE /tickets/{id}", "ticket", gate.ActionDelete, th.Delete)

	// Calculator runs
	ch := a.routerCfg.CalculatorHandler
	a.handle("GET /calculators", "calculator", gate.ActionList, ch.List)
	a.handle("POST /calculators", "calculator", gate.ActionCreate, ch.Create)
	a.handle("GET /calculators/{id}", "calculator", gate.ActionView, ch.Get)
	a.handle("PUT /calculators/{id}", "calculator", gate.ActionUpdate, ch.Update)

	// Electrician invoices
	ih := a.routerCfg.InvoiceHandler
	a.handle("GET /invoices", "invoice", gate.ActionList, ih.List)
	a.handle("POST /invoices", "invoice", gate.ActionCreate, ih.Create)
	a.handle("GET /invoices/{id}", "invoice", gate.ActionView, ih.Get)
	a.handle("GET /invoices/{id}/total", "invoice", gate.ActionView, ih.Total)
	a.handle("POST /invoices/{id}/positions", "invoice", gate.ActionUpdate, ih.AddPosition)
	a.handle("DELETE /invoices/{id}/positions/{positionID}", "invoice", gate.ActionUpdate, ih.RemovePosition)
	a.handle("POST /invoices/{id}/lock", "invoice", gate.ActionLock, ih.Lock)

	// Price catalog: everyone with catalog:list reads, admins write.
	cat := a.routerCfg.CatalogHandler
	a.handle("GET /catalog", "catalog", gate.ActionList, cat.Tables)
	a.handle("GET /catalog/{table}", "catalog", gate.ActionList, cat.List)
	a.mux.Handle("PUT /catalog/{table}", a.requireAdmin(http.HandlerFunc(cat.Upsert)))
	a.mux.Handle("DELETE /catalog/{table}/{name}", a.requireAdmin(http.HandlerFunc(cat.Delete)))
	a.mux.Handle("POST /catalog/invalidate", a.requireAdmin(http.HandlerFunc(cat.Invalidate)))

	// Zoho
	zh := a.routerCfg.ZohoHandler
	a.handle("POST /zoho/import", "zoho", gate.ActionCreate, zh.Import)
	a.handle("GET /zoho/{zohoID}/kundennummer", "zoho", gate.ActionView, zh.Kundennummer)
	a.handle("GET /zoho/{zohoID}/angebot", "angebot", gate.ActionView, agh.Accepted)

	// Admin
	adh := a.routerCfg.AdminHandler
	a.mux.Handle("GET /admin/users", a.requireAdmin(http.HandlerFunc(adh.ListUsers)))
	a.mux.Handle("POST /admin/users", a.requireAdmin(http.HandlerFunc(adh.CreateUser)))
	a.mux.Handle("GET /admin/users/{id}", a.requireAdmin(http.HandlerFunc(adh.GetUser)))
	a.mux.Handle("PATCH /admin/users/{id}", a.requireAdmin(http.HandlerFunc(adh.UpdateAttributes)))
	a.mux.Handle("PUT /admin/users/{id}/role", a.requireAdmin(http.HandlerFunc(adh.SetRole)))
	a.mux.Handle("POST /admin/cleanup", a.requireAdmin(http.HandlerFunc(adh.RunCleanup)))

	rh := a.routerCfg.RoleHandler
	a.mux.Handle("GET /admin/roles", a.requireAdmin(http.HandlerFunc(rh.List)))
	a.mux.Handle("GET /admin/permissions", a.requireAdmin(http.HandlerFunc(rh.Permissions)))
	a.mux.Handle("PUT /admin/roles/{id}/permissions", a.requireAdmin(http.HandlerFunc(rh.SavePermissions)))
}

// handle registers a route behind authentication and a resource permission.
func (a *App) handle(pattern, resourceType string, action gate.Action, h http.HandlerFunc) {
	a.mux.Handle(pattern, a.requireAuth(a.requirePermission(resourceType, action)(h)))
}

// requireAuth answers 401 unless the session belongs to an active user.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return a.routerCfg.Sessions.RequireAuth(next)
}

// requireAdmin wraps a handler to require the "*:*" permission.
func (a *App) requireAdmin(next http.Handler) http.Handler {
	return a.requireAuth(a.routerCfg.AuthGate.RequireAdmin()(next))
}

// requirePermission wraps a handler to require specific resource permission.
func (a *App) requirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return a.routerCfg.AuthGate.RequirePermission(resourceType, action)
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	if err := a.db.WithContext(r.Context()).Exec("SELECT 1").Error; err != nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "database_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
