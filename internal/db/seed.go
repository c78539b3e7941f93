package db

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-vertrieb/internal/catalog"
	"github.com/diewo77/go-vertrieb/internal/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed/catalog.yaml
var catalogSeed []byte

// resources and the actions each one knows besides the CRUD set.
var resources = []struct {
	Name   string
	Label  string
	Extras []string
}{
	{"angebot", "quote", []string{"lock", "calculate", "read_all"}},
	{"ticket", "ticket", []string{"read_all"}},
	{"calculator", "calculator run", []string{"calculate"}},
	{"invoice", "electrician invoice", []string{"lock"}},
	{"catalog", "price catalog row", nil},
	{"zoho", "Zoho import", nil},
	{"user", "user", nil},
}

var crudActions = []string{"list", "view", "create", "update", "delete"}

var defaultRoles = []struct {
	Name        string
	Description string
	Permissions []string // "resource:action"
}{
	{
		Name:        models.RoleAdmin,
		Description: "Full system administrator with all permissions",
		Permissions: []string{"*:*"},
	},
	{
		Name:        models.RoleVertrieb,
		Description: "Sales reps: quotes, tickets and calculator runs",
		Permissions: []string{"angebot:*", "ticket:*", "calculator:*", "catalog:view", "catalog:list", "zoho:*"},
	},
	{
		Name:        models.RoleElektriker,
		Description: "Electricians: material invoices",
		Permissions: []string{"invoice:*", "catalog:view"},
	},
	{
		Name:        models.RoleProjektant,
		Description: "Planners: read access to every quote and ticket",
		Permissions: []string{
			"angebot:list", "angebot:view", "angebot:read_all",
			"ticket:list", "ticket:view", "ticket:read_all",
		},
	},
}

// SeedPermissions creates every resource:action pair, including the
// wildcards. Existing rows are kept.
func SeedPermissions(db *gorm.DB) error {
	perms := []models.Permission{{ResourceType: "*", Action: "*", Description: "Full system access"}}
	for _, r := range resources {
		perms = append(perms, models.Permission{ResourceType: r.Name, Action: "*", Description: "All " + r.Label + " actions"})
		for _, a := range append(append([]string{}, crudActions...), r.Extras...) {
			perms = append(perms, models.Permission{
				ResourceType: r.Name,
				Action:       a,
				Description:  strings.ToUpper(a[:1]) + a[1:] + " " + r.Label,
			})
		}
	}
	for _, p := range perms {
		perm := p
		if err := db.Where("resource_type = ? AND action = ?", p.ResourceType, p.Action).
			FirstOrCreate(&perm).Error; err != nil {
			return fmt.Errorf("seed permission %s: %w", p.Code(), err)
		}
	}
	return nil
}

// SeedRoles creates the system roles and resets their permissions.
func SeedRoles(db *gorm.DB) error {
	if err := SeedPermissions(db); err != nil {
		return err
	}
	for _, r := range defaultRoles {
		var role models.Role
		err := db.Where("name = ?", r.Name).First(&role).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			role = models.Role{Name: r.Name, Description: r.Description, IsSystem: true}
			if err := db.Create(&role).Error; err != nil {
				return fmt.Errorf("create role %s: %w", r.Name, err)
			}
		case err != nil:
			return err
		}

		var perms []models.Permission
		for _, code := range r.Permissions {
			resource, action, _ := strings.Cut(code, ":")
			var perm models.Permission
			if err := db.Where("resource_type = ? AND action = ?", resource, action).First(&perm).Error; err != nil {
				return fmt.Errorf("role %s: permission %s: %w", r.Name, code, err)
			}
			perms = append(perms, perm)
		}
		if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return fmt.Errorf("assign permissions to %s: %w", r.Name, err)
		}
	}
	return nil
}

// SeedCatalog inserts the default price rows. Rows whose name already
// exists are left alone so edited prices survive a restart.
func SeedCatalog(db *gorm.DB) (int, error) {
	var seed map[string][]map[string]any
	if err := yaml.Unmarshal(catalogSeed, &seed); err != nil {
		return 0, fmt.Errorf("parse catalog seed: %w", err)
	}
	created := 0
	for _, table := range catalog.Tables() {
		for _, fields := range seed[table] {
			row := models.CatalogModels[table]()
			raw, err := json.Marshal(fields)
			if err != nil {
				return created, err
			}
			if err := json.Unmarshal(raw, row); err != nil {
				return created, fmt.Errorf("catalog seed %s: %w", table, err)
			}
			var n int64
			if err := db.Model(row).Where("name = ?", fields["name"]).Count(&n).Error; err != nil {
				return created, err
			}
			if n > 0 {
				continue
			}
			if err := db.Create(row).Error; err != nil {
				return created, fmt.Errorf("catalog seed %s %v: %w", table, fields["name"], err)
			}
			created++
		}
	}
	return created, nil
}

// Seed initializes roles, permissions and the price catalog.
// Should be called after Migrate.
func Seed(db *gorm.DB) error {
	if err := SeedRoles(db); err != nil {
		return err
	}
	_, err := SeedCatalog(db)
	return err
}
