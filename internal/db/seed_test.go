package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/diewo77/go-vertrieb/internal/catalog"
	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	d, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(d))
	return d
}

func roleCodes(t *testing.T, d *gorm.DB, name string) []string {
	t.Helper()
	var role models.Role
	require.NoError(t, d.Preload("Permissions").Where("name = ?", name).First(&role).Error)
	codes := make([]string, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		codes = append(codes, p.Code())
	}
	return codes
}

func TestSeedIdempotent(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, Seed(d))

	var perms, roles, kwp int64
	d.Model(&models.Permission{}).Count(&perms)
	d.Model(&models.Role{}).Count(&roles)
	d.Model(&models.KwpPreis{}).Count(&kwp)

	require.NoError(t, Seed(d))

	var perms2, roles2, kwp2 int64
	d.Model(&models.Permission{}).Count(&perms2)
	d.Model(&models.Role{}).Count(&roles2)
	d.Model(&models.KwpPreis{}).Count(&kwp2)
	assert.Equal(t, perms, perms2)
	assert.Equal(t, int64(4), roles2)
	assert.Equal(t, roles, roles2)
	assert.Equal(t, kwp, kwp2)
	assert.Len(t, roleCodes(t, d, models.RoleVertrieb), 6)
}

func TestSeedRoles(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, SeedRoles(d))

	assert.ElementsMatch(t, []string{"*:*"}, roleCodes(t, d, models.RoleAdmin))
	assert.ElementsMatch(t, []string{"invoice:*", "catalog:view"}, roleCodes(t, d, models.RoleElektriker))
	assert.Contains(t, roleCodes(t, d, models.RoleVertrieb), "zoho:*")
	assert.NotContains(t, roleCodes(t, d, models.RoleProjektant), "angebot:create")
	assert.Contains(t, roleCodes(t, d, models.RoleProjektant), "angebot:read_all")
	assert.NotContains(t, roleCodes(t, d, models.RoleVertrieb), "angebot:read_all")

	var lock int64
	d.Model(&models.Permission{}).Where("resource_type = ? AND action = ?", "angebot", "lock").Count(&lock)
	assert.Equal(t, int64(1), lock)
}

func TestSeedCatalog(t *testing.T) {
	d := openTestDB(t)
	created, err := SeedCatalog(d)
	require.NoError(t, err)
	assert.Greater(t, created, 100)

	p, err := catalog.Load(context.Background(), d)
	require.NoError(t, err)
	assert.Len(t, p.Kwp, 22)
	assert.Len(t, p.Garantie, 33)
	assert.Equal(t, 0.19, p.Values["steuersatz"])
	assert.Contains(t, p.Module, pricing.DefaultSolarModule)
	assert.Contains(t, p.Elektrik, "Kupferschiene N")
}

func TestSeedCatalogKeepsEditedPrices(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, d.Create(&models.KwpPreis{Name: "Preis5", Price: 999}).Error)

	created, err := SeedCatalog(d)
	require.NoError(t, err)

	var row models.KwpPreis
	require.NoError(t, d.Where("name = ?", "Preis5").First(&row).Error)
	assert.Equal(t, 999.0, row.Price)

	again, err := SeedCatalog(d)
	require.NoError(t, err)
	assert.Zero(t, again)
	assert.Positive(t, created)
}

func TestModelsCoverCatalog(t *testing.T) {
	assert.Len(t, Models(), 10+len(catalog.Tables()))
}
