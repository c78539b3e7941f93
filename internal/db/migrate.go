package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/go-vertrieb/internal/catalog"
	"github.com/diewo77/go-vertrieb/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// Register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MigrationsSource is where RunSQLMigrations looks for *.sql files.
const MigrationsSource = "file://migrations"

var (
	connectAttempts = 10
	retryDelay      = 2 * time.Second
)

// requiredTables must exist once migrations ran.
var requiredTables = []string{"roles", "permissions", "users", "angebote", "tickets", "electric_invoices", "kwp_preise"}

// Models lists every table managed by AutoMigrate, parents first.
func Models() []any {
	out := []any{
		&models.Permission{}, &models.Role{}, &models.User{},
		&models.Angebot{}, &models.Ticket{}, &models.Calculator{},
		&models.ElectricInvoice{}, &models.KundenData{}, &models.Position{},
		&models.AuditLog{},
	}
	for _, table := range catalog.Tables() {
		out = append(out, models.CatalogModels[table]())
	}
	return out
}

// Connect opens the PostgreSQL database, retrying while the server starts up.
func Connect(dsn string, debug bool, log *zap.Logger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("database dsn is empty")
	}
	if log == nil {
		log = zap.NewNop()
	}
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(level), TranslateError: true}

	var db *gorm.DB
	var err error
	for i := 1; i <= connectAttempts; i++ {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			break
		}
		log.Warn("database not reachable, retrying",
			zap.Int("attempt", i), zap.Int("max", connectAttempts), zap.Error(err))
		time.Sleep(retryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database after %d attempts: %w", connectAttempts, err)
	}
	if err := db.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	log.Info("database connected", zap.String("dsn", MaskDSN(dsn)))
	return db, nil
}

// Migrate runs AutoMigrate for all models.
func Migrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return CheckTables(db)
}

// RunSQLMigrations applies the versioned migrations in ./migrations.
// databaseURL must be in postgres:// form.
func RunSQLMigrations(databaseURL string) error {
	m, err := migrate.New(MigrationsSource, databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// CheckTables verifies that the core tables exist.
func CheckTables(db *gorm.DB) error {
	for _, table := range requiredTables {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}
