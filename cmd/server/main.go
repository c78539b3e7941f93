package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-vertrieb/auth"
	"github.com/diewo77/go-vertrieb/internal/catalog"
	"github.com/diewo77/go-vertrieb/internal/config"
	"github.com/diewo77/go-vertrieb/internal/db"
	"github.com/diewo77/go-vertrieb/internal/logging"
	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/internal/policy"
	"github.com/diewo77/go-vertrieb/internal/services"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
	cleanupFlag     = flag.Bool("cleanup", false, "Delete stale quotes once and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := logging.New(cfg.App.Dev, cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	dsn := db.NormalizeDSN(cfg.Database.DSN())
	dbConn, err := db.Connect(dsn, cfg.App.Dev && cfg.App.LogLevel == "debug", logger.Named("db"))
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if *migrateOnlyFlag {
		if err := migrate(cfg, dbConn, dsn); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		logger.Info("migrations completed")
		return
	}

	if *seedOnlyFlag {
		if err := db.Seed(dbConn); err != nil {
			logger.Fatal("seeding failed", zap.Error(err))
		}
		logger.Info("seeding completed")
		return
	}

	if err := migrate(cfg, dbConn, dsn); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	// Roles and permissions are always kept in sync; DB_SEED adds the
	// default price catalog.
	if err := db.SeedRoles(dbConn); err != nil {
		logger.Fatal("seeding roles failed", zap.Error(err))
	}
	if cfg.App.Seed {
		n, err := db.SeedCatalog(dbConn)
		if err != nil {
			logger.Fatal("seeding catalog failed", zap.Error(err))
		}
		logger.Info("catalog seeded", zap.Int("created", n))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := newCatalogStore(ctx, cfg, dbConn, logger)

	sessions := auth.NewSessions(cfg.App.SessionSecret, cfg.App.SessionTTL)
	sessions.SetSecureCookies(cfg.App.SecureCookies)
	sessions.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		var count int64
		dbConn.WithContext(ctx).Model(&models.User{}).
			Where("id = ? AND is_active = ?", uid, true).Count(&count)
		return count > 0
	})

	routerCfg := policy.NewRouterConfig(policy.Deps{
		DB:       dbConn,
		Catalog:  store,
		Sessions: sessions,
		Retention: services.Retention{
			UnassignedAfter: cfg.Retention.UnassignedAfter,
			StaleAfter:      cfg.Retention.StaleAfter,
			AcceptedAfter:   cfg.Retention.AcceptedAfter,
		},
		Log: logger,
	})

	if *cleanupFlag {
		rep, err := routerCfg.Cleanup.Run(ctx, time.Now())
		if err != nil {
			logger.Fatal("cleanup failed", zap.Error(err))
		}
		logger.Info("cleanup completed", zap.Any("report", rep))
		return
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(logger.Named("http"), NewApp(dbConn, routerCfg)),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", zap.String("port", cfg.Server.Port), zap.Bool("dev", cfg.App.Dev))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Retention.Interval > 0 {
		g.Go(func() error {
			runCleanupLoop(gctx, routerCfg.Cleanup, cfg.Retention.Interval, logger.Named("cleanup"))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped gracefully")
}

// migrate applies the versioned SQL migrations when MIGRATIONS is set and
// falls back to AutoMigrate otherwise.
func migrate(cfg *config.Config, conn *gorm.DB, dsn string) error {
	if !cfg.App.Migrations {
		return db.Migrate(conn)
	}
	if err := db.RunSQLMigrations(db.ToURLDSN(dsn)); err != nil {
		return fmt.Errorf("sql migrations: %w", err)
	}
	return db.CheckTables(conn)
}

// newCatalogStore builds the price catalog store. A reachable REDIS_URL
// adds a snapshot cache shared between instances.
func newCatalogStore(ctx context.Context, cfg *config.Config, conn *gorm.DB, logger *zap.Logger) *catalog.Store {
	opts := []catalog.Option{
		catalog.WithTTL(cfg.App.CatalogTTL),
		catalog.WithLogger(logger.Named("catalog")),
	}
	if cfg.Redis.URL != "" {
		client, err := catalog.ConnectRedis(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Warn("redis unavailable, using local catalog cache only", zap.Error(err))
		} else {
			opts = append(opts, catalog.WithSharedCache(catalog.NewRedisCache(client, cfg.Redis.Key)))
		}
	}
	return catalog.NewStore(conn, opts...)
}
