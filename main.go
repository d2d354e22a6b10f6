package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shitcodegenerator/touching-backend/configs"
	"github.com/shitcodegenerator/touching-backend/configs/configsdatabase"
	"github.com/shitcodegenerator/touching-backend/configs/configslog"
	"github.com/shitcodegenerator/touching-backend/database"
	"github.com/shitcodegenerator/touching-backend/routes"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envLoaded := configs.LoadEnv()
	cfg := configs.Load()

	log := configslog.InitLogger(cfg.Env)
	if !envLoaded {
		configslog.SLog.Debug(".env file not found, using process environment only")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("Server failed", zap.Error(err))
		configslog.SyncLogger()
		os.Exit(1)
	}
	log.Info("Server exited")
	configslog.SyncLogger()
}

// run serves until ctx is cancelled or the listener fails. The database is
// closed on every return path.
func run(ctx context.Context, cfg *configs.Config, log *zap.Logger) error {
	db, err := configsdatabase.InitDB(cfg.DB, log)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer func() {
		if err := configsdatabase.CloseDB(db); err != nil {
			log.Warn("Closing database failed", zap.Error(err))
		}
	}()

	if cfg.DB.AutoMigrate {
		if err := database.Initialize(db, true, false); err != nil {
			return fmt.Errorf("auto migration failed: %w", err)
		}
	}
	if cfg.AdminJWTSecret == "" {
		log.Warn("ADMIN_JWT_SECRET is empty; admin routes will reject every request")
	}

	app := routes.NewApp(configs.NewApp(cfg, db, log))

	errCh := make(chan error, 1)
	go func() {
		log.Sugar().Infof("Server listening on :%s (env=%s)", cfg.Port, cfg.Env)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received, draining connections...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}
	return nil
}
