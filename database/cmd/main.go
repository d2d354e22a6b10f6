package main

import (
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/shitcodegenerator/touching-backend/configs"
	"github.com/shitcodegenerator/touching-backend/configs/configsdatabase"
	"github.com/shitcodegenerator/touching-backend/configs/configslog"
	"github.com/shitcodegenerator/touching-backend/database"
)

func main() {
	configs.LoadEnv()
	cfg := configs.Load()

	configslog.InitLogger(cfg.Env)
	defer configslog.SyncLogger()

	migrateFlag := flag.Bool("migrate", false, "Run schema migrations")
	seedFlag := flag.Bool("seed", false, "Run seeders")
	flag.Parse()

	db, err := configsdatabase.InitDB(cfg.DB, configslog.Log)
	if err != nil {
		configslog.Log.Fatal("Database connection failed", zap.Error(err))
	}
	defer configsdatabase.CloseDB(db)

	configslog.SLog.Info("Running database initialization...")
	if err := database.Initialize(db, *migrateFlag, *seedFlag); err != nil {
		configslog.Log.Error("Database initialization failed", zap.Error(err))
		configsdatabase.CloseDB(db)
		configslog.SyncLogger()
		os.Exit(1)
	}
	configslog.SLog.Info("Database initialization finished.")
}
