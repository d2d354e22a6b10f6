package database

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shitcodegenerator/touching-backend/configs/configslog"
	"github.com/shitcodegenerator/touching-backend/database/migrations"
	"github.com/shitcodegenerator/touching-backend/database/seeders"
)

// Initialize runs migrations and/or seeders in a single transaction.
func Initialize(db *gorm.DB, migrate bool, seed bool) (err error) {
	if !migrate && !seed {
		configslog.SLog.Info("Neither migrate nor seed requested, nothing to do.")
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		configslog.Log.Error("Failed to begin database transaction", zap.Error(tx.Error))
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			configslog.Log.Error("Database initialization panicked", zap.Any("panic_info", r))
			err = errors.New("database initialization panicked")
			return
		}
		if err != nil {
			configslog.SLog.Warn("Rolling back database initialization after error.")
			if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, gorm.ErrInvalidTransaction) {
				configslog.Log.Error("Rollback failed", zap.Error(rbErr))
			}
		}
	}()

	configslog.SLog.Info("Database initialization starting...")

	if migrate {
		if err = RunMigrationsInOrder(tx); err != nil {
			configslog.Log.Error("Migration failed", zap.Error(err))
			return err
		}
	} else {
		configslog.SLog.Info("Migrate flag not set, skipping migrations.")
	}

	if seed {
		if err = CheckAndRunSeeders(tx); err != nil {
			configslog.Log.Error("Seeding failed", zap.Error(err))
			return err
		}
	} else {
		configslog.SLog.Info("Seed flag not set, skipping seeders.")
	}

	if err = tx.Commit().Error; err != nil {
		configslog.Log.Error("Commit failed", zap.Error(err))
		return err
	}

	configslog.SLog.Info("Database initialization completed")
	return nil
}

func RunMigrationsInOrder(db *gorm.DB) error {
	configslog.SLog.Info(" -> Questionnaire migrations running...")
	if err := migrations.MigrateQuestionnairesTable(db); err != nil {
		return err
	}

	configslog.SLog.Info(" -> Questionnaire response migrations running...")
	if err := migrations.MigrateQuestionnaireResponsesTable(db); err != nil {
		return err
	}

	configslog.SLog.Info("All migrations completed.")
	return nil
}

func CheckAndRunSeeders(db *gorm.DB) error {
	configslog.SLog.Info(" -> Demo questionnaire seeder running...")
	if err := seeders.SeedDemoQuestionnaire(db); err != nil {
		configslog.Log.Error("Demo questionnaire seed failed", zap.Error(err))
		return err
	}

	configslog.SLog.Info("All seeders checked/completed.")
	return nil
}
