package migrations

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shitcodegenerator/touching-backend/configs/configslog"
	"github.com/shitcodegenerator/touching-backend/models"
)

func MigrateQuestionnairesTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating questionnaires table...")
	err := db.AutoMigrate(&models.Questionnaire{})
	if err != nil {
		configslog.Log.Error("Failed to migrate questionnaires table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Questionnaires table migrated successfully")
	return nil
}

// MigrateQuestionnaireResponsesTable has no foreign key to questionnaires;
// the service checks the reference at write time.
func MigrateQuestionnaireResponsesTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating questionnaire_responses table...")
	err := db.AutoMigrate(&models.QuestionnaireResponse{})
	if err != nil {
		configslog.Log.Error("Failed to migrate questionnaire_responses table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Questionnaire responses table migrated successfully")
	return nil
}
