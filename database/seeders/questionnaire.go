package seeders

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shitcodegenerator/touching-backend/configs/configslog"
	"github.com/shitcodegenerator/touching-backend/models"
	"github.com/shitcodegenerator/touching-backend/repositories"
)

const (
	DemoShortID    = "demo0001"
	DemoAccessCode = "123456"
)

// SeedDemoQuestionnaire inserts a fixed questionnaire for local development.
// Running it again is a no-op.
func SeedDemoQuestionnaire(db *gorm.DB) error {
	ctx := repositories.WithTx(context.Background(), db)
	repo := repositories.NewQuestionnaireRepository(db, configslog.Log)

	configslog.SLog.Info("Demo questionnaire seed starting...")

	_, err := repo.FindByShortID(ctx, DemoShortID)
	if err == nil {
		configslog.SLog.Debugf("Questionnaire '%s' already exists, skipping.", DemoShortID)
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		configslog.Log.Error("Failed to check demo questionnaire", zap.String("short_id", DemoShortID), zap.Error(err))
		return err
	}

	q := &models.Questionnaire{
		ShortID:       DemoShortID,
		AccessCode:    DemoAccessCode,
		InitiatorName: "示範發起人",
		Phone:         "0900000000",
		Community: datatypes.NewJSONType(models.Community{
			County:   "台北市",
			District: "信義區",
			Name:     "示範社區",
		}),
		IsActive: true,
	}
	if err := repo.Create(ctx, q); err != nil {
		configslog.Log.Error("Failed to create demo questionnaire", zap.String("short_id", DemoShortID), zap.Error(err))
		return err
	}

	configslog.SLog.Infof("Demo questionnaire '%s' created (ID: %d, access code: %s).", q.ShortID, q.ID, q.AccessCode)
	return nil
}
