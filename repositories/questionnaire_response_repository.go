package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shitcodegenerator/touching-backend/models"
)

// SupportLevelCount is one bucket of the grouped distribution query.
type SupportLevelCount struct {
	SupportLevel models.SupportLevel
	Count        int64
}

// IQuestionnaireResponseRepository persists submissions. There is no update or delete.
type IQuestionnaireResponseRepository interface {
	Create(ctx context.Context, resp *models.QuestionnaireResponse) error
	CountBySupportLevel(ctx context.Context, questionnaireID uint) ([]SupportLevelCount, error)
	FindLatest(ctx context.Context, questionnaireID uint, limit int) ([]models.QuestionnaireResponse, error)
}

// QuestionnaireResponseRepository implements IQuestionnaireResponseRepository on GORM.
type QuestionnaireResponseRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewQuestionnaireResponseRepository returns a repository bound to db.
func NewQuestionnaireResponseRepository(db *gorm.DB, log *zap.Logger) IQuestionnaireResponseRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuestionnaireResponseRepository{db: db, log: log}
}

func (r *QuestionnaireResponseRepository) getDB(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db)
}

func (r *QuestionnaireResponseRepository) Create(ctx context.Context, resp *models.QuestionnaireResponse) error {
	if resp == nil || resp.QuestionnaireID == 0 {
		return errors.New("invalid questionnaire response (missing questionnaire id)")
	}
	if err := r.getDB(ctx).Create(resp).Error; err != nil {
		r.log.Error("QuestionnaireResponseRepository.Create: DB error",
			zap.Uint("questionnaire_id", resp.QuestionnaireID), zap.Error(err))
		return err
	}
	return nil
}

// CountBySupportLevel groups one questionnaire's responses by level. Levels
// with no responses are absent from the result.
func (r *QuestionnaireResponseRepository) CountBySupportLevel(ctx context.Context, questionnaireID uint) ([]SupportLevelCount, error) {
	var rows []SupportLevelCount
	err := r.getDB(ctx).
		Model(&models.QuestionnaireResponse{}).
		Select("support_level, COUNT(*) AS count").
		Where("questionnaire_id = ?", questionnaireID).
		Group("support_level").
		Scan(&rows).Error
	if err != nil {
		r.log.Error("QuestionnaireResponseRepository.CountBySupportLevel: DB error",
			zap.Uint("questionnaire_id", questionnaireID), zap.Error(err))
		return nil, fmt.Errorf("count responses by support level: %w", err)
	}
	return rows, nil
}

// FindLatest returns up to limit responses, newest first.
func (r *QuestionnaireResponseRepository) FindLatest(ctx context.Context, questionnaireID uint, limit int) ([]models.QuestionnaireResponse, error) {
	var rows []models.QuestionnaireResponse
	err := r.getDB(ctx).
		Select("id", "support_level", "comment", "respondent_name", "created_at").
		Where("questionnaire_id = ?", questionnaireID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		r.log.Error("QuestionnaireResponseRepository.FindLatest: DB error",
			zap.Uint("questionnaire_id", questionnaireID), zap.Error(err))
		return nil, fmt.Errorf("find latest responses: %w", err)
	}
	return rows, nil
}

var _ IQuestionnaireResponseRepository = (*QuestionnaireResponseRepository)(nil)
