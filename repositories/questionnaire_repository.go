package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shitcodegenerator/touching-backend/models"
)

// QuestionnaireSummary is one row of the admin listing.
type QuestionnaireSummary struct {
	ShortID        string
	InitiatorName  string
	Phone          string
	LineID         string
	Community      datatypes.JSONType[models.Community]
	IsActive       bool
	TotalResponses int64
	CreatedAt      time.Time
}

// IQuestionnaireRepository persists questionnaire campaigns.
type IQuestionnaireRepository interface {
	Create(ctx context.Context, q *models.Questionnaire) error
	FindByShortID(ctx context.Context, shortID string) (*models.Questionnaire, error)
	ToggleActive(ctx context.Context, shortID string) (bool, error)
	ListWithResponseCounts(ctx context.Context) ([]QuestionnaireSummary, error)
}

// QuestionnaireRepository implements IQuestionnaireRepository on GORM.
type QuestionnaireRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewQuestionnaireRepository returns a repository bound to db.
func NewQuestionnaireRepository(db *gorm.DB, log *zap.Logger) IQuestionnaireRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuestionnaireRepository{db: db, log: log}
}

func (r *QuestionnaireRepository) getDB(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db)
}

// Create inserts q. A short ID collision surfaces as an error satisfying IsUniqueViolation.
func (r *QuestionnaireRepository) Create(ctx context.Context, q *models.Questionnaire) error {
	if q == nil {
		return errors.New("questionnaire to create is nil")
	}
	return r.getDB(ctx).Create(q).Error
}

// FindByShortID loads a questionnaire by its public handle.
func (r *QuestionnaireRepository) FindByShortID(ctx context.Context, shortID string) (*models.Questionnaire, error) {
	var q models.Questionnaire
	err := r.getDB(ctx).Where("short_id = ?", shortID).First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		r.log.Error("QuestionnaireRepository.FindByShortID: DB error", zap.String("short_id", shortID), zap.Error(err))
		return nil, err
	}
	return &q, nil
}

// ToggleActive flips is_active in one UPDATE and returns the new value. The
// read-back happens in the same transaction, so it sees this call's write.
func (r *QuestionnaireRepository) ToggleActive(ctx context.Context, shortID string) (bool, error) {
	var isActive bool
	err := r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Questionnaire{}).
			Where("short_id = ?", shortID).
			Update("is_active", gorm.Expr("NOT is_active"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var q models.Questionnaire
		if err := tx.Select("is_active").Where("short_id = ?", shortID).First(&q).Error; err != nil {
			return notFoundOr(err)
		}
		isActive = q.IsActive
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.log.Error("QuestionnaireRepository.ToggleActive: DB error", zap.String("short_id", shortID), zap.Error(err))
		}
		return false, err
	}
	return isActive, nil
}

// ListWithResponseCounts returns every questionnaire with its response count,
// newest first, using a single grouped join.
func (r *QuestionnaireRepository) ListWithResponseCounts(ctx context.Context) ([]QuestionnaireSummary, error) {
	var rows []QuestionnaireSummary
	err := r.getDB(ctx).
		Table("questionnaires AS q").
		Select("q.short_id, q.initiator_name, q.phone, q.line_id, q.community, q.is_active, q.created_at, COUNT(r.id) AS total_responses").
		Joins("LEFT JOIN questionnaire_responses AS r ON r.questionnaire_id = q.id").
		Group("q.id").
		Order("q.created_at DESC, q.id DESC").
		Scan(&rows).Error
	if err != nil {
		r.log.Error("QuestionnaireRepository.ListWithResponseCounts: DB error", zap.Error(err))
		return nil, fmt.Errorf("list questionnaires: %w", err)
	}
	return rows, nil
}

var _ IQuestionnaireRepository = (*QuestionnaireRepository)(nil)
