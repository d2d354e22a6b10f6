package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/shitcodegenerator/touching-backend/models"
	"github.com/shitcodegenerator/touching-backend/pkg/metrics"
	"github.com/shitcodegenerator/touching-backend/repositories"
)

const (
	latestCommentsLimit = 10
	anonymousName       = "匿名"
)

// IQuestionnaireService is the questionnaire use-case surface.
type IQuestionnaireService interface {
	CreateQuestionnaire(ctx context.Context, input CreateQuestionnaireInput) (*CreateQuestionnaireResult, error)
	GetInfo(ctx context.Context, shortID string) (*QuestionnaireInfo, error)
	ToggleActive(ctx context.Context, shortID string) (*ToggleResult, error)
	SubmitResponse(ctx context.Context, shortID string, input SubmitResponseInput) error
	GetStats(ctx context.Context, shortID, accessCode string) (*QuestionnaireStats, error)
	ListAll(ctx context.Context) ([]QuestionnaireListItem, error)
}

// QuestionnaireService implements IQuestionnaireService.
type QuestionnaireService struct {
	questionnaires repositories.IQuestionnaireRepository
	responses      repositories.IQuestionnaireResponseRepository
	ids            IIdentifierGenerator
	baseURL        string
	log            *zap.Logger
	metrics        *metrics.Metrics
}

// NewQuestionnaireService wires the service. A nil logger or metrics set is
// replaced with a no-op logger and a private registry.
func NewQuestionnaireService(
	questionnaires repositories.IQuestionnaireRepository,
	responses repositories.IQuestionnaireResponseRepository,
	ids IIdentifierGenerator,
	baseURL string,
	log *zap.Logger,
	m *metrics.Metrics,
) IQuestionnaireService {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}
	if ids == nil {
		ids = NewIdentifierGenerator()
	}
	return &QuestionnaireService{
		questionnaires: questionnaires,
		responses:      responses,
		ids:            ids,
		baseURL:        strings.TrimRight(baseURL, "/"),
		log:            log,
		metrics:        m,
	}
}

// CreateQuestionnaire validates input and inserts a questionnaire with fresh
// identifiers, regenerating both on a short ID collision.
func (s *QuestionnaireService) CreateQuestionnaire(ctx context.Context, input CreateQuestionnaireInput) (*CreateQuestionnaireResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	q, err := retryOnConflict(ctx, createAttempts, func(attempt int) (*models.Questionnaire, error) {
		shortID, err := s.ids.ShortID()
		if err != nil {
			return nil, err
		}
		accessCode, err := s.ids.AccessCode()
		if err != nil {
			return nil, err
		}
		q := &models.Questionnaire{
			ShortID:       shortID,
			AccessCode:    accessCode,
			InitiatorName: input.InitiatorName,
			Phone:         input.Phone,
			LineID:        input.LineID,
			Community: datatypes.NewJSONType(models.Community{
				County:   input.Community.County,
				District: input.Community.District,
				Name:     input.Community.Name,
			}),
			IsActive: true,
		}
		if err := s.questionnaires.Create(ctx, q); err != nil {
			return nil, err
		}
		return q, nil
	}, func(attempt int, err error) {
		s.metrics.ShortIDCollisions.Inc()
		s.log.Warn("Short ID collision, regenerating", zap.Int("attempt", attempt), zap.Error(err))
	})
	if err != nil {
		if errors.Is(err, ErrShortIDExhausted) {
			s.log.Error("Short ID generation exhausted", zap.Int("attempts", createAttempts), zap.Error(err))
			return nil, err
		}
		s.log.Error("Questionnaire create failed", zap.Error(err))
		return nil, fmt.Errorf("create questionnaire: %w", err)
	}

	s.metrics.QuestionnairesCreated.Inc()
	s.log.Info("Questionnaire created", zap.String("short_id", q.ShortID), zap.Uint("id", q.ID))

	return &CreateQuestionnaireResult{
		ShortID:          q.ShortID,
		QuestionnaireURL: s.questionnaireURL(q.ShortID),
		StatsURL:         s.statsURL(q.ShortID, q.AccessCode),
		AccessCode:       q.AccessCode,
	}, nil
}

func (s *QuestionnaireService) GetInfo(ctx context.Context, shortID string) (*QuestionnaireInfo, error) {
	q, err := s.find(ctx, shortID)
	if err != nil {
		return nil, err
	}
	return &QuestionnaireInfo{
		ShortID:       q.ShortID,
		CommunityName: q.Community.Data().DisplayName(),
		IsActive:      q.IsActive,
		CreatedAt:     q.CreatedAt,
	}, nil
}

// ToggleActive flips the active flag atomically and returns the new state.
func (s *QuestionnaireService) ToggleActive(ctx context.Context, shortID string) (*ToggleResult, error) {
	isActive, err := s.questionnaires.ToggleActive(ctx, shortID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, fmt.Errorf("toggle questionnaire %s: %w", shortID, err)
	}
	s.log.Info("Questionnaire toggled", zap.String("short_id", shortID), zap.Bool("is_active", isActive))
	return &ToggleResult{IsActive: isActive}, nil
}

// SubmitResponse appends a response. A closed questionnaire is rejected
// before the payload is looked at.
func (s *QuestionnaireService) SubmitResponse(ctx context.Context, shortID string, input SubmitResponseInput) error {
	q, err := s.find(ctx, shortID)
	if err != nil {
		if errors.Is(err, ErrQuestionnaireNotFound) {
			s.metrics.SubmissionsRejected.WithLabelValues("not_found").Inc()
		}
		return err
	}
	if !q.IsActive {
		s.metrics.SubmissionsRejected.WithLabelValues("closed").Inc()
		return ErrQuestionnaireClosed
	}
	if err := input.Validate(); err != nil {
		s.metrics.SubmissionsRejected.WithLabelValues("validation").Inc()
		return err
	}

	level := models.SupportLevel(input.SupportLevel)
	resp := &models.QuestionnaireResponse{
		QuestionnaireID: q.ID,
		SupportLevel:    level,
		Comment:         input.Comment,
		RespondentName:  input.RespondentName,
		ContactInfo:     input.ContactInfo,
	}
	if err := s.responses.Create(ctx, resp); err != nil {
		return fmt.Errorf("save response for %s: %w", shortID, err)
	}

	s.metrics.ResponsesSubmitted.WithLabelValues(string(level)).Inc()
	return nil
}

// GetStats returns the aggregated view after checking the access code.
func (s *QuestionnaireService) GetStats(ctx context.Context, shortID, accessCode string) (*QuestionnaireStats, error) {
	if accessCode == "" {
		return nil, ErrAccessCodeRequired
	}
	q, err := s.find(ctx, shortID)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(q.AccessCode), []byte(accessCode)) != 1 {
		s.metrics.StatsAccessDenied.Inc()
		s.log.Info("Stats access denied", zap.String("short_id", shortID))
		return nil, ErrAccessCodeMismatch
	}

	start := time.Now()
	var (
		counts []repositories.SupportLevelCount
		latest []models.QuestionnaireResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.responses.CountBySupportLevel(gctx, q.ID)
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = s.responses.FindLatest(gctx, q.ID, latestCommentsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("stats for %s: %w", shortID, err)
	}
	s.metrics.StatsQueryDuration.Observe(time.Since(start).Seconds())

	distribution := make(map[models.SupportLevel]int64, len(models.SupportLevels))
	for _, lvl := range models.SupportLevels {
		distribution[lvl] = 0
	}
	var total int64
	for _, c := range counts {
		if !c.SupportLevel.Valid() {
			s.log.Warn("Unknown support level in store", zap.String("short_id", shortID), zap.String("support_level", string(c.SupportLevel)))
			continue
		}
		distribution[c.SupportLevel] = c.Count
		total += c.Count
	}

	comments := make([]CommentView, 0, len(latest))
	for _, r := range latest {
		name := r.RespondentName
		if name == "" {
			name = anonymousName
		}
		comments = append(comments, CommentView{
			SupportLevel:   r.SupportLevel,
			Comment:        r.Comment,
			RespondentName: name,
			CreatedAt:      r.CreatedAt,
		})
	}

	return &QuestionnaireStats{
		Initiator: InitiatorView{
			Name:   q.InitiatorName,
			Phone:  q.Phone,
			LineID: q.LineID,
		},
		Community:           q.Community.Data(),
		TotalResponses:      total,
		SupportDistribution: distribution,
		LatestComments:      comments,
	}, nil
}

// ListAll returns every questionnaire, newest first.
func (s *QuestionnaireService) ListAll(ctx context.Context) ([]QuestionnaireListItem, error) {
	rows, err := s.questionnaires.ListWithResponseCounts(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]QuestionnaireListItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, QuestionnaireListItem{
			ShortID:   r.ShortID,
			Community: r.Community.Data(),
			Initiator: InitiatorView{
				Name:   r.InitiatorName,
				Phone:  r.Phone,
				LineID: r.LineID,
			},
			IsActive:       r.IsActive,
			TotalResponses: r.TotalResponses,
			CreatedAt:      r.CreatedAt,
		})
	}
	return items, nil
}

func (s *QuestionnaireService) find(ctx context.Context, shortID string) (*models.Questionnaire, error) {
	q, err := s.questionnaires.FindByShortID(ctx, shortID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, fmt.Errorf("find questionnaire %s: %w", shortID, err)
	}
	return q, nil
}

func (s *QuestionnaireService) questionnaireURL(shortID string) string {
	return fmt.Sprintf("%s/questionnaire/%s", s.baseURL, shortID)
}

func (s *QuestionnaireService) statsURL(shortID, accessCode string) string {
	return fmt.Sprintf("%s/questionnaire/%s/stats?accessCode=%s", s.baseURL, shortID, accessCode)
}

var _ IQuestionnaireService = (*QuestionnaireService)(nil)
