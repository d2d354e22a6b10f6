package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shitcodegenerator/touching-backend/models"
	"github.com/shitcodegenerator/touching-backend/repositories"
)

type fakeQuestionnaireRepo struct {
	mu         sync.Mutex
	byShortID  map[string]*models.Questionnaire
	nextID     uint
	createErrs []error // consumed one per Create call before inserting
	creates    int
	findErr    error
}

func newFakeQuestionnaireRepo() *fakeQuestionnaireRepo {
	return &fakeQuestionnaireRepo{byShortID: map[string]*models.Questionnaire{}}
}

func (f *fakeQuestionnaireRepo) Create(_ context.Context, q *models.Questionnaire) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, ok := f.byShortID[q.ShortID]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.nextID++
	q.ID = f.nextID
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	cp := *q
	f.byShortID[q.ShortID] = &cp
	return nil
}

func (f *fakeQuestionnaireRepo) FindByShortID(_ context.Context, shortID string) (*models.Questionnaire, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	q, ok := f.byShortID[shortID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (f *fakeQuestionnaireRepo) ToggleActive(_ context.Context, shortID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.byShortID[shortID]
	if !ok {
		return false, repositories.ErrNotFound
	}
	q.IsActive = !q.IsActive
	return q.IsActive, nil
}

func (f *fakeQuestionnaireRepo) ListWithResponseCounts(context.Context) ([]repositories.QuestionnaireSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repositories.QuestionnaireSummary, 0, len(f.byShortID))
	for _, q := range f.byShortID {
		out = append(out, repositories.QuestionnaireSummary{
			ShortID:       q.ShortID,
			InitiatorName: q.InitiatorName,
			Phone:         q.Phone,
			LineID:        q.LineID,
			Community:     q.Community,
			IsActive:      q.IsActive,
			CreatedAt:     q.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeResponseRepo struct {
	mu   sync.Mutex
	rows []models.QuestionnaireResponse
	err  error
}

func (f *fakeResponseRepo) Create(_ context.Context, resp *models.QuestionnaireResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	resp.ID = uint(len(f.rows) + 1)
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = time.Now()
	}
	f.rows = append(f.rows, *resp)
	return nil
}

func (f *fakeResponseRepo) CountBySupportLevel(_ context.Context, qID uint) ([]repositories.SupportLevelCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	counts := map[models.SupportLevel]int64{}
	for _, r := range f.rows {
		if r.QuestionnaireID == qID {
			counts[r.SupportLevel]++
		}
	}
	out := make([]repositories.SupportLevelCount, 0, len(counts))
	for lvl, n := range counts {
		out = append(out, repositories.SupportLevelCount{SupportLevel: lvl, Count: n})
	}
	return out, nil
}

func (f *fakeResponseRepo) FindLatest(_ context.Context, qID uint, limit int) ([]models.QuestionnaireResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.QuestionnaireResponse
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].QuestionnaireID == qID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

// sequenceGenerator hands out fixed identifiers in order.
type sequenceGenerator struct {
	mu          sync.Mutex
	shortIDs    []string
	accessCodes []string
	calls       int
}

func (g *sequenceGenerator) ShortID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.shortIDs[g.calls%len(g.shortIDs)]
	g.calls++
	return id, nil
}

func (g *sequenceGenerator) AccessCode() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.accessCodes[(g.calls-1)%len(g.accessCodes)], nil
}
