package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shitcodegenerator/touching-backend/configs"
	"github.com/shitcodegenerator/touching-backend/configs/configsdatabase"
	"github.com/shitcodegenerator/touching-backend/database"
	"github.com/shitcodegenerator/touching-backend/models"
	"github.com/shitcodegenerator/touching-backend/repositories"
)

const testAdminSecret = "route-test-secret"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app, _ := newTestAppWithDB(t)
	return app
}

func newTestAppWithDB(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	log := zaptest.NewLogger(t)
	cfg := &configs.Config{
		Env:           configs.EnvProduction,
		PublicBaseURL: "https://touching-dev.com",
		DB: configs.DatabaseConfig{
			Driver:     configs.DriverSQLite,
			SQLitePath: ":memory:",
		},
		RequestTimeout:   5 * time.Second,
		AdminJWTSecret:   testAdminSecret,
		CORSAllowOrigins: "http://localhost:5173",
	}
	db, err := configsdatabase.InitDB(cfg.DB, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = configsdatabase.CloseDB(db) })
	require.NoError(t, database.RunMigrationsInOrder(db))

	return NewApp(configs.NewApp(cfg, db, log)), db
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Detail  string          `json:"detail"`
}

func call(t *testing.T, app *fiber.App, method, path string, body any, token string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	}
	return resp.StatusCode, env
}

func adminToken(t *testing.T, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role":    role,
		"adminId": "admin-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testAdminSecret))
	require.NoError(t, err)
	return tok
}

type createdData struct {
	ShortID          string `json:"shortId"`
	QuestionnaireURL string `json:"questionnaireUrl"`
	StatsURL         string `json:"statsUrl"`
	AccessCode       string `json:"accessCode"`
}

func createQuestionnaire(t *testing.T, app *fiber.App) createdData {
	t.Helper()
	status, env := call(t, app, fiber.MethodPost, "/questionnaire/create", map[string]any{
		"initiatorName": "王小明",
		"phone":         "0912345678",
		"community": map[string]string{
			"county":   "台北市",
			"district": "大安區",
			"name":     "測試社區",
		},
	}, "")
	require.Equal(t, fiber.StatusOK, status, env.Message)
	assert.Equal(t, "問卷建立成功", env.Message)

	var data createdData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func TestQuestionnaireFlow(t *testing.T) {
	app := newTestApp(t)

	created := createQuestionnaire(t, app)
	assert.Len(t, created.ShortID, 8)
	assert.Len(t, created.AccessCode, 6)
	assert.Equal(t, "https://touching-dev.com/questionnaire/"+created.ShortID, created.QuestionnaireURL)
	assert.Equal(t, "https://touching-dev.com/questionnaire/"+created.ShortID+"/stats?accessCode="+created.AccessCode, created.StatsURL)

	base := "/questionnaire/" + created.ShortID

	status, env := call(t, app, fiber.MethodGet, base, nil, "")
	require.Equal(t, fiber.StatusOK, status)
	var info struct {
		CommunityName string `json:"communityName"`
		IsActive      bool   `json:"isActive"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &info))
	assert.Equal(t, "台北市大安區測試社區", info.CommunityName)
	assert.True(t, info.IsActive)

	status, env = call(t, app, fiber.MethodPost, base+"/response", map[string]string{
		"supportLevel": "supportive",
		"comment":      "贊成",
	}, "")
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "感謝您的填寫", env.Message)
	assert.JSONEq(t, "true", string(env.Data))

	status, env = call(t, app, fiber.MethodGet, base+"/stats?accessCode="+created.AccessCode, nil, "")
	require.Equal(t, fiber.StatusOK, status)
	var stats struct {
		Initiator struct {
			Name  string `json:"name"`
			Phone string `json:"phone"`
		} `json:"initiator"`
		TotalResponses      int64            `json:"totalResponses"`
		SupportDistribution map[string]int64 `json:"supportDistribution"`
		LatestComments      []struct {
			SupportLevel   string `json:"supportLevel"`
			Comment        string `json:"comment"`
			RespondentName string `json:"respondentName"`
		} `json:"latestComments"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(1), stats.TotalResponses)
	assert.Equal(t, map[string]int64{
		"very_supportive":     0,
		"supportive":          1,
		"neutral":             0,
		"not_supportive":      0,
		"very_not_supportive": 0,
	}, stats.SupportDistribution)
	require.Len(t, stats.LatestComments, 1)
	assert.Equal(t, "匿名", stats.LatestComments[0].RespondentName)
	assert.Equal(t, "贊成", stats.LatestComments[0].Comment)
	assert.Equal(t, "王小明", stats.Initiator.Name)
}

func TestStatsAccessCodes(t *testing.T) {
	app := newTestApp(t)
	created := createQuestionnaire(t, app)
	base := "/questionnaire/" + created.ShortID + "/stats"

	status, env := call(t, app, fiber.MethodGet, base, nil, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "請提供存取密碼", env.Error)
	assert.Equal(t, env.Error, env.Message)

	wrong := "000000"
	if created.AccessCode == wrong {
		wrong = "999999"
	}
	status, env = call(t, app, fiber.MethodGet, base+"?accessCode="+wrong, nil, "")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "存取密碼錯誤", env.Error)

	status, _ = call(t, app, fiber.MethodGet, "/questionnaire/zzzzzzzz/stats?accessCode=123456", nil, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, app, fiber.MethodGet, base+"?accessCode="+created.AccessCode, nil, "")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestCreateValidation(t *testing.T) {
	app := newTestApp(t)

	status, env := call(t, app, fiber.MethodPost, "/questionnaire/create", map[string]any{
		"initiatorName": "王小明",
		"community":     map[string]string{"county": "台北市", "district": "大安區", "name": "測試社區"},
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "請提供手機號碼或 LINE ID", env.Message)

	status, _ = call(t, app, fiber.MethodPost, "/questionnaire/create", map[string]any{
		"initiatorName": "王小明",
		"lineId":        "wang_line",
		"community":     map[string]string{"county": "台北市", "district": "大安區", "name": "測試社區"},
	}, "")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestSubmitValidationHidesFieldName(t *testing.T) {
	app := newTestApp(t)
	created := createQuestionnaire(t, app)

	status, env := call(t, app, fiber.MethodPost, "/questionnaire/"+created.ShortID+"/response", map[string]string{
		"supportLevel": "supportive",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "請填寫您的意見", env.Error)
	assert.Equal(t, env.Error, env.Message)
}

func TestPublicRoutesAcceptAdminPrefixedShortID(t *testing.T) {
	app, db := newTestAppWithDB(t)
	const shortID, code = "adminXy1", "123456"
	require.NoError(t, repositories.NewQuestionnaireRepository(db, nil).Create(context.Background(), &models.Questionnaire{
		ShortID:       shortID,
		AccessCode:    code,
		InitiatorName: "王小明",
		Phone:         "0912345678",
		Community:     datatypes.NewJSONType(models.Community{County: "台北市", District: "大安區", Name: "測試社區"}),
		IsActive:      true,
	}))
	base := "/questionnaire/" + shortID

	status, env := call(t, app, fiber.MethodGet, base, nil, "")
	assert.Equal(t, fiber.StatusOK, status, env.Message)

	status, env = call(t, app, fiber.MethodPost, base+"/response", map[string]string{
		"supportLevel": "neutral",
		"comment":      "再看看",
	}, "")
	assert.Equal(t, fiber.StatusCreated, status, env.Message)

	status, env = call(t, app, fiber.MethodGet, base+"/stats?accessCode="+code, nil, "")
	assert.Equal(t, fiber.StatusOK, status, env.Message)

	// the admin routes themselves still require a token
	status, _ = call(t, app, fiber.MethodGet, "/questionnaire/admin/list", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = call(t, app, fiber.MethodPatch, "/questionnaire/admin/"+shortID+"/toggle", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAdminRoutes(t *testing.T) {
	app := newTestApp(t)
	created := createQuestionnaire(t, app)
	toggle := "/questionnaire/admin/" + created.ShortID + "/toggle"

	status, _ := call(t, app, fiber.MethodGet, "/questionnaire/admin/list", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = call(t, app, fiber.MethodGet, "/questionnaire/admin/list", nil, "not-a-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = call(t, app, fiber.MethodPatch, toggle, nil, adminToken(t, "user"))
	assert.Equal(t, fiber.StatusForbidden, status)

	token := adminToken(t, "admin")

	status, env := call(t, app, fiber.MethodGet, "/questionnaire/admin/list", nil, token)
	require.Equal(t, fiber.StatusOK, status)
	var items []struct {
		ShortID        string `json:"shortId"`
		TotalResponses int64  `json:"totalResponses"`
		Initiator      struct {
			Name string `json:"name"`
		} `json:"initiator"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, created.ShortID, items[0].ShortID)
	assert.Equal(t, "王小明", items[0].Initiator.Name)

	status, env = call(t, app, fiber.MethodPatch, toggle, nil, token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "問卷已停用", env.Message)
	assert.JSONEq(t, `{"isActive":false}`, string(env.Data))

	status, env = call(t, app, fiber.MethodPost, "/questionnaire/"+created.ShortID+"/response", map[string]string{
		"supportLevel": "not_a_level",
	}, "")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "此問卷已關閉，無法填寫", env.Message)

	status, env = call(t, app, fiber.MethodPatch, toggle, nil, token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "問卷已啟用", env.Message)
	assert.JSONEq(t, `{"isActive":true}`, string(env.Data))

	status, _ = call(t, app, fiber.MethodPatch, "/questionnaire/admin/zzzzzzzz/toggle", nil, token)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHealthMetricsAndNotFound(t *testing.T) {
	app := newTestApp(t)
	createQuestionnaire(t, app)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "questionnaire_created_total 1"), string(body))

	status, env := call(t, app, fiber.MethodGet, "/no/such/route", nil, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "找不到此頁面", env.Error)
}
