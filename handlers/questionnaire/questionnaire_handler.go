package questionnaire

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shitcodegenerator/touching-backend/pkg/response"
	"github.com/shitcodegenerator/touching-backend/services"
)

const (
	msgCreated       = "問卷建立成功"
	msgSubmitted     = "感謝您的填寫"
	msgInvalidFormat = "輸入格式錯誤"
)

// QuestionnaireHandler serves the public questionnaire endpoints.
type QuestionnaireHandler struct {
	service services.IQuestionnaireService
	log     *zap.Logger
	dev     bool
}

func NewQuestionnaireHandler(service services.IQuestionnaireService, log *zap.Logger, dev bool) *QuestionnaireHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuestionnaireHandler{service: service, log: log, dev: dev}
}

// Create handles POST /questionnaire/create.
func (h *QuestionnaireHandler) Create(c *fiber.Ctx) error {
	var input services.CreateQuestionnaireInput
	if err := c.BodyParser(&input); err != nil {
		h.log.Debug("Create: body parse failed", zap.Error(err))
		return response.Fail(c, fiber.StatusBadRequest, msgInvalidFormat)
	}

	result, err := h.service.CreateQuestionnaire(c.UserContext(), input)
	if err != nil {
		return response.ServiceError(c, err, h.log, h.dev)
	}
	return response.OK(c, result, msgCreated)
}

// Info handles GET /questionnaire/:shortId.
func (h *QuestionnaireHandler) Info(c *fiber.Ctx) error {
	info, err := h.service.GetInfo(c.UserContext(), c.Params("shortId"))
	if err != nil {
		return response.ServiceError(c, err, h.log, h.dev)
	}
	return response.OK(c, info, "")
}

// SubmitResponse handles POST /questionnaire/:shortId/response. A body that
// does not parse is treated as empty, so a closed questionnaire still answers 403.
func (h *QuestionnaireHandler) SubmitResponse(c *fiber.Ctx) error {
	var input services.SubmitResponseInput
	if err := c.BodyParser(&input); err != nil {
		h.log.Debug("SubmitResponse: body parse failed", zap.Error(err))
		input = services.SubmitResponseInput{}
	}

	if err := h.service.SubmitResponse(c.UserContext(), c.Params("shortId"), input); err != nil {
		return response.ServiceError(c, err, h.log, h.dev)
	}
	return response.Created(c, true, msgSubmitted)
}

// Stats handles GET /questionnaire/:shortId/stats?accessCode=.
func (h *QuestionnaireHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats(c.UserContext(), c.Params("shortId"), c.Query("accessCode"))
	if err != nil {
		return response.ServiceError(c, err, h.log, h.dev)
	}
	return response.OK(c, stats, "")
}
