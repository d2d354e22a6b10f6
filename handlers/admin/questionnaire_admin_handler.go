package admin

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shitcodegenerator/touching-backend/middlewares"
	"github.com/shitcodegenerator/touching-backend/pkg/response"
	"github.com/shitcodegenerator/touching-backend/services"
)

const (
	msgActivated   = "問卷已啟用"
	msgDeactivated = "問卷已停用"
)

// QuestionnaireAdminHandler serves the admin-only questionnaire endpoints.
// Routes using it must sit behind middlewares.AdminAuth.
type QuestionnaireAdminHandler struct {
	service services.IQuestionnaireService
	log     *zap.Logger
	dev     bool
}

func NewQuestionnaireAdminHandler(service services.IQuestionnaireService, log *zap.Logger, dev bool) *QuestionnaireAdminHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuestionnaireAdminHandler{service: service, log: log, dev: dev}
}

// List handles GET /questionnaire/admin/list.
func (h *QuestionnaireAdminHandler) List(c *fiber.Ctx) error {
	items, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return response.ServiceError(c, err, h.log, h.dev)
	}
	return response.OK(c, items, "")
}

// Toggle handles PATCH /questionnaire/admin/:shortId/toggle.
func (h *QuestionnaireAdminHandler) Toggle(c *fiber.Ctx) error {
	shortID := c.Params("shortId")
	result, err := h.service.ToggleActive(c.UserContext(), shortID)
	if err != nil {
		return response.ServiceError(c, err, h.log, h.dev)
	}

	h.log.Info("Questionnaire status changed by admin",
		zap.Any("admin_id", c.Locals(middlewares.LocalsAdminID)),
		zap.String("short_id", shortID),
		zap.Bool("is_active", result.IsActive),
	)
	msg := msgDeactivated
	if result.IsActive {
		msg = msgActivated
	}
	return response.OK(c, result, msg)
}
