package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shitcodegenerator/touching-backend/services"
)

// MsgInternal is shown for every 500; the cause only goes to the log.
const MsgInternal = "系統錯誤，請稍後再試"

// Success is the body of every 2xx reply.
type Success struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// Failure is the body of every non-2xx reply. Error and Message carry the same text.
type Failure struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func OK(c *fiber.Ctx, data any, message string) error {
	return c.Status(fiber.StatusOK).JSON(Success{Data: data, Message: message})
}

func Created(c *fiber.Ctx, data any, message string) error {
	return c.Status(fiber.StatusCreated).JSON(Success{Data: data, Message: message})
}

func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Failure{Error: message, Message: message})
}

// Internal replies 500 with the generic message. detail is included only when
// non-empty, which callers restrict to development mode.
func Internal(c *fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(Failure{
		Error:   MsgInternal,
		Message: MsgInternal,
		Detail:  detail,
	})
}

// StatusOf maps a service error kind to an HTTP status.
func StatusOf(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation:
		return fiber.StatusBadRequest
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// ServiceError writes the reply for an error returned by a service. 500-class
// errors are logged with their cause and answered with the generic message.
func ServiceError(c *fiber.Ctx, err error, log *zap.Logger, dev bool) error {
	kind := services.KindOf(err)
	status := StatusOf(kind)
	if status < fiber.StatusInternalServerError {
		return Fail(c, status, clientMessage(err))
	}

	log.Error("Request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.String("kind", kind.String()),
		zap.Any("request_id", c.Locals("requestID")),
		zap.Error(err),
	)
	detail := ""
	if dev {
		detail = err.Error()
	}
	return Internal(c, detail)
}

// clientMessage is the user-facing text of a 4xx error. Field names and
// wrapping context stay out of the reply.
func clientMessage(err error) string {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var se services.QuestionnaireServiceError
	if errors.As(err, &se) {
		return se.Error()
	}
	return err.Error()
}
