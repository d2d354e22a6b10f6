package middlewares

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/shitcodegenerator/touching-backend/pkg/response"
)

const msgTooManyRequests = "請求過於頻繁，請稍後再試"

func Recovery() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
	})
}

func AccessLog() fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Taipei",
		Format:     "[${time}] ${ip} ${locals:requestID} - ${method} ${path} - ${status} - ${latency}\n",
	})
}

// Cors allows credentials only for an explicit origin list; fiber rejects
// credentials combined with "*".
func Cors(allowOrigins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: strings.TrimSpace(allowOrigins) != "*",
	})
}

// RateLimiter allows each client IP limit requests per window.
func RateLimiter(limit int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Fail(c, fiber.StatusTooManyRequests, msgTooManyRequests)
		},
	})
}

// ErrorHandler renders errors that escape handlers, including recovered
// panics, in the JSON error envelope.
func ErrorHandler(log *zap.Logger, dev bool) fiber.ErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return response.Fail(c, fe.Code, fe.Message)
		}

		log.Error("Unhandled request error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Any("request_id", c.Locals(LocalsRequestID)),
			zap.Error(err),
		)
		detail := ""
		if dev {
			detail = err.Error()
		}
		return response.Internal(c, detail)
	}
}
