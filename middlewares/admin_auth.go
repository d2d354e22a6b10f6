package middlewares

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/shitcodegenerator/touching-backend/pkg/response"
)

const (
	LocalsAdminID = "adminID"
	adminRole     = "admin"

	msgTokenMissing = "未提供授權憑證"
	msgTokenInvalid = "授權憑證無效或已過期"
	msgNotAdmin     = "需要管理員權限"
)

// AdminAuth verifies an HS256 bearer token whose claims carry role "admin"
// and an adminId, and stores the id in c.Locals(LocalsAdminID).
func AdminAuth(secret string, log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *fiber.Ctx) error {
		raw := bearerToken(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return response.Fail(c, fiber.StatusUnauthorized, msgTokenMissing)
		}
		if len(key) == 0 {
			log.Warn("Admin request rejected: ADMIN_JWT_SECRET is not configured")
			return response.Fail(c, fiber.StatusUnauthorized, msgTokenInvalid)
		}

		token, err := parser.Parse(raw, func(*jwt.Token) (any, error) {
			return key, nil
		})
		if err != nil {
			if !errors.Is(err, jwt.ErrTokenExpired) {
				log.Info("Admin token rejected", zap.String("path", c.Path()), zap.Error(err))
			}
			return response.Fail(c, fiber.StatusUnauthorized, msgTokenInvalid)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return response.Fail(c, fiber.StatusUnauthorized, msgTokenInvalid)
		}

		if role, _ := claims["role"].(string); role != adminRole {
			return response.Fail(c, fiber.StatusForbidden, msgNotAdmin)
		}
		adminID := claimString(claims["adminId"])
		if adminID == "" {
			return response.Fail(c, fiber.StatusUnauthorized, msgTokenInvalid)
		}

		c.Locals(LocalsAdminID, adminID)
		return c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// claimString accepts ids encoded as JSON strings or numbers.
func claimString(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return ""
	}
}
