package middleware

import (
	"context"
	"strings"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/SundayYogurt/bachelor-point/internal/dto"
	"github.com/SundayYogurt/bachelor-point/internal/helper"
	"github.com/SundayYogurt/bachelor-point/internal/helper/utils"
	"github.com/gofiber/fiber/v2"
)

// PrincipalLoader resolves verified token claims into the caller's current identity.
type PrincipalLoader interface {
	CurrentPrincipal(ctx context.Context, claims dto.TokenClaims) (domain.Principal, error)
}

func AuthMiddleware(auth helper.Auth, loader PrincipalLoader) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// 1) try cookie first
		tokenStr := strings.TrimSpace(ctx.Cookies("access_token"))

		// 2) fallback to Authorization header
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get(fiber.HeaderAuthorization))
		}

		claims, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
		}

		principal, err := loader.CurrentPrincipal(ctx.UserContext(), claims)
		if err != nil {
			return utils.ResponseFromError(ctx, err)
		}

		ctx.Locals(helper.LocalsPrincipal, principal)
		return ctx.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		principal, ok := ctx.Locals(helper.LocalsPrincipal).(domain.Principal)
		if !ok || principal.StudentID == "" {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
		}
		if !principal.IsAdmin() {
			return utils.ResponseError(ctx, fiber.StatusForbidden, "admin only")
		}
		return ctx.Next()
	}
}
