package handlers

import (
	"fmt"
	"strconv"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/gofiber/fiber/v2"
)

func parseID(ctx *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrValidation, name)
	}
	return uint(id), nil
}
