package utils

import (
	"errors"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/gofiber/fiber/v2"
)

// LocalsError carries a 5xx cause to the request logger; it never reaches the client.
const LocalsError = "error"

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"message": msg,
	})
}

// create a generic response function for success
func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// StatusFor maps a domain error onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func ResponseFromError(ctx *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		ctx.Locals(LocalsError, err)
		return ResponseError(ctx, status, "internal server error")
	}
	return ResponseError(ctx, status, err.Error())
}
