package handlers

import (
	"github.com/SundayYogurt/bachelor-point/internal/api/rest/middleware"
	"github.com/SundayYogurt/bachelor-point/internal/dto"
	"github.com/SundayYogurt/bachelor-point/internal/helper"
	"github.com/SundayYogurt/bachelor-point/internal/helper/utils"
	"github.com/SundayYogurt/bachelor-point/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ListingHandler struct {
	svc         services.ListingService
	auth        helper.Auth
	requireAuth fiber.Handler
}

func NewListingHandler(svc services.ListingService, auth helper.Auth, loader middleware.PrincipalLoader) *ListingHandler {
	return &ListingHandler{
		svc:         svc,
		auth:        auth,
		requireAuth: middleware.AuthMiddleware(auth, loader),
	}
}

func (h *ListingHandler) SetupRoutes(app *fiber.App) {
	listings := app.Group("/api/listings", h.requireAuth)

	listings.Post("/", h.Create)
	listings.Get("/", h.List)
	listings.Get("/self", h.ListOwn)
	listings.Get("/:id", h.Get)
	listings.Put("/:id", h.Update)
	listings.Delete("/:id", h.Delete)
}

func (h *ListingHandler) Create(ctx *fiber.Ctx) error {
	principal, err := h.auth.GetCurrentPrincipal(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	var requestBody dto.ListingRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	listing, err := h.svc.Create(ctx.UserContext(), principal, requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, dto.ToListingResponse(listing))
}

func (h *ListingHandler) List(ctx *fiber.Ctx) error {
	principal, err := h.auth.GetCurrentPrincipal(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	listings, err := h.svc.List(ctx.UserContext(), principal)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.ToListingResponses(listings))
}

func (h *ListingHandler) ListOwn(ctx *fiber.Ctx) error {
	principal, err := h.auth.GetCurrentPrincipal(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	listings, err := h.svc.ListOwn(ctx.UserContext(), principal)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.ToListingResponses(listings))
}

func (h *ListingHandler) Get(ctx *fiber.Ctx) error {
	principal, err := h.auth.GetCurrentPrincipal(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	listing, err := h.svc.Get(ctx.UserContext(), principal, id)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.ToListingResponse(listing))
}

func (h *ListingHandler) Update(ctx *fiber.Ctx) error {
	principal, err := h.auth.GetCurrentPrincipal(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	var requestBody dto.ListingRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	listing, err := h.svc.Update(ctx.UserContext(), principal, id, requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.ToListingResponse(listing))
}

func (h *ListingHandler) Delete(ctx *fiber.Ctx) error {
	principal, err := h.auth.GetCurrentPrincipal(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	if err := h.svc.Delete(ctx.UserContext(), principal, id); err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "listing deleted")
}
