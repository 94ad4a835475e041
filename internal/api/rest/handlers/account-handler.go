package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/SundayYogurt/bachelor-point/internal/api/rest/middleware"
	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/SundayYogurt/bachelor-point/internal/dto"
	"github.com/SundayYogurt/bachelor-point/internal/helper"
	"github.com/SundayYogurt/bachelor-point/internal/helper/utils"
	"github.com/SundayYogurt/bachelor-point/internal/services"
	pkgutils "github.com/SundayYogurt/bachelor-point/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// maxDocumentSize bounds a multipart identity document upload.
const maxDocumentSize = 10 << 20

type AccountHandler struct {
	svc         services.AccountService
	contact     services.ContactService
	auth        helper.Auth
	requireAuth fiber.Handler
}

func NewAccountHandler(svc services.AccountService, contact services.ContactService, auth helper.Auth) *AccountHandler {
	return &AccountHandler{
		svc:         svc,
		contact:     contact,
		auth:        auth,
		requireAuth: middleware.AuthMiddleware(auth, svc),
	}
}

func (h *AccountHandler) SetupRoutes(app *fiber.App) {
	accounts := app.Group("/api/accounts")

	// Auth
	accounts.Post("/register", h.Register)
	accounts.Post("/login", h.Login)

	// Profile
	accounts.Get("/self", h.requireAuth, h.GetSelf)
	accounts.Put("/self", h.requireAuth, h.UpdateProfile)

	// Admin
	admin := []fiber.Handler{h.requireAuth, middleware.AdminOnly()}
	accounts.Get("/", append(admin, h.ListAll)...)
	accounts.Get("/:id/approve", append(admin, h.Approve)...)
	accounts.Get("/:id/ban", append(admin, h.Ban)...)
	accounts.Get("/:id/promote", append(admin, h.Promote)...)
	accounts.Delete("/:id", append(admin, h.Delete)...)
	accounts.Get("/:id/history", append(admin, h.History)...)

	// Contact
	accounts.Get("/:listingId/contact", h.requireAuth, h.RevealContact)
}

// Register takes JSON, or a multipart form whose identityDocument is a file.
func (h *AccountHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest

	if strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := h.parseMultipartRegister(ctx, &requestBody); err != nil {
			if errors.Is(err, pkgutils.ErrTooLarge) {
				return utils.ResponseError(ctx, fiber.StatusRequestEntityTooLarge, "identity document is too large")
			}
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
		}
	} else if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	account, err := h.svc.Register(ctx.UserContext(), requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, dto.ToAccountResponse(account))
}

func (h *AccountHandler) parseMultipartRegister(ctx *fiber.Ctx, out *dto.RegisterRequest) error {
	out.StudentID = ctx.FormValue("studentId")
	out.Name = ctx.FormValue("name")
	out.Email = ctx.FormValue("email")
	out.Password = ctx.FormValue("password")
	out.Gender = ctx.FormValue("gender")
	out.IdentityDocument = ctx.FormValue("identityDocument")
	if out.IdentityDocument != "" {
		return nil
	}

	file, err := ctx.FormFile("identityDocument")
	if err != nil {
		return err
	}
	f, err := file.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := pkgutils.ReadAllLimit(f, maxDocumentSize)
	if err != nil {
		return err
	}
	out.IdentityDocument = base64.StdEncoding.EncodeToString(b)
	return nil
}

func (h *AccountHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.LoginRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "identifier and password are required")
	}

	resp, err := h.svc.Login(ctx.UserContext(), requestBody)
	if err != nil {
		// unknown account and wrong password are indistinguishable
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, "invalid credentials")
		}
		return utils.ResponseFromError(ctx, err)
	}

	cookie := &fiber.Cookie{
		Name:     "access_token",
		Value:    resp.Token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if h.auth.TTL > 0 {
		cookie.MaxAge = int(h.auth.TTL.Seconds())
	}
	ctx.Cookie(cookie)
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *AccountHandler) GetSelf(ctx *fiber.Ctx) error {
	principal, err := h.auth.GetCurrentPrincipal(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	account, err := h.svc.GetSelf(ctx.UserContext(), principal)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.ToAccountResponse(account))
}

func (h *AccountHandler) UpdateProfile(ctx *fiber.Ctx) error {
	principal, err := h.auth.GetCurrentPrincipal(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	var requestBody dto.UpdateProfileRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	account, err := h.svc.UpdateProfile(ctx.UserContext(), principal, requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.ToAccountResponse(account))
}

func (h *AccountHandler) ListAll(ctx *fiber.Ctx) error {
	principal, err := h.auth.GetCurrentPrincipal(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	accounts, err := h.svc.ListAll(ctx.UserContext(), principal)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.ToAccountResponses(accounts))
}

func (h *AccountHandler) Approve(ctx *fiber.Ctx) error {
	return h.adminAction(ctx, h.svc.Approve, "account approved")
}

func (h *AccountHandler) Ban(ctx *fiber.Ctx) error {
	return h.adminAction(ctx, h.svc.Ban, "account banned")
}

func (h *AccountHandler) Promote(ctx *fiber.Ctx) error {
	return h.adminAction(ctx, h.svc.Promote, "account promoted")
}

func (h *AccountHandler) Delete(ctx *fiber.Ctx) error {
	return h.adminAction(ctx, h.svc.Delete, "account deleted")
}

func (h *AccountHandler) History(ctx *fiber.Ctx) error {
	principal, err := h.auth.GetCurrentPrincipal(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	entries, err := h.svc.History(ctx.UserContext(), principal, ctx.Params("id"))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, entries)
}

type accountAction func(ctx context.Context, actor domain.Principal, studentID string) error

func (h *AccountHandler) adminAction(ctx *fiber.Ctx, action accountAction, done string) error {
	principal, err := h.auth.GetCurrentPrincipal(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	studentID := strings.TrimSpace(ctx.Params("id"))
	if studentID == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "student id is required")
	}

	if err := action(ctx.UserContext(), principal, studentID); err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, done)
}

func (h *AccountHandler) RevealContact(ctx *fiber.Ctx) error {
	principal, err := h.auth.GetCurrentPrincipal(ctx)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	listingID, err := parseID(ctx, "listingId")
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}

	contact, err := h.contact.RevealContact(ctx.UserContext(), principal, listingID)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, contact)
}
