package handlers

import (
	"Invoice-Capture/domain"
	"Invoice-Capture/internal/api/presenters"
	"Invoice-Capture/pkg/account"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	AuthHandler interface {
		ObtainToken(c *fiber.Ctx) error
	}

	authHandler struct {
		accountService account.AccountService
		validator      *validator.Validate
	}
)

func NewAuthHandler(accountService account.AccountService, validator *validator.Validate) AuthHandler {
	return &authHandler{
		accountService: accountService,
		validator:      validator,
	}
}

// ObtainToken accepts a form or JSON body with username and password.
func (h *authHandler) ObtainToken(c *fiber.Ctx) error {
	req := new(domain.LoginRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLogin, err)
	}

	res, err := h.accountService.Login(c.UserContext(), *req)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedLogin, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedLogin, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK)
}
