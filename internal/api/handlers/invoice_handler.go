package handlers

import (
	"Invoice-Capture/domain"
	"Invoice-Capture/internal/api/presenters"
	"Invoice-Capture/internal/middleware"
	"Invoice-Capture/pkg/invoice"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	InvoiceHandler interface {
		GetInvoices(c *fiber.Ctx) error
		SignUpload(c *fiber.Ctx) error
		CreateInvoice(c *fiber.Ctx) error
	}

	invoiceHandler struct {
		invoiceService invoice.InvoiceService
		validator      *validator.Validate
	}
)

func NewInvoiceHandler(invoiceService invoice.InvoiceService, validator *validator.Validate) InvoiceHandler {
	return &invoiceHandler{
		invoiceService: invoiceService,
		validator:      validator,
	}
}

func (h *invoiceHandler) GetInvoices(c *fiber.Ctx) error {
	userID := c.Locals(middleware.LocalsUserID).(string)
	state := c.Query("state", domain.InvoiceStatePending)

	res, err := h.invoiceService.GetInvoices(c.UserContext(), userID, state)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetInvoices, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK)
}

func (h *invoiceHandler) SignUpload(c *fiber.Ctx) error {
	userID := c.Locals(middleware.LocalsUserID).(string)
	filename := c.Query("filename")
	if filename == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMissingFilename, nil)
	}

	res, err := h.invoiceService.SignUpload(c.UserContext(), userID, filename)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFilename) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSignUpload, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedSignUpload, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK)
}

func (h *invoiceHandler) CreateInvoice(c *fiber.Ctx) error {
	userID := c.Locals(middleware.LocalsUserID).(string)
	req := new(domain.CreateInvoiceRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateInvoice, err)
	}

	res, err := h.invoiceService.CreateInvoice(c.UserContext(), *req, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRestaurantNotFound), errors.Is(err, domain.ErrUnknownUpload):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateInvoice, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateInvoice, err)
		}
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated)
}
