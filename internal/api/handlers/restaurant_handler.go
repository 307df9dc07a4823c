package handlers

import (
	"Invoice-Capture/domain"
	"Invoice-Capture/internal/api/presenters"
	"Invoice-Capture/internal/middleware"
	"Invoice-Capture/pkg/restaurant"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RestaurantHandler interface {
		GetRestaurants(c *fiber.Ctx) error
		AddRestaurant(c *fiber.Ctx) error
	}

	restaurantHandler struct {
		restaurantService restaurant.RestaurantService
		validator         *validator.Validate
	}
)

func NewRestaurantHandler(restaurantService restaurant.RestaurantService, validator *validator.Validate) RestaurantHandler {
	return &restaurantHandler{
		restaurantService: restaurantService,
		validator:         validator,
	}
}

func (h *restaurantHandler) GetRestaurants(c *fiber.Ctx) error {
	userID := c.Locals(middleware.LocalsUserID).(string)

	res, err := h.restaurantService.GetRestaurants(c.UserContext(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRestaurants, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK)
}

func (h *restaurantHandler) AddRestaurant(c *fiber.Ctx) error {
	userID := c.Locals(middleware.LocalsUserID).(string)
	req := new(domain.CreateRestaurantRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, err)
	}

	res, err := h.restaurantService.AddRestaurant(c.UserContext(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated)
}
