package routes

import (
	"Invoice-Capture/internal/api/handlers"
	"Invoice-Capture/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	AuthHandler       handlers.AuthHandler
	RestaurantHandler handlers.RestaurantHandler
	InvoiceHandler    handlers.InvoiceHandler
	Middleware        middleware.Middleware
	Authorizer        middleware.Authorizer
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Auth()
	c.Restaurants()
	c.Invoices()
}

func (c *Config) GuestRoute() {
	c.App.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Auth() {
	c.App.Post("/auth/token/", c.AuthHandler.ObtainToken)
}

func (c *Config) Restaurants() {
	restaurants := c.App.Group("/restaurant", c.Middleware.AuthMiddleware(c.Authorizer))
	restaurants.Get("/", c.RestaurantHandler.GetRestaurants)
	restaurants.Post("/", c.RestaurantHandler.AddRestaurant)
}

func (c *Config) Invoices() {
	invoices := c.App.Group("/invoice", c.Middleware.AuthMiddleware(c.Authorizer))
	invoices.Get("/", c.InvoiceHandler.GetInvoices)
	invoices.Post("/", c.InvoiceHandler.CreateInvoice)
	invoices.Get("/s3sign/", c.InvoiceHandler.SignUpload)
}
