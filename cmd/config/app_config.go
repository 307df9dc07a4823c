package config

import (
	"Invoice-Capture/internal/api/handlers"
	"Invoice-Capture/internal/api/routes"
	"Invoice-Capture/internal/middleware"
	"Invoice-Capture/internal/utils"
	"Invoice-Capture/internal/utils/storage"
	"Invoice-Capture/pkg/account"
	"Invoice-Capture/pkg/invoice"
	"Invoice-Capture/pkg/jwt"
	"Invoice-Capture/pkg/restaurant"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AppOptions struct {
	JWTService jwt.JWTService
	TicketTTL  time.Duration
	// RateLimit is requests per second per client; 0 disables the limiter.
	RateLimit int
	Log       *logrus.Logger
}

// NewApp wires the devserver: repositories, services, handlers and routes.
func NewApp(db *gorm.DB, s3 storage.AwsS3, tickets storage.TicketCache, opts AppOptions) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	if opts.Log != nil {
		app.Use(logger.New(logger.Config{
			TimeFormat: "2006-01-02 15:04:05",
			TimeZone:   "UTC",
			Output:     opts.Log.Out,
		}))
	}

	if opts.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimit,
			Expiration: 1 * time.Second,
		}))
	}

	jwtService := opts.JWTService
	if jwtService == nil {
		jwtService = jwt.NewJWTService()
	}

	// Repository
	accountRepository := account.NewAccountRepository(db)
	restaurantRepository := restaurant.NewRestaurantRepository(db)
	invoiceRepository := invoice.NewInvoiceRepository(db)

	// Service
	accountService := account.NewAccountService(accountRepository, jwtService)
	restaurantService := restaurant.NewRestaurantService(restaurantRepository)
	invoiceService := invoice.NewInvoiceService(invoiceRepository, restaurantRepository, s3, tickets, opts.TicketTTL)

	// Handler
	authHandler := handlers.NewAuthHandler(accountService, validator)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService, validator)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, validator)

	// routes
	routesConfig := routes.Config{
		App:               app,
		AuthHandler:       authHandler,
		RestaurantHandler: restaurantHandler,
		InvoiceHandler:    invoiceHandler,
		Middleware:        middlewares,
		Authorizer:        accountService,
	}
	routesConfig.Setup()
	return app, nil
}
