package restapi

import (
	"github.com/andreyxaxa/miniaturs/config"
	"github.com/andreyxaxa/miniaturs/internal/controller/restapi/images"
	"github.com/andreyxaxa/miniaturs/internal/controller/restapi/middleware"
	"github.com/andreyxaxa/miniaturs/internal/usecase"
	"github.com/andreyxaxa/miniaturs/pkg/logger"
	"github.com/andreyxaxa/miniaturs/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
)

// @title Miniaturs
// @version 1.0.0
// @description Signed-url image resizing proxy
// @host localhost:8080
// @BasePath /
func NewRouter(app *fiber.App, cfg *config.Config, resize usecase.ResizeUseCase, m *metrics.Metrics, l logger.Interface) {
	// Middleware
	app.Use(middleware.Logger(l, m))
	app.Use(middleware.Recovery(l))

	// Service
	app.Get("/", root)
	app.Get("/health", health)

	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Routers
	images.NewImageRoutes(app, resize, cfg.Auth.StripEmptyQuery)

	app.Use(notFound)
}
