package httpapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/mars-weather/internal/weather"
)

// NewApp builds the Fiber app with middleware, error handling and routes.
func NewApp(service *weather.Service, log *zap.Logger) *fiber.App {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("http")

	app := fiber.New(fiber.Config{
		AppName:               "mars-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			if code >= fiber.StatusInternalServerError {
				log.Error("request failed",
					zap.String("path", c.Path()),
					zap.Any("request_id", c.Locals(requestid.ConfigDefault.ContextKey)),
					zap.Error(err),
				)
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   errorCode(code),
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	RegisterRoutes(app, service)
	return app
}

func errorCode(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	default:
		return "INTERNAL_ERROR"
	}
}
