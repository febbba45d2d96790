package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/mars-weather/internal/mars"
	"github.com/i474232898/mars-weather/internal/weather"
)

// ErrorCodeInvalidDateFormat is the error code clients see for an unparseable date.
const ErrorCodeInvalidDateFormat = "INVALID_DATE_FORMAT"

const rootText = `Mars weather at Gale Crater, by Earth date.

GET /weather?date=YYYY-MM-DD
GET /weather?date=2026-02-15T21:42:00+01:00
`

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(rootText)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		snap := service.Snapshot()
		return c.JSON(fiber.Map{
			"status":       "ok",
			"service":      "mars-weather",
			"cached_sols":  snap.Len(),
			"last_updated": snap.UpdatedAt(),
		})
	})

	app.Get("/weather", func(c *fiber.Ctx) error {
		res, err := service.Answer(dateQuery(c))
		if err != nil {
			if errors.Is(err, mars.ErrInvalidDateFormat) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error":   ErrorCodeInvalidDateFormat,
					"message": err.Error(),
				})
			}
			return err
		}

		switch res.Kind {
		case weather.ResultFound:
			return c.JSON(res.Reading.View())
		case weather.ResultNoData:
			// 204 may have its body dropped by clients; it is sent anyway.
			return c.Status(fiber.StatusNoContent).JSON(fiber.Map{
				"message":         "no weather data for this sol",
				"martian_sol_day": res.Sol,
			})
		default:
			return c.JSON(fiber.Map{"message": res.Usage})
		}
	})
}

// dateQuery returns nil when the date parameter is absent.
func dateQuery(c *fiber.Ctx) *string {
	if !c.Context().QueryArgs().Has("date") {
		return nil
	}
	s := c.Query("date")
	return &s
}
