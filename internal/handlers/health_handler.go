package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// QueueHealth reports whether the broker connection is usable.
type QueueHealth interface {
	IsHealthy() bool
}

func RegisterOpsRoutes(app *fiber.App, queue QueueHealth) {
	app.Get("/checkhealth", func(c fiber.Ctx) error {
		if queue != nil && !queue.IsHealthy() {
			return c.Status(http.StatusServiceUnavailable).SendString("Market service queue connection is down")
		}
		return c.Status(http.StatusOK).SendString("Market service is healthy")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
