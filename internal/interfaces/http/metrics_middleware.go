package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// httpObserver lo implementa *metrics.Metrics.
type httpObserver interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// MetricsMiddleware registra cada petición con la plantilla de la ruta (ej. /api/orders/:id).
func MetricsMiddleware(m httpObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "/" {
			route = r.Path
		}
		m.ObserveHTTP(c.Method(), route, status, time.Since(start))
		return err
	}
}
