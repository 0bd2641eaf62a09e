package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/jhoicas/vouchers-api/internal/infrastructure/metrics"
	"github.com/jhoicas/vouchers-api/pkg/logger"
)

// RequestID agrega X-Request-ID a cada respuesta (respeta el que venga del cliente).
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{Generator: uuid.NewString})
}

// Observe registra latencia y resultado de cada petición por ruta registrada, no por URL.
// Los 5xx se loguean.
func Observe(log *logger.Logger) fiber.Handler {
	log = log.Component("http")
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
		elapsed := time.Since(start)
		metrics.ObserveHTTP(c.Route().Path, c.Method(), status, elapsed)
		if status >= fiber.StatusInternalServerError {
			cause := err
			if cause == nil {
				cause, _ = c.Locals(localError).(error)
			}
			log.Error().Err(cause).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", status).
				Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
				Dur("elapsed", elapsed).
				Msg("petición fallida")
		}
		return err
	}
}
