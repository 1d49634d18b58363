package middleware

import (
	"strconv"
	"time"

	"github.com/andreyxaxa/miniaturs/pkg/logger"
	"github.com/andreyxaxa/miniaturs/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// Logger tags every request with an id, logs it once finished and records its latency.
// Errors are rendered here through the app's error handler so the logged status is final.
func Logger(l logger.Interface, m *metrics.Metrics) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()

		requestID := ctx.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.Set(HeaderRequestID, requestID)

		if err := ctx.Next(); err != nil {
			if hErr := ctx.App().ErrorHandler(ctx, err); hErr != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := ctx.Response().StatusCode()
		elapsed := time.Since(start)

		m.ObserveRequest(ctx.Route().Path, strconv.Itoa(status), elapsed)

		l.Info("%s - %s %s - %d - %s", requestID, ctx.Method(), ctx.Path(), status, elapsed)

		return nil
	}
}
