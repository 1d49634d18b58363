package middleware

import (
	"runtime/debug"

	"github.com/andreyxaxa/miniaturs/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Recovery turns a handler panic into an error carrying the panic value.
func Recovery(l logger.Interface) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(ctx *fiber.Ctx, e interface{}) {
			l.Error("restapi - middleware - Recovery - panic on %s: %v\n%s", ctx.Path(), e, debug.Stack())
		},
	})
}
