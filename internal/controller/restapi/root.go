package restapi

import (
	"net/http"
	"strings"

	"github.com/andreyxaxa/miniaturs/internal/controller/restapi/images/response"
	"github.com/gofiber/fiber/v2"
)

const notFoundHTML = "<body><h1>Not found.</h1></body>"

// @Summary 	Root
// @Tags 		service
// @Produce 	json
// @Success 	200 {object} response.Standard
// @Router 		/ [get]
func root(ctx *fiber.Ctx) error {
	return ctx.Status(http.StatusOK).JSON(response.Standard{Message: "You probably want to use the resize url..."})
}

// @Summary 	Health check
// @Tags 		service
// @Produce 	json
// @Success 	200 {object} response.Standard
// @Router 		/health [get]
func health(ctx *fiber.Ctx) error {
	return ctx.Status(http.StatusOK).JSON(response.Standard{Message: "Healthy!"})
}

func notFound(ctx *fiber.Ctx) error {
	return notFoundResponse(ctx)
}

// notFoundResponse answers browsers with HTML and everyone else with JSON.
func notFoundResponse(ctx *fiber.Ctx) error {
	if strings.Contains(ctx.Get(fiber.HeaderAccept), fiber.MIMETextHTML) {
		ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)

		return ctx.Status(http.StatusNotFound).SendString(notFoundHTML)
	}

	return ctx.Status(http.StatusNotFound).JSON(response.Standard{Message: "Not found."})
}
