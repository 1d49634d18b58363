package images

import (
	"github.com/andreyxaxa/miniaturs/internal/usecase"
	"github.com/gofiber/fiber/v2"
)

// NewImageRoutes registers the signed routes. The metadata route goes first, otherwise
// "meta" would be captured as a size.
func NewImageRoutes(router fiber.Router, resize usecase.ResizeUseCase, stripEmptyQuery bool) {
	r := &Images{resize: resize, stripEmptyQuery: stripEmptyQuery}

	{
		router.Get("/:signature/meta/:size/*", r.metadata)
		router.Get("/:signature/:size/*", r.resizeImage)
	}
}
