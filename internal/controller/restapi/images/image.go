package images

import (
	"net/http"

	"github.com/andreyxaxa/miniaturs/internal/controller/restapi/images/request"
	"github.com/andreyxaxa/miniaturs/internal/controller/restapi/images/response"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const cacheControl = "max-age=31536000"

// @Summary 	Resize image
// @Description Fetches the source image (or a cached copy), resizes it to WxH and flips it on every negative axis
// @Tags 		images
// @Produce 	image/jpeg,image/png,image/gif,image/bmp,image/tiff
// @Param 		signature path string true "URL-safe base64 HMAC-SHA1 of everything after /{signature}/"
// @Param 		size 	  path string true "WxH, e.g. 100x-200"
// @Param 		url 	  path string true "Source image url"
// @Success 	200 {file}   binary
// @Failure 	400 {object} response.Error "Invalid size, limits exceeded or unknown format"
// @Failure 	401 {object} response.Error "Bad signature"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/{signature}/{size}/{url} [get]
func (r *Images) resizeImage(ctx *fiber.Ctx) error {
	in, err := request.ParseResize(utils.CopyString(ctx.OriginalURL()), false, r.stripEmptyQuery)
	if err != nil {
		return fiber.ErrNotFound
	}

	img, err := r.resize.Resize(ctx.UserContext(), in)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, img.ContentType)
	ctx.Set(fiber.HeaderCacheControl, cacheControl)

	return ctx.Status(http.StatusOK).Send(img.Data)
}

// @Summary 	Describe resize
// @Description Reports the operations a resize url would run, without fetching the source image
// @Tags 		images
// @Produce 	json
// @Param 		signature path string true "URL-safe base64 HMAC-SHA1 of everything after /{signature}/"
// @Param 		size 	  path string true "WxH, e.g. 100x-200"
// @Param 		url 	  path string true "Source image url"
// @Success 	200 {object} response.Metadata
// @Failure 	400 {object} response.Error "Invalid size or limits exceeded"
// @Failure 	401 {object} response.Error "Bad signature"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/{signature}/meta/{size}/{url} [get]
func (r *Images) metadata(ctx *fiber.Ctx) error {
	in, err := request.ParseResize(utils.CopyString(ctx.OriginalURL()), true, r.stripEmptyQuery)
	if err != nil {
		return fiber.ErrNotFound
	}

	meta, err := r.resize.Metadata(ctx.UserContext(), in)
	if err != nil {
		return err
	}

	return ctx.Status(http.StatusOK).JSON(response.NewMetadata(meta.URL, meta.Operations))
}
