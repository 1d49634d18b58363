package restapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/andreyxaxa/miniaturs/internal/controller/restapi/images/response"
	"github.com/andreyxaxa/miniaturs/pkg/logger"
	"github.com/andreyxaxa/miniaturs/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler maps the error taxonomy onto statuses and {"messages": [...]} bodies.
// Anything unrecognised, recovered panics included, is a 500.
func ErrorHandler(l logger.Interface) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var (
			badSignature *errs.BadSignatureError
			validation   *errs.ValidationError
			fiberErr     *fiber.Error
		)

		switch {
		case errors.As(err, &badSignature):
			return errorResponse(ctx, http.StatusUnauthorized, badSignature.Error())
		case errors.As(err, &validation):
			return errorResponse(ctx, http.StatusBadRequest, validation.Messages...)
		case errors.Is(err, errs.ErrUnableToDetermineFormat):
			return errorResponse(ctx, http.StatusBadRequest, errs.ErrUnableToDetermineFormat.Error())
		case errors.Is(err, errs.ErrInvalidResizeTarget):
			return errorResponse(ctx, http.StatusBadRequest,
				fmt.Sprintf("Invalid size, expected %s", errs.ErrInvalidResizeTarget))
		case errors.As(err, &fiberErr) && fiberErr.Code == http.StatusNotFound:
			return notFoundResponse(ctx)
		case errors.As(err, &fiberErr):
			return errorResponse(ctx, fiberErr.Code, fiberErr.Message)
		}

		l.Error(err, "restapi - ErrorHandler")

		return errorResponse(ctx, http.StatusInternalServerError, err.Error())
	}
}

func errorResponse(ctx *fiber.Ctx, code int, messages ...string) error {
	return ctx.Status(code).JSON(response.Error{Messages: messages})
}
