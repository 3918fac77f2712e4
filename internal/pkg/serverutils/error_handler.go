package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ClientError marks errors caused by the request itself. Services wrap
// their input errors with it so the handler can answer 400 instead of 500.
type ClientError interface {
	error
	ClientError() bool
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	var validationErr *ValidationError
	var clientErr ClientError

	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	case errors.As(err, &validationErr):
		code = fiber.StatusBadRequest
	case errors.As(err, &clientErr) && clientErr.ClientError():
		code = fiber.StatusBadRequest
	}

	return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
}
