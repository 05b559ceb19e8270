package serverutils

import (
	"errors"

	"ticket-marketplace-be/internal/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into envelopes.
// Classified errors keep their status and message. Everything else is logged
// with its cause and answered with a generic 500.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		status, body := classify(err)
		if status == fiber.StatusInternalServerError {
			log.Error("HTTP", "Unhandled error", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
		}
		return ctx.Status(status).JSON(body)
	}
}

func classify(err error) (int, BaseResponse[any]) {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code, ErrorResponse(appErr.Code, appErr.Message)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, ErrorResponse(fiberErr.Code, fiberErr.Message)
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return fiber.StatusBadRequest, ErrorResponse(fiber.StatusBadRequest, describeValidation(validationErrs))
	}

	if IsUniqueViolation(err) {
		return fiber.StatusConflict, ErrorResponse(fiber.StatusConflict, "Resource already exists")
	}

	return fiber.StatusInternalServerError, ErrorResponse(fiber.StatusInternalServerError, "Internal server error")
}
