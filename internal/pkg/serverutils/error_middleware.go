package serverutils

import (
	"errors"

	"ai-webchat-be/internal/apperror"
	"ai-webchat-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps service errors to status codes and the
// {"error": ...} body. Wrapped causes are logged, never sent to clients.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			status := statusFor(appErr.Kind)
			if status >= fiber.StatusInternalServerError {
				log.Error("http", "request failed", map[string]interface{}{
					"path":   ctx.Path(),
					"method": ctx.Method(),
					"error":  appErr.Error(),
				})
			}
			return ctx.Status(status).JSON(ErrorResponse(appErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		log.Error("http", "unhandled error", map[string]interface{}{
			"path":   ctx.Path(),
			"method": ctx.Method(),
			"error":  err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("Internal server error"))
	}
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
