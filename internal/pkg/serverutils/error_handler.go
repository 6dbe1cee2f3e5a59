package serverutils

import (
	"errors"

	"edudash-be/internal/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps service errors onto HTTP statuses so the
// controllers can return raw errors.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, apperrors.ErrAuth):
			status = fiber.StatusForbidden
		case errors.Is(err, apperrors.ErrEmbeddingService),
			errors.Is(err, apperrors.ErrModelService):
			status = fiber.StatusBadGateway
		case errors.Is(err, apperrors.ErrToolExecution):
			status = fiber.StatusUnprocessableEntity
		case errors.Is(err, apperrors.ErrPersistence):
			status = fiber.StatusInternalServerError
		}

		return ctx.Status(status).JSON(ErrorResponse(err.Error()))
	}
}
