package server

import (
	"errors"
	"strconv"

	"userbase/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseID extracts and validates a numeric :id path parameter. On failure
// it writes a 400 response and reports that via the second return value.
func parseID(c *fiber.Ctx) (uint, bool) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// mapServiceError converts a service-layer error into the matching HTTP
// response. Unknown errors become opaque 500s.
func mapServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeDuplicate:
			return models.RespondWithError(c, fiber.StatusConflict, appErr)
		case models.CodeNotFound:
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case models.CodeInvalidUpdate:
			return models.RespondWithError(c, fiber.StatusForbidden, appErr)
		case models.CodeValidation:
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case models.CodeUnauthorized:
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}
