package middleware

import (
	"errors"

	"careerhub/logger"
	"careerhub/services/learning"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse maps a workflow error to its HTTP status. Unknown errors are
// logged and reported as a generic failure.
func ErrorResponse(c *fiber.Ctx, err error, fallback string) error {
	var nf *learning.NotFoundError
	var pe *learning.PreconditionError
	switch {
	case errors.As(err, &nf):
		return JsonResponse(c, fiber.StatusNotFound, false, nf.Error(), nil)
	case errors.As(err, &pe):
		return JsonResponse(c, fiber.StatusBadRequest, false, pe.Error(), nil)
	case errors.Is(err, learning.ErrForbidden):
		return JsonResponse(c, fiber.StatusForbidden, false, err.Error(), nil)
	}

	logger.Log.Error(fallback,
		"method", c.Method(),
		"path", c.Path(),
		"request_id", c.Locals("requestid"),
		"error", err,
	)
	return JsonResponse(c, fiber.StatusInternalServerError, false, fallback, nil)
}
