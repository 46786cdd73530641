package httpx

import (
	"errors"

	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/Abraxas-365/recruitdesk/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler converts internal errors to standard HTTP responses.
// With debug on, the underlying cause of an errx.Error is included.
func ErrorHandler(debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			if v, ok := c.Locals("requestid").(string); ok {
				requestID = v
			}
		}

		entry := logx.WithFields(logx.Fields{
			"path":       c.Path(),
			"method":     c.Method(),
			"ip":         c.IP(),
			"request_id": requestID,
		})

		// If it's a Fiber error
		var fe *fiber.Error
		if errors.As(err, &fe) {
			entry.Warnf("Request error: %v", err)
			return c.Status(fe.Code).JSON(fiber.Map{
				"error":      fe.Message,
				"code":       "FIBER_ERROR",
				"status":     fe.Code,
				"request_id": requestID,
			})
		}

		// If it's our custom errx.Error
		if e, ok := errx.As(err); ok {
			if e.HTTPStatus >= fiber.StatusInternalServerError {
				entry.Errorf("Request error: %v", err)
			} else {
				entry.Debugf("Request error: %v", err)
			}

			response := fiber.Map{
				"error":      e.Message,
				"code":       e.Code,
				"type":       string(e.Type),
				"status":     e.HTTPStatus,
				"request_id": requestID,
			}
			if len(e.Details) > 0 {
				response["details"] = e.Details
			}
			if debug && e.Err != nil {
				response["underlying_error"] = e.Err.Error()
			}

			return c.Status(e.HTTPStatus).JSON(response)
		}

		entry.Errorf("Request error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "Internal Server Error",
			"type":       string(errx.TypeInternal),
			"code":       "INTERNAL_ERROR",
			"message":    "An unexpected error occurred. Please contact support if the issue persists.",
			"request_id": requestID,
		})
	}
}

// NotFound handles unmatched routes
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":   "Route not found",
		"code":    "NOT_FOUND",
		"path":    c.Path(),
		"method":  c.Method(),
		"message": "The requested endpoint does not exist. Visit /api/v1/docs for documentation.",
	})
}
