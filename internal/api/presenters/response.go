package presenters

import (
	"Invoice-Capture/domain"

	"github.com/gofiber/fiber/v2"
)

// SuccessResponse writes data as the bare response body. Clients decode the
// resource itself, not an envelope.
func SuccessResponse(c *fiber.Ctx, data any, code int) error {
	if data == nil {
		return c.SendStatus(code)
	}
	return c.Status(code).JSON(data)
}

func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	detail := message
	if err != nil {
		detail = err.Error()
	}
	return c.Status(code).JSON(domain.ErrorDetail{Detail: detail})
}
