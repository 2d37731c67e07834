package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/hotspot-service/pkg/util/errorutil"
)

var validate = validator.New()

// parseBody decodes and validates a JSON request body.
func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(dest); err != nil {
		return apperrors.NewValidationError(validationMessage(err), nil)
	}
	return nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return "invalid field: " + fieldErrs[0].Field()
	}
	return "invalid payload"
}

// respond writes the success envelope shared by every endpoint.
func respond(c *fiber.Ctx, status int, message string, data any) error {
	body := fiber.Map{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

func respondOK(c *fiber.Ctx, message string, data any) error {
	return respond(c, http.StatusOK, message, data)
}

func respondCreated(c *fiber.Ctx, message string, data any) error {
	return respond(c, http.StatusCreated, message, data)
}
