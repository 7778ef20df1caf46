package middleware

import (
	"strings"

	"ludora/internal/domain"
	"ludora/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
)

// ValidationMiddleware provides request binding and validation
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidatePathID rejects requests whose path parameter is not a ULID.
func (vm *ValidationMiddleware) ValidatePathID(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params(param))
		if id == "" {
			return domain.ValidationErrors{domain.NewMissingFieldError(param)}
		}
		if _, err := ulid.ParseStrict(id); err != nil {
			return domain.ValidationErrors{domain.NewInvalidFormatError(param, id)}
		}
		return c.Next()
	}
}

// BindBody decodes the JSON body into out and validates it.
func (vm *ValidationMiddleware) BindBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", nil)}
	}
	return vm.validator.Struct(out)
}

// BindQuery decodes the query string into out and validates it.
func (vm *ValidationMiddleware) BindQuery(c *fiber.Ctx, out interface{}) error {
	if err := c.QueryParser(out); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("query", nil)}
	}
	return vm.validator.Struct(out)
}
