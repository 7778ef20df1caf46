package middleware_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"ludora/internal/domain"
	"ludora/internal/dto"
	"ludora/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"not found", domain.NewNotFoundError("quiz", "q1"), fiber.StatusNotFound, "NOT_FOUND"},
		{"forbidden", domain.NewForbiddenError("quiz belongs to another user"), fiber.StatusForbidden, "FORBIDDEN"},
		{"unauthorized", domain.NewUnauthorizedError("invalid username or password"), fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"already completed", domain.NewConflictError(domain.CodeQuizAlreadyCompleted, "quiz already completed"), fiber.StatusConflict, "QUIZ_ALREADY_COMPLETED"},
		{"insufficient currency", domain.NewInsufficientCurrencyError(30, 25), fiber.StatusConflict, "INSUFFICIENT_CURRENCY"},
		{"unfillable slot", domain.NewCannotSatisfySlotError(2), fiber.StatusUnprocessableEntity, "CANNOT_SATISFY_SLOT"},
		{"upstream", domain.NewUpstreamUnavailableError("math generator", errors.New("timeout")), fiber.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE"},
		{"wrapped domain error", fmt.Errorf("submit: %w", domain.NewNotFoundError("quiz", "q1")), fiber.StatusNotFound, "NOT_FOUND"},
		{"internal", domain.NewInternalError("boom", errors.New("ORA-00600")), fiber.StatusInternalServerError, "INTERNAL_ERROR"},
		{"fiber error", fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed, "HTTP_ERROR"},
		{"unknown", errors.New("something broke"), fiber.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
			app.Get("/fail", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.expectedCode, body.Code)
			assert.Equal(t, tc.expectedStatus, body.Status)
		})
	}
}

func TestErrorHandler_DetailsAndValidation(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/slot", func(c *fiber.Ctx) error { return domain.NewCannotSatisfySlotError(3) })
	app.Get("/invalid", func(c *fiber.Ctx) error {
		return domain.ValidationErrors{domain.NewMissingFieldError("username")}
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/slot", nil), -1)
	require.NoError(t, err)
	var slotBody dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&slotBody))
	assert.Equal(t, float64(3), slotBody.Details["slot"])

	resp, err = app.Test(httptest.NewRequest("GET", "/invalid", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var body dto.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "username", body.Errors[0].Field)
	assert.Equal(t, domain.CodeMissingField, body.Errors[0].Code)
}
