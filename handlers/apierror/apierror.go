// Package apierror turns service errors into JSON error responses.
package apierror

import (
	"errors"

	"marinehub.app/configs/configslog"
	"marinehub.app/pkg/validation"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Body is the error payload of every failed request.
type Body struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

var statusBySentinel = []struct {
	err    error
	status int
}{
	// 400
	{services.ErrInvalidOTP, fiber.StatusBadRequest},
	{services.ErrWrongPassword, fiber.StatusBadRequest},
	{services.ErrAvatarTooLarge, fiber.StatusBadRequest},
	{services.ErrAvatarType, fiber.StatusBadRequest},
	{services.ErrInvalidSlug, fiber.StatusBadRequest},
	{services.ErrCategoryNotFound, fiber.StatusBadRequest},
	{services.ErrInvalidApplicationStatus, fiber.StatusBadRequest},
	{services.ErrInvalidPremiumMonths, fiber.StatusBadRequest},
	{services.ErrPropertiesTooLarge, fiber.StatusBadRequest},
	// 401
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{services.ErrUnauthenticated, fiber.StatusUnauthorized},
	{services.ErrTokenRevoked, fiber.StatusUnauthorized},
	// 403
	{services.ErrEmailNotVerified, fiber.StatusForbidden},
	{services.ErrAccountDisabled, fiber.StatusForbidden},
	{services.ErrJobForbidden, fiber.StatusForbidden},
	{services.ErrApplicationForbidden, fiber.StatusForbidden},
	// 404
	{services.ErrUserNotFound, fiber.StatusNotFound},
	{services.ErrProfileNotFound, fiber.StatusNotFound},
	{services.ErrJobNotFound, fiber.StatusNotFound},
	{services.ErrApplicationNotFound, fiber.StatusNotFound},
	{services.ErrNotificationNotFound, fiber.StatusNotFound},
	{services.ErrPostNotFound, fiber.StatusNotFound},
	{services.ErrSuperintendentNotFound, fiber.StatusNotFound},
	{services.ErrPortNotFound, fiber.StatusNotFound},
	// 409
	{services.ErrEmailTaken, fiber.StatusConflict},
	{services.ErrAlreadyVerified, fiber.StatusConflict},
	{services.ErrAlreadyApplied, fiber.StatusConflict},
	{services.ErrJobNotOpen, fiber.StatusConflict},
	{services.ErrJobAlreadyClosed, fiber.StatusConflict},
	{services.ErrApplicationWithdrawn, fiber.StatusConflict},
	{services.ErrApplicationConflict, fiber.StatusConflict},
	{services.ErrSlugTaken, fiber.StatusConflict},
	{services.ErrCategoryExists, fiber.StatusConflict},
	// 429
	{services.ErrOTPCooldown, fiber.StatusTooManyRequests},
}

// Status picks the HTTP status for err; unknown errors are 500.
func Status(err error) int {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return fiber.StatusBadRequest
	}
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return ferr.Code
	}
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return fiber.StatusInternalServerError
}

// Write sends the JSON error for err. Server errors are logged and their
// details are not exposed.
func Write(c *fiber.Ctx, err error) error {
	status := Status(err)
	body := Body{Error: err.Error()}

	var verr *validation.Error
	if errors.As(err, &verr) {
		body = Body{Error: "validation failed", Fields: verr.Fields}
	}
	if status >= fiber.StatusInternalServerError {
		configslog.Log.Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Any("request_id", c.Locals("requestid")),
			zap.Error(err),
		)
		body = Body{Error: "internal server error"}
	}
	return c.Status(status).JSON(body)
}

// Message sends a plain error message with the given status.
func Message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(Body{Error: msg})
}

// ErrorHandler is the fiber.Config error handler. Errors that escape the
// handlers (routing misses, body limits, recovered panics) get the same body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return Write(c, err)
}
