package httpapi

import (
	"errors"

	"github.com/dmitrijs2005/postgate/internal/common"
	"github.com/gofiber/fiber/v2"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Token   string `json:"token,omitempty"`
}

func ok(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(envelope{Success: true, Message: message, Data: data})
}

// errorOverride replaces the default message for one error kind on a
// single route.
type errorOverride struct {
	target  error
	message string
}

// statusFor maps a domain error onto the HTTP status and a message safe to
// show to the caller.
func statusFor(err error) (int, string) {
	switch {
	case common.IsSessionError(err):
		return fiber.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrValidation):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, common.ErrConflict):
		return fiber.StatusUnauthorized, "account already exists"
	case errors.Is(err, common.ErrAccountNotFound):
		return fiber.StatusUnauthorized, "account not found"
	case errors.Is(err, common.ErrUnverified):
		return fiber.StatusUnauthorized, "account not verified"
	case errors.Is(err, common.ErrAlreadyVerified):
		return fiber.StatusUnauthorized, "account already verified"
	case errors.Is(err, common.ErrCodeNotFound):
		return fiber.StatusUnauthorized, "verification code not found"
	case errors.Is(err, common.ErrCodeExpired):
		return fiber.StatusUnauthorized, "verification code expired"
	case errors.Is(err, common.ErrCodeMismatch):
		return fiber.StatusUnauthorized, "invalid verification code"
	case errors.Is(err, common.ErrInvalidCredential):
		return fiber.StatusUnauthorized, "invalid password"
	case errors.Is(err, common.ErrForbidden):
		return fiber.StatusForbidden, "not allowed to modify this post"
	case errors.Is(err, common.ErrPostNotFound):
		return fiber.StatusNotFound, "post not found"
	case errors.Is(err, common.ErrDeliveryFailed):
		return fiber.StatusInternalServerError, "failed to send verification code"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

// fail renders err in the envelope. Server-side failures are logged with
// their cause; the caller only sees the generic message.
func (s *Server) fail(c *fiber.Ctx, err error, overrides ...errorOverride) error {
	status, message := statusFor(err)
	for _, o := range overrides {
		if errors.Is(err, o.target) {
			message = o.message
			break
		}
	}

	ctx := c.UserContext()
	if status >= fiber.StatusInternalServerError {
		s.logger.Error(ctx, "request failed", "method", c.Method(), "path", c.Path(), "error", err)
	} else {
		s.logger.Info(ctx, "request rejected", "method", c.Method(), "path", c.Path(), "status", status, "reason", message)
	}

	body := envelope{Success: false, Message: message}
	var ve *validationError
	if errors.As(err, &ve) {
		body.Data = ve.fields
	}
	return c.Status(status).JSON(body)
}

// handleError renders errors that escaped a handler, such as fiber's own
// 404 and 405 responses or a recovered panic.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(envelope{Success: false, Message: fe.Message})
	}

	s.logger.Error(c.UserContext(), "unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(envelope{Success: false, Message: "internal server error"})
}
