package handlers

import (
	"marinehub.app/configs/configslog"
	"marinehub.app/handlers/apierror"
	"marinehub.app/handlers/request"
	"marinehub.app/middlewares"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler serves /api/auth.
type AuthHandler struct {
	service services.IAuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(service services.IAuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register creates the account and mails its verification code.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	user, err := h.service.Register(c.UserContext(), in)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// VerifyOTP confirms the sign-up code and returns a token.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var in services.VerifyOTPInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	resp, err := h.service.VerifyOTP(c.UserContext(), in)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(resp)
}

// ResendOTP answers 202 for unknown addresses too.
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var in services.EmailInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	if err := h.service.ResendOTP(c.UserContext(), in); err != nil {
		return apierror.Write(c, err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// Login exchanges email and password for a token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	resp, err := h.service.Login(c.UserContext(), in)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(resp)
}

// Logout revokes the presented token until it would have expired.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext(), middlewares.CurrentClaims(c)); err != nil {
		return apierror.Write(c, err)
	}
	configslog.SLog.Debugf("User %d logged out", middlewares.CurrentActor(c).UserID)
	return c.SendStatus(fiber.StatusNoContent)
}

// Me returns the caller with their profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	resp, err := h.service.Me(c.UserContext(), middlewares.CurrentActor(c).UserID)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(resp)
}

// ForgotPassword answers 202 whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in services.EmailInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	if err := h.service.ForgotPassword(c.UserContext(), in); err != nil {
		return apierror.Write(c, err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// ResetPassword sets a new password with an emailed code.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in services.ResetPasswordInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	if err := h.service.ResetPassword(c.UserContext(), in); err != nil {
		return apierror.Write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ChangePassword handles PUT /api/v1/auth/password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in services.ChangePasswordInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	if err := h.service.ChangePassword(c.UserContext(), middlewares.CurrentActor(c).UserID, in); err != nil {
		return apierror.Write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
