package handlers

import (
	"fmt"

	"marinehub.app/handlers/apierror"
	"marinehub.app/handlers/request"
	"marinehub.app/middlewares"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
)

const avatarField = "avatar"

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	service services.IProfileService
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(service services.IProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// GetSuperintendent returns the caller's superintendent profile.
func (h *ProfileHandler) GetSuperintendent(c *fiber.Ctx) error {
	profile, err := h.service.GetSuperintendentProfile(c.UserContext(), middlewares.CurrentActor(c).UserID)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(profile)
}

// UpdateSuperintendent replaces the caller's superintendent profile.
func (h *ProfileHandler) UpdateSuperintendent(c *fiber.Ctx) error {
	var in services.SuperintendentProfileInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	profile, err := h.service.UpdateSuperintendentProfile(c.UserContext(), middlewares.CurrentActor(c).UserID, in)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(profile)
}

// GetManager returns the caller's manager profile.
func (h *ProfileHandler) GetManager(c *fiber.Ctx) error {
	profile, err := h.service.GetManagerProfile(c.UserContext(), middlewares.CurrentActor(c).UserID)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(profile)
}

// UpdateManager replaces the caller's manager profile.
func (h *ProfileHandler) UpdateManager(c *fiber.Ctx) error {
	var in services.ManagerProfileInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	profile, err := h.service.UpdateManagerProfile(c.UserContext(), middlewares.CurrentActor(c).UserID, in)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(profile)
}

// UploadAvatar takes the multipart field "avatar".
func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	header, err := c.FormFile(avatarField)
	if err != nil {
		return apierror.Message(c, fiber.StatusBadRequest, "multipart field \"avatar\" is required")
	}
	if header.Size > services.MaxAvatarBytes {
		return apierror.Write(c, services.ErrAvatarTooLarge)
	}
	file, err := header.Open()
	if err != nil {
		return apierror.Write(c, fmt.Errorf("%w: %v", services.ErrAvatarUploadFailed, err))
	}
	defer file.Close()

	user, err := h.service.UpdateAvatar(c.UserContext(), middlewares.CurrentActor(c).UserID, header.Size, file)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(user)
}
