package handlers

import (
	"marinehub.app/handlers/apierror"
	"marinehub.app/handlers/request"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
)

// SuperintendentHandler serves the public directory.
type SuperintendentHandler struct {
	service services.IProfileService
}

// NewSuperintendentHandler creates a SuperintendentHandler.
func NewSuperintendentHandler(service services.IProfileService) *SuperintendentHandler {
	return &SuperintendentHandler{service: service}
}

// Directory handles GET /api/v1/superintendents.
func (h *SuperintendentHandler) Directory(c *fiber.Ctx) error {
	var q services.DirectoryQuery
	if err := request.Query(c, &q); err != nil {
		return apierror.Write(c, err)
	}
	available, err := request.OptionalBool(c, "available")
	if err != nil {
		return apierror.Write(c, err)
	}
	q.Available = available

	result, err := h.service.ListSuperintendents(c.UserContext(), q)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(result)
}

// Profile handles GET /api/v1/superintendents/:id.
func (h *SuperintendentHandler) Profile(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierror.Write(c, err)
	}
	profile, err := h.service.GetPublicSuperintendent(c.UserContext(), id)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(profile)
}
