package handlers

import (
	"marinehub.app/handlers/apierror"
	"marinehub.app/handlers/request"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
)

// PortHandler serves the ports reference.
type PortHandler struct {
	service services.IPortService
}

// NewPortHandler creates a PortHandler.
func NewPortHandler(service services.IPortService) *PortHandler {
	return &PortHandler{service: service}
}

// Search handles GET /api/v1/ports?q=&country=.
func (h *PortHandler) Search(c *fiber.Ctx) error {
	var q services.PortQuery
	if err := request.Query(c, &q); err != nil {
		return apierror.Write(c, err)
	}
	result, err := h.service.Search(c.UserContext(), q)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(result)
}

// Get handles GET /api/v1/ports/:locode.
func (h *PortHandler) Get(c *fiber.Ctx) error {
	port, err := h.service.Get(c.UserContext(), c.Params("locode"))
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(port)
}
