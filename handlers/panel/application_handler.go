package handlers

import (
	"marinehub.app/handlers/apierror"
	"marinehub.app/handlers/request"
	"marinehub.app/middlewares"
	"marinehub.app/models"
	"marinehub.app/pkg/queryparams"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler serves the application endpoints of both roles.
type ApplicationHandler struct {
	service services.IApplicationService
}

// NewApplicationHandler creates an ApplicationHandler.
func NewApplicationHandler(service services.IApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// Apply handles POST /api/v1/jobs/:id/applications.
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	jobID, err := request.ID(c, "id")
	if err != nil {
		return apierror.Write(c, err)
	}
	var in services.ApplicationInput
	if len(c.Body()) > 0 {
		if err := request.Body(c, &in); err != nil {
			return apierror.Write(c, err)
		}
	}
	application, err := h.service.Apply(c.UserContext(), middlewares.CurrentActor(c), jobID, in)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(application)
}

// ListForJob is for the job owner; ?status= narrows the list.
func (h *ApplicationHandler) ListForJob(c *fiber.Ctx) error {
	jobID, err := request.ID(c, "id")
	if err != nil {
		return apierror.Write(c, err)
	}
	var params queryparams.ListParams
	if err := request.Query(c, &params); err != nil {
		return apierror.Write(c, err)
	}
	status := models.ApplicationStatus(c.Query("status"))
	result, err := h.service.ListForJob(c.UserContext(), middlewares.CurrentActor(c), jobID, status, params)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(result)
}

// Mine lists the calling superintendent's applications.
func (h *ApplicationHandler) Mine(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := request.Query(c, &params); err != nil {
		return apierror.Write(c, err)
	}
	result, err := h.service.ListMine(c.UserContext(), middlewares.CurrentActor(c), params)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(result)
}

// UpdateStatus lets the job owner review an application.
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierror.Write(c, err)
	}
	var in services.ApplicationStatusInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	application, err := h.service.UpdateStatus(c.UserContext(), middlewares.CurrentActor(c), id, in)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(application)
}

// Withdraw handles DELETE /api/v1/applications/:id.
func (h *ApplicationHandler) Withdraw(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierror.Write(c, err)
	}
	application, err := h.service.Withdraw(c.UserContext(), middlewares.CurrentActor(c), id)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(application)
}
