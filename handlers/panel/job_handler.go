package handlers

import (
	"marinehub.app/handlers/apierror"
	"marinehub.app/handlers/request"
	"marinehub.app/middlewares"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
)

// JobHandler holds the job writes of managers (and admins).
type JobHandler struct {
	service services.IJobService
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(service services.IJobService) *JobHandler {
	return &JobHandler{service: service}
}

// MyJobs lists the manager's jobs in every status.
func (h *JobHandler) MyJobs(c *fiber.Ctx) error {
	var q services.JobQuery
	if err := request.Query(c, &q); err != nil {
		return apierror.Write(c, err)
	}
	result, err := h.service.ListForManager(c.UserContext(), middlewares.CurrentActor(c).UserID, q)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(result)
}

// CreateJob handles POST /api/v1/jobs.
func (h *JobHandler) CreateJob(c *fiber.Ctx) error {
	var in services.JobInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	job, err := h.service.Create(c.UserContext(), middlewares.CurrentActor(c), in)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

// UpdateJob handles PUT /api/v1/jobs/:id.
func (h *JobHandler) UpdateJob(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierror.Write(c, err)
	}
	var in services.JobInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	job, err := h.service.Update(c.UserContext(), middlewares.CurrentActor(c), id, in)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(job)
}

// CloseJob handles POST /api/v1/jobs/:id/close.
func (h *JobHandler) CloseJob(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierror.Write(c, err)
	}
	job, err := h.service.Close(c.UserContext(), middlewares.CurrentActor(c), id)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(job)
}

// DeleteJob handles DELETE /api/v1/jobs/:id.
func (h *JobHandler) DeleteJob(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierror.Write(c, err)
	}
	if err := h.service.Delete(c.UserContext(), middlewares.CurrentActor(c), id); err != nil {
		return apierror.Write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
