package handlers

import (
	"marinehub.app/handlers/apierror"
	"marinehub.app/handlers/request"
	"marinehub.app/middlewares"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
)

// JobHandler serves the public job board.
type JobHandler struct {
	service services.IJobService
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(service services.IJobService) *JobHandler {
	return &JobHandler{service: service}
}

// ListJobs handles GET /api/v1/jobs.
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	var q services.JobQuery
	if err := request.Query(c, &q); err != nil {
		return apierror.Write(c, err)
	}
	result, err := h.service.ListOpen(c.UserContext(), q)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(result)
}

// GetJob shows drafts to their owner only; everyone else gets 404.
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierror.Write(c, err)
	}
	job, err := h.service.Get(c.UserContext(), middlewares.CurrentActor(c), id)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(job)
}
