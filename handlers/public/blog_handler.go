package handlers

import (
	"marinehub.app/handlers/apierror"
	"marinehub.app/handlers/request"
	"marinehub.app/middlewares"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
)

// BlogHandler serves the public blog. Admins also see drafts.
type BlogHandler struct {
	service services.IBlogService
}

// NewBlogHandler creates a BlogHandler.
func NewBlogHandler(service services.IBlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

// ListPosts lists published posts. An admin token may ask for drafts with
// status=draft or status=all.
func (h *BlogHandler) ListPosts(c *fiber.Ctx) error {
	var q services.BlogQuery
	if err := request.Query(c, &q); err != nil {
		return apierror.Write(c, err)
	}
	result, err := h.service.List(c.UserContext(), middlewares.CurrentActor(c), q)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(result)
}

// GetPost handles GET /api/v1/blog/posts/:slug.
func (h *BlogHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.service.GetBySlug(c.UserContext(), middlewares.CurrentActor(c), c.Params("slug"))
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(post)
}

func (h *BlogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(fiber.Map{"data": categories})
}
