package handlers

import (
	"marinehub.app/handlers/apierror"
	"marinehub.app/handlers/request"
	"marinehub.app/middlewares"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
)

// BlogHandler holds the admin-only blog writes.
type BlogHandler struct {
	service services.IBlogService
}

// NewBlogHandler creates a BlogHandler.
func NewBlogHandler(service services.IBlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

// CreatePost handles POST /api/v1/blog/posts.
func (h *BlogHandler) CreatePost(c *fiber.Ctx) error {
	var in services.PostInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	post, err := h.service.Create(c.UserContext(), middlewares.CurrentActor(c), in)
	if err != nil {
		return apierror.Write(c, err)
	}
	c.Location("/api/blog/posts/" + post.Slug)
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/v1/blog/posts/:slug. Omitted fields keep their value.
func (h *BlogHandler) UpdatePost(c *fiber.Ctx) error {
	var patch services.PostPatch
	if err := request.Body(c, &patch); err != nil {
		return apierror.Write(c, err)
	}
	post, err := h.service.Update(c.UserContext(), middlewares.CurrentActor(c), c.Params("slug"), patch)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/v1/blog/posts/:slug.
func (h *BlogHandler) DeletePost(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), middlewares.CurrentActor(c), c.Params("slug")); err != nil {
		return apierror.Write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateCategory handles POST /api/v1/blog/categories.
func (h *BlogHandler) CreateCategory(c *fiber.Ctx) error {
	var in services.CategoryInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	category, err := h.service.CreateCategory(c.UserContext(), middlewares.CurrentActor(c), in)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}
