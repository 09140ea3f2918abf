package handlers

import (
	"marinehub.app/handlers/apierror"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
)

// SEOHandler serves robots.txt and sitemap.xml at the site root.
type SEOHandler struct {
	service services.ISitemapService
}

// NewSEOHandler creates an SEOHandler.
func NewSEOHandler(service services.ISitemapService) *SEOHandler {
	return &SEOHandler{service: service}
}

func (h *SEOHandler) Robots(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return c.SendString(h.service.RobotsTxt())
}

func (h *SEOHandler) Sitemap(c *fiber.Ctx) error {
	body, err := h.service.SitemapXML(c.UserContext())
	if err != nil {
		return apierror.Write(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, "public, max-age=900")
	return c.Send(body)
}
