package handlers

import (
	"marinehub.app/handlers/apierror"
	"marinehub.app/handlers/request"
	"marinehub.app/middlewares"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves /api/admin.
type AdminHandler struct {
	service   services.IAdminService
	analytics services.IAnalyticsService
	sitemap   services.ISitemapService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(service services.IAdminService, analytics services.IAnalyticsService, sitemap services.ISitemapService) *AdminHandler {
	return &AdminHandler{service: service, analytics: analytics, sitemap: sitemap}
}

// ListSuperintendents lists every superintendent for moderation.
func (h *AdminHandler) ListSuperintendents(c *fiber.Ctx) error {
	var q services.AdminSuperintendentQuery
	if err := request.Query(c, &q); err != nil {
		return apierror.Write(c, err)
	}
	var err error
	if q.Verified, err = request.OptionalBool(c, "verified"); err != nil {
		return apierror.Write(c, err)
	}
	if q.Premium, err = request.OptionalBool(c, "premium"); err != nil {
		return apierror.Write(c, err)
	}
	result, err := h.service.ListSuperintendents(c.UserContext(), q)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(result)
}

// Verify sets or clears the verified badge.
func (h *AdminHandler) Verify(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierror.Write(c, err)
	}
	var in services.VerifyInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	profile, err := h.service.SetVerified(c.UserContext(), middlewares.CurrentActor(c), id, in.Verified)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(profile)
}

// GrantPremium extends a premium subscription.
func (h *AdminHandler) GrantPremium(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierror.Write(c, err)
	}
	var in services.PremiumInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	profile, err := h.service.GrantPremium(c.UserContext(), middlewares.CurrentActor(c), id, in.Months)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(profile)
}

// Stats returns the dashboard counters.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(stats)
}

// AnalyticsSummary reads ?days=N; the service clamps it.
func (h *AdminHandler) AnalyticsSummary(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary(c.UserContext(), c.QueryInt("days", services.DefaultSummaryDays))
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(summary)
}

// PingSitemap answers 200 with per-endpoint results even when some fail.
func (h *AdminHandler) PingSitemap(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"results": h.sitemap.Ping(c.UserContext())})
}
