package handlers

import (
	"marinehub.app/handlers/apierror"
	"marinehub.app/handlers/request"
	"marinehub.app/middlewares"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
)

// HeaderSessionID carries the analytics session between beacons.
const HeaderSessionID = "X-Session-Id"

// AnalyticsHandler takes frontend beacons.
type AnalyticsHandler struct {
	service services.IAnalyticsService
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(service services.IAnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Track stores a beacon. The session id comes from the body or the
// X-Session-Id header and is echoed back in that header.
func (h *AnalyticsHandler) Track(c *fiber.Ctx) error {
	var in services.EventInput
	if err := request.Body(c, &in); err != nil {
		return apierror.Write(c, err)
	}
	if in.SessionID == "" {
		in.SessionID = c.Get(HeaderSessionID)
	}

	meta := services.EventMeta{UserAgent: c.Get(fiber.HeaderUserAgent)}
	if actor := middlewares.CurrentActor(c); actor.Authenticated() {
		meta.UserID = &actor.UserID
	}

	session, err := h.service.Record(c.UserContext(), in, meta)
	if err != nil {
		return apierror.Write(c, err)
	}
	c.Set(HeaderSessionID, session)
	return c.SendStatus(fiber.StatusNoContent)
}
