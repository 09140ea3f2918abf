package handlers

import (
	"marinehub.app/handlers/apierror"
	"marinehub.app/handlers/request"
	"marinehub.app/middlewares"
	"marinehub.app/pkg/queryparams"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler serves the caller's notifications.
type NotificationHandler struct {
	service services.INotificationService
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(service services.INotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List accepts ?unread=true to hide read rows.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := request.Query(c, &params); err != nil {
		return apierror.Write(c, err)
	}
	unread, err := request.OptionalBool(c, "unread")
	if err != nil {
		return apierror.Write(c, err)
	}
	result, err := h.service.List(c.UserContext(), middlewares.CurrentActor(c).UserID, unread != nil && *unread, params)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(result)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.service.UnreadCount(c.UserContext(), middlewares.CurrentActor(c).UserID)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(fiber.Map{"unread": count})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierror.Write(c, err)
	}
	if err := h.service.MarkRead(c.UserContext(), middlewares.CurrentActor(c).UserID, id); err != nil {
		return apierror.Write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.service.MarkAllRead(c.UserContext(), middlewares.CurrentActor(c).UserID)
	if err != nil {
		return apierror.Write(c, err)
	}
	return c.JSON(fiber.Map{"marked": n})
}
