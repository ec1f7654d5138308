package handlers

import (
	"github.com/arnold/simlegacy-api/internal/middleware"
	"github.com/arnold/simlegacy-api/internal/models"
	"github.com/gofiber/fiber/v2"
)

// GetNotifications returns paginated notifications for the current user
func (h *Handler) GetNotifications(c *fiber.Ctx) error {
	page, limit, offset := pagination(c)
	list, total, unread, err := h.repo.Notifications(c.UserContext(), middleware.GetUserID(c), offset, limit)
	if err != nil {
		return h.fail(c, err, "Notification")
	}
	return c.JSON(fiber.Map{
		"notifications": list,
		"total":         total,
		"unread":        unread,
		"page":          page,
		"limit":         limit,
	})
}

func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID("notification")
	}
	if err := h.repo.MarkNotificationRead(c.UserContext(), middleware.GetUserID(c), id); err != nil {
		return h.fail(c, err, "Notification")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.repo.MarkAllNotificationsRead(c.UserContext(), middleware.GetUserID(c)); err != nil {
		return h.fail(c, err, "Notification")
	}
	return c.JSON(fiber.Map{"success": true})
}

// RegisterDeviceToken saves the FCM token for push notifications
func (h *Handler) RegisterDeviceToken(c *fiber.Ctx) error {
	var req models.DeviceTokenRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(err)
	}
	if err := h.repo.SetDeviceToken(c.UserContext(), middleware.GetUserID(c), req.Token); err != nil {
		return h.fail(c, err, "User")
	}
	return c.JSON(fiber.Map{"success": true})
}
