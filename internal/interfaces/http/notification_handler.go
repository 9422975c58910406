package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/application/usecase"
)

// NotificationHandler avisos del usuario autenticado.
type NotificationHandler struct {
	uc *usecase.NotificationUseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List GET /api/notifications (50 más recientes)
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetStoreID(c), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.Notifications)
	return c.JSON(out)
}

// UnreadCount GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	out, err := h.uc.UnreadCount(c.UserContext(), GetStoreID(c), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.NotificationsUnread)
	return c.JSON(out)
}

// MarkRead PATCH /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.UserContext(), GetStoreID(c), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead PATCH /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.uc.MarkAllRead(c.UserContext(), GetStoreID(c), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetStoreID(c), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
