package repository

import (
	"context"

	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
)

// NotificationRepository avisos por usuario. Las operaciones sobre un id se restringen al userID dueño;
// devuelven false si no existe para ese usuario.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id, userID string) (bool, error)
}
