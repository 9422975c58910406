package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo avisos del panel por usuario.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador de notificaciones.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create persiste una notificación. Metadata se guarda como JSONB.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO notifications (id, user_id, title, message, type, is_read, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.UserID, n.Title, n.Message, n.Type, n.IsRead, n.Metadata, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByUser las limit notificaciones más recientes del usuario.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, title, message, type, is_read, COALESCE(metadata, '{}'::jsonb), created_at
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	list := []*entity.Notification{}
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.Metadata, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

// CountUnread número de notificaciones sin leer.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead marca una notificación del usuario como leída.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// MarkAllRead marca como leídas todas las del usuario.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.q.Exec(ctx, `UPDATE notifications SET is_read = true WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

// Delete elimina una notificación del usuario.
func (r *NotificationRepo) Delete(ctx context.Context, id, userID string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete notification: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
