package dto

import "time"

// NotificationResponse aviso del panel.
type NotificationResponse struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Type      string         `json:"type"`
	IsRead    bool           `json:"is_read"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// UnreadCountResponse respuesta de GET /api/notifications/unread-count.
type UnreadCountResponse struct {
	Count int `json:"count"`
}
