package entity

import "time"

// Tipos de notificación.
const (
	NotificationOrder   = "order"
	NotificationPayment = "payment"
	NotificationStore   = "store"
	NotificationSystem  = "system"
)

// Notification aviso dirigido a un usuario del panel.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      string
	IsRead    bool
	Metadata  map[string]any
	CreatedAt time.Time
}
