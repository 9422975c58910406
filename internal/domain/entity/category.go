package entity

import "time"

// Category categoría global del catálogo.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
