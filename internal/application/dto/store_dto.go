package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayHoursDTO horario de un día dentro de business_hours (claves monday..sunday).
type DayHoursDTO struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// StoreResponse configuración de la tienda.
type StoreResponse struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	OwnerID         string                 `json:"owner_id"`
	Address         string                 `json:"address"`
	PhoneNumber     string                 `json:"phone_number"`
	Latitude        float64                `json:"latitude"`
	Longitude       float64                `json:"longitude"`
	IsOpen          bool                   `json:"is_open"`
	IsActive        bool                   `json:"is_active"`
	BusinessHours   map[string]DayHoursDTO `json:"business_hours,omitempty"`
	DeliveryEnabled bool                   `json:"delivery_enabled"`
	MinOrderAmount  decimal.Decimal        `json:"min_order_amount"`
	DeliveryFee     decimal.Decimal        `json:"delivery_fee"`
	TaxRate         decimal.Decimal        `json:"tax_rate"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// UpdateStoreRequest body de PUT /api/settings/store. Campos nil no se modifican.
type UpdateStoreRequest struct {
	Name            *string                 `json:"name" validate:"omitempty,min=2,max=100"`
	Address         *string                 `json:"address" validate:"omitempty,min=5"`
	PhoneNumber     *string                 `json:"phone_number" validate:"omitempty,indian_phone"`
	IsOpen          *bool                   `json:"is_open"`
	BusinessHours   *map[string]DayHoursDTO `json:"business_hours"`
	DeliveryEnabled *bool                   `json:"delivery_enabled"`
	MinOrderAmount  *decimal.Decimal        `json:"min_order_amount"`
	DeliveryFee     *decimal.Decimal        `json:"delivery_fee"`
	TaxRate         *decimal.Decimal        `json:"tax_rate"`
}

// CreateStaffRequest body de POST /api/settings/staff.
type CreateStaffRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,indian_phone"`
	FullName    string `json:"full_name" validate:"required,min=2,max=100"`
	Role        string `json:"role" validate:"required,oneof=manager staff"`
}

// UpdateStaffRequest body de PUT /api/settings/staff/:id.
type UpdateStaffRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Role     *string `json:"role" validate:"omitempty,oneof=manager staff"`
	IsActive *bool   `json:"is_active"`
}

// StoreHoursDTO un día del horario semanal.
type StoreHoursDTO struct {
	ID        string `json:"id,omitempty"`
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	DayName   string `json:"day_name,omitempty"`
	OpenTime  string `json:"open_time" validate:"omitempty,hhmm"`
	CloseTime string `json:"close_time" validate:"omitempty,hhmm"`
	IsClosed  bool   `json:"is_closed"`
}

// UpdateStoreHoursRequest body de PUT /api/settings/hours.
type UpdateStoreHoursRequest struct {
	Hours []StoreHoursDTO `json:"hours" validate:"required,min=1,max=7,dive"`
}
