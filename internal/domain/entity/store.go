package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayHours horario de un día dentro de Store.BusinessHours (clave: monday, tuesday, ...).
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// Store tienda (kirana) con su configuración operativa.
type Store struct {
	ID              string
	Name            string
	OwnerID         string // user_id del dueño
	Address         string
	PhoneNumber     string
	Latitude        float64
	Longitude       float64
	IsOpen          bool
	IsActive        bool
	BusinessHours   map[string]DayHours
	DeliveryEnabled bool
	MinOrderAmount  decimal.Decimal
	DeliveryFee     decimal.Decimal
	TaxRate         decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StoreHours horario de apertura por día de la semana (0 = domingo, 6 = sábado).
type StoreHours struct {
	ID        string
	StoreID   string
	DayOfWeek int
	OpenTime  string // HH:MM, vacío si cerrado
	CloseTime string
	IsClosed  bool
}

var dayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayName nombre en inglés del día de la semana; "Unknown" fuera de rango.
func DayName(dayOfWeek int) string {
	if dayOfWeek < 0 || dayOfWeek >= len(dayNames) {
		return "Unknown"
	}
	return dayNames[dayOfWeek]
}

// DefaultStoreHours horario inicial: todos los días de 09:00 a 21:00.
func DefaultStoreHours(storeID string) []StoreHours {
	hours := make([]StoreHours, 0, len(dayNames))
	for d := range dayNames {
		hours = append(hours, StoreHours{
			StoreID:   storeID,
			DayOfWeek: d,
			OpenTime:  "09:00",
			CloseTime: "21:00",
		})
	}
	return hours
}

// WeekDays claves de Store.BusinessHours en orden.
var WeekDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DefaultBusinessHours 09:00 a 21:00 todos los días.
func DefaultBusinessHours() map[string]DayHours {
	out := make(map[string]DayHours, len(WeekDays))
	for _, d := range WeekDays {
		out[d] = DayHours{Open: "09:00", Close: "21:00"}
	}
	return out
}
