// Package order reglas de negocio sobre el ciclo de vida de un pedido.
package order

import (
	"strings"

	"github.com/jhoicas/kirana-admin-api/internal/domain"
	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Statuses en el orden natural del flujo de entrega.
var Statuses = []string{
	entity.OrderPending,
	entity.OrderConfirmed,
	entity.OrderPreparing,
	entity.OrderOutForDelivery,
	entity.OrderDelivered,
	entity.OrderCancelled,
}

var labels = map[string]string{
	entity.OrderPending:        "Pending",
	entity.OrderConfirmed:      "Confirmed",
	entity.OrderPreparing:      "Preparing",
	entity.OrderOutForDelivery: "Out for Delivery",
	entity.OrderDelivered:      "Delivered",
	entity.OrderCancelled:      "Cancelled",
}

// IsValid indica si s es un estado conocido.
func IsValid(s string) bool {
	_, ok := labels[s]
	return ok
}

// IsTerminal delivered y cancelled no admiten más cambios.
func IsTerminal(s string) bool {
	return s == entity.OrderDelivered || s == entity.OrderCancelled
}

// ValidateTransition comprueba que un pedido en estado from pueda pasar a to.
func ValidateTransition(from, to string) error {
	if !IsValid(to) {
		return domain.ErrInvalidStatus
	}
	if IsTerminal(from) {
		return domain.ErrTerminalStatus
	}
	if from == to {
		return domain.ErrSameStatus
	}
	return nil
}

// Label texto para mostrar. Estados desconocidos se convierten a título ("on_hold" -> "On Hold").
func Label(s string) string {
	if l, ok := labels[s]; ok {
		return l
	}
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}
