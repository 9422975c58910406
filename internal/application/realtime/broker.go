// Package realtime difunde los cambios de pedidos a los paneles conectados y mantiene la
// caché de consultas coherente con la base de datos.
package realtime

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
)

const defaultBuffer = 16

// Subscription suscripción de un cliente a los eventos de una tienda.
type Subscription struct {
	StoreID string
	ch      chan ports.StoreEvent
}

// Events canal de eventos; se cierra al desuscribirse o al cerrar el broker.
func (s *Subscription) Events() <-chan ports.StoreEvent { return s.ch }

// Broker fan-out de eventos por tienda. Un suscriptor lento pierde eventos en lugar de bloquear al resto.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
	closed bool
	log    zerolog.Logger
}

var _ ports.EventPublisher = (*Broker)(nil)

// NewBroker crea el broker. buffer <= 0 usa el valor por defecto.
func NewBroker(buffer int, log zerolog.Logger) *Broker {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Broker{subs: make(map[string]map[*Subscription]struct{}), buffer: buffer, log: log}
}

// Subscribe registra un suscriptor para storeID. Tras Close devuelve una suscripción con el canal cerrado.
func (b *Broker) Subscribe(storeID string) *Subscription {
	s := &Subscription{StoreID: storeID, ch: make(chan ports.StoreEvent, b.buffer)}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(s.ch)
		return s
	}
	set, ok := b.subs[storeID]
	if !ok {
		set = make(map[*Subscription]struct{})
		b.subs[storeID] = set
	}
	set[s] = struct{}{}
	return s
}

// Unsubscribe elimina la suscripción y cierra su canal. Es idempotente.
func (b *Broker) Unsubscribe(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.subs[s.StoreID]
	if !ok {
		return
	}
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	close(s.ch)
	if len(set) == 0 {
		delete(b.subs, s.StoreID)
	}
}

// Publish entrega ev a todos los suscriptores de storeID sin bloquear.
func (b *Broker) Publish(storeID string, ev ports.StoreEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for s := range b.subs[storeID] {
		select {
		case s.ch <- ev:
		default:
			b.log.Warn().Str("store_id", storeID).Str("event", ev.Type).Msg("suscriptor lento, evento descartado")
		}
	}
}

// Subscribers número de suscriptores activos de storeID.
func (b *Broker) Subscribers(storeID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[storeID])
}

// Close cierra todas las suscripciones; los streams SSE terminan al ver el canal cerrado.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for storeID, set := range b.subs {
		for s := range set {
			close(s.ch)
		}
		delete(b.subs, storeID)
	}
}
