package usecase

import (
	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/application/realtime"
)

// invalidateEvent avisa a los paneles conectados qué recursos deben volver a pedir.
func invalidateEvent(resources ...querycache.Resource) ports.StoreEvent {
	return ports.StoreEvent{Type: realtime.EventInvalidate, Data: realtime.InvalidateData{Keys: querycache.Names(resources...)}}
}
