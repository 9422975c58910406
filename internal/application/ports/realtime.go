package ports

import "context"

// Tipos de cambio de un ChangeEvent.
const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"
)

// ChangeEvent cambio de una fila. Record y OldRecord son JSON crudo (pueden ser nil).
type ChangeEvent struct {
	Type      string
	Table     string
	Record    []byte
	OldRecord []byte
}

// ChangeFeed fuente de cambios en tiempo real (LISTEN/NOTIFY, Supabase Realtime).
type ChangeFeed interface {
	// Name identifica la fuente en logs y métricas.
	Name() string
	// Run bloquea entregando eventos a handle hasta que ctx se cancele.
	Run(ctx context.Context, handle func(ChangeEvent)) error
}

// StoreEvent evento que se envía a los paneles conectados de una tienda.
type StoreEvent struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// EventPublisher difunde eventos a los suscriptores de una tienda.
type EventPublisher interface {
	Publish(storeID string, ev StoreEvent)
}

// Metrics contadores de negocio expuestos en /metrics.
type Metrics interface {
	CacheResult(resource string, hit bool)
	RealtimeEvent(source, eventType string)
	OrderStatusUpdated(status string)
	JobRun(job string, err error)
}

// NopMetrics implementación vacía para tests y herramientas.
type NopMetrics struct{}

func (NopMetrics) CacheResult(string, bool)     {}
func (NopMetrics) RealtimeEvent(string, string) {}
func (NopMetrics) OrderStatusUpdated(string)    {}
func (NopMetrics) JobRun(string, error)         {}
