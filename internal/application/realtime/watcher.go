package realtime

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
)

// Tipos de StoreEvent.
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
	EventInvalidate   = "invalidate"
)

const ordersTable = "orders"

// NewOrder datos de un pedido recién creado para notificar a los administradores.
type NewOrder struct {
	ID          string
	StoreID     string
	OrderNumber string
	TotalAmount decimal.Decimal
}

// Notifier crea los avisos de un pedido nuevo.
type Notifier interface {
	NotifyNewOrder(ctx context.Context, o NewOrder) error
}

// OrderCreatedData payload de order.created.
type OrderCreatedData struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// OrderUpdatedData payload de order.updated.
type OrderUpdatedData struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
	OldStatus   string `json:"old_status,omitempty"`
	Status      string `json:"status"`
}

// InvalidateData payload de invalidate: recursos que el cliente debe volver a pedir.
type InvalidateData struct {
	Keys []string `json:"keys"`
}

// OrderWatcher consume el ChangeFeed de pedidos: invalida caché, publica a los paneles
// y crea notificaciones en cada pedido nuevo.
type OrderWatcher struct {
	feed      ports.ChangeFeed
	cache     *querycache.Cache
	publisher ports.EventPublisher
	notifier  Notifier
	metrics   ports.Metrics
	log       zerolog.Logger
	timeout   time.Duration
}

// NewOrderWatcher construye el watcher. notifier y metrics pueden ser nil.
func NewOrderWatcher(feed ports.ChangeFeed, cache *querycache.Cache, publisher ports.EventPublisher, notifier Notifier, metrics ports.Metrics, log zerolog.Logger) *OrderWatcher {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &OrderWatcher{
		feed:      feed,
		cache:     cache,
		publisher: publisher,
		notifier:  notifier,
		metrics:   metrics,
		log:       log,
		timeout:   10 * time.Second,
	}
}

// Run bloquea hasta que ctx se cancele.
func (w *OrderWatcher) Run(ctx context.Context) error {
	w.log.Info().Str("source", w.feed.Name()).Msg("watcher de pedidos iniciado")
	return w.feed.Run(ctx, func(ev ports.ChangeEvent) {
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.timeout)
		defer cancel()
		w.Handle(hctx, ev)
	})
}

// Handle procesa un cambio. Los eventos de otras tablas, DELETE o sin store_id se ignoran.
func (w *OrderWatcher) Handle(ctx context.Context, ev ports.ChangeEvent) {
	w.metrics.RealtimeEvent(w.feed.Name(), ev.Type)
	if ev.Table != "" && ev.Table != ordersTable {
		return
	}
	if ev.Type != ports.ChangeInsert && ev.Type != ports.ChangeUpdate {
		return
	}
	rec := gjson.ParseBytes(ev.Record)
	storeID := rec.Get("store_id").String()
	if storeID == "" {
		w.log.Debug().Str("type", ev.Type).Msg("cambio sin store_id, ignorado")
		return
	}
	orderID := rec.Get("id").String()
	number := rec.Get("order_number").String()
	status := rec.Get("status").String()

	resources := []querycache.Resource{querycache.Orders, querycache.Dashboard}
	if ev.Type == ports.ChangeInsert {
		resources = append(resources,
			querycache.Customers, querycache.Customer, querycache.CustomerSearch,
			querycache.Analytics, querycache.OrderTrends, querycache.RevenueTrends,
			querycache.TopProducts, querycache.CategoryBreakdown, querycache.ReportData,
		)
	}
	if err := w.cache.Invalidate(ctx, storeID, resources...); err != nil {
		w.log.Warn().Err(err).Str("store_id", storeID).Msg("no se pudo invalidar caché")
	}

	switch ev.Type {
	case ports.ChangeInsert:
		total, _ := decimal.NewFromString(rec.Get("total_amount").String())
		w.publisher.Publish(storeID, ports.StoreEvent{Type: EventOrderCreated, Data: OrderCreatedData{
			ID:          orderID,
			OrderNumber: number,
			Status:      status,
			TotalAmount: total,
		}})
		if w.notifier != nil {
			err := w.notifier.NotifyNewOrder(ctx, NewOrder{ID: orderID, StoreID: storeID, OrderNumber: number, TotalAmount: total})
			if err != nil {
				w.log.Error().Err(err).Str("order_id", orderID).Msg("no se pudo notificar pedido nuevo")
			}
		}
	case ports.ChangeUpdate:
		w.publisher.Publish(storeID, ports.StoreEvent{Type: EventOrderUpdated, Data: OrderUpdatedData{
			ID:          orderID,
			OrderNumber: number,
			OldStatus:   gjson.GetBytes(ev.OldRecord, "status").String(),
			Status:      status,
		}})
	}
	w.publisher.Publish(storeID, ports.StoreEvent{Type: EventInvalidate, Data: InvalidateData{Keys: querycache.Names(resources...)}})
}
