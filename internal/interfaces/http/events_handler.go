package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
	"github.com/jhoicas/kirana-admin-api/internal/application/realtime"
)

const sseHeartbeat = 25 * time.Second

// EventsHandler stream SSE con los cambios de la tienda del usuario.
type EventsHandler struct {
	broker    *realtime.Broker
	heartbeat time.Duration
	log       zerolog.Logger
}

// NewEventsHandler construye el handler.
func NewEventsHandler(broker *realtime.Broker, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{broker: broker, heartbeat: sseHeartbeat, log: log}
}

// Stream godoc
// @Summary      Eventos en tiempo real (SSE)
// @Description  order.created, order.updated e invalidate (claves del panel a refrescar).
// @Description  EventSource no envía cabeceras: el token puede ir en ?access_token=.
// @Tags         events
// @Security     Bearer
// @Produce      text/event-stream
// @Param        access_token  query  string  false  "JWT"
// @Success      200
// @Router       /api/events [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	sub := h.broker.Subscribe(storeID)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	log := h.log.With().Str("store_id", storeID).Str("user_id", GetUserID(c)).Logger()
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer h.broker.Unsubscribe(sub)
		log.Debug().Msg("cliente SSE conectado")

		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()

		if err := writeSSEComment(w, "connected"); err != nil {
			return
		}
		for {
			select {
			case ev, ok := <-sub.Events():
				if !ok {
					return
				}
				if err := writeSSEEvent(w, ev); err != nil {
					log.Debug().Err(err).Msg("cliente SSE desconectado")
					return
				}
			case <-ticker.C:
				if err := writeSSEComment(w, "ping"); err != nil {
					log.Debug().Err(err).Msg("cliente SSE desconectado")
					return
				}
			}
		}
	})
	return nil
}

func writeSSEEvent(w *bufio.Writer, ev ports.StoreEvent) error {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
		return err
	}
	return w.Flush()
}

func writeSSEComment(w *bufio.Writer, comment string) error {
	if _, err := fmt.Fprintf(w, ": %s\n\n", comment); err != nil {
		return err
	}
	return w.Flush()
}
