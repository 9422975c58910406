package supabase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
)

var _ ports.ChangeFeed = (*Realtime)(nil)

const (
	heartbeatInterval = 30 * time.Second
	maxBackoff        = 30 * time.Second
)

// Realtime suscripción a postgres_changes de una tabla vía Supabase Realtime (protocolo phoenix).
type Realtime struct {
	wsURL  string
	schema string
	table  string
	log    zerolog.Logger
	dialer *websocket.Dialer
}

// NewRealtime construye el feed para schema.table. baseURL es la URL https del proyecto.
func NewRealtime(baseURL, apiKey, schema, table string, log zerolog.Logger) *Realtime {
	return &Realtime{
		wsURL:  websocketURL(baseURL, apiKey),
		schema: schema,
		table:  table,
		log:    log,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}
}

func websocketURL(baseURL, apiKey string) string {
	u := strings.TrimSuffix(baseURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/realtime/v1/websocket?apikey=" + url.QueryEscape(apiKey) + "&vsn=1.0.0"
}

// Name implementa ports.ChangeFeed.
func (r *Realtime) Name() string { return "supabase" }

// Run mantiene la suscripción hasta que ctx se cancele, reconectando con backoff exponencial.
func (r *Realtime) Run(ctx context.Context, handle func(ports.ChangeEvent)) error {
	backoff := time.Second
	for {
		start := time.Now()
		err := r.session(ctx, handle)
		if ctx.Err() != nil {
			return nil
		}
		if time.Since(start) > time.Minute {
			backoff = time.Second
		}
		r.log.Warn().Err(err).Dur("retry_in", backoff).Msg("realtime desconectado, reintentando")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}

// session una conexión: join, heartbeat y lectura hasta error.
func (r *Realtime) session(ctx context.Context, handle func(ports.ChangeEvent)) error {
	conn, _, err := r.dialer.DialContext(ctx, r.wsURL, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close()

	var (
		writeMu sync.Mutex
		ref     int
	)
	send := func(msg map[string]any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		ref++
		msg["ref"] = strconv.Itoa(ref)
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteJSON(msg)
	}

	topic := fmt.Sprintf("realtime:%s:%s", r.schema, r.table)
	join := map[string]any{
		"topic": topic,
		"event": "phx_join",
		"payload": map[string]any{
			"config": map[string]any{
				"postgres_changes": []map[string]string{
					{"event": "*", "schema": r.schema, "table": r.table},
				},
			},
		},
		"join_ref": "1",
	}
	if err := send(join); err != nil {
		return fmt.Errorf("send join: %w", err)
	}
	r.log.Info().Str("topic", topic).Msg("suscrito a realtime")

	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-sessCtx.Done()
		// Desbloquea ReadMessage al cancelar.
		_ = conn.SetReadDeadline(time.Now())
	}()
	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sessCtx.Done():
				return
			case <-ticker.C:
				hb := map[string]any{"topic": "phoenix", "event": "heartbeat", "payload": map[string]any{}}
				if err := send(hb); err != nil {
					r.log.Warn().Err(err).Msg("heartbeat fallido")
					cancel()
					return
				}
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if sessCtx.Err() != nil && ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if ev, ok := ParseMessage(msg); ok {
			handle(ev)
		} else if gjson.GetBytes(msg, "event").String() == "phx_reply" &&
			gjson.GetBytes(msg, "payload.status").String() == "error" {
			r.log.Error().RawJSON("payload", []byte(gjson.GetBytes(msg, "payload").Raw)).Msg("realtime rechazó la suscripción")
		}
	}
}

// ParseMessage extrae un ChangeEvent de un mensaje postgres_changes. Otros mensajes devuelven false.
func ParseMessage(msg []byte) (ports.ChangeEvent, bool) {
	if gjson.GetBytes(msg, "event").String() != "postgres_changes" {
		return ports.ChangeEvent{}, false
	}
	data := gjson.GetBytes(msg, "payload.data")
	if !data.Exists() {
		return ports.ChangeEvent{}, false
	}
	ev := ports.ChangeEvent{
		Type:  data.Get("type").String(),
		Table: data.Get("table").String(),
	}
	if ev.Type == "" {
		return ports.ChangeEvent{}, false
	}
	if rec := data.Get("record"); rec.IsObject() {
		ev.Record = []byte(rec.Raw)
	}
	if old := data.Get("old_record"); old.IsObject() {
		ev.OldRecord = []byte(old.Raw)
	}
	return ev, true
}
