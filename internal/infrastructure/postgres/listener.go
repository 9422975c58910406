package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
)

var _ ports.ChangeFeed = (*Listener)(nil)

// Listener feed de cambios basado en LISTEN/NOTIFY. El trigger notify_order_change publica
// {type, table, record, old_record} en el canal.
type Listener struct {
	pool    *pgxpool.Pool
	channel string
	log     zerolog.Logger
}

// NewListener construye el listener sobre channel.
func NewListener(pool *pgxpool.Pool, channel string, log zerolog.Logger) *Listener {
	return &Listener{pool: pool, channel: channel, log: log}
}

// Verify comprueba que el trigger de pedidos publica en el canal configurado. Con otro canal
// el listener no recibiría nada, así que el arranque debe fallar.
func (l *Listener) Verify(ctx context.Context) error {
	var def string
	err := l.pool.QueryRow(ctx, `SELECT pg_get_functiondef('notify_order_change'::regproc)`).Scan(&def)
	if err != nil {
		return fmt.Errorf("leer notify_order_change: %w", err)
	}
	if !notifiesOn(def, l.channel) {
		return fmt.Errorf("notify_order_change no publica en el canal %q: ajuste REALTIME_PG_CHANNEL o la migración", l.channel)
	}
	return nil
}

// notifiesOn indica si la definición de la función llama a pg_notify con channel.
func notifiesOn(def, channel string) bool {
	lit := "'" + strings.ReplaceAll(channel, "'", "''") + "'"
	return strings.Contains(strings.Join(strings.Fields(def), ""), "pg_notify("+lit)
}

// Name implementa ports.ChangeFeed.
func (l *Listener) Name() string { return "postgres" }

// Run escucha hasta que ctx se cancele. Si la conexión se pierde reintenta con backoff (máx. 30s).
func (l *Listener) Run(ctx context.Context, handle func(ports.ChangeEvent)) error {
	backoff := time.Second
	for {
		err := l.listen(ctx, handle)
		if ctx.Err() != nil {
			return nil
		}
		l.log.Warn().Err(err).Dur("retry_in", backoff).Msg("listen interrumpido, reintentando")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (l *Listener) listen(ctx context.Context, handle func(ports.ChangeEvent)) error {
	pooled, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	// La conexión sale del pool: una sesión con LISTEN activo no debe volver a usarse para consultas.
	conn := pooled.Hijack()
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", l.channel, err)
	}
	l.log.Info().Str("channel", l.channel).Msg("escuchando cambios")

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		ev, ok := ParseNotification(n.Payload)
		if !ok {
			l.log.Warn().Str("payload", n.Payload).Msg("notificación ignorada: payload inválido")
			continue
		}
		handle(ev)
	}
}

// ParseNotification convierte el payload del trigger en un ChangeEvent.
func ParseNotification(payload string) (ports.ChangeEvent, bool) {
	if !gjson.Valid(payload) {
		return ports.ChangeEvent{}, false
	}
	res := gjson.GetMany(payload, "type", "table", "record", "old_record")
	if res[0].String() == "" || res[1].String() == "" {
		return ports.ChangeEvent{}, false
	}
	ev := ports.ChangeEvent{Type: res[0].String(), Table: res[1].String()}
	if res[2].IsObject() {
		ev.Record = []byte(res[2].Raw)
	}
	if res[3].IsObject() {
		ev.OldRecord = []byte(res[3].Raw)
	}
	return ev, true
}
