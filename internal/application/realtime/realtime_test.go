package realtime_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/application/realtime"
	"github.com/jhoicas/kirana-admin-api/internal/infrastructure/cache"
)

func TestBroker_PublishOnlyToStore(t *testing.T) {
	b := realtime.NewBroker(4, zerolog.Nop())
	s1 := b.Subscribe("s1")
	s2 := b.Subscribe("s2")
	defer b.Unsubscribe(s1)
	defer b.Unsubscribe(s2)

	b.Publish("s1", ports.StoreEvent{Type: "ping"})

	select {
	case ev := <-s1.Events():
		assert.Equal(t, "ping", ev.Type)
	case <-time.After(time.Second):
		t.Fatal("s1 no recibió el evento")
	}
	select {
	case ev := <-s2.Events():
		t.Fatalf("s2 recibió un evento ajeno: %v", ev)
	default:
	}
}

func TestBroker_SlowSubscriberDropsEvents(t *testing.T) {
	b := realtime.NewBroker(1, zerolog.Nop())
	s := b.Subscribe("s1")
	b.Publish("s1", ports.StoreEvent{Type: "a"})
	b.Publish("s1", ports.StoreEvent{Type: "b"})

	ev := <-s.Events()
	assert.Equal(t, "a", ev.Type)
	assert.Len(t, s.Events(), 0)
}

func TestBroker_UnsubscribeAndClose(t *testing.T) {
	b := realtime.NewBroker(1, zerolog.Nop())
	s := b.Subscribe("s1")
	assert.Equal(t, 1, b.Subscribers("s1"))

	b.Unsubscribe(s)
	b.Unsubscribe(s)
	assert.Equal(t, 0, b.Subscribers("s1"))
	_, ok := <-s.Events()
	assert.False(t, ok)

	s2 := b.Subscribe("s1")
	b.Close()
	_, ok = <-s2.Events()
	assert.False(t, ok)

	s3 := b.Subscribe("s1")
	_, ok = <-s3.Events()
	assert.False(t, ok)
}

type stubFeed struct{ events []ports.ChangeEvent }

func (f *stubFeed) Name() string { return "stub" }
func (f *stubFeed) Run(_ context.Context, handle func(ports.ChangeEvent)) error {
	for _, ev := range f.events {
		handle(ev)
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events map[string][]ports.StoreEvent
}

func (p *recordingPublisher) Publish(storeID string, ev ports.StoreEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = make(map[string][]ports.StoreEvent)
	}
	p.events[storeID] = append(p.events[storeID], ev)
}

type recordingNotifier struct{ orders []realtime.NewOrder }

func (n *recordingNotifier) NotifyNewOrder(_ context.Context, o realtime.NewOrder) error {
	n.orders = append(n.orders, o)
	return nil
}

func newWatcher(t *testing.T, events ...ports.ChangeEvent) (*realtime.OrderWatcher, *recordingPublisher, *recordingNotifier, *querycache.Cache) {
	t.Helper()
	mem := cache.NewMemory(time.Minute)
	t.Cleanup(func() { _ = mem.Close() })
	qc := querycache.New(mem, nil, zerolog.Nop())
	pub := &recordingPublisher{}
	notif := &recordingNotifier{}
	w := realtime.NewOrderWatcher(&stubFeed{events: events}, qc, pub, notif, nil, zerolog.Nop())
	return w, pub, notif, qc
}

func TestOrderWatcher_Insert(t *testing.T) {
	ev := ports.ChangeEvent{
		Type:   ports.ChangeInsert,
		Table:  "orders",
		Record: []byte(`{"id":"o1","store_id":"s1","order_number":"ORD-1","status":"pending","total_amount":250.5}`),
	}
	w, pub, notif, qc := newWatcher(t, ev)

	ctx := context.Background()
	calls := 0
	load := func(context.Context) (int, error) { calls++; return calls, nil }
	_, err := querycache.GetOrLoad(ctx, qc, "s1", querycache.Orders, nil, load)
	require.NoError(t, err)

	require.NoError(t, w.Run(ctx))

	got := pub.events["s1"]
	require.Len(t, got, 2)
	assert.Equal(t, realtime.EventOrderCreated, got[0].Type)
	data := got[0].Data.(realtime.OrderCreatedData)
	assert.Equal(t, "ORD-1", data.OrderNumber)
	assert.Equal(t, "250.5", data.TotalAmount.String())
	assert.Equal(t, realtime.EventInvalidate, got[1].Type)
	assert.Contains(t, got[1].Data.(realtime.InvalidateData).Keys, "orders")

	require.Len(t, notif.orders, 1)
	assert.Equal(t, "o1", notif.orders[0].ID)

	_, err = querycache.GetOrLoad(ctx, qc, "s1", querycache.Orders, nil, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "orders debe recargarse tras el INSERT")
}

func TestOrderWatcher_Update(t *testing.T) {
	ev := ports.ChangeEvent{
		Type:      ports.ChangeUpdate,
		Table:     "orders",
		Record:    []byte(`{"id":"o1","store_id":"s1","order_number":"ORD-1","status":"confirmed"}`),
		OldRecord: []byte(`{"id":"o1","status":"pending"}`),
	}
	w, pub, notif, _ := newWatcher(t, ev)
	require.NoError(t, w.Run(context.Background()))

	got := pub.events["s1"]
	require.Len(t, got, 2)
	data := got[0].Data.(realtime.OrderUpdatedData)
	assert.Equal(t, "pending", data.OldStatus)
	assert.Equal(t, "confirmed", data.Status)
	assert.Empty(t, notif.orders)
}

func TestOrderWatcher_IgnoresOtherEvents(t *testing.T) {
	w, pub, notif, _ := newWatcher(t,
		ports.ChangeEvent{Type: ports.ChangeDelete, Table: "orders", OldRecord: []byte(`{"id":"o1","store_id":"s1"}`)},
		ports.ChangeEvent{Type: ports.ChangeInsert, Table: "products", Record: []byte(`{"id":"p1","store_id":"s1"}`)},
		ports.ChangeEvent{Type: ports.ChangeInsert, Table: "orders", Record: []byte(`{"id":"o2"}`)},
	)
	require.NoError(t, w.Run(context.Background()))
	assert.Empty(t, pub.events)
	assert.Empty(t, notif.orders)
}
